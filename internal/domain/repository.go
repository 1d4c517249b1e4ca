package domain

import "context"

// PrincipalRepository is the external account store contract. The core never
// persists principals directly; it only receives and returns Principal
// values through this port.
//
// Insert must surface the store's email uniqueness violation as a
// *ConflictError so concurrent registrations of the same email resolve to
// the same outcome as the orchestrator's pre-check.
type PrincipalRepository interface {
	FindByEmail(ctx context.Context, email string) (*Principal, error)
	FindByID(ctx context.Context, id string) (*Principal, error)
	Insert(ctx context.Context, p *Principal) (*Principal, error)
	Save(ctx context.Context, p *Principal) (*Principal, error)
	Delete(ctx context.Context, id string) (*Principal, error)
	ListAll(ctx context.Context) ([]Principal, error)
}
