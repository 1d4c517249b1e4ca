package security

import (
	"context"
	"errors"
	"time"

	"admin-console/internal/authz"
	"admin-console/internal/domain"
	"admin-console/internal/token"
)

// AccountService composes the authorization matrix, credential lifecycle
// manager, and token issuer into the register/login/update/delete/reveal use
// cases. Every operation returns success data or a typed domain error; none
// panic past this boundary.
type AccountService struct {
	repo   domain.PrincipalRepository
	creds  *CredentialManager
	tokens *token.Issuer
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo domain.PrincipalRepository, creds *CredentialManager, tokens *token.Issuer) *AccountService {
	return &AccountService{repo: repo, creds: creds, tokens: tokens}
}

// Register validates and creates a new account, then issues a token for it.
//
// The effective role is decided against the requesting actor: anonymous
// registration always yields User regardless of the requested role, so no
// escalation is possible through the public endpoint. Authenticated actors
// are checked against the matrix for the role they assign.
func (s *AccountService) Register(ctx context.Context, actor domain.Actor, req domain.RegisterRequest) (*domain.AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	role := req.Role
	if actor.IsAnonymous() {
		role = domain.RoleUser
	} else if err := authz.Decide(authz.Request{
		Actor:      actor.Role,
		Op:         authz.OpAssignRole,
		AssignRole: role,
	}).Err(); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrConflict("an account with this email already exists")
	} else if !errors.As(err, new(*domain.NotFoundError)) {
		return nil, err
	}

	stored, err := s.creds.OnWrite(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Insert(ctx, &domain.Principal{
		ID:         domain.NewID(),
		Name:       req.Name,
		Email:      req.Email,
		Credential: stored,
		Role:       role,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		// The store's uniqueness constraint is the final arbiter for
		// concurrent registrations; its conflict maps to the same outcome
		// as the pre-check.
		return nil, err
	}

	tok, err := s.tokens.Issue(created.ID, created.Role, 0)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{Token: tok, Principal: created}, nil
}

// Login authenticates by email and secret and issues a token. A missing
// account and a wrong secret return the identical ErrInvalidCredentials
// outcome so responses cannot be used to enumerate accounts.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrValidation("email is required")
	}
	if password == "" {
		return nil, domain.ErrValidation("password is required")
	}

	p, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.As(err, new(*domain.NotFoundError)) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.creds.OnVerify(password, p.Credential) {
		return nil, domain.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(p.ID, p.Role, 0)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{Token: tok, Principal: p}, nil
}

// GetSelf returns the actor's own profile.
func (s *AccountService) GetSelf(ctx context.Context, actor domain.Actor) (*domain.Principal, error) {
	if actor.IsAnonymous() {
		return nil, domain.ErrAccessDenied("authentication required")
	}
	return s.repo.FindByID(ctx, actor.ID)
}

// ListAll returns every account. Restricted to Admin and SuperAdmin.
func (s *AccountService) ListAll(ctx context.Context, actor domain.Actor) ([]domain.Principal, error) {
	if actor.IsAnonymous() {
		return nil, domain.ErrAccessDenied("authentication required")
	}
	if err := authz.Decide(authz.Request{Actor: actor.Role, Op: authz.OpList}).Err(); err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx)
}

// Update applies a partial update to the target account. Fields absent from
// the request are untouched. A new secret is re-encrypted through the
// lifecycle manager, which is also how legacy records migrate to the
// encrypted format.
func (s *AccountService) Update(ctx context.Context, actor domain.Actor, targetID string, req domain.UpdateRequest) (*domain.Principal, error) {
	if actor.IsAnonymous() {
		return nil, domain.ErrAccessDenied("authentication required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	decision := authz.Decide(authz.Request{
		Actor:  actor.Role,
		Target: target.Role,
		Self:   actor.ID == target.ID,
		Op:     authz.OpUpdate,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}
	if req.Role != nil {
		decision = authz.Decide(authz.Request{
			Actor:      actor.Role,
			Target:     target.Role,
			Self:       actor.ID == target.ID,
			Op:         authz.OpChangeRole,
			AssignRole: *req.Role,
		})
		if err := decision.Err(); err != nil {
			return nil, err
		}
	}

	if req.Email != nil && *req.Email != target.Email {
		if _, err := s.repo.FindByEmail(ctx, *req.Email); err == nil {
			return nil, domain.ErrConflict("email is already in use")
		} else if !errors.As(err, new(*domain.NotFoundError)) {
			return nil, err
		}
		target.Email = *req.Email
	}
	if req.Name != nil {
		target.Name = *req.Name
	}
	if req.Password != nil {
		stored, err := s.creds.OnWrite(*req.Password)
		if err != nil {
			return nil, err
		}
		target.Credential = stored
	}
	if req.Role != nil {
		target.Role = *req.Role
	}
	target.UpdatedAt = time.Now().UTC()

	return s.repo.Save(ctx, target)
}

// Delete removes the target account and returns it. Deleting one's own
// account is rejected deterministically before any role rule applies.
func (s *AccountService) Delete(ctx context.Context, actor domain.Actor, targetID string) (*domain.Principal, error) {
	if actor.IsAnonymous() {
		return nil, domain.ErrAccessDenied("authentication required")
	}
	if actor.ID == targetID {
		return nil, domain.ErrSelfDeleteForbidden
	}
	if err := authz.Decide(authz.Request{Actor: actor.Role, Op: authz.OpDelete}).Err(); err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, targetID)
}

// RevealCredential returns the plaintext secret of the target account. The
// matrix gates who may see whose secret; legacy records surface
// ErrIrreversible distinctly so callers can render the appropriate message.
func (s *AccountService) RevealCredential(ctx context.Context, actor domain.Actor, targetID string) (string, error) {
	if actor.IsAnonymous() {
		return "", domain.ErrAccessDenied("authentication required")
	}
	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return "", err
	}
	decision := authz.Decide(authz.Request{
		Actor:  actor.Role,
		Target: target.Role,
		Self:   actor.ID == target.ID,
		Op:     authz.OpReveal,
	})
	if err := decision.Err(); err != nil {
		return "", err
	}
	return s.creds.OnReveal(target.Credential)
}
