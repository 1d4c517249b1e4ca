package domain

import "context"

// Actor is the identity on whose behalf an operation runs. The zero value is
// the anonymous actor (public registration, login). Authenticated actors
// carry the principal id and role extracted from a verified token.
type Actor struct {
	ID   string
	Role Role

	authenticated bool
}

// Anonymous returns the unauthenticated actor.
func Anonymous() Actor {
	return Actor{}
}

// Authenticated returns an actor for a verified principal.
func Authenticated(id string, role Role) Actor {
	return Actor{ID: id, Role: role, authenticated: true}
}

// IsAnonymous reports whether the actor carries no verified identity.
func (a Actor) IsAnonymous() bool {
	return !a.authenticated
}

type actorKey struct{}

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext extracts the actor from the context. Absent actors are
// anonymous.
func ActorFromContext(ctx context.Context) Actor {
	a, ok := ctx.Value(actorKey{}).(Actor)
	if !ok {
		return Anonymous()
	}
	return a
}
