// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for the signed-in caseworker.
type ActorKey struct{}

// SessionKey is the context key for the session id.
type SessionKey struct{}

// Actor is the caseworker making the request.
type Actor struct {
	Name     string
	Username string
	Roles    []string
}

// WithActor returns a context with the actor embedded.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ActorKey{}, actor)
}

// ActorFromContext returns the actor from context and whether one was set.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(ActorKey{}).(Actor)
	return actor, ok
}

// WithSessionID returns a context with the session id embedded.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionKey{}, id)
}

// SessionIDFromContext returns the session id from context, or empty string if not set.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(SessionKey{}).(string); ok {
		return v
	}
	return ""
}
