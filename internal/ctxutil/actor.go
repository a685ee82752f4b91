// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import (
	"context"
	"os"
)

// ActorKey is the context key for actor ID.
// Exported so it can be used consistently across packages.
type ActorKey struct{}

// WithActorID returns a context with the actor ID embedded.
// The actor is the operator recorded on batch history entries.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// ActorFromContext returns the actor ID from context, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ActorKey{}).(string); ok {
		return v
	}
	return ""
}

// ActorFromEnv returns the operator name for a CLI invocation:
// BREWCTL_ACTOR, then USER, then empty.
func ActorFromEnv() string {
	if v := os.Getenv("BREWCTL_ACTOR"); v != "" {
		return v
	}
	return os.Getenv("USER")
}
