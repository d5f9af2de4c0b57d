package auth

import (
	"context"

	"github.com/linesmerrill/court-records-api/models"
)

type contextKey string

const actorContextKey contextKey = "actor"

// WithActor returns a copy of ctx carrying actor
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFrom returns the actor stored in ctx, if any
func ActorFrom(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(models.Actor)
	return actor, ok && actor.Valid()
}
