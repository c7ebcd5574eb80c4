package domain

import (
	"context"

	"github.com/google/uuid"
)

type actorKey struct{}

// WithActor records the authenticated user performing the request.
func WithActor(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

func ActorFrom(ctx context.Context) uuid.NullUUID {
	id, ok := ctx.Value(actorKey{}).(uuid.UUID)
	if !ok {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: id, Valid: true}
}
