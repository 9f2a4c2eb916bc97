package middleware

import (
	"context"

	"github.com/brandquill/brandquill-backend/pkg/enums"
)

type contextKey string

const (
	ctxActorID contextKey = "actor_id"
	ctxParty   contextKey = "party"
	ctxBrandID contextKey = "brand_id"
)

func ActorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActorID).(string); ok {
		return v
	}
	return ""
}

func PartyFromContext(ctx context.Context) (enums.ContractParty, bool) {
	if ctx == nil {
		return "", false
	}
	raw, ok := ctx.Value(ctxParty).(string)
	if !ok {
		return "", false
	}
	party := enums.ContractParty(raw)
	if !party.IsValid() {
		return "", false
	}
	return party, true
}

func BrandIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxBrandID).(string); ok {
		return v
	}
	return ""
}

// WithActorID injects the actor identifier into the context.
func WithActorID(ctx context.Context, actorID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActorID, actorID)
}

// WithParty injects the actor's party into the context.
func WithParty(ctx context.Context, party enums.ContractParty) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxParty, party.String())
}

// WithBrandID injects the brand identifier into the context for brand actors.
func WithBrandID(ctx context.Context, brandID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxBrandID, brandID)
}
