package helpers

import (
	"context"

	"github.com/Rakhulsr/go-shop/app/models"
)

type contextKey string

const (
	ContextKeyUser      contextKey = "userObject"
	ContextKeyRequestID contextKey = "requestID"
)

func WithCaller(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ContextKeyUser, user)
}

// CallerFrom returns the authenticated user of the request, nil when anonymous.
func CallerFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(ContextKeyUser).(*models.User)
	return user
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}
