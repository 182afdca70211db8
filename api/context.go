package api

import (
	"context"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

type keyType string

const userKey keyType = "user"

// ctxWithUser stores the authenticated admin on the request context
func ctxWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// ctxGetUser returns the authenticated admin, if the auth gate ran
func ctxGetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// actor names the admin behind the request for audit log lines
func actor(ctx context.Context) string {
	if user, ok := ctxGetUser(ctx); ok {
		return user.Email
	}
	return ""
}
