package models

import (
	"context"

	"github.com/gin-gonic/gin"
)

type userKey struct{}

// WithUser returns a copy of ctx carrying the signed-in user.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the user stored by WithUser, or by LoadUser under the
// "user" key of a gin context. nil when nobody is signed in.
func UserFromContext(ctx context.Context) *User {
	if user, ok := ctx.Value(userKey{}).(*User); ok {
		return user
	}
	if ginCtx, ok := ctx.(*gin.Context); ok {
		if userVal, exists := ginCtx.Get("user"); exists {
			if user, ok := userVal.(*User); ok {
				return user
			}
		}
	}
	return nil
}

// GetUserEmailFromContext returns the signed-in user's email, or "".
func GetUserEmailFromContext(ctx context.Context) string {
	if user := UserFromContext(ctx); user != nil {
		return user.Email
	}
	return ""
}
