package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

type userKey struct{}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFrom returns the user attached by Session or OptionalSession.
func UserFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey{}).(*domain.User)
	return user, ok && user != nil
}

// CurrentUser is UserFrom for an echo context.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	return UserFrom(c.Request().Context())
}

func attachUser(c echo.Context, user *domain.User) {
	c.SetRequest(c.Request().WithContext(WithUser(c.Request().Context(), user)))
}
