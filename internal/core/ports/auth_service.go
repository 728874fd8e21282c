package ports

import (
	"context"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is a signed-in user plus the tokens to hand to the client.
type AuthResult struct {
	User   *domain.User
	Tokens domain.TokenPair
}

// Session is the outcome of authenticating a request. Renewed is set when the
// access token was replaced using the refresh token.
type Session struct {
	User    *domain.User
	Renewed *domain.TokenPair
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Authenticate(ctx context.Context, accessToken, refreshToken string) (*Session, error)
	EnsureAdmin(ctx context.Context, in RegisterInput) (*domain.User, bool, error)
}
