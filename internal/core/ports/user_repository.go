package ports

import (
	"context"
	"time"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// RecordLogin stores the live refresh token and stamps lastLoginAt.
	RecordLogin(ctx context.Context, id, refreshToken string, at time.Time) error
	SetRefreshToken(ctx context.Context, id, refreshToken string) error
	ClearRefreshToken(ctx context.Context, id string) error
	SetCredentials(ctx context.Context, id, passwordHash string, role domain.Role) error
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	Search(ctx context.Context, query string) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
}
