package ports

import (
	"context"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

type AdminService interface {
	Stats(ctx context.Context) (*domain.Stats, error)
	ListUsers(ctx context.Context, search string) ([]*domain.User, error)
	UpdateUserRole(ctx context.Context, actorID, userID string, role domain.Role) error
	ListNotes(ctx context.Context, visibility domain.Visibility) ([]*domain.Note, error)
	DeleteNote(ctx context.Context, noteID string) error
	DeleteComment(ctx context.Context, commentID string) error
}
