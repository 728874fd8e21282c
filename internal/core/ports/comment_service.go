package ports

import (
	"context"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

type CommentService interface {
	Add(ctx context.Context, noteID, authorID, body string) (*domain.Comment, error)
	List(ctx context.Context, noteID, viewerID string, page Page) ([]*domain.Comment, error)
	Edit(ctx context.Context, commentID, authorID, body string) (*domain.Comment, error)
	Delete(ctx context.Context, commentID, authorID string) error
}
