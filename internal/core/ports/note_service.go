package ports

import (
	"context"
	"encoding/json"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

type CreateNoteInput struct {
	Title      string
	Summary    string
	Content    json.RawMessage
	Visibility domain.Visibility
}

// UpdateNoteInput carries only the fields the caller wants to change.
type UpdateNoteInput struct {
	Title      *string
	Summary    *string
	Content    json.RawMessage
	Visibility *domain.Visibility
}

type NoteService interface {
	Create(ctx context.Context, authorID string, in CreateNoteInput) (*domain.Note, error)
	ListMine(ctx context.Context, authorID string) ([]*domain.Note, error)
	ListPublic(ctx context.Context) ([]*domain.Note, error)
	Search(ctx context.Context, query string) ([]*domain.Note, error)
	GetBySlug(ctx context.Context, slug, viewerID string) (*domain.Note, error)
	Update(ctx context.Context, id, authorID string, in UpdateNoteInput) (*domain.Note, error)
	Delete(ctx context.Context, id, authorID string) error
	Like(ctx context.Context, id, userID string) error
	Unlike(ctx context.Context, id, userID string) error
}
