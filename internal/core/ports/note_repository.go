package ports

import (
	"context"
	"time"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

// NoteFilter narrows List. The zero value matches every live note.
type NoteFilter struct {
	AuthorID       string
	Visibility     domain.Visibility
	IncludeDeleted bool
}

type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) (*domain.Note, error)
	// FindByID and FindBySlug never return soft-deleted notes.
	FindByID(ctx context.Context, id string) (*domain.Note, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Note, error)
	Update(ctx context.Context, note *domain.Note) (*domain.Note, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filter NoteFilter) ([]*domain.Note, error)
	Search(ctx context.Context, query string) ([]*domain.Note, error)
	AddLike(ctx context.Context, id, userID string) error
	RemoveLike(ctx context.Context, id, userID string) error
	Count(ctx context.Context, filter NoteFilter) (int64, error)
}
