package ports

import (
	"context"
	"time"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

type CommentRepository interface {
	// Create inserts the comment and increments the note's comment counter
	// atomically.
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByNote(ctx context.Context, noteID string, page Page) ([]*domain.Comment, error)
	UpdateBody(ctx context.Context, id, body string, editedAt time.Time) (*domain.Comment, error)
	// SoftDelete marks the comment deleted and decrements the note's counter
	// atomically.
	SoftDelete(ctx context.Context, comment *domain.Comment, at time.Time) error
	Count(ctx context.Context) (int64, error)
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Page) Skip() int64 { return int64((p.Number - 1) * p.Limit) }
