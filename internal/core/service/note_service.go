package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
)

type noteService struct {
	notes ports.NoteRepository
	log   zerolog.Logger
}

// NewNoteService returns a NoteService implementation.
func NewNoteService(notes ports.NoteRepository, log zerolog.Logger) ports.NoteService {
	return &noteService{notes: notes, log: log}
}

func (s *noteService) Create(ctx context.Context, authorID string, in ports.CreateNoteInput) (*domain.Note, error) {
	title := strings.TrimSpace(in.Title)
	summary := strings.TrimSpace(in.Summary)
	if err := domain.ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := domain.ValidateSummary(summary); err != nil {
		return nil, err
	}
	if err := domain.ValidateContent(in.Content); err != nil {
		return nil, err
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}
	if !visibility.Valid() {
		return nil, domain.ErrInvalidVisibility
	}

	now := time.Now().UTC()
	note := &domain.Note{
		AuthorID:  authorID,
		Title:     title,
		Summary:   summary,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	note.ApplyVisibility(visibility, now)

	// Retry on the rare (author, slug) collision with a fresh suffix.
	for attempt := 1; ; attempt++ {
		note.Slug = newSlug(title)
		created, err := s.notes.Create(ctx, note)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, domain.ErrDuplicateField) || attempt == maxSlugAttempts {
			return nil, fmt.Errorf("create note: %w", err)
		}
		s.log.Debug().Str("slug", note.Slug).Msg("slug collision, retrying")
	}
}

func (s *noteService) ListMine(ctx context.Context, authorID string) ([]*domain.Note, error) {
	return s.notes.List(ctx, ports.NoteFilter{AuthorID: authorID})
}

func (s *noteService) ListPublic(ctx context.Context) ([]*domain.Note, error) {
	return s.notes.List(ctx, ports.NoteFilter{Visibility: domain.VisibilityPublic})
}

func (s *noteService) Search(ctx context.Context, query string) ([]*domain.Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptySearch
	}
	return s.notes.Search(ctx, query)
}

// GetBySlug returns a public note, or a private one to its author.
func (s *noteService) GetBySlug(ctx context.Context, slug, viewerID string) (*domain.Note, error) {
	note, err := s.notes.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !note.VisibleTo(viewerID) {
		return nil, domain.ErrNotePrivate
	}
	return note, nil
}

func (s *noteService) Update(ctx context.Context, id, authorID string, in ports.UpdateNoteInput) (*domain.Note, error) {
	note, err := s.owned(ctx, id, authorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	titleChanged := false

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := domain.ValidateTitle(title); err != nil {
			return nil, err
		}
		if title != note.Title {
			note.Title = title
			titleChanged = true
		}
	}
	if in.Summary != nil {
		summary := strings.TrimSpace(*in.Summary)
		if err := domain.ValidateSummary(summary); err != nil {
			return nil, err
		}
		note.Summary = summary
	}
	if in.Content != nil {
		if err := domain.ValidateContent(in.Content); err != nil {
			return nil, err
		}
		note.Content = in.Content
	}
	if in.Visibility != nil {
		if !in.Visibility.Valid() {
			return nil, domain.ErrInvalidVisibility
		}
		note.ApplyVisibility(*in.Visibility, now)
	}
	note.UpdatedAt = now

	for attempt := 1; ; attempt++ {
		if titleChanged {
			note.Slug = newSlug(note.Title)
		}
		updated, err := s.notes.Update(ctx, note)
		if err == nil {
			return updated, nil
		}
		if !titleChanged || !errors.Is(err, domain.ErrDuplicateField) || attempt == maxSlugAttempts {
			return nil, fmt.Errorf("update note: %w", err)
		}
	}
}

func (s *noteService) Delete(ctx context.Context, id, authorID string) error {
	if _, err := s.owned(ctx, id, authorID); err != nil {
		return err
	}
	return s.notes.SoftDelete(ctx, id, time.Now().UTC())
}

func (s *noteService) Like(ctx context.Context, id, userID string) error {
	if _, err := s.readable(ctx, id, userID); err != nil {
		return err
	}
	return s.notes.AddLike(ctx, id, userID)
}

func (s *noteService) Unlike(ctx context.Context, id, userID string) error {
	if _, err := s.readable(ctx, id, userID); err != nil {
		return err
	}
	return s.notes.RemoveLike(ctx, id, userID)
}

// owned loads a live note that belongs to authorID. Someone else's note is
// reported exactly like a missing one.
func (s *noteService) owned(ctx context.Context, id, authorID string) (*domain.Note, error) {
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			return nil, domain.ErrNoteNotOwned
		}
		return nil, err
	}
	if note.AuthorID != authorID {
		return nil, domain.ErrNoteNotOwned
	}
	return note, nil
}

func (s *noteService) readable(ctx context.Context, id, viewerID string) (*domain.Note, error) {
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !note.VisibleTo(viewerID) {
		return nil, domain.ErrNotePrivate
	}
	return note, nil
}
