package service

import (
	"context"
	"errors"
	"time"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
)

type commentService struct {
	comments ports.CommentRepository
	notes    ports.NoteRepository
}

// NewCommentService returns a CommentService implementation.
func NewCommentService(comments ports.CommentRepository, notes ports.NoteRepository) ports.CommentService {
	return &commentService{comments: comments, notes: notes}
}

// Add comments on a note the author can read.
func (s *commentService) Add(ctx context.Context, noteID, authorID, body string) (*domain.Comment, error) {
	body, err := domain.NormalizeCommentBody(body)
	if err != nil {
		return nil, err
	}
	if err := s.checkNote(ctx, noteID, authorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.comments.Create(ctx, &domain.Comment{
		NoteID:    noteID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *commentService) List(ctx context.Context, noteID, viewerID string, page ports.Page) ([]*domain.Comment, error) {
	if err := s.checkNote(ctx, noteID, viewerID); err != nil {
		return nil, err
	}
	return s.comments.ListByNote(ctx, noteID, page.Normalize())
}

func (s *commentService) Edit(ctx context.Context, commentID, authorID, body string) (*domain.Comment, error) {
	body, err := domain.NormalizeCommentBody(body)
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, commentID, authorID); err != nil {
		return nil, err
	}
	return s.comments.UpdateBody(ctx, commentID, body, time.Now().UTC())
}

func (s *commentService) Delete(ctx context.Context, commentID, authorID string) error {
	comment, err := s.owned(ctx, commentID, authorID)
	if err != nil {
		return err
	}
	return s.comments.SoftDelete(ctx, comment, time.Now().UTC())
}

func (s *commentService) checkNote(ctx context.Context, noteID, viewerID string) error {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return err
	}
	if !note.VisibleTo(viewerID) {
		return domain.ErrNotePrivate
	}
	return nil
}

func (s *commentService) owned(ctx context.Context, commentID, authorID string) (*domain.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, domain.ErrCommentNotFound) {
			return nil, domain.ErrCommentNotOwned
		}
		return nil, err
	}
	if comment.AuthorID != authorID {
		return nil, domain.ErrCommentNotOwned
	}
	return comment, nil
}
