package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
)

type adminService struct {
	users    ports.UserRepository
	notes    ports.NoteRepository
	comments ports.CommentRepository
	log      zerolog.Logger
}

// NewAdminService returns an AdminService implementation.
func NewAdminService(
	users ports.UserRepository,
	notes ports.NoteRepository,
	comments ports.CommentRepository,
	log zerolog.Logger,
) ports.AdminService {
	return &adminService{users: users, notes: notes, comments: comments, log: log}
}

func (s *adminService) Stats(ctx context.Context) (*domain.Stats, error) {
	var (
		stats domain.Stats
		err   error
	)
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if stats.TotalNotes, err = s.notes.Count(ctx, ports.NoteFilter{}); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if stats.PublicNotes, err = s.notes.Count(ctx, ports.NoteFilter{Visibility: domain.VisibilityPublic}); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if stats.TotalComments, err = s.comments.Count(ctx); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, search string) ([]*domain.User, error) {
	return s.users.Search(ctx, strings.TrimSpace(search))
}

// UpdateUserRole is the only path that changes a role. Admins cannot change
// their own.
func (s *adminService) UpdateUserRole(ctx context.Context, actorID, userID string, role domain.Role) error {
	if userID == "" || role == "" {
		return domain.ErrMissingRoleArg
	}
	if !role.Valid() {
		return domain.ErrInvalidRole
	}
	if userID == actorID {
		return domain.ErrOwnRoleChange
	}

	user, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return err
	}
	s.log.Info().
		Str("actor_id", actorID).
		Str("user_id", user.ID).
		Str("role", string(role)).
		Msg("user role changed")
	return nil
}

// ListNotes includes soft-deleted notes so moderators see everything.
func (s *adminService) ListNotes(ctx context.Context, visibility domain.Visibility) ([]*domain.Note, error) {
	if visibility != "" && !visibility.Valid() {
		return nil, domain.ErrInvalidVisibility
	}
	return s.notes.List(ctx, ports.NoteFilter{Visibility: visibility, IncludeDeleted: true})
}

func (s *adminService) DeleteNote(ctx context.Context, noteID string) error {
	return s.notes.SoftDelete(ctx, noteID, time.Now().UTC())
}

func (s *adminService) DeleteComment(ctx context.Context, commentID string) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	return s.comments.SoftDelete(ctx, comment, time.Now().UTC())
}
