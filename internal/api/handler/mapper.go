package handler

import (
	"slices"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
)

// --- Domain → Response ---

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toUserResponses(users []*domain.User) []*userResponse {
	out := make([]*userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

// toNoteResponse renders n for viewerID, who may be empty.
func toNoteResponse(n *domain.Note, viewerID string) *noteResponse {
	return &noteResponse{
		ID:            n.ID,
		Author:        n.Author,
		AuthorID:      n.AuthorID,
		Title:         n.Title,
		Summary:       n.Summary,
		ContentJSON:   n.Content,
		Visibility:    n.Visibility,
		Slug:          n.Slug,
		LikesCount:    n.LikesCount(),
		LikedByMe:     viewerID != "" && slices.Contains(n.LikedBy, viewerID),
		CommentsCount: n.CommentsCount,
		PublishedAt:   n.PublishedAt,
		DeletedAt:     n.DeletedAt,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

func toNoteList(notes []*domain.Note, viewerID string) noteListResponse {
	out := make([]*noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n, viewerID))
	}
	return noteListResponse{Success: true, Count: len(out), Notes: out}
}

func toCommentResponse(c *domain.Comment) *commentResponse {
	return &commentResponse{
		ID:        c.ID,
		NoteID:    c.NoteID,
		Author:    c.Author,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		EditedAt:  c.EditedAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// --- Request → Service input ---

func toCreateNoteInput(req createNoteRequest) ports.CreateNoteInput {
	return ports.CreateNoteInput{
		Title:      req.Title,
		Summary:    req.Summary,
		Content:    req.ContentJSON,
		Visibility: domain.Visibility(req.Visibility),
	}
}

func toUpdateNoteInput(req updateNoteRequest) ports.UpdateNoteInput {
	in := ports.UpdateNoteInput{
		Title:   req.Title,
		Summary: req.Summary,
		Content: req.ContentJSON,
	}
	if req.Visibility != nil {
		v := domain.Visibility(*req.Visibility)
		in.Visibility = &v
	}
	return in
}
