package handler

import (
	"encoding/json"
	"time"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

// errorResponse is the error envelope rendered by the central error handler.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error"   example:"Not authorized, no token"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     example:"Ann"`
	Email    string `json:"email"    example:"ann@example.com"`
	Password string `json:"password" example:"password123"`
}

type loginRequest struct {
	Email    string `json:"email"    example:"ann@example.com"`
	Password string `json:"password" example:"password123"`
}

// userResponse is the public projection of a user.
type userResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	LastLoginAt *time.Time  `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type userEnvelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	User    *userResponse `json:"user"`
}

// --- Notes ---

type createNoteRequest struct {
	Title       string          `json:"title"       validate:"required"`
	Summary     string          `json:"summary"`
	ContentJSON json.RawMessage `json:"contentJSON" validate:"required" swaggertype:"object"`
	Visibility  string          `json:"visibility"  validate:"omitempty,oneof=public private"`
}

type updateNoteRequest struct {
	Title       *string         `json:"title"`
	Summary     *string         `json:"summary"`
	ContentJSON json.RawMessage `json:"contentJSON" swaggertype:"object"`
	Visibility  *string         `json:"visibility"  validate:"omitempty,oneof=public private"`
}

type noteResponse struct {
	ID            string                `json:"id"`
	Author        *domain.AuthorSummary `json:"author,omitempty"`
	AuthorID      string                `json:"authorId"`
	Title         string                `json:"title"`
	Summary       string                `json:"summary"`
	ContentJSON   json.RawMessage       `json:"contentJSON" swaggertype:"object"`
	Visibility    domain.Visibility     `json:"visibility"`
	Slug          string                `json:"slug"`
	LikesCount    int                   `json:"likesCount"`
	LikedByMe     bool                  `json:"likedByMe"`
	CommentsCount int                   `json:"commentsCount"`
	PublishedAt   *time.Time            `json:"publishedAt"`
	DeletedAt     *time.Time            `json:"deletedAt,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

type noteEnvelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Note    *noteResponse `json:"note"`
}

type noteListResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Notes   []*noteResponse `json:"notes"`
}

// --- Comments ---

type commentRequest struct {
	Body string `json:"body" validate:"required"`
}

type commentResponse struct {
	ID        string                `json:"id"`
	NoteID    string                `json:"noteId"`
	Author    *domain.AuthorSummary `json:"author,omitempty"`
	AuthorID  string                `json:"authorId"`
	Body      string                `json:"body"`
	EditedAt  *time.Time            `json:"editedAt,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

type commentEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Comment *commentResponse `json:"comment"`
}

type commentListQuery struct {
	Page  int `query:"page"  validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1"`
}

type commentListResponse struct {
	Success  bool               `json:"success"`
	Page     int                `json:"page"`
	Limit    int                `json:"limit"`
	Count    int                `json:"count"`
	Comments []*commentResponse `json:"comments"`
}

// --- Admin ---

type updateRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"newRole"`
}

type statsResponse struct {
	Success bool         `json:"success"`
	Stats   domain.Stats `json:"stats"`
}

type userListResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Users   []*userResponse `json:"users"`
}
