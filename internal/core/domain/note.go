package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

const (
	MaxTitleLength   = 160
	MaxSummaryLength = 280
	MaxContentBytes  = 100 * 1024
)

var (
	ErrTitleRequired     = Validation("Title is required")
	ErrTitleTooLong      = Validation("Title must be at most %d characters", MaxTitleLength)
	ErrSummaryTooLong    = Validation("Summary must be at most %d characters", MaxSummaryLength)
	ErrContentRequired   = Validation("Content is required")
	ErrContentInvalid    = Validation("Content must be a JSON document object")
	ErrContentTooLarge   = Validation("Content exceeds %d KB", MaxContentBytes/1024)
	ErrInvalidVisibility = Validation("Visibility must be one of: public, private")
)

// AuthorSummary is the slice of a user embedded in notes and comments.
type AuthorSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Note is a rich-text document. Content holds the editor state verbatim.
type Note struct {
	ID            string
	AuthorID      string
	Author        *AuthorSummary
	Title         string
	Summary       string
	Content       json.RawMessage
	Visibility    Visibility
	Slug          string
	LikedBy       []string
	CommentsCount int
	PublishedAt   *time.Time
	DeletedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (n *Note) LikesCount() int { return len(n.LikedBy) }

func (n *Note) IsDeleted() bool { return n.DeletedAt != nil }

// VisibleTo reports whether userID may read the note. An empty userID is an
// anonymous reader.
func (n *Note) VisibleTo(userID string) bool {
	if n.IsDeleted() {
		return false
	}
	return n.Visibility == VisibilityPublic || (userID != "" && n.AuthorID == userID)
}

// ApplyVisibility switches visibility and keeps PublishedAt consistent: it is
// stamped the first time a note goes public and cleared when it goes private.
func (n *Note) ApplyVisibility(v Visibility, now time.Time) {
	n.Visibility = v
	switch v {
	case VisibilityPublic:
		if n.PublishedAt == nil {
			n.PublishedAt = &now
		}
	case VisibilityPrivate:
		n.PublishedAt = nil
	}
}

func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func ValidateSummary(summary string) error {
	if utf8.RuneCountInString(strings.TrimSpace(summary)) > MaxSummaryLength {
		return ErrSummaryTooLong
	}
	return nil
}

// ValidateContent accepts a JSON object of at most MaxContentBytes.
func ValidateContent(raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ErrContentRequired
	}
	if len(trimmed) > MaxContentBytes {
		return ErrContentTooLarge
	}
	if trimmed[0] != '{' || !json.Valid(trimmed) {
		return ErrContentInvalid
	}
	return nil
}
