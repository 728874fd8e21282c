package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const MaxCommentLength = 4000

var (
	ErrCommentEmpty   = Validation("Comment body is required")
	ErrCommentTooLong = Validation("Comment must be at most %d characters", MaxCommentLength)
)

type Comment struct {
	ID        string
	NoteID    string
	AuthorID  string
	Author    *AuthorSummary
	Body      string
	EditedAt  *time.Time
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Comment) IsDeleted() bool { return c.DeletedAt != nil }

// NormalizeCommentBody trims the body and enforces the length bounds.
func NormalizeCommentBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrCommentEmpty
	}
	if utf8.RuneCountInString(body) > MaxCommentLength {
		return "", ErrCommentTooLong
	}
	return body, nil
}
