package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

const (
	MinPasswordLength = 8
	// bcrypt silently ignores input past this length, so longer passwords are refused.
	MaxPasswordBytes = 72
	MinNameLength    = 2
	MaxNameLength    = 80
)

// User models an account holder. PasswordHash and RefreshToken never leave
// the server.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	RefreshToken string     `json:"-"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// HasPassword is false for accounts created through a federated provider.
func (u *User) HasPassword() bool { return u.PasswordHash != "" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// NormalizeEmail trims and lowercases an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword applies the password length policy.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}
