package domain

import "fmt"

// Kind classifies an operational error so the HTTP layer can map it to a
// status code without knowing every individual failure.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindNotFound
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Error is an expected failure whose message is safe to show to clients.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) *Error {
	return &Error{Kind: KindAuth, Msg: fmt.Sprintf(format, args...)}
}

// Auth and session.
var (
	ErrMissingFields       = Validation("Please provide all required fields")
	ErrInvalidEmail        = Validation("Please provide a valid email")
	ErrInvalidName         = Validation("Name must be between 2 and 80 characters")
	ErrPasswordTooShort    = Validation("Password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong     = Validation("Password must be at most %d bytes", MaxPasswordBytes)
	ErrEmailTaken          = Validation("Email already exists")
	ErrInvalidCredentials  = Unauthorized("Invalid email or password")
	ErrNoToken             = Unauthorized("Not authorized, no token")
	ErrSessionRejected     = Unauthorized("Not authorized, token failed")
	ErrNoRefreshToken      = Unauthorized("No refresh token provided")
	ErrInvalidRefreshToken = Unauthorized("Invalid refresh token")
	ErrAuthRequired        = Unauthorized("Authentication required")
	ErrAdminRequired       = Unauthorized("Admin access required")
	ErrUserNotFound        = NotFound("User not found")

	// ErrTokenExpired and ErrTokenInvalid never reach clients directly; the
	// session layer folds them into ErrSessionRejected or ErrInvalidRefreshToken.
	ErrTokenExpired = Unauthorized("Token expired")
	ErrTokenInvalid = Unauthorized("Token invalid")
)

// Content.
var (
	ErrInvalidID       = Validation("Invalid ID format")
	ErrDuplicateField  = Validation("Duplicate field value entered")
	ErrNoteNotFound    = NotFound("Note not found")
	ErrNoteNotOwned    = NotFound("Note not found or you do not own this note")
	ErrNotePrivate     = Unauthorized("This note is private")
	ErrCommentNotFound = NotFound("Comment not found")
	ErrCommentNotOwned = NotFound("Comment not found or you do not own this comment")
	ErrEmptySearch     = Validation("Search query is required")
	ErrRateLimited     = &Error{Kind: KindRateLimited, Msg: "Too many requests, please try again later."}
)

// Administration.
var (
	ErrInvalidRole    = Validation("Invalid role")
	ErrOwnRoleChange  = Validation("You cannot change your own role")
	ErrMissingRoleArg = Validation("userId and newRole are required")
)
