package ports

import "github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"

type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches hash. It never errors; a malformed
	// hash simply does not match.
	Verify(plain, hash string) bool
}

// TokenIssuer signs and verifies session tokens. Verification failures are
// domain.ErrTokenExpired or domain.ErrTokenInvalid.
type TokenIssuer interface {
	Issue(user *domain.User) (domain.TokenPair, error)
	VerifyAccess(token string) (*domain.TokenClaims, error)
	VerifyRefresh(token string) (*domain.TokenClaims, error)
}
