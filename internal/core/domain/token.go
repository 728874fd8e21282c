package domain

import "time"

// TokenPair is the access/refresh pair issued on login, registration and refresh.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenClaims is the verified content of either token kind.
type TokenClaims struct {
	UserID    string
	Name      string
	ExpiresAt time.Time
}
