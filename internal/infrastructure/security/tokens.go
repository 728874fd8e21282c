package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

// TokenConfig holds the signing material for both token kinds. The two
// secrets must differ so a refresh token can never pass as an access token.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (c TokenConfig) validate() error {
	switch {
	case c.AccessSecret == "" || c.RefreshSecret == "":
		return errors.New("token issuer: access and refresh secrets are required")
	case c.AccessSecret == c.RefreshSecret:
		return errors.New("token issuer: access and refresh secrets must differ")
	case c.AccessTTL <= 0 || c.RefreshTTL <= 0:
		return errors.New("token issuer: token TTLs must be positive")
	}
	return nil
}

type claims struct {
	UserID string `json:"id"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs HS256 access/refresh pairs.
type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

type Option func(*TokenIssuer)

// WithClock replaces time.Now for signing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(t *TokenIssuer) { t.now = now }
}

func NewTokenIssuer(cfg TokenConfig, opts ...Option) (*TokenIssuer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	t := &TokenIssuer{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *TokenIssuer) Issue(user *domain.User) (domain.TokenPair, error) {
	now := t.now()

	access, accessExp, err := t.sign(t.cfg.AccessSecret, user.ID, user.Name, now, t.cfg.AccessTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, refreshExp, err := t.sign(t.cfg.RefreshSecret, user.ID, "", now, t.cfg.RefreshTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (t *TokenIssuer) VerifyAccess(token string) (*domain.TokenClaims, error) {
	return t.verify(token, t.cfg.AccessSecret)
}

func (t *TokenIssuer) VerifyRefresh(token string) (*domain.TokenClaims, error) {
	return t.verify(token, t.cfg.RefreshSecret)
}

func (t *TokenIssuer) sign(secret, userID, name string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	c := claims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (t *TokenIssuer) verify(token, secret string) (*domain.TokenClaims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	userID := c.UserID
	if userID == "" {
		userID = c.Subject
	}
	if userID == "" {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.TokenClaims{
		UserID:    userID,
		Name:      c.Name,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
