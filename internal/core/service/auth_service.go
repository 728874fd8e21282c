package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
)

var validate = validator.New()

// dummyPassword is hashed once so that logins for unknown emails cost the
// same bcrypt comparison as real ones.
const dummyPassword = "not-a-real-password"

type authService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	log    zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService returns an AuthService implementation.
func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	log zerolog.Logger,
) ports.AuthService {
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		log:    log,
	}
}

func (s *authService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	name, email, err := normalizeRegistration(in)
	if err != nil {
		return nil, err
	}

	_, err = s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	// The account exists from here on; if issuing the session fails the
	// client logs in with the same credentials.
	return s.startSession(ctx, user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummy())
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	// Federated accounts have no password and can never sign in this way.
	if !user.HasPassword() || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

// Logout revokes the stored refresh token. Failures are logged, never
// returned: the client is signed out regardless.
func (s *authService) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to clear refresh token on logout")
	}
	return nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.ErrNoRefreshToken
	}

	user, err := s.resolveRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	pair, err := s.rotate(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRefreshToken, err)
	}
	return &ports.AuthResult{User: user, Tokens: pair}, nil
}

// Authenticate resolves the user behind a request. A valid access token is
// enough; an expired or malformed one gets exactly one renewal attempt with
// the refresh token.
func (s *authService) Authenticate(ctx context.Context, accessToken, refreshToken string) (*ports.Session, error) {
	if accessToken == "" {
		return nil, domain.ErrNoToken
	}

	claims, verifyErr := s.tokens.VerifyAccess(accessToken)
	if verifyErr == nil {
		user, err := s.users.FindByID(ctx, claims.UserID)
		switch {
		case err == nil:
			return &ports.Session{User: user}, nil
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidID):
			return nil, fmt.Errorf("%w: %w", domain.ErrSessionRejected, err)
		default:
			// A store failure says nothing about the token; the session stays.
			return nil, fmt.Errorf("authenticate: %w", err)
		}
	}

	if refreshToken == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionRejected, verifyErr)
	}

	user, err := s.resolveRefresh(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionRejected, err)
	}

	pair, err := s.rotate(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionRejected, err)
	}

	s.log.Debug().Str("user_id", user.ID).Msg("session renewed with refresh token")
	return &ports.Session{User: user, Renewed: &pair}, nil
}

// EnsureAdmin creates the admin account, or resets the password and role of
// an existing account with the same email. The bool reports creation.
func (s *authService) EnsureAdmin(ctx context.Context, in ports.RegisterInput) (*domain.User, bool, error) {
	name, email, err := normalizeRegistration(in)
	if err != nil {
		return nil, false, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.users.SetCredentials(ctx, existing.ID, hash, domain.RoleAdmin); err != nil {
			return nil, false, fmt.Errorf("reset admin: %w", err)
		}
		existing.PasswordHash = hash
		existing.Role = domain.RoleAdmin
		return existing, false, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, false, fmt.Errorf("find admin: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	return user, true, nil
}

// startSession issues a pair and records the login.
func (s *authService) startSession(ctx context.Context, user *domain.User) (*ports.AuthResult, error) {
	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	now := time.Now().UTC()
	if err := s.users.RecordLogin(ctx, user.ID, pair.RefreshToken, now); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	user.RefreshToken = pair.RefreshToken
	user.LastLoginAt = &now

	return &ports.AuthResult{User: user, Tokens: pair}, nil
}

// resolveRefresh returns the owner of a refresh token that verifies and is
// still the one stored on the account.
func (s *authService) resolveRefresh(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.VerifyRefresh(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRefreshToken, err)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRefreshToken, err)
	}

	if user.RefreshToken == "" || subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(token)) != 1 {
		return nil, domain.ErrInvalidRefreshToken
	}
	return user, nil
}

// rotate replaces the stored refresh token with a freshly issued one.
func (s *authService) rotate(ctx context.Context, user *domain.User) (domain.TokenPair, error) {
	pair, err := s.tokens.Issue(user)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return domain.TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	user.RefreshToken = pair.RefreshToken
	return pair, nil
}

func (s *authService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(dummyPassword)
	})
	return s.dummyHash
}

func normalizeRegistration(in ports.RegisterInput) (name, email string, err error) {
	name = strings.TrimSpace(in.Name)
	email = domain.NormalizeEmail(in.Email)

	if name == "" || email == "" || in.Password == "" {
		return "", "", domain.ErrMissingFields
	}
	if n := utf8.RuneCountInString(name); n < domain.MinNameLength || n > domain.MaxNameLength {
		return "", "", domain.ErrInvalidName
	}
	if validate.Var(email, "email") != nil {
		return "", "", domain.ErrInvalidEmail
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return "", "", err
	}
	return name, email, nil
}
