package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

var testTokenConfig = TokenConfig{
	AccessSecret:  "access-secret",
	RefreshSecret: "refresh-secret",
	AccessTTL:     15 * time.Minute,
	RefreshTTL:    7 * 24 * time.Hour,
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestIssuer(t *testing.T) (*TokenIssuer, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	issuer, err := NewTokenIssuer(testTokenConfig, WithClock(clock.Now))
	require.NoError(t, err)
	return issuer, clock
}

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer, clock := newTestIssuer(t)
	user := &domain.User{ID: "65f1c0ffee0000000000abcd", Name: "Ann"}

	pair, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, clock.t.Add(15*time.Minute), pair.AccessExpiresAt)
	assert.Equal(t, clock.t.Add(7*24*time.Hour), pair.RefreshExpiresAt)

	access, err := issuer.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, access.UserID)
	assert.Equal(t, "Ann", access.Name)

	refresh, err := issuer.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refresh.UserID)
}

func TestTokenIssuer_SuccessiveIssuesDiffer(t *testing.T) {
	issuer, _ := newTestIssuer(t)
	user := &domain.User{ID: "u1", Name: "Ann"}

	a, err := issuer.Issue(user)
	require.NoError(t, err)
	b, err := issuer.Issue(user)
	require.NoError(t, err)

	assert.NotEqual(t, a.AccessToken, b.AccessToken)
	assert.NotEqual(t, a.RefreshToken, b.RefreshToken)
}

func TestTokenIssuer_ExpiredIsDistinguished(t *testing.T) {
	issuer, clock := newTestIssuer(t)

	pair, err := issuer.Issue(&domain.User{ID: "u1"})
	require.NoError(t, err)

	clock.t = clock.t.Add(16 * time.Minute)

	_, err = issuer.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)

	// The refresh token outlives the access token.
	_, err = issuer.VerifyRefresh(pair.RefreshToken)
	assert.NoError(t, err)

	clock.t = clock.t.Add(8 * 24 * time.Hour)
	_, err = issuer.VerifyRefresh(pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenIssuer_RejectsCrossUse(t *testing.T) {
	issuer, _ := newTestIssuer(t)

	pair, err := issuer.Issue(&domain.User{ID: "u1"})
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	_, err = issuer.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenIssuer_RejectsMalformedAndForeignTokens(t *testing.T) {
	issuer, clock := newTestIssuer(t)

	_, err := issuer.VerifyAccess("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	// Signed with another algorithm.
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":  "u1",
		"exp": clock.t.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.VerifyAccess(none)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	// No expiry.
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "u1"}).
		SignedString([]byte(testTokenConfig.AccessSecret))
	require.NoError(t, err)
	_, err = issuer.VerifyAccess(noExp)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	// No subject at all.
	anon, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": clock.t.Add(time.Hour).Unix(),
	}).SignedString([]byte(testTokenConfig.AccessSecret))
	require.NoError(t, err)
	_, err = issuer.VerifyAccess(anon)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenIssuer_AcceptsSubjectOnlyTokens(t *testing.T) {
	issuer, clock := newTestIssuer(t)

	legacy, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u9",
		"exp": clock.t.Add(time.Minute).Unix(),
	}).SignedString([]byte(testTokenConfig.AccessSecret))
	require.NoError(t, err)

	c, err := issuer.VerifyAccess(legacy)
	require.NoError(t, err)
	assert.Equal(t, "u9", c.UserID)
}

func TestNewTokenIssuer_ConfigValidation(t *testing.T) {
	cases := map[string]TokenConfig{
		"missing access":  {RefreshSecret: "r", AccessTTL: time.Minute, RefreshTTL: time.Hour},
		"missing refresh": {AccessSecret: "a", AccessTTL: time.Minute, RefreshTTL: time.Hour},
		"shared secret":   {AccessSecret: "same", RefreshSecret: "same", AccessTTL: time.Minute, RefreshTTL: time.Hour},
		"zero ttl":        {AccessSecret: "a", RefreshSecret: "r", RefreshTTL: time.Hour},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewTokenIssuer(cfg)
			assert.Error(t, err)
		})
	}
}
