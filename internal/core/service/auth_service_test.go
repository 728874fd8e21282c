package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
)

type authFixture struct {
	svc    ports.AuthService
	users  *stubUserRepo
	clock  *testClock
	hasher ports.PasswordHasher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	issuer, clock := newTestIssuer(t)
	users := newStubUserRepo()
	hasher := newTestHasher()
	return &authFixture{
		svc:    NewAuthService(users, hasher, issuer, zerolog.Nop()),
		users:  users,
		clock:  clock,
		hasher: hasher,
	}
}

func (f *authFixture) register(t *testing.T, name, email, password string) *ports.AuthResult {
	t.Helper()
	res, err := f.svc.Register(context.Background(), ports.RegisterInput{Name: name, Email: email, Password: password})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return res
}

func TestRegister_Success(t *testing.T) {
	f := newAuthFixture(t)

	res := f.register(t, "  Ann  ", "Ann@X.io", "secret123")

	if res.User.Name != "Ann" {
		t.Errorf("expected trimmed name Ann, got %q", res.User.Name)
	}
	if res.User.Email != "ann@x.io" {
		t.Errorf("expected lower-cased email, got %q", res.User.Email)
	}
	if res.User.Role != domain.RoleUser {
		t.Errorf("expected role user, got %q", res.User.Role)
	}
	if res.Tokens.AccessToken == "" || res.Tokens.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}

	stored := f.users.stored(t, res.User.ID)
	if stored.PasswordHash == "secret123" || stored.PasswordHash == "" {
		t.Errorf("expected a bcrypt hash to be stored, got %q", stored.PasswordHash)
	}
	if stored.RefreshToken != res.Tokens.RefreshToken {
		t.Error("expected refresh token to be persisted")
	}
	if stored.LastLoginAt == nil {
		t.Error("expected lastLoginAt to be stamped")
	}
}

func TestRegister_Validation(t *testing.T) {
	cases := []struct {
		name string
		in   ports.RegisterInput
		want error
	}{
		{"missing name", ports.RegisterInput{Email: "a@x.io", Password: "secret123"}, domain.ErrMissingFields},
		{"missing email", ports.RegisterInput{Name: "Ann", Password: "secret123"}, domain.ErrMissingFields},
		{"missing password", ports.RegisterInput{Name: "Ann", Email: "a@x.io"}, domain.ErrMissingFields},
		{"blank name", ports.RegisterInput{Name: "   ", Email: "a@x.io", Password: "secret123"}, domain.ErrMissingFields},
		{"short name", ports.RegisterInput{Name: "A", Email: "a@x.io", Password: "secret123"}, domain.ErrInvalidName},
		{"bad email", ports.RegisterInput{Name: "Ann", Email: "not-an-email", Password: "secret123"}, domain.ErrInvalidEmail},
		{"short password", ports.RegisterInput{Name: "Ann", Email: "a@x.io", Password: "short"}, domain.ErrPasswordTooShort},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAuthFixture(t)
			_, err := f.svc.Register(context.Background(), tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(f.users.users) != 0 {
				t.Fatal("expected no user to be created")
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "Ann", "ann@x.io", "secret123")

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{Name: "Other", Email: "ANN@x.io", Password: "secret123"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "Ann", "ann@x.io", "secret123")

	res, err := f.svc.Login(context.Background(), " ANN@x.io ", "secret123")
	if err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if res.User.ID != reg.User.ID {
		t.Errorf("expected user %s, got %s", reg.User.ID, res.User.ID)
	}
	if res.Tokens.RefreshToken == reg.Tokens.RefreshToken {
		t.Error("expected a fresh refresh token on login")
	}
	if f.users.stored(t, reg.User.ID).RefreshToken != res.Tokens.RefreshToken {
		t.Error("expected the login refresh token to replace the stored one")
	}
}

func TestLogin_Failures(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "Ann", "ann@x.io", "secret123")

	federated, err := f.users.Create(context.Background(), &domain.User{Name: "Fed", Email: "fed@x.io", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("seed federated user: %v", err)
	}

	cases := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"wrong password", "ann@x.io", "wrong-password", domain.ErrInvalidCredentials},
		{"unknown email", "nobody@x.io", "secret123", domain.ErrInvalidCredentials},
		{"no password on account", federated.Email, "secret123", domain.ErrInvalidCredentials},
		{"missing password", "ann@x.io", "", domain.ErrMissingFields},
		{"missing email", "", "secret123", domain.ErrMissingFields},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), tc.email, tc.password)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "Ann", "ann@x.io", "secret123")

	if err := f.svc.Logout(context.Background(), reg.User.ID); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if f.users.stored(t, reg.User.ID).RefreshToken != "" {
		t.Fatal("expected stored refresh token to be cleared")
	}

	_, err := f.svc.Refresh(context.Background(), reg.Tokens.RefreshToken)
	if !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
}

func TestLogout_IgnoresStoreFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.users.clearErr = errors.New("connection reset")

	if err := f.svc.Logout(context.Background(), "user-1"); err != nil {
		t.Fatalf("expected logout to swallow store errors, got %v", err)
	}
	if err := f.svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("expected anonymous logout to succeed, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "Ann", "ann@x.io", "secret123")

	res, err := f.svc.Refresh(context.Background(), reg.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("expected refresh to succeed, got %v", err)
	}
	if res.Tokens.RefreshToken == reg.Tokens.RefreshToken {
		t.Fatal("expected refresh token to rotate")
	}
	if f.users.stored(t, reg.User.ID).RefreshToken != res.Tokens.RefreshToken {
		t.Fatal("expected rotated token to be stored")
	}

	// The previous token is no longer the stored one.
	_, err = f.svc.Refresh(context.Background(), reg.Tokens.RefreshToken)
	if !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected stale token to be rejected, got %v", err)
	}
}

func TestRefresh_Rejections(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "Ann", "ann@x.io", "secret123")

	if _, err := f.svc.Refresh(context.Background(), ""); !errors.Is(err, domain.ErrNoRefreshToken) {
		t.Errorf("expected ErrNoRefreshToken, got %v", err)
	}
	if _, err := f.svc.Refresh(context.Background(), reg.Tokens.AccessToken); !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Errorf("expected access token to be refused as refresh token, got %v", err)
	}
	if _, err := f.svc.Refresh(context.Background(), "garbage"); !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Errorf("expected malformed token to be rejected, got %v", err)
	}

	f.clock.Advance(8 * 24 * time.Hour)
	_, err := f.svc.Refresh(context.Background(), reg.Tokens.RefreshToken)
	if !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Errorf("expected expired refresh token to be rejected, got %v", err)
	}
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected expiry to be preserved in the chain, got %v", err)
	}
}

func TestAuthenticate_ValidAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "Ann", "ann@x.io", "secret123")

	sess, err := f.svc.Authenticate(context.Background(), reg.Tokens.AccessToken, reg.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("expected session, got %v", err)
	}
	if sess.User.ID != reg.User.ID {
		t.Errorf("expected user %s, got %s", reg.User.ID, sess.User.ID)
	}
	if sess.Renewed != nil {
		t.Error("expected no renewal for a valid access token")
	}
}

func TestAuthenticate_RenewsExpiredAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "Ann", "ann@x.io", "secret123")

	f.clock.Advance(16 * time.Minute)

	sess, err := f.svc.Authenticate(context.Background(), reg.Tokens.AccessToken, reg.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("expected renewal, got %v", err)
	}
	if sess.Renewed == nil {
		t.Fatal("expected a renewed token pair")
	}
	if sess.Renewed.AccessToken == reg.Tokens.AccessToken || sess.Renewed.RefreshToken == reg.Tokens.RefreshToken {
		t.Fatal("expected both renewed tokens to differ from the originals")
	}
	if f.users.stored(t, reg.User.ID).RefreshToken != sess.Renewed.RefreshToken {
		t.Fatal("expected renewed refresh token to be stored")
	}

	// The renewed access token works on its own.
	again, err := f.svc.Authenticate(context.Background(), sess.Renewed.AccessToken, "")
	if err != nil || again.Renewed != nil {
		t.Fatalf("expected renewed access token to authenticate directly, got %v", err)
	}
}

func TestAuthenticate_MalformedAccessTokenRenews(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "Ann", "ann@x.io", "secret123")

	sess, err := f.svc.Authenticate(context.Background(), "not-a-jwt", reg.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("expected renewal, got %v", err)
	}
	if sess.Renewed == nil {
		t.Fatal("expected a renewed token pair")
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	f := newAuthFixture(t)
	ann := f.register(t, "Ann", "ann@x.io", "secret123")
	bob := f.register(t, "Bob", "bob@x.io", "secret123")

	if _, err := f.svc.Authenticate(context.Background(), "", ann.Tokens.RefreshToken); !errors.Is(err, domain.ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}

	f.clock.Advance(16 * time.Minute)

	cases := []struct {
		name    string
		access  string
		refresh string
	}{
		{"expired without refresh", ann.Tokens.AccessToken, ""},
		{"tampered tokens", ann.Tokens.AccessToken + "x", bob.Tokens.RefreshToken + "x"},
		{"access token in refresh slot", ann.Tokens.AccessToken, ann.Tokens.AccessToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Authenticate(context.Background(), tc.access, tc.refresh)
			if !errors.Is(err, domain.ErrSessionRejected) {
				t.Fatalf("expected ErrSessionRejected, got %v", err)
			}
		})
	}
}

func TestAuthenticate_MismatchedRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "Ann", "ann@x.io", "secret123")

	// Log in again so the first refresh token is superseded.
	if _, err := f.svc.Login(context.Background(), "ann@x.io", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	f.clock.Advance(16 * time.Minute)

	_, err := f.svc.Authenticate(context.Background(), reg.Tokens.AccessToken, reg.Tokens.RefreshToken)
	if !errors.Is(err, domain.ErrSessionRejected) {
		t.Fatalf("expected ErrSessionRejected, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected cause ErrInvalidRefreshToken, got %v", err)
	}
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "Ann", "ann@x.io", "secret123")
	delete(f.users.users, reg.User.ID)

	_, err := f.svc.Authenticate(context.Background(), reg.Tokens.AccessToken, reg.Tokens.RefreshToken)
	if !errors.Is(err, domain.ErrSessionRejected) {
		t.Fatalf("expected ErrSessionRejected, got %v", err)
	}
}

func TestAuthenticate_StoreFailureKeepsSession(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "Ann", "ann@x.io", "secret123")
	storeErr := errors.New("server selection timeout")
	f.users.findErr = storeErr

	_, err := f.svc.Authenticate(context.Background(), reg.Tokens.AccessToken, reg.Tokens.RefreshToken)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected the store error, got %v", err)
	}
	if errors.Is(err, domain.ErrSessionRejected) {
		t.Fatalf("store failure must not reject the session: %v", err)
	}
	var de *domain.Error
	if errors.As(err, &de) {
		t.Fatalf("expected an internal error, got kind %v", de.Kind)
	}
}

func TestAuthenticate_InvalidUserID(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "Ann", "ann@x.io", "secret123")
	f.users.findErr = domain.ErrInvalidID

	_, err := f.svc.Authenticate(context.Background(), reg.Tokens.AccessToken, "")
	if !errors.Is(err, domain.ErrSessionRejected) {
		t.Fatalf("expected ErrSessionRejected, got %v", err)
	}
}

func TestEnsureAdmin_CreatesAccount(t *testing.T) {
	f := newAuthFixture(t)

	user, created, err := f.svc.EnsureAdmin(context.Background(), ports.RegisterInput{Name: "Admin", Email: "root@x.io", Password: "admin-secret"})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %q", user.Role)
	}

	if _, err := f.svc.Login(context.Background(), "root@x.io", "admin-secret"); err != nil {
		t.Fatalf("expected admin to log in, got %v", err)
	}
}

func TestEnsureAdmin_PromotesExistingAccount(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "Ann", "ann@x.io", "secret123")

	user, created, err := f.svc.EnsureAdmin(context.Background(), ports.RegisterInput{Name: "Ann", Email: "ann@x.io", Password: "new-admin-secret"})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if created {
		t.Error("expected created=false for an existing email")
	}
	if user.ID != reg.User.ID {
		t.Errorf("expected existing user %s, got %s", reg.User.ID, user.ID)
	}

	stored := f.users.stored(t, reg.User.ID)
	if stored.Role != domain.RoleAdmin {
		t.Errorf("expected stored role admin, got %q", stored.Role)
	}
	if !f.hasher.Verify("new-admin-secret", stored.PasswordHash) {
		t.Error("expected password to be reset")
	}
}

func TestEnsureAdmin_Validation(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.svc.EnsureAdmin(context.Background(), ports.RegisterInput{Name: "Admin", Email: "root@x.io"})
	if !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}
