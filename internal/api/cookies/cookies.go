// Package cookies moves session tokens between HTTP requests and responses.
package cookies

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

// Options configures a Transport. Zero names fall back to the defaults.
type Options struct {
	AccessName  string
	RefreshName string
	// LegacyName is read as a last resort and cleared on logout.
	LegacyName string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// CrossSite marks cookies Secure with SameSite=None so a frontend on
	// another origin can send them. Otherwise SameSite=Lax over plain HTTP.
	CrossSite bool
}

type Transport struct {
	opts Options
}

func New(opts Options) *Transport {
	if opts.AccessName == "" {
		opts.AccessName = "accessToken"
	}
	if opts.RefreshName == "" {
		opts.RefreshName = "refreshToken"
	}
	return &Transport{opts: opts}
}

// Set writes both tokens of pair as HttpOnly cookies.
func (t *Transport) Set(c echo.Context, pair domain.TokenPair) {
	c.SetCookie(t.cookie(t.opts.AccessName, pair.AccessToken, t.opts.AccessTTL, pair.AccessExpiresAt))
	c.SetCookie(t.cookie(t.opts.RefreshName, pair.RefreshToken, t.opts.RefreshTTL, pair.RefreshExpiresAt))
}

// Clear expires every session cookie on the client.
func (t *Transport) Clear(c echo.Context) {
	for _, name := range t.names() {
		ck := t.cookie(name, "", 0, time.Unix(0, 0))
		ck.MaxAge = -1
		c.SetCookie(ck)
	}
}

// AccessToken returns the access token from the access cookie, the
// Authorization bearer header or the legacy cookie, in that order.
func (t *Transport) AccessToken(c echo.Context) string {
	if v := t.read(c, t.opts.AccessName); v != "" {
		return v
	}
	if v := bearer(c.Request().Header.Get(echo.HeaderAuthorization)); v != "" {
		return v
	}
	if t.opts.LegacyName != "" {
		return t.read(c, t.opts.LegacyName)
	}
	return ""
}

func (t *Transport) RefreshToken(c echo.Context) string {
	return t.read(c, t.opts.RefreshName)
}

func (t *Transport) read(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}

func (t *Transport) names() []string {
	names := []string{t.opts.AccessName, t.opts.RefreshName}
	if t.opts.LegacyName != "" {
		names = append(names, t.opts.LegacyName)
	}
	return names
}

func (t *Transport) cookie(name, value string, ttl time.Duration, expires time.Time) *http.Cookie {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(ttl.Seconds()),
		Expires:  expires.UTC(),
		SameSite: http.SameSiteLaxMode,
	}
	if t.opts.CrossSite {
		ck.Secure = true
		ck.SameSite = http.SameSiteNoneMode
	}
	return ck
}

func bearer(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
