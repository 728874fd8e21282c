package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type Config struct {
	Port        string `env:"PORT,         default=22000"`
	Env         string `env:"ENV,          default=development"`
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:3000"`
	BcryptCost  int    `env:"BCRYPT_COST,  default=12"`
	// CookieCrossSite overrides the cookie policy derived from Env.
	CookieCrossSite *bool `env:"COOKIE_CROSS_SITE, noinit"`
	// TrustedProxies lists the CIDRs allowed to set X-Forwarded-For. Empty
	// means client IPs come from the socket.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Log       LogConfig
	JWT       JWTConfig
	Cookies   CookieConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL,  default=info"`
	Pretty bool   `env:"LOG_PRETTY, default=false"`
	Dir    string `env:"LOG_DIR,    default=logs"`
}

type JWTConfig struct {
	AccessSecret  string   `env:"JWT_ACCESS_SECRET"`
	RefreshSecret string   `env:"JWT_REFRESH_SECRET"`
	AccessTTL     Duration `env:"JWT_ACCESS_EXPIRES_IN,  default=15m"`
	RefreshTTL    Duration `env:"JWT_REFRESH_EXPIRES_IN, default=7d"`
}

type CookieConfig struct {
	AccessName  string `env:"ACCESS_TOKEN_COOKIE_NAME,  default=accessToken"`
	RefreshName string `env:"REFRESH_TOKEN_COOKIE_NAME, default=refreshToken"`
	LegacyName  string `env:"LEGACY_TOKEN_COOKIE_NAME,  default=jwt"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=create_your_notes"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// RateLimitConfig leaves Max at zero to pick the per-environment default.
type RateLimitConfig struct {
	Max    int      `env:"RATE_LIMIT_MAX"`
	Window Duration `env:"RATE_LIMIT_WINDOW, default=1m"`
}

// AdminConfig is only read by the create-admin command.
type AdminConfig struct {
	Name     string `env:"ADMIN_NAME, default=Admin"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads configuration from the given lookuper, or from the process
// environment when l is nil. It does not validate; callers pick the checks
// they need.
func Load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	if l == nil {
		l = envconfig.OsLookuper()
	}

	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// Validate checks everything the API server needs before it starts.
func (c *Config) Validate() error {
	var errs []error

	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of %s, %s, %s (got %q)", EnvDevelopment, EnvProduction, EnvTest, c.Env))
	}

	if c.JWT.AccessSecret == "" {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET is required"))
	}
	if c.JWT.RefreshSecret == "" {
		errs = append(errs, errors.New("JWT_REFRESH_SECRET is required"))
	}
	if c.JWT.AccessSecret != "" && c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ"))
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.BcryptCost < 10 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 10 and 31 (got %d)", c.BcryptCost))
	}
	if c.RateLimit.Max < 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate limit max and window must be positive"))
	}
	if _, err := c.TrustedProxyNets(); err != nil {
		errs = append(errs, err)
	}
	if c.Cookies.AccessName == "" || c.Cookies.RefreshName == "" || c.Cookies.AccessName == c.Cookies.RefreshName {
		errs = append(errs, errors.New("cookie names must be set and distinct"))
	}

	return errors.Join(errs...)
}

// ValidateAdmin checks the seeding credentials.
func (c *Config) ValidateAdmin() error {
	if strings.TrimSpace(c.Admin.Email) == "" || c.Admin.Password == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	return nil
}

// CrossSite reports whether the frontend is served from another origin, in
// which case session cookies must be Secure and SameSite=None.
func (c *Config) CrossSite() bool {
	if c.CookieCrossSite != nil {
		return *c.CookieCrossSite
	}
	return c.Env != EnvDevelopment
}

// TrustedProxyNets parses TrustedProxies.
func (c *Config) TrustedProxyNets() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, cidr := range c.TrustedProxies {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		_, n, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: invalid CIDR %q", cidr)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

func (c *Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

// RateLimitMax is the per-window request budget for one client.
func (c *Config) RateLimitMax() int {
	if c.RateLimit.Max > 0 {
		return c.RateLimit.Max
	}
	if c.IsDevelopment() {
		return 200
	}
	return 100
}

// Duration accepts Go duration syntax plus a whole-day suffix ("7d").
type Duration time.Duration

func (d *Duration) EnvDecode(val string) error {
	parsed, err := ParseDuration(val)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}
