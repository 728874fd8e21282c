package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/bhutuklearning/Create-Your-Notes/internal/api/cookies"
	"github.com/bhutuklearning/Create-Your-Notes/internal/api/handler"
	"github.com/bhutuklearning/Create-Your-Notes/internal/api/middleware"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
	"github.com/bhutuklearning/Create-Your-Notes/internal/infrastructure/config"
	"github.com/bhutuklearning/Create-Your-Notes/internal/infrastructure/http/handlers"
)

const (
	apiPrefix   = "/api/v1"
	adminPrefix = apiPrefix + "/admin"
	bodyLimit   = "200K"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Log      zerolog.Logger
	Auth     ports.AuthService
	Notes    ports.NoteService
	Comments ports.CommentService
	Admin    ports.AdminService
	Cookies  *cookies.Transport
	// Limiter is optional; nil disables rate limiting.
	Limiter ports.RateLimiter
	Checks  map[string]handlers.Check

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = ipExtractor(d.Config)
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(corsConfig(d.Config)))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "notes",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checks)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Create Your Notes API is running"})
	})
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	session := middleware.Session(d.Auth, d.Cookies, d.Log)
	optional := middleware.OptionalSession(d.Auth, d.Cookies, d.Log)

	v1 := e.Group(apiPrefix)
	if d.Limiter != nil {
		v1.Use(middleware.RateLimit(d.Limiter, d.Log, adminPrefix))
	}

	authHandler := handler.NewAuthHandler(d.Auth, d.Cookies)
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, optional)
	auth.GET("/refresh", authHandler.Refresh)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/refresh-token", authHandler.Refresh)
	auth.GET("/profile", authHandler.Profile, session)

	noteHandler := handler.NewNoteHandler(d.Notes)
	notes := v1.Group("/notes")
	notes.GET("/public", noteHandler.ListPublic, optional)
	notes.POST("", noteHandler.Create, session)
	notes.POST("/create-note", noteHandler.Create, session)
	notes.GET("/my", noteHandler.ListMine, session)
	notes.GET("/search", noteHandler.Search, session)
	notes.GET("/:slug", noteHandler.GetBySlug, session)
	notes.PUT("/:id", noteHandler.Update, session)
	notes.DELETE("/:id", noteHandler.Delete, session)
	notes.POST("/:id/like", noteHandler.Like, session)
	notes.POST("/:id/unlike", noteHandler.Unlike, session)

	commentHandler := handler.NewCommentHandler(d.Comments)
	comments := v1.Group("/comments")
	comments.POST("/:noteId", commentHandler.Add, session)
	comments.GET("/:noteId", commentHandler.List, optional)
	comments.PUT("/edit/:commentId", commentHandler.Edit, session)
	comments.PATCH("/edit/:commentId", commentHandler.Edit, session)
	comments.DELETE("/:commentId", commentHandler.Delete, session)

	adminHandler := handler.NewAdminHandler(d.Admin)
	admin := v1.Group("/admin", session, middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/users", adminHandler.Users)
	admin.PATCH("/users/role", adminHandler.UpdateRole)
	admin.GET("/notes", adminHandler.Notes)
	admin.DELETE("/notes/:noteId", adminHandler.DeleteNote)
	admin.DELETE("/comments/:commentId", adminHandler.DeleteComment)

	return e
}

// ipExtractor reads the client IP from the socket unless trusted proxies are
// configured, in which case X-Forwarded-For is honoured from those ranges
// only.
func ipExtractor(cfg *config.Config) echo.IPExtractor {
	nets, err := cfg.TrustedProxyNets()
	if err != nil || len(nets) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range nets {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// corsConfig allows any origin in development and only the frontend
// elsewhere. Credentials are always allowed so cookies flow.
func corsConfig(cfg *config.Config) echomiddleware.CORSConfig {
	c := echomiddleware.CORSConfig{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType,
			echo.HeaderAccept, echo.HeaderAuthorization,
		},
		AllowCredentials: true,
	}
	if cfg.IsDevelopment() {
		c.AllowOriginFunc = func(string) (bool, error) { return true, nil }
		return c
	}
	c.AllowOrigins = []string{strings.TrimRight(cfg.FrontendURL, "/")}
	return c
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
