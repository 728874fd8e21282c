package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/bhutuklearning/Create-Your-Notes/docs"
	"github.com/bhutuklearning/Create-Your-Notes/internal/api"
	"github.com/bhutuklearning/Create-Your-Notes/internal/api/cookies"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/service"
	"github.com/bhutuklearning/Create-Your-Notes/internal/infrastructure/config"
	mongodb "github.com/bhutuklearning/Create-Your-Notes/internal/infrastructure/db/mongo"
	redisdb "github.com/bhutuklearning/Create-Your-Notes/internal/infrastructure/db/redis"
	"github.com/bhutuklearning/Create-Your-Notes/internal/infrastructure/http/handlers"
	"github.com/bhutuklearning/Create-Your-Notes/internal/infrastructure/security"
	"github.com/bhutuklearning/Create-Your-Notes/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       Create Your Notes API
// @version                     1.0
// @description                 Rich-text notes with comments, likes and cookie-based sessions.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, errorLog, err := logger.New(logger.Options{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ErrorLogDir: cfg.Log.Dir,
	})
	if err != nil {
		return err
	}
	defer errorLog.Close()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Error().Err(err).Msg("mongodb unavailable")
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Error().Err(err).Msg("redis unavailable")
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	notes := mongodb.NewNoteRepository(db)
	comments := mongodb.NewCommentRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, notes, comments); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	issuer, err := security.NewTokenIssuer(security.TokenConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL.Std(),
		RefreshTTL:    cfg.JWT.RefreshTTL.Std(),
	})
	if err != nil {
		return err
	}
	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	e := api.NewRouter(api.Deps{
		Config:   cfg,
		Log:      log,
		Auth:     service.NewAuthService(users, hasher, issuer, log),
		Notes:    service.NewNoteService(notes, log),
		Comments: service.NewCommentService(comments, notes),
		Admin:    service.NewAdminService(users, notes, comments, log),
		Cookies: cookies.New(cookies.Options{
			AccessName:  cfg.Cookies.AccessName,
			RefreshName: cfg.Cookies.RefreshName,
			LegacyName:  cfg.Cookies.LegacyName,
			AccessTTL:   cfg.JWT.AccessTTL.Std(),
			RefreshTTL:  cfg.JWT.RefreshTTL.Std(),
			CrossSite:   cfg.CrossSite(),
		}),
		Limiter: redisdb.NewRateLimiter(rdb, cfg.RateLimitMax(), cfg.RateLimit.Window.Std()),
		Checks: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http server shutdown failed")
	}

	log.Info().Msg("goodbye")
	return nil
}
