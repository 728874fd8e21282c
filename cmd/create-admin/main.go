// Command create-admin creates the administrator account from ADMIN_NAME,
// ADMIN_EMAIL and ADMIN_PASSWORD, or resets the password and role of an
// existing account with that email.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/service"
	"github.com/bhutuklearning/Create-Your-Notes/internal/infrastructure/config"
	mongodb "github.com/bhutuklearning/Create-Your-Notes/internal/infrastructure/db/mongo"
	"github.com/bhutuklearning/Create-Your-Notes/internal/infrastructure/security"
	"github.com/bhutuklearning/Create-Your-Notes/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "create-admin: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx, nil)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAdmin(); err != nil {
		return err
	}

	log, errorLog, err := logger.New(logger.Options{Level: cfg.Log.Level, Pretty: true})
	if err != nil {
		return err
	}
	defer errorLog.Close()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := mongodb.NewUserRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	// Seeding never issues tokens.
	auth := service.NewAuthService(users, security.NewBcryptHasher(cfg.BcryptCost), nil, log)

	user, created, err := auth.EnsureAdmin(ctx, ports.RegisterInput{
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	})
	if err != nil {
		return err
	}

	action := "updated"
	if created {
		action = "created"
	}
	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msgf("admin account %s", action)
	return nil
}
