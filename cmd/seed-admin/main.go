package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/cinevault/admin-api/internal/config"
	"github.com/cinevault/admin-api/internal/domain/activity"
	"github.com/cinevault/admin-api/internal/domain/rbac"
	"github.com/cinevault/admin-api/internal/domain/staff"
	"github.com/cinevault/admin-api/internal/pkg/database"
	"github.com/cinevault/admin-api/internal/pkg/logger"
	"github.com/cinevault/admin-api/internal/pkg/validator"
)

func main() {
	email := flag.String("email", os.Getenv("SEED_ADMIN_EMAIL"), "email of the initial super admin")
	pass := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "password of the initial super admin")
	name := flag.String("name", "Super Admin", "display name")
	flag.Parse()

	cfg := config.Load()
	if _, err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise logger")
	}

	registry := rbac.Default()
	req := &staff.CreateRequest{
		Email:    *email,
		Password: *pass,
		Name:     *name,
		Role:     string(registry.SuperRole()),
	}
	if errs := validator.Validate(req); errs != nil {
		log.Fatal().Interface("errors", errs).Msg("Invalid seed account")
	}

	ctx := context.Background()

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	activityService := activity.NewService(activity.NewRepository(db), nil)
	svc := staff.NewService(staff.NewRepository(db), nil, activityService, registry)

	// the seed runs before any staff exists, so it acts as the super role
	system := activity.Actor{Email: "system@seed-admin", Role: string(registry.SuperRole())}

	acct, err := svc.Create(ctx, system, req)
	if errors.Is(err, staff.ErrEmailTaken) {
		log.Info().Str("email", req.Email).Msg("Super admin already exists, nothing to do")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create super admin")
	}

	log.Info().
		Str("id", acct.ID.String()).
		Str("email", acct.Email).
		Msg("Super admin created")
}
