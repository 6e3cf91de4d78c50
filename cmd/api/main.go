package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/cinevault/admin-api/internal/config"
	"github.com/cinevault/admin-api/internal/domain/activity"
	"github.com/cinevault/admin-api/internal/domain/rbac"
	"github.com/cinevault/admin-api/internal/domain/roles"
	"github.com/cinevault/admin-api/internal/domain/staff"
	"github.com/cinevault/admin-api/internal/middleware"
	"github.com/cinevault/admin-api/internal/pkg/database"
	"github.com/cinevault/admin-api/internal/pkg/email"
	"github.com/cinevault/admin-api/internal/pkg/jwt"
	"github.com/cinevault/admin-api/internal/pkg/logger"
	pkgresponse "github.com/cinevault/admin-api/internal/pkg/response"
	"github.com/cinevault/admin-api/internal/pkg/storage"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()

	closer, err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise logger")
	}
	defer closer.Close()

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting CineVault admin API")

	ctx := context.Background()

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	// ---------- Role registry ----------
	overrideRepo := roles.NewRepository(db)
	registry := roles.LoadRegistry(ctx, overrideRepo, rbac.Default(), cfg.RoleOverridesEnabled)
	if !cfg.RoleOverridesEnabled {
		overrideRepo = nil
	}

	// ---------- Storage ----------
	store, err := newStorage(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Export storage unavailable, activity exports disabled")
		store = nil
	}

	// ---------- Services ----------
	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)
	gate := middleware.NewGate(registry)

	activityService := activity.NewService(activity.NewRepository(db), store)
	staffService := staff.NewService(
		staff.NewRepository(db),
		staff.NewRoleCache(redis, cfg.RoleCacheTTL),
		activityService,
		registry,
	)
	if cfg.EmailEnabled() {
		emailService := email.NewService(email.NewSendGridClient(email.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}), cfg.AdminPanelURL)
		defer emailService.Close()
		staffService.WithNotifier(emailService)
	} else {
		log.Warn().Msg("SENDGRID_API_KEY not set, staff notification emails disabled")
	}
	rolesService := roles.NewService(registry, overrideRepo, activityService)

	r := newRouter(cfg, routerDeps{
		jwt:      jwtService,
		gate:     gate,
		resolver: staffService,
		staff:    staff.NewHandler(staffService, jwtService, gate),
		activity: activity.NewHandler(activityService, gate),
		roles:    roles.NewHandler(rolesService, gate),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	if cfg.UseS3() {
		return storage.NewS3Storage(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	return storage.NewLocalStorage(cfg.LocalStoragePath, cfg.LocalStorageURL)
}

type routerDeps struct {
	jwt      *jwt.Service
	gate     *middleware.Gate
	resolver middleware.PrincipalResolver
	staff    *staff.Handler
	activity *activity.Handler
	roles    *roles.Handler
}

func newRouter(cfg *config.Config, d routerDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.SecureHeaders(cfg.IsProduction()))
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	authMiddleware := middleware.Auth(d.jwt, d.resolver)

	r.Route("/api/admin", func(r chi.Router) {
		r.Mount("/auth", d.staff.AuthRoutes())

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(d.gate.RequirePanelAccess())

			r.Mount("/staff", d.staff.Routes())
			r.Mount("/activity", d.activity.Routes())
			r.Mount("/roles", d.roles.Routes())
			r.Get("/permissions", d.roles.Permissions)
		})
	})

	// Local exports are served to the same audience that can create them
	if !cfg.UseS3() && cfg.LocalStoragePath != "" {
		files := http.StripPrefix("/exports", http.FileServer(http.Dir(cfg.LocalStoragePath)))
		r.With(
			authMiddleware,
			d.gate.RequireAllPermissions(rbac.PermViewActivityLog, rbac.PermExportAnalytics),
		).Handle("/exports/*", files)
	}

	return r
}
