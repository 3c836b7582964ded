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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"role_portal/internal/app/config"
	"role_portal/internal/app/di"
	"role_portal/internal/app/router"
	authadapters "role_portal/internal/feature/auth/adapters"
	authhandler "role_portal/internal/feature/auth/transport/handler"
	authmw "role_portal/internal/feature/auth/transport/middleware"
	authusecase "role_portal/internal/feature/auth/usecase"
	dashboardhandler "role_portal/internal/feature/dashboard/transport/handler"
	"role_portal/internal/platform/cache"
	platformdb "role_portal/internal/platform/db"
	platformhandler "role_portal/internal/platform/http/handler"
	"role_portal/internal/platform/password"
	platformredis "role_portal/internal/platform/redis"
	"role_portal/internal/platform/token"
	"role_portal/internal/platform/web"
	"role_portal/pkg/logger"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	secret, err := signingSecret(cfg, log)
	if err != nil {
		return err
	}

	// db
	db, err := platformdb.Open(ctx, platformdb.Config{
		URL:            cfg.Database.URL,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		RunMigrations:  cfg.Database.RunMigrations,
	}, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	// Redis
	rdb := di.NewOptionalRedis(ctx, platformredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, log)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close redis client")
			}
		}()
	}

	// Repository
	var userRepo authusecase.UserRepository = authadapters.NewUserGorm(db)
	if rdb != nil {
		userRepo = cache.NewCachingUserRepository(rdb, cfg.Redis.UserCacheTTL, userRepo, "user")
	}
	sessionRepo := di.NewSessionRepository(rdb, db)

	// Usecase
	hasher, err := password.NewHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	authUC := authusecase.NewAuthUsecase(userRepo, hasher)
	signer := token.NewSigner(secret)
	sessionUC := authusecase.NewSessionUsecase(sessionRepo, userRepo, signer, cfg.Session.TTL)

	// Handler
	cookie := authmw.SessionCookie{Name: authmw.DefaultCookieName, Secure: cfg.Session.CookieSecure}
	tmpl, err := web.LoadTemplates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	engine := router.NewRouter(router.Dependencies{
		Log:       log,
		Templates: tmpl,
		Sessions:  sessionUC,
		Cookie:    cookie,
		Forms:     signer,
		Auth:      authhandler.NewAuthHandler(authUC, sessionUC, cookie),
		Dashboard: dashboardhandler.NewDashboardHandler(),
		Health:    platformhandler.NewHealthHandler(sqlDB),
	})

	go di.RunSessionHousekeeping(ctx, sessionRepo, cfg.Session.CleanupInterval, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		_ = srv.Close()
	}
	log.Info().Msg("server stopped")
	return nil
}

// signingSecret returns SECRET_KEY, or a random key outside production when
// SECRET_KEY is unsafe.
func signingSecret(cfg *config.Config, log zerolog.Logger) (string, error) {
	err := cfg.CheckSecret()
	if err == nil {
		return cfg.SecretKey, nil
	}
	if cfg.IsProduction() {
		return "", err
	}
	log.Error().Err(err).Msg("using a random per-process signing key; sessions will not survive a restart")
	return config.EphemeralSecret()
}
