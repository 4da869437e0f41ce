package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventvite/config"
	"eventvite/internal/adapters/auth"
	"eventvite/internal/adapters/email"
	"eventvite/internal/adapters/storage"
	httpdelivery "eventvite/internal/delivery/http"
	"eventvite/internal/delivery/http/controllers"
	"eventvite/internal/delivery/http/middleware"
	"eventvite/internal/repository/postgres"
	"eventvite/internal/services"
)

const (
	serviceTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
	bcryptCost      = 12
)

// @title Eventvite API
// @version 1.0
// @description Event invitation service: create events, invite guests, and collect attend/decline responses.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Error("migrate database", "err", err)
		os.Exit(1)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKey,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("init mailer", "err", err)
		os.Exit(1)
	}
	fileStore := storage.NewFileStore(storage.S3Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		URLBase:         cfg.S3URLBase,
	})

	hasher := auth.NewBcryptHasher(bcryptCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	sync := services.NewGuestSynchronizer(eventRepo, userRepo, emailService, cfg.BaseURL, logger)
	userService := services.NewUserService(userRepo, eventRepo, sync, hasher, fileStore, emailService, cfg.BaseURL, logger, serviceTimeout)
	eventService := services.NewEventService(eventRepo, userRepo, sync, logger, serviceTimeout)
	authService := services.NewAuthService(userRepo, hasher, tokenIssuer, cfg.JWTExpiry)

	authController := controllers.NewAuthController(logger, authService)
	userController := controllers.NewUserController(logger, userService)
	eventController := controllers.NewEventController(logger, eventService)

	mux := httpdelivery.NewRouter(logger, tokenVerifier, authController, userController, eventController)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown server", "err", err)
	}
}
