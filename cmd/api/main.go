package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"

	"github.com/mwork/relay-api/internal/config"
	"github.com/mwork/relay-api/internal/domain/auth"
	"github.com/mwork/relay-api/internal/domain/chat"
	"github.com/mwork/relay-api/internal/domain/friendship"
	"github.com/mwork/relay-api/internal/domain/moderation"
	"github.com/mwork/relay-api/internal/domain/relationships"
	"github.com/mwork/relay-api/internal/domain/user"
	"github.com/mwork/relay-api/internal/pkg/database"
	"github.com/mwork/relay-api/internal/pkg/jwt"
	"github.com/mwork/relay-api/internal/pkg/logger"
	"github.com/mwork/relay-api/internal/pkg/password"
	"github.com/mwork/relay-api/internal/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Relay API")

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
		}); err != nil {
			log.Error().Err(err).Msg("Sentry initialization failed")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	db, err := database.NewPostgres(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	var archive storage.Storage
	if cfg.ArchiveEnabled() {
		s3Storage, err := storage.NewS3Storage(context.Background(), storage.Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create S3 storage")
		}
		archive = s3Storage
	} else {
		log.Warn().Msg("S3 bucket not configured, moderation archive disabled")
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)
	gate := auth.NewRedisGate(redis)
	txManager := database.NewTxManager(db)

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	contactRepo := relationships.NewRepository(db)
	friendRepo := friendship.NewRepository(db)
	chatRepo := chat.NewRepository(db)
	reportRepo := moderation.NewRepository(db)

	// ---------- Services ----------
	userService := user.NewService(userRepo)
	contactService := relationships.NewService(contactRepo)
	friendService := friendship.NewService(friendRepo, contactService, userService, txManager)
	chatService := chat.NewService(chatRepo, userService, txManager)
	moderationService := moderation.NewService(reportRepo, chatService, userService, txManager, gate, archive)
	authService := auth.NewService(userService, password.NewHasher(password.DefaultCost), jwtService, gate)

	// ---------- Handlers ----------
	handlers := Handlers{
		Auth:       auth.NewHandler(authService),
		User:       user.NewHandler(userService),
		Contacts:   relationships.NewHandler(contactService),
		Friends:    friendship.NewHandler(friendService),
		Chat:       chat.NewHandler(chatService),
		Moderation: moderation.NewHandler(moderationService),
	}

	router := NewRouter(handlers, RouterConfig{
		JWT:            jwtService,
		Gate:           gate,
		AllowedOrigins: cfg.AllowedOrigins,
		Health: func(ctx context.Context) error {
			return db.PingContext(ctx)
		},
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited properly")
}
