package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"denuncia/backend/internal/api/handler"
	"denuncia/backend/internal/api/middleware"
	"denuncia/backend/internal/attachment"
	"denuncia/backend/internal/chathub"
	"denuncia/backend/internal/config"
	"denuncia/backend/internal/followup"
	"denuncia/backend/internal/notify"
	"denuncia/backend/internal/session"
	"denuncia/backend/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(ctx context.Context, cfg config.Config, logger *zap.Logger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect PostgreSQL", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect Redis", zap.Error(err))
	}

	logger.Info("database and redis connections established")
	return db, rdb
}

func newNotifier(cfg config.Config, logger *zap.Logger) notify.Notifier {
	if !cfg.TelegramEnabled() {
		logger.Info("telegram notifications disabled")
		return notify.Noop{}
	}
	tg, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, logger)
	if err != nil {
		logger.Fatal("failed to start telegram notifier", zap.Error(err))
	}
	return tg
}

func newUploads(ctx context.Context, cfg config.Config, logger *zap.Logger) *attachment.Service {
	if !cfg.MinioEnabled() {
		logger.Info("evidence uploads disabled")
		return attachment.NewService(nil, cfg.MinioBucket)
	}
	store, err := attachment.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		logger.Fatal("failed to create object store", zap.Error(err))
	}
	svc := attachment.NewService(store, cfg.MinioBucket)
	if err := svc.Initialize(ctx); err != nil {
		logger.Fatal("failed to prepare evidence bucket", zap.String("bucket", cfg.MinioBucket), zap.Error(err))
	}
	return svc
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, rdb := setupDependencies(ctx, cfg, logger)
	s := storage.NewStorageService(db, rdb)
	if err := s.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionTTL, s)
	cases := followup.NewService(s, newNotifier(cfg, logger), logger.Named("followup"))
	uploads := newUploads(ctx, cfg, logger)
	hub := chathub.NewManagerService(logger.Named("hub"))

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(logger.Named("http")))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := handler.NewHandler(cases, sessions, s, uploads, hub, logger.Named("handler"))
	h.Routes(r, middleware.RateLimit(cfg.CreateRateLimit, config.CreateRateWindow))

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	events := s.SubscribeEvents(ctx)
	defer events.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		hub.Listen(gctx, events)
		return nil
	})
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
