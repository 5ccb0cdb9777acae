package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/liverylibrary/backend/internal/config"
	"github.com/liverylibrary/backend/internal/handler"
	"github.com/liverylibrary/backend/internal/media"
	"github.com/liverylibrary/backend/internal/pkg"
	"github.com/liverylibrary/backend/internal/repository/db"
	redisrepo "github.com/liverylibrary/backend/internal/repository/redis"
	"github.com/liverylibrary/backend/internal/router"
	"github.com/liverylibrary/backend/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default $CONFIG_PATH or ./config.yaml)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output(), config.Usage())
	}
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := pkg.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	if cfg.Database.AutoMigrate {
		if err := db.Migrate(conn); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	uploader, staticDir, err := newUploader(cfg.Media)
	if err != nil {
		return err
	}

	var authOpts []service.AuthOption
	if cfg.Redis.Enabled() {
		rdb, err := redisrepo.NewClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		authOpts = append(authOpts, service.WithSessions(&redisrepo.SessionRepository{Client: rdb, TTL: cfg.JWT.SessionTTL}))
		if cfg.SMTP.Enabled() {
			codes := &redisrepo.ResetCodeRepository{Client: rdb, TTL: cfg.SMTP.CodeTTL}
			authOpts = append(authOpts, service.WithPasswordReset(codes, pkg.NewMailer(cfg.SMTP), cfg.SMTP.CodeTTL))
		} else {
			logger.Info("smtp not configured, password reset disabled")
		}
	} else {
		logger.Warn("redis not configured, sessions are not revocable and password reset is disabled")
	}

	liveryRepo := db.NewLiveryRepository(conn)
	detailRepo := db.NewDetailKitRepository(conn)

	notifications := service.NewNotificationService(&db.NotificationRepository{DB: conn})
	engagement := service.NewEngagementService(
		&db.LikeRepository{DB: conn},
		&db.CommentRepository{DB: conn},
		notifications, liveryRepo, detailRepo, logger,
	)
	uploads := service.NewUploadService(uploader, logger)
	auth := service.NewAuthService(&db.UserRepository{DB: conn}, pkg.NewTokenIssuer(cfg.JWT), authOpts...)
	liveries := service.NewLiveryService(liveryRepo, engagement, uploads)
	details := service.NewDetailKitService(detailRepo, engagement, uploads)
	users := service.NewUserService(&db.UserRepository{DB: conn}, liveryRepo, uploads)

	sender := service.LogSender(logger)
	if cfg.Kafka.Enabled() {
		producer := pkg.NewKafkaProducer(cfg.Kafka)
		defer func() { _ = producer.Close() }()
		sender = service.ProducerSender(producer)
	}
	relayer := service.NewOutboxRelayer(&db.OutboxRepository{DB: conn}, sender,
		cfg.Outbox.BatchSize, cfg.Outbox.Interval, cfg.Outbox.MaxRetry, logger)
	go relayer.Run(ctx)

	if cfg.Reconcile.Interval > 0 {
		reconciler := service.NewCounterReconciler(&db.ReconcileRepository{DB: conn}, cfg.Reconcile.BatchSize, cfg.Reconcile.Interval, logger)
		go reconciler.Run(ctx)
	}

	engine := router.InitRouter(router.Options{
		Mode:        cfg.Server.Mode,
		MaxUploadMB: cfg.Server.MaxUploadMB,
		StaticDir:   staticDir,
		StaticURL:   cfg.Media.PublicBaseURL,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, logger, auth, router.Handlers{
		Auth:          handler.NewAuthHandler(auth, logger),
		Liveries:      handler.NewLiveryHandler(liveries, logger),
		Details:       handler.NewDetailKitHandler(details, logger),
		Users:         handler.NewUserHandler(users, logger),
		Notifications: handler.NewNotificationHandler(notifications, logger),
		Health:        handler.NewHealthHandler(conn, logger),
	})

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: engine}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr), zap.String("db", cfg.Database.Driver), zap.String("media", cfg.Media.Driver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTTL)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newUploader returns the configured media store and, for local storage, the directory to serve.
func newUploader(cfg config.MediaConfig) (media.Uploader, string, error) {
	switch cfg.Driver {
	case "cloudinary":
		u, err := media.NewCloudinaryUploader(cfg.CloudinaryURL, cfg.RootFolder)
		if err != nil {
			return nil, "", err
		}
		return u, "", nil
	default:
		u := &media.LocalUploader{Dir: cfg.LocalDir, BaseURL: cfg.PublicBaseURL, Root: cfg.RootFolder}
		if !strings.HasPrefix(cfg.PublicBaseURL, "/") {
			return u, "", nil
		}
		return u, cfg.LocalDir, nil
	}
}
