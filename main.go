package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/photopoint/internal/auth"
	"github.com/example/photopoint/internal/compose"
	"github.com/example/photopoint/internal/contentstore"
	"github.com/example/photopoint/internal/grpcclient"
	"github.com/example/photopoint/internal/handlers"
	"github.com/example/photopoint/internal/handoff"
	"github.com/example/photopoint/internal/logging"
	"github.com/example/photopoint/internal/notify"
	"github.com/example/photopoint/internal/repository"
	"github.com/example/photopoint/internal/session"
	"github.com/example/photopoint/internal/vision"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger, err := logging.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	db := initDatabase(ctx, logger)
	repo := repository.NewRepository(db, logger)
	if err := repo.AutoMigrate(ctx); err != nil {
		logger.Fatal("auto migrate failed", zap.Error(err))
	}

	redisCtx, redisCancel := context.WithTimeout(ctx, 5*time.Second)
	defer redisCancel()
	redisClient := initRedis(redisCtx, logger)
	channel := notify.NewChannel(redisClient, logger)

	// The vision sidecar starts alongside the kiosk and may not be ready
	// yet; dial lazily so boot never blocks on it.
	visionAddr := getEnv("VISION_ADDR", "vision-service:50051")
	visionSvc := vision.NewLazy(func(ctx context.Context) (vision.Capability, error) {
		capability, _, err := grpcclient.DialVision(ctx, visionAddr, logger)
		return capability, err
	})

	content := contentstore.NewHTTPStore(
		getEnv("STORAGE_URL", "http://storage:8000/storage/v1"),
		getEnv("STORAGE_BUCKET", "photos"),
		os.Getenv("STORAGE_SERVICE_KEY"),
		logger,
	)

	var garments compose.GarmentSource
	if dir := os.Getenv("GARMENT_DIR"); dir != "" {
		garments = compose.NewDirGarments(dir)
	}
	composer := compose.NewComposer(visionSvc, garments, logger)

	orch := session.New(repo, content, logger)

	var editor *session.Editor
	scheduler := compose.NewScheduler(composer,
		func(r compose.Result) { editor.HandleResult(r) },
		func(err error) { editor.HandleIsolationFailure(err) },
		logger,
	)
	editor = session.NewEditor(scheduler, logger)
	orch.SetComposeBusy(editor.Busy)

	coordinator := handoff.NewCoordinator(repo, channel, nil, getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), logger)

	kiosk := handlers.NewKiosk(orch, editor, coordinator, visionSvc, logger)
	if path := os.Getenv("DEMO_PHOTO"); path != "" {
		demo, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("demo photo not loadable", zap.String("path", path), zap.Error(err))
		} else {
			kiosk.SetDemoPhoto(demo)
		}
	}

	r := gin.Default()
	r.MaxMultipartMemory = handlers.MaxUploadSize

	jwtSecret := getEnv("JWT_SECRET", "dev-secret")
	jwtAudience := os.Getenv("JWT_AUDIENCE")
	authMiddleware := auth.JWTMiddleware(jwtSecret, jwtAudience)

	handlers.RegisterRoutes(r, repo, content, channel, authMiddleware)
	handlers.RegisterKioskRoutes(r, kiosk)

	server := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	logger.Info("kiosk API listening", zap.String("addr", ":8080"))
	if err := serveHTTPServer(server, 15*time.Second, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func initDatabase(ctx context.Context, zapLogger *zap.Logger) *gorm.DB {
	dsn := getEnv("DATABASE_DSN", "host=postgres user=postgres password=postgres dbname=photopoint port=5432 sslmode=disable")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		zapLogger.Fatal("failed to access db handle", zap.Error(err))
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		zapLogger.Fatal("database ping failed", zap.Error(err))
	}

	return db
}

func initRedis(ctx context.Context, zapLogger *zap.Logger) *redis.Client {
	addr := getEnv("REDIS_ADDR", "redis:6379")
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	return client
}

func serveHTTPServer(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	return serveHTTPServerWithOptions(server, shutdownTimeout, logger, nil, nil)
}

func serveHTTPServerWithListener(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger, listener net.Listener) error {
	return serveHTTPServerWithOptions(server, shutdownTimeout, logger, listener, nil)
}

func serveHTTPServerWithOptions(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger, listener net.Listener, signalCh <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if listener != nil {
			err = server.Serve(listener)
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	var (
		sigCh       <-chan os.Signal
		stopSignals func()
	)

	if signalCh != nil {
		sigCh = signalCh
		stopSignals = func() {}
	} else {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		sigCh = ch
		stopSignals = func() {
			signal.Stop(ch)
		}
	}
	defer stopSignals()

	select {
	case err := <-errCh:
		return err
	case sig, ok := <-sigCh:
		if !ok {
			return <-errCh
		}
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return <-errCh
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
