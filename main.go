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
	"github.com/helpdesk/helpdesk/handlers"
	"github.com/helpdesk/helpdesk/internal/auth"
	"github.com/helpdesk/helpdesk/internal/config"
	"github.com/helpdesk/helpdesk/internal/database"
	"github.com/helpdesk/helpdesk/internal/dataset"
	"github.com/helpdesk/helpdesk/internal/helprequest/handler"
	"github.com/helpdesk/helpdesk/internal/helprequest/repository"
	"github.com/helpdesk/helpdesk/internal/helprequest/service"
	"github.com/helpdesk/helpdesk/internal/storage"
	"github.com/helpdesk/helpdesk/pkg/logger"
	"github.com/helpdesk/helpdesk/pkg/metrics"
	"github.com/helpdesk/helpdesk/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.WithFields(logrus.Fields{
		"source":     cfg.Data.Source,
		"auth":       cfg.Auth.Mode,
		"redis":      cfg.Redis.Enabled(),
		"rate_limit": cfg.RateLimit.Enabled,
		"log_level":  logger.LevelString(),
	}).Info("config loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", cfg.Redis.Addr(), err)
		} else {
			logger.Infof("connected to Redis at %s", cfg.Redis.Addr())
		}
	}

	src, closeSrc, err := openSource(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open dataset source: %v", err)
	}
	defer closeSrc()

	ds, err := src.Load(ctx)
	if err != nil {
		logger.Fatalf("failed to load dataset: %v", err)
	}
	logger.Infof("loaded %d help requests from %s source", len(ds.HelpRequests), cfg.Data.Source)

	svc := service.NewMemoryService(ds, repository.WithIDLength(cfg.Data.IDLength))

	guard, err := writeGuard(ctx, cfg.Auth, rdb)
	if err != nil {
		logger.Fatalf("failed to configure write guard: %v", err)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := newRouter(cfg, svc, rdb, guard)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting help desk on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// newRouter assembles the middleware chain and every route.
func newRouter(cfg *config.Config, svc service.Service, rdb *redis.Client, guard []gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS())

	// The limiter runs after the guard on writes so authenticated callers are
	// limited per subject rather than per IP.
	var limiter []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			limiter = append(limiter, middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.Window))
		} else {
			limiter = append(limiter, middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	write := make([]gin.HandlerFunc, 0, len(guard)+len(limiter))
	write = append(write, guard...)
	write = append(write, limiter...)

	handler.RegisterHelpRequestRoutes(r, svc, handler.Middleware{Read: limiter, Write: write})
	handlers.RegisterSwagger(r)

	checks := map[string]handlers.ReadinessCheck{
		"store": func(ctx context.Context) error {
			if svc == nil {
				return errors.New("store not loaded")
			}
			return nil
		},
	}
	if rdb != nil && (cfg.RateLimit.UseRedis || cfg.Auth.Mode == config.AuthJWT || cfg.Auth.Mode == config.AuthOIDC) {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	handlers.RegisterOps(r, prometheus.DefaultGatherer, checks)
	return r
}

// openSource builds the configured dataset source. The returned func releases
// any connection it opened.
func openSource(ctx context.Context, cfg *config.Config) (dataset.Source, func(), error) {
	noop := func() {}
	switch cfg.Data.Source {
	case config.SourceFile:
		return dataset.FileSource{Path: cfg.Data.Path}, noop, nil
	case config.SourceMinIO:
		objects, err := storage.NewMinIOStorage(ctx, &cfg.MinIO)
		if err != nil {
			return nil, nil, err
		}
		logger.Debugf("dataset object %s/%s", objects.Bucket(), cfg.Data.ObjectKey)
		return dataset.MinIOSource{Objects: objects, Key: cfg.Data.ObjectKey}, noop, nil
	case config.SourceMongo:
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return dataset.NewMongoSource(client.Database(cfg.MongoDB.Database)), closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
}

// writeGuard returns the middleware placed in front of the mutating routes.
func writeGuard(ctx context.Context, ac config.AuthConfig, rdb *redis.Client) ([]gin.HandlerFunc, error) {
	var revoked middleware.RevocationList
	if rdb != nil {
		revoked = auth.NewRedisRevocationList(rdb)
	}
	switch ac.Mode {
	case config.AuthNone, "":
		logger.Warnf("AUTH_MODE=none: write routes are unauthenticated")
		return nil, nil
	case config.AuthBasic:
		return []gin.HandlerFunc{middleware.BasicAuthMiddleware(ac.Username, ac.Password)}, nil
	case config.AuthJWT:
		ver, err := auth.NewJWTVerifier(ac.JWTSecret)
		if err != nil {
			return nil, err
		}
		return []gin.HandlerFunc{middleware.AuthMiddleware(ver, revoked, ac.Mode)}, nil
	case config.AuthOIDC:
		ver, err := auth.NewOIDCVerifier(ctx, ac.OIDCIssuer, ac.OIDCClientID)
		if err != nil {
			return nil, err
		}
		return []gin.HandlerFunc{middleware.AuthMiddleware(ver, revoked, ac.Mode)}, nil
	}
	return nil, fmt.Errorf("unknown auth mode %q", ac.Mode)
}
