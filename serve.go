package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/cache"
	siteControllers "github.com/junaidrashid-git/storefront-api/controllers/site"
	"github.com/junaidrashid-git/storefront-api/database"
	"github.com/junaidrashid-git/storefront-api/logging"
	"github.com/junaidrashid-git/storefront-api/realtime"
	"github.com/junaidrashid-git/storefront-api/repository"
	"github.com/junaidrashid-git/storefront-api/routes"
	"github.com/junaidrashid-git/storefront-api/storage"
	"github.com/junaidrashid-git/storefront-api/theme"
	"go.uber.org/zap"
)

func runServe(parent context.Context) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	zap.L().Info("✅ Starting application...", zap.String("environment", cfg.Environment))

	// Init DB, migrate, seed defaults
	db, err := openAndMigrate()
	if err != nil {
		return err
	}
	if err := database.Seed(db); err != nil {
		return err
	}

	// Product reads go through Redis when it is configured and reachable
	deps := routes.Deps{
		DB:          db,
		Products:    repository.NewProductRepository(db),
		About:       siteControllers.DefaultAbout(),
		JWTSecret:   cfg.JWTSecret,
		AdminAPIKey: cfg.AdminAPIKey,
	}
	if cfg.Redis.Addr != "" {
		rdb, err := cache.ConnectRedis(cfg.Redis)
		if err != nil {
			zap.L().Warn("redis unavailable, product cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			cached := cache.NewCachedProductRepository(deps.Products, rdb, cfg.Redis.TTL)
			deps.Products = cached
			deps.Invalidate = cached.Invalidate
			zap.L().Info("product cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	deps.Uploader, err = storage.New(cfg.Storage)
	if err != nil {
		return err
	}

	deps.Hub = realtime.NewHub(64)
	defer deps.Hub.Close()

	deps.Applier = theme.NewApplier(db)
	if err := deps.Applier.Load(ctx); err != nil {
		zap.L().Warn("failed to load active theme", zap.Error(err))
	}
	go deps.Applier.Watch(ctx, deps.Hub)

	// Daily backup of local uploads
	if cfg.Storage.Backend == "local" && cfg.Backup.Dir != "" {
		go storage.NewBackup(cfg.Storage.UploadDir, cfg.Backup.Dir, cfg.Backup.Retention, cfg.Backup.Hour).Run(ctx)
	}

	// Gin setup
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logging.GinLogger(zap.L()), logging.GinRecovery(zap.L()))

	// Allow large image uploads
	r.MaxMultipartMemory = 64 << 20

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded images
	if cfg.Storage.Backend == "local" {
		r.Static(storage.PublicPrefix, cfg.Storage.UploadDir)
	}

	routes.SetupRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("🚀 Server running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
