package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "assettracker/docs"
	"assettracker/pkg/assets"
	"assettracker/pkg/config"
	"assettracker/pkg/db"
	"assettracker/pkg/logging"
	"assettracker/pkg/middleware"
)

// @title           Asset Tracker API
// @version         1.0
// @description     REST API for tracking physical and IT assets

// @BasePath  /

// @schemes   http https

func main() {
	cfg, dotenv := config.Load()

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if !dotenv {
		log.Info("no .env file found, using environment variables")
	}

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("database setup failed")
	}
	defer pool.Close()

	assetsRepo := assets.NewPostgresAssetRepository(pool)
	assetsService := assets.NewAssetService(assetsRepo, log)
	assetsHandler := assets.NewAssetHandler(assetsService, log)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logging(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.CORSOrigins, cfg.CORSAllowCredentials),
	)
	router.NoRoute(middleware.NoRoute)

	assetsHandler.RegisterRoutes(router)

	router.GET("/healthz", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.TLS.EnableTLS {
		tlsConfig, err := cfg.TLS.Build()
		if err != nil {
			log.WithError(err).Fatal("TLS setup error")
		}
		srv.TLSConfig = tlsConfig
	}

	go func() {
		log.WithField("addr", srv.Addr).WithField("tls", cfg.TLS.EnableTLS).Info("server listening")

		var err error
		if cfg.TLS.EnableTLS {
			// Certificates are already loaded into TLSConfig.
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server exiting")
}
