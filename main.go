package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mindpath-app/mindpath/api"
	"github.com/mindpath-app/mindpath/auth"
	"github.com/mindpath-app/mindpath/config"
	"github.com/mindpath-app/mindpath/db"
	"github.com/mindpath-app/mindpath/log"
	"github.com/mindpath-app/mindpath/vendors"
	"github.com/mindpath-app/mindpath/workers/cleanup"
)

func main() {
	// .env is optional; real deployments set the environment directly
	godotenv.Load()

	cfg := config.Get()

	if cfg.AuthSecret == "" {
		log.Fatal().Msg("AUTH_SECRET must be set")
	}

	var dbOpts []db.Option
	if cfg.DBLogQueries {
		dbOpts = append(dbOpts, db.WithQueryLogging())
	}
	database, err := db.Open(cfg.DatabasePath, dbOpts...)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("failed to open database")
	}

	authenticator := auth.NewAuthenticator(database, cfg.BcryptCost)
	tokens := auth.NewTokenIssuer(cfg.AuthSecret, cfg.SessionTTL, database)
	docAPI := vendors.NewDocAPI(cfg)
	handlers := api.NewHandlers(cfg, database, authenticator, tokens, docAPI)

	// Gin runs in release mode; requests are logged through zerolog instead
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(log.GinLogger())

	if cfg.IsDevelopment() {
		r.Use(corsMiddleware())
	} else {
		r.Use(securityHeadersMiddleware())
	}

	r.SetTrustedProxies(nil)

	handlers.SetupRoutes(r)

	// Start background workers
	cleanupWorker := cleanup.NewWorker(database, 0)
	cleanupWorker.Start()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:     addr,
		Handler:  r,
		ErrorLog: log.StdErrorLogger(),
	}

	go func() {
		log.Info().
			Str("addr", addr).
			Str("env", cfg.Env).
			Msg("server starting")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	cleanupWorker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	if err := database.Close(); err != nil {
		log.Error().Err(err).Msg("database close error")
	}

	log.Info().Msg("server stopped")
}

// corsMiddleware allows the dev frontend origin during development
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
			"http://localhost:5173": true,
		}

		if allowedOrigins[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// securityHeadersMiddleware adds security headers to all responses
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "SAMEORIGIN")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
