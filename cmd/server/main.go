package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/pfa-assurance/assurance-connector/internal/cache"
	"github.com/pfa-assurance/assurance-connector/internal/config"
	"github.com/pfa-assurance/assurance-connector/internal/database"
	"github.com/pfa-assurance/assurance-connector/internal/gateway"
	"github.com/pfa-assurance/assurance-connector/internal/handlers"
	"github.com/pfa-assurance/assurance-connector/internal/middleware"
	"github.com/pfa-assurance/assurance-connector/internal/repository"
	"github.com/pfa-assurance/assurance-connector/internal/services"
	"github.com/pfa-assurance/assurance-connector/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting Assurance Connector")

	// Connect to the audit database when enabled
	if cfg.Database.Enabled {
		dbConfig := database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
			LogLevel: cfg.Database.LogLevel,
		}

		if err := database.Connect(dbConfig); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to audit database")
		}
		defer database.Close()
		log.Info().Msg("Audit database connected")
	} else {
		log.Info().Msg("Audit database disabled")
	}

	// Initialize cache
	var cacheImpl cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Type == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		cacheImpl, err = cache.NewRedisCache(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis cache initialized")
	} else {
		cacheImpl = cache.NewMemoryCache()
		log.Info().Msg("Memory cache initialized")
	}

	// Remote gateway client
	gw := gateway.NewHTTPClient(cfg.Gateway.BaseURL, cfg.Gateway.Timeout)
	defer gw.Close()

	// Initialize repositories
	auditRepo := repository.NewAuditRepository()

	// Initialize services
	authService := services.NewAuthService(gw)
	contractService := services.NewContractService(gw, cacheImpl, cfg.Cache.TTL, auditRepo)
	sinistreService := services.NewSinistreService(gw, cacheImpl, cfg.Cache.TTL, auditRepo)
	adminService := services.NewAdminService(gw)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	contractHandler := handlers.NewContractHandler(contractService)
	sinistreHandler := handlers.NewSinistreHandler(sinistreService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints (no authentication required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Auth endpoints: login/register are anonymous, listings need a session
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)
			r.Get("/users", authHandler.ListUsers)
			r.Get("/clients", authHandler.ListClients)
		})
	})

	// Application API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireSession)

		r.Route("/contracts", func(r chi.Router) {
			r.Get("/", contractHandler.List)
			r.Get("/actifs", contractHandler.ListActive)
			r.Post("/", contractHandler.Create)
			r.Patch("/{id}/cancel", contractHandler.Cancel)
		})

		r.Route("/sinistres", func(r chi.Router) {
			r.Get("/", sinistreHandler.List)
			r.Get("/contrat/{contratId}", sinistreHandler.ListByContrat)
			r.Post("/", sinistreHandler.Create)
			r.Put("/{id}/statut", sinistreHandler.UpdateStatut)
			r.Delete("/{id}", sinistreHandler.Delete)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/dashboard", adminHandler.Dashboard)
			r.Get("/services/status", adminHandler.ServicesStatus)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Str("gateway", cfg.Gateway.BaseURL).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
