/*
Package main is the entry point for the RESQ server.

It loads configuration, initializes the global logger, opens the store and bootstraps the
administrator account, wires the realtime hub into the HTTP routes and shuts everything down
gracefully on SIGINT or SIGTERM.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resq/internal/app/db"
	"resq/internal/app/realtime"
	"resq/internal/app/seed"
	"resq/internal/app/storage"
	"resq/internal/configs"
	"resq/internal/handler"
	"resq/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("ws_require_token", cfg.WSRequireToken).
		Bool("ws_strict_rooms", cfg.WSStrictRooms).
		Bool("storage_enabled", cfg.StorageEnabled()).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to open database")
	}
	defer store.Close()

	if created, err := seed.EnsureAdmin(ctx, store, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logx.Fatal(err, "Failed to bootstrap administrator account")
	} else if created {
		logx.Info("Administrator account created", "email", cfg.AdminEmail)
	}

	if cfg.SeedFile != "" {
		result, err := seed.LoadFile(ctx, store, cfg.SeedFile)
		if err != nil {
			logx.Fatal(err, "Failed to import seed accounts")
		}
		logx.Info("Seed accounts imported", "file", cfg.SeedFile, "created", result.Created, "skipped", result.Skipped)
	}

	var storageService storage.StorageService
	if cfg.StorageEnabled() {
		storageService, err = storage.NewStorageService(ctx, storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			logx.Fatal(err, "Failed to initialize storage service")
		}
	} else {
		logx.Warn("S3_BUCKET_NAME not set; incident image uploads are disabled")
	}

	// Initialize realtime hub
	var authenticator realtime.Authenticator = realtime.TrustAuthenticator{}
	if cfg.WSRequireToken {
		authenticator = realtime.TokenAuthenticator{Secret: cfg.JWTSecret}
	}
	hub := realtime.NewHub(realtime.HubOptions{
		Authenticator: authenticator,
		StrictRooms:   cfg.WSStrictRooms,
	})

	deps := &handler.AppDeps{
		Config:   cfg,
		Store:    store,
		Hub:      hub,
		Notifier: hub.Router(),
		Storage:  storageService,
	}

	// Setup HTTP server and routes
	router := handler.Router(ctx, deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("RESQ Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}
