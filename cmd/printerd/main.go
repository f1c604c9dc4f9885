package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"printer-repair-backend/config"
	"printer-repair-backend/internal/api"
	"printer-repair-backend/internal/changefeed"
	"printer-repair-backend/internal/dashboard"
	"printer-repair-backend/internal/db"
	"printer-repair-backend/internal/notification"
	"printer-repair-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "printer-backend ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Fatalf("VAPID keys must be configured. Please generate them and add them to your config file.")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	appStore := store.NewGormStore(gormDB)

	feed, err := changefeed.Dial(cfg.Changefeed.Host, cfg.Changefeed.Port, cfg.Changefeed.User, cfg.Changefeed.Password, cfg.Changefeed.Exchange)
	if err != nil {
		logger.Fatalf("failed to connect to change feed: %v", err)
	}
	defer feed.Close()
	logger.Println("change feed connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, &webpushOptions)
	workerPool.Start(ctx)

	engine := dashboard.New(appStore, feed, workerPool, dashboard.Options{
		Debounce:              cfg.Dashboard.Debounce,
		NotificationRetention: cfg.Dashboard.NotificationRetention,
	})
	if err := engine.Start(ctx); err != nil {
		logger.Fatalf("failed to start dashboard engine: %v", err)
	}
	defer engine.Stop()
	logger.Println("dashboard engine started")

	handler := api.NewHandler(appStore, engine, feed, &webpushOptions)
	router := api.NewRouter(handler, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	engine.Stop()
	logger.Println("Server gracefully stopped")
}
