package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devconnect-api/internal/config"
	"devconnect-api/internal/database"
	"devconnect-api/internal/handlers"
	"devconnect-api/internal/realtime"
	"devconnect-api/internal/services"
	"devconnect-api/internal/storage"
	"devconnect-api/internal/store"
	"devconnect-api/internal/store/memory"
	"devconnect-api/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize store
	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer st.Close()

	// Initialize realtime broker
	broker, err := realtime.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize realtime broker: %v", err)
	}
	defer broker.Close()
	notifier := realtime.NewNotifier(broker)

	// Initialize upload storage
	local, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Initialize JWT utility
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpiration)
	if cfg.JWTSecret == "default-secret" {
		log.Println("WARNING: JWT_SECRET is not set; using the default secret")
	}

	// Initialize email service
	emailService := services.NewEmailService(cfg)

	router := handlers.NewRouter(handlers.Deps{
		Config:       cfg,
		JWT:          jwtUtil,
		Auth:         services.NewAuthService(st, jwtUtil, emailService, cfg.PasswordResetTTL),
		Users:        services.NewUserService(st),
		Posts:        services.NewPostService(st, notifier),
		Interactions: services.NewInteractionService(st, notifier),
		Uploads:      services.NewUploadService(local, cfg.UploadBaseURL, cfg.UploadMaxBytes),
		Broker:       broker,
	})

	// Event streams only end when their request context does.
	baseCtx, stopStreams := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(stopStreams)

	go func() {
		log.Printf("Server running on port %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case "memory":
		log.Println("Using in-memory store; data is lost on restart")
		return memory.New(), nil
	case "postgres", "":
		return database.NewDatabase(cfg)
	default:
		return nil, errors.New("unknown DB_DRIVER " + cfg.DBDriver)
	}
}
