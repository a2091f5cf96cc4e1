package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supplyhub/internal/config"
	"supplyhub/internal/handler"
	"supplyhub/internal/middleware"
	"supplyhub/internal/repository"
	"supplyhub/internal/router"
	"supplyhub/internal/service"

	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting SupplyHub API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize account repository
	accountRepo, err := repository.NewMongoAccountRepository(
		cfg.Mongo.URI,
		cfg.Mongo.Database,
		cfg.Mongo.Collection,
	)
	if err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	defer accountRepo.Close()
	log.Println("MongoDB account repository initialized")

	// Initialize Redis client for sessions
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.RedisAddress(),
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		cancel()
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	cancel()
	log.Println("Redis session store initialized")

	// Initialize services
	sessionService := service.NewSessionService(redisClient, cfg.Session.TTL)
	sellerService := service.NewSellerService(accountRepo, cfg.Sellers.StrictNames)
	supplyService := service.NewSupplyService(accountRepo)
	accountService := service.NewAccountService(accountRepo, sessionService, sellerService)

	// Initialize handlers
	healthHandler := handler.New(cfg.App.Version, accountRepo, redisClient)
	authHandler := handler.NewAuthHandler(accountService, sessionService)
	sellerHandler := handler.NewSellerHandler(sellerService)
	supplyHandler := handler.NewSupplyHandler(supplyService)
	userHandler := handler.NewUserHandler(accountService)

	// Create auth middleware with injected dependencies
	authMiddleware := middleware.NewAuthMiddleware(middleware.AuthConfig{
		Sessions: sessionService,
	})

	// Create router
	r := router.New(router.Config{
		Handler:        healthHandler,
		AuthHandler:    authHandler,
		SellerHandler:  sellerHandler,
		SupplyHandler:  supplyHandler,
		UserHandler:    userHandler,
		AuthMiddleware: authMiddleware,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
