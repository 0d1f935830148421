package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"parley/internal/auth"
	"parley/internal/config"
	"parley/internal/domain/repositories"
	"parley/internal/handler"
	"parley/internal/hydrate"
	"parley/internal/middleware"
	s3repo "parley/internal/repository/s3"
	"parley/internal/service"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"bucket", cfg.BucketName,
	)

	// Create JWT verifier for Auth0 authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.Auth0Domain, cfg.APIAudience, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create S3 client
	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("Failed to load AWS configuration: %v", err)
	}
	s3Client := awss3.NewFromConfig(awsCfg)

	// Document store and key scheme
	store := s3repo.NewDocumentStore(&s3repo.StoreConfig{
		Client: s3Client,
		Bucket: cfg.BucketName,
		Logger: logger,
	})
	keys := repositories.NewKeyScheme(cfg.BaseFolder, cfg.ConversationsDir, cfg.BlocksDir, cfg.ResponsesDir)

	// Fetch cache is owned here and shared by every request
	fetchCache := hydrate.NewFetchCache(cfg.CacheMaxEntries, cfg.CacheTTL)
	hydrator := hydrate.NewHydrator(store, keys, fetchCache, logger)

	logger.Info("fetch cache initialized",
		"max_entries", cfg.CacheMaxEntries,
		"ttl", cfg.CacheTTL.String(),
	)

	// Create services
	conversationService := service.NewConversationService(store, keys, hydrator, logger)
	blockService := service.NewBlockService(store, keys, hydrator, logger)
	responseService := service.NewResponseService(store, keys, hydrator, logger)

	// Create handlers
	conversationHandler := handler.NewConversationHandler(conversationService, logger)
	blockHandler := handler.NewBlockHandler(blockService, logger)
	responseHandler := handler.NewResponseHandler(responseService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", conversationHandler.HealthCheck)

	// Conversation routes
	mux.HandleFunc("POST /api/conversations", conversationHandler.CreateConversation)
	mux.HandleFunc("GET /api/conversations", conversationHandler.ListConversations)
	mux.HandleFunc("GET /api/conversations/{id}", conversationHandler.GetConversation)
	mux.HandleFunc("PUT /api/conversations/{id}", conversationHandler.UpdateConversation)
	mux.HandleFunc("DELETE /api/conversations/{id}", conversationHandler.DeleteConversation)

	// Block routes
	mux.HandleFunc("POST /api/conversations/{id}/blocks", blockHandler.CreateBlock)
	mux.HandleFunc("GET /api/conversations/{id}/blocks/{blockId}", blockHandler.GetBlock)
	mux.HandleFunc("PUT /api/conversations/{id}/blocks/{blockId}", blockHandler.UpdateBlock)
	mux.HandleFunc("DELETE /api/conversations/{id}/blocks/{blockId}", blockHandler.DeleteBlock)

	// Response routes
	mux.HandleFunc("POST /api/conversations/{id}/blocks/{blockId}/responses", responseHandler.CreateResponse)
	mux.HandleFunc("GET /api/conversations/{id}/blocks/{blockId}/responses/{responseId}", responseHandler.GetResponse)
	mux.HandleFunc("PUT /api/conversations/{id}/blocks/{blockId}/responses/{responseId}", responseHandler.UpdateResponse)
	mux.HandleFunc("DELETE /api/conversations/{id}/blocks/{blockId}/responses/{responseId}", responseHandler.DeleteResponse)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.AuthMiddleware(jwtVerifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
