// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/ysakura/eigo-coach/internal/config"
	"github.com/ysakura/eigo-coach/internal/domain"
	"github.com/ysakura/eigo-coach/internal/handlers"
	"github.com/ysakura/eigo-coach/internal/middleware"
	"github.com/ysakura/eigo-coach/internal/ratelimit"
	"github.com/ysakura/eigo-coach/internal/repository/bookmark"
	"github.com/ysakura/eigo-coach/internal/repository/chatgroup"
	"github.com/ysakura/eigo-coach/internal/repository/message"
	"github.com/ysakura/eigo-coach/internal/repository/user"
	"github.com/ysakura/eigo-coach/internal/services"
	"github.com/ysakura/eigo-coach/internal/services/ai"
	"github.com/ysakura/eigo-coach/internal/services/suggest"
	"github.com/ysakura/eigo-coach/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	logger := services.NewLogger("eigo_coach", cfg.LogFilePath)

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("DB error: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.ChatGroup{}, &domain.ChatMessage{}, &domain.Bookmark{}); err != nil {
		log.Fatalf("DB migration error: %v", err)
	}

	// --- Repositories ---
	userRepo := user.NewGormUserRepository(db)
	groupRepo := chatgroup.NewChatGroupRepository(db)
	messageRepo := message.NewMessageRepository(db)
	bookmarkRepo := bookmark.NewBookmarkRepository(db)

	// --- Services ---
	authService := user_services.NewAuthService(userRepo, cfg.JWTSecretKey, logger)

	chatService, err := services.NewChatService(groupRepo, messageRepo, logger)
	if err != nil {
		log.Fatalf("Failed to initialize chat service: %v", err)
	}

	bookmarkService, err := services.NewBookmarkService(bookmarkRepo, messageRepo, groupRepo, logger)
	if err != nil {
		log.Fatalf("Failed to initialize bookmark service: %v", err)
	}

	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.LLMAPIKey
	aiConfig.BaseURL = cfg.LLMBaseURL
	aiConfig.Model = cfg.LLMModel
	aiConfig.Temperature = cfg.LLMTemperature
	provider, err := ai.NewOpenAIProvider(aiConfig)
	if err != nil {
		log.Fatalf("Failed to initialize completion provider: %v", err)
	}

	suggestConfig := suggest.DefaultConfig()
	suggestConfig.VariantCount = cfg.SuggestionVariants
	completionClient := suggest.NewHTTPCompletionClient(cfg.CompletionURL, nil)
	orchestrator, err := suggest.NewOrchestrator(suggestConfig, completionClient, chatService, logger)
	if err != nil {
		log.Fatalf("Failed to initialize suggestion orchestrator: %v", err)
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	chatHandler := handlers.NewChatHandler(chatService)
	suggestHandler := handlers.NewSuggestHandler(chatService, orchestrator, logger)
	completionHandler := handlers.NewCompletionHandler(provider, logger)
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkService)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(authService)
	authLimiter := ratelimit.NewLimiter(ratelimit.DefaultAuthConfig())

	r.Use(corsMiddleware)
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewLoggingMiddleware(logger))

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")
	r.Handle("/api/auth/register", authLimiter.Middleware(http.HandlerFunc(authHandler.Register))).Methods("POST")
	r.Handle("/api/auth/login", authLimiter.Middleware(http.HandlerFunc(authHandler.Login))).Methods("POST")
	r.HandleFunc("/api/auth/logout", authHandler.Logout).Methods("GET")

	// The completion proxy is the upstream of the suggestion orchestrator's
	// self-referential default COMPLETION_URL, so it stays outside the
	// session middleware.
	r.HandleFunc("/api/completion", completionHandler.Complete).Methods("POST")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/profile", authHandler.GetProfile).Methods("GET")
	api.HandleFunc("/profile", authHandler.UpdateProfile).Methods("PUT")
	api.HandleFunc("/groups", chatHandler.GetUserGroups).Methods("GET")
	api.HandleFunc("/groups", chatHandler.CreateGroup).Methods("POST")
	api.HandleFunc("/groups/with-message", chatHandler.CreateGroupWithMessage).Methods("POST")
	api.HandleFunc("/groups/{id:[0-9]+}", chatHandler.DeleteGroup).Methods("DELETE")
	api.HandleFunc("/groups/{id:[0-9]+}/messages", chatHandler.GetGroupMessages).Methods("GET")
	api.HandleFunc("/groups/{id:[0-9]+}/suggest", suggestHandler.Suggest).Methods("POST")
	api.HandleFunc("/bookmarks", bookmarkHandler.List).Methods("GET")
	api.HandleFunc("/bookmarks", bookmarkHandler.Create).Methods("POST")
	api.HandleFunc("/bookmarks/{id:[0-9]+}", bookmarkHandler.Delete).Methods("DELETE")

	// --- Server Configuration ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	logger.Info("server starting", "port", cfg.ServerPort, "environment", cfg.Environment)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	logger.Info("server stopped")
}
