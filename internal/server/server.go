// Package server wires the HTTP server, router, and route definitions.
//
// This is the composition root: the database, services, and handlers are
// all constructed and connected here, not scattered across the codebase.
// main.go only reads config and calls New/Start.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tandrade/havenlink/internal/auth"
	"github.com/tandrade/havenlink/internal/handler"
	"github.com/tandrade/havenlink/internal/middleware"
	sqliteRepo "github.com/tandrade/havenlink/internal/repository/sqlite"
	"github.com/tandrade/havenlink/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL gets flushed and the file
// lock released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database, token and password
// services, domain services, handlers, routes. Each layer receives only
// the interfaces it needs.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	return &Server{
		router: NewRouter(db, auth.NewPasswordService(), tokens, logger),
		config: cfg,
		logger: logger,
		db:     db,
	}, nil
}

// NewRouter builds the fully wired router. It is the single source of the
// route table — handler tests mount it too, so a route added or moved here
// is exercised without a second copy of the wiring.
//
// ROUTE STRUCTURE:
//
//	POST   /services                         → register a service
//	GET    /services                         → list all services
//	GET    /services/query                   → filtered search
//	GET    /services/{id}                    → get one service
//	PUT    /services/{id}                    → partial update
//	DELETE /services/{id}                    → delete (204 / 404)
//	GET    /services/{id}/feedback           → feedback for a service
//	POST   /services/categories/name/{name}  → add a category
//	GET    /services/categories              → list names (204 when empty)
//	GET    /services/categories/name/{name}  → existence check
//	DELETE /services/categories/name/{name}  → delete a category (200 / 404)
//	POST   /services/feedback                → record feedback
//	GET    /services/feedback/{id}           → get one record
//	DELETE /services/feedback/{id}           → delete a record (200 / 404)
//	POST   /user/signup                      → register an account
//	POST   /user/login                       → authenticate, issue JWT
//	POST   /user/requestReset                → open a reset window
//	POST   /user/resetPasswordWithToken      → consume the token
//	POST   /user/resetPassword               → direct reset
func NewRouter(
	db *sqliteRepo.DB,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *chi.Mux {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(logger))

	directory := service.NewDirectoryService(db.Services(), db.Categories(), logger)
	categories := service.NewCategoryService(db.Categories(), logger)
	accounts := service.NewAccountService(db.Users(), passwords, tokens, logger)
	feedback := service.NewFeedbackService(db.Feedback(), logger)

	serviceHandler := handler.NewServiceHandler(directory, logger)
	categoryHandler := handler.NewCategoryHandler(categories, logger)
	userHandler := handler.NewUserHandler(accounts, logger)
	feedbackHandler := handler.NewFeedbackHandler(feedback, logger)

	router.Route("/services", func(r chi.Router) {
		r.Post("/", serviceHandler.HandleRegister)
		r.Get("/", serviceHandler.HandleList)
		r.Get("/query", serviceHandler.HandleQuery)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.HandleList)
			r.Post("/name/{name}", categoryHandler.HandleAdd)
			r.Get("/name/{name}", categoryHandler.HandleExists)
			r.Delete("/name/{name}", categoryHandler.HandleDelete)
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Post("/", feedbackHandler.HandleCreate)
			r.Get("/{id}", feedbackHandler.HandleGet)
			r.Delete("/{id}", feedbackHandler.HandleDelete)
		})

		r.Get("/{id}", serviceHandler.HandleGet)
		r.Get("/{id}/feedback", feedbackHandler.HandleListByService)
		r.Put("/{id}", serviceHandler.HandleUpdate)
		r.Delete("/{id}", serviceHandler.HandleDelete)
	})

	router.Route("/user", func(r chi.Router) {
		r.Post("/signup", userHandler.HandleSignup)
		r.Post("/login", userHandler.HandleLogin)
		r.Post("/requestReset", userHandler.HandleRequestReset)
		r.Post("/resetPasswordWithToken", userHandler.HandleResetWithToken)
		r.Post("/resetPassword", userHandler.HandleResetDirect)
	})

	return router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, let in-flight requests finish
// (30s budget), close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
