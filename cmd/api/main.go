package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/spendwise/spendwise-go/internal/config"
	"github.com/spendwise/spendwise-go/internal/handler"
	"github.com/spendwise/spendwise-go/internal/middleware"
	"github.com/spendwise/spendwise-go/internal/repository"
	"github.com/spendwise/spendwise-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	// Storage must be reachable before the listener accepts traffic.
	db, err := repository.NewDB(cfg.DatabasePath)
	if err != nil {
		slog.Error("database initialization failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	expenseService := service.NewExpenseService(expenseRepo)

	authHandler := handler.NewAuthHandler(authService, cfg.Production(), cfg.JWTExpiry)
	expenseHandler := handler.NewExpenseHandler(expenseService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/auth/register", authHandler.HandleRegister)
		r.Post("/api/auth/login", authHandler.HandleLogin)
		r.Post("/api/auth/logout", authHandler.HandleLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret, userRepo))
		r.Get("/api/auth/current-user", authHandler.HandleCurrentUser)

		r.Post("/api/expenses", expenseHandler.HandleCreate)
		r.Get("/api/expenses", expenseHandler.HandleList)
		r.Get("/api/expenses/summary", expenseHandler.HandleSummary)
		r.Put("/api/expenses/{id}", expenseHandler.HandleUpdate)
		r.Delete("/api/expenses/{id}", expenseHandler.HandleDelete)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
