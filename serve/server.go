// Package serve exposes the agent manager over HTTP: agent CRUD, chat
// proxying, health checks, and the system prompt template catalog.
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/agentdock/agentdock"
)

// Config holds server configuration.
type Config struct {
	Addr   string
	DBPath string
}

// Server is the HTTP boundary in front of the agent Manager.
type Server struct {
	mgr   *agentdock.Manager
	store Store
	cfg   Config
}

// New creates a new Server.
func New(mgr *agentdock.Manager, cfg Config) *Server {
	return &Server{
		mgr: mgr,
		cfg: cfg,
	}
}

// Start initializes the transcript store, registers routes, and
// listens for HTTP requests. It blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	store, err := NewSQLiteStore(s.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	s.store = store
	if err := store.Init(); err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: corsMiddleware(mux),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("agentdock serve started", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if err := store.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	return nil
}

// registerRoutes adds all API routes to the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("GET /templates/{name}", s.handleGetTemplate)

	mux.HandleFunc("POST /agents", s.handleCreateAgent)
	mux.HandleFunc("GET /agents", s.handleListAgents)
	mux.HandleFunc("GET /agents/{id}", s.handleGetAgent)
	mux.HandleFunc("DELETE /agents/{id}", s.handleDeleteAgent)
	mux.HandleFunc("POST /agents/{id}/chat", s.handleChat)
	mux.HandleFunc("GET /agents/{id}/health", s.handleAgentHealth)
	mux.HandleFunc("GET /agents/{id}/transcript", s.handleTranscript)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
