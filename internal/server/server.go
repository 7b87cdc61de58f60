// Package server is the thin HTTP host around the engine: it reads the
// client body, runs the transformation, forwards the result upstream and
// streams the response back unchanged.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/n0madic/go-thinkgate/internal/config"
	"github.com/n0madic/go-thinkgate/internal/diag"
	"github.com/n0madic/go-thinkgate/internal/engine"
	"github.com/n0madic/go-thinkgate/internal/models"
	"github.com/n0madic/go-thinkgate/internal/upstream"
)

// maxBodyBytes limits the size of incoming request bodies.
const maxBodyBytes = 10 * 1024 * 1024 // 10 MB

// Server is the main HTTP server.
type Server struct {
	Config     *config.ServerConfig
	Engine     *engine.Engine
	Upstream   *upstream.Client
	Provider   engine.Provider
	Table      *models.Table
	Diag       *diag.Logger
	httpServer *http.Server
}

// New creates a new server with all routes registered.
func New(cfg *config.ServerConfig) *Server {
	table := models.DefaultTable()

	var logger *diag.Logger
	if cfg.Debug {
		l, err := diag.New(cfg.LogDir, cfg.MaxLogSize)
		if err != nil {
			slog.Warn("diagnostic log disabled", "error", err)
		} else {
			logger = l
			slog.Info("diagnostic log enabled", "path", l.Path())
		}
	}

	eng := engine.New(engine.Options{
		ForcePermanentThinking:   cfg.ForcePermanentThinking,
		OverrideMaxTokens:        cfg.OverrideMaxTokens,
		OverrideTemperature:      cfg.OverrideTemperature,
		OverrideTopP:             cfg.OverrideTopP,
		OverrideReasoning:        cfg.OverrideReasoning,
		OverrideKeywordDetection: cfg.OverrideKeywordDetection,
		CustomKeywords:           cfg.CustomKeywords,
		OverrideKeywords:         cfg.OverrideKeywords,
	}, table, logger)

	s := &Server{
		Config:   cfg,
		Engine:   eng,
		Upstream: upstream.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Verbose),
		Provider: engine.Provider{
			Name:    cfg.ProviderName,
			BaseURL: cfg.BaseURL,
			Models:  table.Names(),
		},
		Table: table,
		Diag:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleHealth)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /v1/chat/completions", s.handleChatCompletions)
	mux.HandleFunc("GET /v1/models", s.handleListModels)
	mux.HandleFunc("OPTIONS /", s.handleOptions)

	handler := corsMiddleware(requestIDMiddleware(verboseMiddleware(cfg, mux)))

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 600 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Handler exposes the configured handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server and flushes pending diagnostics.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Diag.Flush()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// readBody reads the request body with a size cap.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeOpenAIError(w, http.StatusBadRequest, "Failed to read request body")
		return nil, false
	}
	return body, true
}
