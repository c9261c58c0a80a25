// Package server exposes the QA chain over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harborlabs/graphqa/pkg/graph"
	"github.com/harborlabs/graphqa/pkg/llm"
	"github.com/harborlabs/graphqa/pkg/qa"
)

// Config holds the collaborators the server builds chains from.
type Config struct {
	Logger         *slog.Logger
	Graph          graph.Store
	LLM            llm.Client
	Prompts        *qa.Prompts // nil means the embedded defaults
	AllowedOrigins []string    // CORS origins, defaults to none
}

// Server handles QA requests. A fresh chain is built per request so each
// invocation carries its own callback recorder; the chain itself is
// stateless either way.
type Server struct {
	cfg *Config
	log *slog.Logger
}

// New creates a Server.
func New(cfg *Config) (*Server, error) {
	if cfg.Graph == nil {
		return nil, errors.New("graph store is required")
	}
	if cfg.LLM == nil {
		return nil, errors.New("LLM client is required")
	}
	if cfg.Prompts == nil {
		prompts, err := qa.LoadPrompts()
		if err != nil {
			return nil, err
		}
		cfg.Prompts = prompts
	}

	return &Server{
		cfg: cfg,
		log: cfg.Logger,
	}, nil
}

// Router returns the HTTP handler for the server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)
	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Post("/api/ask", s.handleAsk)

	return r
}

// AskRequest is the incoming question.
type AskRequest struct {
	Query string `json:"query"`
}

// AskResponse carries the synthesized answer plus the generated statement
// for transparency.
type AskResponse struct {
	Result    string `json:"result"`
	Statement string `json:"statement,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AskResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, AskResponse{Error: "query is required"})
		return
	}

	recorder := &recordingCallbacks{}
	chain, err := qa.New(&qa.Config{
		Logger:    s.log,
		Graph:     s.cfg.Graph,
		LLM:       s.cfg.LLM,
		Prompts:   s.cfg.Prompts,
		Callbacks: recorder,
	})
	if err != nil {
		invocationsTotal.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusInternalServerError, AskResponse{Error: "failed to initialize chain"})
		return
	}

	out, err := chain.Invoke(r.Context(), qa.Values{qa.DefaultInputKey: req.Query})
	if err != nil {
		status := http.StatusBadGateway
		var missing *qa.MissingInputError
		if errors.As(err, &missing) {
			status = http.StatusBadRequest
		}
		if s.log != nil {
			s.log.Error("ask failed", "error", err)
		}
		invocationsTotal.WithLabelValues("error").Inc()
		writeJSON(w, status, AskResponse{Error: err.Error(), Statement: recorder.statement})
		return
	}

	answer, _ := out[qa.DefaultOutputKey].(string)
	invocationsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, AskResponse{
		Result:    answer,
		Statement: recorder.statement,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// recordingCallbacks captures chain emissions for the API response.
type recordingCallbacks struct {
	statement string
	formatted string
}

func (c *recordingCallbacks) OnStatement(_ context.Context, statement string) {
	c.statement = statement
}

func (c *recordingCallbacks) OnResult(_ context.Context, formatted string) {
	c.formatted = formatted
}
