// Package server exposes the tool catalog, tool invocation, history, and
// billing over a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Aymanking75/infultools/pkg/billing"
	"github.com/Aymanking75/infultools/pkg/history"
	"github.com/Aymanking75/infultools/pkg/identity"
	"github.com/Aymanking75/infultools/pkg/toolrun"
	"github.com/Aymanking75/infultools/pkg/tools"
)

// Server wires the tool subsystem behind HTTP handlers. Each generate
// request gets its own controller; the dispatcher clients are stateless
// and shared.
type Server struct {
	logger     *slog.Logger
	dispatcher toolrun.Dispatcher
	sink       history.Sink
	identity   identity.Provider
	checkout   billing.Checkout
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

func WithHistory(sink history.Sink) Option {
	return func(s *Server) { s.sink = sink }
}

func WithIdentity(provider identity.Provider) Option {
	return func(s *Server) { s.identity = provider }
}

func WithCheckout(checkout billing.Checkout) Option {
	return func(s *Server) { s.checkout = checkout }
}

func New(dispatcher toolrun.Dispatcher, opts ...Option) *Server {
	s := &Server{
		logger:     slog.Default(),
		dispatcher: dispatcher,
		sink:       history.NewMemorySink(),
		identity:   identity.NewMemoryProvider(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/tools", s.handleListTools)
	mux.HandleFunc("POST /v1/tools/{kind}/generate", s.handleGenerate)
	mux.HandleFunc("GET /v1/history", s.handleHistory)
	mux.HandleFunc("GET /v1/plans", s.handlePlans)
	mux.HandleFunc("POST /v1/billing/checkout", s.handleCheckout)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type toolResponse struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	InputLabel       string `json:"inputLabel"`
	InputPlaceholder string `json:"inputPlaceholder"`
	Color            string `json:"color"`
	Render           string `json:"render"`
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	catalog := tools.Catalog()
	out := make([]toolResponse, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, toolResponse{
			ID:               string(d.Kind),
			Title:            d.Title,
			Description:      d.Description,
			InputLabel:       d.InputLabel,
			InputPlaceholder: d.InputPlaceholder,
			Color:            d.Color,
			Render:           string(d.Render),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": out})
}

type generateRequest struct {
	Input string `json:"input"`
}

type generateResponse struct {
	State          string `json:"state"`
	Text           string `json:"text,omitempty"`
	ImageURI       string `json:"imageUri,omitempty"`
	Notice         string `json:"notice,omitempty"`
	PreviewCapable bool   `json:"previewCapable,omitempty"`
	Error          string `json:"error,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	def, ok := tools.Lookup(tools.Kind(r.PathValue("kind")))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown tool")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := s.resolveUser(r)

	ctrl := toolrun.New(s.dispatcher,
		toolrun.WithHistory(s.sink),
		toolrun.WithLogger(s.logger),
	)
	res, err := ctrl.Submit(r.Context(), def, req.Input, userID)
	switch {
	case errors.Is(err, toolrun.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, "input must not be blank")
		return
	case err != nil:
		writeJSON(w, http.StatusBadGateway, generateResponse{
			State: string(toolrun.StateFailure),
			Error: res.Err,
		})
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		State:          string(toolrun.StateSuccess),
		Text:           res.Text,
		ImageURI:       res.ImageURI,
		Notice:         res.Notice,
		PreviewCapable: res.PreviewCapable,
	})
}

type historyResponse struct {
	ToolID    string `json:"toolId"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	Type      string `json:"type"`
	CreatedAt string `json:"createdAt"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := s.resolveUser(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "sign in required")
		return
	}
	recs, err := s.sink.ListByUser(r.Context(), userID, 50)
	if err != nil {
		s.logger.Error("history read failed", "user", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	out := make([]historyResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, historyResponse{
			ToolID:    rec.ToolID,
			Input:     rec.Input,
			Output:    rec.Output,
			Type:      string(rec.Type),
			CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": out})
}

type planResponse struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	PriceCents int64    `json:"priceCents"`
	Pro        bool     `json:"pro"`
	Features   []string `json:"features"`
}

func (s *Server) handlePlans(w http.ResponseWriter, _ *http.Request) {
	catalog := billing.Plans()
	out := make([]planResponse, 0, len(catalog))
	for _, p := range catalog {
		out = append(out, planResponse{
			ID:         p.ID,
			Title:      p.Title,
			PriceCents: p.PriceCents,
			Pro:        p.Pro,
			Features:   p.Features,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": out})
}

type checkoutRequest struct {
	Plan string `json:"plan"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if s.checkout == nil {
		writeError(w, http.StatusNotImplemented, "billing is not configured")
		return
	}
	userID := s.resolveUser(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "sign in required")
		return
	}
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	url, err := s.checkout.CreateSession(r.Context(), userID, req.Plan)
	if err != nil {
		s.logger.Error("checkout session failed", "user", userID, "plan", req.Plan, "error", err)
		writeError(w, http.StatusBadRequest, "could not start checkout")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// resolveUser maps the bearer token to a user id. Anonymous and unknown
// tokens resolve to empty, which downgrades to a signed-out request
// rather than rejecting it.
func (s *Server) resolveUser(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return ""
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	user, err := s.identity.Lookup(r.Context(), token)
	if err != nil {
		s.logger.Warn("identity lookup failed", "error", err)
		return ""
	}
	if user == nil {
		return ""
	}
	return user.ID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
