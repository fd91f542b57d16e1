package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"jinding-ha/internal/domain/binding"
	"jinding-ha/internal/domain/model"
	"jinding-ha/internal/domain/service"
	"jinding-ha/internal/ports"
)

type Server struct {
	setup  ports.SetupPort
	logger *zap.Logger
}

func NewServer(setup ports.SetupPort, logger *zap.Logger) *Server {
	return &Server{
		setup:  setup,
		logger: logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin", s.handleAdmin)
	mux.HandleFunc("/admin/config", s.handleConfig)
	mux.HandleFunc("/admin/refresh", s.handleRefresh)
	mux.HandleFunc("/admin/devices", s.handleDevices)
	mux.HandleFunc("/admin/keys", s.handleKeys)
	mux.HandleFunc("/admin/lights", s.handleLights)
	mux.HandleFunc("/admin/bindings", s.handleBindings)
	mux.HandleFunc("/admin/automations.yaml", s.handleAutomations)
	mux.HandleFunc("/admin/knx", s.handleKNX)
	mux.HandleFunc("/admin/knx.yaml", s.handleKNXText)
	mux.HandleFunc("/admin/summary", s.handleSummary)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("admin server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// configView is the saved hub connection without its token.
type configView struct {
	URL        string `json:"hass_url"`
	Configured bool   `json:"configured"`
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, err := s.setup.GetConfig(r.Context())
		if err != nil {
			s.writeError(w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, configView{
			URL:        cfg.URL,
			Configured: cfg.URL != "" && cfg.Token != "",
		})
	case http.MethodPost:
		var cfg model.HassConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// A rejected login is the hub's answer, not ours
		if err := s.setup.UpdateConfig(r.Context(), &cfg); err != nil {
			s.writeError(w, err, http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.setup.Refresh(r.Context()); err != nil {
		s.writeError(w, err, http.StatusBadGateway)
		return
	}
	s.handleSummary(w, r)
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(s.setup.GetDevices(r.Context())))
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(s.setup.GetKeys(r.Context())))
}

func (s *Server) handleLights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(s.setup.GetLights(r.Context())))
}

func (s *Server) handleBindings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, nonNil(s.setup.GetBindings(r.Context())))
	case http.MethodPut:
		var entry model.BindingEntry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.setup.SetBinding(r.Context(), entry.EntityID, entry.KNXItemID); err != nil {
			s.writeError(w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(s.setup.GetBindings(r.Context())))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAutomations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	out, err := s.setup.Automations(r.Context())
	if err != nil {
		s.writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeText(w, "application/yaml; charset=utf-8", out)
}

func (s *Server) handleKNX(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := s.setup.GetKNXItems(r.Context())
		if err != nil {
			s.writeError(w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPut:
		var items []model.KNXItem
		if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.setup.SaveKNXItems(r.Context(), items); err != nil {
			s.writeError(w, err, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleKNXText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	text, err := s.setup.KNXText(r.Context())
	if err != nil {
		s.writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeText(w, "application/yaml; charset=utf-8", text+"\n")
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.setup.Summary(r.Context())
	if err != nil {
		s.writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// writeError maps domain errors to client statuses; anything else gets fallback.
func (s *Server) writeError(w http.ResponseWriter, err error, fallback int) {
	status := fallback
	switch {
	case errors.Is(err, model.ErrInvalidKNXItem),
		errors.Is(err, model.ErrInvalidHassConfig),
		errors.Is(err, service.ErrInvalidLight):
		status = http.StatusBadRequest
	case errors.Is(err, binding.ErrUnknownKey):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNotConfigured):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("admin request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	fmt.Fprint(w, body)
}

// nonNil keeps empty lists as [] on the wire.
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
