package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sandevgo/aimee/internal/core"
	"github.com/sandevgo/aimee/pkg/log"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Aimee - Best Friend AI SMS System",
		"status":    "running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  s.services,
	})
}

func (s *Server) handleModeStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.mode.Status())
}

func (s *Server) handleSwitchMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if err := s.mode.SwitchMode(core.Mode(req.Mode)); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	log.FromCtx(r.Context()).Info().Str("mode", req.Mode).Msg("operating mode switched")
	writeJSON(w, http.StatusOK, s.mode.Status())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
