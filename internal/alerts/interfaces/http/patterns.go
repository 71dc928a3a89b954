package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	alerts "github.com/ricmagno/KagomeReports-sub002/internal/alerts/domain"
	alertsrepo "github.com/ricmagno/KagomeReports-sub002/internal/alerts/infrastructure/postgres"
	"github.com/ricmagno/KagomeReports-sub002/internal/audit"
)

// PatternHandler provides alert pattern CRUD endpoints.
type PatternHandler struct {
	patterns    *alertsrepo.PatternRepository
	auditLogger audit.Logger
}

// NewPatternHandler constructs a handler.
func NewPatternHandler(patterns *alertsrepo.PatternRepository, auditLogger audit.Logger) (*PatternHandler, error) {
	if patterns == nil {
		return nil, errors.New("pattern handler: nil repository")
	}
	return &PatternHandler{patterns: patterns, auditLogger: auditLogger}, nil
}

// ServeHTTP handles /api/v1/patterns and subroutes.
func (h *PatternHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/patterns":
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case strings.HasPrefix(r.URL.Path, "/api/v1/patterns/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/v1/patterns/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, id)
		case http.MethodPut:
			h.handleUpdate(w, r, id)
		case http.MethodDelete:
			h.handleDelete(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *PatternHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.patterns.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if list == nil {
		list = []alerts.AlertPattern{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *PatternHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	pattern, err := h.patterns.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if pattern == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, pattern)
}

func (h *PatternHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var pattern alerts.AlertPattern
	if !decodeBody(w, r, &pattern) {
		return
	}
	if pattern.ID == "" {
		pattern.ID = uuid.NewString()
	}
	if err := pattern.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.patterns.Create(r.Context(), &pattern); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, pattern)
	logAudit(r, h.auditLogger, "pattern.create", "alert_pattern", pattern.ID, map[string]any{"name": pattern.Name})
}

func (h *PatternHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var pattern alerts.AlertPattern
	if !decodeBody(w, r, &pattern) {
		return
	}
	pattern.ID = id
	if err := pattern.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.patterns.Update(r.Context(), &pattern); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pattern)
	logAudit(r, h.auditLogger, "pattern.update", "alert_pattern", pattern.ID, map[string]any{"name": pattern.Name})
}

func (h *PatternHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.patterns.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logAudit(r, h.auditLogger, "pattern.delete", "alert_pattern", id, nil)
}
