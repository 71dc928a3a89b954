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

// ConfigHandler provides alert config CRUD endpoints.
type ConfigHandler struct {
	configs     *alertsrepo.AlertConfigRepository
	patterns    *alertsrepo.PatternRepository
	auditLogger audit.Logger
}

// NewConfigHandler constructs a handler.
func NewConfigHandler(configs *alertsrepo.AlertConfigRepository, patterns *alertsrepo.PatternRepository, auditLogger audit.Logger) (*ConfigHandler, error) {
	if configs == nil {
		return nil, errors.New("alert config handler: nil repository")
	}
	return &ConfigHandler{configs: configs, patterns: patterns, auditLogger: auditLogger}, nil
}

// ServeHTTP handles /api/v1/alerts and subroutes.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/alerts":
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case strings.HasPrefix(r.URL.Path, "/api/v1/alerts/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/v1/alerts/")
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

func (h *ConfigHandler) handleList(w http.ResponseWriter, r *http.Request) {
	var (
		list []alerts.AlertConfig
		err  error
	)
	if r.URL.Query().Get("active") == "true" {
		list, err = h.configs.ListActive(r.Context())
	} else {
		list, err = h.configs.List(r.Context())
	}
	if err != nil {
		respondError(w, err)
		return
	}
	if list == nil {
		list = []alerts.AlertConfig{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *ConfigHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	config, err := h.configs.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if config == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, config)
}

func (h *ConfigHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var config alerts.AlertConfig
	if !decodeBody(w, r, &config) {
		return
	}
	if config.ID == "" {
		config.ID = uuid.NewString()
	}
	if err := config.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.patternExists(w, r, config.PatternID) {
		return
	}
	if err := h.configs.Create(r.Context(), &config); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, config)
	logAudit(r, h.auditLogger, "alert_config.create", "alert_config", config.ID, map[string]any{
		"tag_base": config.TagBase,
		"active":   config.Active,
	})
}

func (h *ConfigHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var config alerts.AlertConfig
	if !decodeBody(w, r, &config) {
		return
	}
	config.ID = id
	if err := config.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.patternExists(w, r, config.PatternID) {
		return
	}
	if err := h.configs.Update(r.Context(), &config); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, config)
	logAudit(r, h.auditLogger, "alert_config.update", "alert_config", config.ID, map[string]any{
		"tag_base": config.TagBase,
		"active":   config.Active,
	})
}

func (h *ConfigHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.configs.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logAudit(r, h.auditLogger, "alert_config.delete", "alert_config", id, nil)
}

func (h *ConfigHandler) patternExists(w http.ResponseWriter, r *http.Request, patternID string) bool {
	if h.patterns == nil {
		return true
	}
	pattern, err := h.patterns.GetByID(r.Context(), patternID)
	if err != nil {
		respondError(w, err)
		return false
	}
	if pattern == nil {
		http.Error(w, "pattern not found", http.StatusBadRequest)
		return false
	}
	return true
}
