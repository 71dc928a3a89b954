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

// DistributionListHandler provides distribution list CRUD endpoints.
type DistributionListHandler struct {
	lists       *alertsrepo.DistributionListRepository
	auditLogger audit.Logger
}

// NewDistributionListHandler constructs a handler.
func NewDistributionListHandler(lists *alertsrepo.DistributionListRepository, auditLogger audit.Logger) (*DistributionListHandler, error) {
	if lists == nil {
		return nil, errors.New("distribution list handler: nil repository")
	}
	return &DistributionListHandler{lists: lists, auditLogger: auditLogger}, nil
}

// ServeHTTP handles /api/v1/distribution-lists and subroutes.
func (h *DistributionListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/distribution-lists":
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case strings.HasPrefix(r.URL.Path, "/api/v1/distribution-lists/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/v1/distribution-lists/")
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

func (h *DistributionListHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.lists.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if list == nil {
		list = []alerts.DistributionList{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *DistributionListHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	list, err := h.lists.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if list == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *DistributionListHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var list alerts.DistributionList
	if !decodeBody(w, r, &list) {
		return
	}
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	if err := list.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.lists.Create(r.Context(), &list); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, list)
	logAudit(r, h.auditLogger, "distribution_list.create", "distribution_list", list.ID, map[string]any{
		"name":      list.Name,
		"endpoints": len(list.CleanEndpoints()),
	})
}

func (h *DistributionListHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var list alerts.DistributionList
	if !decodeBody(w, r, &list) {
		return
	}
	list.ID = id
	if err := list.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.lists.Update(r.Context(), &list); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
	logAudit(r, h.auditLogger, "distribution_list.update", "distribution_list", list.ID, map[string]any{
		"name":      list.Name,
		"endpoints": len(list.CleanEndpoints()),
	})
}

func (h *DistributionListHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.lists.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logAudit(r, h.auditLogger, "distribution_list.delete", "distribution_list", id, nil)
}
