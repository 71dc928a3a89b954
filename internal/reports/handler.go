package reports

import (
	"context"
	"errors"
	"net/http"
	"time"

	alerts "github.com/ricmagno/KagomeReports-sub002/internal/alerts/domain"
	"github.com/ricmagno/KagomeReports-sub002/internal/observability/metrics"
)

// ConfigReader loads alert configs for reporting.
type ConfigReader interface {
	List(ctx context.Context) ([]alerts.AlertConfig, error)
}

// PatternLister loads all patterns.
type PatternLister interface {
	List(ctx context.Context) ([]alerts.AlertPattern, error)
}

// ListLister loads all distribution lists.
type ListLister interface {
	List(ctx context.Context) ([]alerts.DistributionList, error)
}

// Handler serves alert inventory exports.
type Handler struct {
	configs  ConfigReader
	patterns PatternLister
	lists    ListLister
}

// NewHandler constructs an export handler.
func NewHandler(configs ConfigReader, patterns PatternLister, lists ListLister) (*Handler, error) {
	if configs == nil || patterns == nil || lists == nil {
		return nil, errors.New("reports handler: nil reader")
	}
	return &Handler{configs: configs, patterns: patterns, lists: lists}, nil
}

// ServeHTTP handles GET /api/v1/reports/alerts?format=pdf|xlsx|csv.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	start := time.Now()
	body, contentType, filename, err := h.export(r.Context(), format)
	if err != nil {
		if errors.Is(err, errUnknownFormat) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		metrics.ObserveReportExport(format, metrics.ResultError, time.Since(start))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	metrics.ObserveReportExport(format, metrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(body)
}

var errUnknownFormat = errors.New("reports: unknown format")

func (h *Handler) export(ctx context.Context, format string) ([]byte, string, string, error) {
	switch format {
	case "pdf", "xlsx", "csv":
	default:
		return nil, "", "", errUnknownFormat
	}

	configs, err := h.configs.List(ctx)
	if err != nil {
		return nil, "", "", err
	}
	patternList, err := h.patterns.List(ctx)
	if err != nil {
		return nil, "", "", err
	}
	listList, err := h.lists.List(ctx)
	if err != nil {
		return nil, "", "", err
	}

	patterns := make(map[string]alerts.AlertPattern, len(patternList))
	for _, pattern := range patternList {
		patterns[pattern.ID] = pattern
	}
	lists := make(map[string]alerts.DistributionList, len(listList))
	for _, list := range listList {
		lists[list.ID] = list
	}
	rows := BuildInventory(configs, patterns, lists)
	now := time.Now().UTC()

	switch format {
	case "pdf":
		body, err := BuildInventoryPDF(rows, now)
		return body, "application/pdf", "alerts.pdf", err
	case "xlsx":
		body, err := BuildInventoryXLSX(rows, now)
		return body, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "alerts.xlsx", err
	default:
		body, err := BuildInventoryCSV(rows)
		return body, "text/csv", "alerts.csv", err
	}
}
