package api

import (
	"context"
	"net/http"

	"github.com/okian/warcut/internal/domain/types"
)

// ReportDependencies exposes the tables of the latest report.
type ReportDependencies interface {
	Summary(ctx context.Context) (types.Summary, error)
	Penalties(ctx context.Context) ([]types.Penalty, error)
	Diagnostics(ctx context.Context) ([]string, error)
}

// ReportHandler serves the summary, penalty and diagnostic tables.
type ReportHandler struct {
	deps ReportDependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleSummary handles GET /summary requests.
func (h *ReportHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	summary, err := h.deps.Summary(r.Context())
	if err != nil {
		writeStoreError(w, "api.get_summary", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandlePenalties handles GET /penalties requests.
func (h *ReportHandler) HandlePenalties(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	penalties, err := h.deps.Penalties(r.Context())
	if err != nil {
		writeStoreError(w, "api.get_penalties", err)
		return
	}
	writeJSON(w, http.StatusOK, penalties)
}

type diagnosticsResponse struct {
	Errors []string `json:"errors"`
}

// HandleDiagnostics handles GET /diagnostics requests.
func (h *ReportHandler) HandleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	diags, err := h.deps.Diagnostics(r.Context())
	if err != nil {
		writeStoreError(w, "api.get_diagnostics", err)
		return
	}
	if diags == nil {
		diags = []string{}
	}
	writeJSON(w, http.StatusOK, diagnosticsResponse{Errors: diags})
}
