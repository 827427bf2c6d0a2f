package httpapi

import (
	"net/http"
	"time"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/repository"

	"go.uber.org/zap"
)

// ReportsHandler serves the relational reporting views. A nil repository means the
// reporting database is disabled.
type ReportsHandler struct {
	reports repository.ReportsRepository
	logger  *zap.Logger
	now     func() time.Time
}

func NewReportsHandler(reports repository.ReportsRepository, logger *zap.Logger) *ReportsHandler {
	return &ReportsHandler{reports: reports, logger: logger, now: time.Now}
}

func (h *ReportsHandler) ResidentialUnits(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, domain.CanViewReports); !ok {
		return
	}
	if h.reports == nil {
		writeJSON(w, http.StatusServiceUnavailable, FailKind(domain.KindStorage, "reporting database is disabled"))
		return
	}
	ctx := r.Context()
	units, err := h.reports.ListResidentialUnits(ctx)
	if err != nil {
		writeError(w, h.logger, "report residential units", domain.Wrap(domain.KindStorage, err, "read residential units"))
		return
	}
	stats, err := h.reports.UnitStatistics(ctx)
	if err != nil {
		writeError(w, h.logger, "report unit statistics", domain.Wrap(domain.KindStorage, err, "read unit statistics"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"success":     true,
		"units":       units,
		"statistics":  stats,
		"total_count": len(units),
		"timestamp":   h.now().UTC().Format(time.RFC3339),
	}))
}
