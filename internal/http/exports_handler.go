package httpapi

import (
	"net/http"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/export"
	"github.com/Ali5829511/wwwr/internal/service"

	"go.uber.org/zap"
)

const (
	exportsPrefix = "/api/v1/exports/"
	// HeaderReportNumber carries the TR-YYYYMMDD-NNN number stamped into the workbook.
	HeaderReportNumber = "X-Report-Number"
)

// ExportsHandler XLSX downloads of the record collections.
type ExportsHandler struct {
	stickers   service.StickerService
	violations service.ViolationService
	vehicles   service.VehicleService
	units      service.UnitService
	exporter   *export.Exporter
	logger     *zap.Logger
}

func NewExportsHandler(
	stickers service.StickerService,
	violations service.ViolationService,
	vehicles service.VehicleService,
	units service.UnitService,
	exporter *export.Exporter,
	logger *zap.Logger,
) *ExportsHandler {
	return &ExportsHandler{
		stickers:   stickers,
		violations: violations,
		vehicles:   vehicles,
		units:      units,
		exporter:   exporter,
		logger:     logger,
	}
}

func (h *ExportsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kind := pathID(r.URL.Path, exportsPrefix)
	if kind == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := authorize(w, r, domain.CanExportData); !ok {
		return
	}

	ctx := r.Context()
	var (
		report *export.Report
		err    error
	)
	switch kind {
	case "stickers":
		var items []domain.Sticker
		if items, err = h.stickers.ListStickers(ctx); err == nil {
			report, err = h.exporter.Stickers(items)
		}
	case "violations":
		var items []domain.Violation
		if items, err = h.violations.ListViolations(ctx); err == nil {
			report, err = h.exporter.Violations(items)
		}
	case "vehicles":
		var items []domain.Vehicle
		if items, err = h.vehicles.ListVehicles(ctx); err == nil {
			report, err = h.exporter.Vehicles(items)
		}
	case "repeat-offenders":
		minCount := parseInt(r.URL.Query().Get("min"), domain.DefaultRepeatOffenderMin)
		var items []domain.Vehicle
		if items, err = h.vehicles.RepeatedOffenders(ctx, minCount); err == nil {
			report, err = h.exporter.RepeatOffenders(items)
		}
	case "units":
		var items []domain.ResidentialUnit
		if items, err = h.units.ListUnits(ctx); err == nil {
			report, err = h.exporter.Units(items)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, h.logger, "export "+kind, err)
		return
	}

	h.logger.Info("Report exported",
		zap.String("kind", kind),
		zap.String("report_number", report.Number),
		zap.Int("bytes", len(report.Data)),
	)
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+report.Filename)
	w.Header().Set(HeaderReportNumber, report.Number)
	w.WriteHeader(http.StatusOK)
	w.Write(report.Data)
}
