package httpapi

import (
	"net/http"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/service"

	"go.uber.org/zap"
)

const unitsPrefix = "/api/v1/units/"

type UnitsHandler struct {
	units  service.UnitService
	logger *zap.Logger
}

func NewUnitsHandler(units service.UnitService, logger *zap.Logger) *UnitsHandler {
	return &UnitsHandler{units: units, logger: logger}
}

func (h *UnitsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	isItem := pathID(path, unitsPrefix) != ""
	switch {
	case path == "/api/v1/units/search" && r.Method == http.MethodGet:
		h.Search(w, r)
	case path == "/api/v1/units/stats" && r.Method == http.MethodGet:
		h.Stats(w, r)
	case path == "/api/v1/units/occupancy" && r.Method == http.MethodGet:
		h.Occupancy(w, r)
	case path == "/api/v1/units/search" || path == "/api/v1/units/stats" || path == "/api/v1/units/occupancy":
		w.WriteHeader(http.StatusMethodNotAllowed)
	case path == "/api/v1/units" && r.Method == http.MethodGet:
		h.List(w, r)
	case path == "/api/v1/units" && r.Method == http.MethodPost:
		h.Create(w, r)
	case isItem && r.Method == http.MethodGet:
		h.Get(w, r)
	case isItem && r.Method == http.MethodPut:
		h.Update(w, r)
	case isItem && r.Method == http.MethodDelete:
		h.Delete(w, r)
	case path == "/api/v1/units" || isItem:
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *UnitsHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, 0); !ok {
		return
	}
	units, err := h.units.ListUnits(r.Context())
	if err != nil {
		writeError(w, h.logger, "list units", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(units))
}

func (h *UnitsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, 0); !ok {
		return
	}
	id, ok := parseID(w, r.URL.Path, unitsPrefix)
	if !ok {
		return
	}
	u, err := h.units.GetUnit(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "get unit", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(u))
}

// Search ?q=, ?status=occupied|vacant, ?category=old|new|villa.
func (h *UnitsHandler) Search(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, 0); !ok {
		return
	}
	q := r.URL.Query()
	units, err := h.units.SearchUnits(r.Context(), service.UnitQuery{
		Term:     q.Get("q"),
		Status:   q.Get("status"),
		Category: domain.BuildingCategory(q.Get("category")),
	})
	if err != nil {
		writeError(w, h.logger, "search units", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(units))
}

func (h *UnitsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, 0); !ok {
		return
	}
	stats, err := h.units.Statistics(r.Context())
	if err != nil {
		writeError(w, h.logger, "unit statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stats))
}

func (h *UnitsHandler) Occupancy(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, 0); !ok {
		return
	}
	report, err := h.units.Occupancy(r.Context())
	if err != nil {
		writeError(w, h.logger, "unit occupancy", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(report))
}

func (h *UnitsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, domain.CanManageSystem); !ok {
		return
	}
	var req service.UnitRequest
	if !decodeBody(w, r, maxBodyBytes, &req) {
		return
	}
	u, err := h.units.CreateUnit(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "create unit", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(u))
}

func (h *UnitsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, domain.CanManageSystem); !ok {
		return
	}
	id, ok := parseID(w, r.URL.Path, unitsPrefix)
	if !ok {
		return
	}
	var req service.UnitPatch
	if !decodeBody(w, r, maxBodyBytes, &req) {
		return
	}
	u, err := h.units.UpdateUnit(r.Context(), id, req)
	if err != nil {
		writeError(w, h.logger, "update unit", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(u))
}

func (h *UnitsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, domain.CanManageSystem); !ok {
		return
	}
	id, ok := parseID(w, r.URL.Path, unitsPrefix)
	if !ok {
		return
	}
	if err := h.units.DeleteUnit(r.Context(), id); err != nil {
		writeError(w, h.logger, "delete unit", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
