package httpapi

import (
	"net/http"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/service"

	"go.uber.org/zap"
)

const vehiclesPrefix = "/api/v1/vehicles/"

// VehiclesHandler vehicles are addressed by plate number.
type VehiclesHandler struct {
	vehicles service.VehicleService
	logger   *zap.Logger
}

func NewVehiclesHandler(vehicles service.VehicleService, logger *zap.Logger) *VehiclesHandler {
	return &VehiclesHandler{vehicles: vehicles, logger: logger}
}

func (h *VehiclesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch path {
	case "/api/v1/vehicles/repeat-offenders":
		h.only(w, r, http.MethodGet, h.RepeatOffenders)
		return
	case "/api/v1/vehicles/statistics":
		h.only(w, r, http.MethodGet, h.Statistics)
		return
	case "/api/v1/vehicles/recompute":
		h.only(w, r, http.MethodPost, h.Recompute)
		return
	case "/api/v1/vehicles/sync":
		h.only(w, r, http.MethodPost, h.Sync)
		return
	}

	isItem := pathID(path, vehiclesPrefix) != ""
	switch {
	case path == "/api/v1/vehicles" && r.Method == http.MethodGet:
		h.List(w, r)
	case path == "/api/v1/vehicles" && r.Method == http.MethodPost:
		h.Upsert(w, r, "")
	case isItem && r.Method == http.MethodGet:
		h.Get(w, r)
	case isItem && r.Method == http.MethodPut:
		h.Upsert(w, r, pathID(path, vehiclesPrefix))
	case isItem && r.Method == http.MethodDelete:
		h.Delete(w, r)
	case path == "/api/v1/vehicles" || isItem:
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *VehiclesHandler) only(w http.ResponseWriter, r *http.Request, method string, fn http.HandlerFunc) {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	fn(w, r)
}

// List all vehicles, or those matching ?q=.
func (h *VehiclesHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, domain.CanViewViolation); !ok {
		return
	}
	var (
		vehicles []domain.Vehicle
		err      error
	)
	if term := r.URL.Query().Get("q"); term != "" {
		vehicles, err = h.vehicles.SearchVehicles(r.Context(), term)
	} else {
		vehicles, err = h.vehicles.ListVehicles(r.Context())
	}
	if err != nil {
		writeError(w, h.logger, "list vehicles", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(vehicles))
}

func (h *VehiclesHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, domain.CanViewViolation); !ok {
		return
	}
	v, err := h.vehicles.GetVehicle(r.Context(), pathID(r.URL.Path, vehiclesPrefix))
	if err != nil {
		writeError(w, h.logger, "get vehicle", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(v))
}

// Upsert adds or updates by plate; a plate in the path wins over the body.
func (h *VehiclesHandler) Upsert(w http.ResponseWriter, r *http.Request, plate string) {
	if _, ok := authorize(w, r, domain.CanEditViolation); !ok {
		return
	}
	var req service.VehicleRequest
	if !decodeBody(w, r, maxBodyBytes, &req) {
		return
	}
	if plate != "" {
		req.PlateNumber = plate
	}
	v, err := h.vehicles.UpsertVehicle(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "save vehicle", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(v))
}

func (h *VehiclesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, domain.CanDeleteViolation); !ok {
		return
	}
	if err := h.vehicles.DeleteVehicle(r.Context(), pathID(r.URL.Path, vehiclesPrefix)); err != nil {
		writeError(w, h.logger, "delete vehicle", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

func (h *VehiclesHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, domain.CanEditViolation); !ok {
		return
	}
	vehicles, err := h.vehicles.RecomputeVehicleStats(r.Context())
	if err != nil {
		writeError(w, h.logger, "recompute vehicle stats", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(vehicles))
}

func (h *VehiclesHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, domain.CanEditViolation); !ok {
		return
	}
	res, err := h.vehicles.SyncVehiclesFromViolations(r.Context())
	if err != nil {
		writeError(w, h.logger, "sync vehicles", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

// RepeatOffenders ?min= defaults to 2.
func (h *VehiclesHandler) RepeatOffenders(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, domain.CanViewReports); !ok {
		return
	}
	minCount := parseInt(r.URL.Query().Get("min"), domain.DefaultRepeatOffenderMin)
	vehicles, err := h.vehicles.RepeatedOffenders(r.Context(), minCount)
	if err != nil {
		writeError(w, h.logger, "repeat offenders", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(vehicles))
}

func (h *VehiclesHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, domain.CanViewReports); !ok {
		return
	}
	stats, err := h.vehicles.AdvancedStatistics(r.Context())
	if err != nil {
		writeError(w, h.logger, "vehicle statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stats))
}
