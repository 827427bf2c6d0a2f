package httpapi

import (
	"net/http"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/service"

	"go.uber.org/zap"
)

const violationsPrefix = "/api/v1/violations/"

type ViolationsHandler struct {
	violations service.ViolationService
	logger     *zap.Logger
}

func NewViolationsHandler(violations service.ViolationService, logger *zap.Logger) *ViolationsHandler {
	return &ViolationsHandler{violations: violations, logger: logger}
}

func (h *ViolationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	isItem := pathID(path, violationsPrefix) != ""
	switch {
	case path == "/api/v1/violations/search" && r.Method == http.MethodGet:
		h.Search(w, r)
	case path == "/api/v1/violations/stats" && r.Method == http.MethodGet:
		h.Stats(w, r)
	case path == "/api/v1/violations/search" || path == "/api/v1/violations/stats":
		w.WriteHeader(http.StatusMethodNotAllowed)
	case path == "/api/v1/violations" && r.Method == http.MethodGet:
		h.List(w, r)
	case path == "/api/v1/violations" && r.Method == http.MethodPost:
		h.Create(w, r)
	case isItem && r.Method == http.MethodGet:
		h.Get(w, r)
	case isItem && r.Method == http.MethodPut:
		h.Update(w, r)
	case isItem && r.Method == http.MethodDelete:
		h.Delete(w, r)
	case path == "/api/v1/violations" || isItem:
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ViolationsHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, domain.CanViewViolation); !ok {
		return
	}
	violations, err := h.violations.ListViolations(r.Context())
	if err != nil {
		writeError(w, h.logger, "list violations", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(violations))
}

func (h *ViolationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, domain.CanViewViolation); !ok {
		return
	}
	id, ok := parseID(w, r.URL.Path, violationsPrefix)
	if !ok {
		return
	}
	v, err := h.violations.GetViolation(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "get violation", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(v))
}

// Search ?plate= (contains) and/or ?date= (prefix).
func (h *ViolationsHandler) Search(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, domain.CanViewViolation); !ok {
		return
	}
	q := r.URL.Query()
	violations, err := h.violations.SearchViolations(r.Context(), service.ViolationQuery{
		Plate: q.Get("plate"),
		Date:  q.Get("date"),
	})
	if err != nil {
		writeError(w, h.logger, "search violations", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(violations))
}

func (h *ViolationsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, domain.CanViewViolation); !ok {
		return
	}
	stats, err := h.violations.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, "violation stats", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stats))
}

func (h *ViolationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := authorize(w, r, domain.CanAddViolation)
	if !ok {
		return
	}
	var req service.ViolationRequest
	if !decodeBody(w, r, maxBodyBytes, &req) {
		return
	}
	// plate-recognizer provenance is reserved for the camera feed
	req.Source = domain.SourceManual
	req.Confidence = 0
	v, err := h.violations.CreateViolation(r.Context(), actor(sess), req)
	if err != nil {
		writeError(w, h.logger, "create violation", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(v))
}

func (h *ViolationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := authorize(w, r, domain.CanEditViolation)
	if !ok {
		return
	}
	id, ok := parseID(w, r.URL.Path, violationsPrefix)
	if !ok {
		return
	}
	var req service.ViolationPatch
	if !decodeBody(w, r, maxBodyBytes, &req) {
		return
	}
	v, err := h.violations.UpdateViolation(r.Context(), actor(sess), id, req)
	if err != nil {
		writeError(w, h.logger, "update violation", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(v))
}

func (h *ViolationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := authorize(w, r, domain.CanDeleteViolation)
	if !ok {
		return
	}
	id, ok := parseID(w, r.URL.Path, violationsPrefix)
	if !ok {
		return
	}
	if err := h.violations.DeleteViolation(r.Context(), actor(sess), id); err != nil {
		writeError(w, h.logger, "delete violation", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
