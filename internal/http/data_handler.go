package httpapi

import (
	"net/http"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/service"

	"go.uber.org/zap"
)

// DataHandler backup, restore and reset of the whole store.
type DataHandler struct {
	data   service.DataService
	logger *zap.Logger
}

func NewDataHandler(data service.DataService, logger *zap.Logger) *DataHandler {
	return &DataHandler{data: data, logger: logger}
}

func (h *DataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/data/export":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Export(w, r)
	case "/api/v1/data/import":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Import(w, r)
	case "/api/v1/data/reset":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Reset(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// Export password hashes are only included for accounts that may manage the system.
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	sess, ok := authorize(w, r, domain.CanExportData)
	if !ok {
		return
	}
	dump, err := h.data.Export(r.Context(), sess.Can(domain.CanManageSystem))
	if err != nil {
		writeError(w, h.logger, "export data", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(dump))
}

func (h *DataHandler) Import(w http.ResponseWriter, r *http.Request) {
	sess, ok := authorize(w, r, domain.CanImportData)
	if !ok {
		return
	}
	var dump service.DataDump
	if !decodeBody(w, r, maxImportBytes, &dump) {
		return
	}
	imported, err := h.data.Import(r.Context(), dump)
	if err != nil {
		writeError(w, h.logger, "import data", err)
		return
	}
	h.logger.Info("Data import requested", zap.Int64("user_id", sess.User.ID), zap.Strings("collections", imported))
	writeJSON(w, http.StatusOK, Ok(map[string]any{"imported": imported}))
}

func (h *DataHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := authorize(w, r, domain.CanManageSystem)
	if !ok {
		return
	}
	if err := h.data.Reset(r.Context()); err != nil {
		writeError(w, h.logger, "reset data", err)
		return
	}
	h.logger.Warn("Data reset requested", zap.Int64("user_id", sess.User.ID))
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
