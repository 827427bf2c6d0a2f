package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/formtrack"

	"go.uber.org/zap"
)

const formsPrefix = "/api/v1/forms/"

// FormsHandler exposes the per-session unsaved-changes tracker.
type FormsHandler struct {
	registry *formtrack.Registry
	logger   *zap.Logger
}

func NewFormsHandler(registry *formtrack.Registry, logger *zap.Logger) *FormsHandler {
	return &FormsHandler{registry: registry, logger: logger}
}

type formValuesRequest struct {
	Values formtrack.Values `json:"values"`
	// Field with Values[Field] set updates a single field
	Field string `json:"field"`
}

type formStatus struct {
	ID          string `json:"id"`
	Dirty       bool   `json:"dirty"`
	GlobalDirty bool   `json:"globalDirty"`
}

func (h *FormsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, ok := authorize(w, r, 0)
	if !ok {
		return
	}
	tracker := h.registry.For(sess.ID)

	path := r.URL.Path
	switch path {
	case "/api/v1/forms":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, Ok(tracker.State()))
		return
	case "/api/v1/forms/enabled":
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.SetEnabled(w, r, tracker)
		return
	case "/api/v1/forms/navigation":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Navigation(w, r, tracker)
		return
	case "/api/v1/forms/saved":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		tracker.MarkAllSaved()
		writeJSON(w, http.StatusOK, Ok(tracker.State()))
		return
	}

	rest := strings.TrimPrefix(path, formsPrefix)
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || strings.Contains(action, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.status(w, tracker, id)
	case action == "" && r.Method == http.MethodPost:
		var req formValuesRequest
		if !decodeBody(w, r, maxBodyBytes, &req) {
			return
		}
		tracker.Track(id, req.Values)
		h.status(w, tracker, id)
	case action == "" && r.Method == http.MethodPatch:
		h.Update(w, r, tracker, id)
	case action == "" && r.Method == http.MethodDelete:
		tracker.Untrack(id)
		writeJSON(w, http.StatusOK, Ok(tracker.State()))
	case action == "saved" && r.Method == http.MethodPost:
		h.apply(w, tracker, id, tracker.MarkAsSaved)
	case action == "reset" && r.Method == http.MethodPost:
		h.apply(w, tracker, id, tracker.Reset)
	case action == "" || action == "saved" || action == "reset":
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *FormsHandler) Update(w http.ResponseWriter, r *http.Request, tracker *formtrack.Tracker, id string) {
	var req formValuesRequest
	if !decodeBody(w, r, maxBodyBytes, &req) {
		return
	}
	var err error
	if req.Field != "" {
		_, err = tracker.Update(id, req.Field, req.Values[req.Field]...)
	} else {
		_, err = tracker.SetValues(id, req.Values)
	}
	if err != nil {
		h.writeFormError(w, id, err)
		return
	}
	h.status(w, tracker, id)
}

func (h *FormsHandler) SetEnabled(w http.ResponseWriter, r *http.Request, tracker *formtrack.Tracker) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if !decodeBody(w, r, maxBodyBytes, &req) {
		return
	}
	tracker.SetEnabled(req.Enabled)
	writeJSON(w, http.StatusOK, Ok(tracker.State()))
}

// Navigation asks whether the client may leave; confirmed carries the user's answer
// to the unsaved-changes prompt when one was shown.
func (h *FormsHandler) Navigation(w http.ResponseWriter, r *http.Request, tracker *formtrack.Tracker) {
	var req struct {
		Confirmed *bool `json:"confirmed"`
	}
	if !decodeBody(w, r, maxBodyBytes, &req) {
		return
	}
	var prompt string
	allowed := tracker.ConfirmNavigation(func(message string) bool {
		prompt = message
		return req.Confirmed != nil && *req.Confirmed
	})
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"allowed": allowed,
		"dirty":   tracker.Dirty(),
		"message": prompt,
	}))
}

func (h *FormsHandler) apply(w http.ResponseWriter, tracker *formtrack.Tracker, id string, fn func(string) error) {
	if err := fn(id); err != nil {
		h.writeFormError(w, id, err)
		return
	}
	h.status(w, tracker, id)
}

func (h *FormsHandler) status(w http.ResponseWriter, tracker *formtrack.Tracker, id string) {
	dirty, err := tracker.FormDirty(id)
	if err != nil {
		h.writeFormError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(formStatus{ID: id, Dirty: dirty, GlobalDirty: tracker.Dirty()}))
}

func (h *FormsHandler) writeFormError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, formtrack.ErrUnknownForm) {
		writeJSON(w, http.StatusNotFound, FailKind(domain.KindNotFound, "form "+id+" is not tracked"))
		return
	}
	writeError(w, h.logger, "form "+id, err)
}
