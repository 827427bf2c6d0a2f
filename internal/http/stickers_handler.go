package httpapi

import (
	"net/http"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/service"

	"go.uber.org/zap"
)

const stickersPrefix = "/api/v1/stickers/"

type StickersHandler struct {
	stickers service.StickerService
	logger   *zap.Logger
}

func NewStickersHandler(stickers service.StickerService, logger *zap.Logger) *StickersHandler {
	return &StickersHandler{stickers: stickers, logger: logger}
}

func (h *StickersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	isItem := pathID(path, stickersPrefix) != ""
	switch {
	case path == "/api/v1/stickers/search" && r.Method == http.MethodGet:
		h.Search(w, r)
	case path == "/api/v1/stickers/stats" && r.Method == http.MethodGet:
		h.Stats(w, r)
	case path == "/api/v1/stickers/search" || path == "/api/v1/stickers/stats":
		w.WriteHeader(http.StatusMethodNotAllowed)
	case path == "/api/v1/stickers" && r.Method == http.MethodGet:
		h.List(w, r)
	case path == "/api/v1/stickers" && r.Method == http.MethodPost:
		h.Create(w, r)
	case isItem && r.Method == http.MethodGet:
		h.Get(w, r)
	case isItem && r.Method == http.MethodPut:
		h.Update(w, r)
	case isItem && r.Method == http.MethodDelete:
		h.Delete(w, r)
	case path == "/api/v1/stickers" || isItem:
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *StickersHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, 0); !ok {
		return
	}
	stickers, err := h.stickers.ListStickers(r.Context())
	if err != nil {
		writeError(w, h.logger, "list stickers", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stickers))
}

func (h *StickersHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, 0); !ok {
		return
	}
	id, ok := parseID(w, r.URL.Path, stickersPrefix)
	if !ok {
		return
	}
	st, err := h.stickers.GetSticker(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "get sticker", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(st))
}

// Search ?idNumber= and/or ?plate=.
func (h *StickersHandler) Search(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, 0); !ok {
		return
	}
	q := r.URL.Query()
	stickers, err := h.stickers.SearchStickers(r.Context(), service.StickerQuery{
		IDNumber: q.Get("idNumber"),
		Plate:    q.Get("plate"),
	})
	if err != nil {
		writeError(w, h.logger, "search stickers", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stickers))
}

func (h *StickersHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, 0); !ok {
		return
	}
	stats, err := h.stickers.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, "sticker stats", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stats))
}

func (h *StickersHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := authorize(w, r, domain.CanManageSystem)
	if !ok {
		return
	}
	var req service.StickerRequest
	if !decodeBody(w, r, maxBodyBytes, &req) {
		return
	}
	st, err := h.stickers.CreateSticker(r.Context(), actor(sess), req)
	if err != nil {
		writeError(w, h.logger, "create sticker", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(st))
}

func (h *StickersHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := authorize(w, r, domain.CanManageSystem)
	if !ok {
		return
	}
	id, ok := parseID(w, r.URL.Path, stickersPrefix)
	if !ok {
		return
	}
	var req service.StickerPatch
	if !decodeBody(w, r, maxBodyBytes, &req) {
		return
	}
	st, err := h.stickers.UpdateSticker(r.Context(), actor(sess), id, req)
	if err != nil {
		writeError(w, h.logger, "update sticker", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(st))
}

func (h *StickersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := authorize(w, r, domain.CanManageSystem)
	if !ok {
		return
	}
	id, ok := parseID(w, r.URL.Path, stickersPrefix)
	if !ok {
		return
	}
	if err := h.stickers.DeleteSticker(r.Context(), actor(sess), id); err != nil {
		writeError(w, h.logger, "delete sticker", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
