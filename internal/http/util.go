package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Ali5829511/wwwr/internal/domain"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// maxImportBytes a full data dump can be large.
const maxImportBytes = 32 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func readBodyJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// decodeBody reads a JSON body, answering 400 itself when it is malformed
// and 413 when it is larger than maxBytes.
func decodeBody(w http.ResponseWriter, r *http.Request, maxBytes int64, out any) bool {
	err := readBodyJSON(w, r, maxBytes, out)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge,
			FailKind(domain.KindValidation, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))
		return false
	}
	writeJSON(w, http.StatusBadRequest, FailKind(domain.KindValidation, "invalid JSON body"))
	return false
}

// pathID the single path segment after prefix; "" when absent or nested.
func pathID(path, prefix string) string {
	id := strings.TrimPrefix(path, prefix)
	if id == path || id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}

// parseID numeric record id in the path, answering 404 itself when it is not one.
func parseID(w http.ResponseWriter, path, prefix string) (int64, bool) {
	id, err := strconv.ParseInt(pathID(path, prefix), 10, 64)
	if err != nil || id <= 0 {
		w.WriteHeader(http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func statusForKind(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a service error onto status code and envelope.
func writeError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)
	if status >= http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Error(err))
	} else {
		logger.Debug(op+" rejected", zap.String("kind", string(kind)), zap.Error(err))
	}
	res := FailKind(kind, domain.MessageOf(err))
	if errors.Is(err, domain.ErrSessionExpired) {
		res.Code = ResultTokenExpired
	}
	writeJSON(w, status, res)
}
