package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"pgtodo/internal/store"
)

const maxBodyBytes = 1 << 20

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	pool   store.Pool
	logger *zap.Logger
}

// New creates a new Handlers instance backed by pool.
func New(pool store.Pool, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		pool:   pool,
		logger: logger,
	}
}

// parseID extracts and parses an integer ID from URL parameters.
func parseID(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	return strconv.ParseInt(idStr, 10, 64)
}

var errNotJSON = errors.New("expected request with `Content-Type: application/json`")

// isJSONContentType reports whether the request declares a JSON body,
// either application/json or an application/*+json subtype.
func isJSONContentType(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" ||
		(strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json"))
}

// decodeJSON reads a JSON request body into v. It returns errNotJSON when
// the request does not declare a JSON content type.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if !isJSONContentType(r) {
		return errNotJSON
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// respondDecodeError answers a body that decodeJSON rejected.
func respondDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNotJSON) {
		respondError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	}
	respondError(w, http.StatusBadRequest, "invalid json")
}

// respondError sends a plain-text error response.
func respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(message))
}

// respondText sends a plain-text success response.
func respondText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(body))
}

// respondJSON sends v encoded as JSON.
func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// statusFor translates a store error into the HTTP status returned to the
// client. An update whose row is missing stays a 500; only a delete that
// matched nothing is a 404.
func statusFor(err error) int {
	switch store.KindOf(err) {
	case store.KindNotFound:
		return http.StatusNotFound
	case store.KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondStoreError maps err to a status and writes its message as the body.
func (h *Handlers) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("kind", store.KindOf(err).String()),
			zap.Error(err),
		)
	}
	respondError(w, code, err.Error())
}
