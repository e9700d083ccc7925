package endpoints

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/doodlesbykumbi/toggler/pkg/server/middleware"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithSuccess(w http.ResponseWriter) {
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// decodeBody reads a JSON request body into v, answering 400 itself when
// the body is not valid JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// respondWithStoreError maps store errors onto status codes. Anything that
// is not NotFound or Conflict is logged and reported with the generic
// message.
func respondWithStoreError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, message string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrConflict):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		middleware.Logger(r.Context(), log).Error(message,
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		respondWithError(w, http.StatusInternalServerError, message)
	}
}
