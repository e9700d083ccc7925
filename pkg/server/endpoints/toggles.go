package endpoints

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/toggler/pkg/model"
	"github.com/doodlesbykumbi/toggler/pkg/server"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

type replaceToggleRequest struct {
	OldData model.ToggleKey `json:"oldData"`
	NewData model.ToggleKey `json:"newData"`
}

func RegisterTogglesEndpoints(s *server.Server) {
	togglesStore := s.TogglesStore
	log := s.Logger

	for _, router := range s.Routers() {
		router.HandleFunc("/toggles", handleListToggles(togglesStore, log)).Methods("GET")
		router.HandleFunc("/toggles", handleCreateToggle(togglesStore, log)).Methods("POST")
		router.HandleFunc("/toggles", handleReplaceToggle(togglesStore, log)).Methods("PUT")
		router.HandleFunc("/toggles", handleDeleteToggle(togglesStore, log)).Methods("DELETE")
	}
}

func toggleKeyFromQuery(r *http.Request) model.ToggleKey {
	q := r.URL.Query()
	return model.ToggleKey{
		FeatureID:     q.Get("featureId"),
		GroupID:       q.Get("groupId"),
		ProductID:     q.Get("productId"),
		EnvironmentID: q.Get("environmentId"),
	}
}

// GET /toggles?featureId=&groupId=&productId=&environmentId= - every
// supplied id must match
func handleListToggles(togglesStore store.TogglesStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := toggleKeyFromQuery(r)
		toggles, err := togglesStore.ListToggles(r.Context(), store.ToggleFilter{
			FeatureID:     key.FeatureID,
			GroupID:       key.GroupID,
			ProductID:     key.ProductID,
			EnvironmentID: key.EnvironmentID,
		})
		if err != nil {
			respondWithStoreError(w, r, log, err, "Failed to fetch toggles")
			return
		}
		respondWithJSON(w, http.StatusOK, toggles)
	}
}

func handleCreateToggle(togglesStore store.TogglesStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var key model.ToggleKey
		if !decodeBody(w, r, &key) {
			return
		}
		if respondIfInvalid(w, validationMessages(key)) {
			return
		}

		toggle, err := togglesStore.CreateToggle(r.Context(), key)
		if err != nil {
			respondWithStoreError(w, r, log, err, "Failed to create toggle")
			return
		}
		respondWithJSON(w, http.StatusCreated, toggle)
	}
}

// PUT /toggles {oldData, newData} - moves a toggle to a new tuple
func handleReplaceToggle(togglesStore store.TogglesStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req replaceToggleRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if respondIfInvalid(w, validationMessages(req)) {
			return
		}

		toggle, err := togglesStore.ReplaceToggle(r.Context(), req.OldData, req.NewData)
		if err != nil {
			respondWithStoreError(w, r, log, err, "Failed to update toggle")
			return
		}
		respondWithJSON(w, http.StatusOK, toggle)
	}
}

func handleDeleteToggle(togglesStore store.TogglesStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := toggleKeyFromQuery(r)
		if missing := key.Missing(); len(missing) > 0 {
			respondWithError(w, http.StatusBadRequest, "All IDs are required, missing "+strings.Join(missing, ", "))
			return
		}

		if err := togglesStore.DeleteToggle(r.Context(), key); err != nil {
			respondWithStoreError(w, r, log, err, "Failed to delete toggle")
			return
		}
		respondWithSuccess(w)
	}
}
