package endpoints

import (
	"log/slog"
	"net/http"

	"github.com/doodlesbykumbi/toggler/pkg/server"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

type featureRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" validate:"required,notblank"`
	Type        string  `json:"type" validate:"required,notblank"`
	Owner       string  `json:"owner" validate:"required,notblank"`
	Description *string `json:"description"`
	Enabled     *bool   `json:"enabled"`
}

func (req featureRequest) input() store.FeatureInput {
	return store.FeatureInput{
		Type:        req.Type,
		Owner:       req.Owner,
		Name:        req.Name,
		Description: req.Description,
		Enabled:     req.Enabled,
	}
}

func RegisterFeaturesEndpoints(s *server.Server) {
	featuresStore := s.FeaturesStore
	log := s.Logger

	for _, router := range s.Routers() {
		router.HandleFunc("/features", handleListFeatures(featuresStore, log)).Methods("GET")
		router.HandleFunc("/features", handleCreateFeature(featuresStore, log)).Methods("POST")
		router.HandleFunc("/features", handleUpdateFeature(featuresStore, log)).Methods("PUT")
		router.HandleFunc("/features", handleDeleteFeature(featuresStore, log)).Methods("DELETE")
	}
}

func handleListFeatures(featuresStore store.FeaturesStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		features, err := featuresStore.ListFeatures(r.Context())
		if err != nil {
			respondWithStoreError(w, r, log, err, "Failed to fetch features")
			return
		}
		respondWithJSON(w, http.StatusOK, features)
	}
}

func handleCreateFeature(featuresStore store.FeaturesStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req featureRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if respondIfInvalid(w, validationMessages(req)) {
			return
		}

		feature, err := featuresStore.CreateFeature(r.Context(), req.input())
		if err != nil {
			respondWithStoreError(w, r, log, err, "Failed to create feature")
			return
		}
		respondWithJSON(w, http.StatusCreated, feature)
	}
}

func handleUpdateFeature(featuresStore store.FeaturesStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req featureRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if respondIfInvalid(w, requireID(req.ID, validationMessages(req))) {
			return
		}

		feature, err := featuresStore.UpdateFeature(r.Context(), req.ID, req.input())
		if err != nil {
			respondWithStoreError(w, r, log, err, "Failed to update feature")
			return
		}
		respondWithJSON(w, http.StatusOK, feature)
	}
}

func handleDeleteFeature(featuresStore store.FeaturesStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			respondWithError(w, http.StatusBadRequest, "Feature ID is required")
			return
		}

		if err := featuresStore.DeleteFeature(r.Context(), id); err != nil {
			respondWithStoreError(w, r, log, err, "Failed to delete feature")
			return
		}
		respondWithSuccess(w)
	}
}
