package endpoints

import (
	"log/slog"
	"net/http"

	"github.com/doodlesbykumbi/toggler/pkg/server"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

type environmentRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" validate:"required,notblank"`
	Description *string `json:"description"`
}

func (req environmentRequest) input() store.EnvironmentInput {
	return store.EnvironmentInput{Name: req.Name, Description: req.Description}
}

func RegisterEnvironmentsEndpoints(s *server.Server) {
	environmentsStore := s.EnvironmentsStore
	log := s.Logger

	for _, router := range s.Routers() {
		router.HandleFunc("/environments", handleListEnvironments(environmentsStore, log)).Methods("GET")
		router.HandleFunc("/environments", handleCreateEnvironment(environmentsStore, log)).Methods("POST")
		router.HandleFunc("/environments", handleUpdateEnvironment(environmentsStore, log)).Methods("PUT")
		router.HandleFunc("/environments", handleDeleteEnvironment(environmentsStore, log)).Methods("DELETE")
	}
}

func handleListEnvironments(environmentsStore store.EnvironmentsStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		environments, err := environmentsStore.ListEnvironments(r.Context())
		if err != nil {
			respondWithStoreError(w, r, log, err, "Failed to fetch environments")
			return
		}
		respondWithJSON(w, http.StatusOK, environments)
	}
}

func handleCreateEnvironment(environmentsStore store.EnvironmentsStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req environmentRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if respondIfInvalid(w, validationMessages(req)) {
			return
		}

		environment, err := environmentsStore.CreateEnvironment(r.Context(), req.input())
		if err != nil {
			respondWithStoreError(w, r, log, err, "Failed to create environment")
			return
		}
		respondWithJSON(w, http.StatusCreated, environment)
	}
}

func handleUpdateEnvironment(environmentsStore store.EnvironmentsStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req environmentRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if respondIfInvalid(w, requireID(req.ID, validationMessages(req))) {
			return
		}

		environment, err := environmentsStore.UpdateEnvironment(r.Context(), req.ID, req.input())
		if err != nil {
			respondWithStoreError(w, r, log, err, "Failed to update environment")
			return
		}
		respondWithJSON(w, http.StatusOK, environment)
	}
}

func handleDeleteEnvironment(environmentsStore store.EnvironmentsStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			respondWithError(w, http.StatusBadRequest, "Environment ID is required")
			return
		}

		if err := environmentsStore.DeleteEnvironment(r.Context(), id); err != nil {
			respondWithStoreError(w, r, log, err, "Failed to delete environment")
			return
		}
		respondWithSuccess(w)
	}
}
