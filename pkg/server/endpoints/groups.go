package endpoints

import (
	"log/slog"
	"net/http"

	"github.com/doodlesbykumbi/toggler/pkg/server"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

type groupRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" validate:"required,notblank"`
	Owner       string  `json:"owner" validate:"required,notblank"`
	Description *string `json:"description"`
}

func (req groupRequest) input() store.GroupInput {
	return store.GroupInput{Name: req.Name, Owner: req.Owner, Description: req.Description}
}

func RegisterGroupsEndpoints(s *server.Server) {
	groupsStore := s.GroupsStore
	log := s.Logger

	for _, router := range s.Routers() {
		router.HandleFunc("/groups", handleListGroups(groupsStore, log)).Methods("GET")
		router.HandleFunc("/groups", handleCreateGroup(groupsStore, log)).Methods("POST")
		router.HandleFunc("/groups", handleUpdateGroup(groupsStore, log)).Methods("PUT")
		router.HandleFunc("/groups", handleDeleteGroup(groupsStore, log)).Methods("DELETE")
	}
}

func handleListGroups(groupsStore store.GroupsStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := groupsStore.ListGroups(r.Context())
		if err != nil {
			respondWithStoreError(w, r, log, err, "Failed to fetch groups")
			return
		}
		respondWithJSON(w, http.StatusOK, groups)
	}
}

func handleCreateGroup(groupsStore store.GroupsStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req groupRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if respondIfInvalid(w, validationMessages(req)) {
			return
		}

		group, err := groupsStore.CreateGroup(r.Context(), req.input())
		if err != nil {
			respondWithStoreError(w, r, log, err, "Failed to create group")
			return
		}
		respondWithJSON(w, http.StatusCreated, group)
	}
}

func handleUpdateGroup(groupsStore store.GroupsStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req groupRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if respondIfInvalid(w, requireID(req.ID, validationMessages(req))) {
			return
		}

		group, err := groupsStore.UpdateGroup(r.Context(), req.ID, req.input())
		if err != nil {
			respondWithStoreError(w, r, log, err, "Failed to update group")
			return
		}
		respondWithJSON(w, http.StatusOK, group)
	}
}

func handleDeleteGroup(groupsStore store.GroupsStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			respondWithError(w, http.StatusBadRequest, "Group ID is required")
			return
		}

		if err := groupsStore.DeleteGroup(r.Context(), id); err != nil {
			respondWithStoreError(w, r, log, err, "Failed to delete group")
			return
		}
		respondWithSuccess(w)
	}
}
