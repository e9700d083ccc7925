package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/toggler/pkg/model"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

func TestListFeatures(t *testing.T) {
	t.Run("returns the stored features", func(t *testing.T) {
		ts := newTestServer(t)
		ts.features.On("ListFeatures", mock.Anything).Return([]model.Feature{
			{ID: "f2", Name: "new-checkout"},
			{ID: "f1", Name: "dark-mode"},
		}, nil)

		w := ts.do("GET", "/features", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		var features []model.Feature
		decodeInto(t, w, &features)
		assert.Equal(t, []string{"f2", "f1"}, []string{features[0].ID, features[1].ID})
	})

	t.Run("empty list is an empty array", func(t *testing.T) {
		ts := newTestServer(t)
		ts.features.On("ListFeatures", mock.Anything).Return([]model.Feature{}, nil)

		w := ts.do("GET", "/features", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("store failure is a generic 500", func(t *testing.T) {
		ts := newTestServer(t)
		ts.features.On("ListFeatures", mock.Anything).Return(nil, errors.New("connection reset"))

		w := ts.do("GET", "/features", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to fetch features", decodeError(t, w))
	})

	t.Run("also served under /api", func(t *testing.T) {
		ts := newTestServer(t)
		ts.features.On("ListFeatures", mock.Anything).Return([]model.Feature{}, nil)

		w := ts.do("GET", "/api/features", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCreateFeature(t *testing.T) {
	t.Run("creates with 201 and a generated id", func(t *testing.T) {
		ts := newTestServer(t)
		enabled := false
		created := &model.Feature{
			ID:        "3f1c",
			Name:      "dark-mode",
			Type:      "boolean",
			Owner:     "team-x",
			Enabled:   false,
			CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		}
		ts.features.On("CreateFeature", mock.Anything, store.FeatureInput{
			Name: "dark-mode", Type: "boolean", Owner: "team-x", Enabled: &enabled,
		}).Return(created, nil)

		w := ts.do("POST", "/features", map[string]interface{}{
			"name": "dark-mode", "type": "boolean", "owner": "team-x", "enabled": false,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		var body map[string]interface{}
		decodeInto(t, w, &body)
		assert.Equal(t, "3f1c", body["id"])
		assert.Equal(t, false, body["enabled"])
		assert.Equal(t, "2024-05-01T12:00:00Z", body["createdAt"])
		assert.Nil(t, body["description"])
	})

	t.Run("missing fields are listed", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do("POST", "/features", map[string]interface{}{"name": "dark-mode"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		msg := decodeError(t, w)
		assert.Contains(t, msg, "type is required")
		assert.Contains(t, msg, "owner is required")
		assert.NotContains(t, msg, "name is required")
		ts.features.AssertNotCalled(t, "CreateFeature", mock.Anything, mock.Anything)
	})

	t.Run("blank fields count as missing", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do("POST", "/features", map[string]interface{}{
			"name": "   ", "type": "boolean", "owner": "\t",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		msg := decodeError(t, w)
		assert.Contains(t, msg, "name is required")
		assert.Contains(t, msg, "owner is required")
		assert.NotContains(t, msg, "type is required")
		ts.features.AssertNotCalled(t, "CreateFeature", mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do("POST", "/features", `{"name": `)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", decodeError(t, w))
	})
}

func TestUpdateFeature(t *testing.T) {
	t.Run("updates the feature", func(t *testing.T) {
		ts := newTestServer(t)
		desc := "Palette switch"
		enabled := true
		ts.features.On("UpdateFeature", mock.Anything, "f1", store.FeatureInput{
			Name: "dark-mode", Type: "boolean", Owner: "team-x", Description: &desc, Enabled: &enabled,
		}).Return(&model.Feature{ID: "f1", Name: "dark-mode", Enabled: true, Description: &desc}, nil)

		w := ts.do("PUT", "/features", map[string]interface{}{
			"id": "f1", "name": "dark-mode", "type": "boolean", "owner": "team-x",
			"description": desc, "enabled": true,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		var feature model.Feature
		decodeInto(t, w, &feature)
		assert.True(t, feature.Enabled)
	})

	t.Run("id is required", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do("PUT", "/features", map[string]interface{}{"name": "n", "type": "t", "owner": "o"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w), "id is required")
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		ts := newTestServer(t)
		ts.features.On("UpdateFeature", mock.Anything, "nope", mock.Anything).
			Return(nil, fmt.Errorf("%w: feature %q", store.ErrNotFound, "nope"))

		w := ts.do("PUT", "/features", map[string]interface{}{"id": "nope", "name": "n", "type": "t", "owner": "o"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, decodeError(t, w), "nope")
	})
}

func TestDeleteFeature(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		ts := newTestServer(t)
		ts.features.On("DeleteFeature", mock.Anything, "f1").Return(nil)

		w := ts.do("DELETE", "/features?id=f1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success": true}`, w.Body.String())
	})

	t.Run("id is required", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do("DELETE", "/features", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Feature ID is required", decodeError(t, w))
	})

	t.Run("referenced feature is 409", func(t *testing.T) {
		ts := newTestServer(t)
		ts.features.On("DeleteFeature", mock.Anything, "f1").
			Return(fmt.Errorf("%w: feature %q is referenced by 2 toggle(s)", store.ErrConflict, "f1"))

		w := ts.do("DELETE", "/features?id=f1", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, decodeError(t, w), "referenced")
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		ts := newTestServer(t)
		ts.features.On("DeleteFeature", mock.Anything, "nope").Return(store.ErrNotFound)

		w := ts.do("DELETE", "/features?id=nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unsupported method", func(t *testing.T) {
		ts := newTestServer(t)
		w := ts.do("PATCH", "/features", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
