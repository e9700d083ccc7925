package endpoints

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/toggler/pkg/config"
	"github.com/doodlesbykumbi/toggler/pkg/server"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

type testServer struct {
	*server.Server
	features     *MockFeaturesStore
	products     *MockProductsStore
	environments *MockEnvironmentsStore
	groups       *MockGroupsStore
	toggles      *MockTogglesStore
	health       *MockHealthStore
}

// newTestServer wires every endpoint to fresh mock stores.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		features:     &MockFeaturesStore{},
		products:     &MockProductsStore{},
		environments: &MockEnvironmentsStore{},
		groups:       &MockGroupsStore{},
		toggles:      &MockTogglesStore{},
		health:       &MockHealthStore{},
	}
	ts.Server = server.NewServer(
		config.Default(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		store.Stores{
			Features:     ts.features,
			Products:     ts.products,
			Environments: ts.environments,
			Groups:       ts.groups,
			Toggles:      ts.toggles,
			Health:       ts.health,
		},
	)
	RegisterAll(ts.Server)

	t.Cleanup(func() {
		ts.features.AssertExpectations(t)
		ts.products.AssertExpectations(t)
		ts.environments.AssertExpectations(t)
		ts.groups.AssertExpectations(t)
		ts.toggles.AssertExpectations(t)
		ts.health.AssertExpectations(t)
	})
	return ts
}

func (ts *testServer) do(method, target string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}
