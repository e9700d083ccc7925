package endpoints

import (
	"github.com/doodlesbykumbi/toggler/pkg/server"
)

// RegisterAll registers all API endpoints on the server, at the root and
// under /api.
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterFeaturesEndpoints(srv)
	RegisterProductsEndpoints(srv)
	RegisterEnvironmentsEndpoints(srv)
	RegisterGroupsEndpoints(srv)
	RegisterTogglesEndpoints(srv)
}
