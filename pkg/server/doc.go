// Package server provides the HTTP server for the toggler API and pages.
//
// It uses gorilla/mux for routing and wraps the root router with request
// IDs, access logging and panic recovery from gorilla/handlers.
//
// # Server Setup
//
//	db, _ := db.Connect(db.Config{})
//	srv := server.NewServer(config.Get(), slog.Default(), gormstore.NewStores(db))
//	endpoints.RegisterAll(srv)
//	ui.Register(srv, client.New(cfg.APIURL))
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Router: root router, carrying the API and the /ui pages
//   - API: /api subrouter, carrying the same API routes
//   - one store per entity kind plus a HealthStore for /status
//
// Routes are registered by the endpoints and ui packages; Routers returns
// every router the API is mounted on.
package server
