package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/toggler/pkg/config"
	"github.com/doodlesbykumbi/toggler/pkg/logger"
	"github.com/doodlesbykumbi/toggler/pkg/server/middleware"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

type Server struct {
	Config *config.TogglerConfig
	Logger *slog.Logger
	// Router is the root router; UI pages and the API are registered on it.
	Router *mux.Router
	// API is the /api subrouter carrying the same resource routes as Router.
	API *mux.Router

	FeaturesStore     store.FeaturesStore
	ProductsStore     store.ProductsStore
	EnvironmentsStore store.EnvironmentsStore
	GroupsStore       store.GroupsStore
	TogglesStore      store.TogglesStore
	HealthStore       store.HealthStore

	srv *http.Server
}

func NewServer(cfg *config.TogglerConfig, log *slog.Logger, stores store.Stores) *Server {
	if log == nil {
		log = slog.Default()
	}

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	var h http.Handler = middleware.RequestID(router)
	h = handlers.LoggingHandler(os.Stdout, h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.StdLogger(log, slog.LevelError)),
		handlers.PrintRecoveryStack(true),
	)(h)

	srv := &http.Server{
		Handler:      h,
		Addr:         cfg.Addr(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
		ReadTimeout:  cfg.ReadTimeoutDuration(),
	}

	return &Server{
		Config:            cfg,
		Logger:            log,
		Router:            router,
		API:               api,
		FeaturesStore:     stores.Features,
		ProductsStore:     stores.Products,
		EnvironmentsStore: stores.Environments,
		GroupsStore:       stores.Groups,
		TogglesStore:      stores.Toggles,
		HealthStore:       stores.Health,
		srv:               srv,
	}
}

// Routers returns every router the resource API is mounted on.
func (s *Server) Routers() []*mux.Router {
	return []*mux.Router{s.Router, s.API}
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.Logger.Info("server listening", "addr", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
