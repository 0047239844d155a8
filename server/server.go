// Package server exposes the dispatcher, job registry, and monitoring
// sessions over a local HTTP API. The desktop shell and the CLI's remote
// mode are its clients.
package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/JustAGhosT/home-lab-setup-sub006/config"
	"github.com/JustAGhosT/home-lab-setup-sub006/deploy"
	"github.com/JustAGhosT/home-lab-setup-sub006/jobs"
	"github.com/JustAGhosT/home-lab-setup-sub006/monitor"
	"github.com/JustAGhosT/home-lab-setup-sub006/store"
)

// SessionInfo records one monitoring session started through the API.
type SessionInfo struct {
	JobID         string    `json:"job_id"`
	Component     string    `json:"component"`
	ResourceName  string    `json:"resource_name"`
	ResourceGroup string    `json:"resource_group"`
	DesiredState  string    `json:"desired_state"`
	LogPath       string    `json:"log_path"`
	StartedAt     time.Time `json:"started_at"`
}

// Server hosts the HTTP API.
type Server struct {
	cfg        config.Config
	dispatcher *deploy.Dispatcher
	registry   *jobs.Registry
	runner     *jobs.Runner
	bus        *jobs.EventBus
	poller     *monitor.Poller
	sessions   *store.Store[SessionInfo]
	logger     zerolog.Logger
	mux        *http.ServeMux
}

// New creates the server and registers its routes. The poller may be nil
// when no state querier is configured; monitoring endpoints then return 503.
func New(cfg config.Config, dispatcher *deploy.Dispatcher, registry *jobs.Registry, runner *jobs.Runner, bus *jobs.EventBus, poller *monitor.Poller, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		registry:   registry,
		runner:     runner,
		bus:        bus,
		poller:     poller,
		sessions:   store.New[SessionInfo](),
		logger:     logger,
		mux:        http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/v1/info", s.handleInfo)

	s.mux.HandleFunc("POST /api/v1/deploy", s.handleDeploy)

	s.mux.HandleFunc("GET /api/v1/jobs", s.handleJobList)
	s.mux.HandleFunc("GET /api/v1/jobs/{id}", s.handleJobInspect)
	s.mux.HandleFunc("DELETE /api/v1/jobs", s.handleJobCleanup)
	s.mux.HandleFunc("GET /api/v1/jobs/{id}/watch", s.handleJobWatch)

	s.mux.HandleFunc("POST /api/v1/monitor", s.handleMonitorStart)
	s.mux.HandleFunc("GET /api/v1/monitor", s.handleMonitorList)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("status API listening")
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":           "homelab",
		"version":        "0.1.0",
		"resource_group": s.cfg.ResourceGroup,
		"location":       s.cfg.Location,
		"environment":    s.cfg.Environment,
		"jobs":           s.registry.Len(),
	})
}
