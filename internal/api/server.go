package api

import (
	"context"
	"net/http"
	"time"

	"github.com/amterp/gig/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// ServerConfig holds what the server needs beyond the handler.
type ServerConfig struct {
	// Addr is the listen address, e.g. "127.0.0.1:5260".
	Addr string
	// DataPath is the data file to watch for external edits. Empty disables watching.
	DataPath string
	// Gatherer backs GET /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Server wraps the HTTP server for the web frontend.
type Server struct {
	httpServer  *http.Server
	watcher     *FileWatcher
	liveHub     *LiveHub
	unsubscribe func()
}

// NewServer creates a new server. Store changes are pushed to WebSocket
// clients, and external edits to the data file are reloaded into the store.
func NewServer(handler *Handler, store *service.DataStore, cfg ServerConfig) *Server {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	liveHub := NewLiveHub()
	mux.HandleFunc("GET /api/v1/ws", liveHub.ServeWS)
	unsubscribe := store.Subscribe(liveHub.OnChange)

	if cfg.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	var watcher *FileWatcher
	if cfg.DataPath != "" {
		var err error
		watcher, err = NewFileWatcher(cfg.DataPath)
		if err != nil {
			log.WithError(err).Warn("Failed to create file watcher")
		} else {
			watcher.Subscribe(NewDataReloader(store))
		}
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      Logging(Cors(mux)),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		watcher:     watcher,
		liveHub:     liveHub,
		unsubscribe: unsubscribe,
	}
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	if s.watcher != nil {
		if err := s.watcher.Start(); err != nil {
			log.WithError(err).Warn("Failed to start file watcher")
		}
	}
	log.WithField("addr", s.httpServer.Addr).Debug("Server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			log.WithError(err).Warn("Failed to stop file watcher")
		}
	}
	s.unsubscribe()
	s.liveHub.Close()
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
