package gateway

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/revchat/pkg/chat"
	"github.com/go-go-golems/revchat/pkg/provider"
)

// Config controls the gateway server.
type Config struct {
	Addr    string
	Persona string
}

// Server is the composition root: it owns the bus, registry, orchestrator and
// HTTP surface, and injects them into each other so nothing is a hidden
// global.
type Server struct {
	cfg      Config
	bus      *Bus
	registry *Registry
	orch     *chat.Orchestrator
	api      *API
	server   *http.Server
}

// NewServer wires the gateway from a provider.
func NewServer(cfg Config, prov provider.Provider) *Server {
	bus := NewBus()
	registry := NewRegistry(bus)

	var opts []chat.Option
	if cfg.Persona != "" {
		opts = append(opts, chat.WithPersona(cfg.Persona))
	}
	orch := chat.NewOrchestrator(prov, registry, opts...)

	api := NewAPI(registry, orch)
	ws := NewWSHandler(registry, orch)

	r := chi.NewRouter()
	r.Mount("/api", api.Routes())
	r.Get("/health", api.HandleHealth)
	r.Handle("/ws", ws)

	s := &Server{
		cfg:      cfg,
		bus:      bus,
		registry: registry,
		orch:     orch,
		api:      api,
	}
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Registry exposes the connection registry, mainly for tests and embedding.
func (s *Server) Registry() *Registry { return s.registry }

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	eg := errgroup.Group{}
	srvCtx, srvCancel := context.WithCancel(ctx)
	defer srvCancel()

	eg.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sigChan:
			log.Info().Msg("received interrupt signal, shutting down gracefully...")
		case <-srvCtx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
			return err
		}
		if err := s.bus.Close(); err != nil {
			log.Error().Err(err).Msg("bus close error")
		}
		log.Info().Msg("server shutdown complete")
		return nil
	})

	eg.Go(func() error {
		defer srvCancel()
		log.Info().Str("addr", s.cfg.Addr).Msg("starting chat gateway")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server listen error")
			return err
		}
		return nil
	})

	return eg.Wait()
}
