package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Project-Sylos/Cabinet/internal/types"
	"github.com/Project-Sylos/Cabinet/sdk"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Server represents the HTTP API server
type Server struct {
	router  *chi.Mux
	cabinet *sdk.Cabinet
	config  *types.APIConfig
	srv     *http.Server
}

// NewServer creates a new API server
func NewServer(cabinet *sdk.Cabinet, config *types.APIConfig) *Server {
	router := NewRouter(cabinet)

	return &Server{
		router:  router.SetupRoutes(),
		cabinet: cabinet,
		config:  config,
	}
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start serves HTTP until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	writeTimeout := 15 * time.Second
	if s.config.TimeoutSeconds > 0 {
		// downloads and uploads may legitimately run up to the handler timeout
		writeTimeout = time.Duration(s.config.TimeoutSeconds)*time.Second + 5*time.Second
	}

	s.srv = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	log.Info().
		Str("addr", s.srv.Addr).
		Str("backend", s.cabinet.GetConfig().Storage.Backend).
		Msg("Cabinet API now listening")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// GetRouter returns the configured router
func (s *Server) GetRouter() *chi.Mux {
	return s.router
}

// Shutdown drains in-flight requests, then closes the cabinet
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.srv != nil {
		err = s.srv.Shutdown(ctx)
	}
	defer log.Info().Msg("API server stopped")
	return errors.Join(err, s.cabinet.Close())
}

// Serve runs a server for cabinet until ctx is cancelled, then shuts it down
// within shutdownTimeout. The cabinet is closed on return.
func Serve(ctx context.Context, cabinet *sdk.Cabinet, shutdownTimeout time.Duration) error {
	server := NewServer(cabinet, &cabinet.GetConfig().API)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return errors.Join(err, cabinet.Close())
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return <-errCh
}
