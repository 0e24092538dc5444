// Package metrics define telemetry primitives to use across components. it uses the prometheus format.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Server serves metrics on /metrics.
type Server struct {
	logger   *zap.Logger
	listener net.Listener
	srv      *http.Server
}

// NewServer binds listener on addr. Use ":0" to get a random port.
func NewServer(addr string, logger *zap.Logger) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{
		logger:   logger,
		listener: lis,
		srv:      &http.Server{Handler: mux, ReadHeaderTimeout: shutdownTimeout},
	}, nil
}

// Addr is the address server is listening on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Run serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving metrics", zap.Stringer("address", s.listener.Addr()))
		errc <- s.srv.Serve(s.listener)
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown metrics server: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
