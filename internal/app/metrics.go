package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"dhchat/internal/observability/prom"
)

// MetricsServer exposes a registry over HTTP at /metrics.
type MetricsServer struct {
	ln  net.Listener
	srv *http.Server
}

// StartMetrics binds addr and serves reg in the background.
func StartMetrics(addr string, reg *prometheus.Registry, log zerolog.Logger) (*MetricsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", prom.Handler(reg))
	m := &MetricsServer{
		ln:  ln,
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
	}
	go func() {
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")
	return m, nil
}

// Addr is the bound address.
func (m *MetricsServer) Addr() net.Addr { return m.ln.Addr() }

// Close shuts the server down, waiting briefly for in-flight scrapes.
func (m *MetricsServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return m.srv.Shutdown(ctx)
}
