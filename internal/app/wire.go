package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"dhchat/internal/domain"
	"dhchat/internal/observability"
	"dhchat/internal/observability/prom"
	sessionsvc "dhchat/internal/services/session"
	"dhchat/internal/store"
)

// Wire bundles the logger, stores and services for the CLI.
type Wire struct {
	Logger   zerolog.Logger
	Observer observability.Observer
	Profiles domain.ProfileStore
	Sessions *sessionsvc.Service
	Metrics  *MetricsServer // nil unless Config.MetricsAddr is set
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	out := cfg.LogOutput
	if out == nil {
		out = os.Stderr
	}
	log, err := NewLogger(out, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	// Metrics are opt-in; without an address the observer is a no-op.
	w := &Wire{Logger: log, Observer: observability.Noop}
	if cfg.MetricsAddr != "" {
		reg := prom.NewRegistry()
		w.Observer = prom.NewObserver(reg)
		if w.Metrics, err = StartMetrics(cfg.MetricsAddr, reg, log); err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
	}

	w.Profiles = store.NewProfileFileStore(cfg.Home)
	w.Sessions = sessionsvc.New(log, w.Observer)
	return w, nil
}

// Close releases background resources.
func (w *Wire) Close() error {
	if w.Metrics != nil {
		return w.Metrics.Close()
	}
	return nil
}
