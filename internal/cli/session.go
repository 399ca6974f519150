package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/roach88/quadsql/internal/metrics"
	"github.com/roach88/quadsql/internal/rdf"
	"github.com/roach88/quadsql/internal/store"
)

// session is an open store for the duration of one command.
type session struct {
	store *store.Store

	// repo is the store, instrumented when --metrics is set.
	repo rdf.Repository

	registry *prometheus.Registry
	metricsW io.Writer
	logger   *slog.Logger
}

// openSession opens the store selected by the global flags.
func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	logger := opts.Logger()

	cfg, err := opts.StoreConfig()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid store configuration", err)
	}

	logger.Debug("opening store", "locator", cfg.Locator(), "adapter", cfg.Adapter, "prefixes", len(cfg.Prefixes))
	st, err := store.New(commandContext(cmd), cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open store", err)
	}
	logger.Debug("store ready", "dialect", st.Adapter().Dialect())

	s := &session{store: st, repo: st, logger: logger}
	if opts.Metrics {
		s.registry = prometheus.NewRegistry()
		m, err := metrics.NewMetrics(s.registry)
		if err != nil {
			st.Dispose()
			return nil, WrapExitError(ExitCommandError, "failed to register metrics", err)
		}
		s.repo = m.Instrument(st, st.Adapter().Dialect())
		s.metricsW = cmd.ErrOrStderr()
	}
	return s, nil
}

// Close writes metrics, if enabled, and disposes the store.
func (s *session) Close() {
	if s.registry != nil {
		if err := writeMetrics(s.metricsW, s.registry); err != nil {
			s.logger.Error("error writing metrics", "error", err)
		}
	}
	if err := s.store.Dispose(); err != nil {
		s.logger.Error("error closing store", "error", err)
	}
}

// writeMetrics renders every gathered family in the Prometheus text format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
