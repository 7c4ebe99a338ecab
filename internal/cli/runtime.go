package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"dailyreports/internal/config"
	"dailyreports/internal/metrics"
	"dailyreports/internal/metrics/datadog"
	"dailyreports/internal/metrics/prompush"
	"dailyreports/internal/storage"
	_ "dailyreports/internal/storage/all"
)

// openStore opens the configured store bound to table.
func openStore(ctx context.Context, cfg config.Config, table string) (storage.Repository, error) {
	dsn, err := cfg.DB.ConnString()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	kind := config.NormalizeKind(cfg.DB.Kind)
	if cfg.Verbose {
		log.Printf("store: kind=%s driver=%s dsn=%s table=%s",
			kind, cfg.DB.DriverName(), config.RedactDSN(kind, dsn), table)
	}

	repo, err := storage.New(ctx, storage.Config{Kind: kind, DSN: dsn, Table: table})
	if err != nil {
		if errors.Is(err, storage.ErrUnknownKind) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectionFailed, kind, err)
	}
	return repo, nil
}

// setupMetrics installs the configured metrics backend and returns a function
// that flushes and uninstalls it. Backend failures never fail the command.
func setupMetrics(m config.MetricsConfig) (flush func()) {
	var (
		b   metrics.Backend
		err error
	)
	switch m.Backend {
	case config.MetricsPushgateway:
		b, err = prompush.NewBackend(m.Job, m.PushgatewayURL)
		if err == nil {
			log.Printf("metrics: url=%v, backend=%v, job_name=%v", m.PushgatewayURL, m.Backend, m.Job)
		}
	case config.MetricsDatadog:
		b, err = datadog.NewBackend(datadog.Config{
			Addr:      m.DatadogAddr,
			Namespace: "covid.",
		})
		if err == nil {
			log.Printf("metrics: addr=%v, backend=%v, job_name=%v", m.DatadogAddr, m.Backend, m.Job)
		}
	case "", config.MetricsNone:
		return func() {}
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", m.Backend)
		return func() {}
	}
	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", m.Backend, err)
		return func() {}
	}

	prev := metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
		metrics.SetBackend(prev)
	}
}
