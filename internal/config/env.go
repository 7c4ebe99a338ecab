package config

import (
	"fmt"
	"strconv"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "REPORTS_"

// ApplyEnv overlays REPORTS_* variables onto cfg. Unset or empty variables
// leave the current values alone.
func ApplyEnv(getenv func(string) string, cfg *Config) error {
	str := func(key string, dst *string) {
		if v := getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v := getenv(EnvPrefix + key)
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}

	str("DB_KIND", &cfg.DB.Kind)
	str("DB_DRIVER", &cfg.DB.Driver)
	str("DB_USER", &cfg.DB.User)
	str("DB_PASSWORD", &cfg.DB.Password)
	str("DB_HOST", &cfg.DB.Host)
	str("DB_PORT", &cfg.DB.Port)
	str("DB_NAME", &cfg.DB.Name)
	str("DB_SSLMODE", &cfg.DB.SSLMode)
	str("DB_DSN", &cfg.DB.DSN)

	str("INGEST_DIR", &cfg.Ingest.Dir)
	str("INGEST_TABLE", &cfg.Ingest.Table)
	str("INGEST_COMMA", &cfg.Ingest.Comma)
	if v := getenv(EnvPrefix + "INGEST_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sINGEST_BATCH_SIZE: %w", EnvPrefix, err)
		}
		cfg.Ingest.BatchSize = n
	}
	if err := boolean("INGEST_TRIM_SPACE", &cfg.Ingest.TrimSpace); err != nil {
		return err
	}
	if err := boolean("INGEST_NORMALIZE_HEADERS", &cfg.Ingest.NormalizeHeaders); err != nil {
		return err
	}

	str("CORRELATE_TABLE", &cfg.Correlate.Table)
	str("CORRELATE_FORMAT", &cfg.Correlate.Format)
	if v := getenv(EnvPrefix + "CORRELATE_FIELDS"); v != "" {
		cfg.Correlate.Fields = splitList(v)
	}

	str("METRICS_BACKEND", &cfg.Metrics.Backend)
	str("METRICS_PUSHGATEWAY_URL", &cfg.Metrics.PushgatewayURL)
	str("METRICS_DATADOG_ADDR", &cfg.Metrics.DatadogAddr)
	str("METRICS_JOB", &cfg.Metrics.Job)

	return boolean("VERBOSE", &cfg.Verbose)
}
