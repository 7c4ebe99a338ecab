// Package config defines the configuration model shared by the ingest and
// correlate commands: connection parts for the store, the ingest directory and
// destination table, the correlation projection, and the metrics backend.
//
// Values are layered, lowest precedence first:
//
//  1. Default()
//  2. an optional YAML file (LoadFile)
//  3. REPORTS_* environment variables (ApplyEnv)
//  4. command-line flags, applied by the cli package
//
// Example (reports.yaml):
//
//	db:
//	  kind: postgres
//	  user: reports
//	  password: secret
//	  host: localhost
//	  port: "5432"
//	  name: covid19
//	ingest:
//	  dir: ./csse_covid_19_daily_reports
//	  table: daily_reports
//	correlate:
//	  table: cleaned_data
//	  fields: [confirmed, deaths]
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"dailyreports/internal/correlate"
)

// DefaultFileName is the config file looked up in the working directory when
// no explicit path is given.
const DefaultFileName = "reports.yaml"

// ErrConfigNotFound is returned by LoadFile when the file does not exist.
// Callers decide whether a missing file is fatal.
var ErrConfigNotFound = errors.New("config file not found")

// Config is the top-level configuration object.
type Config struct {
	// DB describes how to reach the store.
	DB DBConfig `yaml:"db"`

	// Ingest configures the CSV directory loader.
	Ingest IngestConfig `yaml:"ingest"`

	// Correlate configures the correlation query.
	Correlate CorrelateConfig `yaml:"correlate"`

	// Metrics selects an optional metrics backend.
	Metrics MetricsConfig `yaml:"metrics"`

	// Verbose enables per-batch progress and connection logs.
	Verbose bool `yaml:"verbose"`
}

// IngestConfig holds settings for the ingest command.
type IngestConfig struct {
	// Dir is the directory scanned for *.csv files.
	Dir string `yaml:"dir"`

	// Table is the destination table, optionally schema-qualified.
	Table string `yaml:"table"`

	// BatchSize is the number of rows per bulk copy.
	BatchSize int `yaml:"batch_size"`

	// Comma is the single-character field delimiter.
	Comma string `yaml:"comma"`

	// TrimSpace trims surrounding whitespace from every cell.
	TrimSpace bool `yaml:"trim_space"`

	// NormalizeHeaders rewrites header cells to lower-case snake_case.
	NormalizeHeaders bool `yaml:"normalize_headers"`
}

// CorrelateConfig holds settings for the correlate command.
type CorrelateConfig struct {
	// Table is the source table of the projection query.
	Table string `yaml:"table"`

	// Fields are the numeric columns to correlate, in output order.
	Fields []string `yaml:"fields"`

	// Format is the output rendering: table, json or csv.
	Format string `yaml:"format"`
}

// MetricsConfig selects and configures a metrics backend.
type MetricsConfig struct {
	// Backend is one of: none, pushgateway, datadog.
	Backend string `yaml:"backend"`

	// PushgatewayURL is the Pushgateway base URL.
	PushgatewayURL string `yaml:"pushgateway_url"`

	// DatadogAddr is the DogStatsD address.
	DatadogAddr string `yaml:"datadog_addr"`

	// Job labels every metric and is the Pushgateway grouping key.
	Job string `yaml:"job"`
}

// Metrics backend names.
const (
	MetricsNone        = "none"
	MetricsPushgateway = "pushgateway"
	MetricsDatadog     = "datadog"
)

// Default returns the built-in configuration. Connection parts and table
// names match the historical setup: a local Postgres database named covid19,
// ingesting into daily_reports and correlating cleaned_data.
func Default() Config {
	return Config{
		DB: DBConfig{
			Kind:    KindPostgres,
			User:    "postgres",
			Host:    "localhost",
			Port:    "5432",
			Name:    "covid19",
			SSLMode: "disable",
		},
		Ingest: IngestConfig{
			Dir:       "csse_covid_19_daily_reports",
			Table:     "daily_reports",
			BatchSize: 5000,
			Comma:     ",",
		},
		Correlate: CorrelateConfig{
			Table:  "cleaned_data",
			Fields: []string{"confirmed", "deaths"},
			Format: correlate.FormatTable,
		},
		Metrics: MetricsConfig{
			Backend:        MetricsNone,
			PushgatewayURL: "http://localhost:9091",
			DatadogAddr:    "127.0.0.1:8125",
			Job:            "daily_reports",
		},
	}
}

// LoadFile decodes the YAML file at path over cfg. Keys absent from the file
// keep their current values. A missing file yields ErrConfigNotFound.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrConfigNotFound)
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Redacted returns a copy of cfg with the password and any DSN credentials
// masked, suitable for logs and `config show`.
func (c Config) Redacted() Config {
	out := c
	if out.DB.Password != "" {
		out.DB.Password = redactedMark
	}
	if out.DB.DSN != "" {
		out.DB.DSN = RedactDSN(out.DB.Kind, out.DB.DSN)
	}
	out.Correlate.Fields = append([]string(nil), c.Correlate.Fields...)
	return out
}

// CommaRune returns the delimiter as a rune, or ',' when unset.
func (i IngestConfig) CommaRune() rune {
	if i.Comma == "" {
		return ','
	}
	return []rune(i.Comma)[0]
}

// splitList splits a comma-separated list, trimming blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
