package config

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"dailyreports/internal/correlate"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "db.kind", "correlate.fields[1]").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateConfig performs static validation of cfg. It does not mutate cfg.
// Callers may decide whether to treat warnings as fatal or not.
//
//	issues := config.ValidateConfig(cfg)
//	for _, iss := range issues {
//	    fmt.Printf("%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
//	}
func ValidateConfig(cfg Config) []Issue {
	var issues []Issue
	issues = append(issues, validateDB(cfg.DB)...)
	issues = append(issues, validateIngest(cfg.Ingest)...)
	issues = append(issues, validateCorrelate(cfg.Correlate)...)
	issues = append(issues, validateMetrics(cfg.Metrics)...)
	return issues
}

func validateDB(db DBConfig) []Issue {
	var issues []Issue

	if strings.TrimSpace(db.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "db.kind",
			Message:  "db.kind must not be empty",
		})
	}

	switch NormalizeKind(db.Kind) {
	case KindPostgres, KindMSSQL, KindMySQL:
		if db.DSN == "" && strings.TrimSpace(db.Host) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "db.host",
				Message:  "db.host must not be empty when db.dsn is unset",
			})
		}
		if db.DSN == "" && db.Port != "" {
			if _, err := strconv.ParseUint(db.Port, 10, 16); err != nil {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     "db.port",
					Message:  fmt.Sprintf("port %q must be a number between 0 and 65535", db.Port),
				})
			}
		}
		if db.DSN == "" && strings.TrimSpace(db.Name) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "db.name",
				Message:  "db.name is empty; the server default database will be used",
			})
		}
	case KindSQLite:
		if db.DSN == "" && strings.TrimSpace(db.Name) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "db.name",
				Message:  "sqlite requires db.name (database file path) or db.dsn",
			})
		}
	default:
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "db.kind",
			Message:  fmt.Sprintf("unknown db kind %q; expected postgres, sqlite, mssql or mysql", db.Kind),
		})
	}
	if db.Driver != "" && !driverMatchesKind(db.Driver, NormalizeKind(db.Kind)) {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "db.driver",
			Message:  fmt.Sprintf("driver %q does not belong to kind %q", db.Driver, db.Kind),
		})
	}
	return issues
}

var kindDrivers = map[string][]string{
	KindPostgres: {"pgx", "postgres"},
	KindMySQL:    {"mysql"},
	KindMSSQL:    {"sqlserver", "mssql"},
	KindSQLite:   {"sqlite", "sqlite3"},
}

func driverMatchesKind(driver, kind string) bool {
	for _, d := range kindDrivers[kind] {
		if strings.EqualFold(d, driver) {
			return true
		}
	}
	return false
}

func validateIngest(in IngestConfig) []Issue {
	var issues []Issue
	if strings.TrimSpace(in.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "ingest.table",
			Message:  "ingest.table must not be empty",
		})
	}
	if in.BatchSize <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "ingest.batch_size",
			Message:  fmt.Sprintf("batch_size=%d; non-positive batch sizes fall back to the loader default", in.BatchSize),
		})
	}
	if in.Comma != "" {
		r, size := utf8.DecodeRuneInString(in.Comma)
		if size != len(in.Comma) || r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "ingest.comma",
				Message:  fmt.Sprintf("comma %q must be a single character other than quote or newline", in.Comma),
			})
		}
	}
	return issues
}

func validateCorrelate(c CorrelateConfig) []Issue {
	var issues []Issue
	if strings.TrimSpace(c.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "correlate.table",
			Message:  "correlate.table must not be empty",
		})
	}
	if len(c.Fields) < 2 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "correlate.fields",
			Message:  fmt.Sprintf("correlate.fields needs at least two columns, got %d", len(c.Fields)),
		})
	}
	seen := make(map[string]int, len(c.Fields))
	for i, f := range c.Fields {
		path := fmt.Sprintf("correlate.fields[%d]", i)
		if strings.TrimSpace(f) == "" {
			issues = append(issues, Issue{Severity: SeverityError, Path: path, Message: "field name must not be empty"})
			continue
		}
		if j, ok := seen[f]; ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path,
				Message:  fmt.Sprintf("field %q repeats correlate.fields[%d]", f, j),
			})
			continue
		}
		seen[f] = i
	}
	switch c.Format {
	case "", correlate.FormatTable, correlate.FormatJSON, correlate.FormatCSV:
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "correlate.format",
			Message:  fmt.Sprintf("unknown format %q; expected table, json or csv", c.Format),
		})
	}
	return issues
}

func validateMetrics(m MetricsConfig) []Issue {
	var issues []Issue
	switch m.Backend {
	case "", MetricsNone:
	case MetricsPushgateway:
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway backend requires metrics.pushgateway_url",
			})
		}
	case MetricsDatadog:
		if strings.TrimSpace(m.DatadogAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.datadog_addr",
				Message:  "datadog backend requires metrics.datadog_addr",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; expected none, pushgateway or datadog", m.Backend),
		})
	}
	if m.Backend != "" && m.Backend != MetricsNone && strings.TrimSpace(m.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.job",
			Message:  "metrics.job is empty; metrics will be unlabeled",
		})
	}
	return issues
}
