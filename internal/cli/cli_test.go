package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"dailyreports/internal/config"
	"dailyreports/internal/metrics"
)

const fixtures = "../../testdata/daily_reports"

// run executes the command tree with args and an environment limited to env.
func run(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(func(k string) string { return env[k] })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func sqliteArgs(t *testing.T) []string {
	t.Helper()
	return []string{"--db-kind", "sqlite", "--db-name", filepath.Join(t.TempDir(), "covid19.db")}
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", fmt.Errorf("%w: unknown flag", ErrUsage), ExitUsageError},
		{"config", fmt.Errorf("wrap: %w", ErrInvalidConfig), ExitConfigError},
		{"connection", fmt.Errorf("%w: postgres: boom", ErrConnectionFailed), ExitConnectionError},
		{"refused", errors.New("dial tcp 127.0.0.1:5432: connection refused"), ExitConnectionError},
		{"ingest", fmt.Errorf("%w: ingest a.csv: bad", ErrIngestFailed), ExitIngestFailed},
		{"other", errors.New("something else"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}

func TestIngestThenCorrelate_SQLite(t *testing.T) {
	db := sqliteArgs(t)

	out, err := run(t, nil, append([]string{"ingest", fixtures, "--batch-size", "3"}, db...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "loaded 9 rows from 2 files into daily_reports (created)")

	out, err = run(t, nil, append([]string{"ingest", "--dir", fixtures}, db...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "loaded 9 rows from 2 files into daily_reports in")
	assert.NotContains(t, out, "(created)")

	out, err = run(t, nil, append([]string{
		"correlate", "--table", "daily_reports", "--fields", "Confirmed,Deaths", "--format", "csv",
	}, db...)...)
	require.NoError(t, err)
	assert.Equal(t, ",Confirmed,Deaths\nConfirmed,1.000000,NaN\nDeaths,NaN,NaN\n", out)
}

func TestIngest_Failures(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		_, err := run(t, nil, append([]string{"ingest", filepath.Join(t.TempDir(), "nope")}, sqliteArgs(t)...)...)
		require.Error(t, err)
		assert.Equal(t, ExitIngestFailed, ExitCodeForError(err))
	})

	t.Run("bad comma", func(t *testing.T) {
		_, err := run(t, nil, append([]string{"ingest", fixtures, "--comma", ";;"}, sqliteArgs(t)...)...)
		require.Error(t, err)
		assert.Equal(t, ExitConfigError, ExitCodeForError(err))
		assert.Contains(t, err.Error(), "ingest.comma")
	})

	t.Run("too many args", func(t *testing.T) {
		_, err := run(t, nil, "ingest", "a", "b")
		require.Error(t, err)
		assert.Equal(t, ExitUsageError, ExitCodeForError(err))
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := run(t, nil, "ingest", "--no-such-flag")
		require.Error(t, err)
		assert.Equal(t, ExitUsageError, ExitCodeForError(err))
	})
}

func TestCorrelate_Failures(t *testing.T) {
	t.Run("one field", func(t *testing.T) {
		_, err := run(t, nil, append([]string{"correlate", "--fields", "confirmed"}, sqliteArgs(t)...)...)
		require.Error(t, err)
		assert.Equal(t, ExitConfigError, ExitCodeForError(err))
	})

	t.Run("missing table", func(t *testing.T) {
		_, err := run(t, nil, append([]string{"correlate"}, sqliteArgs(t)...)...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cleaned_data")
		assert.Equal(t, ExitGeneralError, ExitCodeForError(err))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := run(t, nil, append([]string{"correlate", "--format", "xml"}, sqliteArgs(t)...)...)
		require.Error(t, err)
		assert.Equal(t, ExitConfigError, ExitCodeForError(err))
	})
}

func TestConfigShow_Layers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db:
  kind: mysql
  host: db.internal
correlate:
  format: json
`), 0o644))

	env := map[string]string{
		"REPORTS_DB_KIND":     "postgres",
		"REPORTS_DB_PASSWORD": "hunter2",
		"REPORTS_DB_NAME":     "from_env",
	}
	out, err := run(t, env, "config", "show", "--config", path, "--db-name", "from_flag")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "postgres", cfg.DB.Kind, "env beats file")
	assert.Equal(t, "db.internal", cfg.DB.Host, "file beats default")
	assert.Equal(t, "from_flag", cfg.DB.Name, "flag beats env")
	assert.Equal(t, "json", cfg.Correlate.Format)
	assert.Equal(t, "xxxxx", cfg.DB.Password)
	assert.NotContains(t, out, "hunter2")
}

func TestConfig_Errors(t *testing.T) {
	t.Run("explicit file missing", func(t *testing.T) {
		_, err := run(t, nil, "config", "show", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrConfigNotFound)
		assert.Equal(t, ExitConfigError, ExitCodeForError(err))
	})

	t.Run("bad env", func(t *testing.T) {
		_, err := run(t, map[string]string{"REPORTS_INGEST_BATCH_SIZE": "many"}, "config", "show")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "REPORTS_INGEST_BATCH_SIZE")
	})

	t.Run("check reports issues", func(t *testing.T) {
		out, err := run(t, nil, "config", "check", "--db-kind", "oracle")
		require.Error(t, err)
		assert.Equal(t, ExitConfigError, ExitCodeForError(err))
		assert.Contains(t, out, "db.kind")
	})

	t.Run("check ok", func(t *testing.T) {
		out, err := run(t, nil, append([]string{"config", "check"}, sqliteArgs(t)...)...)
		require.NoError(t, err)
		assert.Contains(t, out, "ok: kind=sqlite")
	})
}

func TestSetupMetrics_Pushgateway(t *testing.T) {
	var pushes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	flush := setupMetrics(config.MetricsConfig{
		Backend:        config.MetricsPushgateway,
		PushgatewayURL: srv.URL,
		Job:            "cli_test",
	})
	metrics.RecordBatches("cli_test", 2)
	flush()

	assert.EqualValues(t, 1, pushes.Load())
}

func TestSetupMetrics_DisabledAndBroken(t *testing.T) {
	for _, m := range []config.MetricsConfig{
		{Backend: config.MetricsNone},
		{Backend: "statsd"},
		{Backend: config.MetricsDatadog},
	} {
		flush := setupMetrics(m)
		require.NotNil(t, flush, m.Backend)
		flush()
	}
}
