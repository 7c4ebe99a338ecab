// Package cli wires the reports command tree: ingest, correlate and config.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const rootLong = `reports loads CSSE COVID-19 daily report CSV files into a SQL table and
computes Pearson correlations over numeric columns of a cleaned table.

Configuration is layered, lowest precedence first: built-in defaults, a .env
file, reports.yaml (or --config), REPORTS_* environment variables, then flags.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - A report file could not be loaded`

// app holds state shared by every command of one invocation.
type app struct {
	getenv func(string) string
	flags  globalFlags
}

// globalFlags are the persistent flags. They only apply when set on the
// command line.
type globalFlags struct {
	configPath string
	envFile    string
	verbose    bool

	dbKind     string
	dbDriver   string
	dbUser     string
	dbPassword string
	dbHost     string
	dbPort     string
	dbName     string
	dbSSLMode  string
	dsn        string

	metricsBackend string
	pushgatewayURL string
	datadogAddr    string
	metricsJob     string
}

// Execute runs the root command until it finishes or the process receives
// SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand(os.Getenv).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. getenv supplies REPORTS_*
// variables.
func NewRootCommand(getenv func(string) string) *cobra.Command {
	a := &app{getenv: getenv}

	root := &cobra.Command{
		Use:           "reports",
		Short:         "Load daily COVID-19 reports and correlate cleaned data",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "path to a YAML config file (default ./reports.yaml when present)")
	pf.StringVar(&a.flags.envFile, "env-file", ".env", "dotenv file loaded before REPORTS_* variables are read")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable verbose output for all commands")

	pf.StringVar(&a.flags.dbKind, "db-kind", "", "store kind: postgres, sqlite, mssql or mysql")
	pf.StringVar(&a.flags.dbDriver, "db-driver", "", "database/sql driver name override")
	pf.StringVar(&a.flags.dbUser, "db-user", "", "database user")
	pf.StringVar(&a.flags.dbPassword, "db-password", "", "database password")
	pf.StringVar(&a.flags.dbHost, "db-host", "", "database host")
	pf.StringVar(&a.flags.dbPort, "db-port", "", "database port")
	pf.StringVar(&a.flags.dbName, "db-name", "", "database name (file path for sqlite)")
	pf.StringVar(&a.flags.dbSSLMode, "db-sslmode", "", "postgres sslmode")
	pf.StringVar(&a.flags.dsn, "dsn", "", "driver-native connection string; overrides the discrete db-* parts")

	pf.StringVar(&a.flags.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog")
	pf.StringVar(&a.flags.pushgatewayURL, "pushgateway-url", "", "Prometheus Pushgateway base URL")
	pf.StringVar(&a.flags.datadogAddr, "datadog-addr", "", "DogStatsD address")
	pf.StringVar(&a.flags.metricsJob, "metrics-job", "", "job label for emitted metrics")

	root.AddCommand(
		newIngestCommand(a),
		newCorrelateCommand(a),
		newConfigCommand(a),
	)
	return root
}

// usageArgs wraps a cobra positional-args validator so its errors map to
// ExitUsageError.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return nil
	}
}
