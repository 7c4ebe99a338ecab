package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dailyreports/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
		Long: `Resolves configuration from defaults, .env, the YAML file, REPORTS_*
variables and flags, then validates or prints it.

Examples:
  # Validate the configuration that ingest and correlate would use
  reports config check

  # Print it as YAML with credentials masked
  reports config show --db-kind sqlite --db-name ./covid19.db`,
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Validate the resolved configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			issues := config.ValidateConfig(cfg)
			out := cmd.OutOrStdout()
			for _, iss := range issues {
				fmt.Fprintf(out, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
			}
			if config.HasErrors(issues) {
				return fmt.Errorf("%w: %d issue(s)", ErrInvalidConfig, len(issues))
			}
			fmt.Fprintf(out, "ok: kind=%s ingest.table=%s correlate.table=%s\n",
				config.NormalizeKind(cfg.DB.Kind), cfg.Ingest.Table, cfg.Correlate.Table)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg.Redacted())
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(check, show)
	return cmd
}

// loadConfig resolves the configuration for cmd from every layer. A read or
// decode failure is an error; validation is left to the caller.
func (a *app) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if err := loadDotenv(a.flags.envFile); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	path := a.flags.configPath
	explicit := path != ""
	if !explicit {
		path = config.DefaultFileName
	}
	if err := config.LoadFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, config.ErrConfigNotFound) {
			return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	if err := config.ApplyEnv(a.getenv, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	a.applyFlags(cmd.Flags(), &cfg)
	return cfg, nil
}

// checkIssues validates cfg, logging warnings. Any error-severity issue fails.
func checkIssues(cfg config.Config) error {
	var errs []string
	for _, iss := range config.ValidateConfig(cfg) {
		if iss.Severity == config.SeverityError {
			errs = append(errs, iss.Error())
			continue
		}
		log.Printf("config: %s", iss.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

// loadDotenv loads name into the process environment without overriding
// variables that are already set. A missing file is ignored.
func loadDotenv(name string) error {
	if name == "" {
		return nil
	}
	if err := godotenv.Load(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}

// applyFlags copies explicitly set persistent flags onto cfg.
func (a *app) applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	f := a.flags
	set("db-kind", &cfg.DB.Kind, f.dbKind)
	set("db-driver", &cfg.DB.Driver, f.dbDriver)
	set("db-user", &cfg.DB.User, f.dbUser)
	set("db-password", &cfg.DB.Password, f.dbPassword)
	set("db-host", &cfg.DB.Host, f.dbHost)
	set("db-port", &cfg.DB.Port, f.dbPort)
	set("db-name", &cfg.DB.Name, f.dbName)
	set("db-sslmode", &cfg.DB.SSLMode, f.dbSSLMode)
	set("dsn", &cfg.DB.DSN, f.dsn)

	set("metrics-backend", &cfg.Metrics.Backend, f.metricsBackend)
	set("pushgateway-url", &cfg.Metrics.PushgatewayURL, f.pushgatewayURL)
	set("datadog-addr", &cfg.Metrics.DatadogAddr, f.datadogAddr)
	set("metrics-job", &cfg.Metrics.Job, f.metricsJob)

	if flags.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
}
