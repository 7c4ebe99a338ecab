package cli

import (
	"github.com/spf13/cobra"

	"dailyreports/internal/correlate"
)

type correlateFlags struct {
	table  string
	fields []string
	format string
}

func newCorrelateCommand(a *app) *cobra.Command {
	var f correlateFlags

	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Print the Pearson correlation matrix of numeric columns",
		Long: `Selects the configured fields from the cleaned table and prints their
pairwise Pearson correlation matrix. Rows where either value of a pair is NULL
are left out of that pair. Undefined coefficients print as NaN.

Examples:
  # confirmed vs. deaths from cleaned_data
  reports correlate

  # JSON output over other columns
  reports correlate --fields confirmed,deaths,recovered --format json`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			fl := cmd.Flags()
			if fl.Changed("table") {
				cfg.Correlate.Table = f.table
			}
			if fl.Changed("fields") {
				cfg.Correlate.Fields = f.fields
			}
			if fl.Changed("format") {
				cfg.Correlate.Format = f.format
			}
			if err := checkIssues(cfg); err != nil {
				return err
			}

			flush := setupMetrics(cfg.Metrics)
			defer flush()

			ctx := cmd.Context()
			repo, err := openStore(ctx, cfg, cfg.Correlate.Table)
			if err != nil {
				return err
			}
			defer repo.Close()

			m, err := correlate.NewService(repo, cfg.Correlate.Fields, cfg.Metrics.Job).Run(ctx)
			if err != nil {
				return err
			}
			return correlate.Render(cmd.OutOrStdout(), m, cfg.Correlate.Format)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.table, "table", "t", "", "source table, optionally schema-qualified")
	fl.StringSliceVar(&f.fields, "fields", nil, "comma-separated numeric columns to correlate")
	fl.StringVarP(&f.format, "format", "o", "", "output format: table, json or csv")
	return cmd
}
