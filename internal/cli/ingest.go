package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dailyreports/internal/ingest"
	"dailyreports/internal/parser/csv"
)

type ingestFlags struct {
	dir              string
	table            string
	batchSize        int
	comma            string
	trimSpace        bool
	normalizeHeaders bool
}

func newIngestCommand(a *app) *cobra.Command {
	var f ingestFlags

	cmd := &cobra.Command{
		Use:   "ingest [dir]",
		Short: "Append every CSV report in a directory to the reports table",
		Long: `Reads every *.csv file in the directory, in name order, and appends its rows
to the ingest table. The table is created from the first file's inferred
columns when it does not exist yet.

Runs append: loading the same directory twice stores every row twice.

Examples:
  # Load ./csse_covid_19_daily_reports into daily_reports on local Postgres
  reports ingest

  # Load a directory into a SQLite file
  reports ingest ./reports --db-kind sqlite --db-name ./covid19.db`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			fl := cmd.Flags()
			if len(args) == 1 {
				cfg.Ingest.Dir = args[0]
			} else if fl.Changed("dir") {
				cfg.Ingest.Dir = f.dir
			}
			if fl.Changed("table") {
				cfg.Ingest.Table = f.table
			}
			if fl.Changed("batch-size") {
				cfg.Ingest.BatchSize = f.batchSize
			}
			if fl.Changed("comma") {
				cfg.Ingest.Comma = f.comma
			}
			if fl.Changed("trim-space") {
				cfg.Ingest.TrimSpace = f.trimSpace
			}
			if fl.Changed("normalize-headers") {
				cfg.Ingest.NormalizeHeaders = f.normalizeHeaders
			}
			if err := checkIssues(cfg); err != nil {
				return err
			}

			flush := setupMetrics(cfg.Metrics)
			defer flush()

			ctx := cmd.Context()
			repo, err := openStore(ctx, cfg, cfg.Ingest.Table)
			if err != nil {
				return err
			}
			defer repo.Close()

			svc := ingest.New(repo, ingest.Options{
				BatchSize: cfg.Ingest.BatchSize,
				Parser: csv.Options{
					Comma:            cfg.Ingest.CommaRune(),
					TrimSpace:        cfg.Ingest.TrimSpace,
					NormalizeHeaders: cfg.Ingest.NormalizeHeaders,
				},
				Job:     cfg.Metrics.Job,
				Verbose: cfg.Verbose,
			})
			sum, err := svc.Run(ctx, cfg.Ingest.Dir)
			if err != nil {
				if ctx.Err() != nil {
					return err
				}
				return fmt.Errorf("%w: %w", ErrIngestFailed, err)
			}

			created := ""
			if sum.TableCreated {
				created = " (created)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d rows from %d files into %s%s in %s\n",
				sum.Rows, len(sum.Files), sum.Table, created, sum.Elapsed.Round(time.Millisecond))
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.dir, "dir", "", "directory scanned for *.csv files")
	fl.StringVarP(&f.table, "table", "t", "", "destination table, optionally schema-qualified")
	fl.IntVar(&f.batchSize, "batch-size", ingest.DefaultBatchSize, "rows per bulk copy")
	fl.StringVar(&f.comma, "comma", ",", "field delimiter")
	fl.BoolVar(&f.trimSpace, "trim-space", false, "trim surrounding whitespace from every cell")
	fl.BoolVar(&f.normalizeHeaders, "normalize-headers", false, "rewrite headers to lower-case snake_case")
	return cmd
}
