// Package ingest appends every CSV report in a directory to one table.
//
// Files are processed one at a time in sorted order. For each file the header
// and cell types are inferred, the table is created from the first file when
// it does not exist yet, and rows are streamed through storage.LoadBatches.
// Runs are not idempotent: loading the same directory twice stores every row
// twice.
package ingest

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"dailyreports/internal/datasource/file"
	"dailyreports/internal/metrics"
	"dailyreports/internal/parser/csv"
	"dailyreports/internal/schema"
	"dailyreports/internal/storage"
)

// DefaultBatchSize is used when Options.BatchSize is not positive.
const DefaultBatchSize = 5000

// Options configures a Service.
type Options struct {
	BatchSize int
	Parser    csv.Options

	// Job labels emitted metrics.
	Job string

	// Verbose adds per-batch progress and ignored-file lines.
	Verbose bool
}

// FileResult describes one loaded file.
type FileResult struct {
	Path        string
	Rows        int64
	Bytes       int64
	Columns     int
	Batches     int64
	Fingerprint string // xxh3-64 of the raw file bytes
	Elapsed     time.Duration
}

// Summary describes one run. On error it lists the files completed before the
// failure.
type Summary struct {
	RunID        string
	Dir          string
	Table        string
	Files        []FileResult
	Ignored      int
	Rows         int64
	TableCreated bool
	Elapsed      time.Duration
}

// Service loads report directories into the repository's table.
type Service struct {
	repo   storage.Repository
	parser *csv.Parser
	opt    Options
}

// New returns a Service writing to repo.
func New(repo storage.Repository, opt Options) *Service {
	if opt.BatchSize <= 0 {
		opt.BatchSize = DefaultBatchSize
	}
	return &Service{repo: repo, parser: csv.NewParser(opt.Parser), opt: opt}
}

// Run loads every ".csv" file in dir. The first error aborts the remaining
// files; rows already committed by earlier batches stay in the table.
func (s *Service) Run(ctx context.Context, dir string) (sum Summary, err error) {
	start := time.Now()
	sum = Summary{
		RunID: uuid.NewString(),
		Dir:   dir,
		Table: s.repo.Table(),
	}
	defer func() { sum.Elapsed = time.Since(start) }()

	listing, err := file.ListCSV(ctx, dir)
	if err != nil {
		return sum, err
	}
	sum.Ignored = len(listing.Ignored)
	if s.opt.Verbose {
		for _, name := range listing.Ignored {
			log.Printf("ingest: run=%s ignored=%s", sum.RunID, name)
		}
	}
	log.Printf("ingest: run=%s start dir=%s table=%s files=%d ignored=%d",
		sum.RunID, dir, sum.Table, len(listing.Files), sum.Ignored)

	seen := make(map[string]string, len(listing.Files))
	for _, path := range listing.Files {
		t0 := time.Now()
		res, created, err := s.loadFile(ctx, path)
		metrics.RecordStep(s.opt.Job, "ingest_file", err, time.Since(t0))
		if err != nil {
			log.Printf("ingest: run=%s file=%s failed rows_before=%d err=%v", sum.RunID, path, sum.Rows, err)
			return sum, fmt.Errorf("ingest %s: %w", filepath.Base(path), err)
		}
		sum.TableCreated = sum.TableCreated || created
		sum.Files = append(sum.Files, res)
		sum.Rows += res.Rows

		if prev, ok := seen[res.Fingerprint]; ok {
			log.Printf("ingest: run=%s warning: file=%s has the same content as %s; rows are loaded again",
				sum.RunID, filepath.Base(path), filepath.Base(prev))
		} else {
			seen[res.Fingerprint] = path
		}
		log.Printf("ingest: run=%s file=%s rows=%d bytes=%d fingerprint=%s elapsed=%s",
			sum.RunID, filepath.Base(path), res.Rows, res.Bytes, res.Fingerprint, res.Elapsed.Truncate(time.Millisecond))
	}

	log.Printf("ingest: run=%s done files=%d rows=%d table_created=%t elapsed=%s",
		sum.RunID, len(sum.Files), sum.Rows, sum.TableCreated, time.Since(start).Truncate(time.Millisecond))
	return sum, nil
}

// loadFile parses one file and appends its rows.
func (s *Service) loadFile(ctx context.Context, path string) (FileResult, bool, error) {
	start := time.Now()
	res := FileResult{Path: path}

	r, err := file.NewLocal(path).Open(ctx)
	if err != nil {
		return res, false, err
	}
	defer r.Close()

	tbl, err := s.parser.Parse(r)
	if err != nil {
		return res, false, err
	}
	res.Bytes = r.BytesRead()
	res.Fingerprint = r.Fingerprint()
	metrics.RecordRow(s.opt.Job, "parsed", int64(len(tbl.Rows)))

	cols := schema.Infer(tbl.Headers, tbl.Rows)
	res.Columns = len(cols)
	created, err := storage.EnsureTable(ctx, s.repo, cols)
	if err != nil {
		return res, false, err
	}

	n, batches, err := s.stream(ctx, cols, tbl.Rows)
	res.Rows = n
	res.Batches = batches
	res.Elapsed = time.Since(start)
	metrics.RecordRow(s.opt.Job, "inserted", n)
	return res, created, err
}

// stream coerces rows in one goroutine and drains them into the repository in
// another. Either side failing cancels the other.
func (s *Service) stream(ctx context.Context, cols []schema.Column, rows [][]string) (int64, int64, error) {
	g, gctx := errgroup.WithContext(ctx)
	in := make(chan []any, s.opt.BatchSize)

	g.Go(func() error {
		defer close(in)
		for i, cells := range rows {
			vals, err := schema.Row(cols, cells)
			if err != nil {
				return fmt.Errorf("data row %d: %w", i+1, err)
			}
			select {
			case in <- vals:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var (
		total   int64
		batches int64
	)
	onFlush := func(st storage.BatchStats) {
		batches = st.Batch
		metrics.RecordBatches(s.opt.Job, 1)
		if s.opt.Verbose {
			storage.LogProgress(st)
		}
	}
	g.Go(func() error {
		n, err := storage.LoadBatches(gctx, schema.Names(cols), in, s.opt.BatchSize, s.repo.CopyFrom, onFlush)
		total = n
		return err
	})

	err := g.Wait()
	return total, batches, err
}
