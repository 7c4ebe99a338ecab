// This file implements a generic, batched loader that drains typed rows from a
// channel and invokes a provided bulk-insert function (CopyFn) per batch.
//
// Backends implement CopyFn using their most efficient primitives (Postgres
// COPY, SQL Server bulk copy, MySQL multi-row INSERT, SQLite prepared INSERTs
// in a transaction).

package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations should
// insert the provided rows (aligned to 'columns' order) and return the number
// of rows reported as inserted. The function should be safe for repeated calls
// and cancel promptly when ctx is done.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// BatchStats describes one successful flush.
type BatchStats struct {
	Batch     int64         // 1-based batch number
	Rows      int64         // rows inserted by this batch
	Total     int64         // running total
	RPS       float64       // rows/sec since the previous flush
	Elapsed   time.Duration // since LoadBatches started
	SinceLast time.Duration
}

// FlushFn observes successful flushes.
type FlushFn func(BatchStats)

// LogProgress is a FlushFn that prints one progress line per batch.
func LogProgress(s BatchStats) {
	log.Printf(
		"loader: batch=%d rps=%.0f inserted=%d total_inserted=%d elapsed=%s since_last=%s",
		s.Batch,
		s.RPS,
		s.Rows,
		s.Total,
		s.Elapsed.Truncate(time.Millisecond),
		s.SinceLast.Truncate(time.Millisecond),
	)
}

// LoadBatches drains typed rows from 'in', groups them into batches of size
// 'batchSize', and calls 'copyFn' for each non-empty batch. It returns the total
// number of rows reported by copyFn and the first error encountered. onFlush,
// when non-nil, is called after every successful batch.
//
// Cancellation: returns (total, ctx.Err()) when canceled. A pending batch is
// never flushed once ctx is done, so rows buffered when a producer fails are
// not written.
func LoadBatches(
	ctx context.Context,
	columns []string,
	in <-chan []any,
	batchSize int,
	copyFn CopyFn,
	onFlush FlushFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total       int64
		batches     int64
		batch       = make([][]any, 0, batchSize)
		start       = time.Now()
		lastFlushTS = start
		lastTotal   int64
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := copyFn(ctx, columns, batch)
		total += n

		// Reuse allocated slice; keep capacity to avoid churn.
		batch = batch[:0]

		if err != nil {
			log.Printf("loader: copy failed after=%d total=%d err=%v", n, total, err)
			return err
		}

		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(total-lastTotal) / sinceLast.Seconds()
		}
		if onFlush != nil {
			onFlush(BatchStats{
				Batch:     batches,
				Rows:      n,
				Total:     total,
				RPS:       rps,
				Elapsed:   now.Sub(start),
				SinceLast: sinceLast,
			})
		}
		lastFlushTS = now
		lastTotal = total
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()

		case row, ok := <-in:
			if !ok {
				// Channel closed: flush remaining rows.
				if err := flush(); err != nil {
					return total, err
				}
				return total, nil
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}
