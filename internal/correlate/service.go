package correlate

import (
	"context"
	"fmt"
	"log"
	"time"

	"dailyreports/internal/metrics"
	"dailyreports/internal/storage"
)

// Service reads numeric fields from the repository's table and correlates
// them. It never writes.
type Service struct {
	repo   storage.Repository
	fields []string
	job    string
}

// NewService returns a Service over fields of repo's table. job labels
// emitted metrics.
func NewService(repo storage.Repository, fields []string, job string) *Service {
	return &Service{repo: repo, fields: append([]string(nil), fields...), job: job}
}

// Run selects every row of the configured fields and returns their matrix.
func (s *Service) Run(ctx context.Context) (m Matrix, err error) {
	start := time.Now()
	defer func() { metrics.RecordStep(s.job, "correlate", err, time.Since(start)) }()

	if len(s.fields) < 2 {
		return Matrix{}, ErrTooFewFields
	}
	rows, err := s.repo.SelectFloat64(ctx, s.fields)
	if err != nil {
		return Matrix{}, fmt.Errorf("read %s: %w", s.repo.Table(), err)
	}
	metrics.RecordRow(s.job, "selected", int64(len(rows)))

	m, err = Compute(s.fields, rows)
	if err != nil {
		return Matrix{}, err
	}
	log.Printf("correlate: table=%s fields=%v rows=%d elapsed=%s",
		s.repo.Table(), s.fields, len(rows), time.Since(start).Truncate(time.Millisecond))
	return m, nil
}
