package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyreports/internal/storage"
)

// TestSQLiteStorageRegistrationUsesNewRepositoryHook verifies that the
// "sqlite" storage backend registered in init() uses the newRepository hook
// and that wrappedRepo correctly delegates Close.
func TestSQLiteStorageRegistrationUsesNewRepositoryHook(t *testing.T) {
	ctx := context.Background()

	origNewRepository := newRepository
	defer func() { newRepository = origNewRepository }()

	var (
		called bool
		gotCfg Config
		closed bool

		fakeRepo = &Repository{}
	)

	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		called = true
		gotCfg = cfg
		return fakeRepo, func() { closed = true }, nil
	}

	cfg := storage.Config{
		Kind:  "sqlite",
		DSN:   "file:test.db?mode=memory&cache=shared",
		Table: "daily_reports",
	}

	repo, err := storage.New(ctx, cfg)
	require.NoError(t, err)
	require.True(t, called, "newRepository hook was not called")
	assert.Equal(t, cfg.DSN, gotCfg.DSN)
	assert.Equal(t, cfg.Table, gotCfg.Table)

	w, ok := repo.(*wrappedRepo)
	require.True(t, ok, "storage.New() type = %T, want *wrappedRepo", repo)
	assert.Same(t, fakeRepo, w.Repository)
	assert.Equal(t, "sqlite", repo.Dialect().Name())

	repo.Close()
	assert.True(t, closed, "wrappedRepo.Close() did not invoke closeFn")
}

// BenchmarkSQLiteStorageNew measures the overhead of constructing a SQLite
// storage.Repository via storage.New using the newRepository hook.
func BenchmarkSQLiteStorageNew(b *testing.B) {
	ctx := context.Background()

	origNewRepository := newRepository
	defer func() { newRepository = origNewRepository }()

	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		return &Repository{cfg: cfg}, func() {}, nil
	}

	cfg := storage.Config{Kind: "sqlite", DSN: ":memory:", Table: "daily_reports"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		repo, err := storage.New(ctx, cfg)
		if err != nil {
			b.Fatalf("storage.New() error = %v", err)
		}
		repo.Close()
	}
}
