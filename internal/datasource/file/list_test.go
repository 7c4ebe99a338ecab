package file

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("a,b\n1,2\n"), 0o644))
	return p
}

func TestListCSV_SelectsSortedCSVFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b := touch(t, dir, "01-02-2020.csv")
	a := touch(t, dir, "01-01-2020.csv")
	touch(t, dir, "README.md")
	touch(t, dir, "upper.CSV")
	touch(t, dir, "archive.csv.gz")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	got, err := ListCSV(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{a, b}, got.Files)
	assert.Equal(t, []string{"README.md", "archive.csv.gz", "nested.csv", "upper.CSV"}, got.Ignored)
}

func TestListCSV_EmptyDir(t *testing.T) {
	t.Parallel()
	got, err := ListCSV(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got.Files)
	assert.Empty(t, got.Ignored)
}

func TestListCSV_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := touch(t, dir, "x.csv")

	_, err := ListCSV(context.Background(), filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = ListCSV(context.Background(), file)
	assert.ErrorIs(t, err, ErrNotDirectory)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ListCSV(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListCSV_FollowsSymlinkedFiles(t *testing.T) {
	t.Parallel()

	src := touch(t, t.TempDir(), "real.csv")
	dir := t.TempDir()
	link := filepath.Join(dir, "linked.csv")
	if err := os.Symlink(src, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := ListCSV(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{link}, got.Files)
}
