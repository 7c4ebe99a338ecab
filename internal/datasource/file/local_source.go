package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"
)

// Local opens one report file from the local disk.
type Local struct{ path string }

// NewLocal returns a Local bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the bound path.
func (l *Local) Path() string { return l.path }

// Open opens the file for reading. A canceled ctx is reported before the
// filesystem is touched. Filesystem errors are wrapped with the path and keep
// errors.Is(err, fs.ErrNotExist) working.
func (l *Local) Open(ctx context.Context) (*Reader, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return &Reader{f: f, h: xxh3.New()}, nil
}

// Reader is an open report file that fingerprints every byte read through it.
type Reader struct {
	f *os.File
	h *xxh3.Hasher
	n int64
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.f.Read(p)
	if n > 0 {
		_, _ = r.h.Write(p[:n])
		r.n += int64(n)
	}
	return n, err
}

// Close closes the underlying file.
func (r *Reader) Close() error { return r.f.Close() }

// BytesRead is the number of bytes consumed so far.
func (r *Reader) BytesRead() int64 { return r.n }

// Fingerprint returns the xxh3-64 digest of the bytes consumed so far as 16
// lower-case hex digits. Read to EOF for a whole-file fingerprint.
func (r *Reader) Fingerprint() string {
	return fmt.Sprintf("%016x", r.h.Sum64())
}

var _ io.ReadCloser = (*Reader)(nil)
