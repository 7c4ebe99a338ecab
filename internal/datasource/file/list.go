// Package file lists and opens daily report files on the local filesystem.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CSVSuffix is the case-sensitive file name suffix selected by ListCSV.
const CSVSuffix = ".csv"

// ErrNotDirectory is returned when the listed path exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Listing is the result of scanning one directory.
type Listing struct {
	// Files are full paths of the selected CSV files, sorted by name.
	Files []string
	// Ignored are the names of entries that were skipped.
	Ignored []string
}

// ListCSV returns the regular files in dir whose name ends in ".csv". It does
// not descend into subdirectories; a subdirectory is ignored even when its
// name ends in ".csv". A missing dir yields an error wrapping fs.ErrNotExist.
func ListCSV(ctx context.Context, dir string) (Listing, error) {
	if err := ctx.Err(); err != nil {
		return Listing{}, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return Listing{}, fmt.Errorf("list %s: %w", dir, err)
	}
	if !info.IsDir() {
		return Listing{}, fmt.Errorf("list %s: %w", dir, ErrNotDirectory)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Listing{}, fmt.Errorf("list %s: %w", dir, err)
	}

	var out Listing
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, CSVSuffix) || !isRegular(dir, e) {
			out.Ignored = append(out.Ignored, name)
			continue
		}
		out.Files = append(out.Files, filepath.Join(dir, name))
	}
	sort.Strings(out.Files)
	sort.Strings(out.Ignored)
	return out, nil
}

// isRegular follows symlinks so a linked CSV file is still listed.
func isRegular(dir string, e os.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.Mode().IsRegular()
}
