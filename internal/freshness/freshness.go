// Package freshness implements the timestamp-marker scheme that lets the
// compile phase skip files that have not changed since their last successful
// compile.
//
// Each compiled file owns one marker in a flat stamp directory. The marker's
// modification time records the last successful compile. Contents are never
// hashed: a file rewritten with identical bytes but a newer mtime is compiled
// again.
package freshness

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// MarkerName flattens a relative source path into a single file name by
// replacing path separators, so the stamp directory never needs subfolders.
func MarkerName(sourcePath string) string {
	p := path.Clean(filepath.ToSlash(sourcePath))
	p = strings.TrimPrefix(p, "./")
	return strings.ReplaceAll(p, "/", "_")
}

// Check is the freshness predicate of one source file.
type Check struct {
	Source string
	Marker string
}

// NewCheck builds the check for sourcePath (relative to baseDir) with its
// marker stored under stampDir.
func NewCheck(baseDir, stampDir, sourcePath string) Check {
	return Check{
		Source: filepath.Join(baseDir, filepath.FromSlash(sourcePath)),
		Marker: filepath.Join(stampDir, MarkerName(sourcePath)),
	}
}

// Fresh reports whether the compile of Source can be skipped: the marker
// exists and the source is not strictly newer than it. A missing marker means
// the file was never compiled. A missing source is an error.
func (c Check) Fresh() (bool, error) {
	src, err := os.Stat(c.Source)
	if err != nil {
		return false, fmt.Errorf("stat source %s: %w", c.Source, err)
	}

	marker, err := os.Stat(c.Marker)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat marker %s: %w", c.Marker, err)
	}

	return !src.ModTime().After(marker.ModTime()), nil
}

// Record refreshes the marker after a successful compile, creating it and
// its directory on first use.
func Record(c Check) error {
	return Touch(c.Marker, time.Now())
}

// Touch creates file if needed and sets its modification time to t.
func Touch(file string, t time.Time) error {
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("create marker directory: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open marker %s: %w", file, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close marker %s: %w", file, err)
	}
	if err := os.Chtimes(file, t, t); err != nil {
		return fmt.Errorf("touch marker %s: %w", file, err)
	}
	return nil
}

// Clean removes the whole stamp directory, forcing a full recompile.
func Clean(stampDir string) error {
	if err := os.RemoveAll(stampDir); err != nil {
		return fmt.Errorf("remove stamp directory %s: %w", stampDir, err)
	}
	return nil
}
