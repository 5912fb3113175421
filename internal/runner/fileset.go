package runner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/specialistvlad/hdlplan/internal/plan"
)

// deleteFileset removes every file and directory below set.Dir that matches
// an include pattern and no exclude pattern. Directories are only removed
// once empty, so a directory holding an excluded file survives. It returns
// the number of removed entries.
func deleteFileset(set plan.Fileset) (int, error) {
	info, err := os.Stat(set.Dir)
	if err != nil {
		return 0, fmt.Errorf("fileset directory %s: %w", set.Dir, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("fileset directory %s is not a directory", set.Dir)
	}

	fsys := os.DirFS(set.Dir)
	matched := make(map[string]struct{})
	for _, pattern := range set.Include {
		if !doublestar.ValidatePattern(pattern) {
			return 0, fmt.Errorf("invalid include pattern %q", pattern)
		}
		paths, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return 0, fmt.Errorf("include pattern %q: %w", pattern, err)
		}
		for _, p := range paths {
			matched[p] = struct{}{}
		}
	}

	var candidates []string
	for p := range matched {
		excluded, err := matchesAny(set.Exclude, p)
		if err != nil {
			return 0, err
		}
		if !excluded {
			candidates = append(candidates, p)
		}
	}
	// deepest first, so directories are emptied before they are removed
	slices.SortFunc(candidates, func(a, b string) int {
		if da, db := strings.Count(a, "/"), strings.Count(b, "/"); da != db {
			return db - da
		}
		return strings.Compare(a, b)
	})

	removed := 0
	var errs []error
	for _, p := range candidates {
		full := filepath.Join(set.Dir, filepath.FromSlash(p))
		err := os.Remove(full)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, fs.ErrNotExist):
		case isDirNotEmpty(full):
			// holds an excluded entry
		default:
			errs = append(errs, err)
		}
	}
	return removed, errors.Join(errs...)
}

func matchesAny(patterns []string, p string) (bool, error) {
	for _, pattern := range patterns {
		ok, err := doublestar.Match(pattern, p)
		if err != nil {
			return false, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func isDirNotEmpty(path string) bool {
	entries, err := os.ReadDir(path)
	return err == nil && len(entries) > 0
}
