package clamav

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/jmgilman/clamsweep/exclude"
)

// ScanDir walks every descendant of root, scans each regular file, and
// returns the aggregate. A path is skipped when the shared ruleset excludes
// it or when it sits inside (or equals) any path in excludePaths. Scan
// failures never abort the walk; they surface as error outcomes.
func (s *Scanner) ScanDir(ctx context.Context, root string, excludePaths []string, basePath string, rules *exclude.Ruleset) *Aggregate {
	agg := &Aggregate{}

	canonicalExcludes := make([]string, 0, len(excludePaths))
	for _, p := range excludePaths {
		canonicalExcludes = append(canonicalExcludes, canonicalPath(p))
	}

	walkErr := s.fs.Walk(root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			s.logger.Warn("walk failed", "path", path, "error", err)
			return nil
		}

		skip := false
		if rules != nil && rules.ShouldExclude(path, basePath) {
			skip = true
		}
		if !skip && insideAny(canonicalExcludes, canonicalPath(path)) {
			skip = true
		}
		if skip {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil || !info.Mode().IsRegular() {
			return nil
		}

		agg.Add(s.ScanFile(ctx, path))
		return nil
	})
	if walkErr != nil && ctx.Err() == nil {
		s.logger.Warn("scan walk terminated early", "root", root, "error", walkErr)
	}

	s.logger.Info("scan completed",
		"root", root,
		"total", agg.Total,
		"infected", agg.Infected,
		"errors", agg.Errored,
	)
	return agg
}

// insideAny reports whether path equals or descends from any entry.
func insideAny(parents []string, path string) bool {
	for _, parent := range parents {
		if path == parent || strings.HasPrefix(path, parent+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// canonicalPath resolves a path to its absolute, symlink-dereferenced form,
// falling back to the cleaned absolute path when resolution fails.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
