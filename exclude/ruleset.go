package exclude

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jmgilman/go/fs/billy"
	"github.com/jmgilman/go/fs/core"
)

// ignoreFileNames are the well-known ignore files read from the base path.
var ignoreFileNames = []string{".gitignore", ".dockerignore"}

// deniedDirs is the fixed set of directory names excluded from all walks.
// Any path with one of these as a component is skipped regardless of the
// loaded pattern set.
var deniedDirs = map[string]struct{}{
	".git":          {},
	"node_modules":  {},
	"__pycache__":   {},
	".venv":         {},
	"venv":          {},
	".tox":          {},
	".pytest_cache": {},
	"htmlcov":       {},
	"coverage":      {},
	".coverage":     {},
	"tests":         {},
	"test":          {},
	"__tests__":     {},
	"spec":          {},
	"specs":         {},
}

// Ruleset answers whether a path should be excluded from walking. It is
// constructed once per scan root and is immutable afterwards, so a single
// instance can be shared by reference between walkers.
type Ruleset struct {
	fs       core.FS
	logger   *slog.Logger
	patterns []string
}

// Option configures a Ruleset during construction.
type Option func(*Ruleset)

// WithFS sets the filesystem used to read ignore files.
func WithFS(fsys core.FS) Option {
	return func(r *Ruleset) {
		r.fs = fsys
	}
}

// WithLogger sets the logger used to report unreadable ignore files.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ruleset) {
		r.logger = logger
	}
}

// NewRuleset builds a Ruleset scoped to basePath. Ignore files at basePath
// are loaded if present; missing files are fine and unreadable files are
// logged and skipped rather than failing construction.
func NewRuleset(basePath string, opts ...Option) *Ruleset {
	r := &Ruleset{
		fs:     billy.NewLocal(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.loadIgnoreFiles(basePath)
	return r
}

// Patterns returns the loaded ignore-file patterns in load order.
func (r *Ruleset) Patterns() []string {
	out := make([]string, len(r.patterns))
	copy(out, r.patterns)
	return out
}

// ShouldExclude reports whether path is excluded. The denylist check always
// applies; pattern matching applies only when path is located under basePath.
func (r *Ruleset) ShouldExclude(path, basePath string) bool {
	parts := splitComponents(path)
	for _, part := range parts {
		if _, ok := deniedDirs[part]; ok {
			return true
		}
	}

	if basePath == "" || len(r.patterns) == 0 {
		return false
	}

	rel, err := filepath.Rel(basePath, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		// Path is not under basePath; patterns do not apply.
		return false
	}

	for _, pattern := range r.patterns {
		if strings.Contains(rel, pattern) || strings.HasPrefix(rel, pattern) {
			return true
		}
		for _, part := range parts {
			if part == pattern {
				return true
			}
		}
	}
	return false
}

// loadIgnoreFiles collects patterns from the well-known ignore files at
// basePath. Each non-empty, non-comment line becomes a pattern after one
// leading and one trailing path separator is stripped.
func (r *Ruleset) loadIgnoreFiles(basePath string) {
	for _, name := range ignoreFileNames {
		path := filepath.Join(basePath, name)
		exists, err := r.fs.Exists(path)
		if err != nil || !exists {
			continue
		}
		data, err := r.fs.ReadFile(path)
		if err != nil {
			r.logger.Warn("failed to read ignore file", "path", path, "error", err)
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			pattern := strings.TrimSuffix(strings.TrimPrefix(line, "/"), "/")
			if pattern != "" {
				r.patterns = append(r.patterns, pattern)
			}
		}
		r.logger.Info("loaded exclusions from ignore file", "path", path)
	}
}

// splitComponents breaks a cleaned path into its individual components.
func splitComponents(path string) []string {
	clean := filepath.Clean(path)
	clean = strings.TrimPrefix(clean, string(filepath.Separator))
	if clean == "" || clean == "." {
		return nil
	}
	return strings.Split(clean, string(filepath.Separator))
}
