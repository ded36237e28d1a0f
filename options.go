package clamsweep

import (
	"log/slog"

	"github.com/jmgilman/go/fs/core"

	"github.com/jmgilman/clamsweep/clamav"
)

// options holds the run configuration assembled from Option values.
type options struct {
	fs        core.FS
	logger    *slog.Logger
	outputDir string
	scanner   *clamav.Scanner
	rar       bool
}

// Option configures a run.
type Option func(*options)

// WithOutputDir sets the shared output root for extraction results. When
// unset, a fresh temporary directory is created per run.
func WithOutputDir(dir string) Option {
	return func(o *options) {
		o.outputDir = dir
	}
}

// WithScanner sets the scanner used for every file. When unset, a default
// scanner is built sharing the run's filesystem and logger.
func WithScanner(scanner *clamav.Scanner) Option {
	return func(o *options) {
		o.scanner = scanner
	}
}

// WithFS sets the filesystem for extraction, exclusion loading, and walking.
func WithFS(fsys core.FS) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithLogger sets the logger shared by all run components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRar toggles rar extraction support for the run.
func WithRar(enabled bool) Option {
	return func(o *options) {
		o.rar = enabled
	}
}
