package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmgilman/go/fs/billy"
	"github.com/jmgilman/go/fs/core"
)

// Extractor unpacks a single archive file into a destination directory.
// One handler exists per Kind; all handlers share the same containment
// checks so no archive entry can escape the destination.
type Extractor struct {
	fs     core.FS
	logger *slog.Logger
	rar    bool
}

// ExtractorOption configures an Extractor during construction.
type ExtractorOption func(*Extractor)

// WithFS sets the filesystem the extractor reads archives from and writes
// extracted content to.
func WithFS(fsys core.FS) ExtractorOption {
	return func(e *Extractor) {
		e.fs = fsys
	}
}

// WithLogger sets the logger used for extraction warnings.
func WithLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// WithRar toggles rar support. When disabled, extracting a rar archive
// reports failure with a warning instead of unpacking; this mirrors
// environments where the rar capability is unavailable.
func WithRar(enabled bool) ExtractorOption {
	return func(e *Extractor) {
		e.rar = enabled
	}
}

// NewExtractor creates an Extractor backed by the local filesystem with rar
// support enabled.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		fs:     billy.NewLocal(),
		logger: slog.New(slog.DiscardHandler),
		rar:    true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract unpacks archivePath into destDir, creating destDir if needed.
// The returned error wraps one of the package sentinels; callers are
// expected to treat every failure as soft and continue with sibling files.
func (e *Extractor) Extract(ctx context.Context, archivePath, destDir string) error {
	kind := Classify(archivePath)
	if kind == KindUnsupported {
		e.logger.Warn("unsupported archive format", "path", archivePath)
		return fmt.Errorf("%s: %w", archivePath, ErrUnsupportedFormat)
	}
	if kind == KindRar && !e.rar {
		e.logger.Warn("rar support unavailable, skipping extraction", "path", archivePath)
		return fmt.Errorf("%s: %w", archivePath, ErrRarDisabled)
	}

	if err := e.fs.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create destination %s: %w", destDir, err)
	}

	switch kind {
	case KindTarFamily:
		return e.extractTar(ctx, archivePath, destDir)
	case KindZip:
		return e.extractZip(ctx, archivePath, destDir)
	case KindRar:
		return e.extractRar(ctx, archivePath, destDir)
	case KindGzipSingle:
		return e.extractGzip(ctx, archivePath, destDir)
	default:
		return fmt.Errorf("%s: %w", archivePath, ErrUnsupportedFormat)
	}
}

// safeJoin resolves member against destDir and ensures the result stays
// inside destDir.
func safeJoin(destDir, member string) (string, error) {
	destAbs, err := filepath.Abs(destDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve destination: %w", err)
	}
	full := filepath.Join(destAbs, filepath.Clean("/"+member))
	if full != destAbs && !strings.HasPrefix(full, destAbs+string(os.PathSeparator)) {
		return "", fmt.Errorf("%s: %w", member, ErrInsecurePath)
	}
	return full, nil
}

// writeEntry writes one regular file's content to full, creating parent
// directories as needed.
func (e *Extractor) writeEntry(full string, content io.Reader) error {
	if err := e.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", full, err)
	}
	file, err := e.fs.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", full, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return fmt.Errorf("failed to write %s: %w", full, err)
	}
	return nil
}

// isDone returns a wrapped cancellation error if ctx is done.
func isDone(ctx context.Context, action string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s canceled: %w", action, ctx.Err())
	default:
		return nil
	}
}
