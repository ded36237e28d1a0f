package archive

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/jmgilman/clamsweep/exclude"
)

// Walker recursively unpacks every archive found under an input path into a
// shared output root. Each archive lands in its own uniquely named
// subdirectory (extracted_<stem>_<n>), and freshly extracted content is
// walked again so nested archives are unpacked to their full depth.
//
// A Walker is not safe for concurrent use: the directory-naming counter and
// the error list are append-only but unguarded.
type Walker struct {
	extractor  *Extractor
	rules      *exclude.Ruleset
	outputRoot string
	extracted  []string
	errs       []string
}

// NewWalker creates a Walker that places extraction output under outputRoot,
// creating it if absent. The ruleset is shared with the scan walker so both
// honor identical exclusions. A nil extractor gets default construction.
func NewWalker(outputRoot string, rules *exclude.Ruleset, extractor *Extractor) (*Walker, error) {
	if extractor == nil {
		extractor = NewExtractor()
	}
	if err := extractor.fs.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output root %s: %w", outputRoot, err)
	}
	return &Walker{
		extractor:  extractor,
		rules:      rules,
		outputRoot: CanonicalPath(outputRoot),
	}, nil
}

// OutputRoot returns the canonical path of the shared output root.
func (w *Walker) OutputRoot() string {
	return w.outputRoot
}

// Extracted returns the extraction output directories in discovery order.
func (w *Walker) Extracted() []string {
	out := make([]string, len(w.extracted))
	copy(out, w.extracted)
	return out
}

// Errors returns the messages accumulated from failed extraction attempts.
func (w *Walker) Errors() []string {
	out := make([]string, len(w.errs))
	copy(out, w.errs)
	return out
}

// Walk traverses inputPath, extracting every archive it finds, and returns
// the cumulative list of extraction output directories. Extraction failures
// are soft: they are logged, recorded in Errors, and traversal continues.
// The only returned error is context cancellation.
func (w *Walker) Walk(ctx context.Context, inputPath, basePath string) ([]string, error) {
	if err := isDone(ctx, "walk"); err != nil {
		return w.Extracted(), err
	}

	exists, err := w.extractor.fs.Exists(inputPath)
	if err != nil || !exists {
		w.extractor.logger.Warn("path does not exist", "path", inputPath)
		return w.Extracted(), nil
	}

	canonical := CanonicalPath(inputPath)

	// Cycle guard: the output root is never extraction input. Re-walking
	// freshly extracted directories goes through walkExtracted instead.
	if isWithin(w.outputRoot, canonical) {
		w.extractor.logger.Debug("skipping path inside output root", "path", canonical)
		return w.Extracted(), nil
	}

	if w.rules.ShouldExclude(canonical, basePath) {
		w.extractor.logger.Debug("skipping excluded path", "path", canonical)
		return w.Extracted(), nil
	}

	info, err := w.extractor.fs.Stat(canonical)
	if err != nil {
		w.extractor.logger.Warn("failed to stat path", "path", canonical, "error", err)
		return w.Extracted(), nil
	}

	if !info.IsDir() {
		if info.Mode().IsRegular() && Classify(canonical) != KindUnsupported {
			if err := w.extractArchive(ctx, canonical, basePath); err != nil {
				return w.Extracted(), err
			}
		}
		return w.Extracted(), nil
	}

	entries, err := w.extractor.fs.ReadDir(canonical)
	if err != nil {
		w.extractor.logger.Warn("failed to read directory", "path", canonical, "error", err)
		return w.Extracted(), nil
	}
	for _, entry := range entries {
		child := filepath.Join(canonical, entry.Name())
		if w.rules.ShouldExclude(child, basePath) {
			w.extractor.logger.Debug("skipping excluded path", "path", child)
			continue
		}
		// Only directories and archives matter here; plain files are left
		// for the scan pass.
		if entry.IsDir() || Classify(child) != KindUnsupported {
			if _, err := w.Walk(ctx, child, basePath); err != nil {
				return w.Extracted(), err
			}
		}
	}
	return w.Extracted(), nil
}

// extractArchive unpacks one archive into a fresh output subdirectory and
// then re-walks that directory for newly exposed archives. The sequence
// number keeps directory names unique even for repeated archive stems.
func (w *Walker) extractArchive(ctx context.Context, archivePath, basePath string) error {
	dest := w.nextOutputDir(archivePath)

	if err := w.extractor.Extract(ctx, archivePath, dest); err != nil {
		if ctx.Err() != nil {
			return err
		}
		w.extractor.logger.Error("failed to extract archive", "path", archivePath, "error", err)
		w.errs = append(w.errs, err.Error())
		return nil
	}

	w.extracted = append(w.extracted, dest)
	w.extractor.logger.Info("extracted archive", "path", archivePath, "dest", dest)

	return w.walkExtracted(ctx, dest, basePath)
}

// nextOutputDir allocates a fresh output directory name from the archive's
// stem and the count of directories produced so far. When several walkers
// share one output root the counter may collide with an earlier run's
// directory, so the sequence number advances past any name already taken.
func (w *Walker) nextOutputDir(archivePath string) string {
	seq := len(w.extracted)
	for {
		dest := filepath.Join(w.outputRoot, fmt.Sprintf("extracted_%s_%d", stem(archivePath), seq))
		exists, err := w.extractor.fs.Exists(dest)
		if err != nil || !exists {
			return dest
		}
		seq++
	}
}

// walkExtracted looks for archives inside a directory the walker itself just
// produced. It bypasses the output-root cycle guard, which is safe because
// every extraction strictly grows the output root with a never-revisited
// directory.
func (w *Walker) walkExtracted(ctx context.Context, dir, basePath string) error {
	var nested []string
	walkErr := w.extractor.fs.Walk(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.extractor.logger.Warn("walk failed", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if w.rules.ShouldExclude(path, basePath) {
			return nil
		}
		if Classify(path) != KindUnsupported {
			nested = append(nested, path)
		}
		return nil
	})
	if walkErr != nil {
		w.extractor.logger.Warn("failed to walk extracted content", "dir", dir, "error", walkErr)
	}

	for _, archivePath := range nested {
		if err := w.extractArchive(ctx, archivePath, basePath); err != nil {
			return err
		}
	}
	return nil
}

// CanonicalPath resolves a path to its absolute, symlink-dereferenced form.
// When symlink resolution fails (dangling link, path on a synthetic
// filesystem) the cleaned absolute path is used instead.
func CanonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// isWithin reports whether child equals parent or is located beneath it.
func isWithin(parent, child string) bool {
	return child == parent || strings.HasPrefix(child, parent+string(filepath.Separator))
}
