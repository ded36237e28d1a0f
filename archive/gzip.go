package archive

import (
	"compress/gzip"
	"context"
	"fmt"
	"path/filepath"
)

// extractGzip decompresses a single gzip stream into a file named after the
// archive with its .gz suffix stripped.
func (e *Extractor) extractGzip(ctx context.Context, archivePath, destDir string) error {
	if err := isDone(ctx, "extraction"); err != nil {
		return err
	}

	file, err := e.fs.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", archivePath, err)
	}
	defer file.Close()

	gr, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", archivePath, ErrCorruptArchive, err)
	}
	defer gr.Close()

	out := filepath.Join(destDir, stem(archivePath))
	return e.writeEntry(out, gr)
}
