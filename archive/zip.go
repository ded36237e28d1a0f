package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
)

// extractZip unpacks every entry of a zip archive. The archive is read
// through the injected filesystem, so the whole file is buffered to satisfy
// zip's random-access requirement.
func (e *Extractor) extractZip(ctx context.Context, archivePath, destDir string) error {
	data, err := e.fs.ReadFile(archivePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", archivePath, err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%s: %w: %w", archivePath, ErrCorruptArchive, err)
	}

	for _, entry := range zr.File {
		if err := isDone(ctx, "extraction"); err != nil {
			return err
		}

		full, err := safeJoin(destDir, entry.Name)
		if err != nil {
			return err
		}

		if entry.FileInfo().IsDir() {
			if err := e.fs.MkdirAll(full, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", full, err)
			}
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("%s: %w: %w", archivePath, ErrCorruptArchive, err)
		}
		writeErr := e.writeEntry(full, rc)
		rc.Close()
		if writeErr != nil {
			return writeErr
		}
	}
	return nil
}
