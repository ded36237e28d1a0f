package archive

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nwaples/rardecode/v2"
)

// extractRar unpacks every entry of a rar archive. The caller has already
// verified that rar support is enabled.
func (e *Extractor) extractRar(ctx context.Context, archivePath, destDir string) error {
	file, err := e.fs.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", archivePath, err)
	}
	defer file.Close()

	rr, err := rardecode.NewReader(file)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", archivePath, ErrCorruptArchive, err)
	}

	for {
		if err := isDone(ctx, "extraction"); err != nil {
			return err
		}

		hdr, err := rr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w: %w", archivePath, ErrCorruptArchive, err)
		}

		full, err := safeJoin(destDir, hdr.Name)
		if err != nil {
			return err
		}

		if hdr.IsDir {
			if err := e.fs.MkdirAll(full, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", full, err)
			}
			continue
		}

		if err := e.writeEntry(full, rr); err != nil {
			return err
		}
	}
}
