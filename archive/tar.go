package archive

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/jmgilman/go/fs/core"
	"github.com/ulikunitz/xz"
)

// extractTar unpacks every entry of a tar archive, transparently
// decompressing gzip, bzip2, and xz containers. Compression is detected
// from the stream content, not the suffix, so a compressed tar with a
// plain .tar name still extracts.
func (e *Extractor) extractTar(ctx context.Context, archivePath, destDir string) error {
	file, err := e.fs.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", archivePath, err)
	}
	defer file.Close()

	reader, err := decompressTar(file)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", archivePath, ErrCorruptArchive, err)
	}

	tr := tar.NewReader(reader)
	for {
		if err := isDone(ctx, "extraction"); err != nil {
			return err
		}

		hdr, err := tr.Next()
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

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := e.fs.MkdirAll(full, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", full, err)
			}
		case tar.TypeReg:
			if err := e.writeEntry(full, tr); err != nil {
				return err
			}
		case tar.TypeSymlink:
			e.extractTarSymlink(hdr, full, destDir)
		default:
			// Devices, fifos, and hard links are not materialized.
		}
	}
}

// extractTarSymlink creates a symlink entry when the target stays inside the
// destination and the filesystem supports symlinks. Escaping or absolute
// targets are skipped with a warning rather than failing the archive.
func (e *Extractor) extractTarSymlink(hdr *tar.Header, full, destDir string) {
	if filepath.IsAbs(hdr.Linkname) {
		e.logger.Warn("skipping symlink with absolute target", "entry", hdr.Name, "target", hdr.Linkname)
		return
	}
	resolved := filepath.Join(filepath.Dir(hdr.Name), hdr.Linkname)
	if _, err := safeJoin(destDir, resolved); err != nil {
		e.logger.Warn("skipping symlink escaping destination", "entry", hdr.Name, "target", hdr.Linkname)
		return
	}
	sfs, ok := e.fs.(core.SymlinkFS)
	if !ok {
		return
	}
	if err := e.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		e.logger.Warn("failed to create symlink parent", "entry", hdr.Name, "error", err)
		return
	}
	if err := sfs.Symlink(hdr.Linkname, full); err != nil {
		e.logger.Warn("failed to create symlink", "entry", hdr.Name, "error", err)
	}
}

// Compression container magic numbers.
var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte("BZh")
	xzMagic    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// decompressTar wraps r with the decompressor matching the stream's leading
// magic bytes. Streams with no recognized container are read as plain tar.
func decompressTar(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	// Peek may return fewer bytes near EOF; the prefix checks tolerate that
	// and the tar reader reports truncation on its own.
	magic, _ := br.Peek(len(xzMagic))
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		return gzip.NewReader(br)
	case bytes.HasPrefix(magic, bzip2Magic):
		return bzip2.NewReader(br), nil
	case bytes.HasPrefix(magic, xzMagic):
		return xz.NewReader(br)
	default:
		return br, nil
	}
}
