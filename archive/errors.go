package archive

import "errors"

// Sentinel errors for extraction failure modes. The walker treats all of
// them as soft: a failed archive is logged and recorded, and traversal
// continues with siblings. They can be checked with errors.Is().
var (
	// ErrUnsupportedFormat indicates the path does not carry a recognized
	// archive extension.
	ErrUnsupportedFormat = errors.New("unsupported archive format")

	// ErrRarDisabled indicates rar support was disabled when the extractor
	// was constructed. Extraction of rar archives reports failure without
	// touching the destination.
	ErrRarDisabled = errors.New("rar support disabled")

	// ErrCorruptArchive indicates the archive could not be read to the end.
	ErrCorruptArchive = errors.New("archive corrupted or invalid")

	// ErrInsecurePath indicates an archive entry attempted to escape the
	// destination directory.
	ErrInsecurePath = errors.New("archive entry escapes destination")
)
