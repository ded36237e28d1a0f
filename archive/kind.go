package archive

import (
	"path/filepath"
	"strings"
)

// Kind identifies the extraction strategy for an archive file.
type Kind int

const (
	// KindUnsupported marks paths that are not recognized archives.
	KindUnsupported Kind = iota
	// KindTarFamily covers tar archives, optionally compressed
	// (tar, tgz, tbz, tb2, tar.gz, tar.bz2, tar.xz).
	KindTarFamily
	// KindZip covers zip archives.
	KindZip
	// KindRar covers rar archives.
	KindRar
	// KindGzipSingle covers a single gzip-compressed file (plain .gz).
	KindGzipSingle
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindTarFamily:
		return "tar"
	case KindZip:
		return "zip"
	case KindRar:
		return "rar"
	case KindGzipSingle:
		return "gzip"
	default:
		return "unsupported"
	}
}

// compoundSuffixes must be checked before simple suffixes: the final
// extension of "x.tar.gz" is ".gz", which alone would misclassify the file
// as a single gzip stream.
var compoundSuffixes = map[string]Kind{
	".tar.gz":  KindTarFamily,
	".tar.bz2": KindTarFamily,
	".tar.xz":  KindTarFamily,
}

var simpleSuffixes = map[string]Kind{
	".tar": KindTarFamily,
	".tgz": KindTarFamily,
	".tbz": KindTarFamily,
	".tb2": KindTarFamily,
	".zip": KindZip,
	".rar": KindRar,
	".gz":  KindGzipSingle,
}

// Classify resolves a path to its archive kind. It is a pure function of the
// lower-cased suffix chain and never touches the filesystem.
func Classify(path string) Kind {
	name := strings.ToLower(filepath.Base(path))
	for suffix, kind := range compoundSuffixes {
		if strings.HasSuffix(name, suffix) {
			return kind
		}
	}
	if kind, ok := simpleSuffixes[filepath.Ext(name)]; ok {
		return kind
	}
	return KindUnsupported
}

// stem returns the base name of path with its final extension removed,
// mirroring how extraction output directories and decompressed gzip files
// are named.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
