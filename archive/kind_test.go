package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_RecognizedSuffixes(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"bundle.tar", KindTarFamily},
		{"bundle.tgz", KindTarFamily},
		{"bundle.tbz", KindTarFamily},
		{"bundle.tb2", KindTarFamily},
		{"bundle.tar.gz", KindTarFamily},
		{"bundle.tar.bz2", KindTarFamily},
		{"bundle.tar.xz", KindTarFamily},
		{"bundle.zip", KindZip},
		{"bundle.rar", KindRar},
		{"notes.txt.gz", KindGzipSingle},
		{"bundle.TAR.GZ", KindTarFamily},
		{"bundle.ZIP", KindZip},
		{"/some/dir/bundle.tar", KindTarFamily},
		{"notes.txt", KindUnsupported},
		{"bundle.7z", KindUnsupported},
		{"tar", KindUnsupported},
		{"bundle", KindUnsupported},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.path), "path %q", tt.path)
	}
}

func TestClassify_CompoundBeforeSimple(t *testing.T) {
	// The final extension of a .tar.gz file is .gz; the compound suffix must
	// win so the file is treated as a compressed tar, not a gzip stream.
	assert.Equal(t, KindTarFamily, Classify("archive.tar.gz"))
	assert.Equal(t, KindGzipSingle, Classify("archive.gz"))
}

func TestClassify_Pure(t *testing.T) {
	for range 3 {
		assert.Equal(t, KindZip, Classify("a.zip"))
	}
}

func TestStem(t *testing.T) {
	assert.Equal(t, "bundle", stem("/tmp/bundle.zip"))
	assert.Equal(t, "bundle.tar", stem("bundle.tar.gz"))
	assert.Equal(t, "notes.txt", stem("notes.txt.gz"))
}
