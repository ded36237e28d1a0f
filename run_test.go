package clamsweep

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/clamsweep/clamav"
)

// stubRunner classifies files by name so scans need no real engine.
type stubRunner struct {
	infected map[string]string
}

func (r *stubRunner) Run(ctx context.Context, name string, args ...string) (*clamav.Result, error) {
	path := args[len(args)-1]
	if sig, ok := r.infected[filepath.Base(path)]; ok {
		return &clamav.Result{ExitCode: 1, Stdout: path + ": " + sig + " FOUND\n"}, nil
	}
	return &clamav.Result{ExitCode: 0}, nil
}

func newStubScanner(infected map[string]string) *clamav.Scanner {
	return clamav.NewScanner(clamav.WithRunner(&stubRunner{infected: infected}))
}

func writeTestZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writeTestTar(t *testing.T, path string, files map[string][]byte) {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestRun_DirectoryWithArchive(t *testing.T) {
	tempDir := t.TempDir()
	inputDir := filepath.Join(tempDir, "input")
	require.NoError(t, os.MkdirAll(inputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "clean.txt"), []byte("ok"), 0o644))
	writeTestZip(t, filepath.Join(inputDir, "data.zip"), map[string]string{"eicar.txt": "payload"})

	scanner := newStubScanner(map[string]string{"eicar.txt": "Eicar-Test-Signature"})
	result, err := Run(context.Background(), []string{inputDir},
		WithOutputDir(filepath.Join(tempDir, "out")),
		WithScanner(scanner),
	)
	require.NoError(t, err)

	require.Len(t, result.OutputDirs, 1)
	assert.Empty(t, result.ExtractionErrors)

	// One extracted file plus the two files of the original tree.
	assert.Equal(t, 3, result.Aggregate.Total)
	assert.Equal(t, 1, result.Aggregate.Infected)
	assert.Equal(t, 0, result.Aggregate.Errored)
}

func TestRun_NestedArchiveInput(t *testing.T) {
	tempDir := t.TempDir()
	innerPath := filepath.Join(tempDir, "inner.tar")
	writeTestTar(t, innerPath, map[string][]byte{"payload.txt": []byte("deep")})
	innerData, err := os.ReadFile(innerPath)
	require.NoError(t, err)

	outerPath := filepath.Join(tempDir, "outer.tar")
	writeTestTar(t, outerPath, map[string][]byte{"inner.tar": innerData})
	require.NoError(t, os.Remove(innerPath))

	result, err := Run(context.Background(), []string{outerPath},
		WithOutputDir(filepath.Join(tempDir, "out")),
		WithScanner(newStubScanner(nil)),
	)
	require.NoError(t, err)

	require.Len(t, result.OutputDirs, 2)
	assert.Equal(t, "extracted_outer_0", filepath.Base(result.OutputDirs[0]))
	assert.Equal(t, "extracted_inner_1", filepath.Base(result.OutputDirs[1]))

	// inner.tar inside the outer dir plus payload.txt inside the inner dir.
	assert.Equal(t, 2, result.Aggregate.Total)
	assert.Equal(t, 0, result.Aggregate.Infected)
}

func TestRun_OutputRootInsideInput(t *testing.T) {
	tempDir := t.TempDir()
	inputDir := filepath.Join(tempDir, "input")
	require.NoError(t, os.MkdirAll(inputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "clean.txt"), []byte("ok"), 0o644))
	writeTestZip(t, filepath.Join(inputDir, "data.zip"), map[string]string{"member.txt": "m"})

	// Extraction output lands inside the scanned tree; it must not be
	// rescanned as part of the original tree.
	result, err := Run(context.Background(), []string{inputDir},
		WithOutputDir(filepath.Join(inputDir, "out")),
		WithScanner(newStubScanner(nil)),
	)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Aggregate.Total)
	seen := map[string]int{}
	for _, o := range result.Aggregate.Outcomes {
		seen[filepath.Base(o.File)]++
	}
	assert.Equal(t, map[string]int{"member.txt": 1, "clean.txt": 1, "data.zip": 1}, seen)
}

func TestRun_RarDisabled(t *testing.T) {
	tempDir := t.TempDir()
	rarPath := filepath.Join(tempDir, "sample.rar")
	require.NoError(t, os.WriteFile(rarPath, []byte("fake"), 0o644))

	result, err := Run(context.Background(), []string{rarPath},
		WithOutputDir(filepath.Join(tempDir, "out")),
		WithScanner(newStubScanner(nil)),
		WithRar(false),
	)
	require.NoError(t, err)

	assert.Empty(t, result.OutputDirs)
	assert.Len(t, result.ExtractionErrors, 1)
	assert.Equal(t, 0, result.Aggregate.Total)
}

func TestRun_SingleFileInput(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "eicar.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("payload"), 0o644))

	scanner := newStubScanner(map[string]string{"eicar.txt": "Eicar-Test-Signature"})
	result, err := Run(context.Background(), []string{filePath},
		WithOutputDir(filepath.Join(tempDir, "out")),
		WithScanner(scanner),
	)
	require.NoError(t, err)

	require.Equal(t, 1, result.Aggregate.Total)
	assert.Equal(t, 1, result.Aggregate.Infected)
	assert.Equal(t, "Eicar-Test-Signature FOUND", result.Aggregate.Outcomes[0].Signature)
}

func TestRun_MissingInputSkipped(t *testing.T) {
	tempDir := t.TempDir()

	result, err := Run(context.Background(), []string{filepath.Join(tempDir, "absent")},
		WithOutputDir(filepath.Join(tempDir, "out")),
		WithScanner(newStubScanner(nil)),
	)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Aggregate.Total)
	assert.Empty(t, result.OutputDirs)
}

func TestRun_MultipleInputs(t *testing.T) {
	tempDir := t.TempDir()
	dirA := filepath.Join(tempDir, "a")
	dirB := filepath.Join(tempDir, "b")
	require.NoError(t, os.MkdirAll(dirA, 0o755))
	require.NoError(t, os.MkdirAll(dirB, 0o755))
	writeTestZip(t, filepath.Join(dirA, "data.zip"), map[string]string{"a.txt": "a"})
	writeTestZip(t, filepath.Join(dirB, "data.zip"), map[string]string{"b.txt": "b"})

	result, err := Run(context.Background(), []string{dirA, dirB},
		WithOutputDir(filepath.Join(tempDir, "out")),
		WithScanner(newStubScanner(nil)),
	)
	require.NoError(t, err)

	// Identical stems across inputs still yield distinct output dirs, and
	// no file is counted twice.
	require.Len(t, result.OutputDirs, 2)
	assert.NotEqual(t, result.OutputDirs[0], result.OutputDirs[1])
	assert.Equal(t, 4, result.Aggregate.Total)
}

func TestRun_CanceledContext(t *testing.T) {
	tempDir := t.TempDir()
	inputDir := filepath.Join(tempDir, "input")
	require.NoError(t, os.MkdirAll(inputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "a.txt"), []byte("a"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, []string{inputDir},
		WithOutputDir(filepath.Join(tempDir, "out")),
		WithScanner(newStubScanner(nil)),
	)
	assert.ErrorIs(t, err, context.Canceled)
}
