package clamsweep

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clamsweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
clamscan_path: /opt/clamav/bin/clamscan
output_dir: /tmp/extract
scan_timeout: 2m
enable_rar: false
json_report: report.json
text_report: report.txt
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/clamav/bin/clamscan", cfg.ClamscanPath)
	assert.Equal(t, "/tmp/extract", cfg.OutputDir)
	assert.Equal(t, 2*time.Minute, cfg.Timeout())
	assert.False(t, cfg.RarEnabled())
	assert.Equal(t, "report.json", cfg.JSONReport)
	assert.Equal(t, "report.txt", cfg.TextReport)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "clamscan_path: clamscan\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Zero(t, cfg.Timeout())
	assert.True(t, cfg.RarEnabled())
}

func TestLoadConfig_InvalidTimeout(t *testing.T) {
	path := writeConfig(t, "scan_timeout: soon\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "clamscan_path: [unclosed\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
