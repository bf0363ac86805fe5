package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/axe"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cwd := t.TempDir()

	cfg := Load(dir, cwd)
	assert.Equal(t, cwd, cfg.Input)
	assert.Equal(t, filepath.Join(cwd, "axe_output"), cfg.Output)
	assert.Equal(t, axe.FormatMarkdown, cfg.DefaultFormat)
	assert.Equal(t, 100*time.Millisecond, cfg.Delay)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, "pdftotext", cfg.PDFToText)
	assert.Equal(t, filepath.Join(dir, "stats.json"), cfg.StatsFile)
	assert.Equal(t, filepath.Join(dir, "ledger.db"), cfg.LedgerFile)
	assert.Equal(t, filepath.Join(dir, "config.json"), cfg.Path())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{
  "input_path": "/papers",
  "output_path": "/notes",
  "default_format": "Both",
  "delay": "1s"
}`), 0644))
	t.Setenv("AXE_OUTPUT_PATH", "/from-env")
	t.Setenv("AXE_PDFTOTEXT", "/opt/poppler/bin/pdftotext")

	cfg := Load(dir, t.TempDir())
	assert.Equal(t, "/papers", cfg.Input)
	assert.Equal(t, "/from-env", cfg.Output)
	assert.Equal(t, axe.FormatBoth, cfg.DefaultFormat)
	assert.Equal(t, time.Second, cfg.Delay)
	assert.Equal(t, "/opt/poppler/bin/pdftotext", cfg.PDFToText)
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	cwd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"input_path": `), 0644))

	cfg := Load(dir, cwd)
	assert.Equal(t, cwd, cfg.Input)
	assert.Equal(t, axe.FormatMarkdown, cfg.DefaultFormat)
}

func TestLoadInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"default_format": "pdf"}`), 0644))

	cfg := Load(dir, t.TempDir())
	assert.Equal(t, axe.FormatMarkdown, cfg.DefaultFormat)
}

func TestSnapshotIsImmutable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "axe")
	cfg := Load(dir, t.TempDir())

	next := cfg.WithInputPath("/in").WithOutputPath("/out").WithDefaultFormat(axe.FormatText)
	assert.NotEqual(t, "/in", cfg.Input)
	assert.Equal(t, axe.FormatMarkdown, cfg.DefaultFormat)
	assert.Equal(t, "/in", next.Input)

	_, err := os.Stat(next.Path())
	assert.True(t, os.IsNotExist(err), "nothing is written before Save")

	require.NoError(t, Save(next))
	reloaded := Load(dir, t.TempDir())
	assert.Equal(t, "/in", reloaded.Input)
	assert.Equal(t, "/out", reloaded.Output)
	assert.Equal(t, axe.FormatText, reloaded.DefaultFormat)
	assert.Equal(t, cfg.Delay, reloaded.Delay)
}

func TestDir(t *testing.T) {
	t.Setenv(HomeEnv, "/custom/axe")
	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "/custom/axe", dir)
}
