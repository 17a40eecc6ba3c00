package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
input:
  path: /data/bioc
  extension: json,xml
  max_files: 100
extract:
  allow: [INTRO, RESULTS]
  sentences: true
worker:
  count: 16
output:
  mode: text
  prefix_section: true
store:
  enabled: true
  database: bioc
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "/data/bioc", cfg.Input.Path)
	assert.Equal(t, "json,xml", cfg.Input.Extension)
	assert.Equal(t, 100, cfg.Input.MaxFiles)
	assert.Equal(t, "auto", cfg.Input.Format)
	assert.Equal(t, []string{"INTRO", "RESULTS"}, cfg.Extract.Allow)
	assert.True(t, cfg.Extract.Sentences)
	assert.Equal(t, "en", cfg.Extract.Language)
	assert.Equal(t, 16, cfg.Worker.Count)
	assert.Equal(t, "text", cfg.Output.Mode)
	assert.True(t, cfg.Output.PrefixSection)
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("BIOEXTRACT_WORKERS", "2")
	t.Setenv("BIOEXTRACT_ALLOW", "abstract, concl")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("BIOEXTRACT_OUTPUT", "json")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Worker.Count)
	assert.Equal(t, []string{"abstract", "concl"}, cfg.Extract.Allow)
	assert.Equal(t, "db.internal", cfg.Store.Host)
	assert.Equal(t, "json", cfg.Output.Mode)
	assert.Equal(t, "user:pw@tcp(db.internal:3306)/bioc?charset=utf8mb4",
		StoreConfig{Username: "user", Password: "pw", Host: cfg.Store.Host, Port: cfg.Store.Port, Database: cfg.Store.Database}.DSN())
}

func TestEnvErrors(t *testing.T) {
	t.Setenv("BIOEXTRACT_WORKERS", "many")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BIOEXTRACT_WORKERS")
}

func TestLoadFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "worker: [not, a, map]"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		want   string
	}{
		{"no input", func(c *AppConfig) { c.Input.Path = "" }, "no input"},
		{"workers", func(c *AppConfig) { c.Worker.Count = 0 }, "worker count"},
		{"mode", func(c *AppConfig) { c.Output.Mode = "xml" }, "output mode"},
		{"format", func(c *AppConfig) { c.Input.Format = "pdf" }, "unknown input format"},
		{"log format", func(c *AppConfig) { c.Log.Format = "logfmt" }, "log format"},
		{"store", func(c *AppConfig) { c.Store.Enabled = true }, "database"},
		{"max files", func(c *AppConfig) { c.Input.MaxFiles = -1 }, "max files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Input.Path = "/data"
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	cfg := Default()
	cfg.Input.Path = "/data"
	assert.NoError(t, cfg.Validate())
}
