package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 16, cfg.MaxFlatParams)
	assert.Equal(t, 1, cfg.MaxFlatResults)
	assert.False(t, cfg.StrictAssertions)
	assert.Equal(t, "text", cfg.OutputFormat)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "waccheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
targets:
  - a.yaml
  - b.yaml
max_flat_params: 8
output_format: json
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.Targets)
	assert.Equal(t, 8, cfg.MaxFlatParams)
	assert.Equal(t, 1, cfg.MaxFlatResults, "unset fields keep the Default() value")
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"no targets", func(c *Config) { c.Targets = nil }, true},
		{"max_flat_params too high", func(c *Config) { c.MaxFlatParams = 17 }, true},
		{"max_flat_params zero", func(c *Config) { c.MaxFlatParams = 0 }, true},
		{"max_flat_results too high", func(c *Config) { c.MaxFlatResults = 2 }, true},
		{"bad output format", func(c *Config) { c.OutputFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Targets = []string{"a.yaml"}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
