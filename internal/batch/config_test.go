package batch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedjson.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
type: allergy
in_dir: /data/in
out_dir: /data/out
combine: true
debounce: 250ms
log:
  format: json
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "allergy", cfg.Type)
	assert.Equal(t, "/data/in", cfg.InDir)
	assert.Equal(t, "/data/out", cfg.OutDir)
	assert.True(t, cfg.Combine)
	assert.False(t, cfg.KeepInput)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("FEEDJSON_TYPE", "PROBLEM")
	t.Setenv("FEEDJSON_IN_DIR", "in")
	t.Setenv("FEEDJSON_OUT_DIR", "out")
	t.Setenv("FEEDJSON_KEEP_INPUT", "true")
	t.Setenv("FEEDJSON_SCHEDULE", "@hourly")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "PROBLEM", cfg.Type)
	assert.Equal(t, "in", cfg.InDir)
	assert.Equal(t, "out", cfg.OutDir)
	assert.True(t, cfg.KeepInput)
	assert.Equal(t, "@hourly", cfg.Schedule)
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Type: "ALLERGY", InDir: "in", OutDir: "out", Log: LogConfig{Format: "text"}}
	}
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing type", func(c *Config) { c.Type = "" }, "type is required"},
		{"missing in_dir", func(c *Config) { c.InDir = "" }, "in_dir is required"},
		{"missing out_dir", func(c *Config) { c.OutDir = "" }, "out_dir is required"},
		{"watch and schedule", func(c *Config) { c.Watch = true; c.Schedule = "@daily" }, "cannot be used together"},
		{"negative debounce", func(c *Config) { c.Debounce = -time.Second }, "debounce"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
