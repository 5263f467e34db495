package batch

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the batch driver settings.
// Priority: CLI flags > ENV > YAML > defaults (via env-default tags).
type Config struct {
	Type        string        `yaml:"type"         env:"FEEDJSON_TYPE"`
	InDir       string        `yaml:"in_dir"       env:"FEEDJSON_IN_DIR"`
	OutDir      string        `yaml:"out_dir"      env:"FEEDJSON_OUT_DIR"`
	Combine     bool          `yaml:"combine"      env:"FEEDJSON_COMBINE"`
	KeepInput   bool          `yaml:"keep_input"   env:"FEEDJSON_KEEP_INPUT"`
	Watch       bool          `yaml:"watch"        env:"FEEDJSON_WATCH"`
	Schedule    string        `yaml:"schedule"     env:"FEEDJSON_SCHEDULE"`
	Debounce    time.Duration `yaml:"debounce"     env:"FEEDJSON_DEBOUNCE"      env-default:"500ms"`
	MetricsAddr string        `yaml:"metrics_addr" env:"FEEDJSON_METRICS_ADDR"`
	Log         LogConfig     `yaml:"log"`
}

// LogConfig selects the slog handler used by the CLI.
type LogConfig struct {
	Level  string `yaml:"level"  env:"FEEDJSON_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"FEEDJSON_LOG_FORMAT" env-default:"text"`
}

// LoadConfig reads configuration from a YAML file, if path is not empty,
// and from environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the settings needed for a sweep are present and
// consistent.
func (c *Config) Validate() error {
	var errs []error
	if c.Type == "" {
		errs = append(errs, errors.New("type is required"))
	}
	if c.InDir == "" {
		errs = append(errs, errors.New("in_dir is required"))
	}
	if c.OutDir == "" {
		errs = append(errs, errors.New("out_dir is required"))
	}
	if c.Watch && c.Schedule != "" {
		errs = append(errs, errors.New("watch and schedule cannot be used together"))
	}
	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("debounce must not be negative, got %s", c.Debounce))
	}
	switch c.Log.Format {
	case "text", "json", "":
	default:
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
