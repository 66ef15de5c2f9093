package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DirName is the per-project state directory.
const DirName = ".doctrans"

// Config holds all configuration for the docstring tool.
type Config struct {
	Parse   ParseConfig   `yaml:"parse"`
	Scan    ScanConfig    `yaml:"scan"`
	Cache   CacheConfig   `yaml:"cache"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ParseConfig holds docstring parsing configuration.
type ParseConfig struct {
	EmitDefaultDoc bool   `yaml:"emit_default_doc"`
	Style          string `yaml:"style" validate:"omitempty,oneof=auto none rest rst google numpydoc numpy"` // empty or "auto" sniffs
}

// ScanConfig holds source scanning configuration.
type ScanConfig struct {
	Includes []string `yaml:"includes" validate:"dive,required,glob"`
	Excludes []string `yaml:"excludes" validate:"dive,required,glob"`
	Workers  int      `yaml:"workers" validate:"min=1,max=256"`
}

// CacheConfig holds parse cache configuration.
type CacheConfig struct {
	Enabled       bool `yaml:"enabled"`
	MemoryEntries int  `yaml:"memory_entries" validate:"min=0"`
}

// OutputConfig holds CLI output configuration.
type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=json yaml table"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Parse: ParseConfig{
			EmitDefaultDoc: false,
			Style:          "auto",
		},
		Scan: ScanConfig{
			Includes: []string{"**/*.py"},
			Excludes: []string{"**/.git/**", "**/.venv/**", "**/venv/**", "**/__pycache__/**", "**/build/**", "**/dist/**", "**/.tox/**", "**/node_modules/**"},
			Workers:  8,
		},
		Cache: CacheConfig{
			Enabled:       true,
			MemoryEntries: 1024,
		},
		Output: OutputConfig{
			Format: "json",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
		return doublestar.ValidatePattern(fl.Field().String())
	})
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value: %v)", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for doctrans.yaml,
// then .doctrans/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "doctrans.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, DirName, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CacheDBPath returns the path to the parse cache database.
func CacheDBPath(dir string) string {
	return filepath.Join(dir, DirName, "cache.db")
}

// EnsureDir ensures the .doctrans directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, DirName), 0755)
}
