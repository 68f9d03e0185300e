package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/docindex/internal/errors"
)

// EnvConfigPath names an explicit configuration file.
const EnvConfigPath = "DOCINDEX_CONFIG"

// Config represents the complete docindex configuration.
type Config struct {
	Limits  LimitsConfig  `yaml:"limits" json:"limits"`
	Writer  WriterConfig  `yaml:"writer" json:"writer"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Cache   CacheConfig   `yaml:"cache" json:"cache"`
}

// LimitsConfig bounds the size of inputs accepted at the boundary.
type LimitsConfig struct {
	// MaxPathChars is the longest accepted index path, in characters.
	MaxPathChars int `yaml:"max_path_chars" json:"max_path_chars"`
	// MaxSchemaBytes caps the schema JSON passed to create.
	MaxSchemaBytes int `yaml:"max_schema_bytes" json:"max_schema_bytes"`
	// MaxDocumentBytes caps one document's JSON text.
	MaxDocumentBytes int `yaml:"max_document_bytes" json:"max_document_bytes"`
}

// WriterConfig configures writer sessions.
type WriterConfig struct {
	// MemoryBudget is the buffered payload size, in bytes, that forces a flush.
	MemoryBudget int64 `yaml:"memory_budget" json:"memory_budget"`
	// OpenTimeout bounds the wait for the engine lock, e.g. "5s".
	OpenTimeout string `yaml:"open_timeout" json:"open_timeout"`
}

// LoggingConfig configures the log sink.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	// File is the log file path. Empty logs to stderr only.
	File      string `yaml:"file" json:"file"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

// CacheConfig sizes in-process caches.
type CacheConfig struct {
	// SchemaEntries is the number of parsed schemas kept by content hash.
	SchemaEntries int `yaml:"schema_entries" json:"schema_entries"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxPathChars:     1024,
			MaxSchemaBytes:   1 << 20,
			MaxDocumentBytes: 10 << 20,
		},
		Writer: WriterConfig{
			MemoryBudget: 50_000_000,
			OpenTimeout:  "5s",
		},
		Logging: LoggingConfig{
			Level:     "warn",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
		Cache: CacheConfig{
			SchemaEntries: 64,
		},
	}
}

// OpenTimeoutDuration parses Writer.OpenTimeout. Invalid values fall back
// to the default; Validate reports them.
func (c *Config) OpenTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Writer.OpenTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// GetUserConfigPath returns the path to the user configuration file.
// It follows the XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/docindex/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/docindex/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "docindex", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "docindex", "config.yaml")
	}
	return filepath.Join(home, ".config", "docindex", "config.yaml")
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// Load builds the effective configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/docindex/config.yaml)
//  3. Explicit file: path if non-empty, else $DOCINDEX_CONFIG
//  4. Environment variables (DOCINDEX_*)
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if userPath := GetUserConfigPath(); fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, err
		}
	}

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if !fileExists(path) {
			return nil, errors.Newf(errors.ErrCodeConfigNotFound, "config file not found: %s", path).
				WithDetail("path", path)
		}
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %v", err), err)
	}
	return cfg, nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.IOError(fmt.Sprintf("failed to read config file %s: %v", path, err), err)
	}

	// Parse into a zero struct so only keys present in the file override.
	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("failed to parse config file %s: %v", path, err), err).
			WithDetail("path", path)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Limits.MaxPathChars != 0 {
		c.Limits.MaxPathChars = other.Limits.MaxPathChars
	}
	if other.Limits.MaxSchemaBytes != 0 {
		c.Limits.MaxSchemaBytes = other.Limits.MaxSchemaBytes
	}
	if other.Limits.MaxDocumentBytes != 0 {
		c.Limits.MaxDocumentBytes = other.Limits.MaxDocumentBytes
	}

	if other.Writer.MemoryBudget != 0 {
		c.Writer.MemoryBudget = other.Writer.MemoryBudget
	}
	if other.Writer.OpenTimeout != "" {
		c.Writer.OpenTimeout = other.Writer.OpenTimeout
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.File != "" {
		c.Logging.File = other.Logging.File
	}
	if other.Logging.MaxSizeMB != 0 {
		c.Logging.MaxSizeMB = other.Logging.MaxSizeMB
	}
	if other.Logging.MaxFiles != 0 {
		c.Logging.MaxFiles = other.Logging.MaxFiles
	}

	if other.Cache.SchemaEntries != 0 {
		c.Cache.SchemaEntries = other.Cache.SchemaEntries
	}
}

// applyEnvOverrides applies DOCINDEX_* environment variable overrides.
// Unlike file values, malformed numbers are reported rather than ignored.
func (c *Config) applyEnvOverrides() error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"DOCINDEX_MAX_PATH_CHARS", &c.Limits.MaxPathChars},
		{"DOCINDEX_MAX_SCHEMA_BYTES", &c.Limits.MaxSchemaBytes},
		{"DOCINDEX_MAX_DOCUMENT_BYTES", &c.Limits.MaxDocumentBytes},
	}
	for _, e := range ints {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return envErr(e.name, v, err)
		}
		*e.dst = n
	}

	if v := os.Getenv("DOCINDEX_MEMORY_BUDGET"); v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return envErr("DOCINDEX_MEMORY_BUDGET", v, err)
		}
		c.Writer.MemoryBudget = n
	}
	if v := os.Getenv("DOCINDEX_OPEN_TIMEOUT"); v != "" {
		c.Writer.OpenTimeout = v
	}
	if v := os.Getenv("DOCINDEX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DOCINDEX_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	return nil
}

func envErr(name, value string, err error) error {
	return errors.New(errors.ErrCodeConfigInvalid,
		fmt.Sprintf("%s must be an integer, got %q", name, value), err).
		WithDetail("env", name)
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Limits.MaxPathChars <= 0 {
		return fmt.Errorf("limits.max_path_chars must be positive, got %d", c.Limits.MaxPathChars)
	}
	if c.Limits.MaxSchemaBytes <= 0 {
		return fmt.Errorf("limits.max_schema_bytes must be positive, got %d", c.Limits.MaxSchemaBytes)
	}
	if c.Limits.MaxDocumentBytes <= 0 {
		return fmt.Errorf("limits.max_document_bytes must be positive, got %d", c.Limits.MaxDocumentBytes)
	}
	if c.Writer.MemoryBudget <= 0 {
		return fmt.Errorf("writer.memory_budget must be positive, got %d", c.Writer.MemoryBudget)
	}
	if d, err := time.ParseDuration(c.Writer.OpenTimeout); err != nil || d <= 0 {
		return fmt.Errorf("writer.open_timeout must be a positive duration, got %q", c.Writer.OpenTimeout)
	}
	if c.Cache.SchemaEntries <= 0 {
		return fmt.Errorf("cache.schema_entries must be positive, got %d", c.Cache.SchemaEntries)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxFiles < 0 {
		return fmt.Errorf("logging.max_size_mb and logging.max_files must be non-negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
