package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
//
// Every credential and path can also be supplied through a SCOREFINDER_*
// environment variable, which takes precedence over the file value.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Editor      EditorConfig      `toml:"editor"`
	Storage     StorageConfig     `toml:"storage"`
	Finder      FinderConfig      `toml:"finder"`
	LogLevel    string            `toml:"log_level"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Search SearchConfig `toml:"search"`
	Gemini GeminiConfig `toml:"gemini"`
}

// SearchConfig contains Google Custom Search API credentials.
type SearchConfig struct {
	APIKey   string `toml:"api_key"`
	EngineID string `toml:"engine_id"`
}

// GeminiConfig contains Gemini API credentials and model selection.
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// EditorConfig contains notation editor launch settings.
type EditorConfig struct {
	Path string `toml:"path"`
}

// StorageConfig contains filesystem locations used by the finder.
type StorageConfig struct {
	OutputDir    string `toml:"output_dir"`
	TempDir      string `toml:"temp_dir"`
	DatabasePath string `toml:"database_path"`
}

// FinderConfig contains pipeline policy knobs.
type FinderConfig struct {
	MaxAttempts     int `toml:"max_attempts"`
	MinimumMeasures int `toml:"minimum_measures"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays SCOREFINDER_* environment variables onto the config.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SCOREFINDER_SEARCH_API_KEY"); v != "" {
		c.Credentials.Search.APIKey = v
	}
	if v := os.Getenv("SCOREFINDER_SEARCH_ENGINE_ID"); v != "" {
		c.Credentials.Search.EngineID = v
	}
	if v := os.Getenv("SCOREFINDER_GEMINI_API_KEY"); v != "" {
		c.Credentials.Gemini.APIKey = v
	}
	if v := os.Getenv("SCOREFINDER_GEMINI_MODEL"); v != "" {
		c.Credentials.Gemini.Model = v
	}
	if v := os.Getenv("SCOREFINDER_EDITOR_PATH"); v != "" {
		c.Editor.Path = v
	}
	if v := os.Getenv("SCOREFINDER_OUTPUT_DIR"); v != "" {
		c.Storage.OutputDir = v
	}
	if v := os.Getenv("SCOREFINDER_TEMP_DIR"); v != "" {
		c.Storage.TempDir = v
	}
	if v := os.Getenv("SCOREFINDER_DATABASE_PATH"); v != "" {
		c.Storage.DatabasePath = v
	}
	if v := os.Getenv("SCOREFINDER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SCOREFINDER_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Finder.MaxAttempts = n
		}
	}
}

// Validate checks that required credentials are present.
//
// The editor path is intentionally not required; a missing editor only
// downgrades the final open step to a warning.
func (c *Config) Validate() error {
	if c.Credentials.Search.APIKey == "" {
		return fmt.Errorf("%w: search api_key", ErrMissingConfig)
	}
	if c.Credentials.Search.EngineID == "" {
		return fmt.Errorf("%w: search engine_id", ErrMissingConfig)
	}
	if c.Credentials.Gemini.APIKey == "" {
		return fmt.Errorf("%w: gemini api_key", ErrMissingConfig)
	}
	return nil
}

// EnsureDirs creates the output and temp directories if they do not exist.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.Storage.OutputDir, c.Storage.TempDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
