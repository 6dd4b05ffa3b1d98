// Package config handles configuration loading for askchat.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/diogo/askchat/internal/models"
)

// HomeEnvVar overrides the configuration directory
const HomeEnvVar = "ASKCHAT_HOME"

// DotEnvPath is the optional dotenv file loaded before environment overrides
var DotEnvPath = ".env"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Enabled          bool   `json:"enabled" env:"ASKCHAT_MARKDOWN"`
	Style            string `json:"style" env:"ASKCHAT_MARKDOWN_STYLE"` // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`
	PreserveNewLines bool   `json:"preserve_newlines"`
	TableWrap        bool   `json:"table_wrap"`
	InlineTableLinks bool   `json:"inline_table_links"`
}

// Config represents the user configuration
type Config struct {
	// ServerURL is the base URL of the question-answering backend.
	ServerURL string `json:"server_url" env:"ASKCHAT_SERVER_URL"`
	AskPath   string `json:"ask_path" env:"ASKCHAT_ASK_PATH"`
	// TimeoutSeconds bounds a single ask request. 0 waits indefinitely.
	TimeoutSeconds  int            `json:"timeout_seconds" env:"ASKCHAT_TIMEOUT_SECONDS"`
	Verbose         bool           `json:"verbose" env:"ASKCHAT_VERBOSE"`
	CopyToClipboard bool           `json:"copy_to_clipboard" env:"ASKCHAT_COPY_TO_CLIPBOARD"`
	ShowContext     bool           `json:"show_context" env:"ASKCHAT_SHOW_CONTEXT"`
	TUITheme        string         `json:"tui_theme,omitempty" env:"ASKCHAT_TUI_THEME"`
	LogFile         string         `json:"log_file,omitempty" env:"ASKCHAT_LOG_FILE"`
	Markdown        MarkdownConfig `json:"markdown"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Enabled:          false,
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		ServerURL:       models.DefaultServerURL,
		AskPath:         models.DefaultAskPath,
		TimeoutSeconds:  0,
		Verbose:         false,
		CopyToClipboard: false,
		ShowContext:     false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// AskURL joins the server URL and the ask path
func (c Config) AskURL() string {
	base := strings.TrimRight(c.ServerURL, "/")
	path := c.AskPath
	if path == "" {
		path = models.DefaultAskPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// Validate checks the fields that cannot be defaulted
func (c Config) Validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return fmt.Errorf("server_url cannot be empty")
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("server_url must start with http:// or https://, got %q", c.ServerURL)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds cannot be negative")
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnvVar); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".askchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file path from config, falling back to the config dir
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "askchat.log"), nil
}

// LoadConfig loads the configuration from disk, then applies .env and
// environment overrides
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// applyEnv loads the optional dotenv file and overlays ASKCHAT_* variables
func applyEnv(cfg *Config) error {
	if DotEnvPath != "" {
		if err := godotenv.Load(DotEnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", DotEnvPath, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
