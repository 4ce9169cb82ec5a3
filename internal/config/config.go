package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the TOML config file read from the chat-sweep home directory.
const FileName = "config.toml"

// Config is the user-facing configuration. Every field has a working
// default; the file is optional.
type Config struct {
	// ActiveWindowMinutes is how recently a conversation must have been
	// written to count as active (default: 5)
	ActiveWindowMinutes int `toml:"active_window_minutes"`

	// TitleWidth is the TITLE column width in the interactive list (default: 48)
	TitleWidth int `toml:"title_width"`

	// Claude defines where conversation logs are looked up
	Claude ClaudeSettings `toml:"claude"`

	// Logs defines debug logging settings
	Logs LogSettings `toml:"logs"`
}

// ClaudeSettings overrides Claude Code storage locations.
type ClaudeSettings struct {
	// ConfigDir overrides the Claude config directory (default ~/.claude).
	// The CLAUDE_CONFIG_DIR environment variable wins over this.
	ConfigDir string `toml:"config_dir"`
}

// LogSettings configures the rotating debug log.
type LogSettings struct {
	// Dir enables file logging when set
	Dir string `toml:"dir"`

	// Level is "debug", "info", "warn" or "error" (default: "info")
	Level string `toml:"level"`

	// MaxSizeMB is the max log size before rotation
	MaxSizeMB int `toml:"max_size_mb"`

	// MaxBackups is rotated files to keep
	MaxBackups int `toml:"max_backups"`
}

var defaultConfig = Config{
	ActiveWindowMinutes: 5,
	TitleWidth:          48,
}

var (
	cache   *Config
	cacheMu sync.RWMutex
)

// Path returns the config file location: $CHAT_SWEEP_CONFIG if set,
// otherwise ~/.chat-sweep/config.toml.
func Path() (string, error) {
	if env := os.Getenv("CHAT_SWEEP_CONFIG"); env != "" {
		return ExpandTilde(env), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".chat-sweep", FileName), nil
}

// Load reads the config once and caches it. A missing file yields defaults;
// a malformed file yields defaults plus the parse error so the caller can
// show it to the user.
func Load() (*Config, error) {
	cacheMu.RLock()
	if cache != nil {
		defer cacheMu.RUnlock()
		return cache, nil
	}
	cacheMu.RUnlock()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	// Double-check after acquiring the write lock.
	if cache != nil {
		return cache, nil
	}

	path, err := Path()
	if err != nil {
		c := defaultConfig
		cache = &c
		return cache, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		c := defaultConfig
		cache = &c
		return cache, nil
	}

	c := defaultConfig
	if _, err := toml.DecodeFile(path, &c); err != nil {
		// Still cache defaults to prevent repeated parse attempts.
		fallback := defaultConfig
		cache = &fallback
		return cache, fmt.Errorf("%s parse error: %w", FileName, err)
	}

	cache = &c
	return cache, nil
}

// Reload drops the cached config so the next Load reads fresh values.
func Reload() {
	cacheMu.Lock()
	cache = nil
	cacheMu.Unlock()
}

// ActiveWindow returns the recency window inside which a conversation is
// treated as still in use.
func (c *Config) ActiveWindow() time.Duration {
	m := c.ActiveWindowMinutes
	if m <= 0 {
		m = defaultConfig.ActiveWindowMinutes
	}
	return time.Duration(m) * time.Minute
}

// ListTitleWidth returns the TITLE column width for the interactive list.
func (c *Config) ListTitleWidth() int {
	if c.TitleWidth <= 0 {
		return defaultConfig.TitleWidth
	}
	return c.TitleWidth
}

// ProjectsRoot resolves the directory holding per-workspace conversation
// folders. Priority:
// 1. CLAUDE_CONFIG_DIR env var
// 2. [claude].config_dir from config.toml
// 3. default: ~/.claude
func (c *Config) ProjectsRoot() (string, error) {
	if env := os.Getenv("CLAUDE_CONFIG_DIR"); env != "" {
		return filepath.Join(ExpandTilde(env), "projects"), nil
	}
	if c.Claude.ConfigDir != "" {
		return filepath.Join(ExpandTilde(c.Claude.ConfigDir), "projects"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "projects"), nil
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
