package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ProcessDir string `toml:"process_dir"`
	LogDir     string `toml:"log_dir"`
}

// Paperless contains configuration for the Paperless document API.
type Paperless struct {
	URL            string `toml:"url"`
	APIPath        string `toml:"api_path"`
	APIToken       string `toml:"api_token"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Email contains SMTP delivery configuration.
type Email struct {
	SMTPHost       string   `toml:"smtp_host"`
	SMTPPort       int      `toml:"smtp_port"`
	SMTPUser       string   `toml:"smtp_user"`
	SMTPPassword   string   `toml:"smtp_password"`
	From           string   `toml:"from"`
	Recipients     []string `toml:"recipients"`
	RequestTimeout int      `toml:"request_timeout"`
}

// Notifications contains configuration for failure and pass notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	ErrorEmail     string `toml:"error_email"`
	RequestTimeout int    `toml:"request_timeout"`
	PassStarted    bool   `toml:"pass_started"`
	PassCompleted  bool   `toml:"pass_completed"`
	Errors         bool   `toml:"errors"`
}

// Ledger contains configuration for the delivery completion ledger.
type Ledger struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Workflow contains pass timing and concurrency settings.
type Workflow struct {
	MaxParallel     int `toml:"max_parallel"`
	DeliveryTimeout int `toml:"delivery_timeout"`
	PassInterval    int `toml:"pass_interval"`
	WatchDebounce   int `toml:"watch_debounce"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for paperflow.
//
// Configuration sections by subsystem:
//   - Paths: process folder root and log directory
//   - Paperless: document API endpoint and credentials
//   - Email: SMTP server, sender, and delivery recipients
//   - Notifications: ntfy topic and error-email settings
//   - Ledger: delivery completion ledger location
//   - Workflow: pass concurrency, per-delivery timeout, daemon intervals
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Paperless     Paperless     `toml:"paperless"`
	Email         Email         `toml:"email"`
	Notifications Notifications `toml:"notifications"`
	Ledger        Ledger        `toml:"ledger"`
	Workflow      Workflow      `toml:"workflow"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/paperflow/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized, and secret-bearing
// fields overlaid from the environment.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("paperflow.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// SourceFolders returns the monitored classification folder names under the
// process root, in scan order.
func SourceFolders() []string {
	return []string{"to_paperless", "to_bookkeeping", "to_both"}
}

// DoneDirName is the terminal relocation folder under the process root.
const DoneDirName = "done"

// ProcessSubdir returns the absolute path of a folder under the process root.
func (c *Config) ProcessSubdir(name string) string {
	return filepath.Join(c.Paths.ProcessDir, name)
}

// DoneDir returns the absolute path of the done folder.
func (c *Config) DoneDir() string {
	return c.ProcessSubdir(DoneDirName)
}

// LedgerPath returns the resolved ledger database path.
func (c *Config) LedgerPath() string {
	if strings.TrimSpace(c.Ledger.Path) != "" {
		return c.Ledger.Path
	}
	return filepath.Join(c.Paths.LogDir, "ledger.db")
}

// EnsureDirectories creates required directories for pipeline operation: the
// process root, every monitored source folder, the done folder, and the log
// directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.ProcessDir, c.Paths.LogDir, c.DoneDir()}
	for _, folder := range SourceFolders() {
		dirs = append(dirs, c.ProcessSubdir(folder))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
