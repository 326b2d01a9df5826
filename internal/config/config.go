// ABOUTME: Application configuration loaded with viper from YAML and env.
// ABOUTME: Covers data directory, remote backend credentials, and mirror tuning.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/harperreed/maestro/internal/storage"
)

// Remote holds the SurrealDB connection settings. An empty URL means
// no remote is configured and the app runs local-only.
type Remote struct {
	URL       string `mapstructure:"url"`
	Namespace string `mapstructure:"namespace"`
	Database  string `mapstructure:"database"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
}

// Configured reports whether a remote backend is set up.
func (r Remote) Configured() bool {
	return r.URL != ""
}

// MirrorSettings tunes the outbound replication queue.
type MirrorSettings struct {
	QueueSize   int           `mapstructure:"queue_size"`
	CallTimeout time.Duration `mapstructure:"call_timeout"`
}

// Config stores maestro configuration.
type Config struct {
	// DataDir is the root directory for on-device storage. Supports ~
	// expansion. Defaults to the standard XDG data directory.
	DataDir string `mapstructure:"data_dir"`

	// LogLevel is a zerolog level name: debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	Remote Remote         `mapstructure:"remote"`
	Mirror MirrorSettings `mapstructure:"mirror"`
}

// GetDataDir returns the configured data directory with ~ expanded.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "maestro")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.namespace", "maestro")
	v.SetDefault("remote.database", "maestro")
	v.SetDefault("mirror.queue_size", 256)
	v.SetDefault("mirror.call_timeout", 30*time.Second)
}

// Load reads config.yaml from the config directory, layered with
// MAESTRO_-prefixed environment variables. A missing file yields the
// defaults.
func Load() (*Config, error) {
	return LoadFrom(ConfigDir())
}

// LoadFrom reads configuration from a specific directory.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("MAESTRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes the current configuration as YAML.
func (c *Config) Save() error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	v := viper.New()
	v.Set("data_dir", c.DataDir)
	v.Set("log_level", c.LogLevel)
	v.Set("remote.url", c.Remote.URL)
	v.Set("remote.namespace", c.Remote.Namespace)
	v.Set("remote.database", c.Remote.Database)
	v.Set("remote.username", c.Remote.Username)
	v.Set("remote.password", c.Remote.Password)
	v.Set("mirror.queue_size", c.Mirror.QueueSize)
	v.Set("mirror.call_timeout", c.Mirror.CallTimeout)
	return v.WriteConfigAs(filepath.Join(dir, "config.yaml"))
}
