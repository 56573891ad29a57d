package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Session  SessionConfig
	Sync     SyncConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig selects and configures the backend.
type DatabaseConfig struct {
	Backend string // "sqlite" or "postgres"
	Path    string // sqlite file
	URL     string // postgres connection string
}

// SessionConfig holds session token settings.
type SessionConfig struct {
	Path   string
	Secret string
	TTL    time.Duration
}

// SyncConfig tunes the refresh behavior of the record cache.
type SyncConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	DedupWindow  time.Duration `mapstructure:"dedup_window"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Currency   string // ISO 4217, e.g. "PHP"
	Locale     string // BCP 47, e.g. "en-PH"
	DateFormat string `mapstructure:"date_format"`
}

// LogConfig points the file-backed logger somewhere.
type LogConfig struct {
	Path  string
	Level string
}

// Load reads configuration from file and env. Env var overrides use prefix
// TRIPAY_ (TRIPAY_DATABASE_URL, TRIPAY_SESSION_SECRET, ...).
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "tripay")

	v.SetDefault("database.backend", "sqlite")
	v.SetDefault("database.path", filepath.Join(dataDir, "tripay.db"))
	v.SetDefault("database.url", "")
	v.SetDefault("session.path", filepath.Join(dataDir, "session.json"))
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", "336h") // two weeks
	v.SetDefault("sync.poll_interval", "30s")
	v.SetDefault("sync.dedup_window", "5s")
	v.SetDefault("ui.currency", "PHP")
	v.SetDefault("ui.locale", "en-PH")
	v.SetDefault("ui.date_format", "Jan 2, 2006")
	v.SetDefault("log.path", filepath.Join(dataDir, "tripay.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TRIPAY_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "tripay"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TRIPAY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.Database.Backend {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite backend")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown database.backend %q", c.Database.Backend)
	}
	if c.Sync.PollInterval <= 0 || c.Sync.DedupWindow <= 0 {
		return fmt.Errorf("sync intervals must be positive")
	}
	return nil
}

// SessionSecret returns the configured secret or a stable dev fallback.
// Production deployments set TRIPAY_SESSION_SECRET.
func (c Config) SessionSecret() []byte {
	if c.Session.Secret != "" {
		return []byte(c.Session.Secret)
	}
	return []byte("tripay-dev-secret")
}
