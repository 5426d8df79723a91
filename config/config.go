// Package config loads crypter settings from YAML with CRYPTER_* environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/unkn0wn-root/crypter/cipher"
	"github.com/unkn0wn-root/crypter/history"
)

// Config is the root configuration.
type Config struct {
	// User is recorded as the history owner when a command names none.
	User string `mapstructure:"user"`

	Log     LogConfig     `mapstructure:"log"`
	History HistoryConfig `mapstructure:"history"`
	Cipher  CipherConfig  `mapstructure:"cipher"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Backend: zap, slog or logrus
	Backend string `mapstructure:"backend"`
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	Rotation    RotationConfig `mapstructure:"rotation"`
	Development bool           `mapstructure:"development"`
}

// RotationConfig controls rotation of file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// HistoryConfig selects where call history is kept.
type HistoryConfig struct {
	// Backend: memory, ristretto, bigcache, redis or none
	Backend       string        `mapstructure:"backend"`
	Codec         string        `mapstructure:"codec"`
	Namespace     string        `mapstructure:"namespace"`
	TTL           time.Duration `mapstructure:"ttl"`
	MaxEntryBytes int           `mapstructure:"max_entry_bytes"`
	MaxScan       int           `mapstructure:"max_scan"`
	// Strict surfaces history write failures as command errors.
	Strict bool `mapstructure:"strict"`

	Redis     RedisConfig     `mapstructure:"redis"`
	Ristretto RistrettoConfig `mapstructure:"ristretto"`
	BigCache  BigCacheConfig  `mapstructure:"bigcache"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
}

type RistrettoConfig struct {
	NumCounters int64 `mapstructure:"num_counters"`
	MaxCost     int64 `mapstructure:"max_cost"`
}

type BigCacheConfig struct {
	LifeWindow time.Duration `mapstructure:"life_window"`
	// MaxEntriesInWindow sizes the shards up front.
	MaxEntriesInWindow int `mapstructure:"max_entries_in_window"`
	HardMaxCacheSizeMB int `mapstructure:"hard_max_cache_size_mb"`
}

// CipherConfig holds defaults for requests that leave options unset.
type CipherConfig struct {
	Shift   int    `mapstructure:"shift"`
	Keyword string `mapstructure:"keyword"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Backend: "zap",
			Level:   "info",
			Format:  "console",
			Outputs: []string{"stderr"},
			Rotation: RotationConfig{
				Filename:   "logs/crypter.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
		History: HistoryConfig{
			Backend:       "memory",
			Codec:         "json",
			Namespace:     "crypter",
			MaxEntryBytes: 1 << 20,
			MaxScan:       1000,
			Redis:         RedisConfig{Addr: "localhost:6379"},
			Ristretto:     RistrettoConfig{NumCounters: 100_000, MaxCost: 64 << 20},
			BigCache:      BigCacheConfig{LifeWindow: 24 * time.Hour, MaxEntriesInWindow: 10_000, HardMaxCacheSizeMB: 256},
		},
		Cipher: CipherConfig{
			Shift:   cipher.DefaultShift,
			Keyword: cipher.DefaultKeyword,
		},
	}
}

// Load reads configuration from path when non-empty, otherwise from
// $CRYPTER_CONFIG or crypter.yaml in ., ./configs or ~/.crypter. A missing
// searched file is not an error. Environment variables use the prefix
// CRYPTER with "." and "-" replaced by "_", e.g. CRYPTER_HISTORY_BACKEND=redis.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CRYPTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	seedDefaults(v, cfg)

	if path == "" {
		path = os.Getenv("CRYPTER_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("crypter")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".crypter"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// seedDefaults registers every key so env-only configs work.
func seedDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("user", c.User)

	v.SetDefault("log.backend", c.Log.Backend)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
	v.SetDefault("log.outputs", c.Log.Outputs)
	v.SetDefault("log.development", c.Log.Development)
	v.SetDefault("log.rotation.enable", c.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", c.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", c.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", c.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", c.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", c.Log.Rotation.Compress)

	v.SetDefault("history.backend", c.History.Backend)
	v.SetDefault("history.codec", c.History.Codec)
	v.SetDefault("history.namespace", c.History.Namespace)
	v.SetDefault("history.ttl", c.History.TTL)
	v.SetDefault("history.max_entry_bytes", c.History.MaxEntryBytes)
	v.SetDefault("history.max_scan", c.History.MaxScan)
	v.SetDefault("history.strict", c.History.Strict)
	v.SetDefault("history.redis.addr", c.History.Redis.Addr)
	v.SetDefault("history.redis.db", c.History.Redis.DB)
	v.SetDefault("history.redis.password", c.History.Redis.Password)
	v.SetDefault("history.ristretto.num_counters", c.History.Ristretto.NumCounters)
	v.SetDefault("history.ristretto.max_cost", c.History.Ristretto.MaxCost)
	v.SetDefault("history.bigcache.life_window", c.History.BigCache.LifeWindow)
	v.SetDefault("history.bigcache.max_entries_in_window", c.History.BigCache.MaxEntriesInWindow)
	v.SetDefault("history.bigcache.hard_max_cache_size_mb", c.History.BigCache.HardMaxCacheSizeMB)

	v.SetDefault("cipher.shift", c.Cipher.Shift)
	v.SetDefault("cipher.keyword", c.Cipher.Keyword)
}

func (c *Config) validate() error {
	c.Log.Backend = strings.ToLower(strings.TrimSpace(c.Log.Backend))
	switch c.Log.Backend {
	case "zap", "slog", "logrus":
	default:
		return fmt.Errorf("invalid log.backend: %q", c.Log.Backend)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stderr"}
	}

	c.History.Backend = strings.ToLower(strings.TrimSpace(c.History.Backend))
	switch c.History.Backend {
	case "none":
	case "memory", "ristretto", "bigcache", "redis":
		if strings.TrimSpace(c.History.Namespace) == "" {
			return errors.New("history.namespace must not be empty")
		}
		if _, err := history.CodecByName(c.History.Codec); err != nil {
			return fmt.Errorf("invalid history.codec: %w", err)
		}
	default:
		return fmt.Errorf("invalid history.backend: %q", c.History.Backend)
	}
	if c.History.TTL < 0 || c.History.MaxEntryBytes < 0 || c.History.MaxScan < 0 {
		return errors.New("history limits must not be negative")
	}

	if c.Cipher.Keyword == "" {
		return fmt.Errorf("cipher.keyword: %w", cipher.ErrEmptyKeyword)
	}
	return nil
}
