package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Storage backends accepted by [StorageConfig.Backend].
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendFile     = "file"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Bot         BotConfig         `toml:"bot"`
	Letterboxd  LetterboxdConfig  `toml:"letterboxd"`
	Storage     StorageConfig     `toml:"storage"`
	Database    DatabaseConfig    `toml:"database"`
	Redis       RedisConfig       `toml:"redis"`
	File        FileConfig        `toml:"file"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Discord DiscordConfig `toml:"discord"`
	TMDB    TMDBConfig    `toml:"tmdb"`
	OpenAI  OpenAIConfig  `toml:"openai"`
}

// DiscordConfig contains the bot token for the chat gateway.
type DiscordConfig struct {
	Token string `toml:"token"`
}

// TMDBConfig contains metadata search API settings.
type TMDBConfig struct {
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	ImageBaseURL      string  `toml:"image_base_url"`
	Language          string  `toml:"language"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// OpenAIConfig contains AI completion settings.
type OpenAIConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// BotConfig contains chat command settings.
type BotConfig struct {
	Prefix             string `toml:"prefix"`
	WaitTimeoutSeconds int    `toml:"wait_timeout_seconds"`
}

// LetterboxdConfig contains profile scraping settings.
type LetterboxdConfig struct {
	BaseURL           string  `toml:"base_url"`
	UserAgent         string  `toml:"user_agent"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// StorageConfig selects the watchlist backend.
type StorageConfig struct {
	Backend string `toml:"backend"`
}

// DatabaseConfig contains database connection settings.
//
// Path is the SQLite file and URL is the Postgres connection string.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	URL          string `toml:"url"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// RedisConfig contains key-value store settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// FileConfig contains settings for the JSON file store.
type FileConfig struct {
	Path string `toml:"path"`
}

// ServerConfig contains HTTP server settings. A zero port disables the status server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// WaitTimeout returns the per-wait window used by interactive flows.
func (b BotConfig) WaitTimeout() time.Duration {
	if b.WaitTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(b.WaitTimeoutSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
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
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads environment variables from the given .env files (".env" when none are given).
//
// Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides credentials and storage settings from environment variables.
//
// DATABASE_URL with a postgres scheme switches the backend to postgres; REDIS_URL switches it to redis.
// FLICKLOG_STORAGE, when set, always wins.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := getenv("DISCORD_TOKEN"); v != "" {
		c.Credentials.Discord.Token = v
	}
	if v := getenv("OPENAI_API_KEY"); v != "" {
		c.Credentials.OpenAI.APIKey = v
	}
	if v := getenv("TMDB_API_KEY"); v != "" {
		c.Credentials.TMDB.APIKey = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		if strings.HasPrefix(v, "postgres://") || strings.HasPrefix(v, "postgresql://") {
			c.Database.URL = v
			c.Storage.Backend = BackendPostgres
		} else {
			c.Database.Path = v
			c.Storage.Backend = BackendSQLite
		}
	}
	if v := getenv("REDIS_URL"); v != "" {
		c.Redis.Addr = v
		c.Storage.Backend = BackendRedis
	}
	if v := getenv("FLICKLOG_STORAGE"); v != "" {
		c.Storage.Backend = strings.ToLower(strings.TrimSpace(v))
	}
}

// Validate checks settings that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for sqlite storage", ErrInvalidConfig)
		}
	case BackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("%w: database.url is required for postgres storage", ErrInvalidConfig)
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required for redis storage", ErrInvalidConfig)
		}
	case BackendFile:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}

	if c.Bot.WaitTimeoutSeconds < 0 {
		return fmt.Errorf("%w: bot.wait_timeout_seconds must not be negative", ErrInvalidConfig)
	}
	if c.Bot.Prefix == "" {
		return fmt.Errorf("%w: bot.prefix must not be empty", ErrInvalidConfig)
	}
	return nil
}
