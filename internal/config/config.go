package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds application configuration.
type Config struct {
	Env    string       `mapstructure:"env"`
	API    APIConfig    `mapstructure:"api"`
	Log    LogConfig    `mapstructure:"log"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Seed   SeedConfig   `mapstructure:"seed"`
	Server ServerConfig `mapstructure:"server"`
}

// APIConfig describes the remote backend the gateways talk to.
type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	LogRequests bool          `mapstructure:"log_requests"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CacheConfig selects the backing store for the persistent key-value cache.
type CacheConfig struct {
	Driver      string `mapstructure:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresURL string `mapstructure:"postgres_url"`
	RedisURL    string `mapstructure:"redis_url"`
}

type SeedConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// profile holds per-environment defaults.
type profile struct {
	baseURL     string
	timeout     time.Duration
	logLevel    string
	logRequests bool
}

var profiles = map[string]profile{
	EnvDevelopment: {
		baseURL:     "http://localhost:8080",
		timeout:     10 * time.Second,
		logLevel:    "debug",
		logRequests: true,
	},
	EnvProduction: {
		baseURL:     "https://api.fleetops.example.com",
		timeout:     30 * time.Second,
		logLevel:    "info",
		logRequests: false,
	},
}

// Load reads .env (if present) and the environment. Env var overrides use prefix FLEET_,
// e.g. FLEET_API_BASE_URL. The profile picked by FLEET_ENV supplies the defaults.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FLEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", EnvDevelopment)
	env := strings.ToLower(strings.TrimSpace(v.GetString("env")))
	p, ok := profiles[env]
	if !ok {
		return Config{}, fmt.Errorf("load config: unknown environment %q", env)
	}

	v.SetDefault("api.base_url", p.baseURL)
	v.SetDefault("api.timeout", p.timeout)
	v.SetDefault("api.log_requests", p.logRequests)
	v.SetDefault("log.level", p.logLevel)
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.sqlite_path", "data/fleet-cache.db")
	v.SetDefault("cache.postgres_url", "")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("seed.path", "data/seeds/mock.json")
	v.SetDefault("server.port", "8080")

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("load config: unmarshal: %w", err)
	}
	c.Env = env

	if err := c.validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}

	switch c.Cache.Driver {
	case "sqlite", "memory":
	case "postgres":
		if strings.TrimSpace(c.Cache.PostgresURL) == "" {
			return fmt.Errorf("cache.postgres_url is required for the postgres driver")
		}
	case "redis":
		if strings.TrimSpace(c.Cache.RedisURL) == "" {
			return fmt.Errorf("cache.redis_url is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown cache.driver %q", c.Cache.Driver)
	}
	return nil
}

// Get returns the environment variable key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
