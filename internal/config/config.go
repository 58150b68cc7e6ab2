package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store backends
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// LogConfig configures the application logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// StoreConfig selects and configures the entry store
type StoreConfig struct {
	Backend    string `yaml:"backend"`
	Path       string `yaml:"path"`        // file backend only
	StrictLoad bool   `yaml:"strict_load"` // fail startup on corrupt data instead of starting empty
}

// RedisConfig configures the redis entry backend
type RedisConfig struct {
	Addr string `yaml:"addr"`
	Key  string `yaml:"key"`
}

// MongoConfig configures the mongo entry backend
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// CORSConfig lists origins allowed to call the API from a browser
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// AuthConfig configures optional owner authentication
type AuthConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password" json:"-"`
	JWTSecret string `yaml:"jwt_secret" json:"-"`
}

// Config holds all service configuration
type Config struct {
	Port  string      `yaml:"port"`
	Log   LogConfig   `yaml:"log"`
	Store StoreConfig `yaml:"store"`
	Redis RedisConfig `yaml:"redis"`
	Mongo MongoConfig `yaml:"mongo"`
	CORS  CORSConfig  `yaml:"cors"`
	Auth  AuthConfig  `yaml:"auth"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Port: "8000",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    "emotions_log.json",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			Key:  "moodscale:entries",
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "moodscale",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://127.0.0.1:5173",
				"http://localhost:5173",
				"https://moodscale-front.vercel.app",
			},
		},
		Auth: AuthConfig{
			Username:  "admin",
			Password:  "password123",
			JWTSecret: "super-secret-key-change-in-production",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in that order of precedence (environment wins).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s backend", BackendFile)
		}
	case BackendRedis:
		if c.Redis.Addr == "" || c.Redis.Key == "" {
			return fmt.Errorf("redis.addr and redis.key are required for the %s backend", BackendRedis)
		}
	case BackendMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return fmt.Errorf("mongo.uri and mongo.database are required for the %s backend", BackendMongo)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required when auth is enabled")
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	c.Store.Backend = getEnv("STORE_BACKEND", c.Store.Backend)
	c.Store.Path = getEnv("DATA_FILE", c.Store.Path)
	c.Store.StrictLoad = getEnvBool("STRICT_LOAD", c.Store.StrictLoad)

	// Remove redis:// prefix if present
	c.Redis.Addr = strings.TrimPrefix(getEnv("REDIS_URI", c.Redis.Addr), "redis://")
	c.Redis.Key = getEnv("REDIS_KEY", c.Redis.Key)

	c.Mongo.URI = getEnv("MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = getEnv("MONGO_DATABASE", c.Mongo.Database)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORS.AllowedOrigins = splitList(origins)
	}

	c.Auth.Enabled = getEnvBool("AUTH_ENABLED", c.Auth.Enabled)
	c.Auth.Username = getEnv("HOST_USERNAME", c.Auth.Username)
	c.Auth.Password = getEnv("HOST_PASSWORD", c.Auth.Password)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
