package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Cors      CorsConfig      `yaml:"cors"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	JWT       JWTConfig       `yaml:"jwt"`
	Listening ListeningConfig `yaml:"listening"`
	Exercises ExercisesConfig `yaml:"exercises"`
	LogLevel  string          `yaml:"logLevel"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type CorsConfig struct {
	AllowOrigins []string `yaml:"allowOrigins"`
}

type DatabaseConfig struct {
	URI string `yaml:"uri"`
}

// RedisConfig is optional; an empty Addr keeps the duplicate cache in memory.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type GeminiConfig struct {
	ApiKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Expiry int    `yaml:"expiry"` // Token expiry in minutes
}

type ListeningConfig struct {
	MaxTokens int `yaml:"maxTokens"` // per text, checked before scoring
}

type ExercisesConfig struct {
	BatchSize   int           `yaml:"batchSize"`
	MaxAttempts int           `yaml:"maxAttempts"`
	Backoff     time.Duration `yaml:"backoff"`
	DedupTTL    time.Duration `yaml:"dedupTTL"`
	MaxCount    int           `yaml:"maxCount"`
	RateLimit   int           `yaml:"rateLimit"` // generate calls per user and window, needs Redis
	RateWindow  time.Duration `yaml:"rateWindow"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 1313},
		Cors: CorsConfig{
			AllowOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{URI: "mongodb://localhost:27017/lernquest"},
		Gemini:   GeminiConfig{Model: "gemini-2.5-flash"},
		JWT:      JWTConfig{Expiry: 24 * 60},
		Listening: ListeningConfig{
			MaxTokens: 300,
		},
		Exercises: ExercisesConfig{
			BatchSize:   5,
			MaxAttempts: 4,
			Backoff:     500 * time.Millisecond,
			DedupTTL:    24 * time.Hour,
			MaxCount:    20,
			RateLimit:   10,
			RateWindow:  time.Minute,
		},
		LogLevel: "info",
	}
}

// LoadConfig reads the configuration file. Missing fields keep their
// defaults and secrets may be overridden from the environment.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.Database.URI = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.ApiKey = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.URI == "" {
		return fmt.Errorf("database.uri must not be empty")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret must not be empty")
	}
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("jwt.expiry must be > 0")
	}
	if c.Listening.MaxTokens <= 0 {
		return fmt.Errorf("listening.maxTokens must be > 0")
	}
	if c.Exercises.BatchSize <= 0 {
		return fmt.Errorf("exercises.batchSize must be > 0")
	}
	if c.Exercises.MaxAttempts <= 0 {
		return fmt.Errorf("exercises.maxAttempts must be > 0")
	}
	if c.Exercises.MaxCount <= 0 {
		return fmt.Errorf("exercises.maxCount must be > 0")
	}
	if c.Exercises.RateLimit > 0 && c.Exercises.RateWindow <= 0 {
		return fmt.Errorf("exercises.rateWindow must be > 0 when rateLimit is set")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logLevel must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}
