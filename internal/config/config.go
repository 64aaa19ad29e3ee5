package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Generative backends understood by the worker.
const (
	BackendAgent = "agent"
	BackendGenAI = "genai"
)

type Config struct {
	DBURL       string
	RabbitMQURL string
	Workers     int

	R2         R2Config
	Generative GenerativeConfig
	Log        LogConfig
}

// R2Config is optional; when empty the worker only reads file bytes stored in the database.
type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

func (r R2Config) Enabled() bool {
	return r.AccountID != "" || r.Bucket != "" || r.AccessKey != "" || r.SecretKey != ""
}

type GenerativeConfig struct {
	APIKey       string
	Backend      string
	Model        string
	Timeout      time.Duration
	MaxTextChars int
}

// Enabled reports whether a generative service can be reached at all.
func (g GenerativeConfig) Enabled() bool {
	return g.APIKey != ""
}

type LogConfig struct {
	Level       string
	Development bool
}

// Load reads configuration from the environment, after loading a .env file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		DBURL:       v.GetString("DB_URL"),
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		Workers:     v.GetInt("WORKERS"),
		R2: R2Config{
			// the misspelt key is what the upload service already exports
			AccountID: v.GetString("R2_ACCCOUNT_ID"),
			Bucket:    v.GetString("R2_BUCKET"),
			AccessKey: v.GetString("R2_ACCESS_KEY"),
			SecretKey: v.GetString("R2_SECRET_KEY"),
		},
		Generative: GenerativeConfig{
			APIKey:       v.GetString("GOOGLE_API_KEY"),
			Backend:      v.GetString("GENERATIVE_BACKEND"),
			Model:        v.GetString("GENERATIVE_MODEL"),
			Timeout:      v.GetDuration("GENERATIVE_TIMEOUT"),
			MaxTextChars: v.GetInt("GENERATIVE_MAX_TEXT_CHARS"),
		},
		Log: LogConfig{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("WORKERS", 3)
	v.SetDefault("GENERATIVE_BACKEND", BackendAgent)
	v.SetDefault("GENERATIVE_MODEL", "gemini-2.5-pro")
	v.SetDefault("GENERATIVE_TIMEOUT", 45*time.Second)
	v.SetDefault("GENERATIVE_MAX_TEXT_CHARS", 12000)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DEVELOPMENT", false)
}

func (c *Config) Validate() error {
	if c.DBURL == "" {
		return errors.New("empty DB_URL in environment")
	}
	if c.RabbitMQURL == "" {
		return errors.New("empty RABBITMQ_URL in environment")
	}
	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be at least 1, got %d", c.Workers)
	}
	if c.R2.Enabled() {
		if c.R2.AccountID == "" || c.R2.Bucket == "" || c.R2.AccessKey == "" || c.R2.SecretKey == "" {
			return errors.New("R2 config is partial: R2_ACCCOUNT_ID, R2_BUCKET, R2_ACCESS_KEY and R2_SECRET_KEY must all be set")
		}
	}
	switch c.Generative.Backend {
	case BackendAgent, BackendGenAI:
	default:
		return fmt.Errorf("unknown GENERATIVE_BACKEND %q", c.Generative.Backend)
	}
	if c.Generative.Timeout <= 0 {
		return errors.New("GENERATIVE_TIMEOUT must be positive")
	}
	return nil
}
