package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for compass-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// MigrationsPath is the directory holding SQL migration files.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// Backup configuration
	Backup BackupConfig `yaml:"backup"`

	// AI provider configuration for advice/evidence generation
	AI AIConfig `yaml:"ai"`

	// Auth configuration
	Auth AuthConfig `yaml:"auth"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"compass"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"compass_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`

	// Pool tuning. Long-lived connections are recycled after the
	// lifetime; idle ones are released sooner.
	ConnLifetimeMinutes int `yaml:"conn_lifetime_minutes" env:"PGCONN_LIFETIME_MINUTES" env-default:"60"`
	ConnIdleMinutes     int `yaml:"conn_idle_minutes" env:"PGCONN_IDLE_MINUTES" env-default:"30"`
	ConnectTimeoutSecs  int `yaml:"connect_timeout_secs" env:"PGCONNECT_TIMEOUT_SECS" env-default:"10"`
}

// BackupConfig holds backup file storage settings.
type BackupConfig struct {
	// Directory is where JSON snapshot files are written.
	Directory string `yaml:"directory" env:"BACKUP_DIRECTORY" env-default:"backups"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	// TokenSigningKey signs HS256 session tokens. Secret - env only.
	TokenSigningKey string `yaml:"-" env:"AUTH_TOKEN_SIGNING_KEY"`
	// TokenTTLHours is how long issued session tokens stay valid.
	TokenTTLHours int `yaml:"token_ttl_hours" env:"AUTH_TOKEN_TTL_HOURS" env-default:"24"`
}

// AIConfig holds provider settings for the generation layer.
type AIConfig struct {
	// Provider selects the default backend: openai, anthropic, gemini, bedrock.
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`

	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Bedrock   BedrockConfig   `yaml:"bedrock"`
}

// OpenAIConfig holds OpenAI endpoint settings.
type OpenAIConfig struct {
	APIKey  string `yaml:"-" env:"OPENAI_API_KEY"` // Secret - not in YAML
	Model   string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
}

// AnthropicConfig holds Anthropic endpoint settings.
type AnthropicConfig struct {
	APIKey string `yaml:"-" env:"ANTHROPIC_API_KEY"` // Secret - not in YAML
	Model  string `yaml:"model" env:"ANTHROPIC_MODEL" env-default:"claude-3-5-sonnet-latest"`
}

// GeminiConfig holds Gemini settings. Requests go through Google's
// OpenAI-compatible endpoint.
type GeminiConfig struct {
	APIKey  string `yaml:"-" env:"GEMINI_API_KEY"` // Secret - not in YAML
	Model   string `yaml:"model" env:"GEMINI_MODEL" env-default:"gemini-2.0-flash"`
	BaseURL string `yaml:"base_url" env:"GEMINI_BASE_URL" env-default:"https://generativelanguage.googleapis.com/v1beta/openai"`
}

// BedrockConfig holds AWS Bedrock settings. Credentials come from the
// standard AWS credential chain.
type BedrockConfig struct {
	Region  string `yaml:"region" env:"BEDROCK_REGION" env-default:"us-east-1"`
	ModelID string `yaml:"model_id" env:"BEDROCK_MODEL_ID" env-default:"anthropic.claude-3-5-sonnet-20241022-v2:0"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. If config.yaml does not exist, environment variables alone are
// used. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.TokenSigningKey == "" {
		return fmt.Errorf("AUTH_TOKEN_SIGNING_KEY must be set")
	}
	if c.Auth.TokenTTLHours <= 0 {
		return fmt.Errorf("auth token TTL must be positive")
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
