package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the portfolio assistant backend
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Listen         string        `mapstructure:"listen"`
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

// ProvidersConfig contains external model provider settings
type ProvidersConfig struct {
	OpenAI OpenAIConfig `mapstructure:"openai"`
}

// OpenAIConfig contains the completion/embedding client settings
type OpenAIConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	CompletionModel string        `mapstructure:"completion_model"`
	EmbeddingModel  string        `mapstructure:"embedding_model"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

func (o OpenAIConfig) Validate() error {
	if strings.TrimSpace(o.APIKey) == "" {
		return fmt.Errorf("providers.openai.api_key required")
	}
	return nil
}

// StorageConfig contains the key-value store settings
type StorageConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("storage.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

// RetrievalConfig contains semantic search settings
type RetrievalConfig struct {
	Qdrant QdrantConfig `mapstructure:"qdrant"`
	TopK   int          `mapstructure:"top_k"`
}

// QdrantConfig contains the vector store connection settings
type QdrantConfig struct {
	URL        string `mapstructure:"url"`
	APIKey     string `mapstructure:"api_key"`
	Collection string `mapstructure:"collection"`
}

// Normalize applies defaults for unset retrieval values.
func (r RetrievalConfig) Normalize() RetrievalConfig {
	if r.TopK <= 0 {
		r.TopK = 5
	}
	if strings.TrimSpace(r.Qdrant.Collection) == "" {
		r.Qdrant.Collection = "portfolio-knowledge"
	}
	return r
}

// ChatConfig contains the conversation pipeline policy knobs
type ChatConfig struct {
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
	MaxMessages       int           `mapstructure:"max_messages"`
	ContextMessages   int           `mapstructure:"context_messages"`
	ResponseCacheTTL  time.Duration `mapstructure:"response_cache_ttl"`
	FreshnessWindow   time.Duration `mapstructure:"freshness_window"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
}

// Normalize applies the documented defaults for unset chat policy values.
func (c ChatConfig) Normalize() ChatConfig {
	if c.SessionTTL <= 0 {
		c.SessionTTL = 2 * time.Hour
	}
	if c.MaxMessages <= 0 {
		c.MaxMessages = 20
	}
	if c.ContextMessages <= 0 {
		c.ContextMessages = 6
	}
	if c.ResponseCacheTTL <= 0 {
		c.ResponseCacheTTL = 30 * time.Minute
	}
	if c.FreshnessWindow <= 0 {
		c.FreshnessWindow = 30 * time.Minute
	}
	if c.RateLimitRequests <= 0 {
		c.RateLimitRequests = 60
	}
	if c.RateLimitWindow <= 0 {
		c.RateLimitWindow = time.Hour
	}
	return c
}

func (c ChatConfig) Validate() error {
	if c.MaxMessages%2 != 0 {
		return fmt.Errorf("chat.max_messages must be even (turns are appended in pairs)")
	}
	if c.ContextMessages > c.MaxMessages {
		return fmt.Errorf("chat.context_messages cannot exceed chat.max_messages")
	}
	return nil
}

// TelemetryConfig contains monitoring settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig loads config from file, with PORTFOLIO_* env overrides
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.SetDefault("general.listen", ":8000")
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.default_timeout", 30*time.Second)
	viper.SetDefault("providers.openai.completion_model", "gpt-4o")
	viper.SetDefault("providers.openai.embedding_model", "text-embedding-3-large")
	viper.SetDefault("providers.openai.temperature", 0.7)
	viper.SetDefault("providers.openai.max_tokens", 300)
	viper.SetDefault("providers.openai.timeout", 30*time.Second)
	viper.SetDefault("telemetry.enabled", true)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("PORTFOLIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Env-only deployments ship no config file; anything else is fatal
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	config.Chat = config.Chat.Normalize()
	config.Retrieval = config.Retrieval.Normalize()

	if err := config.Providers.OpenAI.Validate(); err != nil {
		panic(err)
	}
	if err := config.Storage.Redis.Validate(); err != nil {
		panic(err)
	}
	if err := config.Chat.Validate(); err != nil {
		panic(err)
	}
	return &config
}
