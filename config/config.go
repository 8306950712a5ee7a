package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	SerpAPI   SerpAPIConfig
	OpenAI    OpenAIConfig
	Pipeline  PipelineConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SerpAPIConfig holds search backend configuration
type SerpAPIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// OpenAIConfig holds vision model configuration. An empty API key is
// allowed: the pipeline falls back to text matching without verification.
type OpenAIConfig struct {
	APIKey        string `mapstructure:"api_key"`
	DescribeModel string `mapstructure:"describe_model"`
	VerifyModel   string `mapstructure:"verify_model"`
}

// PipelineConfig holds resolution pipeline tuning knobs
type PipelineConfig struct {
	MaxQueryFanOut  int     `mapstructure:"max_query_fan_out"`
	MaxCandidates   int     `mapstructure:"max_candidates"`
	MaxVerified     int     `mapstructure:"max_verified"`
	MatchThreshold  float64 `mapstructure:"match_threshold"`
	SellerThreshold float64 `mapstructure:"seller_threshold"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP   int `mapstructure:"per_ip"`
	SerpAPI int `mapstructure:"serpapi"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/lookscan/")

	// Environment variable settings
	v.SetEnvPrefix("LOOKSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// SerpAPI defaults. The empty api_key default registers the key so the
	// LOOKSCAN_SERPAPI_API_KEY env var is picked up during unmarshal.
	v.SetDefault("serpapi.api_key", "")
	v.SetDefault("serpapi.base_url", "https://serpapi.com")

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.describe_model", "gpt-4o")
	v.SetDefault("openai.verify_model", "gpt-4o")

	// Pipeline defaults (values enforced in pipeline control flow)
	v.SetDefault("pipeline.max_query_fan_out", 3)
	v.SetDefault("pipeline.max_candidates", 8)
	v.SetDefault("pipeline.max_verified", 5)
	v.SetDefault("pipeline.match_threshold", 55)
	v.SetDefault("pipeline.seller_threshold", 45)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.serpapi", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.SerpAPI.APIKey == "" {
		return fmt.Errorf("SerpAPI key is required (set LOOKSCAN_SERPAPI_API_KEY)")
	}

	if config.Pipeline.MaxQueryFanOut <= 0 {
		return fmt.Errorf("pipeline max_query_fan_out must be positive, got: %d", config.Pipeline.MaxQueryFanOut)
	}

	if config.Pipeline.SellerThreshold > config.Pipeline.MatchThreshold {
		return fmt.Errorf("pipeline seller_threshold (%.0f) must not exceed match_threshold (%.0f)",
			config.Pipeline.SellerThreshold, config.Pipeline.MatchThreshold)
	}

	return nil
}
