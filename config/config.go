package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the detection service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug             bool          `mapstructure:"debug"`
	MaxProcessingTime time.Duration `mapstructure:"max_processing_time"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig contains reasoning-model provider settings
type LLMConfig struct {
	Provider        string        `mapstructure:"provider"` // openai, anthropic, gemini
	APIKey          string        `mapstructure:"api_key"`
	CompletionModel string        `mapstructure:"completion_model"`
	EmbeddingModel  string        `mapstructure:"embedding_model"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

func (l LLMConfig) Validate() error {
	if strings.TrimSpace(l.Provider) == "" {
		return fmt.Errorf("llm.provider is required")
	}
	if strings.TrimSpace(l.APIKey) == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	if l.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be greater than zero")
	}
	return nil
}

// SearchConfig contains search-provider settings
type SearchConfig struct {
	Provider string        `mapstructure:"provider"` // gdelt, serper
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Retries  int           `mapstructure:"retries"`
}

func (s SearchConfig) Validate() error {
	if strings.TrimSpace(s.Provider) == "" {
		return fmt.Errorf("search.provider is required")
	}
	if s.Provider == "serper" && strings.TrimSpace(s.APIKey) == "" {
		return fmt.Errorf("search.api_key is required for serper")
	}
	return nil
}

// PipelineConfig contains the tunables of the detection pipeline
type PipelineConfig struct {
	MaxArticlesPerQuery    int           `mapstructure:"max_articles_per_query"`
	TopNPerCategory        int           `mapstructure:"top_n_per_category"`
	MinSimilarityThreshold float64       `mapstructure:"min_similarity_threshold"`
	WhitelistOnly          bool          `mapstructure:"whitelist_only"`
	EnrichContent          bool          `mapstructure:"enrich_content"`
	EnrichTimeout          time.Duration `mapstructure:"enrich_timeout"`
}

// Normalize applies defaults for unset pipeline values.
func (p PipelineConfig) Normalize() PipelineConfig {
	if p.MaxArticlesPerQuery <= 0 {
		p.MaxArticlesPerQuery = 250
	}
	if p.TopNPerCategory <= 0 {
		p.TopNPerCategory = 5
	}
	if p.MinSimilarityThreshold == 0 {
		p.MinSimilarityThreshold = 0.1
	}
	if p.EnrichTimeout <= 0 {
		p.EnrichTimeout = 10 * time.Second
	}
	return p
}

func (p PipelineConfig) Validate() error {
	if p.MinSimilarityThreshold < -1 || p.MinSimilarityThreshold > 1 {
		return fmt.Errorf("pipeline.min_similarity_threshold must be within [-1,1]")
	}
	return nil
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig contains storage and persistence settings
type StorageConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings. History is disabled
// when no host is configured.
type RedisConfig struct {
	Host       string        `mapstructure:"host"`
	Port       string        `mapstructure:"port"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	Timeout    time.Duration `mapstructure:"timeout"`
	HistoryMax int           `mapstructure:"history_max"`
}

func (r RedisConfig) Enabled() bool { return strings.TrimSpace(r.Host) != "" }

func (r RedisConfig) Validate() error {
	if !r.Enabled() {
		return nil
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required when host is set")
	}
	return nil
}

// LoadConfig loads config from file
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.SetDefault("general.max_processing_time", "3m")
	viper.SetDefault("server.address", ":10002")
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.completion_model", "gpt-5")
	viper.SetDefault("llm.embedding_model", "text-embedding-3-large")
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.timeout", "60s")
	viper.SetDefault("search.provider", "gdelt")
	viper.SetDefault("search.timeout", "30s")
	viper.SetDefault("search.retries", 2)
	viper.SetDefault("pipeline.max_articles_per_query", 250)
	viper.SetDefault("pipeline.top_n_per_category", 5)
	viper.SetDefault("pipeline.min_similarity_threshold", 0.1)
	viper.SetDefault("storage.redis.timeout", "5s")
	viper.SetDefault("storage.redis.history_max", 100)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
		viper.AddConfigPath(filepath.Join(exeDir, "..", "config"))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("PRISM")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv() // read in environment variables that match (PRISM_*)

	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	var config Config
	if err = viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	config.Pipeline = config.Pipeline.Normalize()

	if err := config.LLM.Validate(); err != nil {
		panic(err)
	}
	if err := config.Search.Validate(); err != nil {
		panic(err)
	}
	if err := config.Pipeline.Validate(); err != nil {
		panic(err)
	}
	if err := config.Storage.Redis.Validate(); err != nil {
		panic(err)
	}
	return &config
}
