// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Supported extraction providers.
const (
	ProviderNone      = "none"
	ProviderClaudeCLI = "claude-cli"
	ProviderGemini    = "gemini"
)

// LLMConfig holds the text-extraction service settings.
type LLMConfig struct {
	Provider       string `mapstructure:"provider" yaml:"provider"`
	Bin            string `mapstructure:"bin" yaml:"bin"`
	Model          string `mapstructure:"model" yaml:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxPromptChars int    `mapstructure:"max_prompt_chars" yaml:"max_prompt_chars"`
	APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
}

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		DefaultCurrency string `mapstructure:"default_currency" yaml:"default_currency"`
	} `mapstructure:"csv" yaml:"csv"`

	LLM LLMConfig `mapstructure:"llm" yaml:"llm"`

	Parsers struct {
		ColumnsFile string `mapstructure:"columns_file" yaml:"columns_file"`
	} `mapstructure:"parsers" yaml:"parsers"`
}

var currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return initializeConfig(viper.New())
}

func initializeConfig(v *viper.Viper) (*Config, error) {
	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.money-backward")
	v.AddConfigPath(".money-backward")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("MONEY_BACKWARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. The hosted API key keeps its conventional unprefixed name
	if err := v.BindEnv("llm.api_key", "MONEY_BACKWARD_LLM_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY environment variable: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.default_currency", "JPY")

	v.SetDefault("llm.provider", ProviderNone)
	v.SetDefault("llm.bin", "claude")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout_seconds", 300)
	v.SetDefault("llm.max_prompt_chars", 120000)
	v.SetDefault("llm.api_key", "")

	v.SetDefault("parsers.columns_file", "")
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults are static and always decode.
	_ = v.Unmarshal(&config)
	return &config
}

// Validate re-checks cfg, for callers that override values after loading.
func Validate(cfg *Config) error {
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// validateConfig validates the configuration values. llm.provider is left to
// the extraction client, which only PDF runs build.
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if !currencyPattern.MatchString(config.CSV.DefaultCurrency) {
		return fmt.Errorf("csv.default_currency must be a 3-letter code, got: %q", config.CSV.DefaultCurrency)
	}

	if config.LLM.TimeoutSeconds < 1 || config.LLM.TimeoutSeconds > 3600 {
		return fmt.Errorf("llm.timeout_seconds must be between 1 and 3600, got: %d", config.LLM.TimeoutSeconds)
	}

	if config.LLM.MaxPromptChars < 1 {
		return fmt.Errorf("llm.max_prompt_chars must be positive, got: %d", config.LLM.MaxPromptChars)
	}

	if config.LLM.Provider == ProviderClaudeCLI && strings.TrimSpace(config.LLM.Bin) == "" {
		return fmt.Errorf("llm.bin is required when llm.provider is %s", ProviderClaudeCLI)
	}

	return nil
}
