// Package config loads and persists docscout configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete docscout configuration
type Config struct {
	Version     int    `json:"version" mapstructure:"version"`
	ProjectRoot string `json:"projectRoot" mapstructure:"projectRoot"`

	Discovery DiscoveryConfig `json:"discovery" mapstructure:"discovery"`
	Generator GeneratorConfig `json:"generator" mapstructure:"generator"`
	Cache     CacheConfig     `json:"cache" mapstructure:"cache"`
	Eval      EvalConfig      `json:"eval" mapstructure:"eval"`
	Logging   LoggingConfig   `json:"logging" mapstructure:"logging"`
}

// DiscoveryConfig contains the discovery pipeline caps and thresholds
type DiscoveryConfig struct {
	// MaxSources is the default result cap per section
	MaxSources int `json:"maxSources" mapstructure:"maxSources"`
	// MaxLexicalResults caps candidates from the lexical scorer
	MaxLexicalResults int `json:"maxLexicalResults" mapstructure:"maxLexicalResults"`
	// MaxScoredCandidates caps external generator calls per section
	MaxScoredCandidates int `json:"maxScoredCandidates" mapstructure:"maxScoredCandidates"`
	// MinRelevanceScore filters final results (0-10 scale)
	MinRelevanceScore int `json:"minRelevanceScore" mapstructure:"minRelevanceScore"`
	// PatternScore is the preliminary score assigned to pattern-matched candidates
	PatternScore float64 `json:"patternScore" mapstructure:"patternScore"`
}

// GeneratorConfig contains external generator settings
type GeneratorConfig struct {
	Provider    string  `json:"provider" mapstructure:"provider"`
	Model       string  `json:"model" mapstructure:"model"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	TimeoutMs   int     `json:"timeoutMs" mapstructure:"timeoutMs"`
}

// CacheConfig contains relevance score cache settings
type CacheConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// EvalConfig contains accuracy report thresholds
type EvalConfig struct {
	PassThreshold float64 `json:"passThreshold" mapstructure:"passThreshold"`
	WarnThreshold float64 `json:"warnThreshold" mapstructure:"warnThreshold"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:     1,
		ProjectRoot: ".",
		Discovery: DiscoveryConfig{
			MaxSources:          5,
			MaxLexicalResults:   20,
			MaxScoredCandidates: 10,
			MinRelevanceScore:   5,
			PatternScore:        6.0,
		},
		Generator: GeneratorConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			Temperature: 0,
			TimeoutMs:   30000,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Eval: EvalConfig{
			PassThreshold: 0.70,
			WarnThreshold: 0.60,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .docscout/config.json
func LoadConfig(projectRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("projectRoot", ".")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".docscout"))

	if err := v.ReadInConfig(); err != nil {
		// Missing config means defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to .docscout/config.json
func (c *Config) Save(projectRoot string) error {
	dir := filepath.Join(projectRoot, ".docscout")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Discovery.MaxScoredCandidates <= 0 {
		return fmt.Errorf("discovery.maxScoredCandidates must be positive")
	}
	if c.Discovery.MinRelevanceScore < 0 || c.Discovery.MinRelevanceScore > 10 {
		return fmt.Errorf("discovery.minRelevanceScore must be in [0,10]")
	}
	if c.Eval.WarnThreshold > c.Eval.PassThreshold {
		return fmt.Errorf("eval.warnThreshold must not exceed eval.passThreshold")
	}
	return nil
}
