package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"chatdesk/internal/logger"
)

// Config is the full service configuration. Environment variables carry
// deployment-specific values (port, credentials); the optional YAML file
// carries tunables that ship with the knowledge pack.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        logger.Config    `yaml:"log"`
	Knowledge  KnowledgeConfig  `yaml:"knowledge"`
	Store      StoreConfig      `yaml:"store"`
	Generation GenerationConfig `yaml:"generation"`
}

type ServerConfig struct {
	Port         int      `yaml:"port" envconfig:"PORT" default:"8080"`
	AllowOrigins []string `yaml:"allow_origins" envconfig:"ALLOW_ORIGINS" default:"*"`
}

type KnowledgeConfig struct {
	Dir string `yaml:"dir" envconfig:"KNOWLEDGE_DIR" default:"data/knowledge"`
}

type StoreConfig struct {
	TTL           time.Duration `yaml:"-" envconfig:"CONTEXT_TTL" default:"30m"`
	Capacity      int           `yaml:"capacity" envconfig:"CONTEXT_CAPACITY" default:"1000"`
	SweepInterval time.Duration `yaml:"-" envconfig:"CONTEXT_SWEEP_INTERVAL" default:"5m"`
}

// UnmarshalYAML accepts Go duration strings ("30m") for the TTL fields, which
// yaml.v3 cannot decode into time.Duration on its own. Absent keys keep the
// values already in place from the environment pass.
func (s *StoreConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		TTL           string `yaml:"ttl"`
		Capacity      *int   `yaml:"capacity"`
		SweepInterval string `yaml:"sweep_interval"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.TTL != "" {
		d, err := time.ParseDuration(raw.TTL)
		if err != nil {
			return fmt.Errorf("store.ttl: %w", err)
		}
		s.TTL = d
	}
	if raw.Capacity != nil {
		s.Capacity = *raw.Capacity
	}
	if raw.SweepInterval != "" {
		d, err := time.ParseDuration(raw.SweepInterval)
		if err != nil {
			return fmt.Errorf("store.sweep_interval: %w", err)
		}
		s.SweepInterval = d
	}
	return nil
}

type GenerationConfig struct {
	APIKey      string        `yaml:"-" envconfig:"GENERATION_API_KEY"`
	BaseURL     string        `yaml:"base_url" envconfig:"GENERATION_BASE_URL" default:"https://openrouter.ai/api/v1"`
	Model       string        `yaml:"model" envconfig:"GENERATION_MODEL" default:"openai/gpt-4o-mini"`
	MaxTokens   int           `yaml:"max_tokens" envconfig:"GENERATION_MAX_TOKENS" default:"1024"`
	Temperature float64       `yaml:"temperature" envconfig:"GENERATION_TEMPERATURE" default:"0.4"`
	Timeout     time.Duration `yaml:"-" envconfig:"GENERATION_TIMEOUT" default:"10s"`
}

func (g *GenerationConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		BaseURL     string   `yaml:"base_url"`
		Model       string   `yaml:"model"`
		MaxTokens   *int     `yaml:"max_tokens"`
		Temperature *float64 `yaml:"temperature"`
		Timeout     string   `yaml:"timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.BaseURL != "" {
		g.BaseURL = raw.BaseURL
	}
	if raw.Model != "" {
		g.Model = raw.Model
	}
	if raw.MaxTokens != nil {
		g.MaxTokens = *raw.MaxTokens
	}
	if raw.Temperature != nil {
		g.Temperature = *raw.Temperature
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("generation.timeout: %w", err)
		}
		g.Timeout = d
	}
	return nil
}

// Load reads environment configuration and, when path is non-empty and the
// file exists, overlays the YAML tunables on top.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	return &cfg, nil
}
