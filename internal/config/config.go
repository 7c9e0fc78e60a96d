package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

const (
	DefaultDatasetPath   = "data/USMLE.jsonl"
	DefaultOpenAIModel   = "gpt-5-mini"
	DefaultClaudeModel   = "claude-sonnet-4-5-20250929"
	DefaultOllamaModel   = "gemma3"
	DefaultOllamaBaseURL = "http://localhost:11434"
)

type Config struct {
	Dataset    DatasetConfig    `yaml:"dataset"`
	LLM        LLMConfig        `yaml:"llm"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Output     OutputConfig     `yaml:"output"`
	Storage    StorageConfig    `yaml:"storage"`
}

type DatasetConfig struct {
	Path   string `yaml:"path,omitempty"`
	Strict bool   `yaml:"strict,omitempty"`
}

type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type EvaluationConfig struct {
	Limit   int  `yaml:"limit,omitempty"`   // 0 = all items
	Retries int  `yaml:"retries,omitempty"` // provider attempts per item
	AddEval bool `yaml:"add_eval,omitempty"`
	Metrics bool `yaml:"metrics,omitempty"`
}

type OutputConfig struct {
	ResultsPath string `yaml:"results_path,omitempty"`
	MetricsPath string `yaml:"metrics_path,omitempty"`
}

type StorageConfig struct {
	Type string `yaml:"type,omitempty"` // "sqlite" or "memory"
	Path string `yaml:"path,omitempty"` // SQLite file path
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: stat env file %q: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load env file %q: %w", path, err)
	}
	return nil
}

// Load reads the yaml config at path and overlays provider credentials and
// model names from the environment. A missing file at the default path yields
// a default config; a missing file at an explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath
	}

	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults only; everything can come from flags and env.
	default:
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	if cfg.LLM.Providers == nil {
		cfg.LLM.Providers = make(map[string]ProviderConfig)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyEnv overlays credentials, model names, and the Ollama host from the
// environment. Env values take precedence over yaml; CLI flags sit above both.
func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("PROVIDER")); v != "" && strings.TrimSpace(cfg.LLM.DefaultProvider) == "" {
		cfg.LLM.DefaultProvider = v
	}

	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		p := cfg.LLM.Providers["openai"]
		p.APIKey = v
		cfg.LLM.Providers["openai"] = p
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_MODEL")); v != "" {
		p := cfg.LLM.Providers["openai"]
		p.Model = v
		cfg.LLM.Providers["openai"] = p
	}

	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	} else if v := strings.TrimSpace(os.Getenv("ANTHROPIC_AUTH_TOKEN")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	}
	if v := strings.TrimSpace(os.Getenv("CLAUDE_MODEL")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.Model = v
		cfg.LLM.Providers["claude"] = p
	}

	if v := strings.TrimSpace(os.Getenv("OLLAMA_HOST")); v != "" {
		p := cfg.LLM.Providers["ollama"]
		p.BaseURL = v
		cfg.LLM.Providers["ollama"] = p
	}
	if v := strings.TrimSpace(os.Getenv("OLLAMA_MODEL")); v != "" {
		p := cfg.LLM.Providers["ollama"]
		p.Model = v
		cfg.LLM.Providers["ollama"] = p
	}
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Dataset.Path) == "" {
		cfg.Dataset.Path = DefaultDatasetPath
	}

	p := cfg.LLM.Providers["openai"]
	if strings.TrimSpace(p.Model) == "" {
		p.Model = DefaultOpenAIModel
	}
	cfg.LLM.Providers["openai"] = p

	p = cfg.LLM.Providers["claude"]
	if strings.TrimSpace(p.Model) == "" {
		p.Model = DefaultClaudeModel
	}
	cfg.LLM.Providers["claude"] = p

	p = cfg.LLM.Providers["ollama"]
	if strings.TrimSpace(p.Model) == "" {
		p.Model = DefaultOllamaModel
	}
	if strings.TrimSpace(p.BaseURL) == "" {
		p.BaseURL = DefaultOllamaBaseURL
	}
	cfg.LLM.Providers["ollama"] = p

	if cfg.Evaluation.Retries <= 0 {
		cfg.Evaluation.Retries = 1
	}
}
