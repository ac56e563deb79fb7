package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// FAQConfig points at the curated question/answer table.
type FAQConfig struct {
	Path string `yaml:"path"`
	// QuestionHeader and AnswerHeader switch column lookup from fixed positions
	// to header names. Both must be set to take effect.
	QuestionHeader string `yaml:"question_header"`
	AnswerHeader   string `yaml:"answer_header"`
	Watch          bool   `yaml:"watch"`
}

// MatcherConfig holds the similarity cut-off. Threshold is a pointer so an
// explicit 0 is kept rather than replaced by the default.
type MatcherConfig struct {
	Threshold *float64 `yaml:"threshold"`
}

// DefaultThreshold is used when no threshold is configured.
const DefaultThreshold = 0.5

// ThresholdValue returns the configured threshold or DefaultThreshold.
func (m MatcherConfig) ThresholdValue() float64 {
	if m.Threshold == nil {
		return DefaultThreshold
	}
	return *m.Threshold
}

// EmbedderConfig selects and configures the embedding model.
type EmbedderConfig struct {
	Type      string `yaml:"type"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// FallbackConfig selects and configures the generative model.
type FallbackConfig struct {
	Type        string `yaml:"type"`
	Model       string `yaml:"model"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// HistoryConfig sets where conversation logs are exported.
type HistoryConfig struct {
	Dir string `yaml:"dir"`
}

// PDFConfig names the env var holding the UniDoc metered license key.
type PDFConfig struct {
	LicenseKeyEnv string `yaml:"license_key_env"`
}

// ChromaConfig enables mirroring the FAQ index into a Chroma collection.
type ChromaConfig struct {
	Enabled    bool   `yaml:"enabled"`
	URL        string `yaml:"url"`
	Collection string `yaml:"collection"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	FAQ      FAQConfig      `yaml:"faq"`
	Matcher  MatcherConfig  `yaml:"matcher"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Fallback FallbackConfig `yaml:"fallback"`
	History  HistoryConfig  `yaml:"history"`
	PDF      PDFConfig      `yaml:"pdf"`
	Chroma   ChromaConfig   `yaml:"chroma"`
}

// Load reads a config from path. A missing file yields the defaults.
// Environment overrides are applied last in both cases.
func Load(path string) (*AppConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		cfg = &AppConfig{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	applyConfigDefaults(cfg)
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// APIKey returns the value of the environment variable named by env.
func APIKey(env string) string {
	if env == "" {
		return ""
	}
	return os.Getenv(env)
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.FAQ.Path == "" {
		cfg.FAQ.Path = "questions_reponses_rh.xlsx"
	}
	if cfg.Matcher.Threshold == nil {
		t := DefaultThreshold
		cfg.Matcher.Threshold = &t
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "gemini"
	}
	if cfg.Embedder.Model == "" {
		switch cfg.Embedder.Type {
		case "gemini":
			cfg.Embedder.Model = "text-embedding-004"
		case "openai":
			cfg.Embedder.Model = "text-embedding-3-small"
		case "ollama":
			cfg.Embedder.Model = "nomic-embed-text"
		}
	}
	if cfg.Embedder.APIKeyEnv == "" {
		cfg.Embedder.APIKeyEnv = defaultKeyEnv(cfg.Embedder.Type)
	}
	if cfg.Embedder.Type == "ollama" && cfg.Embedder.BaseURL == "" {
		cfg.Embedder.BaseURL = "http://localhost:11434"
	}
	if cfg.Fallback.Type == "" {
		cfg.Fallback.Type = "gemini"
	}
	if cfg.Fallback.Model == "" {
		switch cfg.Fallback.Type {
		case "gemini":
			cfg.Fallback.Model = "gemini-2.5-flash"
		case "openai":
			cfg.Fallback.Model = "gpt-4o-mini"
		}
	}
	if cfg.Fallback.APIKeyEnv == "" {
		cfg.Fallback.APIKeyEnv = defaultKeyEnv(cfg.Fallback.Type)
	}
	if cfg.Fallback.TimeoutSecs == 0 {
		cfg.Fallback.TimeoutSecs = 60
	}
	if cfg.Fallback.MaxRetries < 0 {
		cfg.Fallback.MaxRetries = 0
	}
	if cfg.History.Dir == "" {
		cfg.History.Dir = "history"
	}
	if cfg.PDF.LicenseKeyEnv == "" {
		cfg.PDF.LicenseKeyEnv = "UNIDOC_LICENSE_KEY"
	}
	if cfg.Chroma.Collection == "" {
		cfg.Chroma.Collection = "hr-faq"
	}
}

func defaultKeyEnv(provider string) string {
	switch provider {
	case "gemini":
		return "GEMINI_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	}
	return ""
}

func applyEnvOverrides(cfg *AppConfig) error {
	if v := os.Getenv("HRFAQ_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("HRFAQ_FAQ_PATH"); v != "" {
		cfg.FAQ.Path = v
	}
	if v := os.Getenv("HRFAQ_THRESHOLD"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid HRFAQ_THRESHOLD %q: %w", v, err)
		}
		cfg.Matcher.Threshold = &t
	}
	return nil
}
