package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for readscore.
type Config struct {
	Language    LanguageConfig    `yaml:"language"`
	Translation TranslationConfig `yaml:"translation"`
	Sentiment   SentimentConfig   `yaml:"sentiment"`
	LLM         LLMConfig         `yaml:"llm"`
	Breaker     BreakerConfig     `yaml:"breaker"`
	Batch       BatchConfig       `yaml:"batch"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Store       StoreConfig       `yaml:"store"`
	Server      ServerConfig      `yaml:"server"`
	Output      OutputConfig      `yaml:"output"`
	Labels      map[string]string `yaml:"labels"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LanguageConfig holds language detection configuration.
type LanguageConfig struct {
	Provider    string        `yaml:"provider"` // "whatlang", "fixed"
	Fixed       string        `yaml:"fixed"`    // code returned by the fixed provider
	RussianCode string        `yaml:"russian_code"`
	EnglishCode string        `yaml:"english_code"`
	Timeout     time.Duration `yaml:"timeout"`
}

// TranslationConfig holds machine translation configuration.
type TranslationConfig struct {
	Provider      string        `yaml:"provider"` // "google", "openai", "claude", "none"
	Target        string        `yaml:"target"`
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	Burst         int           `yaml:"burst"`
	CacheSize     int           `yaml:"cache_size"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
}

// SentimentConfig holds sentiment scoring configuration.
type SentimentConfig struct {
	Provider      string        `yaml:"provider"` // "lexicon", "openai", "claude"
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	Burst         int           `yaml:"burst"`
}

// LLMConfig holds credentials and models for LLM-backed providers.
type LLMConfig struct {
	OpenAI OpenAIConfig `yaml:"openai"`
	Claude ClaudeConfig `yaml:"claude"`
}

type OpenAIConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"` // OpenAI-compatible endpoints, e.g. Ollama
}

type ClaudeConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	MaxTokens int    `yaml:"max_tokens"`
}

// BreakerConfig configures the circuit breakers around external services.
type BreakerConfig struct {
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	Timeout          time.Duration `yaml:"timeout"`
	FailureThreshold float64       `yaml:"failure_threshold"`
	MinRequests      uint32        `yaml:"min_requests"`
}

// BatchConfig holds batch analysis configuration.
type BatchConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	Workers  int      `yaml:"workers"`
}

// FetchConfig limits downloads of --url input.
type FetchConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// StoreConfig holds report history configuration.
type StoreConfig struct {
	Path string `yaml:"path"` // relative paths resolve against the root directory
}

// ServerConfig holds HTTP API configuration.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// OutputConfig holds report rendering configuration.
type OutputConfig struct {
	Format string `yaml:"format"` // "text", "json"
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text", "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Language: LanguageConfig{
			Provider:    "whatlang",
			Fixed:       "en",
			RussianCode: "ru",
			EnglishCode: "en",
			Timeout:     5 * time.Second,
		},
		Translation: TranslationConfig{
			Provider:      "google",
			Target:        "en",
			Timeout:       30 * time.Second,
			RatePerSecond: 5,
			Burst:         5,
			CacheSize:     256,
			CacheTTL:      time.Hour,
		},
		Sentiment: SentimentConfig{
			Provider:      "lexicon",
			Timeout:       30 * time.Second,
			RatePerSecond: 5,
			Burst:         5,
		},
		LLM: LLMConfig{
			OpenAI: OpenAIConfig{
				Model:     "gpt-4o-mini",
				APIKeyEnv: "OPENAI_API_KEY",
			},
			Claude: ClaudeConfig{
				Model:     "claude-sonnet-4-5-20250929",
				APIKeyEnv: "ANTHROPIC_API_KEY",
				MaxTokens: 2048,
			},
		},
		Breaker: BreakerConfig{
			MaxRequests:      3,
			Interval:         30 * time.Second,
			Timeout:          60 * time.Second,
			FailureThreshold: 0.6,
			MinRequests:      5,
		},
		Batch: BatchConfig{
			Includes: []string{"**/*.txt", "**/*.md", "**/*.html", "**/*.htm"},
			Excludes: []string{"**/node_modules/**", "**/vendor/**", "**/.git/**", "**/.readscore/**"},
			Workers:  4,
		},
		Fetch: FetchConfig{
			Timeout:      30 * time.Second,
			MaxBodyBytes: 5 << 20,
		},
		Store: StoreConfig{
			Path: filepath.Join(".readscore", "history.db"),
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 90 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Validate rejects unknown providers and non-positive limits.
func (c *Config) Validate() error {
	if !oneOf(c.Language.Provider, "whatlang", "fixed") {
		return fmt.Errorf("unsupported language provider: %q", c.Language.Provider)
	}
	if c.Language.Provider == "fixed" && c.Language.Fixed == "" {
		return fmt.Errorf("language.fixed must be set for the fixed provider")
	}
	if !oneOf(c.Translation.Provider, "google", "openai", "claude", "none") {
		return fmt.Errorf("unsupported translation provider: %q", c.Translation.Provider)
	}
	if !oneOf(c.Sentiment.Provider, "lexicon", "openai", "claude") {
		return fmt.Errorf("unsupported sentiment provider: %q", c.Sentiment.Provider)
	}
	if !oneOf(c.Output.Format, "text", "json") {
		return fmt.Errorf("unsupported output format: %q", c.Output.Format)
	}
	if c.Language.Timeout <= 0 || c.Translation.Timeout <= 0 || c.Sentiment.Timeout <= 0 {
		return fmt.Errorf("external call timeouts must be positive")
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers)
	}
	return nil
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for readscore.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "readscore.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".readscore", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StorePath returns the report history path for a root directory.
func (c *Config) StorePath(dir string) string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(dir, c.Store.Path)
}

// EnsureStoreDir ensures the directory holding the history database exists.
func (c *Config) EnsureStoreDir(dir string) error {
	return os.MkdirAll(filepath.Dir(c.StorePath(dir)), 0755)
}
