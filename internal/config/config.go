package config

import (
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Provider   ProviderConfig   `yaml:"provider" mapstructure:"provider"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Retry      RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Circuit    CircuitConfig    `yaml:"circuit" mapstructure:"circuit"`
	RateLimit  RateLimitConfig  `yaml:"ratelimit" mapstructure:"ratelimit"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Pricing    PricingConfig    `yaml:"pricing" mapstructure:"pricing"`
}

// Provider names.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderPerplexity = "perplexity"
	ProviderGemini     = "gemini"
)

// Providers lists every supported provider name.
var Providers = []string{ProviderOpenAI, ProviderAnthropic, ProviderPerplexity, ProviderGemini}

// ProviderConfig selects the LLM provider and the default call mode.
type ProviderConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
	Mode string `yaml:"mode" mapstructure:"mode"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	Organization      string  `yaml:"organization" mapstructure:"organization"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	Model             string  `yaml:"model" mapstructure:"model"`
	SearchModel       string  `yaml:"search_model" mapstructure:"search_model"`
	SearchContextSize string  `yaml:"search_context_size" mapstructure:"search_context_size"`
	Temperature       float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key              string  `yaml:"key" mapstructure:"key"`
	BaseURL          string  `yaml:"base_url" mapstructure:"base_url"`
	Model            string  `yaml:"model" mapstructure:"model"`
	MaxTokens        int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature      float64 `yaml:"temperature" mapstructure:"temperature"`
	WebSearchMaxUses int     `yaml:"web_search_max_uses" mapstructure:"web_search_max_uses"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	Model             string  `yaml:"model" mapstructure:"model"`
	SearchContextSize string  `yaml:"search_context_size" mapstructure:"search_context_size"`
	Temperature       float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SearchConfig tunes the orchestrator.
type SearchConfig struct {
	DefaultLocation   string        `yaml:"default_location" mapstructure:"default_location"`
	MaxCompanies      int           `yaml:"max_companies" mapstructure:"max_companies"`
	MaxEmployees      int           `yaml:"max_employees" mapstructure:"max_employees"`
	DescriptionLength int           `yaml:"description_length" mapstructure:"description_length"`
	MinEmailBody      int           `yaml:"min_email_body" mapstructure:"min_email_body"`
	BatchConcurrency  int           `yaml:"batch_concurrency" mapstructure:"batch_concurrency"`
	Timeouts          TimeoutConfig `yaml:"timeouts" mapstructure:"timeouts"`
}

// TimeoutConfig holds per-family call timeouts in seconds.
type TimeoutConfig struct {
	WebSearchSecs    int `yaml:"web_search_secs" mapstructure:"web_search_secs"`
	StandardSecs     int `yaml:"standard_secs" mapstructure:"standard_secs"`
	EmailGuessSecs   int `yaml:"email_guess_secs" mapstructure:"email_guess_secs"`
	EmailContentSecs int `yaml:"email_content_secs" mapstructure:"email_content_secs"`
	LinkedInSecs     int `yaml:"linkedin_secs" mapstructure:"linkedin_secs"`
}

// RetryConfig configures provider call retries.
type RetryConfig struct {
	MaxRetries  int `yaml:"max_retries" mapstructure:"max_retries"`
	BaseDelayMs int `yaml:"base_delay_ms" mapstructure:"base_delay_ms"`
	MaxDelayMs  int `yaml:"max_delay_ms" mapstructure:"max_delay_ms"`
	MaxJitterMs int `yaml:"max_jitter_ms" mapstructure:"max_jitter_ms"`
}

// CircuitConfig configures the web-search circuit breakers.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// Rate limiter strategies.
const (
	StrategySlidingWindow = "sliding_window"
	StrategyTokenBucket   = "token_bucket"
	StrategyNone          = "none"
)

// RateLimitConfig configures the provider call limiter.
type RateLimitConfig struct {
	Strategy    string `yaml:"strategy" mapstructure:"strategy"`
	MaxRequests int    `yaml:"max_requests" mapstructure:"max_requests"`
	WindowSecs  int    `yaml:"window_secs" mapstructure:"window_secs"`
	Burst       int    `yaml:"burst" mapstructure:"burst"`
}

// StoreConfig configures the search history backend. Driver is one of
// postgres, sqlite or none.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port               int      `yaml:"port" mapstructure:"port"`
	CORSOrigins        []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RequestTimeoutSecs int      `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// PricingConfig holds per-provider pricing rates.
type PricingConfig struct {
	OpenAI     ProviderPricing `yaml:"openai" mapstructure:"openai"`
	Anthropic  ProviderPricing `yaml:"anthropic" mapstructure:"anthropic"`
	Perplexity ProviderPricing `yaml:"perplexity" mapstructure:"perplexity"`
	Gemini     ProviderPricing `yaml:"gemini" mapstructure:"gemini"`
}

// ProviderPricing holds model token rates and the flat web-search fee.
type ProviderPricing struct {
	Models       map[string]ModelPricing `yaml:"models" mapstructure:"models"`
	WebSearchFee float64                 `yaml:"web_search_fee" mapstructure:"web_search_fee"`
}

// ModelPricing holds per-model token pricing (USD per million tokens).
type ModelPricing struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider.name", ProviderOpenAI)
	v.SetDefault("provider.mode", "auto")

	// Keys have empty defaults so AutomaticEnv can populate them on Unmarshal.
	v.SetDefault("openai.key", "")
	v.SetDefault("openai.organization", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.search_model", "gpt-4.1-mini")
	v.SetDefault("openai.search_context_size", "medium")
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("openai.max_tokens", 2000)

	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.base_url", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.temperature", 0.7)
	v.SetDefault("anthropic.web_search_max_uses", 5)

	v.SetDefault("perplexity.key", "")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("perplexity.search_context_size", "medium")
	v.SetDefault("perplexity.temperature", 0.7)
	v.SetDefault("perplexity.max_tokens", 2000)

	v.SetDefault("gemini.key", "")
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.temperature", 0.7)
	v.SetDefault("gemini.max_tokens", 4096)

	v.SetDefault("search.default_location", "Paris, France")
	v.SetDefault("search.max_companies", 10)
	v.SetDefault("search.max_employees", 10)
	v.SetDefault("search.description_length", 120)
	v.SetDefault("search.min_email_body", 50)
	v.SetDefault("search.batch_concurrency", 3)
	v.SetDefault("search.timeouts.web_search_secs", 60)
	v.SetDefault("search.timeouts.standard_secs", 30)
	v.SetDefault("search.timeouts.email_guess_secs", 20)
	v.SetDefault("search.timeouts.email_content_secs", 30)
	v.SetDefault("search.timeouts.linkedin_secs", 20)

	v.SetDefault("retry.max_retries", 2)
	v.SetDefault("retry.base_delay_ms", 1000)
	v.SetDefault("retry.max_delay_ms", 10000)
	v.SetDefault("retry.max_jitter_ms", 1000)

	v.SetDefault("circuit.failure_threshold", 5)
	v.SetDefault("circuit.reset_timeout_secs", 30)

	v.SetDefault("ratelimit.strategy", StrategySlidingWindow)
	v.SetDefault("ratelimit.max_requests", 20)
	v.SetDefault("ratelimit.window_secs", 60)
	v.SetDefault("ratelimit.burst", 5)

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "outreach.db")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.request_timeout_secs", 120)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Model token rates default in internal/cost; viper splits map keys on
	// dots, so model names such as gpt-4.1-mini cannot be defaulted here.
	v.SetDefault("pricing.openai.web_search_fee", 0.025)
	v.SetDefault("pricing.anthropic.web_search_fee", 0.01)
	v.SetDefault("pricing.perplexity.web_search_fee", 0.005)
	v.SetDefault("pricing.gemini.web_search_fee", 0.035)
}

// Validate checks the settings needed to serve requests. A missing key for
// the selected provider is a configuration error.
func (c *Config) Validate() error {
	if !slices.Contains(Providers, c.Provider.Name) {
		return eris.Errorf("config: unknown provider %q (want one of %s)", c.Provider.Name, strings.Join(Providers, ", "))
	}
	if key := c.ProviderKey(); key == "" {
		return eris.Errorf("config: %s.key is required (set OUTREACH_%s_KEY)", c.Provider.Name, strings.ToUpper(c.Provider.Name))
	}
	switch c.Provider.Mode {
	case "", "auto", "web_search", "standard":
	default:
		return eris.Errorf("config: unknown provider.mode %q", c.Provider.Mode)
	}
	switch c.RateLimit.Strategy {
	case "", StrategySlidingWindow, StrategyTokenBucket, StrategyNone:
	default:
		return eris.Errorf("config: unknown ratelimit.strategy %q", c.RateLimit.Strategy)
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks the store driver and URL.
func (s StoreConfig) Validate() error {
	switch s.Driver {
	case "", "none":
		return nil
	case "postgres", "sqlite":
		if s.DatabaseURL == "" {
			return eris.Errorf("config: store.database_url is required for driver %q", s.Driver)
		}
		return nil
	default:
		return eris.Errorf("config: unknown store.driver %q", s.Driver)
	}
}

// ProviderKey returns the API key of the selected provider.
func (c *Config) ProviderKey() string {
	switch c.Provider.Name {
	case ProviderOpenAI:
		return c.OpenAI.Key
	case ProviderAnthropic:
		return c.Anthropic.Key
	case ProviderPerplexity:
		return c.Perplexity.Key
	case ProviderGemini:
		return c.Gemini.Key
	default:
		return ""
	}
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
