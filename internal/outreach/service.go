// Package outreach orchestrates provider calls for company search, employee
// search, email guessing, email drafting and LinkedIn URL generation. Every
// operation returns a model.Envelope.
package outreach

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/cost"
	"github.com/sells-group/outreach-cli/internal/location"
	"github.com/sells-group/outreach-cli/internal/normalize"
	"github.com/sells-group/outreach-cli/internal/provider"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/internal/store"
)

// Mode selects the call path.
type Mode string

const (
	// ModeAuto uses web search when the provider supports it.
	ModeAuto      Mode = "auto"
	ModeWebSearch Mode = "web_search"
	ModeStandard  Mode = "standard"
)

// ParseMode validates s. The empty string is ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeWebSearch, ModeStandard:
		return Mode(s), nil
	default:
		return "", invalidInput("unknown mode %q (want auto, web_search or standard)", s)
	}
}

// Timeouts bound each call path, retries included.
type Timeouts struct {
	WebSearch    time.Duration
	Standard     time.Duration
	EmailGuess   time.Duration
	EmailContent time.Duration
	LinkedIn     time.Duration
}

// Settings tunes the Service.
type Settings struct {
	Mode              Mode
	MaxCompanies      int
	MaxEmployees      int
	DescriptionLength int
	MinEmailBody      int
	BatchConcurrency  int
	Timeouts          Timeouts
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Mode:              ModeAuto,
		MaxCompanies:      10,
		MaxEmployees:      10,
		DescriptionLength: normalize.DefaultDescriptionLength,
		MinEmailBody:      50,
		BatchConcurrency:  3,
		Timeouts: Timeouts{
			WebSearch:    60 * time.Second,
			Standard:     30 * time.Second,
			EmailGuess:   20 * time.Second,
			EmailContent: 30 * time.Second,
			LinkedIn:     20 * time.Second,
		},
	}
}

// SettingsFromConfig layers configured values over DefaultSettings.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := DefaultSettings()
	if m, err := ParseMode(cfg.Provider.Mode); err == nil {
		s.Mode = m
	}
	sc := cfg.Search
	setPositive(&s.MaxCompanies, sc.MaxCompanies)
	setPositive(&s.MaxEmployees, sc.MaxEmployees)
	setPositive(&s.DescriptionLength, sc.DescriptionLength)
	setPositive(&s.MinEmailBody, sc.MinEmailBody)
	setPositive(&s.BatchConcurrency, sc.BatchConcurrency)
	setSeconds(&s.Timeouts.WebSearch, sc.Timeouts.WebSearchSecs)
	setSeconds(&s.Timeouts.Standard, sc.Timeouts.StandardSecs)
	setSeconds(&s.Timeouts.EmailGuess, sc.Timeouts.EmailGuessSecs)
	setSeconds(&s.Timeouts.EmailContent, sc.Timeouts.EmailContentSecs)
	setSeconds(&s.Timeouts.LinkedIn, sc.Timeouts.LinkedInSecs)
	return s
}

// withDefaults fills zero or negative limits and timeouts from
// DefaultSettings.
func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.Mode == "" {
		s.Mode = def.Mode
	}
	fill(&s.MaxCompanies, def.MaxCompanies)
	fill(&s.MaxEmployees, def.MaxEmployees)
	fill(&s.DescriptionLength, def.DescriptionLength)
	fill(&s.MinEmailBody, def.MinEmailBody)
	fill(&s.BatchConcurrency, def.BatchConcurrency)
	fill(&s.Timeouts.WebSearch, def.Timeouts.WebSearch)
	fill(&s.Timeouts.Standard, def.Timeouts.Standard)
	fill(&s.Timeouts.EmailGuess, def.Timeouts.EmailGuess)
	fill(&s.Timeouts.EmailContent, def.Timeouts.EmailContent)
	fill(&s.Timeouts.LinkedIn, def.Timeouts.LinkedIn)
	return s
}

func fill[T int | time.Duration](dst *T, def T) {
	if *dst <= 0 {
		*dst = def
	}
}

func setPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setSeconds(dst *time.Duration, secs int) {
	if secs > 0 {
		*dst = time.Duration(secs) * time.Second
	}
}

// Service is the request orchestrator. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	provider  provider.Provider
	settings  Settings
	limiter   resilience.Limiter
	retry     resilience.RetryConfig
	breakers  *resilience.ServiceBreakers
	costs     *cost.Calculator
	store     store.Store
	locations *location.Parser
}

// Option configures a Service.
type Option func(*Service)

// WithLimiter sets the limiter every provider call waits on.
func WithLimiter(l resilience.Limiter) Option {
	return func(s *Service) {
		if l != nil {
			s.limiter = l
		}
	}
}

// WithRetry sets the per-path retry budget.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(s *Service) { s.retry = cfg }
}

// WithBreakers sets the circuit breakers guarding the web search path.
func WithBreakers(b *resilience.ServiceBreakers) Option {
	return func(s *Service) {
		if b != nil {
			s.breakers = b
		}
	}
}

// WithCostCalculator sets the calculator used for cost logging.
func WithCostCalculator(c *cost.Calculator) Option {
	return func(s *Service) {
		if c != nil {
			s.costs = c
		}
	}
}

// WithStore records every envelope as a search record.
func WithStore(st store.Store) Option {
	return func(s *Service) { s.store = st }
}

// WithLocationParser sets the parser for location hints.
func WithLocationParser(p *location.Parser) Option {
	return func(s *Service) {
		if p != nil {
			s.locations = p
		}
	}
}

// New creates a Service around p. A nil provider is a configuration error.
func New(p provider.Provider, settings Settings, opts ...Option) (*Service, error) {
	if p == nil {
		return nil, configError(nil, "outreach: no provider configured")
	}
	s := &Service{
		provider:  p,
		settings:  settings.withDefaults(),
		limiter:   resilience.Unlimited(),
		retry:     resilience.DefaultRetryConfig(),
		breakers:  resilience.NewServiceBreakers(resilience.DefaultCircuitBreakerConfig()),
		costs:     cost.NewCalculator(cost.DefaultRates()),
		locations: location.NewParser(location.DefaultText),
	}
	for _, o := range opts {
		o(s)
	}
	zap.L().Debug("outreach: service ready",
		zap.String("provider", p.Name()),
		zap.Bool("web_search", p.SupportsWebSearch()),
		zap.String("mode", string(s.settings.Mode)),
		zap.Bool("recording", s.store != nil),
	)
	return s, nil
}

// Provider returns the provider name.
func (s *Service) Provider() string { return s.provider.Name() }

// SupportsWebSearch reports whether the provider can search the web.
func (s *Service) SupportsWebSearch() bool { return s.provider.SupportsWebSearch() }

// Breakers returns the breaker states keyed by name.
func (s *Service) Breakers() map[string]resilience.CircuitState { return s.breakers.States() }

// Store returns the configured store, or nil.
func (s *Service) Store() store.Store { return s.store }

func (s *Service) mode(m Mode) Mode {
	if m == "" {
		return s.settings.Mode
	}
	return m
}
