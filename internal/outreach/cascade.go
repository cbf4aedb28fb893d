package outreach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/provider"
	"github.com/sells-group/outreach-cli/internal/resilience"
)

// errNoResults marks a provider answer that normalized to nothing.
var errNoResults = eris.New("no usable results")

// path is one way of asking the provider.
type path struct {
	timeout time.Duration
	call    func(ctx context.Context) (*provider.Response, error)
}

// plan is the fallback cascade of one request:
//
//	not_started -> web_search_attempted -> success
//	                                    -> standard_attempted -> success | fallback | failed
//
// A nil web or standard path skips that state. A nil fallback ends failed
// cascades in StateFailed with an error envelope.
type plan[T any] struct {
	kind     model.SearchKind
	label    string // "company search"
	web      *path
	standard *path
	parse    func(resp *provider.Response, src model.Source) []T
	fallback func() []T
}

// next returns the state entered after from failed (or, for
// StateNotStarted, the first state).
func (p plan[T]) next(from model.State) model.State {
	if from == model.StateNotStarted && p.web != nil {
		return model.StateWebSearchAttempted
	}
	if (from == model.StateNotStarted || from == model.StateWebSearchAttempted) && p.standard != nil {
		return model.StateStandardAttempted
	}
	if p.fallback != nil {
		return model.StateFallback
	}
	return model.StateFailed
}

func (p plan[T]) path(state model.State) *path {
	if state == model.StateWebSearchAttempted {
		return p.web
	}
	return p.standard
}

func pathName(state model.State) string {
	if state == model.StateWebSearchAttempted {
		return string(ModeWebSearch)
	}
	return string(ModeStandard)
}

// run drives p to a terminal state and returns the envelope.
func run[T any](ctx context.Context, s *Service, p plan[T]) *model.Envelope[T] {
	env := model.NewEnvelope[T]()
	env.Provider = s.provider.Name()
	log := zap.L().With(
		zap.String("operation", string(p.kind)),
		zap.String("request_id", env.RequestID),
		zap.String("provider", env.Provider),
	)

	var failures []string
	for state := p.next(model.StateNotStarted); ; {
		env.State = state
		switch state {
		case model.StateWebSearchAttempted, model.StateStandardAttempted:
			data, resp, err := attempt(ctx, s, p, state, log)
			if err == nil {
				env.Data = data
				env.Citations = resp.Citations
				if env.Citations == nil {
					env.Citations = []model.Citation{}
				}
				env.UsedWebSearch = resp.UsedWebSearch
				state = model.StateSuccess
				continue
			}
			failures = append(failures, fmt.Sprintf("%s: %v", pathName(state), err))
			state = p.next(state)
			if state == model.StateStandardAttempted {
				log.Warn("outreach: web search failed, falling back to standard completion", zap.Error(err))
			}

		case model.StateSuccess:
			log.Info("outreach: request complete",
				zap.Int("results", len(env.Data)),
				zap.Bool("used_web_search", env.UsedWebSearch),
				zap.Int("citations", len(env.Citations)),
			)
			return env

		case model.StateFallback:
			env.Data = p.fallback()
			env.Fallback = true
			log.Warn("outreach: provider paths failed, using deterministic fallback",
				zap.Strings("failures", failures),
			)
			return env

		default:
			env.State = model.StateFailed
			env.Error = p.label + " failed"
			if len(failures) > 0 {
				env.Error += ": " + strings.Join(failures, "; ")
			}
			log.Warn("outreach: request failed", zap.String("error", env.Error))
			return env
		}
	}
}

// attempt runs one path under its timeout, the limiter, the retry budget
// and, for web search, the provider's circuit breaker.
func attempt[T any](ctx context.Context, s *Service, p plan[T], state model.State, log *zap.Logger) ([]T, *provider.Response, error) {
	pth := p.path(state)
	name := pathName(state)

	ctx, cancel := context.WithTimeout(ctx, pth.timeout)
	defer cancel()

	retry := s.retry
	retry.OnRetry = resilience.RetryLogger(s.provider.Name(), string(p.kind)+"/"+name)
	call := func(ctx context.Context) (*provider.Response, error) {
		return resilience.DoVal(ctx, retry, func(ctx context.Context) (*provider.Response, error) {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "outreach: rate limiter")
			}
			return pth.call(ctx)
		})
	}

	var (
		resp *provider.Response
		err  error
	)
	if state == model.StateWebSearchAttempted {
		resp, err = resilience.ExecuteVal(ctx, s.breakers.Get(s.provider.Name()+"/"+name), call)
	} else {
		resp, err = call(ctx)
	}
	if err != nil {
		return nil, nil, err
	}
	if resp == nil {
		return nil, nil, errNoResults
	}

	webSearch := state == model.StateWebSearchAttempted && resp.UsedWebSearch
	log.Info("outreach: provider call complete",
		zap.String("path", name),
		zap.String("model", resp.Model),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
		zap.Bool("used_web_search", resp.UsedWebSearch),
		zap.Float64("cost_usd", s.costs.Estimate(s.provider.Name(), resp.Model, resp.Usage, webSearch)),
	)

	src := model.SourceAIGenerated
	if webSearch {
		src = model.SourceWebSearch
	}
	data := p.parse(resp, src)
	if len(data) == 0 {
		return nil, resp, errNoResults
	}
	return data, resp, nil
}
