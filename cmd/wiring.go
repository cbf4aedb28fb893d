package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/cost"
	"github.com/sells-group/outreach-cli/internal/db"
	"github.com/sells-group/outreach-cli/internal/location"
	"github.com/sells-group/outreach-cli/internal/outreach"
	"github.com/sells-group/outreach-cli/internal/provider"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/internal/store"
)

// initStore opens and migrates the configured history store. It returns a
// nil store for the "none" driver.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "", "none":
		return nil, nil
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, db.PoolConfig{})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// requireStore is initStore for commands that cannot run without history.
func requireStore(ctx context.Context) (store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, eris.New("search history is disabled (store.driver is none)")
	}
	return st, nil
}

// serviceEnv bundles the orchestrator with the resources it holds.
type serviceEnv struct {
	Service *outreach.Service
	Store   store.Store
}

// Close releases the store.
func (e *serviceEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initService validates the configuration and builds the orchestrator for
// the selected provider.
func initService(ctx context.Context) (*serviceEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg, err := provider.Build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	p, err := reg.MustGet(cfg.Provider.Name)
	if err != nil {
		return nil, err
	}

	limiter, err := resilience.NewLimiter(cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}

	svc, err := outreach.New(p, outreach.SettingsFromConfig(cfg),
		outreach.WithLimiter(limiter),
		outreach.WithRetry(resilience.FromRetryConfig(cfg.Retry)),
		outreach.WithBreakers(resilience.NewServiceBreakers(resilience.FromCircuitConfig(cfg.Circuit))),
		outreach.WithCostCalculator(cost.NewCalculator(cost.FromConfig(cfg.Pricing))),
		outreach.WithLocationParser(location.NewParser(cfg.Search.DefaultLocation)),
		outreach.WithStore(st),
	)
	if err != nil {
		if st != nil {
			_ = st.Close()
		}
		return nil, err
	}
	return &serviceEnv{Service: svc, Store: st}, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode output")
}
