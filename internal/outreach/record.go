package outreach

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

// record saves env as a search record keyed by its request id. Failures are
// logged and never returned.
func record[T any](ctx context.Context, s *Service, kind model.SearchKind, criteria any, env *model.Envelope[T]) {
	if s.store == nil || env == nil {
		return
	}
	log := zap.L().With(zap.String("operation", string(kind)), zap.String("request_id", env.RequestID))

	crit, err := json.Marshal(criteria)
	if err != nil {
		log.Warn("outreach: marshal criteria for history", zap.Error(err))
		return
	}
	result, err := json.Marshal(env.Data)
	if err != nil {
		log.Warn("outreach: marshal result for history", zap.Error(err))
		return
	}

	rec := &model.SearchRecord{
		ID:            env.RequestID,
		Kind:          kind,
		Criteria:      crit,
		Result:        result,
		UsedWebSearch: env.UsedWebSearch,
		ResultCount:   len(env.Data),
		Error:         env.Error,
		CreatedAt:     env.Timestamp,
	}
	if err := s.store.SaveSearch(context.WithoutCancel(ctx), rec); err != nil {
		log.Warn("outreach: failed to record search", zap.Error(err))
	}
}
