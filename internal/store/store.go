// Package store persists the history of orchestrator calls.
package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
)

// ErrNotFound is returned by GetSearch for unknown ids.
var ErrNotFound = eris.New("store: search not found")

const (
	searchesTable = "searches"
	defaultLimit  = 50
	maxLimit      = 500
)

var searchColumns = []string{
	"id", "kind", "criteria", "result", "used_web_search", "result_count", "error", "created_at",
}

// SearchFilter specifies criteria for listing searches.
type SearchFilter struct {
	Kind   model.SearchKind `json:"kind,omitempty"`
	Since  time.Time        `json:"since,omitempty"`
	Limit  int              `json:"limit,omitempty"`
	Offset int              `json:"offset,omitempty"`
}

// Store defines the persistence interface for search history.
type Store interface {
	// SaveSearch inserts rec, assigning ID and CreatedAt when they are unset.
	SaveSearch(ctx context.Context, rec *model.SearchRecord) error
	// ImportSearches upserts records by id and returns how many were written.
	ImportSearches(ctx context.Context, recs []model.SearchRecord) (int64, error)
	GetSearch(ctx context.Context, id string) (*model.SearchRecord, error)
	// ListSearches returns matching records, newest first.
	ListSearches(ctx context.Context, filter SearchFilter) ([]model.SearchRecord, error)
	// PruneSearches deletes records created before cutoff.
	PruneSearches(ctx context.Context, cutoff time.Time) (int64, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

func prepare(rec *model.SearchRecord) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if len(rec.Criteria) == 0 {
		rec.Criteria = []byte("{}")
	}
}

func limitOf(f SearchFilter) uint64 {
	switch {
	case f.Limit <= 0:
		return defaultLimit
	case f.Limit > maxLimit:
		return maxLimit
	}
	return uint64(f.Limit)
}

// listQuery builds the ListSearches statement for the given placeholder style.
func listQuery(ph sq.PlaceholderFormat, f SearchFilter) (string, []any, error) {
	q := sq.StatementBuilder.PlaceholderFormat(ph).
		Select(searchColumns...).
		From(searchesTable).
		OrderBy("created_at DESC", "id DESC").
		Limit(limitOf(f))
	if f.Kind != "" {
		q = q.Where(sq.Eq{"kind": string(f.Kind)})
	}
	if !f.Since.IsZero() {
		q = q.Where(sq.GtOrEq{"created_at": f.Since.UTC()})
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	sqlStr, args, err := q.ToSql()
	return sqlStr, args, eris.Wrap(err, "store: build list query")
}
