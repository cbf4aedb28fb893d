package store

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/db"
	"github.com/sells-group/outreach-cli/internal/model"
)

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres connects to connString and returns a PostgresStore.
func NewPostgres(ctx context.Context, connString string, poolCfg db.PoolConfig) (*PostgresStore, error) {
	pool, err := db.Connect(ctx, connString, poolCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool. Close does not close it.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS searches (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	kind            TEXT NOT NULL,
	criteria        JSONB NOT NULL DEFAULT '{}'::jsonb,
	result          JSONB,
	used_web_search BOOLEAN NOT NULL DEFAULT false,
	result_count    INTEGER NOT NULL DEFAULT 0,
	error           TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_searches_kind_created_at ON searches(kind, created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveSearch(ctx context.Context, rec *model.SearchRecord) error {
	prepare(rec)
	sqlStr, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert(searchesTable).
		Columns(searchColumns...).
		Values(postgresRow(*rec)...).
		ToSql()
	if err != nil {
		return eris.Wrap(err, "postgres: build insert")
	}
	if _, err := s.pool.Exec(ctx, sqlStr, args...); err != nil {
		return eris.Wrapf(err, "postgres: insert search %s", rec.ID)
	}
	return nil
}

func (s *PostgresStore) ImportSearches(ctx context.Context, recs []model.SearchRecord) (int64, error) {
	rows := make([][]any, len(recs))
	for i := range recs {
		prepare(&recs[i])
		rows[i] = postgresRow(recs[i])
	}
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        searchesTable,
		Columns:      searchColumns,
		ConflictKeys: []string{"id"},
	}, rows)
	return n, eris.Wrap(err, "postgres: import searches")
}

func (s *PostgresStore) GetSearch(ctx context.Context, id string) (*model.SearchRecord, error) {
	sqlStr, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(searchColumns...).
		From(searchesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "postgres: build get")
	}
	rec, err := scanPostgres(s.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "id %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get search %s", id)
	}
	return rec, nil
}

func (s *PostgresStore) ListSearches(ctx context.Context, filter SearchFilter) ([]model.SearchRecord, error) {
	sqlStr, args, err := listQuery(sq.Dollar, filter)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list searches")
	}
	defer rows.Close()

	out := []model.SearchRecord{}
	for rows.Next() {
		rec, err := scanPostgres(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan search")
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list searches iterate")
}

func (s *PostgresStore) PruneSearches(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM searches WHERE created_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, eris.Wrap(err, "postgres: prune searches")
	}
	return tag.RowsAffected(), nil
}

func postgresRow(rec model.SearchRecord) []any {
	var result []byte
	if len(rec.Result) > 0 {
		result = rec.Result
	}
	return []any{
		rec.ID, string(rec.Kind), []byte(rec.Criteria), result,
		rec.UsedWebSearch, rec.ResultCount, rec.Error, rec.CreatedAt,
	}
}

func scanPostgres(row pgx.Row) (*model.SearchRecord, error) {
	var (
		rec      model.SearchRecord
		kind     string
		criteria []byte
		result   []byte
	)
	if err := row.Scan(&rec.ID, &kind, &criteria, &result, &rec.UsedWebSearch, &rec.ResultCount, &rec.Error, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.Kind = model.SearchKind(kind)
	rec.Criteria = criteria
	if len(result) > 0 {
		rec.Result = result
	}
	return &rec, nil
}
