package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/outreach-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS searches (
	id              TEXT PRIMARY KEY,
	kind            TEXT NOT NULL,
	criteria        TEXT NOT NULL DEFAULT '{}',
	result          TEXT,
	used_web_search BOOLEAN NOT NULL DEFAULT 0,
	result_count    INTEGER NOT NULL DEFAULT 0,
	error           TEXT NOT NULL DEFAULT '',
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);
CREATE INDEX IF NOT EXISTS idx_searches_kind_created_at ON searches(kind, created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSearch(ctx context.Context, rec *model.SearchRecord) error {
	prepare(rec)
	sqlStr, args, err := sq.Insert(searchesTable).
		Columns(searchColumns...).
		Values(sqliteRow(*rec)...).
		ToSql()
	if err != nil {
		return eris.Wrap(err, "sqlite: build insert")
	}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return eris.Wrapf(err, "sqlite: insert search %s", rec.ID)
	}
	return nil
}

func (s *SQLiteStore) ImportSearches(ctx context.Context, recs []model.SearchRecord) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: import: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	var n int64
	for i := range recs {
		prepare(&recs[i])
		sqlStr, args, err := sq.Insert(searchesTable).
			Options("OR REPLACE").
			Columns(searchColumns...).
			Values(sqliteRow(recs[i])...).
			ToSql()
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: build import")
		}
		res, err := tx.ExecContext(ctx, sqlStr, args...)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: import search %s", recs[i].ID)
		}
		affected, _ := res.RowsAffected()
		n += affected
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: import: commit tx")
	}
	return n, nil
}

func (s *SQLiteStore) GetSearch(ctx context.Context, id string) (*model.SearchRecord, error) {
	sqlStr, args, err := sq.Select(searchColumns...).
		From(searchesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: build get")
	}
	rec, err := scanSQLite(s.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "id %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get search %s", id)
	}
	return rec, nil
}

func (s *SQLiteStore) ListSearches(ctx context.Context, filter SearchFilter) ([]model.SearchRecord, error) {
	sqlStr, args, err := listQuery(sq.Question, filter)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list searches")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.SearchRecord{}
	for rows.Next() {
		rec, err := scanSQLite(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan search")
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list searches iterate")
}

func (s *SQLiteStore) PruneSearches(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM searches WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prune searches")
	}
	n, err := res.RowsAffected()
	return n, eris.Wrap(err, "sqlite: prune searches rows affected")
}

func sqliteRow(rec model.SearchRecord) []any {
	var result sql.NullString
	if len(rec.Result) > 0 {
		result = sql.NullString{String: string(rec.Result), Valid: true}
	}
	return []any{
		rec.ID, string(rec.Kind), string(rec.Criteria), result,
		rec.UsedWebSearch, rec.ResultCount, rec.Error, rec.CreatedAt.UTC(),
	}
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSQLite(row scannable) (*model.SearchRecord, error) {
	var (
		rec      model.SearchRecord
		kind     string
		criteria string
		result   sql.NullString
	)
	if err := row.Scan(&rec.ID, &kind, &criteria, &result, &rec.UsedWebSearch, &rec.ResultCount, &rec.Error, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.Kind = model.SearchKind(kind)
	rec.Criteria = []byte(criteria)
	if result.Valid && result.String != "" {
		rec.Result = []byte(result.String)
	}
	return &rec, nil
}
