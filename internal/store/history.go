package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/grecsai/grecs/internal/history"
	"github.com/grecsai/grecs/internal/study"
)

var historyColumns = []string{
	"sequence", "entry_id", "session_id", "mode", "input", "response", "timestamp",
}

// historyRepo implements HistoryRepo over SQLite.
type historyRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *historyRepo) AppendHistory(ctx context.Context, sessionID string, entry history.Entry) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := sqlite().Insert(tableHistory).
		Columns(historyColumns...).
		Values(
			seqNum, entry.ID, sessionID, string(entry.Mode),
			entry.Input, entry.Response, entry.Timestamp.UnixNano(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save history entry: %w", err)
	}
	return nil
}

func (r *historyRepo) QueryHistory(ctx context.Context, q HistoryQuery) ([]ArchivedEntry, error) {
	sel := sqlite().Select(historyColumns...).
		From(entsql.Table(tableHistory)).
		OrderBy(entsql.Desc("sequence"))
	if q.SessionID != "" {
		sel.Where(entsql.EQ("session_id", q.SessionID))
	}
	if q.Mode != "" {
		sel.Where(entsql.EQ("mode", q.Mode))
	}
	applyRange(sel, q.QueryOpts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []ArchivedEntry
	for rows.Next() {
		e, err := scanArchivedEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return out, nil
}

func (r *historyRepo) GetHistory(ctx context.Context, entryID string) (*ArchivedEntry, error) {
	query, args := sqlite().Select(historyColumns...).
		From(entsql.Table(tableHistory)).
		Where(entsql.EQ("entry_id", entryID)).
		Query()

	e, err := scanArchivedEntry(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("history entry %s: %w", entryID, ErrNotFound)
	}
	return e, err
}

func scanArchivedEntry(row rowScanner) (*ArchivedEntry, error) {
	var (
		e    ArchivedEntry
		mode string
		ts   int64
	)
	err := row.Scan(&e.Sequence, &e.ID, &e.SessionID, &mode, &e.Input, &e.Response, &ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan history entry: %w", err)
	}
	e.Mode = study.Mode(mode)
	e.Timestamp = time.Unix(0, ts)
	return &e, nil
}

// LedgerArchiver adapts a HistoryRepo to history.Archiver for one session.
type LedgerArchiver struct {
	Repo      HistoryRepo
	SessionID string
}

// ArchiveEntry implements history.Archiver.
func (a LedgerArchiver) ArchiveEntry(ctx context.Context, e history.Entry) error {
	return a.Repo.AppendHistory(ctx, a.SessionID, e)
}
