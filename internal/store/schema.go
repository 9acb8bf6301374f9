package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	tableLLMEvents = "llm_request_events"
	tableHistory   = "history_entries"
)

// sqlite returns a statement builder for the SQLite dialect.
func sqlite() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// schemaStatements create the tables and indexes. Queries go through the
// ent builder; the DDL is plain SQLite since it never varies.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ` + tableLLMEvents + ` (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL UNIQUE,
		timestamp     INTEGER NOT NULL,
		provider      TEXT    NOT NULL,
		model         TEXT    NOT NULL,
		purpose       TEXT    NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT    NOT NULL DEFAULT '',
		request_body  TEXT    NOT NULL DEFAULT '',
		response_body TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS ` + tableHistory + ` (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence   INTEGER NOT NULL UNIQUE,
		entry_id   TEXT    NOT NULL UNIQUE,
		session_id TEXT    NOT NULL,
		mode       TEXT    NOT NULL,
		input      TEXT    NOT NULL,
		response   TEXT    NOT NULL,
		timestamp  INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_events_purpose ON ` + tableLLMEvents + ` (purpose)`,
	`CREATE INDEX IF NOT EXISTS idx_history_session ON ` + tableHistory + ` (session_id)`,
}

// migrate creates the tables if they do not exist yet.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, q := range schemaStatements {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// applyRange adds the shared QueryOpts predicates to a selector.
func applyRange(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UnixNano()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UnixNano()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
