// Package sqlite provides a SQLite-backed implementation of
// attemptlog.Repository.
//
// WAL mode is enabled on Open so readers never block writers: the
// checkout handler writes attempt rows while a status endpoint may be
// reading them.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/swifteats/checkout/internal/gate/attemptlog"

	// Register the pure-Go SQLite driver. modernc.org/sqlite avoids CGO,
	// so the service builds on Alpine images without a toolchain.
	_ "modernc.org/sqlite"
)

// schema is applied once on Open. The table is append-only: one immutable
// row per attempt transition. MAX(created_at) per cart_id gives the
// current state.
const schema = `
CREATE TABLE IF NOT EXISTS checkout_attempts (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Cart this attempt belongs to. Not UNIQUE: one row per transition.
    cart_id      TEXT NOT NULL,

    customer_id  TEXT NOT NULL,

    -- Lifecycle state at the time this row was written.
    status       TEXT NOT NULL,

    -- Gate prompt kind for BLOCKED rows (verify, address, payment, ...).
    prompt       TEXT NOT NULL DEFAULT '',

    -- Block message or submission error.
    detail       TEXT NOT NULL DEFAULT '',

    grand_total  REAL NOT NULL DEFAULT 0,

    -- W3C trace/span ids from the active OTel span, for jumping from a
    -- support query straight to the trace.
    trace_id     TEXT NOT NULL DEFAULT '',
    span_id      TEXT NOT NULL DEFAULT '',

    -- RFC3339 stored as TEXT, SQLite idiom.
    created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checkout_attempts_cart ON checkout_attempts(cart_id, created_at);
CREATE INDEX IF NOT EXISTS idx_checkout_attempts_trace ON checkout_attempts(trace_id);
`

// Repository is the SQLite implementation of attemptlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/checkout.db")
func Open(path string) (*Repository, error) {
	// busy_timeout waits for locks instead of failing immediately; WAL
	// lets readers run alongside the single writer.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	// The modernc driver registers as "sqlite", not "sqlite3".
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Defer it in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new attempt row. Safe for concurrent use.
func (r *Repository) Save(ctx context.Context, entry *attemptlog.Attempt) error {
	const q = `
		INSERT INTO checkout_attempts
			(cart_id, customer_id, status, prompt, detail, grand_total, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.CartID,
		entry.CustomerID,
		string(entry.Status),
		entry.Prompt,
		entry.Detail,
		entry.GrandTotal,
		entry.TraceID,
		entry.SpanID,
		entry.CreatedAt.UTC().Format("2006-01-02T15:04:05.999999999Z"),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save attempt for cart %q: %w", entry.CartID, err)
	}
	return nil
}

// GetLatest returns the most recent attempt row for a cart. Useful for a
// status endpoint and for support tooling.
func (r *Repository) GetLatest(ctx context.Context, cartID string) (*attemptlog.Attempt, error) {
	const q = `
		SELECT cart_id, customer_id, status, prompt, detail, grand_total,
		       trace_id, span_id, created_at
		FROM   checkout_attempts
		WHERE  cart_id = ?
		ORDER  BY created_at DESC, id DESC
		LIMIT  1`

	row := r.db.QueryRowContext(ctx, q, cartID)

	var entry attemptlog.Attempt
	var createdAt string
	err := row.Scan(
		&entry.CartID,
		&entry.CustomerID,
		&entry.Status,
		&entry.Prompt,
		&entry.Detail,
		&entry.GrandTotal,
		&entry.TraceID,
		&entry.SpanID,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sqlite: no attempts for cart %q", cartID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get latest for cart %q: %w", cartID, err)
	}

	entry.CreatedAt, err = parseRFC3339(createdAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
