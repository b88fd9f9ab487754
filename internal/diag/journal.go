package diag

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is one journaled read failure.
type Entry struct {
	ID   int64
	At   time.Time
	Line string
}

// Journal stores read-failure lines in SQLite so they survive restarts. Samples are
// never written here.
type Journal struct {
	db     *sql.DB
	clock  clockwork.Clock
	logger *slog.Logger
}

// OpenJournal opens (creating if needed) the SQLite journal at path and applies pending
// migrations. A nil logger means slog.Default().
func OpenJournal(ctx context.Context, path string, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dsn, err := buildDSN(path)
	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(newTraceConnector(dsn, logger))
	// one writer; also keeps ":memory:" on a single database
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal ping: %w", err)
	}
	if err := migrate(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal migrate: %w", err)
	}
	return &Journal{db: db, clock: clockwork.NewRealClock(), logger: logger}, nil
}

// Append stores line with the current time.
func (j *Journal) Append(ctx context.Context, line string) error {
	at := j.clock.Now().UTC().Format(timeLayout)
	if _, err := j.db.ExecContext(ctx,
		`INSERT INTO read_failures (at, line) VALUES (?, ?)`, at, line,
	); err != nil {
		return fmt.Errorf("journal append: %w", err)
	}
	return nil
}

// Record implements Sink. Storage errors are logged, never returned to the tick.
func (j *Journal) Record(ctx context.Context, line string) {
	if err := j.Append(ctx, line); err != nil {
		j.logger.ErrorContext(ctx, "diagnostic journal write failed", "err", err)
	}
}

// Recent returns up to n entries, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, at, line FROM read_failures ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("journal recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			at string
		)
		if err := rows.Scan(&e.ID, &at, &e.Line); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		e.At, err = time.Parse(timeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("journal entry %d: bad time %q: %w", e.ID, at, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of journaled failures.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM read_failures`).Scan(&n); err != nil {
		return 0, fmt.Errorf("journal count: %w", err)
	}
	return n, nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

func buildDSN(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("journal path is empty")
	}
	if dir := filepath.Dir(path); dir != "." && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	params := []string{
		"_foreign_keys=on",
		"_busy_timeout=5000",
		"_journal_mode=WAL",
	}
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}
	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}
