package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/nerrad567/gray-logic-node/internal/infrastructure/config"
)

const (
	// dirPermissions is the permission mode for the journal directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for the journal file.
	filePermissions = 0600

	// msPerSecond converts seconds to milliseconds.
	msPerSecond = 1000

	// connectionTimeout is the timeout for verifying journal connectivity.
	connectionTimeout = 5 * time.Second
)

// Direction records which way a journalled message travelled.
type Direction string

const (
	// Inbound marks a message received from the broker.
	Inbound Direction = "in"

	// Outbound marks a message published by this node.
	Outbound Direction = "out"
)

// schema creates the message log on first open. Kept as a single
// statement; the table is append-only and never migrated in place.
const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at TEXT NOT NULL,
	direction   TEXT NOT NULL CHECK (direction IN ('in', 'out')),
	topic       TEXT NOT NULL,
	payload     BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_recorded_at ON messages(recorded_at);
`

// Entry is one journalled message.
type Entry struct {
	ID         int64
	RecordedAt time.Time
	Direction  Direction
	Topic      string
	Payload    []byte
}

// Journal is an append-only SQLite log of messages crossing the node.
// It exists so a field engineer can reconstruct what a node saw and sent
// without broker-side tooling.
type Journal struct {
	db   *sql.DB
	path string
}

// Open creates the journal database at cfg.Path, creating the directory
// and schema as needed.
//
// The connection is configured for a single writer with WAL mode and a
// busy timeout, matching SQLite's sweet spot for an append-heavy log.
//
// Parameters:
//   - cfg: Journal configuration
//
// Returns:
//   - *Journal: Ready-to-use journal
//   - error: If the database cannot be opened or initialised
func Open(cfg config.JournalConfig) (*Journal, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("journal: creating directory: %w", err)
	}

	// See: https://github.com/mattn/go-sqlite3#connection-string
	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.Path,
		cfg.BusyTimeout*msPerSecond,
	)
	if cfg.WALMode {
		connStr += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("journal: opening database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("journal: verifying connection: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("journal: creating schema: %w", err)
	}

	// Ignore error - file might not exist yet on first run.
	_ = os.Chmod(cfg.Path, filePermissions)

	return &Journal{db: db, path: cfg.Path}, nil
}

// Record appends one message to the journal.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - dir: Message direction (Inbound or Outbound)
//   - topic: MQTT topic the message travelled on
//   - payload: Raw message bytes
//
// Returns:
//   - error: If the insert fails
func (j *Journal) Record(ctx context.Context, dir Direction, topic string, payload []byte) error {
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO messages (recorded_at, direction, topic, payload) VALUES (?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339Nano), string(dir), topic, payload,
	)
	if err != nil {
		return fmt.Errorf("journal: recording message: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first, up to limit.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - limit: Maximum number of entries to return
//
// Returns:
//   - []Entry: Matching entries, newest first
//   - error: If the query fails
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT id, recorded_at, direction, topic, payload FROM messages ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("journal: querying entries: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			recorded  string
			direction string
		)
		if err := rows.Scan(&e.ID, &recorded, &direction, &e.Topic, &e.Payload); err != nil {
			return nil, fmt.Errorf("journal: scanning entry: %w", err)
		}
		e.Direction = Direction(direction)
		if e.RecordedAt, err = time.Parse(time.RFC3339Nano, recorded); err != nil {
			return nil, fmt.Errorf("journal: parsing timestamp: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: iterating entries: %w", err)
	}
	return entries, nil
}

// Count returns the total number of journalled messages.
func (j *Journal) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&n); err != nil {
		return 0, fmt.Errorf("journal: counting entries: %w", err)
	}
	return n, nil
}

// HealthCheck verifies the journal database is accessible.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (j *Journal) HealthCheck(ctx context.Context) error {
	var result int
	if err := j.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("journal: health check failed: %w", err)
	}
	return nil
}

// Path returns the filesystem path to the journal file.
func (j *Journal) Path() string {
	return j.path
}

// Close closes the journal database.
// It should be called when the node shuts down.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	if err := j.db.Close(); err != nil {
		return fmt.Errorf("journal: closing database: %w", err)
	}
	return nil
}
