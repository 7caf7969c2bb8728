// Package store persists records in SQLite, keyed by TOON identifier.
//
// Each row keeps both the raw line-oriented text and the JSON
// serialization of the record, plus a BLAKE3 fingerprint of the raw
// text for change detection. Reads go through an in-process LRU cache.
package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite" // SQLite driver

	km "github.com/kormarc/validator"
	"github.com/kormarc/validator/worker"
)

// ErrNotFound is returned when no record exists for an identifier.
var ErrNotFound = errors.New("record not found")

const schema = `
CREATE TABLE IF NOT EXISTS kormarc_records (
	toon_id     TEXT PRIMARY KEY,
	isbn        TEXT,
	fingerprint TEXT NOT NULL,
	raw         TEXT NOT NULL,
	parsed_data TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_kormarc_records_isbn ON kormarc_records(isbn);
`

// Config configures a Store.
type Config struct {
	// Path is the SQLite database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration

	// CacheSize is the parsed-record cache capacity. Default: 256.
	CacheSize int
}

// Store is a SQLite-backed record store. Safe for concurrent use.
type Store struct {
	db     *sql.DB
	cache  *recordCache
	logger *slog.Logger
}

// Open opens or creates the database at cfg.Path and ensures the
// schema exists. The database runs in WAL mode.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("store: path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: opening database: %w", err)
	}

	// Single writer; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: initializing schema: %w", err)
	}

	return &Store{
		db:     db,
		cache:  newRecordCache(cfg.CacheSize),
		logger: slog.Default().With("component", "store"),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts a record under the given TOON identifier.
func (s *Store) Save(ctx context.Context, toonID string, rec *km.Record) error {
	if toonID == "" {
		return errors.New("store: empty record identifier")
	}
	if rec == nil {
		return errors.New("store: nil record")
	}

	raw := rec.String()
	sum := blake3.Sum256([]byte(raw))
	parsed, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: serializing record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kormarc_records (toon_id, isbn, fingerprint, raw, parsed_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (toon_id) DO UPDATE SET
			isbn = excluded.isbn,
			fingerprint = excluded.fingerprint,
			raw = excluded.raw,
			parsed_data = excluded.parsed_data`,
		toonID, rec.ISBN(), hex.EncodeToString(sum[:]), raw, string(parsed), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store: saving record %s: %w", toonID, err)
	}

	s.cache.put(toonID, rec)
	s.logger.Debug("record saved", "id", toonID, "isbn", rec.ISBN())
	return nil
}

// Get loads a record by TOON identifier, from cache when possible.
func (s *Store) Get(ctx context.Context, toonID string) (*km.Record, error) {
	if rec, ok := s.cache.get(toonID); ok {
		return rec, nil
	}

	var parsed string
	err := s.db.QueryRowContext(ctx,
		`SELECT parsed_data FROM kormarc_records WHERE toon_id = ?`, toonID).Scan(&parsed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: loading record %s: %w", toonID, err)
	}

	rec, err := km.RecordFromJSON([]byte(parsed))
	if err != nil {
		return nil, fmt.Errorf("store: restoring record %s: %w", toonID, err)
	}
	s.cache.put(toonID, rec)
	return rec, nil
}

// Fingerprint returns the stored BLAKE3 fingerprint for an identifier.
func (s *Store) Fingerprint(ctx context.Context, toonID string) (string, error) {
	var fp string
	err := s.db.QueryRowContext(ctx,
		`SELECT fingerprint FROM kormarc_records WHERE toon_id = ?`, toonID).Scan(&fp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: loading fingerprint %s: %w", toonID, err)
	}
	return fp, nil
}

// FindByISBN returns the identifiers of records with the given ISBN,
// oldest first.
func (s *Store) FindByISBN(ctx context.Context, isbn string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT toon_id FROM kormarc_records WHERE isbn = ? ORDER BY created_at`, isbn)
	if err != nil {
		return nil, fmt.Errorf("store: querying by ISBN: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scanning row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LoadAll returns all stored rows as batch validation input. A limit
// of zero or less loads everything.
func (s *Store) LoadAll(ctx context.Context, limit int) ([]worker.RecordRow, error) {
	query := `SELECT toon_id, parsed_data FROM kormarc_records`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: loading records: %w", err)
	}
	defer rows.Close()

	var out []worker.RecordRow
	for rows.Next() {
		var id, parsed string
		if err := rows.Scan(&id, &parsed); err != nil {
			return nil, fmt.Errorf("store: scanning row: %w", err)
		}
		out = append(out, worker.RecordRow{ID: id, Data: []byte(parsed)})
	}
	return out, rows.Err()
}

// Delete removes a record. Deleting a missing record is not an error.
func (s *Store) Delete(ctx context.Context, toonID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM kormarc_records WHERE toon_id = ?`, toonID); err != nil {
		return fmt.Errorf("store: deleting record %s: %w", toonID, err)
	}
	s.cache.remove(toonID)
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM kormarc_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: counting records: %w", err)
	}
	return n, nil
}

// CacheStats reports the read cache state.
func (s *Store) CacheStats() CacheStats {
	return s.cache.stats()
}
