package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"urlresolver/internal/application"
	"urlresolver/internal/domain"
	"urlresolver/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Store implements ports.CatalogStore using SQLite
type Store struct {
	db     *sql.DB
	dbPath string
}

var _ ports.CatalogStore = (*Store)(nil)

// NewStore creates an unopened catalog store
func NewStore() *Store {
	return &Store{}
}

// DefaultPath returns the catalog database location under the XDG data directory
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "urlresolver", "catalog.db")
}

// Open opens (creating if needed) the catalog database at path.
// An empty path means DefaultPath.
func (s *Store) Open(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	s.dbPath = path

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS entries (
			kind TEXT NOT NULL,
			id INTEGER NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			parent TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (kind, id)
		);
		CREATE TABLE IF NOT EXISTS imports (
			batch_id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			added INTEGER NOT NULL,
			replaced INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			imported_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Path returns the database file in use
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads every entry into an in-memory catalog
func (s *Store) Load(ctx context.Context) (domain.Catalog, error) {
	entries, err := s.List(ctx, domain.RouteUnknown)
	if err != nil {
		return nil, err
	}
	return domain.NewCatalog(entries), nil
}

// List returns entries of one kind ordered by id, or all entries when kind is RouteUnknown
func (s *Store) List(ctx context.Context, kind domain.RouteKind) ([]domain.CatalogEntry, error) {
	query := `SELECT kind, id, name, parent FROM entries`
	var args []any
	if kind != domain.RouteUnknown {
		query += ` WHERE kind = ?`
		args = append(args, kind.String())
	}
	query += ` ORDER BY kind, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.CatalogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get retrieves a single entry, returning application.ErrNotFound when it is absent
func (s *Store) Get(ctx context.Context, kind domain.RouteKind, id int64) (*domain.CatalogEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT kind, id, name, parent
		FROM entries WHERE kind = ? AND id = ?
	`, kind.String(), id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %d: %w", kind, id, application.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Count returns the number of entries per kind
func (s *Store) Count(ctx context.Context) (map[domain.RouteKind]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM entries GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.RouteKind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[domain.ParseRouteKind(kind)] += n
	}
	return counts, rows.Err()
}

// LastImport returns the most recent import record, or nil when nothing was imported
func (s *Store) LastImport(ctx context.Context) (*domain.ImportStats, error) {
	var stats domain.ImportStats
	var ms int64
	err := s.db.QueryRowContext(ctx, `
		SELECT batch_id, added, replaced, skipped, duration_ms
		FROM imports ORDER BY imported_at DESC, rowid DESC LIMIT 1
	`).Scan(&stats.BatchID, &stats.Added, &stats.Replaced, &stats.Skipped, &ms)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	stats.Duration = msToDuration(ms)
	return &stats, nil
}

// BeginTx starts a new transaction
func (s *Store) BeginTx(ctx context.Context) (ports.CatalogTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &catalogTx{tx: tx}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (domain.CatalogEntry, error) {
	var e domain.CatalogEntry
	var kind string
	if err := sc.Scan(&kind, &e.ID, &e.Name, &e.Parent); err != nil {
		return domain.CatalogEntry{}, err
	}
	e.Kind = domain.ParseRouteKind(kind)
	return e, nil
}
