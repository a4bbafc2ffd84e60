package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"media-gallery/internal/logging"
	"media-gallery/internal/mediatypes"
	"media-gallery/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// ErrNotFound is returned when a path has no catalog entry.
var ErrNotFound = errors.New("catalog: item not found")

// Item is a catalogued descriptor with the file version it was probed from.
type Item struct {
	mediatypes.Descriptor
	ModTime time.Time `json:"modTime"`
}

// Store persists descriptors in SQLite.
type Store struct {
	db      *sql.DB
	dbPath  string
	mu      sync.RWMutex
	statsMu sync.RWMutex
	stats   metrics.Stats
}

// New opens or creates the catalog database at dbPath. The parent
// directory must already exist.
func New(ctx context.Context, dbPath string) (*Store, error) {
	logging.Info("Catalog database path: %s", dbPath)

	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close catalog database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}
	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close catalog database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	if err := s.refreshStats(ctx); err != nil {
		logging.Warn("Failed to load catalog statistics: %v", err)
	}

	logging.Info("Catalog initialized successfully at %s", dbPath)
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS media_items (
		path TEXT PRIMARY KEY,
		parent_path TEXT NOT NULL,
		kind TEXT NOT NULL,
		width INTEGER NOT NULL DEFAULT 0,
		height INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		mod_time INTEGER NOT NULL,
		probed_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_media_items_parent ON media_items(parent_path);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert inserts or replaces the entry for item.Path.
func (s *Store) Upsert(ctx context.Context, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO media_items (path, parent_path, kind, width, height, duration_ms, mod_time, probed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, strftime('%s', 'now'))
		ON CONFLICT(path) DO UPDATE SET
			kind = excluded.kind,
			width = excluded.width,
			height = excluded.height,
			duration_ms = excluded.duration_ms,
			mod_time = excluded.mod_time,
			probed_at = excluded.probed_at
	`,
		item.Path, filepath.Dir(item.Path), string(item.Kind),
		item.Width, item.Height, item.Duration.Milliseconds(), item.ModTime.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upserting %s: %w", item.Path, err)
	}
	return nil
}

// Get returns the entry for path, or ErrNotFound.
func (s *Store) Get(ctx context.Context, path string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
		SELECT path, kind, width, height, duration_ms, mod_time
		FROM media_items WHERE path = ?
	`, path)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	return item, err
}

// List returns the entries directly inside dir, ordered by path.
func (s *Store) List(ctx context.Context, dir string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, kind, width, height, duration_ms, mod_time
		FROM media_items WHERE parent_path = ?
		ORDER BY path
	`, filepath.Clean(dir))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Warn("failed to close rows: %v", err)
		}
	}()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Prune deletes entries in dir whose paths are not in keep.
func (s *Store) Prune(ctx context.Context, dir string, keep []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `CREATE TEMP TABLE IF NOT EXISTS keep_paths (path TEXT PRIMARY KEY)`); err != nil {
		return 0, s.rollback(tx, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM keep_paths`); err != nil {
		return 0, s.rollback(tx, err)
	}
	for _, p := range keep {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO keep_paths (path) VALUES (?)`, p); err != nil {
			return 0, s.rollback(tx, err)
		}
	}
	res, err := tx.ExecContext(ctx, `
		DELETE FROM media_items
		WHERE parent_path = ? AND path NOT IN (SELECT path FROM keep_paths)
	`, filepath.Clean(dir))
	if err != nil {
		return 0, s.rollback(tx, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) rollback(tx *sql.Tx, err error) error {
	if rbErr := tx.Rollback(); rbErr != nil {
		return errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(r rowScanner) (Item, error) {
	var (
		item       Item
		kind       string
		durationMs int64
		modTime    int64
	)
	if err := r.Scan(&item.Path, &kind, &item.Width, &item.Height, &durationMs, &modTime); err != nil {
		return Item{}, err
	}
	item.Kind = mediatypes.FileType(kind)
	item.Duration = time.Duration(durationMs) * time.Millisecond
	item.ModTime = time.Unix(modTime, 0)
	return item, nil
}

// SetLastScan records when a directory scan last completed.
func (s *Store) SetLastScan(ctx context.Context, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO metadata (key, value) VALUES ('last_scan', ?)`,
		t.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) refreshStats(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var stats metrics.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN kind = 'image' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'video' THEN 1 ELSE 0 END), 0)
		FROM media_items
	`).Scan(&stats.TotalItems, &stats.TotalImages, &stats.TotalVideos)
	if err != nil {
		return err
	}

	var lastScan sql.NullString
	err = s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'last_scan'`).Scan(&lastScan)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if lastScan.Valid {
		if t, perr := time.Parse(time.RFC3339, lastScan.String); perr == nil {
			stats.LastScan = t
		}
	}

	s.statsMu.Lock()
	s.stats = stats
	s.statsMu.Unlock()
	return nil
}

// GetStats returns the cached catalog statistics. It satisfies
// metrics.StatsProvider.
func (s *Store) GetStats() metrics.Stats {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()
	return s.stats
}
