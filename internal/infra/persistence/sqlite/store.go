// Package sqlite persists the two logical keys to a single SQLite table as
// JSON blobs, rewriting the affected value whole on every save.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/zaocat/Purrfit/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.Store = (*Store)(nil)

const (
	bucketWeights = "weights"
	bucketConfig  = "config"
)

// Store is a SQLite-backed domain store.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens (creating when necessary) the SQLite database at path,
// defaulting to ./purrfit.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "purrfit.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) loadBucket(ctx context.Context, bucket string, target any) (bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = ?`, bucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select %s: %w", bucket, err)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return false, fmt.Errorf("decode %s: %w", bucket, err)
	}
	return true, nil
}

func (s *Store) saveBucket(ctx context.Context, bucket string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", bucket, err)
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, payload); err != nil {
		return fmt.Errorf("upsert %s: %w", bucket, err)
	}
	return nil
}

// LoadRecords returns the stored record list, empty when the key is absent.
func (s *Store) LoadRecords(ctx context.Context) ([]domain.WeightRecord, error) {
	var records []domain.WeightRecord
	if _, err := s.loadBucket(ctx, bucketWeights, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveRecords rewrites the record list whole.
func (s *Store) SaveRecords(ctx context.Context, records []domain.WeightRecord) error {
	if records == nil {
		records = []domain.WeightRecord{}
	}
	return s.saveBucket(ctx, bucketWeights, records)
}

// LoadSettings returns the stored settings and whether the key exists.
func (s *Store) LoadSettings(ctx context.Context) (domain.Settings, bool, error) {
	var settings domain.Settings
	ok, err := s.loadBucket(ctx, bucketConfig, &settings)
	if err != nil {
		return domain.Settings{}, false, err
	}
	return settings, ok, nil
}

// SaveSettings rewrites the settings whole.
func (s *Store) SaveSettings(ctx context.Context, settings domain.Settings) error {
	return s.saveBucket(ctx, bucketConfig, settings)
}

// Reset deletes both keys.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM state WHERE bucket IN (?,?)`, bucketWeights, bucketConfig); err != nil {
		return fmt.Errorf("reset state: %w", err)
	}
	return nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
