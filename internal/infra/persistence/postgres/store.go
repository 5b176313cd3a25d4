// Package postgres provides a Postgres-backed domain store mirroring the
// sqlite driver's single state table, with JSONB payloads.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/zaocat/Purrfit/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.Store = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/purrfit?sslmode=disable"

	bucketWeights = "weights"
	bucketConfig  = "config"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists state to Postgres.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back
// to defaultDSN) and ensures the state table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	ddl := `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("ensure state table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) loadBucket(ctx context.Context, bucket string, target any) (bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = $1`, bucket).Scan(&payload)
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
	if _, err := s.db.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`, bucket, payload); err != nil {
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
	if _, err := s.db.ExecContext(ctx, `DELETE FROM state WHERE bucket IN ($1,$2)`, bucketWeights, bucketConfig); err != nil {
		return fmt.Errorf("reset state: %w", err)
	}
	return nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
