// Package postgres persists profiles to a Postgres table as JSONB, one row
// per profile and bucket.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"rostercore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.ProfileStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/rostercore?sslmode=disable"

	bucketSettings = "settings"
	bucketRoster   = "roster"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store is a Postgres-backed profile store.
type Store struct {
	db *sql.DB
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back
// to defaultDSN) and ensures the profiles table exists.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	ddl := `CREATE TABLE IF NOT EXISTS profiles (
		profile TEXT NOT NULL,
		bucket TEXT NOT NULL,
		payload JSONB NOT NULL,
		PRIMARY KEY (profile, bucket)
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("ensure profiles table: %w", err)
	}
	return &Store{db: db}, nil
}

// LoadSettings returns the stored settings for the profile. A missing row
// reports found=false without error.
func (s *Store) LoadSettings(ctx context.Context, profile string) (domain.ProfileSettings, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM profiles WHERE profile = $1 AND bucket = $2`, profile, bucketSettings).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ProfileSettings{}, false, nil
	}
	if err != nil {
		return domain.ProfileSettings{}, false, fmt.Errorf("select settings: %w", err)
	}
	var settings domain.ProfileSettings
	if err := json.Unmarshal(payload, &settings); err != nil {
		return domain.ProfileSettings{}, false, fmt.Errorf("decode settings: %w", err)
	}
	return settings, true, nil
}

// LoadRoster returns the stored roster, or nil when the profile has none.
func (s *Store) LoadRoster(ctx context.Context, profile string) (*domain.Roster, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM profiles WHERE profile = $1 AND bucket = $2`, profile, bucketRoster).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select roster: %w", err)
	}
	var roster domain.Roster
	if err := json.Unmarshal(payload, &roster); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return &roster, nil
}

// Save upserts both buckets in one transaction. A nil roster deletes the
// roster row.
func (s *Store) Save(ctx context.Context, profile string, settings domain.ProfileSettings, roster *domain.Roster) error {
	settingsPayload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO profiles(profile,bucket,payload) VALUES($1,$2,$3)
		 ON CONFLICT(profile,bucket) DO UPDATE SET payload=EXCLUDED.payload`,
		profile, bucketSettings, settingsPayload); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	if roster == nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM profiles WHERE profile = $1 AND bucket = $2`, profile, bucketRoster); err != nil {
			return fmt.Errorf("delete roster: %w", err)
		}
	} else {
		rosterPayload, err := json.Marshal(roster)
		if err != nil {
			return fmt.Errorf("encode roster: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profiles(profile,bucket,payload) VALUES($1,$2,$3)
			 ON CONFLICT(profile,bucket) DO UPDATE SET payload=EXCLUDED.payload`,
			profile, bucketRoster, rosterPayload); err != nil {
			return fmt.Errorf("upsert roster: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore
// function.
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
