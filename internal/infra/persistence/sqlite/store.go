// Package sqlite persists profiles to a single SQLite table as JSON blobs,
// one row per profile and bucket.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"rostercore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.ProfileStore = (*Store)(nil)

const (
	bucketSettings = "settings"
	bucketRoster   = "roster"
)

// Store is a SQLite-backed profile store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database at path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "rostercore.db"
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
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS profiles (
		profile TEXT NOT NULL,
		bucket TEXT NOT NULL,
		payload BLOB NOT NULL,
		PRIMARY KEY (profile, bucket)
	)`); err != nil {
		return nil, fmt.Errorf("create profiles table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// LoadSettings returns the stored settings for the profile. A missing row
// reports found=false without error.
func (s *Store) LoadSettings(ctx context.Context, profile string) (domain.ProfileSettings, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM profiles WHERE profile = ? AND bucket = ?`, profile, bucketSettings).Scan(&payload)
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
		`SELECT payload FROM profiles WHERE profile = ? AND bucket = ?`, profile, bucketRoster).Scan(&payload)
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
func (s *Store) Save(ctx context.Context, profile string, settings domain.ProfileSettings, roster *domain.Roster) (retErr error) {
	settingsPayload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO profiles(profile,bucket,payload) VALUES(?,?,?)
		 ON CONFLICT(profile,bucket) DO UPDATE SET payload=excluded.payload`,
		profile, bucketSettings, settingsPayload); err != nil {
		retErr = fmt.Errorf("upsert settings: %w", err)
		return retErr
	}
	if roster == nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM profiles WHERE profile = ? AND bucket = ?`, profile, bucketRoster); err != nil {
			retErr = fmt.Errorf("delete roster: %w", err)
			return retErr
		}
	} else {
		rosterPayload, err := json.Marshal(roster)
		if err != nil {
			retErr = fmt.Errorf("encode roster: %w", err)
			return retErr
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profiles(profile,bucket,payload) VALUES(?,?,?)
			 ON CONFLICT(profile,bucket) DO UPDATE SET payload=excluded.payload`,
			profile, bucketRoster, rosterPayload); err != nil {
			retErr = fmt.Errorf("upsert roster: %w", err)
			return retErr
		}
	}
	if err := tx.Commit(); err != nil {
		retErr = err
	}
	return retErr
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
