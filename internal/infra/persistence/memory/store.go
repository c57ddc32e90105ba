// Package memory implements an in-memory ProfileStore for tests and
// ephemeral runs.
package memory

import (
	"context"
	"sync"

	"rostercore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.ProfileStore = (*Store)(nil)

type record struct {
	settings    domain.ProfileSettings
	hasSettings bool
	roster      *domain.Roster
}

// Store keeps profiles in process memory. Stored values are deep copies, so
// callers never share state with the store.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]record
}

// NewStore returns an empty in-memory profile store.
func NewStore() *Store {
	return &Store{profiles: make(map[string]record)}
}

// LoadSettings returns the stored settings for the profile. A missing
// profile reports found=false without error.
func (s *Store) LoadSettings(_ context.Context, profile string) (domain.ProfileSettings, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.profiles[profile]
	if !ok || !rec.hasSettings {
		return domain.ProfileSettings{}, false, nil
	}
	return rec.settings.Clone(), true, nil
}

// LoadRoster returns the stored roster, or nil when the profile has none.
func (s *Store) LoadRoster(_ context.Context, profile string) (*domain.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.profiles[profile]
	if !ok || rec.roster == nil {
		return nil, nil
	}
	r := rec.roster.Clone()
	return &r, nil
}

// Save stores settings and roster for the profile, replacing any previous
// state. A nil roster clears the stored roster.
func (s *Store) Save(_ context.Context, profile string, settings domain.ProfileSettings, roster *domain.Roster) error {
	rec := record{settings: settings.Clone(), hasSettings: true}
	if roster != nil {
		r := roster.Clone()
		rec.roster = &r
	}
	s.mu.Lock()
	s.profiles[profile] = rec
	s.mu.Unlock()
	return nil
}

// Profiles returns the stored profile names, for tests.
func (s *Store) Profiles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		out = append(out, name)
	}
	return out
}
