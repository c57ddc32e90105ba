package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"rostercore/pkg/domain"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "profiles.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	num := "1234"
	settings := domain.ProfileSettings{
		Course:        domain.CourseRef{ID: "c1", Name: "Databases"},
		GitConnection: "campus-git",
		Exports:       domain.ExportSettings{Formats: []domain.ExportFormat{domain.FormatCSV}, Path: "out"},
	}
	roster := &domain.Roster{
		Students: []domain.Member{{ID: "s1", Name: "Alice", Email: "alice@example.edu", StudentNumber: &num, Status: domain.MemberActive}},
		Groups:   []domain.Group{{ID: "g1", Name: "team", MemberIDs: []string{"s1"}, Origin: domain.OriginLocal}},
		GroupSets: []domain.GroupSet{{
			ID: "gs1", Name: "Projects", GroupIDs: []string{"g1"},
		}},
		Assignments: []domain.Assignment{{ID: "a1", Name: "lab-1", GroupSetID: "gs1", Selection: domain.GroupSelection{Mode: domain.SelectAll}}},
	}

	if err := store.Save(ctx, "p", settings, roster); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, found, err := store.LoadSettings(ctx, "p")
	if err != nil || !found {
		t.Fatalf("load settings: %v found=%v", err, found)
	}
	if loaded.Course.Name != "Databases" || loaded.GitConnection != "campus-git" {
		t.Fatalf("settings = %+v", loaded)
	}
	gotRoster, err := store.LoadRoster(ctx, "p")
	if err != nil || gotRoster == nil {
		t.Fatalf("load roster: %v %v", gotRoster, err)
	}
	if len(gotRoster.Students) != 1 || *gotRoster.Students[0].StudentNumber != "1234" {
		t.Fatalf("roster = %+v", gotRoster)
	}
}

func TestMissingProfileNotAnError(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	_, found, err := store.LoadSettings(ctx, "ghost")
	if err != nil || found {
		t.Fatalf("settings: err=%v found=%v", err, found)
	}
	roster, err := store.LoadRoster(ctx, "ghost")
	if err != nil || roster != nil {
		t.Fatalf("roster: %v %v", roster, err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	roster := &domain.Roster{Students: []domain.Member{{ID: "s1", Name: "Alice"}}}
	if err := store.Save(ctx, "p", domain.ProfileSettings{Course: domain.CourseRef{Name: "v1"}}, roster); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "p", domain.ProfileSettings{Course: domain.CourseRef{Name: "v2"}}, roster); err != nil {
		t.Fatalf("second save: %v", err)
	}
	settings, _, err := store.LoadSettings(ctx, "p")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if settings.Course.Name != "v2" {
		t.Fatalf("course = %q, want v2", settings.Course.Name)
	}
}

func TestNilRosterClearsStoredRoster(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	roster := &domain.Roster{Students: []domain.Member{{ID: "s1"}}}
	if err := store.Save(ctx, "p", domain.ProfileSettings{}, roster); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "p", domain.ProfileSettings{}, nil); err != nil {
		t.Fatalf("clearing save: %v", err)
	}
	got, err := store.LoadRoster(ctx, "p")
	if err != nil || got != nil {
		t.Fatalf("roster after clear = %v, err %v", got, err)
	}
}

func TestProfilesIsolated(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, "a", domain.ProfileSettings{Course: domain.CourseRef{Name: "A"}}, nil); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := store.Save(ctx, "b", domain.ProfileSettings{Course: domain.CourseRef{Name: "B"}}, nil); err != nil {
		t.Fatalf("save b: %v", err)
	}
	settings, _, err := store.LoadSettings(ctx, "a")
	if err != nil {
		t.Fatalf("load a: %v", err)
	}
	if settings.Course.Name != "A" {
		t.Fatalf("profile a course = %q", settings.Course.Name)
	}
}

func TestReopenSeesPersistedState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.db")
	ctx := context.Background()

	first, err := NewStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Save(ctx, "p", domain.ProfileSettings{Course: domain.CourseRef{Name: "persisted"}}, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = second.Close() }()
	settings, found, err := second.LoadSettings(ctx, "p")
	if err != nil || !found {
		t.Fatalf("load after reopen: %v found=%v", err, found)
	}
	if settings.Course.Name != "persisted" {
		t.Fatalf("course = %q", settings.Course.Name)
	}
}
