package memory

import (
	"context"
	"testing"

	"rostercore/pkg/domain"
)

func TestRoundTripAndIsolation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	roster := &domain.Roster{Students: []domain.Member{{ID: "s1", Name: "Alice"}}}
	if err := store.Save(ctx, "p", domain.ProfileSettings{Course: domain.CourseRef{Name: "Nets"}}, roster); err != nil {
		t.Fatalf("save: %v", err)
	}

	// The store must not share memory with the caller.
	roster.Students[0].Name = "mutated"
	loaded, err := store.LoadRoster(ctx, "p")
	if err != nil || loaded == nil {
		t.Fatalf("load roster: %v %v", loaded, err)
	}
	if loaded.Students[0].Name != "Alice" {
		t.Fatal("store aliases the saved roster")
	}
	loaded.Students[0].Name = "also mutated"
	reloaded, _ := store.LoadRoster(ctx, "p")
	if reloaded.Students[0].Name != "Alice" {
		t.Fatal("store aliases loaded rosters")
	}
}

func TestMissingProfile(t *testing.T) {
	store := NewStore()
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

func TestNilRosterClears(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	roster := &domain.Roster{Students: []domain.Member{{ID: "s1"}}}
	_ = store.Save(ctx, "p", domain.ProfileSettings{}, roster)
	_ = store.Save(ctx, "p", domain.ProfileSettings{}, nil)
	got, err := store.LoadRoster(ctx, "p")
	if err != nil || got != nil {
		t.Fatalf("roster after clear = %v, err %v", got, err)
	}
	if names := store.Profiles(); len(names) != 1 || names[0] != "p" {
		t.Fatalf("profiles = %v", names)
	}
}
