package core

import (
	"testing"

	"rostercore/pkg/domain"
)

func TestGroupsInSetSkipsDangling(t *testing.T) {
	store, _ := newTestStore(t)
	groups := store.GroupsInSet("setA")
	if len(groups) != 2 || groups[0].ID != "g1" || groups[1].ID != "g2" {
		t.Fatalf("setA groups = %+v", groups)
	}
	if got := store.GroupsInSet("missing"); got != nil {
		t.Fatalf("missing set yielded %+v", got)
	}
}

func TestAssignmentGroupsSelectionModes(t *testing.T) {
	store, _ := newTestStore(t)

	if got := store.AssignmentGroups("a1"); len(got) != 2 {
		t.Fatalf("select-all groups = %d, want 2", len(got))
	}

	store.UpdateAssignment("a1", func(a *domain.Assignment) {
		a.Selection = domain.GroupSelection{Mode: domain.SelectExclude, ExcludedGroupIDs: []string{"g1"}}
	})
	got := store.AssignmentGroups("a1")
	if len(got) != 1 || got[0].ID != "g2" {
		t.Fatalf("exclude selection = %+v", got)
	}

	store.UpdateAssignment("a1", func(a *domain.Assignment) {
		a.Selection = domain.GroupSelection{Mode: domain.SelectPattern, Pattern: "team-1"}
	})
	got = store.AssignmentGroups("a1")
	if len(got) != 1 || got[0].ID != "g1" {
		t.Fatalf("pattern selection = %+v", got)
	}

	store.UpdateAssignment("a1", func(a *domain.Assignment) {
		a.Selection = domain.GroupSelection{Mode: domain.SelectPattern, Pattern: "["}
	})
	if got := store.AssignmentGroups("a1"); got != nil {
		t.Fatalf("malformed pattern selected %+v, want none", got)
	}
}

func TestAssignmentGroupsDanglingSet(t *testing.T) {
	store, _ := newTestStore(t)
	if !store.DeleteGroupSet("setA") {
		t.Fatal("expected deletion to commit")
	}
	if got := store.AssignmentGroups("a1"); got != nil {
		t.Fatalf("dangling set reference selected %+v, want none", got)
	}
}

func TestSelectorMemoInvalidatedByMutation(t *testing.T) {
	store, _ := newTestStore(t)
	first := store.GroupsInSet("setA")
	again := store.GroupsInSet("setA")
	if len(first) != len(again) {
		t.Fatal("memoized result differs")
	}
	// Mutating the returned copy must not poison the cache.
	again[0].Name = "mutated"
	if got := store.GroupsInSet("setA"); got[0].Name == "mutated" {
		t.Fatal("selector returned aliased cache memory")
	}

	store.UpdateGroup("g1", func(g *domain.Group) { g.Name = "team-one" })
	got := store.GroupsInSet("setA")
	if got[0].Name != "team-one" {
		t.Fatalf("memo not invalidated after mutation: %q", got[0].Name)
	}
}

func TestByIDSelectors(t *testing.T) {
	store, _ := newTestStore(t)
	if m, ok := store.MemberByID("t1"); !ok || m.Name != "Dana" {
		t.Fatalf("staff lookup via MemberByID = %+v %v", m, ok)
	}
	if _, ok := store.MemberByID("nope"); ok {
		t.Fatal("missing member lookup must fail")
	}
	if a, ok := store.AssignmentByID("a1"); !ok || a.Name != "lab-1" {
		t.Fatalf("assignment lookup = %+v %v", a, ok)
	}
	if gs, ok := store.GroupSetByID("setB"); !ok || gs.Name != "Labs" {
		t.Fatalf("group set lookup = %+v %v", gs, ok)
	}
}
