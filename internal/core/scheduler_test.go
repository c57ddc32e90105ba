package core

import (
	"context"
	"testing"
	"time"

	"rostercore/pkg/domain"
)

func TestDebouncedValidationMergesResults(t *testing.T) {
	gw := newStubGateway()
	gw.rosters["course"] = seedRoster()
	gw.rosterIssues = []domain.Issue{{Rule: "duplicate_identity", Severity: domain.SeverityError, Message: "dup"}}
	gw.assignmentIssues = map[string][]domain.Issue{
		"a1": {{Rule: "assignment_groups", Severity: domain.SeverityWarning, Message: "empty group"}},
	}
	store := NewDocumentStore(gw, WithDebounce(10*time.Millisecond))
	t.Cleanup(store.Close)
	if err := store.Load(context.Background(), "course"); err != nil {
		t.Fatalf("load: %v", err)
	}

	store.SetCourse(domain.CourseRef{ID: "c", Name: "trigger"})
	waitFor(t, "roster validation result", func() bool {
		return len(store.RosterValidation().Issues) == 1
	})
	waitFor(t, "assignment validation result", func() bool {
		res, ok := store.AssignmentValidation("a1")
		return ok && len(res.Issues) == 1
	})
	if !store.RosterValidation().HasErrors() {
		t.Fatal("expected error severity to surface")
	}
}

func TestDebounceCollapsesBursts(t *testing.T) {
	gw := newStubGateway()
	gw.rosters["course"] = seedRoster()
	store := NewDocumentStore(gw, WithDebounce(50*time.Millisecond))
	t.Cleanup(store.Close)
	if err := store.Load(context.Background(), "course"); err != nil {
		t.Fatalf("load: %v", err)
	}
	waitFor(t, "initial validation to settle", func() bool {
		gw.mu.Lock()
		defer gw.mu.Unlock()
		return gw.rosterCalls >= 1
	})
	gw.mu.Lock()
	baseline := gw.rosterCalls
	gw.mu.Unlock()

	// A burst of mutations inside the quiet period yields one more round.
	for i := 0; i < 20; i++ {
		store.UpdateMember("s1", func(m *domain.Member) { m.Name = m.Name + "." })
	}
	waitFor(t, "debounced round", func() bool {
		gw.mu.Lock()
		defer gw.mu.Unlock()
		return gw.rosterCalls > baseline
	})
	time.Sleep(100 * time.Millisecond)
	gw.mu.Lock()
	total := gw.rosterCalls
	gw.mu.Unlock()
	if total != baseline+1 {
		t.Fatalf("burst produced %d validation rounds, want 1", total-baseline)
	}
}

func TestValidateNowBypassesDebounce(t *testing.T) {
	store, gw := newTestStore(t)
	gw.mu.Lock()
	gw.rosterIssues = []domain.Issue{{Rule: "duplicate_identity", Severity: domain.SeverityWarning, Message: "shared email"}}
	gw.mu.Unlock()

	store.ValidateNow(context.Background())
	if got := len(store.RosterValidation().Issues); got != 1 {
		t.Fatalf("issues = %d, want 1", got)
	}
}
