package local

import (
	"context"
	"strings"
	"testing"

	"rostercore/internal/infra/persistence/memory"
	"rostercore/pkg/domain"
)

func strptr(s string) *string { return &s }

func testRoster() domain.Roster {
	return domain.Roster{
		Students: []domain.Member{
			{ID: "s1", Name: "Alice", Email: "alice@example.edu", GitUsername: strptr("alice-dev"), Status: domain.MemberActive},
			{ID: "s2", Name: "Bob", Email: "bob@example.edu", GitUsername: strptr("bobbuilder"), Status: domain.MemberActive},
		},
		Staff: []domain.Member{
			{ID: "t1", Name: "Dana", Email: "dana@example.edu", GitUsername: strptr("dana"), Status: domain.MemberActive},
		},
		Groups: []domain.Group{
			{ID: "g1", Name: "team-1", MemberIDs: []string{"s1"}, Origin: domain.OriginLocal},
			{ID: "g2", Name: "team-2", MemberIDs: []string{"s2"}, Origin: domain.OriginLocal},
		},
		GroupSets: []domain.GroupSet{
			{ID: "setA", Name: "Projects", GroupIDs: []string{"g1", "g2"}},
		},
		Assignments: []domain.Assignment{
			{ID: "a1", Name: "lab-1", Type: domain.AssignmentGroup, GroupSetID: "setA", Selection: domain.GroupSelection{Mode: domain.SelectAll}},
		},
	}
}

func issuesByRule(res domain.ValidationResult, rule string) []domain.Issue {
	var out []domain.Issue
	for _, issue := range res.Issues {
		if issue.Rule == rule {
			out = append(out, issue)
		}
	}
	return out
}

func TestLoadProfileMissingGetsDefaultsAndWarning(t *testing.T) {
	g := New(memory.NewStore())
	result, err := g.LoadProfile(context.Background(), "new-course")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "new-course") {
		t.Fatalf("warnings = %v", result.Warnings)
	}
	if len(result.Settings.Exports.Formats) == 0 {
		t.Fatal("default settings missing export formats")
	}
}

func TestSaveAndReload(t *testing.T) {
	store := memory.NewStore()
	g := New(store)
	ctx := context.Background()
	roster := testRoster()
	settings := domain.ProfileSettings{Course: domain.CourseRef{ID: "c", Name: "Compilers"}}
	if err := g.SaveProfileAndRoster(ctx, "p", settings, &roster); err != nil {
		t.Fatalf("save: %v", err)
	}
	result, err := g.LoadProfile(ctx, "p")
	if err != nil || len(result.Warnings) != 0 {
		t.Fatalf("load: %v warnings=%v", err, result.Warnings)
	}
	if result.Settings.Course.Name != "Compilers" {
		t.Fatalf("course = %q", result.Settings.Course.Name)
	}
	loaded, err := g.GetRoster(ctx, "p")
	if err != nil || loaded == nil {
		t.Fatalf("roster: %v %v", loaded, err)
	}
	if len(loaded.Students) != 2 {
		t.Fatalf("students = %d", len(loaded.Students))
	}
}

func TestValidateRosterCleanRoster(t *testing.T) {
	g := New(memory.NewStore())
	res, err := g.ValidateRoster(context.Background(), testRoster())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(res.Issues) != 0 {
		t.Fatalf("clean roster produced issues: %+v", res.Issues)
	}
}

func TestValidateRosterFindings(t *testing.T) {
	g := New(memory.NewStore())
	roster := testRoster()
	roster.Students = append(roster.Students,
		domain.Member{ID: "s1", Name: "Alice Clone", Email: "alice@example.edu", Status: domain.MemberActive},
		domain.Member{ID: "s9", Name: "Eve", Email: "BOB@example.edu", GitUsername: strptr("-bad-"), Status: domain.MemberActive},
	)
	roster.Groups[0].MemberIDs = append(roster.Groups[0].MemberIDs, "ghost")
	roster.Assignments = append(roster.Assignments, domain.Assignment{ID: "a2", Name: "Lab-1", GroupSetID: "setA"})

	res, err := g.ValidateRoster(context.Background(), roster)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	identity := issuesByRule(res, "duplicate_identity")
	if len(identity) != 2 {
		t.Fatalf("duplicate_identity issues = %+v", identity)
	}
	if got := issuesByRule(res, "duplicate_assignment_names"); len(got) != 1 {
		t.Fatalf("duplicate_assignment_names issues = %+v", got)
	}
	membership := issuesByRule(res, "group_membership")
	if len(membership) != 2 {
		t.Fatalf("group_membership issues = %+v", membership)
	}
	if !res.HasErrors() {
		t.Fatal("expected error severity findings")
	}
}

func TestValidateAssignmentDanglingSet(t *testing.T) {
	g := New(memory.NewStore())
	roster := testRoster()
	roster.Assignments[0].GroupSetID = "gone"
	res, err := g.ValidateAssignment(context.Background(), domain.IdentityModeUsername, roster, "a1")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(issuesByRule(res, "assignment_groups")) != 1 || !res.HasErrors() {
		t.Fatalf("dangling set issues = %+v", res.Issues)
	}
}

func TestValidateAssignmentGroupFindings(t *testing.T) {
	g := New(memory.NewStore())
	roster := testRoster()
	roster.Groups = append(roster.Groups,
		domain.Group{ID: "g3", Name: "Team-1", MemberIDs: []string{"s1"}, Origin: domain.OriginLocal},
		domain.Group{ID: "g4", Name: "empty", Origin: domain.OriginLocal},
	)
	roster.GroupSets[0].GroupIDs = append(roster.GroupSets[0].GroupIDs, "g3", "g4")

	res, err := g.ValidateAssignment(context.Background(), domain.IdentityModeUsername, roster, "a1")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	issues := issuesByRule(res, "assignment_groups")
	var dupName, multiGroup, emptyGroup bool
	for _, issue := range issues {
		switch {
		case strings.Contains(issue.Message, "name"):
			dupName = true
		case strings.Contains(issue.Message, "multiple groups"):
			multiGroup = true
		case strings.Contains(issue.Message, "no members"):
			emptyGroup = true
		}
	}
	if !dupName || !multiGroup || !emptyGroup {
		t.Fatalf("missing findings (dupName=%v multiGroup=%v emptyGroup=%v): %+v", dupName, multiGroup, emptyGroup, issues)
	}
}

func TestValidateAssignmentRespectsSelection(t *testing.T) {
	g := New(memory.NewStore())
	roster := testRoster()
	roster.Groups = append(roster.Groups, domain.Group{ID: "g3", Name: "team-1", MemberIDs: []string{"s1"}, Origin: domain.OriginLocal})
	roster.GroupSets[0].GroupIDs = append(roster.GroupSets[0].GroupIDs, "g3")
	roster.Assignments[0].Selection = domain.GroupSelection{Mode: domain.SelectExclude, ExcludedGroupIDs: []string{"g3"}}

	res, err := g.ValidateAssignment(context.Background(), domain.IdentityModeUsername, roster, "a1")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(issuesByRule(res, "assignment_groups")) != 0 {
		t.Fatalf("excluded group still validated: %+v", res.Issues)
	}
}

func TestValidateAssignmentMissingID(t *testing.T) {
	g := New(memory.NewStore())
	res, err := g.ValidateAssignment(context.Background(), domain.IdentityModeUsername, testRoster(), "nope")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !res.HasErrors() {
		t.Fatal("missing assignment must be an error finding")
	}
}

func TestValidateAssignmentIdentityMode(t *testing.T) {
	g := New(memory.NewStore())
	roster := testRoster()
	roster.Students[0].GitUsername = nil

	res, err := g.ValidateAssignment(context.Background(), domain.IdentityModeUsername, roster, "a1")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(issuesByRule(res, "assignment_identity")) != 1 {
		t.Fatalf("identity issues = %+v", res.Issues)
	}

	res, err = g.ValidateAssignment(context.Background(), domain.IdentityMode("email"), roster, "a1")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(issuesByRule(res, "assignment_identity")) != 0 {
		t.Fatal("identity rule must be mode-gated")
	}
}

func TestEnsureSystemGroupSets(t *testing.T) {
	g := New(memory.NewStore())
	roster := testRoster()
	roster.Students = append(roster.Students, domain.Member{ID: "s3", Name: "Drop", Status: domain.MemberDropped})
	roster.Groups = append(roster.Groups, domain.Group{ID: "sys-student-s9", Name: "Gone", MemberIDs: []string{"s9"}, Origin: domain.OriginSystem})

	patch, err := g.EnsureSystemGroupSets(context.Background(), roster)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	// Two active students plus one active staff member, dropped excluded.
	if len(patch.UpsertGroups) != 3 {
		t.Fatalf("upsert groups = %d, want 3", len(patch.UpsertGroups))
	}
	for _, g := range patch.UpsertGroups {
		if g.Origin != domain.OriginSystem || len(g.MemberIDs) != 1 {
			t.Fatalf("system group shape: %+v", g)
		}
	}
	if len(patch.DeleteGroupIDs) != 1 || patch.DeleteGroupIDs[0] != "sys-student-s9" {
		t.Fatalf("delete ids = %v", patch.DeleteGroupIDs)
	}
	if len(patch.GroupSets) != 2 {
		t.Fatalf("group sets = %d, want 2", len(patch.GroupSets))
	}
	if patch.Canonical[domain.SystemIndividualStudents] != systemStudentSetID ||
		patch.Canonical[domain.SystemStaff] != systemStaffSetID {
		t.Fatalf("canonical = %v", patch.Canonical)
	}
	// Recomputation yields the same stable identifiers.
	again, err := g.EnsureSystemGroupSets(context.Background(), roster)
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if again.GroupSets[0].ID != patch.GroupSets[0].ID {
		t.Fatal("system set ids must be stable across runs")
	}
}

func TestGitUsernameValidation(t *testing.T) {
	valid := []string{"alice", "alice-dev", "a", "A1-b2"}
	invalid := []string{"-alice", "alice-", "al--ice", "", "has space", strings.Repeat("a", 40)}
	for _, name := range valid {
		if !validGitUsername(name) {
			t.Errorf("validGitUsername(%q) = false, want true", name)
		}
	}
	for _, name := range invalid {
		if validGitUsername(name) {
			t.Errorf("validGitUsername(%q) = true, want false", name)
		}
	}
}
