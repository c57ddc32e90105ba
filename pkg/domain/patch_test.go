package domain

import (
	"reflect"
	"testing"
)

func TestApplyPatchSettingsOps(t *testing.T) {
	doc := ProfileDocument{}
	ApplyPatch(&doc, []PatchOp{
		SetCourse{Course: CourseRef{ID: "c", Name: "Systems"}},
		SetGitConnection{Name: "campus-git", Mode: IdentityModeUsername},
		SetOperations{Operations: OperationSettings{TargetOrg: "org", Options: map[string]string{"visibility": "private"}}},
		SetExports{Exports: ExportSettings{Formats: []ExportFormat{FormatJSON}, Path: "out"}},
	})
	if doc.Settings.Course.Name != "Systems" || doc.Settings.GitConnection != "campus-git" {
		t.Fatalf("settings = %+v", doc.Settings)
	}
	if doc.IdentityMode != IdentityModeUsername {
		t.Fatalf("identity mode = %q", doc.IdentityMode)
	}
	if doc.Settings.Operations.Options["visibility"] != "private" {
		t.Fatalf("operations = %+v", doc.Settings.Operations)
	}
}

func TestApplyPatchClonesPayloads(t *testing.T) {
	op := ReplaceStudents{Members: []Member{{ID: "s1", Name: "Alice"}}}
	doc := ProfileDocument{Roster: &Roster{}}
	ApplyPatch(&doc, []PatchOp{op})
	doc.Roster.Students[0].Name = "edited"

	// Replaying the same op later must still produce the original values.
	doc2 := ProfileDocument{Roster: &Roster{}}
	ApplyPatch(&doc2, []PatchOp{op})
	if doc2.Roster.Students[0].Name != "Alice" {
		t.Fatalf("replay value = %q", doc2.Roster.Students[0].Name)
	}
	if op.Members[0].Name != "Alice" {
		t.Fatal("apply mutated the op payload")
	}
}

func TestApplyPatchRosterOpsIgnoreMissingRoster(t *testing.T) {
	doc := ProfileDocument{}
	ApplyPatch(&doc, []PatchOp{
		ReplaceStudents{Members: []Member{{ID: "s1"}}},
		ReplaceGroups{Groups: []Group{{ID: "g1"}}},
	})
	if doc.Roster != nil {
		t.Fatal("collection ops must not materialize a roster")
	}
}

func TestSetRosterOp(t *testing.T) {
	roster := &Roster{Students: []Member{{ID: "s1"}}}
	doc := ProfileDocument{}
	ApplyPatch(&doc, []PatchOp{SetRoster{Roster: roster}})
	if doc.Roster == nil || len(doc.Roster.Students) != 1 {
		t.Fatalf("roster = %+v", doc.Roster)
	}
	if doc.Roster == roster {
		t.Fatal("roster must be cloned, not aliased")
	}
	ApplyPatch(&doc, []PatchOp{SetRoster{}})
	if doc.Roster != nil {
		t.Fatal("nil payload must clear the roster")
	}
}

func TestDocumentCloneIsDeep(t *testing.T) {
	num := "1234"
	doc := ProfileDocument{
		Settings: ProfileSettings{
			Operations: OperationSettings{Options: map[string]string{"k": "v"}},
			Exports:    ExportSettings{Formats: []ExportFormat{FormatCSV}},
		},
		Roster: &Roster{
			Students: []Member{{ID: "s1", StudentNumber: &num}},
			Groups:   []Group{{ID: "g1", MemberIDs: []string{"s1"}}},
			GroupSets: []GroupSet{{
				ID:         "gs1",
				GroupIDs:   []string{"g1"},
				Connection: &GroupSetConnection{Kind: ConnectionSystem, SystemType: SystemStaff},
			}},
		},
	}
	cp := doc.Clone()
	if !reflect.DeepEqual(doc, cp) {
		t.Fatal("clone differs from original")
	}
	cp.Settings.Operations.Options["k"] = "changed"
	*cp.Roster.Students[0].StudentNumber = "9999"
	cp.Roster.Groups[0].MemberIDs[0] = "other"
	cp.Roster.GroupSets[0].Connection.SystemType = SystemIndividualStudents
	if doc.Settings.Operations.Options["k"] != "v" ||
		*doc.Roster.Students[0].StudentNumber != "1234" ||
		doc.Roster.Groups[0].MemberIDs[0] != "s1" ||
		doc.Roster.GroupSets[0].Connection.SystemType != SystemStaff {
		t.Fatal("clone shares storage with the original")
	}
}

func TestGroupSetKindAndSystem(t *testing.T) {
	local := GroupSet{ID: "a"}
	if local.Kind() != ConnectionLocal {
		t.Fatalf("nil connection kind = %s", local.Kind())
	}
	if _, ok := local.System(); ok {
		t.Fatal("local set reported as system")
	}
	sys := GroupSet{Connection: &GroupSetConnection{Kind: ConnectionSystem, SystemType: SystemStaff}}
	st, ok := sys.System()
	if !ok || st != SystemStaff {
		t.Fatalf("system() = %v %v", st, ok)
	}
	if !sys.Kind().ReadOnly() || sys.Kind().Deletable() {
		t.Fatal("system sets must be read-only and non-deletable")
	}
	canvas := GroupSet{Connection: &GroupSetConnection{Kind: ConnectionCanvas}}
	if !canvas.Kind().ReadOnly() || !canvas.Kind().Deletable() {
		t.Fatal("canvas sets are read-only but deletable")
	}
}
