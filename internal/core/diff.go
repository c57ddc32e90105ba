package core

import (
	"reflect"

	"rostercore/pkg/domain"
)

// diffDocuments compares two documents section by section and produces the
// forward and inverse patch ops for every section that changed. Patches are
// minimal at section granularity: a settings field write, a whole-collection
// replacement, or a whole-roster replacement.
func diffDocuments(before, after domain.ProfileDocument) (forward, inverse []domain.PatchOp) {
	if before.Settings.Course != after.Settings.Course {
		forward = append(forward, domain.SetCourse{Course: after.Settings.Course})
		inverse = append(inverse, domain.SetCourse{Course: before.Settings.Course})
	}
	if before.Settings.GitConnection != after.Settings.GitConnection || before.IdentityMode != after.IdentityMode {
		forward = append(forward, domain.SetGitConnection{Name: after.Settings.GitConnection, Mode: after.IdentityMode})
		inverse = append(inverse, domain.SetGitConnection{Name: before.Settings.GitConnection, Mode: before.IdentityMode})
	}
	if !reflect.DeepEqual(before.Settings.Operations, after.Settings.Operations) {
		forward = append(forward, domain.SetOperations{Operations: after.Settings.Operations})
		inverse = append(inverse, domain.SetOperations{Operations: before.Settings.Operations})
	}
	if !reflect.DeepEqual(before.Settings.Exports, after.Settings.Exports) {
		forward = append(forward, domain.SetExports{Exports: after.Settings.Exports})
		inverse = append(inverse, domain.SetExports{Exports: before.Settings.Exports})
	}

	switch {
	case before.Roster == nil && after.Roster == nil:
	case before.Roster == nil || after.Roster == nil:
		forward = append(forward, domain.SetRoster{Roster: after.Roster})
		inverse = append(inverse, domain.SetRoster{Roster: before.Roster})
	default:
		f, inv := diffRosters(*before.Roster, *after.Roster)
		forward = append(forward, f...)
		inverse = append(inverse, inv...)
	}
	return forward, inverse
}

func diffRosters(before, after domain.Roster) (forward, inverse []domain.PatchOp) {
	if !reflect.DeepEqual(before.Students, after.Students) {
		forward = append(forward, domain.ReplaceStudents{Members: after.Students})
		inverse = append(inverse, domain.ReplaceStudents{Members: before.Students})
	}
	if !reflect.DeepEqual(before.Staff, after.Staff) {
		forward = append(forward, domain.ReplaceStaff{Members: after.Staff})
		inverse = append(inverse, domain.ReplaceStaff{Members: before.Staff})
	}
	if !reflect.DeepEqual(before.Groups, after.Groups) {
		forward = append(forward, domain.ReplaceGroups{Groups: after.Groups})
		inverse = append(inverse, domain.ReplaceGroups{Groups: before.Groups})
	}
	if !reflect.DeepEqual(before.GroupSets, after.GroupSets) {
		forward = append(forward, domain.ReplaceGroupSets{GroupSets: after.GroupSets})
		inverse = append(inverse, domain.ReplaceGroupSets{GroupSets: before.GroupSets})
	}
	if !reflect.DeepEqual(before.Assignments, after.Assignments) {
		forward = append(forward, domain.ReplaceAssignments{Assignments: after.Assignments})
		inverse = append(inverse, domain.ReplaceAssignments{Assignments: before.Assignments})
	}
	return forward, inverse
}
