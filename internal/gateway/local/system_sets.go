package local

import (
	"context"

	"rostercore/pkg/domain"
)

// Stable identifiers keep system records upsertable across recomputations.
const (
	systemStudentGroupPrefix = "sys-student-"
	systemStaffGroupPrefix   = "sys-staff-"
	systemStudentSetID       = "sys-set-individual-students"
	systemStaffSetID         = "sys-set-staff"
)

// EnsureSystemGroupSets computes the canonical system group sets for the
// roster: one singleton group per active student and per active staff
// member. The returned patch upserts the current singletons, deletes system
// groups for members no longer active, and declares the canonical set id per
// system type.
func (g *Gateway) EnsureSystemGroupSets(_ context.Context, roster domain.Roster) (domain.SystemGroupSetPatch, error) {
	patch := domain.SystemGroupSetPatch{
		Canonical: map[domain.SystemType]string{
			domain.SystemIndividualStudents: systemStudentSetID,
			domain.SystemStaff:              systemStaffSetID,
		},
	}

	studentSet := domain.GroupSet{
		ID:         systemStudentSetID,
		Name:       "Individual students",
		Connection: &domain.GroupSetConnection{Kind: domain.ConnectionSystem, SystemType: domain.SystemIndividualStudents},
	}
	staffSet := domain.GroupSet{
		ID:         systemStaffSetID,
		Name:       "Staff",
		Connection: &domain.GroupSetConnection{Kind: domain.ConnectionSystem, SystemType: domain.SystemStaff},
	}

	wanted := map[string]bool{}
	for _, m := range roster.Students {
		if m.Status != domain.MemberActive {
			continue
		}
		group := singletonGroup(systemStudentGroupPrefix+m.ID, m)
		patch.UpsertGroups = append(patch.UpsertGroups, group)
		studentSet.GroupIDs = append(studentSet.GroupIDs, group.ID)
		wanted[group.ID] = true
	}
	for _, m := range roster.Staff {
		if m.Status != domain.MemberActive {
			continue
		}
		group := singletonGroup(systemStaffGroupPrefix+m.ID, m)
		patch.UpsertGroups = append(patch.UpsertGroups, group)
		staffSet.GroupIDs = append(staffSet.GroupIDs, group.ID)
		wanted[group.ID] = true
	}

	// System groups for dropped or removed members get deleted explicitly;
	// the merge's orphan sweep catches the rest.
	for _, group := range roster.Groups {
		if group.Origin == domain.OriginSystem && !wanted[group.ID] {
			patch.DeleteGroupIDs = append(patch.DeleteGroupIDs, group.ID)
		}
	}

	patch.GroupSets = []domain.GroupSet{studentSet, staffSet}
	return patch, nil
}

func singletonGroup(id string, m domain.Member) domain.Group {
	return domain.Group{
		ID:        id,
		Name:      m.Name,
		MemberIDs: []string{m.ID},
		Origin:    domain.OriginSystem,
	}
}
