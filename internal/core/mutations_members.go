package core

import (
	"fmt"

	"rostercore/pkg/domain"
)

// AddMember appends a member to the student or staff sequence. A missing id
// is generated. Returns the stored member and whether anything was committed.
func (s *DocumentStore) AddMember(role domain.MemberRole, member domain.Member) (domain.Member, bool) {
	if member.ID == "" {
		member.ID = s.ids.NewID("member")
	}
	if member.Status == "" {
		member.Status = domain.MemberActive
	}
	stored := member.Clone()
	changed := s.mutate("add_member", fmt.Sprintf("Add %s %s", role, member.Name), func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		if findMember(draft.Roster, member.ID) != nil {
			return false
		}
		switch role {
		case domain.RoleStudent:
			draft.Roster.Students = append(draft.Roster.Students, member.Clone())
		case domain.RoleStaff:
			draft.Roster.Staff = append(draft.Roster.Staff, member.Clone())
		default:
			return false
		}
		return true
	})
	return stored, changed
}

// UpdateMember mutates a member in place via the provided mutator. The
// member id is immutable; mutator writes to it are discarded.
func (s *DocumentStore) UpdateMember(id string, mutator func(*domain.Member)) bool {
	return s.mutate("update_member", "Update member", func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		target := findMember(draft.Roster, id)
		if target == nil {
			return false
		}
		mutator(target)
		target.ID = id
		return true
	})
}

// RemoveMember removes a member from both sequences and strips the id from
// every group in the same mutation.
func (s *DocumentStore) RemoveMember(id string) bool {
	return s.mutate("remove_member", "Remove member", func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		found := false
		kept := draft.Roster.Students[:0]
		for _, m := range draft.Roster.Students {
			if m.ID == id {
				found = true
				continue
			}
			kept = append(kept, m)
		}
		draft.Roster.Students = kept

		keptStaff := draft.Roster.Staff[:0]
		for _, m := range draft.Roster.Staff {
			if m.ID == id {
				found = true
				continue
			}
			keptStaff = append(keptStaff, m)
		}
		draft.Roster.Staff = keptStaff

		if !found {
			return false
		}
		stripMemberFromGroups(draft.Roster, id)
		return true
	})
}

// MoveMemberToGroup removes the member from one group and adds it to
// another. Both groups must be locally editable.
func (s *DocumentStore) MoveMemberToGroup(memberID, fromGroupID, toGroupID string) bool {
	return s.mutate("move_member", "Move member to group", func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil || fromGroupID == toGroupID {
			return false
		}
		from := findGroup(draft.Roster, fromGroupID)
		to := findGroup(draft.Roster, toGroupID)
		if from == nil || to == nil {
			return false
		}
		if !from.Origin.Editable() || !to.Origin.Editable() {
			return false
		}
		if !containsString(from.MemberIDs, memberID) {
			return false
		}
		from.MemberIDs = removeString(from.MemberIDs, memberID)
		if !containsString(to.MemberIDs, memberID) {
			to.MemberIDs = append(to.MemberIDs, memberID)
		}
		return true
	})
}

// CopyMemberToGroup adds the member to a group without removing it from any
// other group.
func (s *DocumentStore) CopyMemberToGroup(memberID, toGroupID string) bool {
	return s.mutate("copy_member", "Copy member to group", func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		if findMember(draft.Roster, memberID) == nil {
			return false
		}
		to := findGroup(draft.Roster, toGroupID)
		if to == nil || !to.Origin.Editable() {
			return false
		}
		if containsString(to.MemberIDs, memberID) {
			return false
		}
		to.MemberIDs = append(to.MemberIDs, memberID)
		return true
	})
}

func findMember(r *domain.Roster, id string) *domain.Member {
	for i := range r.Students {
		if r.Students[i].ID == id {
			return &r.Students[i]
		}
	}
	for i := range r.Staff {
		if r.Staff[i].ID == id {
			return &r.Staff[i]
		}
	}
	return nil
}

func findGroup(r *domain.Roster, id string) *domain.Group {
	for i := range r.Groups {
		if r.Groups[i].ID == id {
			return &r.Groups[i]
		}
	}
	return nil
}

func findGroupSet(r *domain.Roster, id string) *domain.GroupSet {
	for i := range r.GroupSets {
		if r.GroupSets[i].ID == id {
			return &r.GroupSets[i]
		}
	}
	return nil
}

func findAssignment(r *domain.Roster, id string) *domain.Assignment {
	for i := range r.Assignments {
		if r.Assignments[i].ID == id {
			return &r.Assignments[i]
		}
	}
	return nil
}
