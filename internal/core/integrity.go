package core

import "rostercore/pkg/domain"

// Integrity cascades run inline inside a mutation recipe, immediately after
// the primary change, so the committed patch captures their effects and
// undo/redo never needs to re-run them.

// stripMemberFromGroups removes the member id from every group's member list.
func stripMemberFromGroups(r *domain.Roster, memberID string) {
	for i := range r.Groups {
		r.Groups[i].MemberIDs = removeString(r.Groups[i].MemberIDs, memberID)
	}
}

// unlinkGroup removes the group id from every group set's group list.
func unlinkGroup(r *domain.Roster, groupID string) {
	for i := range r.GroupSets {
		r.GroupSets[i].GroupIDs = removeString(r.GroupSets[i].GroupIDs, groupID)
	}
}

// sweepOrphanGroups drops every group referenced by no remaining group set.
func sweepOrphanGroups(r *domain.Roster) {
	referenced := make(map[string]struct{})
	for _, gs := range r.GroupSets {
		for _, id := range gs.GroupIDs {
			referenced[id] = struct{}{}
		}
	}
	kept := r.Groups[:0]
	for _, g := range r.Groups {
		if _, ok := referenced[g.ID]; ok {
			kept = append(kept, g)
		}
	}
	r.Groups = kept
}

// dropDanglingReferences removes references whose target no longer exists:
// group ids missing from the group collection and member ids missing from
// both rosters. Assignments keep a dangling group set reference on purpose;
// validation surfaces it so the user can reassign instead of silently losing
// the assignment.
func dropDanglingReferences(r *domain.Roster) {
	groups := make(map[string]struct{}, len(r.Groups))
	for _, g := range r.Groups {
		groups[g.ID] = struct{}{}
	}
	for i := range r.GroupSets {
		kept := r.GroupSets[i].GroupIDs[:0]
		for _, id := range r.GroupSets[i].GroupIDs {
			if _, ok := groups[id]; ok {
				kept = append(kept, id)
			}
		}
		r.GroupSets[i].GroupIDs = kept
	}

	members := make(map[string]struct{}, len(r.Students)+len(r.Staff))
	for _, m := range r.Students {
		members[m.ID] = struct{}{}
	}
	for _, m := range r.Staff {
		members[m.ID] = struct{}{}
	}
	for i := range r.Groups {
		kept := r.Groups[i].MemberIDs[:0]
		for _, id := range r.Groups[i].MemberIDs {
			if _, ok := members[id]; ok {
				kept = append(kept, id)
			}
		}
		r.Groups[i].MemberIDs = kept
	}
}

func removeString(list []string, value string) []string {
	kept := list[:0]
	for _, v := range list {
		if v != value {
			kept = append(kept, v)
		}
	}
	return kept
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
