package core

import (
	"fmt"

	"rostercore/pkg/domain"
)

// CreateGroup adds a local group and links it into the given group set. The
// set must exist and be user-editable, otherwise nothing is committed.
func (s *DocumentStore) CreateGroup(setID string, group domain.Group) (domain.Group, bool) {
	if group.ID == "" {
		group.ID = s.ids.NewID("group")
	}
	group.Origin = domain.OriginLocal
	stored := group.Clone()
	changed := s.mutate("create_group", fmt.Sprintf("Create group %s", group.Name), func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		set := findGroupSet(draft.Roster, setID)
		if set == nil || set.Kind().ReadOnly() {
			return false
		}
		if findGroup(draft.Roster, group.ID) != nil {
			return false
		}
		draft.Roster.Groups = append(draft.Roster.Groups, group.Clone())
		set.GroupIDs = append(set.GroupIDs, group.ID)
		return true
	})
	return stored, changed
}

// UpdateGroup mutates a group's name or membership. Groups whose origin is
// not local are immutable here; the call is a silent no-op (invariant
// enforcement, not an error).
func (s *DocumentStore) UpdateGroup(id string, mutator func(*domain.Group)) bool {
	return s.mutate("update_group", "Update group", func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		target := findGroup(draft.Roster, id)
		if target == nil || !target.Origin.Editable() {
			return false
		}
		origin := target.Origin
		mutator(target)
		target.ID = id
		target.Origin = origin
		return true
	})
}

// DeleteGroup removes a local group from the group collection and from every
// group set that references it.
func (s *DocumentStore) DeleteGroup(id string) bool {
	return s.mutate("delete_group", "Delete group", func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		target := findGroup(draft.Roster, id)
		if target == nil || !target.Origin.Editable() {
			return false
		}
		kept := draft.Roster.Groups[:0]
		for _, g := range draft.Roster.Groups {
			if g.ID != id {
				kept = append(kept, g)
			}
		}
		draft.Roster.Groups = kept
		unlinkGroup(draft.Roster, id)
		return true
	})
}

// AddGroupToSet links an existing group into a group set.
func (s *DocumentStore) AddGroupToSet(setID, groupID string) bool {
	return s.mutate("add_group_to_set", "Add group to set", func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		set := findGroupSet(draft.Roster, setID)
		if set == nil || set.Kind().ReadOnly() {
			return false
		}
		if findGroup(draft.Roster, groupID) == nil {
			return false
		}
		if containsString(set.GroupIDs, groupID) {
			return false
		}
		set.GroupIDs = append(set.GroupIDs, groupID)
		return true
	})
}

// RemoveGroupFromSet unlinks a group from a set. A group left referenced by
// no set is an orphan and is swept in the same mutation.
func (s *DocumentStore) RemoveGroupFromSet(setID, groupID string) bool {
	return s.mutate("remove_group_from_set", "Remove group from set", func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		set := findGroupSet(draft.Roster, setID)
		if set == nil || set.Kind().ReadOnly() {
			return false
		}
		if !containsString(set.GroupIDs, groupID) {
			return false
		}
		set.GroupIDs = removeString(set.GroupIDs, groupID)
		sweepOrphanGroups(draft.Roster)
		return true
	})
}
