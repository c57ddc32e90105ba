package core

import (
	"fmt"

	"rostercore/pkg/domain"
)

// CreateLocalGroupSet adds an empty locally-owned group set.
func (s *DocumentStore) CreateLocalGroupSet(name string) (domain.GroupSet, bool) {
	set := domain.GroupSet{
		ID:   s.ids.NewID("groupset"),
		Name: name,
	}
	stored := set.Clone()
	changed := s.mutate("create_group_set", fmt.Sprintf("Create group set %s", name), func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		draft.Roster.GroupSets = append(draft.Roster.GroupSets, set.Clone())
		return true
	})
	return stored, changed
}

// CopyGroupSet duplicates a group set as a local one: the copy gets fresh
// group records (new ids, local origin) so an LMS-linked set can be turned
// into an editable one.
func (s *DocumentStore) CopyGroupSet(srcID, name string) (domain.GroupSet, bool) {
	var stored domain.GroupSet
	changed := s.mutate("copy_group_set", fmt.Sprintf("Copy group set to %s", name), func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		src := findGroupSet(draft.Roster, srcID)
		if src == nil {
			return false
		}
		copySet := domain.GroupSet{
			ID:   s.ids.NewID("groupset"),
			Name: name,
		}
		if copySet.Name == "" {
			copySet.Name = src.Name + " (copy)"
		}
		for _, groupID := range src.GroupIDs {
			g := findGroup(draft.Roster, groupID)
			if g == nil {
				continue
			}
			dup := g.Clone()
			dup.ID = s.ids.NewID("group")
			dup.Origin = domain.OriginLocal
			dup.LMSGroupID = nil
			draft.Roster.Groups = append(draft.Roster.Groups, dup)
			copySet.GroupIDs = append(copySet.GroupIDs, dup.ID)
		}
		draft.Roster.GroupSets = append(draft.Roster.GroupSets, copySet)
		stored = copySet.Clone()
		return true
	})
	return stored, changed
}

// RenameGroupSet renames a user-editable group set. Renaming a read-only or
// system set, or renaming to the current name, commits nothing.
func (s *DocumentStore) RenameGroupSet(id, name string) bool {
	return s.mutate("rename_group_set", fmt.Sprintf("Rename group set to %s", name), func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		set := findGroupSet(draft.Roster, id)
		if set == nil || set.Kind().ReadOnly() {
			return false
		}
		if set.Name == name {
			return false
		}
		set.Name = name
		return true
	})
}

// DeleteGroupSet removes a group set and sweeps groups no remaining set
// references. System sets are never deletable here. Assignments pointing at
// the deleted set keep their reference; validation surfaces it.
func (s *DocumentStore) DeleteGroupSet(id string) bool {
	return s.mutate("delete_group_set", "Delete group set", func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		set := findGroupSet(draft.Roster, id)
		if set == nil || !set.Kind().Deletable() {
			return false
		}
		kept := draft.Roster.GroupSets[:0]
		for _, gs := range draft.Roster.GroupSets {
			if gs.ID != id {
				kept = append(kept, gs)
			}
		}
		draft.Roster.GroupSets = kept
		sweepOrphanGroups(draft.Roster)
		return true
	})
}
