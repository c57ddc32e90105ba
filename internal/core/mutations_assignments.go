package core

import (
	"fmt"

	"rostercore/pkg/domain"
)

// CreateAssignment appends an assignment. A missing id is generated; a
// missing selection defaults to all groups of the referenced set.
func (s *DocumentStore) CreateAssignment(assignment domain.Assignment) (domain.Assignment, bool) {
	if assignment.ID == "" {
		assignment.ID = s.ids.NewID("assignment")
	}
	if assignment.Selection.Mode == "" {
		assignment.Selection.Mode = domain.SelectAll
	}
	stored := assignment.Clone()
	changed := s.mutate("create_assignment", fmt.Sprintf("Create assignment %s", assignment.Name), func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		if findAssignment(draft.Roster, assignment.ID) != nil {
			return false
		}
		draft.Roster.Assignments = append(draft.Roster.Assignments, assignment.Clone())
		return true
	})
	return stored, changed
}

// UpdateAssignment mutates an assignment via the provided mutator. The id is
// immutable.
func (s *DocumentStore) UpdateAssignment(id string, mutator func(*domain.Assignment)) bool {
	return s.mutate("update_assignment", "Update assignment", func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		target := findAssignment(draft.Roster, id)
		if target == nil {
			return false
		}
		mutator(target)
		target.ID = id
		return true
	})
}

// DeleteAssignment removes an assignment. When the deleted assignment was
// the active selection, the first remaining assignment (or none) is
// selected.
func (s *DocumentStore) DeleteAssignment(id string) bool {
	var name string
	s.mu.RLock()
	if s.doc.Roster != nil {
		if a := findAssignment(s.doc.Roster, id); a != nil {
			name = a.Name
		}
	}
	s.mu.RUnlock()
	return s.mutate("delete_assignment", fmt.Sprintf("Delete assignment %s", name), func(draft *domain.ProfileDocument) bool {
		if draft.Roster == nil {
			return false
		}
		if findAssignment(draft.Roster, id) == nil {
			return false
		}
		kept := draft.Roster.Assignments[:0]
		for _, a := range draft.Roster.Assignments {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		draft.Roster.Assignments = kept
		return true
	})
}
