package core

import (
	"path"

	"rostercore/pkg/domain"
)

// groupsMemo caches one derived group slice keyed on the document version
// and the lookup id. A single slot is enough: callers overwhelmingly re-ask
// for the selected set or assignment between document changes.
type groupsMemo struct {
	version uint64
	key     string
	valid   bool
	groups  []domain.Group
}

func (m *groupsMemo) get(version uint64, key string) ([]domain.Group, bool) {
	if !m.valid || m.version != version || m.key != key {
		return nil, false
	}
	return m.groups, true
}

func (m *groupsMemo) put(version uint64, key string, groups []domain.Group) {
	m.version = version
	m.key = key
	m.valid = true
	m.groups = groups
}

// StudentByID returns a copy of the student with the given id.
func (s *DocumentStore) StudentByID(id string) (domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc.Roster == nil {
		return domain.Member{}, false
	}
	for _, m := range s.doc.Roster.Students {
		if m.ID == id {
			return m.Clone(), true
		}
	}
	return domain.Member{}, false
}

// StaffByID returns a copy of the staff member with the given id.
func (s *DocumentStore) StaffByID(id string) (domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc.Roster == nil {
		return domain.Member{}, false
	}
	for _, m := range s.doc.Roster.Staff {
		if m.ID == id {
			return m.Clone(), true
		}
	}
	return domain.Member{}, false
}

// MemberByID searches students first, then staff.
func (s *DocumentStore) MemberByID(id string) (domain.Member, bool) {
	if m, ok := s.StudentByID(id); ok {
		return m, true
	}
	return s.StaffByID(id)
}

// GroupByID returns a copy of the group with the given id.
func (s *DocumentStore) GroupByID(id string) (domain.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc.Roster == nil {
		return domain.Group{}, false
	}
	if g := findGroup(s.doc.Roster, id); g != nil {
		return g.Clone(), true
	}
	return domain.Group{}, false
}

// GroupSetByID returns a copy of the group set with the given id.
func (s *DocumentStore) GroupSetByID(id string) (domain.GroupSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc.Roster == nil {
		return domain.GroupSet{}, false
	}
	if gs := findGroupSet(s.doc.Roster, id); gs != nil {
		return gs.Clone(), true
	}
	return domain.GroupSet{}, false
}

// AssignmentByID returns a copy of the assignment with the given id.
func (s *DocumentStore) AssignmentByID(id string) (domain.Assignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc.Roster == nil {
		return domain.Assignment{}, false
	}
	if a := findAssignment(s.doc.Roster, id); a != nil {
		return a.Clone(), true
	}
	return domain.Assignment{}, false
}

// GroupsInSet returns copies of the groups a set references, in set order.
// Dangling group ids are skipped. The result is memoized per document
// version.
func (s *DocumentStore) GroupsInSet(setID string) []domain.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Roster == nil {
		return nil
	}
	if cached, ok := s.groupsInSetMemo.get(s.version, setID); ok {
		return cloneGroups(cached)
	}
	groups := resolveSetGroups(s.doc.Roster, setID)
	s.groupsInSetMemo.put(s.version, setID, groups)
	return cloneGroups(groups)
}

// AssignmentGroups returns copies of the groups an assignment targets after
// applying its selection: all groups of its set, all except the excluded
// ids, or the groups whose names match a glob pattern. A dangling set
// reference or a malformed pattern yields no groups. The result is memoized
// per document version.
func (s *DocumentStore) AssignmentGroups(assignmentID string) []domain.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Roster == nil {
		return nil
	}
	if cached, ok := s.assignmentGroupsMemo.get(s.version, assignmentID); ok {
		return cloneGroups(cached)
	}
	groups := resolveAssignmentGroups(s.doc.Roster, assignmentID)
	s.assignmentGroupsMemo.put(s.version, assignmentID, groups)
	return cloneGroups(groups)
}

func resolveSetGroups(r *domain.Roster, setID string) []domain.Group {
	set := findGroupSet(r, setID)
	if set == nil {
		return nil
	}
	var out []domain.Group
	for _, groupID := range set.GroupIDs {
		if g := findGroup(r, groupID); g != nil {
			out = append(out, *g)
		}
	}
	return out
}

func resolveAssignmentGroups(r *domain.Roster, assignmentID string) []domain.Group {
	assignment := findAssignment(r, assignmentID)
	if assignment == nil {
		return nil
	}
	candidates := resolveSetGroups(r, assignment.GroupSetID)
	switch assignment.Selection.Mode {
	case domain.SelectExclude:
		var out []domain.Group
		for _, g := range candidates {
			if !containsString(assignment.Selection.ExcludedGroupIDs, g.ID) {
				out = append(out, g)
			}
		}
		return out
	case domain.SelectPattern:
		var out []domain.Group
		for _, g := range candidates {
			ok, err := path.Match(assignment.Selection.Pattern, g.Name)
			if err != nil {
				return nil
			}
			if ok {
				out = append(out, g)
			}
		}
		return out
	default:
		return candidates
	}
}

func cloneGroups(groups []domain.Group) []domain.Group {
	if groups == nil {
		return nil
	}
	out := make([]domain.Group, len(groups))
	for i, g := range groups {
		out[i] = g.Clone()
	}
	return out
}
