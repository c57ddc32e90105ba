package core

import (
	"fmt"

	"rostercore/pkg/domain"
)

// SetCourse replaces the course reference.
func (s *DocumentStore) SetCourse(course domain.CourseRef) bool {
	return s.mutate("set_course", fmt.Sprintf("Set course %s", course.Name), func(draft *domain.ProfileDocument) bool {
		draft.Settings.Course = course
		return true
	})
}

// SetGitConnection replaces the git connection reference and recomputes the
// derived identity mode through the app-level resolver.
func (s *DocumentStore) SetGitConnection(name string) bool {
	return s.mutate("set_git_connection", "Set git connection", func(draft *domain.ProfileDocument) bool {
		draft.Settings.GitConnection = name
		draft.IdentityMode = s.resolver.ResolveIdentityMode(name)
		return true
	})
}

// SetOperations replaces the operation settings.
func (s *DocumentStore) SetOperations(ops domain.OperationSettings) bool {
	return s.mutate("set_operations", "Update operation settings", func(draft *domain.ProfileDocument) bool {
		draft.Settings.Operations = ops
		return true
	})
}

// SetExports replaces the export settings.
func (s *DocumentStore) SetExports(exports domain.ExportSettings) bool {
	return s.mutate("set_exports", "Update export settings", func(draft *domain.ProfileDocument) bool {
		draft.Settings.Exports = exports
		return true
	})
}

// SetRoster replaces the whole roster, as after a bulk import, then drops
// dangling references and orphaned groups. System sets are stale afterwards
// until the synchronizer runs again.
func (s *DocumentStore) SetRoster(roster *domain.Roster) bool {
	changed := s.mutate("set_roster", "Replace roster", func(draft *domain.ProfileDocument) bool {
		if roster == nil {
			draft.Roster = nil
			return true
		}
		r := roster.Clone()
		dropDanglingReferences(&r)
		sweepOrphanGroups(&r)
		draft.Roster = &r
		return true
	})
	if changed {
		s.mu.Lock()
		s.systemSetsReady = false
		s.mu.Unlock()
	}
	return changed
}
