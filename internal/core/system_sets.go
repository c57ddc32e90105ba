package core

import (
	"context"

	"rostercore/pkg/domain"
)

// SyncSystemSets asks the gateway to recompute the canonical system group
// sets for the current roster and merges the returned patch. The merge is a
// derived-cache refresh: it runs outside undo/redo history. Results of a
// round superseded by a newer load are discarded.
func (s *DocumentStore) SyncSystemSets(ctx context.Context) error {
	s.mu.RLock()
	if s.doc.Roster == nil {
		s.mu.RUnlock()
		return nil
	}
	roster := s.doc.Roster.Clone()
	seq := s.asyncSeq.Load()
	s.mu.RUnlock()

	patch, err := s.gateway.EnsureSystemGroupSets(ctx, roster)
	if err != nil {
		s.logger.Error("system group set computation failed", "error", err)
		return err
	}

	s.mu.Lock()
	if s.asyncSeq.Load() != seq || s.doc.Roster == nil {
		s.mu.Unlock()
		return nil
	}
	draft := s.doc.Clone()
	mergeSystemPatch(draft.Roster, patch)
	s.doc = draft
	s.version++
	s.systemSetsReady = true
	s.mu.Unlock()

	s.sched.trigger()
	return nil
}

// mergeSystemPatch applies a system group set patch to the roster:
// upsert groups, delete groups, upsert sets, deduplicate by system type
// keeping the patch-declared canonical id, then re-sweep orphans.
func mergeSystemPatch(r *domain.Roster, patch domain.SystemGroupSetPatch) {
	for _, g := range patch.UpsertGroups {
		if existing := findGroup(r, g.ID); existing != nil {
			*existing = g.Clone()
			continue
		}
		r.Groups = append(r.Groups, g.Clone())
	}

	for _, id := range patch.DeleteGroupIDs {
		kept := r.Groups[:0]
		for _, g := range r.Groups {
			if g.ID != id {
				kept = append(kept, g)
			}
		}
		r.Groups = kept
		unlinkGroup(r, id)
	}

	for _, gs := range patch.GroupSets {
		if existing := findGroupSet(r, gs.ID); existing != nil {
			*existing = gs.Clone()
			continue
		}
		r.GroupSets = append(r.GroupSets, gs.Clone())
	}

	// A stale previous computation can leave duplicate sets per system type;
	// only the id the latest patch declared canonical survives.
	kept := r.GroupSets[:0]
	for _, gs := range r.GroupSets {
		st, ok := gs.System()
		if !ok {
			kept = append(kept, gs)
			continue
		}
		canonical, declared := patch.Canonical[st]
		if !declared || gs.ID == canonical {
			kept = append(kept, gs)
		}
	}
	r.GroupSets = kept

	sweepOrphanGroups(r)
}
