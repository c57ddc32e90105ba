package core

import (
	"context"

	"rostercore/pkg/domain"
)

// Load replaces the current document with the named profile. Settings and
// roster come from the gateway; a failed settings load falls back to the
// gateway defaults and marks the document errored while keeping whatever
// roster did load. A load superseded by a newer Load call is discarded
// wholesale.
func (s *DocumentStore) Load(ctx context.Context, profile string) error {
	seq := s.asyncSeq.Add(1)
	start := s.clock.Now()
	var span TraceSpan
	ctx, span = s.tracer.Start(ctx, "document_store.load")
	var loadErr error
	defer func() { span.End(loadErr) }()

	s.mu.Lock()
	s.profile = profile
	s.status = domain.StatusLoading
	s.lastErr = ""
	s.mu.Unlock()

	var (
		settings domain.ProfileSettings
		warnings []string
	)
	result, err := s.gateway.LoadProfile(ctx, profile)
	if err != nil {
		loadErr = err
		settings = s.gateway.DefaultSettings()
	} else {
		settings = result.Settings
		warnings = result.Warnings
	}

	roster, rosterErr := s.gateway.GetRoster(ctx, profile)
	if rosterErr != nil {
		if loadErr == nil {
			loadErr = rosterErr
		}
		roster = nil
	}

	s.mu.Lock()
	if s.asyncSeq.Load() != seq {
		s.mu.Unlock()
		s.logger.Info("discarded stale profile load", "profile", profile)
		return nil
	}
	s.doc = domain.ProfileDocument{
		Settings:     settings,
		IdentityMode: s.resolver.ResolveIdentityMode(settings.GitConnection),
	}
	if roster != nil {
		r := roster.Clone()
		dropDanglingReferences(&r)
		sweepOrphanGroups(&r)
		s.doc.Roster = &r
	}
	if loadErr != nil {
		s.status = domain.StatusError
		s.lastErr = loadErr.Error()
	} else {
		s.status = domain.StatusReady
	}
	s.history = nil
	s.future = nil
	s.systemSetsReady = false
	s.rosterValidation = domain.ValidationResult{}
	s.assignmentValidation = make(map[string]domain.ValidationResult)
	s.selected = ""
	s.fixSelectionLocked()
	s.version++
	hasRoster := s.doc.Roster != nil
	s.mu.Unlock()

	for _, w := range warnings {
		s.logger.Warn("profile load warning", "profile", profile, "warning", w)
	}
	s.metrics.Observe(ctx, "load_profile", loadErr == nil, s.clock.Now().Sub(start))
	if loadErr != nil {
		s.logger.Error("profile load failed", "profile", profile, "error", loadErr)
		return loadErr
	}

	if hasRoster {
		if err := s.SyncSystemSets(ctx); err == nil {
			s.sched.trigger()
		}
	}
	return nil
}

// Save persists the current settings and roster through the gateway. A save
// raced by a newer load skips the history reset; a successful save of the
// still-current document clears undo/redo history.
func (s *DocumentStore) Save(ctx context.Context) error {
	start := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, "document_store.save")
	saveErr := error(nil)
	defer func() { span.End(saveErr) }()

	s.mu.RLock()
	profile := s.profile
	settings := s.doc.Settings.Clone()
	var roster *domain.Roster
	if s.doc.Roster != nil {
		r := s.doc.Roster.Clone()
		roster = &r
	}
	seq := s.asyncSeq.Load()
	s.mu.RUnlock()

	saveErr = s.gateway.SaveProfileAndRoster(ctx, profile, settings, roster)
	s.metrics.Observe(ctx, "save_profile", saveErr == nil, s.clock.Now().Sub(start))
	if saveErr != nil {
		s.logger.Error("profile save failed", "profile", profile, "error", saveErr)
		return saveErr
	}

	s.mu.Lock()
	if s.asyncSeq.Load() == seq {
		s.history = nil
		s.future = nil
	}
	s.mu.Unlock()
	s.logger.Info("profile saved", "profile", profile)
	return nil
}
