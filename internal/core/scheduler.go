package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"rostercore/pkg/domain"
)

// validationScheduler debounces roster-level and per-assignment validation
// independently. Each kind owns a single-slot timer: a new trigger cancels
// and replaces any pending one. Gateway calls are fire-and-forget; a failed
// or superseded call is logged or discarded, never surfaced as a document
// error.
type validationScheduler struct {
	store *DocumentStore
	delay time.Duration

	mu          sync.Mutex
	rosterTimer *time.Timer
	assignTimer *time.Timer
	stopped     bool

	rosterSeq atomic.Uint64
	assignSeq atomic.Uint64
}

func newValidationScheduler(store *DocumentStore, delay time.Duration) *validationScheduler {
	return &validationScheduler{store: store, delay: delay}
}

func (v *validationScheduler) trigger() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.stopped {
		return
	}
	if v.rosterTimer != nil {
		v.rosterTimer.Stop()
	}
	v.rosterTimer = time.AfterFunc(v.delay, func() {
		v.store.runRosterValidation(context.Background())
	})
	if v.assignTimer != nil {
		v.assignTimer.Stop()
	}
	v.assignTimer = time.AfterFunc(v.delay, func() {
		v.store.runAssignmentValidation(context.Background())
	})
}

func (v *validationScheduler) stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopped = true
	if v.rosterTimer != nil {
		v.rosterTimer.Stop()
		v.rosterTimer = nil
	}
	if v.assignTimer != nil {
		v.assignTimer.Stop()
		v.assignTimer = nil
	}
}

// ValidateNow runs both validation kinds synchronously, bypassing the
// debounce. Pending in-flight rounds become stale and are discarded.
func (s *DocumentStore) ValidateNow(ctx context.Context) {
	s.runRosterValidation(ctx)
	s.runAssignmentValidation(ctx)
}

func (s *DocumentStore) runRosterValidation(ctx context.Context) {
	seq := s.sched.rosterSeq.Add(1)

	s.mu.RLock()
	if s.doc.Roster == nil {
		s.mu.RUnlock()
		return
	}
	roster := s.doc.Roster.Clone()
	s.mu.RUnlock()

	res, err := s.gateway.ValidateRoster(ctx, roster)
	if err != nil {
		s.logger.Warn("roster validation failed", "error", err)
		return
	}
	if s.sched.rosterSeq.Load() != seq {
		return
	}

	s.mu.Lock()
	s.rosterValidation = res
	s.mu.Unlock()
}

func (s *DocumentStore) runAssignmentValidation(ctx context.Context) {
	seq := s.sched.assignSeq.Add(1)

	s.mu.RLock()
	if s.doc.Roster == nil {
		s.mu.RUnlock()
		return
	}
	roster := s.doc.Roster.Clone()
	mode := s.doc.IdentityMode
	s.mu.RUnlock()

	// Validate every assignment, not just the selected one, so switching
	// the active assignment never needs a fresh round trip.
	results := make(map[string]domain.ValidationResult, len(roster.Assignments))
	for _, a := range roster.Assignments {
		res, err := s.gateway.ValidateAssignment(ctx, mode, roster, a.ID)
		if err != nil {
			s.logger.Warn("assignment validation failed", "assignment", a.ID, "error", err)
			continue
		}
		results[a.ID] = res
	}
	if s.sched.assignSeq.Load() != seq {
		return
	}

	s.mu.Lock()
	s.assignmentValidation = results
	s.mu.Unlock()
}
