// Package core implements the transactional document engine: an in-memory
// profile document mutated atomically by command-pattern recipes, with
// patch-based undo/redo, inline integrity cascades, system group set
// reconciliation, and debounced asynchronous validation.
package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"rostercore/pkg/domain"
)

const (
	historyLimit    = 100
	defaultDebounce = 200 * time.Millisecond
)

// DocumentStore owns the current profile document and is the single entry
// point for all mutations, undo/redo, selection, and async load/save. All
// mutation entry points serialize on the store mutex; exclusivity is
// structural, there is no finer-grained locking.
type DocumentStore struct {
	gateway  domain.CommandGateway
	resolver domain.IdentityResolver
	ids      domain.IdentifierService
	clock    Clock
	logger   Logger
	metrics  MetricsRecorder
	tracer   Tracer
	debounce time.Duration

	mu              sync.RWMutex
	profile         string
	doc             domain.ProfileDocument
	status          domain.DocumentStatus
	lastErr         string
	systemSetsReady bool
	selected        string
	version         uint64

	history []domain.HistoryEntry
	future  []domain.HistoryEntry

	// asyncSeq orders load/save rounds: results of a superseded round are
	// discarded instead of applied.
	asyncSeq atomic.Uint64

	sched *validationScheduler

	rosterValidation     domain.ValidationResult
	assignmentValidation map[string]domain.ValidationResult

	groupsInSetMemo      groupsMemo
	assignmentGroupsMemo groupsMemo
}

// Option configures a DocumentStore.
type Option func(*DocumentStore)

// WithClock overrides the store clock.
func WithClock(c Clock) Option {
	return func(s *DocumentStore) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger overrides the store logger.
func WithLogger(l Logger) Option {
	return func(s *DocumentStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetricsRecorder overrides the metrics recorder.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *DocumentStore) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer overrides the tracer.
func WithTracer(t Tracer) Option {
	return func(s *DocumentStore) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithDebounce overrides the validation quiet period.
func WithDebounce(d time.Duration) Option {
	return func(s *DocumentStore) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithIdentityResolver overrides the app-level identity mode lookup.
func WithIdentityResolver(r domain.IdentityResolver) Option {
	return func(s *DocumentStore) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithIdentifierService overrides the id generator.
func WithIdentifierService(ids domain.IdentifierService) Option {
	return func(s *DocumentStore) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// NewDocumentStore constructs a store backed by the supplied gateway.
func NewDocumentStore(gateway domain.CommandGateway, opts ...Option) *DocumentStore {
	s := &DocumentStore{
		gateway: gateway,
		resolver: domain.IdentityResolverFunc(func(string) domain.IdentityMode {
			return domain.IdentityModeUsername
		}),
		ids:                  randomIDService{},
		clock:                ClockFunc(func() time.Time { return time.Now().UTC() }),
		logger:               noopLogger{},
		metrics:              noopMetricsRecorder{},
		tracer:               noopTracer{},
		debounce:             defaultDebounce,
		status:               domain.StatusReady,
		assignmentValidation: make(map[string]domain.ValidationResult),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sched = newValidationScheduler(s, s.debounce)
	return s
}

// Close cancels pending validation timers.
func (s *DocumentStore) Close() {
	s.sched.stop()
}

// randomIDService generates collision-resistant hex identifiers.
type randomIDService struct{}

// NewID implements domain.IdentifierService.
func (randomIDService) NewID(kind string) string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	id := hex.EncodeToString(b[:])
	if kind == "" {
		return id
	}
	return kind + "-" + id
}

// mutate runs one mutation recipe against a draft clone of the document.
// The recipe returns false to signal a guarded no-op. An unchanged draft
// (empty diff) commits nothing: no history entry, no validation scheduling.
func (s *DocumentStore) mutate(op, description string, recipe func(draft *domain.ProfileDocument) bool) bool {
	start := s.clock.Now()
	s.mu.Lock()
	draft := s.doc.Clone()
	if !recipe(&draft) {
		s.mu.Unlock()
		return false
	}
	forward, inverse := diffDocuments(s.doc, draft)
	if len(forward) == 0 {
		s.mu.Unlock()
		return false
	}
	s.doc = draft
	s.version++
	s.commitLocked(domain.HistoryEntry{Description: description, Forward: forward, Inverse: inverse})
	s.fixSelectionLocked()
	hasRoster := s.doc.Roster != nil
	s.mu.Unlock()

	s.metrics.Observe(context.Background(), op, true, s.clock.Now().Sub(start))
	s.logger.Debug("mutation committed", "operation", op, "description", description)
	if hasRoster {
		s.sched.trigger()
	}
	return true
}

func (s *DocumentStore) commitLocked(entry domain.HistoryEntry) {
	s.history = append(s.history, entry)
	if len(s.history) > historyLimit {
		trimmed := make([]domain.HistoryEntry, historyLimit)
		copy(trimmed, s.history[len(s.history)-historyLimit:])
		s.history = trimmed
	}
	s.future = nil
}

// Undo replays the inverse patch of the most recent history entry. It
// returns nil when there is nothing to undo.
func (s *DocumentStore) Undo() *domain.HistoryEntry {
	s.mu.Lock()
	if len(s.history) == 0 {
		s.mu.Unlock()
		return nil
	}
	entry := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	domain.ApplyPatch(&s.doc, entry.Inverse)
	s.future = append([]domain.HistoryEntry{entry}, s.future...)
	s.version++
	s.fixSelectionLocked()
	hasRoster := s.doc.Roster != nil
	s.mu.Unlock()

	s.logger.Debug("undid mutation", "description", entry.Description)
	if hasRoster {
		s.sched.trigger()
	}
	return &entry
}

// Redo replays the forward patch of the soonest redoable entry. It returns
// nil when there is nothing to redo.
func (s *DocumentStore) Redo() *domain.HistoryEntry {
	s.mu.Lock()
	if len(s.future) == 0 {
		s.mu.Unlock()
		return nil
	}
	entry := s.future[0]
	s.future = s.future[1:]
	domain.ApplyPatch(&s.doc, entry.Forward)
	s.history = append(s.history, entry)
	s.version++
	s.fixSelectionLocked()
	hasRoster := s.doc.Roster != nil
	s.mu.Unlock()

	s.logger.Debug("redid mutation", "description", entry.Description)
	if hasRoster {
		s.sched.trigger()
	}
	return &entry
}

// fixSelectionLocked keeps the assignment selection consistent with the
// current assignment list. Selection is ancillary UI state, never part of
// history.
func (s *DocumentStore) fixSelectionLocked() {
	if s.doc.Roster == nil {
		s.selected = ""
		return
	}
	if s.selected != "" {
		for _, a := range s.doc.Roster.Assignments {
			if a.ID == s.selected {
				return
			}
		}
	}
	if len(s.doc.Roster.Assignments) > 0 {
		s.selected = s.doc.Roster.Assignments[0].ID
		return
	}
	s.selected = ""
}

// Clear discards the document, selection, history, and validation state, as
// on profile switch.
func (s *DocumentStore) Clear() {
	s.mu.Lock()
	s.profile = ""
	s.doc = domain.ProfileDocument{}
	s.status = domain.StatusReady
	s.lastErr = ""
	s.systemSetsReady = false
	s.selected = ""
	s.history = nil
	s.future = nil
	s.version++
	s.rosterValidation = domain.ValidationResult{}
	s.assignmentValidation = make(map[string]domain.ValidationResult)
	s.mu.Unlock()
}

// Read accessors -------------------------------------------------------------

// Profile returns the loaded profile name.
func (s *DocumentStore) Profile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Document returns a deep copy of the current document.
func (s *DocumentStore) Document() domain.ProfileDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Roster returns a deep copy of the current roster, or nil when none is
// loaded.
func (s *DocumentStore) Roster() *domain.Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc.Roster == nil {
		return nil
	}
	r := s.doc.Roster.Clone()
	return &r
}

// Status returns the document load status.
func (s *DocumentStore) Status() domain.DocumentStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the last document-level error message.
func (s *DocumentStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// SystemSetsReady reports whether the system group sets reflect the current
// roster.
func (s *DocumentStore) SystemSetsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.systemSetsReady
}

// SelectedAssignment returns the focused assignment id, or empty.
func (s *DocumentStore) SelectedAssignment() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SelectAssignment focuses an assignment. Selection is not recorded in
// history. Selecting a missing id is a no-op.
func (s *DocumentStore) SelectAssignment(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Roster == nil {
		return false
	}
	for _, a := range s.doc.Roster.Assignments {
		if a.ID == id {
			s.selected = id
			return true
		}
	}
	return false
}

// UndoDepth returns the number of undoable entries.
func (s *DocumentStore) UndoDepth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// RedoDepth returns the number of redoable entries.
func (s *DocumentStore) RedoDepth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.future)
}

// Version returns the document identity counter; it changes on every
// committed document change.
func (s *DocumentStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// RosterValidation returns the latest roster-level validation result.
func (s *DocumentStore) RosterValidation() domain.ValidationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := domain.ValidationResult{Issues: append([]domain.Issue(nil), s.rosterValidation.Issues...)}
	return out
}

// AssignmentValidation returns the latest validation result for one
// assignment.
func (s *DocumentStore) AssignmentValidation(id string) (domain.ValidationResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.assignmentValidation[id]
	if !ok {
		return domain.ValidationResult{}, false
	}
	return domain.ValidationResult{Issues: append([]domain.Issue(nil), res.Issues...)}, true
}
