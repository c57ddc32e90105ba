// Package local implements the command gateway in-process: profiles persist
// through a ProfileStore, validation runs the built-in rule sets, and system
// group sets are computed deterministically from the roster.
package local

import (
	"context"
	"fmt"

	"rostercore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.CommandGateway = (*Gateway)(nil)

// Gateway is a synchronous, in-process command gateway.
type Gateway struct {
	store           domain.ProfileStore
	rosterRules     []domain.RosterRule
	assignmentRules []domain.AssignmentRule
	defaults        domain.ProfileSettings
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithRosterRules replaces the built-in roster rule set.
func WithRosterRules(rules ...domain.RosterRule) Option {
	return func(g *Gateway) { g.rosterRules = rules }
}

// WithAssignmentRules replaces the built-in assignment rule set.
func WithAssignmentRules(rules ...domain.AssignmentRule) Option {
	return func(g *Gateway) { g.assignmentRules = rules }
}

// WithDefaultSettings overrides the settings returned for missing profiles.
func WithDefaultSettings(settings domain.ProfileSettings) Option {
	return func(g *Gateway) { g.defaults = settings }
}

// New constructs a gateway over the given profile store with the built-in
// rule sets.
func New(store domain.ProfileStore, opts ...Option) *Gateway {
	g := &Gateway{
		store: store,
		rosterRules: []domain.RosterRule{
			duplicateIdentityRule{},
			duplicateAssignmentNamesRule{},
			groupMembershipRule{},
		},
		assignmentRules: []domain.AssignmentRule{
			assignmentGroupsRule{},
			assignmentIdentityRule{},
		},
		defaults: domain.ProfileSettings{
			Exports: domain.ExportSettings{
				Formats: []domain.ExportFormat{domain.FormatJSON},
				Path:    "exports",
			},
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// LoadProfile returns the stored settings for the profile. A profile with no
// stored settings gets the defaults plus a warning; it is not an error.
func (g *Gateway) LoadProfile(ctx context.Context, name string) (domain.LoadResult, error) {
	settings, found, err := g.store.LoadSettings(ctx, name)
	if err != nil {
		return domain.LoadResult{}, fmt.Errorf("load settings for %s: %w", name, err)
	}
	if !found {
		return domain.LoadResult{
			Settings: g.defaults.Clone(),
			Warnings: []string{fmt.Sprintf("profile %s has no stored settings, defaults applied", name)},
		}, nil
	}
	return domain.LoadResult{Settings: settings}, nil
}

// GetRoster returns the stored roster, or nil when the profile has none.
func (g *Gateway) GetRoster(ctx context.Context, name string) (*domain.Roster, error) {
	roster, err := g.store.LoadRoster(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load roster for %s: %w", name, err)
	}
	return roster, nil
}

// SaveProfileAndRoster persists both halves of the profile.
func (g *Gateway) SaveProfileAndRoster(ctx context.Context, name string, settings domain.ProfileSettings, roster *domain.Roster) error {
	if err := g.store.Save(ctx, name, settings, roster); err != nil {
		return fmt.Errorf("save profile %s: %w", name, err)
	}
	return nil
}

// ValidateRoster runs every roster rule and merges the findings.
func (g *Gateway) ValidateRoster(_ context.Context, roster domain.Roster) (domain.ValidationResult, error) {
	var result domain.ValidationResult
	for _, rule := range g.rosterRules {
		result.Merge(domain.ValidationResult{Issues: rule.Evaluate(roster)})
	}
	return result, nil
}

// ValidateAssignment runs every assignment rule against one assignment.
// A missing assignment id yields a single error-severity finding rather than
// a call failure.
func (g *Gateway) ValidateAssignment(_ context.Context, mode domain.IdentityMode, roster domain.Roster, assignmentID string) (domain.ValidationResult, error) {
	var assignment *domain.Assignment
	for i := range roster.Assignments {
		if roster.Assignments[i].ID == assignmentID {
			assignment = &roster.Assignments[i]
			break
		}
	}
	if assignment == nil {
		return domain.ValidationResult{Issues: []domain.Issue{{
			Rule:     "assignment_exists",
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("assignment %s not found", assignmentID),
			EntityID: assignmentID,
		}}}, nil
	}
	var result domain.ValidationResult
	for _, rule := range g.assignmentRules {
		result.Merge(domain.ValidationResult{Issues: rule.Evaluate(mode, roster, *assignment)})
	}
	return result, nil
}

// DefaultSettings returns a copy of the settings used for new or unreadable
// profiles.
func (g *Gateway) DefaultSettings() domain.ProfileSettings {
	return g.defaults.Clone()
}
