package domain

import "context"

// LoadResult carries a loaded profile's settings plus non-fatal warnings.
type LoadResult struct {
	Settings ProfileSettings `json:"settings"`
	Warnings []string        `json:"warnings,omitempty"`
}

// CommandGateway is the asynchronous collaborator the document engine
// delegates to for persistence, validation, and system group set computation.
// Implementations must be safe for concurrent use.
type CommandGateway interface {
	LoadProfile(ctx context.Context, name string) (LoadResult, error)
	GetRoster(ctx context.Context, name string) (*Roster, error)
	SaveProfileAndRoster(ctx context.Context, name string, settings ProfileSettings, roster *Roster) error
	ValidateRoster(ctx context.Context, roster Roster) (ValidationResult, error)
	ValidateAssignment(ctx context.Context, mode IdentityMode, roster Roster, assignmentID string) (ValidationResult, error)
	EnsureSystemGroupSets(ctx context.Context, roster Roster) (SystemGroupSetPatch, error)
	DefaultSettings() ProfileSettings
}

// ProfileStore is the durable backend a gateway persists profiles to.
// Settings and roster are stored per profile name; a missing profile is not
// an error.
type ProfileStore interface {
	LoadSettings(ctx context.Context, profile string) (ProfileSettings, bool, error)
	LoadRoster(ctx context.Context, profile string) (*Roster, error)
	Save(ctx context.Context, profile string, settings ProfileSettings, roster *Roster) error
}

// IdentityResolver looks up the identity mode implied by a named git
// connection in app-level settings. An empty connection name resolves to the
// resolver's default mode.
type IdentityResolver interface {
	ResolveIdentityMode(gitConnection string) IdentityMode
}

// IdentityResolverFunc adapts a function to the IdentityResolver interface.
type IdentityResolverFunc func(gitConnection string) IdentityMode

// ResolveIdentityMode implements IdentityResolver.
func (f IdentityResolverFunc) ResolveIdentityMode(gitConnection string) IdentityMode {
	return f(gitConnection)
}

// IdentifierService generates unique string identifiers for new entities.
// Kind is a hint ("member", "group", ...) implementations may fold into the
// identifier or ignore.
type IdentifierService interface {
	NewID(kind string) string
}
