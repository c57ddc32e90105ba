package domain

// IssueSeverity grades a validation finding.
type IssueSeverity string

// Validation severities. Errors gate repository operations in the UI;
// warnings are advisory.
const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue reports one validation finding against a roster or assignment.
type Issue struct {
	Rule     string        `json:"rule"`
	Severity IssueSeverity `json:"severity"`
	Message  string        `json:"message"`
	EntityID string        `json:"entity_id,omitempty"`
}

// ValidationResult aggregates issues from one validation pass.
type ValidationResult struct {
	Issues []Issue `json:"issues"`
}

// Merge appends issues from another result.
func (r *ValidationResult) Merge(other ValidationResult) {
	if len(other.Issues) == 0 {
		return
	}
	r.Issues = append(r.Issues, other.Issues...)
}

// HasErrors reports whether the result contains error-severity issues.
func (r ValidationResult) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// RosterRule evaluates one roster-level validation concern.
type RosterRule interface {
	Name() string
	Evaluate(roster Roster) []Issue
}

// AssignmentRule evaluates one per-assignment validation concern.
type AssignmentRule interface {
	Name() string
	Evaluate(mode IdentityMode, roster Roster, assignment Assignment) []Issue
}

// SystemGroupSetPatch is the merge instruction set produced by the system
// group set computation: groups to upsert, group ids to delete, the group set
// records themselves, and which set id is canonical per system type.
type SystemGroupSetPatch struct {
	UpsertGroups   []Group               `json:"upsert_groups"`
	DeleteGroupIDs []string              `json:"delete_group_ids"`
	GroupSets      []GroupSet            `json:"group_sets"`
	Canonical      map[SystemType]string `json:"canonical"`
}
