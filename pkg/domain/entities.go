// Package domain defines the profile document model, patch primitives, and
// collaborator contracts used by rostercore.
package domain

// IdentityMode describes how repository collaborators are identified when
// talking to the configured git host.
type IdentityMode string

// IdentityModeUsername maps roster members to git usernames. Resolvers may
// return other modes; callers treat the value as opaque beyond this constant.
const IdentityModeUsername IdentityMode = "username"

// DocumentStatus reflects the load state of a profile document.
type DocumentStatus string

// Document load states.
const (
	StatusReady   DocumentStatus = "ready"
	StatusLoading DocumentStatus = "loading"
	StatusError   DocumentStatus = "error"
)

// MemberRole distinguishes the two roster member sequences.
type MemberRole string

// Roster member roles.
const (
	RoleStudent MemberRole = "student"
	RoleStaff   MemberRole = "staff"
)

// MemberStatus is the lifecycle state of a roster member.
type MemberStatus string

// Canonical member lifecycle states.
const (
	MemberActive   MemberStatus = "active"
	MemberDropped  MemberStatus = "dropped"
	MemberInactive MemberStatus = "inactive"
)

// EnrollmentType mirrors the LMS enrollment classification of a member.
type EnrollmentType string

// Canonical enrollment types.
const (
	EnrollmentStudent  EnrollmentType = "student"
	EnrollmentTeacher  EnrollmentType = "teacher"
	EnrollmentTA       EnrollmentType = "ta"
	EnrollmentObserver EnrollmentType = "observer"
)

// MemberSource records where a roster member record came from.
type MemberSource string

// Member provenance tags.
const (
	SourceLMS    MemberSource = "lms"
	SourceManual MemberSource = "manual"
)

// GroupOrigin records where a group came from and therefore who may edit it.
type GroupOrigin string

// Group provenance tags. Only local groups are directly editable.
const (
	OriginLocal  GroupOrigin = "local"
	OriginLMS    GroupOrigin = "lms"
	OriginImport GroupOrigin = "import"
	// OriginSystem marks singleton groups maintained by the system group set
	// synchronizer.
	OriginSystem GroupOrigin = "system"
)

// Editable reports whether direct user mutation of the group is permitted.
func (o GroupOrigin) Editable() bool {
	switch o {
	case OriginLocal:
		return true
	case OriginLMS, OriginImport, OriginSystem:
		return false
	}
	return false
}

// ConnectionKind describes the provenance of a group set.
type ConnectionKind string

// Group set connection kinds.
const (
	ConnectionLocal  ConnectionKind = "local"
	ConnectionImport ConnectionKind = "import"
	ConnectionCanvas ConnectionKind = "canvas"
	ConnectionMoodle ConnectionKind = "moodle"
	ConnectionSystem ConnectionKind = "system"
)

// ReadOnly reports whether the group set's name and membership are locked
// against direct user mutation.
func (k ConnectionKind) ReadOnly() bool {
	switch k {
	case ConnectionLocal, ConnectionImport:
		return false
	case ConnectionCanvas, ConnectionMoodle, ConnectionSystem:
		return true
	}
	return false
}

// Deletable reports whether a user may delete a group set of this kind.
// System sets are owned by the synchronizer and never user-deletable.
func (k ConnectionKind) Deletable() bool {
	switch k {
	case ConnectionLocal, ConnectionImport, ConnectionCanvas, ConnectionMoodle:
		return true
	case ConnectionSystem:
		return false
	}
	return false
}

// SystemType identifies a synchronizer-maintained canonical group set.
type SystemType string

// Supported system group set types.
const (
	SystemIndividualStudents SystemType = "individual_students"
	SystemStaff              SystemType = "staff"
)

// GroupSetConnection carries provenance metadata for a group set. A nil
// connection on a GroupSet is equivalent to Kind == ConnectionLocal.
type GroupSetConnection struct {
	Kind       ConnectionKind `json:"kind"`
	SystemType SystemType     `json:"system_type,omitempty"`
}

// Member is a single student or staff record.
type Member struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Email               string         `json:"email"`
	StudentNumber       *string        `json:"student_number,omitempty"`
	GitUsername         *string        `json:"git_username,omitempty"`
	GitUsernameVerified bool           `json:"git_username_verified"`
	Status              MemberStatus   `json:"status"`
	LMSUserID           *string        `json:"lms_user_id,omitempty"`
	Enrollment          EnrollmentType `json:"enrollment"`
	Source              MemberSource   `json:"source"`
}

// Group is a named set of member references.
type Group struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	MemberIDs  []string    `json:"member_ids"`
	Origin     GroupOrigin `json:"origin"`
	LMSGroupID *string     `json:"lms_group_id,omitempty"`
}

// GroupSet is an ordered collection of group references.
type GroupSet struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	GroupIDs   []string            `json:"group_ids"`
	Connection *GroupSetConnection `json:"connection,omitempty"`
}

// Kind returns the effective connection kind, treating a nil connection as
// local.
func (gs GroupSet) Kind() ConnectionKind {
	if gs.Connection == nil {
		return ConnectionLocal
	}
	return gs.Connection.Kind
}

// System returns the system type when the set is synchronizer-owned.
func (gs GroupSet) System() (SystemType, bool) {
	if gs.Connection == nil || gs.Connection.Kind != ConnectionSystem {
		return "", false
	}
	return gs.Connection.SystemType, true
}

// SelectionMode filters which groups of a set apply to an assignment.
type SelectionMode string

// Assignment group selection modes.
const (
	SelectAll     SelectionMode = "all"
	SelectExclude SelectionMode = "exclude"
	SelectPattern SelectionMode = "pattern"
)

// GroupSelection describes an assignment's group filter.
type GroupSelection struct {
	Mode             SelectionMode `json:"mode"`
	ExcludedGroupIDs []string      `json:"excluded_group_ids,omitempty"`
	Pattern          string        `json:"pattern,omitempty"`
}

// AssignmentType tags the kind of assignment.
type AssignmentType string

// Canonical assignment types.
const (
	AssignmentIndividual AssignmentType = "individual"
	AssignmentGroup      AssignmentType = "group"
)

// Assignment references a group set and a selection over its groups.
type Assignment struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Type        AssignmentType `json:"type"`
	GroupSetID  string         `json:"group_set_id"`
	Selection   GroupSelection `json:"selection"`
}

// Roster holds one course's educational data.
type Roster struct {
	Students    []Member     `json:"students"`
	Staff       []Member     `json:"staff"`
	Groups      []Group      `json:"groups"`
	GroupSets   []GroupSet   `json:"group_sets"`
	Assignments []Assignment `json:"assignments"`
}

// CourseRef identifies the course a profile belongs to.
type CourseRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OperationSettings configures repository operations for a profile.
type OperationSettings struct {
	TargetOrg    string            `json:"target_org"`
	RepoTemplate string            `json:"repo_template"`
	Options      map[string]string `json:"options,omitempty"`
}

// ExportFormat identifies a roster export output format.
type ExportFormat string

// Supported export formats.
const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)

// ExportSettings configures roster export output.
type ExportSettings struct {
	Formats []ExportFormat `json:"formats"`
	Path    string         `json:"path"`
}

// ProfileSettings is the persisted, non-roster half of a profile.
type ProfileSettings struct {
	Course        CourseRef         `json:"course"`
	GitConnection string            `json:"git_connection,omitempty"`
	Operations    OperationSettings `json:"operations"`
	Exports       ExportSettings    `json:"exports"`
}

// ProfileDocument is the unit of load, save, and undo for one profile.
// IdentityMode is derived from the git connection reference and recomputed
// whenever that reference changes.
type ProfileDocument struct {
	Settings     ProfileSettings `json:"settings"`
	Roster       *Roster         `json:"roster,omitempty"`
	IdentityMode IdentityMode    `json:"identity_mode"`
}

// Clone helpers -------------------------------------------------------------

// Clone returns a deep copy of the member.
func (m Member) Clone() Member {
	cp := m
	cp.StudentNumber = clonePtr(m.StudentNumber)
	cp.GitUsername = clonePtr(m.GitUsername)
	cp.LMSUserID = clonePtr(m.LMSUserID)
	return cp
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	cp := g
	cp.MemberIDs = append([]string(nil), g.MemberIDs...)
	cp.LMSGroupID = clonePtr(g.LMSGroupID)
	return cp
}

// Clone returns a deep copy of the group set.
func (gs GroupSet) Clone() GroupSet {
	cp := gs
	cp.GroupIDs = append([]string(nil), gs.GroupIDs...)
	if gs.Connection != nil {
		conn := *gs.Connection
		cp.Connection = &conn
	}
	return cp
}

// Clone returns a deep copy of the assignment.
func (a Assignment) Clone() Assignment {
	cp := a
	cp.Description = clonePtr(a.Description)
	cp.Selection.ExcludedGroupIDs = append([]string(nil), a.Selection.ExcludedGroupIDs...)
	return cp
}

// Clone returns a deep copy of the roster.
func (r Roster) Clone() Roster {
	cp := Roster{
		Students:    make([]Member, len(r.Students)),
		Staff:       make([]Member, len(r.Staff)),
		Groups:      make([]Group, len(r.Groups)),
		GroupSets:   make([]GroupSet, len(r.GroupSets)),
		Assignments: make([]Assignment, len(r.Assignments)),
	}
	for i, m := range r.Students {
		cp.Students[i] = m.Clone()
	}
	for i, m := range r.Staff {
		cp.Staff[i] = m.Clone()
	}
	for i, g := range r.Groups {
		cp.Groups[i] = g.Clone()
	}
	for i, gs := range r.GroupSets {
		cp.GroupSets[i] = gs.Clone()
	}
	for i, a := range r.Assignments {
		cp.Assignments[i] = a.Clone()
	}
	return cp
}

// Clone returns a deep copy of the settings.
func (s ProfileSettings) Clone() ProfileSettings {
	cp := s
	if s.Operations.Options != nil {
		cp.Operations.Options = make(map[string]string, len(s.Operations.Options))
		for k, v := range s.Operations.Options {
			cp.Operations.Options[k] = v
		}
	}
	cp.Exports.Formats = append([]ExportFormat(nil), s.Exports.Formats...)
	return cp
}

// Clone returns a deep copy of the document.
func (d ProfileDocument) Clone() ProfileDocument {
	cp := d
	cp.Settings = d.Settings.Clone()
	if d.Roster != nil {
		r := d.Roster.Clone()
		cp.Roster = &r
	}
	return cp
}

func clonePtr(v *string) *string {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
