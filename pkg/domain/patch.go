package domain

// PatchOp is one step of a committed mutation's forward or inverse patch.
// The variant set is closed: settings field writes, whole-collection
// replacements, and whole-roster replacement. Replaying a patch is a direct
// structural write; integrity cascades are never re-run during replay because
// their effects were captured when the patch was recorded.
type PatchOp interface {
	apply(doc *ProfileDocument)
}

// SetCourse replaces the course reference.
type SetCourse struct {
	Course CourseRef
}

func (op SetCourse) apply(doc *ProfileDocument) { doc.Settings.Course = op.Course }

// SetGitConnection replaces the git connection reference together with the
// identity mode derived from it, so undo restores both in one step.
type SetGitConnection struct {
	Name string
	Mode IdentityMode
}

func (op SetGitConnection) apply(doc *ProfileDocument) {
	doc.Settings.GitConnection = op.Name
	doc.IdentityMode = op.Mode
}

// SetOperations replaces the operation settings.
type SetOperations struct {
	Operations OperationSettings
}

func (op SetOperations) apply(doc *ProfileDocument) {
	cp := op.Operations
	if op.Operations.Options != nil {
		cp.Options = make(map[string]string, len(op.Operations.Options))
		for k, v := range op.Operations.Options {
			cp.Options[k] = v
		}
	}
	doc.Settings.Operations = cp
}

// SetExports replaces the export settings.
type SetExports struct {
	Exports ExportSettings
}

func (op SetExports) apply(doc *ProfileDocument) {
	cp := op.Exports
	cp.Formats = append([]ExportFormat(nil), op.Exports.Formats...)
	doc.Settings.Exports = cp
}

// ReplaceStudents replaces the student sequence.
type ReplaceStudents struct {
	Members []Member
}

func (op ReplaceStudents) apply(doc *ProfileDocument) {
	if doc.Roster == nil {
		return
	}
	doc.Roster.Students = cloneMembers(op.Members)
}

// ReplaceStaff replaces the staff sequence.
type ReplaceStaff struct {
	Members []Member
}

func (op ReplaceStaff) apply(doc *ProfileDocument) {
	if doc.Roster == nil {
		return
	}
	doc.Roster.Staff = cloneMembers(op.Members)
}

// ReplaceGroups replaces the group collection.
type ReplaceGroups struct {
	Groups []Group
}

func (op ReplaceGroups) apply(doc *ProfileDocument) {
	if doc.Roster == nil {
		return
	}
	cloned := make([]Group, len(op.Groups))
	for i, g := range op.Groups {
		cloned[i] = g.Clone()
	}
	doc.Roster.Groups = cloned
}

// ReplaceGroupSets replaces the group set collection.
type ReplaceGroupSets struct {
	GroupSets []GroupSet
}

func (op ReplaceGroupSets) apply(doc *ProfileDocument) {
	if doc.Roster == nil {
		return
	}
	cloned := make([]GroupSet, len(op.GroupSets))
	for i, gs := range op.GroupSets {
		cloned[i] = gs.Clone()
	}
	doc.Roster.GroupSets = cloned
}

// ReplaceAssignments replaces the assignment collection.
type ReplaceAssignments struct {
	Assignments []Assignment
}

func (op ReplaceAssignments) apply(doc *ProfileDocument) {
	if doc.Roster == nil {
		return
	}
	cloned := make([]Assignment, len(op.Assignments))
	for i, a := range op.Assignments {
		cloned[i] = a.Clone()
	}
	doc.Roster.Assignments = cloned
}

// SetRoster replaces the entire roster, including setting or clearing it.
type SetRoster struct {
	Roster *Roster
}

func (op SetRoster) apply(doc *ProfileDocument) {
	if op.Roster == nil {
		doc.Roster = nil
		return
	}
	r := op.Roster.Clone()
	doc.Roster = &r
}

func cloneMembers(members []Member) []Member {
	cloned := make([]Member, len(members))
	for i, m := range members {
		cloned[i] = m.Clone()
	}
	return cloned
}

// HistoryEntry pairs the forward and inverse patches of one committed
// mutation with its human-readable description.
type HistoryEntry struct {
	Description string
	Forward     []PatchOp
	Inverse     []PatchOp
}

// ApplyPatch applies the ops in order to the document. Payloads are cloned on
// write so a replayed history entry can be replayed again later.
func ApplyPatch(doc *ProfileDocument, ops []PatchOp) {
	for _, op := range ops {
		op.apply(doc)
	}
}
