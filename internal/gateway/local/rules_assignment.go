package local

import (
	"fmt"
	"path"
	"strings"

	"rostercore/pkg/domain"
)

// assignmentGroupsRule checks the groups an assignment actually targets:
// dangling group set references, duplicate group names or ids within the
// selection, members placed in more than one selected group, and empty
// groups.
type assignmentGroupsRule struct{}

func (assignmentGroupsRule) Name() string { return "assignment_groups" }

func (assignmentGroupsRule) Evaluate(_ domain.IdentityMode, roster domain.Roster, assignment domain.Assignment) []domain.Issue {
	var issues []domain.Issue
	set := findGroupSet(roster, assignment.GroupSetID)
	if set == nil {
		return []domain.Issue{{
			Rule:     "assignment_groups",
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("assignment %s references missing group set %s", assignment.Name, assignment.GroupSetID),
			EntityID: assignment.ID,
		}}
	}

	groups := selectedGroups(roster, *set, assignment.Selection)
	seenNames := map[string]bool{}
	seenIDs := map[string]bool{}
	memberGroup := map[string]string{}
	for _, g := range groups {
		if seenIDs[g.ID] {
			issues = append(issues, domain.Issue{
				Rule:     "assignment_groups",
				Severity: domain.SeverityError,
				Message:  fmt.Sprintf("group id %s appears more than once in assignment %s", g.ID, assignment.Name),
				EntityID: g.ID,
			})
		}
		seenIDs[g.ID] = true

		name := strings.ToLower(strings.TrimSpace(g.Name))
		if seenNames[name] {
			issues = append(issues, domain.Issue{
				Rule:     "assignment_groups",
				Severity: domain.SeverityError,
				Message:  fmt.Sprintf("group name %q appears more than once in assignment %s", g.Name, assignment.Name),
				EntityID: g.ID,
			})
		}
		seenNames[name] = true

		if len(g.MemberIDs) == 0 {
			issues = append(issues, domain.Issue{
				Rule:     "assignment_groups",
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("group %s in assignment %s has no members", g.Name, assignment.Name),
				EntityID: g.ID,
			})
		}
		for _, memberID := range g.MemberIDs {
			if other, ok := memberGroup[memberID]; ok && other != g.ID {
				issues = append(issues, domain.Issue{
					Rule:     "assignment_groups",
					Severity: domain.SeverityError,
					Message:  fmt.Sprintf("member %s is in multiple groups of assignment %s", memberID, assignment.Name),
					EntityID: memberID,
				})
				continue
			}
			memberGroup[memberID] = g.ID
		}
	}
	return issues
}

// assignmentIdentityRule flags selected members the configured identity mode
// cannot resolve, e.g. a missing git username in username mode.
type assignmentIdentityRule struct{}

func (assignmentIdentityRule) Name() string { return "assignment_identity" }

func (assignmentIdentityRule) Evaluate(mode domain.IdentityMode, roster domain.Roster, assignment domain.Assignment) []domain.Issue {
	if mode != domain.IdentityModeUsername {
		return nil
	}
	set := findGroupSet(roster, assignment.GroupSetID)
	if set == nil {
		return nil
	}
	members := map[string]domain.Member{}
	for _, m := range roster.Students {
		members[m.ID] = m
	}
	for _, m := range roster.Staff {
		members[m.ID] = m
	}
	var issues []domain.Issue
	for _, g := range selectedGroups(roster, *set, assignment.Selection) {
		for _, memberID := range g.MemberIDs {
			m, ok := members[memberID]
			if !ok {
				continue
			}
			if m.GitUsername == nil || *m.GitUsername == "" {
				issues = append(issues, domain.Issue{
					Rule:     "assignment_identity",
					Severity: domain.SeverityWarning,
					Message:  fmt.Sprintf("member %s has no git username for assignment %s", m.Name, assignment.Name),
					EntityID: m.ID,
				})
			}
		}
	}
	return issues
}

func findGroupSet(roster domain.Roster, id string) *domain.GroupSet {
	for i := range roster.GroupSets {
		if roster.GroupSets[i].ID == id {
			return &roster.GroupSets[i]
		}
	}
	return nil
}

// selectedGroups resolves the set's groups and applies the assignment's
// selection filter. A malformed glob pattern selects nothing.
func selectedGroups(roster domain.Roster, set domain.GroupSet, selection domain.GroupSelection) []domain.Group {
	byID := map[string]domain.Group{}
	for _, g := range roster.Groups {
		byID[g.ID] = g
	}
	var candidates []domain.Group
	for _, groupID := range set.GroupIDs {
		if g, ok := byID[groupID]; ok {
			candidates = append(candidates, g)
		}
	}
	switch selection.Mode {
	case domain.SelectExclude:
		excluded := map[string]bool{}
		for _, id := range selection.ExcludedGroupIDs {
			excluded[id] = true
		}
		var out []domain.Group
		for _, g := range candidates {
			if !excluded[g.ID] {
				out = append(out, g)
			}
		}
		return out
	case domain.SelectPattern:
		var out []domain.Group
		for _, g := range candidates {
			ok, err := path.Match(selection.Pattern, g.Name)
			if err != nil {
				return nil
			}
			if ok {
				out = append(out, g)
			}
		}
		return out
	default:
		return candidates
	}
}
