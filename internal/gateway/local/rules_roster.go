package local

import (
	"fmt"
	"regexp"
	"strings"

	"rostercore/pkg/domain"
)

// duplicateIdentityRule flags member ids shared across the roster and email
// addresses used by more than one member.
type duplicateIdentityRule struct{}

func (duplicateIdentityRule) Name() string { return "duplicate_identity" }

func (duplicateIdentityRule) Evaluate(roster domain.Roster) []domain.Issue {
	var issues []domain.Issue
	seenIDs := map[string]bool{}
	seenEmails := map[string]string{}
	check := func(members []domain.Member) {
		for _, m := range members {
			if seenIDs[m.ID] {
				issues = append(issues, domain.Issue{
					Rule:     "duplicate_identity",
					Severity: domain.SeverityError,
					Message:  fmt.Sprintf("member id %s appears more than once", m.ID),
					EntityID: m.ID,
				})
			}
			seenIDs[m.ID] = true
			email := strings.ToLower(strings.TrimSpace(m.Email))
			if email == "" {
				continue
			}
			if other, ok := seenEmails[email]; ok && other != m.ID {
				issues = append(issues, domain.Issue{
					Rule:     "duplicate_identity",
					Severity: domain.SeverityWarning,
					Message:  fmt.Sprintf("email %s is shared by multiple members", email),
					EntityID: m.ID,
				})
				continue
			}
			seenEmails[email] = m.ID
		}
	}
	check(roster.Students)
	check(roster.Staff)
	return issues
}

// duplicateAssignmentNamesRule flags assignments sharing a name. Repository
// names derive from assignment names, so collisions break provisioning.
type duplicateAssignmentNamesRule struct{}

func (duplicateAssignmentNamesRule) Name() string { return "duplicate_assignment_names" }

func (duplicateAssignmentNamesRule) Evaluate(roster domain.Roster) []domain.Issue {
	var issues []domain.Issue
	seen := map[string]string{}
	for _, a := range roster.Assignments {
		name := strings.ToLower(strings.TrimSpace(a.Name))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			issues = append(issues, domain.Issue{
				Rule:     "duplicate_assignment_names",
				Severity: domain.SeverityError,
				Message:  fmt.Sprintf("assignment name %q is used more than once", a.Name),
				EntityID: a.ID,
			})
			continue
		}
		seen[name] = a.ID
	}
	return issues
}

var gitUsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9](?:-?[a-zA-Z0-9])*$`)

func validGitUsername(name string) bool {
	return len(name) <= 39 && gitUsernamePattern.MatchString(name)
}

// groupMembershipRule flags group member references that resolve to no
// roster member, and git usernames that cannot be valid on the git host.
type groupMembershipRule struct{}

func (groupMembershipRule) Name() string { return "group_membership" }

func (groupMembershipRule) Evaluate(roster domain.Roster) []domain.Issue {
	var issues []domain.Issue
	known := map[string]bool{}
	for _, m := range roster.Students {
		known[m.ID] = true
	}
	for _, m := range roster.Staff {
		known[m.ID] = true
	}
	for _, g := range roster.Groups {
		for _, memberID := range g.MemberIDs {
			if !known[memberID] {
				issues = append(issues, domain.Issue{
					Rule:     "group_membership",
					Severity: domain.SeverityError,
					Message:  fmt.Sprintf("group %s references unknown member %s", g.Name, memberID),
					EntityID: g.ID,
				})
			}
		}
	}
	checkUsernames := func(members []domain.Member) {
		for _, m := range members {
			if m.GitUsername == nil || *m.GitUsername == "" {
				continue
			}
			if !validGitUsername(*m.GitUsername) {
				issues = append(issues, domain.Issue{
					Rule:     "group_membership",
					Severity: domain.SeverityWarning,
					Message:  fmt.Sprintf("member %s has an invalid git username %q", m.Name, *m.GitUsername),
					EntityID: m.ID,
				})
			}
		}
	}
	checkUsernames(roster.Students)
	checkUsernames(roster.Staff)
	return issues
}
