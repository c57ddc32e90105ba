// Command roster-check loads a stored profile, runs roster and assignment
// validation against it, and reports the findings. Exit code 1 means
// error-severity issues were found; 2 means the check itself failed.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"rostercore/internal/core"
	"rostercore/internal/gateway/local"
	"rostercore/pkg/domain"
)

var exitFunc = os.Exit

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("roster-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var profile string
	var doExport bool
	fs.StringVar(&profile, "profile", "", "profile name to check (required)")
	fs.BoolVar(&doExport, "export", false, "write roster exports after a clean check")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if profile == "" {
		fmt.Fprintln(stderr, "roster-check: -profile is required")
		fs.Usage()
		return 2
	}

	profileStore, err := core.OpenProfileStore()
	if err != nil {
		fmt.Fprintf(stderr, "roster-check: open profile store: %v\n", err)
		return 2
	}
	gateway := local.New(profileStore)
	store := core.NewDocumentStore(gateway)
	defer store.Close()

	ctx := context.Background()
	if err := store.Load(ctx, profile); err != nil {
		fmt.Fprintf(stderr, "roster-check: load profile %s: %v\n", profile, err)
		return 2
	}
	if store.Roster() == nil {
		fmt.Fprintf(stdout, "profile %s has no roster, nothing to check\n", profile)
		return 0
	}
	store.ValidateNow(ctx)

	hasErrors := false
	roster := store.RosterValidation()
	printIssues(stdout, "roster", roster.Issues)
	hasErrors = hasErrors || roster.HasErrors()

	doc := store.Document()
	for _, a := range doc.Roster.Assignments {
		res, ok := store.AssignmentValidation(a.ID)
		if !ok {
			continue
		}
		printIssues(stdout, fmt.Sprintf("assignment %s", a.Name), res.Issues)
		hasErrors = hasErrors || res.HasErrors()
	}

	if hasErrors {
		fmt.Fprintln(stdout, "check failed: error-severity issues found")
		return 1
	}
	fmt.Fprintln(stdout, "check passed")

	if doExport {
		sink, err := core.OpenExportSink(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "roster-check: open export sink: %v\n", err)
			return 2
		}
		written, err := store.ExportRoster(ctx, sink)
		if err != nil {
			fmt.Fprintf(stderr, "roster-check: export roster: %v\n", err)
			return 2
		}
		for _, info := range written {
			fmt.Fprintf(stdout, "exported %s (%d bytes)\n", info.Key, info.Size)
		}
	}
	return 0
}

func printIssues(w io.Writer, scope string, issues []domain.Issue) {
	if len(issues) == 0 {
		return
	}
	for _, issue := range issues {
		fmt.Fprintf(w, "%s: [%s] %s: %s\n", scope, issue.Severity, issue.Rule, issue.Message)
	}
}
