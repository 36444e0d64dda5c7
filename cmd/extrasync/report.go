package main

import (
	"fmt"
	"io"

	"extrasync/internal/workflow"
)

func renderReport(out io.Writer, result *workflow.Result) {
	items := itemWord(result.Section.Type)
	fmt.Fprintf(out, "\nScanned %d %s in %q; %d with local extras.\n",
		result.Scanned, items, result.Section.Title, result.WithExtras)
	fmt.Fprintf(out, "Finished in %.1f seconds.\n", result.Duration.Seconds())

	renderCategory(out, fmt.Sprintf("Already in %q", result.Collection), result.Summary.Kept)
	renderCategory(out, fmt.Sprintf("Added to %q", result.Collection), result.Summary.Added)
	if result.NoDelete {
		renderCategory(out, fmt.Sprintf("In %q without local extras (kept, no-delete)", result.Collection), result.Summary.Retained)
	} else {
		renderCategory(out, fmt.Sprintf("Removed from %q", result.Collection), result.Summary.Removed)
	}

	if len(result.Summary.Failed) > 0 {
		rows := make([][]string, 0, len(result.Summary.Failed))
		for _, failure := range result.Summary.Failed {
			rows = append(rows, []string{failure.Title, failure.Err.Error()})
		}
		fmt.Fprintf(out, "\nUpdate failures (%d):\n", len(rows))
		fmt.Fprintln(out, renderTable([]string{"Item", "Error"}, rows))
	}
}

func renderCategory(out io.Writer, header string, titles []string) {
	fmt.Fprintf(out, "\n%s (%d):\n", header, len(titles))
	if len(titles) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	rows := make([][]string, 0, len(titles))
	for _, title := range titles {
		rows = append(rows, []string{title})
	}
	fmt.Fprintln(out, renderTable([]string{"Item"}, rows))
}

func itemWord(sectionType string) string {
	if sectionType == "show" {
		return "episode(s)"
	}
	return "movie(s)"
}
