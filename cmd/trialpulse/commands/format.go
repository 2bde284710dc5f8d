package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/clinops/trialpulse/internal/contracts"
)

const rule = "───────────────────────────────────────────────────────────"

// printHeader prints a titled block separator
func printHeader(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", title)
	fmt.Println(rule)
}

// printJSON writes v as indented JSON to stdout
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printLoadReport lists what happened to each role of a load
func printLoadReport(r *contracts.LoadReport) {
	printHeader(fmt.Sprintf("%s (%s)", r.StudyName, r.StudyID))
	fmt.Printf("  Load ID   : %s\n", r.ID)
	fmt.Printf("  Seed      : %.2f\n", r.Seed)
	fmt.Printf("  Duration  : %s\n", r.Duration)
	if r.Cached {
		fmt.Println("  Source    : cache")
	}
	fmt.Println(rule)

	for _, f := range r.Files {
		status := string(f.Outcome)
		switch {
		case f.Error != "":
			status = "error: " + f.Error
		case f.Outcome == contracts.OutcomeAmbiguous:
			status = "ambiguous: " + strings.Join(f.Candidates, ", ")
		}

		file := f.File
		if file == "" {
			file = "-"
		}
		fmt.Printf("  %-9s %5d rows  %-40s %s\n", f.Role, f.Rows, file, status)
	}
}

// printOverview prints the dashboard KPI cards
func printOverview(o contracts.Overview) {
	fmt.Println(rule)
	fmt.Printf("  Sites            : %d (%d critical, %d at risk)\n", o.TotalSites, o.CriticalSites, o.AtRiskSites)
	fmt.Printf("  Subjects         : %d active / %d total\n", o.ActiveSubjects, o.TotalSubjects)
	fmt.Printf("  Open queries     : %d\n", o.TotalOpenQueries)
	fmt.Printf("  Avg data quality : %d\n", o.AvgDataQualityScore)
	fmt.Printf("  Clean subjects   : %d%%\n", o.CleanSubjectsPercentage)
	fmt.Printf("  Pending SAEs     : %d\n", o.PendingSAEs)
	fmt.Printf("  Overdue visits   : %d\n", o.OverdueVisits)
}
