package normalize

import (
	"fmt"
	"strings"

	"github.com/clinops/trialpulse/internal/contracts"
)

// Subjects normalizes subject-level rows (missing pages export).
// Subject counters are not perturbed.
func (n *Normalizer) Subjects(rows []Row) []contracts.Subject {
	subjects := make([]contracts.Subject, 0, len(rows))
	for i, row := range rows {
		missingVisits := row.Int(missingVisitCols)
		missingPages := row.Int(missingPageColumns)
		openQueries := row.Int(openQueryColumns)
		uncoded := row.Int(uncodedColumns)

		subjects = append(subjects, contracts.Subject{
			ID:                 row.Str(subjectIDColumns, fmt.Sprintf("SUBJ-%d", i+1)),
			SiteID:             row.Str(siteIDColumns, ""),
			SiteName:           row.Str([]string{"Site Name", "site_name", "Investigator"}, ""),
			Country:            row.Str(countryColumns, ""),
			Status:             subjectStatus(row.Str(subjectStatusCols, "")),
			LatestVisit:        row.Str(latestVisitColumns, ""),
			MissingVisits:      missingVisits,
			MissingPages:       missingPages,
			OpenQueries:        openQueries,
			UncodedTerms:       uncoded,
			CleanCRFPercentage: Score(float64(row.Int(cleanCRFColumns))),
			IsClean:            missingVisits == 0 && missingPages == 0 && openQueries == 0 && uncoded == 0,
		})
	}
	return subjects
}

func subjectStatus(text string) contracts.SubjectStatus {
	s := strings.ToLower(text)
	switch {
	case strings.Contains(s, "screen") && strings.Contains(s, "fail"):
		return contracts.SubjectScreenFailure
	case strings.Contains(s, "discontinu"), strings.Contains(s, "withdr"), strings.Contains(s, "early term"):
		return contracts.SubjectDiscontinued
	case strings.Contains(s, "complet"):
		return contracts.SubjectCompleted
	default:
		return contracts.SubjectOngoing
	}
}
