package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/clinops/trialpulse/internal/contracts"
)

// SAEs normalizes SAE dashboard rows
func (n *Normalizer) SAEs(rows []Row) []contracts.SAERecord {
	records := make([]contracts.SAERecord, 0, len(rows))
	for i, row := range rows {
		records = append(records, contracts.SAERecord{
			ID:              fmt.Sprintf("SAE-%d", i),
			SiteID:          row.Str(siteRefColumns, ""),
			SubjectID:       row.Str(subjectIDColumns, fmt.Sprintf("SUBJ-%d", i+1)),
			Country:         row.Str(countryColumns[:2], ""),
			Status:          saeStatus(row.Str(saeStatusColumns, "")),
			DiscrepancyType: row.Str(discrepancyColumns, "Review Needed"),
			DaysOpen:        row.Int(daysOpenColumns) + n.vars.DaysOpen,
			Severity:        severity(row.Str(severityColumns, "")),
		})
	}
	return records
}

func saeStatus(text string) contracts.SAEStatus {
	if strings.Contains(strings.ToLower(text), "open") {
		return contracts.SAEPendingReview
	}
	return contracts.SAEClosed
}

// negatedSerious matches "non-serious", "not serious", "nonserious"
var negatedSerious = regexp.MustCompile(`\b(non|not)[\s_-]*serious`)

// severity is serious when the text says serious, unless the word itself is
// negated. Negations elsewhere ("non-fatal") do not count.
func severity(text string) contracts.Severity {
	s := strings.ToLower(text)
	if !strings.Contains(s, "serious") || negatedSerious.MatchString(s) {
		return contracts.SeverityNonSerious
	}
	return contracts.SeveritySerious
}
