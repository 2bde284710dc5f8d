package normalize

import (
	"fmt"
	"strings"

	"github.com/clinops/trialpulse/internal/contracts"
)

// Priority thresholds on days open, used when the export has no priority column
const (
	HighPriorityDays   = 14
	MediumPriorityDays = 7
)

// Queries normalizes query report rows
func (n *Normalizer) Queries(rows []Row) []contracts.Query {
	queries := make([]contracts.Query, 0, len(rows))
	for i, row := range rows {
		daysOpen := row.Int(queryDaysOpenColumns) + n.vars.DaysOpen

		queries = append(queries, contracts.Query{
			ID:          row.Str(queryIDColumns, fmt.Sprintf("QRY-%d", i+1)),
			SiteID:      row.Str(siteRefColumns, ""),
			SubjectID:   row.Str(subjectIDColumns, ""),
			Type:        queryType(row.Str(queryTypeColumns, "")),
			Status:      queryStatus(row.Str(queryStatusColumns, "")),
			Priority:    priority(row.Str(priorityColumns, ""), daysOpen),
			DaysOpen:    daysOpen,
			Description: row.Str(descriptionColumns, ""),
			CreatedDate: row.Str(createdDateColumns, ""),
		})
	}
	return queries
}

func queryType(text string) contracts.QueryType {
	s := strings.ToLower(text)
	switch {
	case strings.Contains(s, "safety"):
		return contracts.QuerySafety
	case strings.Contains(s, "medical"):
		return contracts.QueryMedical
	case strings.Contains(s, "cod"):
		return contracts.QueryCoding
	case strings.Contains(s, "clinical"):
		return contracts.QueryClinical
	default:
		return contracts.QueryDM
	}
}

func queryStatus(text string) contracts.QueryStatus {
	s := strings.ToLower(text)
	switch {
	case strings.Contains(s, "answer"):
		return contracts.QueryAnswered
	case strings.Contains(s, "close"), strings.Contains(s, "resolved"):
		return contracts.QueryClosed
	default:
		return contracts.QueryOpen
	}
}

func priority(text string, daysOpen int) contracts.Priority {
	s := strings.ToLower(text)
	switch {
	case strings.Contains(s, "high"), strings.Contains(s, "urgent"):
		return contracts.PriorityHigh
	case strings.Contains(s, "med"):
		return contracts.PriorityMedium
	case strings.Contains(s, "low"):
		return contracts.PriorityLow
	}

	switch {
	case daysOpen > HighPriorityDays:
		return contracts.PriorityHigh
	case daysOpen > MediumPriorityDays:
		return contracts.PriorityMedium
	default:
		return contracts.PriorityLow
	}
}
