package normalize

import (
	"fmt"

	"github.com/clinops/trialpulse/internal/contracts"
)

// Visits normalizes visit projection rows
func (n *Normalizer) Visits(rows []Row) []contracts.VisitProjection {
	visits := make([]contracts.VisitProjection, 0, len(rows))
	for i, row := range rows {
		overdue := row.Int(daysOverdueColumns) + n.vars.Visit
		if overdue < 0 {
			overdue = 0
		}

		visits = append(visits, contracts.VisitProjection{
			ID:            fmt.Sprintf("VP-%d", i),
			SiteID:        row.Str(siteRefColumns, ""),
			SubjectID:     row.Str(subjectIDColumns, ""),
			VisitName:     row.Str(visitNameColumns, ""),
			ProjectedDate: row.Str(projectedDateColumns, ""),
			DaysOverdue:   overdue,
			Status:        VisitStatusFor(overdue),
		})
	}
	return visits
}
