package normalize

import (
	"fmt"

	"github.com/clinops/trialpulse/internal/contracts"
)

// Sites normalizes EDC metric rows, one Site per row in input order
func (n *Normalizer) Sites(rows []Row) []contracts.Site {
	sites := make([]contracts.Site, 0, len(rows))
	for i, row := range rows {
		sites = append(sites, n.site(i, row))
	}
	return sites
}

func (n *Normalizer) site(index int, row Row) contracts.Site {
	country := row.Str(countryColumns, "Unknown")
	region := inferRegion(row.Str(regionColumns, ""), country)

	id := row.Str(siteIDColumns, fmt.Sprintf("SITE-%d", index+1))
	name := row.Str(siteNameColumns, "Site "+id)

	active := row.Int(activeColumns) + n.vars.Active
	enrolled := row.Int(enrolledColumns) + n.vars.Active + 5
	openQueries := row.Int(openQueryColumns) + n.vars.Query

	return contracts.Site{
		ID:                 id,
		Name:               name,
		Country:            country,
		Region:             region,
		EnrolledSubjects:   enrolled,
		ActiveSubjects:     active,
		CompletedVisits:    row.Int(completedColumns) + active*5,
		MissingVisits:      row.Int(missingVisitCols),
		OpenQueries:        openQueries,
		ClosedQueries:      row.Int(closedQueryColumns) + openQueries*10,
		DataQualityScore:   Score(100 - float64(openQueries*2) - n.seed*10),
		CleanCRFPercentage: Score(float64(row.Int(cleanCRFColumns)) + n.seed*20),
		Status:             SiteStatusFor(openQueries),
	}
}
