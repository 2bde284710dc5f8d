package summary

import (
	"sort"

	"github.com/clinops/trialpulse/internal/contracts"
)

// SitesByStatus returns the sites in the given tier, input order kept
func SitesByStatus(sites []contracts.Site, status contracts.SiteStatus) []contracts.Site {
	out := []contracts.Site{}
	for _, s := range sites {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out
}

// TopSitesByOpenQueries returns up to n sites with the most open queries.
// n <= 0 returns all of them.
func TopSitesByOpenQueries(sites []contracts.Site, n int) []contracts.Site {
	out := append([]contracts.Site{}, sites...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OpenQueries > out[j].OpenQueries })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// OverdueVisits returns overdue visits, longest overdue first
func OverdueVisits(visits []contracts.VisitProjection) []contracts.VisitProjection {
	out := []contracts.VisitProjection{}
	for _, v := range visits {
		if v.Status == contracts.VisitOverdue {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysOverdue > out[j].DaysOverdue })
	return out
}

// PendingSAEs returns SAEs awaiting review, oldest first
func PendingSAEs(records []contracts.SAERecord) []contracts.SAERecord {
	out := []contracts.SAERecord{}
	for _, r := range records {
		if r.Status == contracts.SAEPendingReview {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysOpen > out[j].DaysOpen })
	return out
}

// OpenQueries returns open queries for a site ("" for all), oldest first
func OpenQueries(queries []contracts.Query, siteID string) []contracts.Query {
	out := []contracts.Query{}
	for _, q := range queries {
		if q.Status != contracts.QueryOpen || (siteID != "" && q.SiteID != siteID) {
			continue
		}
		out = append(out, q)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysOpen > out[j].DaysOpen })
	return out
}
