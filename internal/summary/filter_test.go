package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/internal/mockdata"
)

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func TestSitesByStatus(t *testing.T) {
	sites := mockdata.Study().Sites
	critical := SitesByStatus(sites, contracts.SiteCritical)
	assert.Equal(t, []string{"SITE-005", "SITE-010"}, ids(critical, func(s contracts.Site) string { return s.ID }))
	assert.Empty(t, SitesByStatus(nil, contracts.SiteActive))
}

func TestTopSitesByOpenQueries(t *testing.T) {
	sites := mockdata.Study().Sites
	top := TopSitesByOpenQueries(sites, 3)
	assert.Equal(t, []string{"SITE-010", "SITE-005", "SITE-003"}, ids(top, func(s contracts.Site) string { return s.ID }))
	assert.Len(t, TopSitesByOpenQueries(sites, 0), 10)
	assert.Equal(t, "SITE-001", sites[0].ID, "input untouched")
}

func TestOverdueVisits(t *testing.T) {
	visits := OverdueVisits(mockdata.Study().VisitProjections)
	assert.Equal(t, []string{"VP-002", "VP-001", "VP-003"}, ids(visits, func(v contracts.VisitProjection) string { return v.ID }))
}

func TestPendingSAEs(t *testing.T) {
	records := []contracts.SAERecord{
		{ID: "a", Status: contracts.SAEPendingReview, DaysOpen: 2},
		{ID: "b", Status: contracts.SAEClosed, DaysOpen: 30},
		{ID: "c", Status: contracts.SAEPendingReview, DaysOpen: 9},
	}
	assert.Equal(t, []string{"c", "a"}, ids(PendingSAEs(records), func(r contracts.SAERecord) string { return r.ID }))
}

func TestOpenQueries(t *testing.T) {
	queries := mockdata.Study().Queries
	assert.Len(t, OpenQueries(queries, ""), 7)

	site10 := OpenQueries(queries, "SITE-010")
	assert.Equal(t, []string{"QRY-008", "QRY-005"}, ids(site10, func(q contracts.Query) string { return q.ID }))
}
