// Package summary aggregates a study's records into dashboard KPIs.
package summary

import (
	"math"
	"sort"

	"github.com/clinops/trialpulse/internal/contracts"
)

// Summarize builds the overview page payload for a study
func Summarize(studyID string, data *contracts.StudyData) contracts.StudySummary {
	return contracts.StudySummary{
		StudyID:  studyID,
		Overview: Overview(data),
		Regions:  Regions(data.Sites),
		Report:   data.Report,
	}
}

// Overview computes the KPI cards.
// Open queries are summed from site counters; when no site rows were loaded
// the open entries of the query listing are counted instead.
func Overview(data *contracts.StudyData) contracts.Overview {
	var o contracts.Overview
	o.TotalSites = len(data.Sites)

	var dqSum float64
	for _, s := range data.Sites {
		o.ActiveSubjects += s.ActiveSubjects
		o.TotalSubjects += s.EnrolledSubjects
		o.TotalOpenQueries += s.OpenQueries
		dqSum += s.DataQualityScore

		switch s.Status {
		case contracts.SiteCritical:
			o.CriticalSites++
		case contracts.SiteAtRisk:
			o.AtRiskSites++
		}
	}
	if len(data.Sites) > 0 {
		o.AvgDataQualityScore = int(math.Round(dqSum / float64(len(data.Sites))))
	} else {
		for _, q := range data.Queries {
			if q.Status == contracts.QueryOpen {
				o.TotalOpenQueries++
			}
		}
	}

	if len(data.Subjects) > 0 {
		clean := 0
		for _, s := range data.Subjects {
			if s.IsClean {
				clean++
			}
		}
		o.CleanSubjectsPercentage = int(math.Round(float64(clean) / float64(len(data.Subjects)) * 100))
	}

	for _, sae := range data.SAERecords {
		if sae.Status == contracts.SAEPendingReview {
			o.PendingSAEs++
		}
	}
	for _, v := range data.VisitProjections {
		if v.Status == contracts.VisitOverdue {
			o.OverdueVisits++
		}
	}
	return o
}

// Regions groups sites by region, ordered by region name
func Regions(sites []contracts.Site) []contracts.RegionMetric {
	type acc struct {
		sites, subjects int
		dq              float64
		open, closed    int
	}
	byRegion := make(map[string]*acc)

	for _, s := range sites {
		a, ok := byRegion[s.Region]
		if !ok {
			a = &acc{}
			byRegion[s.Region] = a
		}
		a.sites++
		a.subjects += s.EnrolledSubjects
		a.dq += s.DataQualityScore
		a.open += s.OpenQueries
		a.closed += s.ClosedQueries
	}

	out := make([]contracts.RegionMetric, 0, len(byRegion))
	for region, a := range byRegion {
		m := contracts.RegionMetric{
			Region:           region,
			Sites:            a.sites,
			Subjects:         a.subjects,
			DataQualityScore: round1(a.dq / float64(a.sites)),
		}
		if total := a.open + a.closed; total > 0 {
			m.QueryResolutionRate = round1(float64(a.closed) / float64(total) * 100)
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
