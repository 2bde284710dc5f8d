// Package mockdata is the demo study served before any study is selected.
package mockdata

import (
	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/internal/normalize"
)

// StudyID identifies the demo dataset in summaries and snapshots
const StudyID = "demo"

// Study returns a fresh copy of the demo dataset.
// Site tiers are derived from open queries like any loaded study.
func Study() *contracts.StudyData {
	data := &contracts.StudyData{
		Sites:            sites(),
		Subjects:         append([]contracts.Subject{}, subjects...),
		Queries:          append([]contracts.Query{}, queries...),
		SAERecords:       append([]contracts.SAERecord{}, saeRecords...),
		VisitProjections: append([]contracts.VisitProjection{}, visitProjections...),
		DailyMetrics:     append([]contracts.DailyMetric{}, dailyMetrics...),
	}
	return data
}

func sites() []contracts.Site {
	out := make([]contracts.Site, len(siteRows))
	for i, s := range siteRows {
		s.Status = normalize.SiteStatusFor(s.OpenQueries)
		out[i] = s
	}
	return out
}

var siteRows = []contracts.Site{
	{ID: "SITE-001", Name: "Boston Medical Center", Country: "USA", Region: "North America", EnrolledSubjects: 45, ActiveSubjects: 38, CompletedVisits: 234, MissingVisits: 12, OpenQueries: 8, ClosedQueries: 156, DataQualityScore: 92, CleanCRFPercentage: 88},
	{ID: "SITE-002", Name: "Toronto General Hospital", Country: "Canada", Region: "North America", EnrolledSubjects: 32, ActiveSubjects: 28, CompletedVisits: 178, MissingVisits: 5, OpenQueries: 3, ClosedQueries: 98, DataQualityScore: 96, CleanCRFPercentage: 94},
	{ID: "SITE-003", Name: "London Royal Hospital", Country: "UK", Region: "Europe", EnrolledSubjects: 52, ActiveSubjects: 44, CompletedVisits: 312, MissingVisits: 18, OpenQueries: 15, ClosedQueries: 201, DataQualityScore: 85, CleanCRFPercentage: 81},
	{ID: "SITE-004", Name: "Berlin University Clinic", Country: "Germany", Region: "Europe", EnrolledSubjects: 28, ActiveSubjects: 25, CompletedVisits: 156, MissingVisits: 3, OpenQueries: 4, ClosedQueries: 89, DataQualityScore: 94, CleanCRFPercentage: 91},
	{ID: "SITE-005", Name: "Paris Research Institute", Country: "France", Region: "Europe", EnrolledSubjects: 41, ActiveSubjects: 36, CompletedVisits: 245, MissingVisits: 22, OpenQueries: 19, ClosedQueries: 167, DataQualityScore: 78, CleanCRFPercentage: 74},
	{ID: "SITE-006", Name: "Tokyo Medical University", Country: "Japan", Region: "Asia Pacific", EnrolledSubjects: 38, ActiveSubjects: 33, CompletedVisits: 198, MissingVisits: 8, OpenQueries: 6, ClosedQueries: 112, DataQualityScore: 91, CleanCRFPercentage: 87},
	{ID: "SITE-007", Name: "Singapore General", Country: "Singapore", Region: "Asia Pacific", EnrolledSubjects: 25, ActiveSubjects: 22, CompletedVisits: 134, MissingVisits: 4, OpenQueries: 2, ClosedQueries: 78, DataQualityScore: 97, CleanCRFPercentage: 95},
	{ID: "SITE-008", Name: "Sydney Research Center", Country: "Australia", Region: "Asia Pacific", EnrolledSubjects: 35, ActiveSubjects: 30, CompletedVisits: 189, MissingVisits: 14, OpenQueries: 11, ClosedQueries: 134, DataQualityScore: 84, CleanCRFPercentage: 80},
	{ID: "SITE-009", Name: "São Paulo Clinical Center", Country: "Brazil", Region: "Latin America", EnrolledSubjects: 29, ActiveSubjects: 24, CompletedVisits: 145, MissingVisits: 9, OpenQueries: 7, ClosedQueries: 91, DataQualityScore: 89, CleanCRFPercentage: 85},
	{ID: "SITE-010", Name: "Mumbai Research Hospital", Country: "India", Region: "Asia Pacific", EnrolledSubjects: 48, ActiveSubjects: 41, CompletedVisits: 267, MissingVisits: 25, OpenQueries: 21, ClosedQueries: 189, DataQualityScore: 76, CleanCRFPercentage: 72},
}

var subjects = []contracts.Subject{
	{ID: "SUBJ-0001", SiteID: "SITE-001", SiteName: "Boston Medical Center", Country: "USA", Status: contracts.SubjectOngoing, LatestVisit: "Week 12", MissingPages: 1, OpenQueries: 2, CleanCRFPercentage: 92},
	{ID: "SUBJ-0002", SiteID: "SITE-001", SiteName: "Boston Medical Center", Country: "USA", Status: contracts.SubjectOngoing, LatestVisit: "Week 8", MissingVisits: 1, CleanCRFPercentage: 100},
	{ID: "SUBJ-0003", SiteID: "SITE-002", SiteName: "Toronto General Hospital", Country: "Canada", Status: contracts.SubjectCompleted, LatestVisit: "End of Study", CleanCRFPercentage: 100, IsClean: true},
	{ID: "SUBJ-0004", SiteID: "SITE-003", SiteName: "London Royal Hospital", Country: "UK", Status: contracts.SubjectOngoing, LatestVisit: "Week 16", MissingVisits: 2, MissingPages: 3, OpenQueries: 4, UncodedTerms: 2, CleanCRFPercentage: 78},
	{ID: "SUBJ-0005", SiteID: "SITE-005", SiteName: "Paris Research Institute", Country: "France", Status: contracts.SubjectOngoing, LatestVisit: "Week 4", MissingVisits: 3, MissingPages: 5, OpenQueries: 6, UncodedTerms: 3, CleanCRFPercentage: 65},
	{ID: "SUBJ-0006", SiteID: "SITE-006", SiteName: "Tokyo Medical University", Country: "Japan", Status: contracts.SubjectOngoing, LatestVisit: "Week 20", OpenQueries: 1, CleanCRFPercentage: 96},
	{ID: "SUBJ-0007", SiteID: "SITE-007", SiteName: "Singapore General", Country: "Singapore", Status: contracts.SubjectCompleted, LatestVisit: "End of Study", CleanCRFPercentage: 100, IsClean: true},
	{ID: "SUBJ-0008", SiteID: "SITE-010", SiteName: "Mumbai Research Hospital", Country: "India", Status: contracts.SubjectOngoing, LatestVisit: "Week 6", MissingVisits: 4, MissingPages: 8, OpenQueries: 7, UncodedTerms: 4, CleanCRFPercentage: 58},
}

var queries = []contracts.Query{
	{ID: "QRY-001", SiteID: "SITE-001", SubjectID: "SUBJ-0001", Type: contracts.QueryDM, Status: contracts.QueryOpen, Priority: contracts.PriorityMedium, DaysOpen: 5, Description: "Missing vital signs data for Visit 8", CreatedDate: "2026-01-02"},
	{ID: "QRY-002", SiteID: "SITE-003", SubjectID: "SUBJ-0004", Type: contracts.QueryClinical, Status: contracts.QueryOpen, Priority: contracts.PriorityHigh, DaysOpen: 12, Description: "Inconsistent adverse event dates", CreatedDate: "2025-12-26"},
	{ID: "QRY-003", SiteID: "SITE-005", SubjectID: "SUBJ-0005", Type: contracts.QueryMedical, Status: contracts.QueryOpen, Priority: contracts.PriorityHigh, DaysOpen: 8, Description: "Unconfirmed concomitant medication", CreatedDate: "2025-12-30"},
	{ID: "QRY-004", SiteID: "SITE-005", SubjectID: "SUBJ-0005", Type: contracts.QuerySafety, Status: contracts.QueryOpen, Priority: contracts.PriorityHigh, DaysOpen: 15, Description: "SAE form incomplete", CreatedDate: "2025-12-23"},
	{ID: "QRY-005", SiteID: "SITE-010", SubjectID: "SUBJ-0008", Type: contracts.QueryCoding, Status: contracts.QueryOpen, Priority: contracts.PriorityMedium, DaysOpen: 7, Description: "Adverse event term requires MedDRA coding", CreatedDate: "2025-12-31"},
	{ID: "QRY-006", SiteID: "SITE-006", SubjectID: "SUBJ-0006", Type: contracts.QueryDM, Status: contracts.QueryAnswered, Priority: contracts.PriorityLow, DaysOpen: 3, Description: "Lab result clarification needed", CreatedDate: "2026-01-04"},
	{ID: "QRY-007", SiteID: "SITE-008", SubjectID: "SUBJ-0004", Type: contracts.QueryClinical, Status: contracts.QueryOpen, Priority: contracts.PriorityMedium, DaysOpen: 6, Description: "Visit window deviation", CreatedDate: "2026-01-01"},
	{ID: "QRY-008", SiteID: "SITE-010", SubjectID: "SUBJ-0008", Type: contracts.QuerySafety, Status: contracts.QueryOpen, Priority: contracts.PriorityHigh, DaysOpen: 20, Description: "Missing follow-up for reported AE", CreatedDate: "2025-12-18"},
}

var saeRecords = []contracts.SAERecord{
	{ID: "SAE-001", SiteID: "SITE-005", SubjectID: "SUBJ-0005", Country: "France", Status: contracts.SAEPendingReview, DiscrepancyType: "Incomplete Documentation", DaysOpen: 8, Severity: contracts.SeveritySerious},
	{ID: "SAE-002", SiteID: "SITE-010", SubjectID: "SUBJ-0008", Country: "India", Status: contracts.SAEDMReviewed, DiscrepancyType: "Missing Lab Values", DaysOpen: 12, Severity: contracts.SeveritySerious},
	{ID: "SAE-003", SiteID: "SITE-003", SubjectID: "SUBJ-0004", Country: "UK", Status: contracts.SAESafetyReviewed, DiscrepancyType: "Date Inconsistency", DaysOpen: 5, Severity: contracts.SeverityNonSerious},
}

var visitProjections = []contracts.VisitProjection{
	{ID: "VP-001", SiteID: "SITE-005", SubjectID: "SUBJ-0005", VisitName: "Week 8 Follow-up", ProjectedDate: "2025-12-28", DaysOverdue: 10, Status: contracts.VisitOverdue},
	{ID: "VP-002", SiteID: "SITE-010", SubjectID: "SUBJ-0008", VisitName: "Week 12 Assessment", ProjectedDate: "2025-12-20", DaysOverdue: 18, Status: contracts.VisitOverdue},
	{ID: "VP-003", SiteID: "SITE-003", SubjectID: "SUBJ-0004", VisitName: "Week 20 Follow-up", ProjectedDate: "2026-01-05", DaysOverdue: 2, Status: contracts.VisitOverdue},
	{ID: "VP-004", SiteID: "SITE-008", SubjectID: "SUBJ-0004", VisitName: "Week 24 Final", ProjectedDate: "2026-01-10", DaysOverdue: 0, Status: contracts.VisitDueSoon},
	{ID: "VP-005", SiteID: "SITE-001", SubjectID: "SUBJ-0002", VisitName: "Week 16 Check", ProjectedDate: "2026-01-15", DaysOverdue: 0, Status: contracts.VisitOnTrack},
}

var dailyMetrics = []contracts.DailyMetric{
	{Date: "2025-12-01", OpenQueries: 85, ClosedQueries: 1120, CleanCRFs: 1450, EnrolledSubjects: 365, DataQualityIndex: 82},
	{Date: "2025-12-08", OpenQueries: 78, ClosedQueries: 1185, CleanCRFs: 1520, EnrolledSubjects: 369, DataQualityIndex: 84},
	{Date: "2025-12-15", OpenQueries: 92, ClosedQueries: 1240, CleanCRFs: 1580, EnrolledSubjects: 372, DataQualityIndex: 83},
	{Date: "2025-12-22", OpenQueries: 88, ClosedQueries: 1295, CleanCRFs: 1640, EnrolledSubjects: 375, DataQualityIndex: 85},
	{Date: "2025-12-29", OpenQueries: 76, ClosedQueries: 1350, CleanCRFs: 1710, EnrolledSubjects: 378, DataQualityIndex: 87},
	{Date: "2026-01-05", OpenQueries: 72, ClosedQueries: 1415, CleanCRFs: 1785, EnrolledSubjects: 381, DataQualityIndex: 89},
}
