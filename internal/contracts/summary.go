package contracts

// Overview is the KPI card set of the dashboard
type Overview struct {
	TotalSites              int `json:"totalSites"`
	ActiveSubjects          int `json:"activeSubjects"`
	TotalSubjects           int `json:"totalSubjects"`
	TotalOpenQueries        int `json:"totalOpenQueries"`
	AvgDataQualityScore     int `json:"avgDataQualityScore"`
	CleanSubjectsPercentage int `json:"cleanSubjectsPercentage"`
	PendingSAEs             int `json:"pendingSAEs"`
	OverdueVisits           int `json:"overdueVisits"`
	CriticalSites           int `json:"criticalSites"`
	AtRiskSites             int `json:"atRiskSites"`
}

// RegionMetric aggregates sites of one region
type RegionMetric struct {
	Region              string  `json:"region"`
	Sites               int     `json:"sites"`
	Subjects            int     `json:"subjects"`
	DataQualityScore    float64 `json:"dataQualityScore"`
	QueryResolutionRate float64 `json:"queryResolutionRate"`
}

// StudySummary is what the API returns for a study's overview page
type StudySummary struct {
	StudyID  string         `json:"studyId"`
	Overview Overview       `json:"overview"`
	Regions  []RegionMetric `json:"regions"`
	Report   *LoadReport    `json:"report,omitempty"`
}
