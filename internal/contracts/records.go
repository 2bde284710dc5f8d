package contracts

// SiteStatus is the tier derived from a site's open-query count
type SiteStatus string

const (
	SiteActive   SiteStatus = "active"
	SiteAtRisk   SiteStatus = "at-risk"
	SiteCritical SiteStatus = "critical"
)

// Site is a clinical-trial enrollment location
type Site struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Country            string     `json:"country"`
	Region             string     `json:"region"`
	EnrolledSubjects   int        `json:"enrolledSubjects"`
	ActiveSubjects     int        `json:"activeSubjects"`
	CompletedVisits    int        `json:"completedVisits"`
	MissingVisits      int        `json:"missingVisits"`
	OpenQueries        int        `json:"openQueries"`
	ClosedQueries      int        `json:"closedQueries"`
	DataQualityScore   float64    `json:"dataQualityScore"`   // 0-100
	CleanCRFPercentage float64    `json:"cleanCRFPercentage"` // 0-100
	Status             SiteStatus `json:"status"`
}

// SubjectStatus is a subject's participation state
type SubjectStatus string

const (
	SubjectOngoing       SubjectStatus = "ongoing"
	SubjectCompleted     SubjectStatus = "completed"
	SubjectDiscontinued  SubjectStatus = "discontinued"
	SubjectScreenFailure SubjectStatus = "screen-failure"
)

// Subject is an enrolled patient
type Subject struct {
	ID                 string        `json:"id"`
	SiteID             string        `json:"siteId"`
	SiteName           string        `json:"siteName"`
	Country            string        `json:"country"`
	Status             SubjectStatus `json:"status"`
	LatestVisit        string        `json:"latestVisit"`
	MissingVisits      int           `json:"missingVisits"`
	MissingPages       int           `json:"missingPages"`
	OpenQueries        int           `json:"openQueries"`
	UncodedTerms       int           `json:"uncodedTerms"`
	CleanCRFPercentage float64       `json:"cleanCRFPercentage"`
	IsClean            bool          `json:"isClean"`
}

// QueryType classifies a data query by owning function
type QueryType string

const (
	QueryDM       QueryType = "DM"
	QueryClinical QueryType = "Clinical"
	QueryMedical  QueryType = "Medical"
	QuerySafety   QueryType = "Safety"
	QueryCoding   QueryType = "Coding"
)

// QueryStatus is the lifecycle state of a data query
type QueryStatus string

const (
	QueryOpen     QueryStatus = "open"
	QueryAnswered QueryStatus = "answered"
	QueryClosed   QueryStatus = "closed"
)

// Priority ranks queries for follow-up
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Query is a data clarification request raised against a subject's CRF
type Query struct {
	ID          string      `json:"id"`
	SiteID      string      `json:"siteId"`
	SubjectID   string      `json:"subjectId"`
	Type        QueryType   `json:"type"`
	Status      QueryStatus `json:"status"`
	Priority    Priority    `json:"priority"`
	DaysOpen    int         `json:"daysOpen"`
	Description string      `json:"description"`
	CreatedDate string      `json:"createdDate"`
}

// SAEStatus is the review state of a serious adverse event
type SAEStatus string

const (
	SAEPendingReview  SAEStatus = "pending-review"
	SAEDMReviewed     SAEStatus = "dm-reviewed"
	SAESafetyReviewed SAEStatus = "safety-reviewed"
	SAEClosed         SAEStatus = "closed"
)

// Severity of an adverse event
type Severity string

const (
	SeveritySerious    Severity = "serious"
	SeverityNonSerious Severity = "non-serious"
)

// SAERecord is a serious adverse event awaiting or past review
type SAERecord struct {
	ID              string    `json:"id"`
	SiteID          string    `json:"siteId"`
	SubjectID       string    `json:"subjectId"`
	Country         string    `json:"country"`
	Status          SAEStatus `json:"status"`
	DiscrepancyType string    `json:"discrepancyType"`
	DaysOpen        int       `json:"daysOpen"`
	Severity        Severity  `json:"severity"`
}

// VisitStatus is derived from days overdue
type VisitStatus string

const (
	VisitOnTrack VisitStatus = "on-track"
	VisitDueSoon VisitStatus = "due-soon"
	VisitOverdue VisitStatus = "overdue"
)

// VisitProjection is a scheduled subject visit and how late it is
type VisitProjection struct {
	ID            string      `json:"id"`
	SiteID        string      `json:"siteId"`
	SubjectID     string      `json:"subjectId"`
	VisitName     string      `json:"visitName"`
	ProjectedDate string      `json:"projectedDate"`
	DaysOverdue   int         `json:"daysOverdue"`
	Status        VisitStatus `json:"status"`
}

// DailyMetric is one point of a study-level trend series
type DailyMetric struct {
	Date             string  `json:"date"`
	OpenQueries      int     `json:"openQueries"`
	ClosedQueries    int     `json:"closedQueries"`
	CleanCRFs        int     `json:"cleanCRFs"`
	EnrolledSubjects int     `json:"enrolledSubjects"`
	DataQualityIndex float64 `json:"dataQualityIndex"`
}
