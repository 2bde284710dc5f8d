package normalize

// Column aliases, tried in order. The first present, non-blank cell wins.
var (
	siteIDColumns      = []string{"Site ID", "site_id", "Site No", "Site Number", "Site #", "site"}
	siteNameColumns    = []string{"Site Name", "site_name", "Site", "Investigator", "Center Name"}
	siteRefColumns     = []string{"Site ID", "site_id", "Site"}
	countryColumns     = []string{"Country", "country", "COUNTRY"}
	regionColumns      = []string{"Region", "region", "REGION"}
	activeColumns      = []string{"Active", "Active Subjects", "active"}
	enrolledColumns    = []string{"Enrolled", "Enrolled Subjects", "enrolled"}
	openQueryColumns   = []string{"Open Queries", "Queries"}
	closedQueryColumns = []string{"Closed Queries"}
	completedColumns   = []string{"Completed Visits"}
	missingVisitCols   = []string{"Missing Visits"}
	cleanCRFColumns    = []string{"Clean CRF %"}

	subjectIDColumns   = []string{"Subject ID", "subject_id", "Subject", "SUBJID"}
	subjectStatusCols  = []string{"Subject Status", "Status"}
	latestVisitColumns = []string{"Latest Visit", "Last Visit"}
	missingPageColumns = []string{"Missing Pages", "# Missing Pages", "Pages Missing"}
	uncodedColumns     = []string{"Uncoded Terms", "Uncoded"}

	queryIDColumns       = []string{"Query ID", "query_id", "Query #"}
	queryTypeColumns     = []string{"Query Type", "Type", "Category"}
	queryStatusColumns   = []string{"Query Status", "Status"}
	priorityColumns      = []string{"Priority"}
	descriptionColumns   = []string{"Description", "Query Text", "Verbatim Term", "Term"}
	createdDateColumns   = []string{"Created Date", "Open Date", "date"}
	daysOpenColumns      = []string{"Days Open"}
	queryDaysOpenColumns = []string{"Days Open", "Query Age", "Age"}

	saeStatusColumns   = []string{"Status"}
	discrepancyColumns = []string{"Discrepancy"}
	severityColumns    = []string{"Severity"}

	visitNameColumns     = []string{"Visit Name", "visit"}
	projectedDateColumns = []string{"Projected Date", "date"}
	daysOverdueColumns   = []string{"Days Overdue"}
)
