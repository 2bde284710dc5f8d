package contracts

import (
	"errors"
	"time"
)

var (
	// ErrStudyNotFound is returned for an id missing from the study index
	ErrStudyNotFound = errors.New("study not found")
	// ErrSuperseded is returned when a newer selection replaced an in-flight load
	ErrSuperseded = errors.New("study load superseded by a newer selection")
)

// Study is one entry of the study index
type Study struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Folder string   `json:"folder"`
	Files  []string `json:"files"`
}

// Role names the record family a study file feeds
type Role string

const (
	RoleSites    Role = "sites"
	RoleVisits   Role = "visits"
	RoleSAE      Role = "sae"
	RoleSubjects Role = "subjects"
	RoleQueries  Role = "queries"
)

// Roles lists every role in load order
var Roles = []Role{RoleSites, RoleSubjects, RoleQueries, RoleSAE, RoleVisits}

// Outcome is the result of resolving a role to a file
type Outcome string

const (
	OutcomeResolved  Outcome = "resolved"
	OutcomeNotFound  Outcome = "not-found"
	OutcomeAmbiguous Outcome = "ambiguous"
)

// FileReport describes what happened to one role during a load
type FileReport struct {
	Role       Role     `json:"role"`
	Outcome    Outcome  `json:"outcome"`
	File       string   `json:"file,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
	Override   bool     `json:"override,omitempty"`
	Rows       int      `json:"rows"`
	Error      string   `json:"error,omitempty"`
}

// LoadReport summarises one study load
type LoadReport struct {
	ID          string        `json:"id"`
	StudyID     string        `json:"studyId"`
	StudyName   string        `json:"studyName"`
	Seed        float64       `json:"seed"`
	Generation  uint64        `json:"generation,omitempty"`
	StartedAt   time.Time     `json:"startedAt"`
	Duration    time.Duration `json:"duration"`
	ProfileHash string        `json:"profileHash,omitempty"`
	Files       []FileReport  `json:"files"`
	Cached      bool          `json:"cached,omitempty"`
}

// File returns the report for a role
func (r *LoadReport) File(role Role) (FileReport, bool) {
	for _, f := range r.Files {
		if f.Role == role {
			return f, true
		}
	}
	return FileReport{}, false
}

// StudyData is the full record set of one loaded study.
// It is replaced wholesale on every selection, never patched.
type StudyData struct {
	Sites            []Site            `json:"sites"`
	Subjects         []Subject         `json:"subjects"`
	Queries          []Query           `json:"queries"`
	SAERecords       []SAERecord       `json:"saeRecords"`
	VisitProjections []VisitProjection `json:"visitProjections"`
	DailyMetrics     []DailyMetric     `json:"dailyMetrics,omitempty"`
	Report           *LoadReport       `json:"report,omitempty"`
}

// Empty reports whether no family produced any record
func (d *StudyData) Empty() bool {
	return len(d.Sites) == 0 && len(d.Subjects) == 0 && len(d.Queries) == 0 &&
		len(d.SAERecords) == 0 && len(d.VisitProjections) == 0
}
