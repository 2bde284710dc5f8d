// Package normalize maps decoded spreadsheet rows of heterogeneous layout onto
// the fixed clinical record schema.
//
// Every field is resolved through an ordered alias list; missing or malformed
// cells fall back to defaults instead of rejecting the row. Counters are
// shifted by per-study variations derived from the study seed, so loading the
// same study twice yields identical records while different studies diverge.
// Derived scores are clamped to [0, 100] and rounded to one decimal place.
package normalize

import (
	"math"

	"github.com/clinops/trialpulse/internal/contracts"
)

// Site status thresholds on open queries
const (
	CriticalOpenQueries = 15
	AtRiskOpenQueries   = 5
)

// Normalizer converts rows for one study. It holds no mutable state.
type Normalizer struct {
	seed float64
	vars Variations
}

// New creates a Normalizer seeded from the study id
func New(studyID string) *Normalizer {
	return NewWithSeed(Seed(studyID))
}

// NewWithSeed creates a Normalizer with an explicit seed in [0, 1)
func NewWithSeed(seed float64) *Normalizer {
	return &Normalizer{seed: seed, vars: VariationsFor(seed)}
}

// Seed returns the study seed
func (n *Normalizer) Seed() float64 {
	return n.seed
}

// Variations returns the counter offsets in effect
func (n *Normalizer) Variations() Variations {
	return n.vars
}

// Apply normalizes rows for a role into data and returns the record count
func (n *Normalizer) Apply(role contracts.Role, rows []Row, data *contracts.StudyData) int {
	switch role {
	case contracts.RoleSites:
		data.Sites = n.Sites(rows)
		return len(data.Sites)
	case contracts.RoleSubjects:
		data.Subjects = n.Subjects(rows)
		return len(data.Subjects)
	case contracts.RoleQueries:
		data.Queries = n.Queries(rows)
		return len(data.Queries)
	case contracts.RoleSAE:
		data.SAERecords = n.SAEs(rows)
		return len(data.SAERecords)
	case contracts.RoleVisits:
		data.VisitProjections = n.Visits(rows)
		return len(data.VisitProjections)
	}
	return 0
}

// SiteStatusFor tiers a site by its open-query count
func SiteStatusFor(openQueries int) contracts.SiteStatus {
	switch {
	case openQueries > CriticalOpenQueries:
		return contracts.SiteCritical
	case openQueries > AtRiskOpenQueries:
		return contracts.SiteAtRisk
	default:
		return contracts.SiteActive
	}
}

// VisitStatusFor derives a visit's status from its days overdue
func VisitStatusFor(daysOverdue int) contracts.VisitStatus {
	if daysOverdue > 0 {
		return contracts.VisitOverdue
	}
	return contracts.VisitOnTrack
}

// Score clamps to [0, 100] and rounds half away from zero to one decimal
func Score(x float64) float64 {
	return math.Round(clamp(x, 0, 100)*10) / 10
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
