// Package resolve decides which file of a study feeds each record family.
package resolve

import (
	"sort"
	"strings"

	"github.com/clinops/trialpulse/internal/contracts"
)

// Keywords per role, tried in order. The first keyword matching any file
// decides the role; later keywords are fallbacks only.
var Keywords = map[contracts.Role][]string{
	contracts.RoleSites:    {"EDC_Metrics"},
	contracts.RoleVisits:   {"Visit Projection"},
	contracts.RoleSAE:      {"eSAE Dashboard", "SAE Dashboard"},
	contracts.RoleSubjects: {"Missing_Pages"},
	contracts.RoleQueries:  {"GlobalCodingReport"},
}

// Resolution is the outcome of mapping one role to a file
type Resolution struct {
	Role       contracts.Role
	Outcome    contracts.Outcome
	File       string   // set when Outcome is resolved
	Candidates []string // every matching file when ambiguous
	Override   bool
}

// Resolver maps roles to files by keyword with optional explicit overrides
type Resolver struct {
	keywords  map[contracts.Role][]string
	overrides map[contracts.Role]string
}

// New creates a Resolver. overrides pins a role to an exact file name
// ("sites" -> "EDC.xlsx"); unknown role names are ignored.
func New(overrides map[string]string) *Resolver {
	r := &Resolver{
		keywords:  Keywords,
		overrides: make(map[contracts.Role]string),
	}
	for role, file := range overrides {
		if _, ok := Keywords[contracts.Role(role)]; ok {
			r.overrides[contracts.Role(role)] = file
		}
	}
	return r
}

// WithKeywords returns a copy whose keyword lists are replaced for the
// roles present in keywords. Unknown roles and empty lists are ignored.
func (r *Resolver) WithKeywords(keywords map[contracts.Role][]string) *Resolver {
	out := r.clone()
	for role, kws := range keywords {
		if _, ok := Keywords[role]; ok && len(kws) > 0 {
			out.keywords[role] = append([]string(nil), kws...)
		}
	}
	return out
}

// WithOverrides returns a copy with additional overrides; they win over
// the receiver's for the same role
func (r *Resolver) WithOverrides(overrides map[string]string) *Resolver {
	out := r.clone()
	for role, file := range overrides {
		if _, ok := Keywords[contracts.Role(role)]; ok && file != "" {
			out.overrides[contracts.Role(role)] = file
		}
	}
	return out
}

func (r *Resolver) clone() *Resolver {
	out := &Resolver{
		keywords:  make(map[contracts.Role][]string, len(r.keywords)),
		overrides: make(map[contracts.Role]string, len(r.overrides)),
	}
	for role, kws := range r.keywords {
		out.keywords[role] = kws
	}
	for role, file := range r.overrides {
		out.overrides[role] = file
	}
	return out
}

// Resolve maps one role against the study's file list
func (r *Resolver) Resolve(role contracts.Role, files []string) Resolution {
	res := Resolution{Role: role, Outcome: contracts.OutcomeNotFound}

	if file, ok := r.overrides[role]; ok {
		res.Override = true
		for _, f := range files {
			if f == file {
				res.Outcome = contracts.OutcomeResolved
				res.File = f
				break
			}
		}
		return res
	}

	for _, kw := range r.keywords[role] {
		matches := match(kw, files)
		switch {
		case len(matches) == 1:
			res.Outcome = contracts.OutcomeResolved
			res.File = matches[0]
			return res
		case len(matches) > 1:
			sort.Strings(matches)
			res.Outcome = contracts.OutcomeAmbiguous
			res.Candidates = matches
			return res
		}
	}
	return res
}

// ResolveAll resolves every role in load order
func (r *Resolver) ResolveAll(files []string) []Resolution {
	out := make([]Resolution, 0, len(contracts.Roles))
	for _, role := range contracts.Roles {
		out = append(out, r.Resolve(role, files))
	}
	return out
}

// match returns files containing kw, case-insensitively
func match(kw string, files []string) []string {
	kw = strings.ToLower(kw)
	var out []string
	for _, f := range files {
		if strings.Contains(strings.ToLower(f), kw) {
			out = append(out, f)
		}
	}
	return out
}
