package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/internal/resolve"
)

const sample = `
version: 1
keywords:
  sae: ["SAE Listing"]
overrides:
  sites: EDC_final.xlsx
studies:
  study-3:
    overrides:
      sites: Study 3_EDC.xlsx
      visits: Study 3_Visits v2.xlsx
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, 1, p.Version)
	assert.Equal(t, []string{"SAE Listing"}, p.Keywords["sae"])
	assert.Equal(t, "EDC_final.xlsx", p.Overrides["sites"])
	assert.Len(t, p.Hash(), 64)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"wrong version", "version: 2\n", "version"},
		{"unknown keyword role", "version: 1\nkeywords:\n  labs: [\"Lab\"]\n", "keywords.labs"},
		{"empty keyword list", "version: 1\nkeywords:\n  sae: []\n", "keywords.sae"},
		{"blank keyword", "version: 1\nkeywords:\n  sae: [\" \"]\n", "keywords.sae"},
		{"unknown override role", "version: 1\noverrides:\n  labs: a.xlsx\n", "overrides.labs"},
		{"path override", "version: 1\noverrides:\n  sites: ../a.xlsx\n", "overrides.sites"},
		{"blank study override", "version: 1\nstudies:\n  s1:\n    overrides:\n      sites: \"\"\n", "studies.s1.overrides.sites"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)

			var verr ValidationError
			require.True(t, errors.As(err, &verr), err.Error())
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("version: 1\noverides:\n  sites: a.xlsx\n"))
	assert.Error(t, err)
}

func TestHash_KeyOrderIndependent(t *testing.T) {
	a, err := Parse([]byte("version: 1\noverrides:\n  sites: a.xlsx\n  sae: b.xlsx\n"))
	require.NoError(t, err)
	b, err := Parse([]byte("version: 1\noverrides:\n  sae: b.xlsx\n  sites: a.xlsx\n"))
	require.NoError(t, err)
	c, err := Parse([]byte("version: 1\noverrides:\n  sae: c.xlsx\n  sites: a.xlsx\n"))
	require.NoError(t, err)

	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestResolverFor(t *testing.T) {
	p, err := Parse([]byte(sample))
	require.NoError(t, err)

	files := []string{"EDC_final.xlsx", "Study 3_EDC.xlsx", "SAE Listing.xlsx", "Study 3_Visits v2.xlsx", "x_EDC_Metrics.xlsx"}
	base := resolve.New(map[string]string{"sites": "x_EDC_Metrics.xlsx", "queries": "q.xlsx"})

	other := p.ResolverFor("study-1", base)
	assert.Equal(t, "EDC_final.xlsx", other.Resolve(contracts.RoleSites, files).File)
	assert.Equal(t, "SAE Listing.xlsx", other.Resolve(contracts.RoleSAE, files).File)
	assert.Equal(t, contracts.OutcomeNotFound, other.Resolve(contracts.RoleQueries, files).Outcome)

	study3 := p.ResolverFor("study-3", base)
	assert.Equal(t, "Study 3_EDC.xlsx", study3.Resolve(contracts.RoleSites, files).File)
	assert.Equal(t, "Study 3_Visits v2.xlsx", study3.Resolve(contracts.RoleVisits, files).File)

	var none *Profile
	assert.Same(t, base, none.ResolverFor("study-3", base))
	assert.Empty(t, none.Hash())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, p.Studies, "study-3")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
