// Package profile reads the optional dataset profile: a YAML file that tunes
// how study files are matched to record families.
//
//	version: 1
//	keywords:
//	  sae: ["eSAE Dashboard", "SAE Listing"]
//	overrides:
//	  sites: EDC_Metrics_final.xlsx
//	studies:
//	  study-3_cpid:
//	    overrides:
//	      visits: Study 3_Visit Projection Tracker v2.xlsx
//
// Unknown fields are rejected so a typo fails at startup instead of
// silently falling back to the defaults.
package profile

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/internal/resolve"
)

// Version is the only profile format understood
const Version = 1

// Profile is a parsed dataset profile
type Profile struct {
	Version   int                     `yaml:"version" json:"version"`
	Keywords  map[string][]string     `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Overrides map[string]string       `yaml:"overrides,omitempty" json:"overrides,omitempty"`
	Studies   map[string]StudyProfile `yaml:"studies,omitempty" json:"studies,omitempty"`

	hash string
}

// StudyProfile holds settings for one study id
type StudyProfile struct {
	Overrides map[string]string `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// Load reads and validates the profile at path
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a profile document
func Parse(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if err := Validate(&p); err != nil {
		return nil, err
	}

	hash, err := Hash(&p)
	if err != nil {
		return nil, err
	}
	p.hash = hash
	return &p, nil
}

// Hash is the SHA-256 of the profile's canonical JSON. encoding/json sorts
// map keys, so equal profiles hash equally whatever the YAML key order.
func Hash(p *Profile) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("hash profile: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Hash returns the hash computed at parse time; "" for a nil profile
func (p *Profile) Hash() string {
	if p == nil {
		return ""
	}
	return p.hash
}

// ResolverFor layers the profile onto base for one study. Study overrides
// win over profile overrides, which win over base.
func (p *Profile) ResolverFor(studyID string, base *resolve.Resolver) *resolve.Resolver {
	if p == nil {
		return base
	}

	r := base
	if len(p.Keywords) > 0 {
		keywords := make(map[contracts.Role][]string, len(p.Keywords))
		for role, kws := range p.Keywords {
			keywords[contracts.Role(role)] = kws
		}
		r = r.WithKeywords(keywords)
	}
	if len(p.Overrides) > 0 {
		r = r.WithOverrides(p.Overrides)
	}
	if sp, ok := p.Studies[studyID]; ok && len(sp.Overrides) > 0 {
		r = r.WithOverrides(sp.Overrides)
	}
	return r
}
