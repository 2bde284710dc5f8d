package profile

import (
	"fmt"
	"strings"

	"github.com/clinops/trialpulse/internal/contracts"
	"github.com/clinops/trialpulse/internal/resolve"
)

// ValidationError names the offending field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks every constraint of a profile
func Validate(p *Profile) error {
	if p.Version != Version {
		return ValidationError{"version", fmt.Sprintf("must be %d", Version)}
	}

	for role, kws := range p.Keywords {
		field := "keywords." + role
		if err := validateRole(field, role); err != nil {
			return err
		}
		if len(kws) == 0 {
			return ValidationError{field, "must list at least one keyword"}
		}
		for _, kw := range kws {
			if strings.TrimSpace(kw) == "" {
				return ValidationError{field, "keywords must not be blank"}
			}
		}
	}

	if err := validateOverrides("overrides", p.Overrides); err != nil {
		return err
	}

	for id, sp := range p.Studies {
		if strings.TrimSpace(id) == "" {
			return ValidationError{"studies", "study id must not be blank"}
		}
		if err := validateOverrides("studies."+id+".overrides", sp.Overrides); err != nil {
			return err
		}
	}

	return nil
}

func validateOverrides(field string, overrides map[string]string) error {
	for role, file := range overrides {
		f := field + "." + role
		if err := validateRole(f, role); err != nil {
			return err
		}
		if strings.TrimSpace(file) == "" {
			return ValidationError{f, "file name required"}
		}
		if strings.ContainsAny(file, `/\`) {
			return ValidationError{f, "must be a file name, not a path"}
		}
	}
	return nil
}

func validateRole(field, role string) error {
	if _, ok := resolve.Keywords[contracts.Role(role)]; !ok {
		return ValidationError{field, fmt.Sprintf("unknown role %q", role)}
	}
	return nil
}
