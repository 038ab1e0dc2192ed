package config

import (
	"fmt"
	"strings"

	"github.com/chr1sbest/rerun/internal/command"
	"github.com/chr1sbest/rerun/internal/policy"
)

// ValidationError holds details about a suite validation failure.
type ValidationError struct {
	Field   string
	Message string
	Context string
}

func (e ValidationError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (in %s)", e.Field, e.Message, e.Context)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, "  - "+e.Error())
	}
	return fmt.Sprintf("validation failed with %d error(s):\n%s", len(errs), strings.Join(msgs, "\n"))
}

// HasErrors returns true if there are any validation errors.
func (errs ValidationErrors) HasErrors() bool {
	return len(errs) > 0
}

// Validator validates suites.
type Validator struct {
	knownTypes []string
}

// NewValidator creates a validator. An empty knownTypes skips the unit type
// check.
func NewValidator(knownTypes []string) *Validator {
	return &Validator{knownTypes: knownTypes}
}

// Validate checks a suite and returns every problem found.
func (v *Validator) Validate(cfg *Config) ValidationErrors {
	var errs ValidationErrors

	if cfg.Name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "suite name is required"})
	}
	if len(cfg.Tests) == 0 {
		errs = append(errs, ValidationError{Field: "tests", Message: "at least one test is required"})
	}
	errs = append(errs, policyErrors(cfg.Policies, "suite")...)

	suiteHasMaxTime := hasMaxTime(cfg.Policies, cfg.Properties)
	seenNames := make(map[string]bool)

	for i, test := range cfg.Tests {
		ctx := fmt.Sprintf("tests[%d]", i)
		if test.Name != "" {
			ctx = fmt.Sprintf("tests[%d] %q", i, test.Name)
		}

		if test.Type == "" {
			errs = append(errs, ValidationError{Field: "type", Message: "test type is required", Context: ctx})
		} else if len(v.knownTypes) > 0 && !v.isKnownType(test.Type) {
			errs = append(errs, ValidationError{
				Field:   "type",
				Message: fmt.Sprintf("unknown test type %q, known types: %s", test.Type, strings.Join(v.knownTypes, ", ")),
				Context: ctx,
			})
		}

		if test.Name == "" {
			errs = append(errs, ValidationError{Field: "name", Message: "test name is required", Context: ctx})
		} else {
			if seenNames[test.Name] {
				errs = append(errs, ValidationError{
					Field:   "name",
					Message: fmt.Sprintf("duplicate test name %q", test.Name),
					Context: ctx,
				})
			}
			seenNames[test.Name] = true
		}

		if _, err := command.ParseRunState(test.RunState); err != nil {
			errs = append(errs, ValidationError{Field: "run_state", Message: err.Error(), Context: ctx})
		}

		errs = append(errs, policyErrors(test.Policies, ctx)...)

		retries := policy.Has(test.Policies, policy.KindTimeoutRetry) || policy.Has(cfg.Policies, policy.KindTimeoutRetry)
		if retries && !suiteHasMaxTime && !hasMaxTime(test.Policies, test.Properties) {
			errs = append(errs, ValidationError{
				Field:   "policies",
				Message: "timeout_retry requires a max_time policy or MaxTime property on the test or its suite",
				Context: ctx,
			})
		}
	}

	return errs
}

func policyErrors(specs []policy.Spec, ctx string) ValidationErrors {
	var errs ValidationErrors
	for i, s := range specs {
		if err := s.Validate(); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("policies[%d]", i),
				Message: err.Error(),
				Context: ctx,
			})
		}
	}
	return errs
}

func hasMaxTime(specs []policy.Spec, props map[string]string) bool {
	if policy.Has(specs, policy.KindMaxTime) {
		return true
	}
	_, ok := props[command.PropertyMaxTime]
	return ok
}

func (v *Validator) isKnownType(unitType string) bool {
	for _, t := range v.knownTypes {
		if t == unitType {
			return true
		}
	}
	return false
}

// ValidateConfig is a convenience function to validate a suite with known unit types.
func ValidateConfig(cfg *Config, knownTypes []string) error {
	errs := NewValidator(knownTypes).Validate(cfg)
	if errs.HasErrors() {
		return errs
	}
	return nil
}
