package rule

import (
	"errors"
	"fmt"
)

// Sentinel errors for rule validation.
var (
	// ErrNoPatterns is returned for a rule with no usable pattern.
	ErrNoPatterns = errors.New("rule has no patterns")

	// ErrEmptyPattern is returned for a blank pattern string.
	ErrEmptyPattern = errors.New("rule pattern cannot be empty")
)

// ValidationError reports which rule in a set failed validation.
type ValidationError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("rule %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Resolver is the subset of the feature registry validation needs.
type Resolver interface {
	Has(name string) bool
}

// Set is an ordered, immutable collection of rules.
type Set struct {
	rules []Rule
}

// NewSet creates a rule set. The rules slice is copied.
func NewSet(rules ...Rule) Set {
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return Set{rules: cp}
}

// Rules returns the rules in configured order.
// The returned slice is a copy.
func (s Set) Rules() []Rule {
	cp := make([]Rule, len(s.rules))
	copy(cp, s.rules)
	return cp
}

// Len returns the number of rules.
func (s Set) Len() int {
	return len(s.rules)
}

// Validate checks every rule in the set: each rule needs at least one
// non-empty pattern, and every feature name must resolve against the
// registry. Unknown names are rejected here, at configuration time, rather
// than at first evaluation.
func (s Set) Validate(features Resolver) error {
	for i, r := range s.rules {
		if err := validateRule(r, features); err != nil {
			return &ValidationError{Index: i, Err: err}
		}
	}
	return nil
}

func validateRule(r Rule, features Resolver) error {
	if len(r.Patterns) == 0 {
		return ErrNoPatterns
	}
	for _, pat := range r.Patterns {
		if pat == "" {
			return ErrEmptyPattern
		}
	}
	for _, name := range r.Features {
		if !features.Has(name) {
			return fmt.Errorf("feature %q not registered", name)
		}
	}
	return nil
}
