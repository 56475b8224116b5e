// Package validator provides lint-style checks for machine configurations,
// beyond the referential-integrity checks enforced at construction time.
package validator

import (
	"fmt"

	"github.com/statewise/fsm"
)

// ValidationResult contains the results of validating a machine config.
type ValidationResult struct {
	Valid       bool
	Errors      []ValidationError
	Warnings    []ValidationWarning
	Suggestions []Suggestion
}

// ValidationError represents a validation error with fix suggestions.
type ValidationError struct {
	Code     string   // Error code like "DANGLING_TARGET", "UNKNOWN_ACTION"
	Message  string   // Human-readable error message
	Location Location // Where the error occurred
}

// ValidationWarning represents a non-critical issue.
type ValidationWarning struct {
	Code     string
	Message  string
	Location Location
}

// Suggestion provides improvement recommendations.
type Suggestion struct {
	Message string // Suggestion description
	Example string // Example showing the improvement
}

// Location identifies where an issue occurred.
type Location struct {
	State string // State key if applicable
	Event string // Event type if applicable
}

// Validate runs the default rule set against a config.
func Validate(config *fsm.Config) ValidationResult {
	return ValidateWithRules(config, DefaultRules())
}

// ValidateWithActions runs the default rules plus the unknown-action rule
// against the supplied registry, catching named references that would fail
// at execution time.
func ValidateWithActions(config *fsm.Config, actions map[string]fsm.ActionFunc) ValidationResult {
	rules := append(DefaultRules(), &unknownActionRule{registry: actions})

	return ValidateWithRules(config, rules)
}

// ValidateWithRules runs a custom rule set against a config.
func ValidateWithRules(config *fsm.Config, rules []Rule) ValidationResult {
	result := ValidationResult{Valid: true}

	if config == nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Code:    "NIL_CONFIG",
			Message: "config cannot be nil",
		})

		return result
	}

	for _, rule := range append(rules, RegisteredRules...) {
		ruleResult := rule.Check(config)
		result.Errors = append(result.Errors, ruleResult.Errors...)
		result.Warnings = append(result.Warnings, ruleResult.Warnings...)
		result.Suggestions = append(result.Suggestions, ruleResult.Suggestions...)
	}

	result.Valid = len(result.Errors) == 0

	return result
}

// ValidateFile loads a config by path and validates it.
func ValidateFile(path string) (ValidationResult, error) {
	config, err := fsm.LoadConfig(path)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("failed to load config: %w", err)
	}

	return Validate(config), nil
}
