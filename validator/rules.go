package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/statewise/fsm"
)

// RuleResult contains errors, warnings, and suggestions from a rule check.
type RuleResult struct {
	Errors      []ValidationError
	Warnings    []ValidationWarning
	Suggestions []Suggestion
}

// Rule defines a validation rule that checks a config for specific issues.
type Rule interface {
	Name() string
	Check(config *fsm.Config) RuleResult
}

// DefaultRules returns the standard set of validation rules.
func DefaultRules() []Rule {
	return []Rule{
		&danglingReferenceRule{},
		&unreachableStateRule{},
		&deadEndStateRule{},
		&eventNamingRule{},
	}
}

// RegisteredRules stores custom validation rules.
var RegisteredRules []Rule //nolint:gochecknoglobals

// RegisterRule adds a custom validation rule.
func RegisterRule(rule Rule) {
	RegisteredRules = append(RegisteredRules, rule)
}

// sortedStateKeys gives rules a deterministic iteration order.
func sortedStateKeys(config *fsm.Config) []string {
	keys := make([]string, 0, len(config.States))
	for key := range config.States {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// sortedEventTypes gives rules a deterministic iteration order over a node.
func sortedEventTypes(node fsm.StateNode) []string {
	events := make([]string, 0, len(node.On))
	for event := range node.On {
		events = append(events, event)
	}

	sort.Strings(events)

	return events
}

// danglingReferenceRule mirrors the construction-time integrity checks so a
// config can be linted without building a machine.
type danglingReferenceRule struct{}

func (r *danglingReferenceRule) Name() string {
	return "DanglingReference"
}

func (r *danglingReferenceRule) Check(config *fsm.Config) RuleResult {
	var result RuleResult

	if config.Initial == "" {
		result.Errors = append(result.Errors, ValidationError{
			Code:    "MISSING_INITIAL",
			Message: "config must declare an initial state",
		})
	} else if _, ok := config.States[config.Initial]; !ok {
		result.Errors = append(result.Errors, ValidationError{
			Code:    "DANGLING_INITIAL",
			Message: fmt.Sprintf("initial state '%s' is not declared", config.Initial),
		})
	}

	for _, key := range sortedStateKeys(config) {
		node := config.States[key]
		for _, event := range sortedEventTypes(node) {
			target := node.On[event].Target
			if target == "" {
				continue
			}

			if _, ok := config.States[target]; !ok {
				result.Errors = append(result.Errors, ValidationError{
					Code:     "DANGLING_TARGET",
					Message:  fmt.Sprintf("transition on '%s' targets undeclared state '%s'", event, target),
					Location: Location{State: key, Event: event},
				})
			}
		}
	}

	return result
}

// unreachableStateRule flags states that no chain of transitions from the
// initial state can reach. The machine still constructs; the state is dead
// weight.
type unreachableStateRule struct{}

func (r *unreachableStateRule) Name() string {
	return "UnreachableState"
}

func (r *unreachableStateRule) Check(config *fsm.Config) RuleResult {
	var result RuleResult

	if _, ok := config.States[config.Initial]; !ok {
		return result // dangling initial is reported elsewhere
	}

	reachable := map[string]bool{config.Initial: true}

	queue := []string{config.Initial}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := config.States[current]
		for _, transition := range node.On {
			target := transition.Target
			if target == "" || reachable[target] {
				continue
			}

			if _, ok := config.States[target]; !ok {
				continue
			}

			reachable[target] = true
			queue = append(queue, target)
		}
	}

	for _, key := range sortedStateKeys(config) {
		if !reachable[key] {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Code:     "UNREACHABLE_STATE",
				Message:  fmt.Sprintf("state '%s' cannot be reached from initial state '%s'", key, config.Initial),
				Location: Location{State: key},
			})
		}
	}

	return result
}

// deadEndStateRule flags states with no outbound transitions. Terminal
// states are legitimate, so this is only a suggestion.
type deadEndStateRule struct{}

func (r *deadEndStateRule) Name() string {
	return "DeadEndState"
}

func (r *deadEndStateRule) Check(config *fsm.Config) RuleResult {
	var result RuleResult

	for _, key := range sortedStateKeys(config) {
		if len(config.States[key].On) == 0 {
			result.Suggestions = append(result.Suggestions, Suggestion{
				Message: fmt.Sprintf("state '%s' has no outbound transitions; once entered, every event is ignored", key),
				Example: fmt.Sprintf("states:\n  %s:\n    on:\n      RESET: %s", key, config.Initial),
			})
		}
	}

	return result
}

// eventNamingRule suggests the conventional SCREAMING_CASE for event types.
type eventNamingRule struct{}

func (r *eventNamingRule) Name() string {
	return "EventNaming"
}

func (r *eventNamingRule) Check(config *fsm.Config) RuleResult {
	var result RuleResult

	seen := map[string]bool{}

	for _, key := range sortedStateKeys(config) {
		for _, event := range sortedEventTypes(config.States[key]) {
			if seen[event] {
				continue
			}

			seen[event] = true

			if event != strings.ToUpper(event) {
				result.Warnings = append(result.Warnings, ValidationWarning{
					Code:     "EVENT_NAMING",
					Message:  fmt.Sprintf("event '%s' is not upper-cased; matching is case-sensitive and mixed casing invites typos", event),
					Location: Location{State: key, Event: event},
				})
			}
		}
	}

	return result
}

// unknownActionRule flags named action references that have no entry in the
// registry the service will run with.
type unknownActionRule struct {
	registry map[string]fsm.ActionFunc
}

func (r *unknownActionRule) Name() string {
	return "UnknownAction"
}

func (r *unknownActionRule) Check(config *fsm.Config) RuleResult {
	var result RuleResult

	check := func(slot fsm.Actions, state, event string) {
		for _, ref := range slot.Refs() {
			if !ref.IsNamed() {
				continue
			}

			if _, ok := r.registry[ref.Name()]; !ok {
				result.Errors = append(result.Errors, ValidationError{
					Code:     "UNKNOWN_ACTION",
					Message:  fmt.Sprintf("named action '%s' has no registry entry; Send would fail at execution time", ref.Name()),
					Location: Location{State: state, Event: event},
				})
			}
		}
	}

	for _, key := range sortedStateKeys(config) {
		node := config.States[key]
		check(node.Entry, key, "")
		check(node.Exit, key, "")

		for _, event := range sortedEventTypes(node) {
			check(node.On[event].Actions, key, event)
		}
	}

	return result
}
