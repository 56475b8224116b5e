// Package visualizer generates Mermaid state diagrams from machine
// configurations.
package visualizer

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/statewise/fsm"
)

// Visualizer errors.
var (
	ErrConfigNil      = errors.New("config cannot be nil")
	ErrNoInitialState = errors.New("config must have an initial state")
)

// GenerateMermaid converts a Config to a Mermaid state diagram.
func GenerateMermaid(config *fsm.Config) (string, error) {
	return GenerateMermaidWithOptions(config, DefaultOptions())
}

// GenerateMermaidFromFile loads a config by path and generates a diagram.
func GenerateMermaidFromFile(path string) (string, error) {
	config, err := fsm.LoadConfig(path)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	return GenerateMermaid(config)
}

// GenerateMermaidWithOptions generates a Mermaid diagram with custom options.
func GenerateMermaidWithOptions(config *fsm.Config, opts Options) (string, error) {
	if config == nil {
		return "", ErrConfigNil
	}

	if config.Initial == "" {
		return "", ErrNoInitialState
	}

	var sb strings.Builder

	if opts.Fence {
		sb.WriteString("```mermaid\n")
	}

	sb.WriteString(fmt.Sprintf("stateDiagram-%s\n", opts.Direction))

	// Initial state marker
	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", config.Initial))

	highlightMap := make(map[string]bool)
	for _, state := range opts.HighlightPath {
		highlightMap[state] = true
	}

	for _, key := range sortedStateKeys(config) {
		node := config.States[key]

		if opts.ShowActions {
			if description := describeState(key, node); description != "" {
				sb.WriteString(fmt.Sprintf("    %s : %s\n", key, description))
			}
		}

		for _, event := range sortedEventTypes(node) {
			transition := node.On[event]
			label := event

			if opts.ShowActions && !transition.Actions.IsZero() {
				label += " / " + joinActionNames(transition.Actions)
			}

			target := transition.Target
			if target == "" {
				// Self/internal transitions render as a loop edge.
				target = key

				label += " (internal)"
			}

			sb.WriteString(fmt.Sprintf("    %s --> %s : %s\n", key, target, label))
		}
	}

	// Highlight styling. The classDef is declared once, then applied per state.
	highlighted := false

	for _, key := range sortedStateKeys(config) {
		if !highlightMap[key] {
			continue
		}

		if !highlighted {
			sb.WriteString("    classDef highlight fill:#f96\n")

			highlighted = true
		}

		sb.WriteString(fmt.Sprintf("    class %s highlight\n", key))
	}

	if opts.Fence {
		sb.WriteString("```\n")
	}

	return sb.String(), nil
}

// describeState renders a state's entry/exit actions as a node description.
func describeState(key string, node fsm.StateNode) string {
	parts := make([]string, 0, 2)

	if !node.Entry.IsZero() {
		parts = append(parts, "entry / "+joinActionNames(node.Entry))
	}

	if !node.Exit.IsZero() {
		parts = append(parts, "exit / "+joinActionNames(node.Exit))
	}

	return strings.Join(parts, "; ")
}

func joinActionNames(actions fsm.Actions) string {
	names := make([]string, 0, actions.Len())
	for _, ref := range actions.Refs() {
		names = append(names, ref.Name())
	}

	return strings.Join(names, ", ")
}

func sortedStateKeys(config *fsm.Config) []string {
	keys := make([]string, 0, len(config.States))
	for key := range config.States {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func sortedEventTypes(node fsm.StateNode) []string {
	events := make([]string, 0, len(node.On))
	for event := range node.On {
		events = append(events, event)
	}

	sort.Strings(events)

	return events
}
