package fsm

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigLoader is an interface for loading configurations by name.
// Applications can implement this to provide embedded or custom config loading.
type ConfigLoader interface {
	LoadByName(name string) ([]byte, error)
	ListAvailable() []string
}

// defaultConfigLoader is the global config loader used by LoadConfig.
// Applications can set this to provide embedded configs.
var defaultConfigLoader ConfigLoader //nolint:gochecknoglobals

// SetConfigLoader sets the default config loader for name-based loading.
func SetConfigLoader(loader ConfigLoader) {
	defaultConfigLoader = loader
}

// Config is the declarative definition of a machine: an initial state key
// and a mapping from state key to state node. It is consumed once at
// machine construction and never mutated by the engine.
type Config struct {
	Name    string               `json:"name"    yaml:"name"`
	Initial string               `json:"initial" yaml:"initial"`
	States  map[string]StateNode `json:"states"  yaml:"states"`
}

// StateNode holds the optional entry and exit actions of one state plus its
// transitions keyed by event type.
type StateNode struct {
	Entry Actions               `json:"entry" yaml:"entry"`
	Exit  Actions               `json:"exit"  yaml:"exit"`
	On    map[string]Transition `json:"on"    yaml:"on"`
}

// Transition describes what happens when an event matches. An empty Target
// denotes a self/internal transition: the state value does not change and
// exit/entry actions do not run, only Actions execute.
type Transition struct {
	Target  string  `json:"target"  yaml:"target"`
	Actions Actions `json:"actions" yaml:"actions"`
}

// UnmarshalYAML accepts the shorthand form (a bare target key) in addition
// to the explicit mapping form.
func (t *Transition) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var target string
		if err := value.Decode(&target); err != nil {
			return err
		}

		*t = Transition{Target: target}

		return nil
	case yaml.MappingNode:
		type plain Transition

		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}

		*t = Transition(p)

		return nil
	default:
		return fmt.Errorf("%w: line %d", ErrInvalidTransitionShape, value.Line)
	}
}

// LoadConfig loads a machine configuration by path or name.
// Supports two modes:
//   - Path mode: Pass a file path (containing '/', '\', or ending in '.yaml')
//     to load from the filesystem.
//   - Name mode: Pass a bare name to load via the registered ConfigLoader.
//
// For name mode to work, you must call SetConfigLoader() first.
func LoadConfig(pathOrName string) (*Config, error) {
	isPath := strings.Contains(pathOrName, "/") ||
		strings.Contains(pathOrName, `\`) ||
		strings.HasSuffix(strings.ToLower(pathOrName), ".yaml")

	if isPath {
		data, err := os.ReadFile(pathOrName) //nolint:gosec // Intentional path-based loading
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", pathOrName, err)
		}

		return LoadConfigFromBytes(data)
	}

	if defaultConfigLoader == nil {
		return nil, ErrNoConfigLoader
	}

	data, err := defaultConfigLoader.LoadByName(pathOrName)
	if err != nil {
		available := defaultConfigLoader.ListAvailable()

		return nil, fmt.Errorf("failed to load config %q (available: %v): %w", pathOrName, available, err)
	}

	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes loads a machine configuration from YAML bytes.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var config Config

	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigFromFS loads a configuration from an embedded filesystem.
// This is a convenience function for loading from embed.FS.
func LoadConfigFromFS(fsys fs.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS: %w", err)
	}

	return LoadConfigFromBytes(data)
}

// Validate checks the referential integrity of the whole table: the initial
// key and every transition target must name a declared state, and keys must
// be non-empty.
func (c *Config) Validate() error {
	if c.Initial == "" {
		return WrapConfigurationError("", "", ErrInitialStateRequired)
	}

	if len(c.States) == 0 {
		return WrapConfigurationError("", "", ErrStateRequired)
	}

	if _, ok := c.States[c.Initial]; !ok {
		return WrapConfigurationError("", "", fmt.Errorf("%w: %s", ErrInitialStateNotFound, c.Initial))
	}

	for key, node := range c.States {
		if key == "" {
			return WrapConfigurationError("", "", ErrStateKeyRequired)
		}

		for eventType, transition := range node.On {
			if eventType == "" {
				return WrapConfigurationError(key, "", ErrEventTypeRequired)
			}

			if transition.Target == "" {
				continue // self/internal transition
			}

			if _, ok := c.States[transition.Target]; !ok {
				return WrapConfigurationError(key, eventType,
					fmt.Errorf("%w: %s", ErrTargetStateNotFound, transition.Target))
			}
		}
	}

	return nil
}
