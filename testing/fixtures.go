package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/statewise/fsm"
)

// RingConfig returns a four-state ring: a -> b -> c -> d -> a on NEXT.
func RingConfig() fsm.Config {
	return fsm.Config{
		Name:    "ring",
		Initial: "a",
		States: map[string]fsm.StateNode{
			"a": {On: map[string]fsm.Transition{"NEXT": {Target: "b"}}},
			"b": {On: map[string]fsm.Transition{"NEXT": {Target: "c"}}},
			"c": {On: map[string]fsm.Transition{"NEXT": {Target: "d"}}},
			"d": {On: map[string]fsm.Transition{"NEXT": {Target: "a"}}},
		},
	}
}

// TrafficLightConfig returns a three-state light with named lifecycle
// actions, useful for exercising a registry.
func TrafficLightConfig() fsm.Config {
	return fsm.Config{
		Name:    "traffic",
		Initial: "green",
		States: map[string]fsm.StateNode{
			"green": {
				Entry: fsm.SingleAction(fsm.Named("glowGreen")),
				On:    map[string]fsm.Transition{"TIMER": {Target: "yellow"}},
			},
			"yellow": {
				Entry: fsm.SingleAction(fsm.Named("glowYellow")),
				On: map[string]fsm.Transition{
					"TIMER": {Target: "red", Actions: fsm.SingleAction(fsm.Named("warn"))},
				},
			},
			"red": {
				Entry: fsm.SingleAction(fsm.Named("glowRed")),
				On: map[string]fsm.Transition{
					"TIMER": {Target: "green"},
					"BLINK": {Actions: fsm.SingleAction(fsm.Named("blink"))},
				},
			},
		},
	}
}

// MustNewMachine builds a machine from a config and fails the test on a
// configuration error.
func MustNewMachine(t *testing.T, config fsm.Config) *fsm.Machine {
	t.Helper()

	machine, err := fsm.New(config)
	require.NoError(t, err, "failed to build machine")

	return machine
}

// WriteConfigFile writes YAML to a temp file and returns its path, for
// exercising fsm.LoadConfig's path mode.
func WriteConfigFile(t *testing.T, yaml string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "machine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	return path
}

// LoadTestConfig loads a config from the testdata directory.
func LoadTestConfig(t *testing.T, name string) *fsm.Config {
	t.Helper()

	config, err := fsm.LoadConfig(filepath.Join("testdata", name))
	require.NoError(t, err, "failed to load test config")

	return config
}
