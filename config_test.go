package fsm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trafficYAML = `
name: traffic
initial: green
states:
  green:
    exit: [dimGreen]
    on:
      TIMER: yellow
  yellow:
    on:
      TIMER:
        target: red
        actions: [startCountdown, announce]
  red:
    entry: glowRed
    on:
      TIMER: green
      BLINK:
        actions: blink
`

func TestLoadConfigFromBytes(t *testing.T) {
	t.Parallel()

	config, err := LoadConfigFromBytes([]byte(trafficYAML))
	require.NoError(t, err)

	assert.Equal(t, "traffic", config.Name)
	assert.Equal(t, "green", config.Initial)
	assert.Len(t, config.States, 3)

	// Shorthand form expands to a bare target.
	shorthand := config.States["green"].On["TIMER"]
	assert.Equal(t, "yellow", shorthand.Target)
	assert.True(t, shorthand.Actions.IsZero())

	// Explicit form keeps target and list-shaped actions.
	explicit := config.States["yellow"].On["TIMER"]
	assert.Equal(t, "red", explicit.Target)
	require.True(t, explicit.Actions.IsList())
	require.Equal(t, 2, explicit.Actions.Len())
	assert.Equal(t, "startCountdown", explicit.Actions.Refs()[0].Name())
	assert.Equal(t, "announce", explicit.Actions.Refs()[1].Name())

	// Scalar action stays scalar; omitted target means internal.
	internal := config.States["red"].On["BLINK"]
	assert.Empty(t, internal.Target)
	require.False(t, internal.Actions.IsList())
	require.Equal(t, 1, internal.Actions.Len())
	assert.Equal(t, "blink", internal.Actions.Refs()[0].Name())

	// Entry/exit slots decode through the same shapes.
	assert.Equal(t, 1, config.States["red"].Entry.Len())
	assert.True(t, config.States["green"].Exit.IsList())
}

func TestLoadConfigFromBytesEquivalentForms(t *testing.T) {
	t.Parallel()

	shorthand, err := LoadConfigFromBytes([]byte(`
initial: a
states:
  a:
    on:
      NEXT: b
  b: {}
`))
	require.NoError(t, err)

	explicit, err := LoadConfigFromBytes([]byte(`
initial: a
states:
  a:
    on:
      NEXT:
        target: b
  b: {}
`))
	require.NoError(t, err)

	first, err := New(*shorthand)
	require.NoError(t, err)

	second, err := New(*explicit)
	require.NoError(t, err)

	one, ok1 := first.Resolve("a", Event{Type: "NEXT"})
	two, ok2 := second.Resolve("a", Event{Type: "NEXT"})
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, one.Target, two.Target)
	assert.Equal(t, one.External, two.External)
}

func TestLoadConfigFromBytesInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "missing initial",
			yaml:    "states:\n  a: {}\n",
			wantErr: ErrInitialStateRequired,
		},
		{
			name:    "dangling initial",
			yaml:    "initial: zz\nstates:\n  a: {}\n",
			wantErr: ErrInitialStateNotFound,
		},
		{
			name:    "dangling target",
			yaml:    "initial: a\nstates:\n  a:\n    on:\n      GO: zz\n",
			wantErr: ErrTargetStateNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfigFromBytes([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfigPathMode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "traffic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(trafficYAML), 0o600))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "traffic", config.Name)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

type mapLoader struct {
	configs map[string][]byte
}

func (l *mapLoader) LoadByName(name string) ([]byte, error) {
	data, ok := l.configs[name]
	if !ok {
		return nil, os.ErrNotExist
	}

	return data, nil
}

func (l *mapLoader) ListAvailable() []string {
	names := make([]string, 0, len(l.configs))
	for name := range l.configs {
		names = append(names, name)
	}

	return names
}

//nolint:paralleltest // Test swaps the global config loader
func TestLoadConfigNameMode(t *testing.T) {
	SetConfigLoader(nil)

	_, err := LoadConfig("traffic")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoConfigLoader))

	SetConfigLoader(&mapLoader{configs: map[string][]byte{"traffic": []byte(trafficYAML)}})

	t.Cleanup(func() { SetConfigLoader(nil) })

	config, err := LoadConfig("traffic")
	require.NoError(t, err)
	assert.Equal(t, "green", config.Initial)

	_, err = LoadConfig("absent")
	require.Error(t, err)
}

func TestTransitionRejectsSequenceForm(t *testing.T) {
	t.Parallel()

	_, err := LoadConfigFromBytes([]byte(`
initial: a
states:
  a:
    on:
      GO: [b, c]
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransitionShape)
}
