package fsm

// stateNode is the normalized, immutable form of a StateNode.
type stateNode struct {
	entry []ActionRef
	exit  []ActionRef
	on    map[string]transition
}

// transition is the normalized form of a Transition. declared keeps the
// original scalar/list shape for snapshot observation.
type transition struct {
	target   string
	actions  []ActionRef
	declared Actions
}

// Machine is the immutable transition table plus the pure resolver,
// independent of any running instance. A machine owns no mutable state and
// may be shared read-only by any number of services without synchronization.
type Machine struct {
	name    string
	initial string
	states  map[string]stateNode
}

// Resolution is the outcome of resolving an event against the table. For an
// external transition Target names the destination and Exit/Entry carry the
// source and destination lifecycle actions. For a self/internal transition
// Target is empty and only Actions is populated. Declared is the
// transition's own actions in their original declared shape.
type Resolution struct {
	Target   string
	External bool
	Exit     []ActionRef
	Actions  []ActionRef
	Entry    []ActionRef
	Declared Actions
}

// New validates and normalizes a configuration into a machine. Construction
// fails with a ConfigurationError when the initial key or any transition
// target does not name a declared state.
func New(config Config) (*Machine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	machine := &Machine{
		name:    config.Name,
		initial: config.Initial,
		states:  make(map[string]stateNode, len(config.States)),
	}

	for key, node := range config.States {
		normalized := stateNode{
			entry: node.Entry.Refs(),
			exit:  node.Exit.Refs(),
			on:    make(map[string]transition, len(node.On)),
		}

		for eventType, tr := range node.On {
			normalized.on[eventType] = transition{
				target:   tr.Target,
				actions:  tr.Actions.Refs(),
				declared: tr.Actions,
			}
		}

		machine.states[key] = normalized
	}

	return machine, nil
}

// Name returns the machine's name, used as a log and metric label.
func (m *Machine) Name() string {
	return m.name
}

// Initial returns the initial state key.
func (m *Machine) Initial() string {
	return m.initial
}

// StateKeys returns the declared state keys in no particular order.
func (m *Machine) StateKeys() []string {
	keys := make([]string, 0, len(m.states))
	for key := range m.states {
		keys = append(keys, key)
	}

	return keys
}

// Resolve computes the transition for an event against a current state.
// It is a pure function of the normalized table: deterministic, free of
// side effects, and it never reads or writes service state. The second
// return value is false when the state ignores the event.
func (m *Machine) Resolve(current string, event Event) (Resolution, bool) {
	node, ok := m.states[current]
	if !ok {
		return Resolution{}, false
	}

	tr, ok := node.on[event.Type]
	if !ok {
		return Resolution{}, false
	}

	if tr.target == "" {
		return Resolution{
			Actions:  tr.actions,
			Declared: tr.declared,
		}, true
	}

	return Resolution{
		Target:   tr.target,
		External: true,
		Exit:     node.exit,
		Actions:  tr.actions,
		Entry:    m.states[tr.target].entry,
		Declared: tr.declared,
	}, true
}

// initialEntry returns the entry actions of the initial state.
func (m *Machine) initialEntry() []ActionRef {
	return m.states[m.initial].entry
}
