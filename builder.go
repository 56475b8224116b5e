package fsm

// Builder provides a fluent API for constructing machine configurations.
type Builder struct {
	config Config
}

// NewBuilder creates a new machine builder.
func NewBuilder(name string) *Builder {
	return &Builder{
		config: Config{
			Name:   name,
			States: map[string]StateNode{},
		},
	}
}

// WithInitial sets the initial state key.
func (b *Builder) WithInitial(key string) *Builder {
	b.config.Initial = key

	return b
}

// AddState adds a state node built from options. Adding the same key twice
// replaces the earlier node.
func (b *Builder) AddState(key string, opts ...StateOption) *Builder {
	node := StateNode{On: map[string]Transition{}}
	for _, opt := range opts {
		opt(&node)
	}

	b.config.States[key] = node

	return b
}

// Config returns the accumulated configuration.
func (b *Builder) Config() Config {
	return b.config
}

// Build validates the accumulated configuration and constructs the machine.
func (b *Builder) Build() (*Machine, error) {
	return New(b.config)
}

// StateOption configures a state node during AddState.
type StateOption func(*StateNode)

// WithEntry sets the state's entry actions. A single reference is declared
// scalar, multiple references are declared as a list.
func WithEntry(refs ...ActionRef) StateOption {
	return func(node *StateNode) {
		node.Entry = shapeOf(refs)
	}
}

// WithExit sets the state's exit actions.
func WithExit(refs ...ActionRef) StateOption {
	return func(node *StateNode) {
		node.Exit = shapeOf(refs)
	}
}

// On declares an external transition to target for the given event type.
func On(event, target string, refs ...ActionRef) StateOption {
	return func(node *StateNode) {
		node.On[event] = Transition{Target: target, Actions: shapeOf(refs)}
	}
}

// OnInternal declares a self/internal transition: only the given actions
// run and the state value does not change.
func OnInternal(event string, refs ...ActionRef) StateOption {
	return func(node *StateNode) {
		node.On[event] = Transition{Actions: shapeOf(refs)}
	}
}

// shapeOf maps variadic references to the declared Actions shape.
func shapeOf(refs []ActionRef) Actions {
	switch len(refs) {
	case 0:
		return Actions{}
	case 1:
		return SingleAction(refs[0])
	default:
		return ActionList(refs...)
	}
}
