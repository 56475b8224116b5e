package fsm

// InitEventType is the event type passed to entry actions of the initial
// state when a service starts.
const InitEventType = "fsm.init"

// Event is the value dispatched to a service. Matching against the
// transition table is by Type only, case-sensitive and exact; Payload is
// carried through to actions untouched.
type Event struct {
	Type    string
	Payload map[string]any
}

// Snapshot is the externally observable state of a service at a point in
// time. Actions reflects the triggering transition's declared action
// references in their original scalar or list shape; it is zero until a
// transition carrying actions occurs and never includes entry or exit
// actions.
type Snapshot struct {
	Value   string
	Actions Actions
}

// Listener receives the new snapshot after every matched transition.
type Listener func(Snapshot)
