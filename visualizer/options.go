package visualizer

// Options configures the visualization output.
type Options struct {
	// ShowActions includes entry/exit/transition action names in the diagram
	ShowActions bool

	// Direction controls diagram flow: "TD" (top-down) or "LR" (left-right)
	Direction string

	// HighlightPath highlights a specific state path through the diagram
	HighlightPath []string

	// Fence wraps the output in a ```mermaid code fence
	Fence bool
}

// DefaultOptions returns sensible defaults for visualization.
func DefaultOptions() Options {
	return Options{
		ShowActions: true,
		Direction:   "TD",
		Fence:       true,
	}
}

// WithShowActions enables/disables action details.
func (o Options) WithShowActions(show bool) Options {
	o.ShowActions = show

	return o
}

// WithDirection sets the diagram direction.
func (o Options) WithDirection(direction string) Options {
	o.Direction = direction

	return o
}

// WithHighlightPath sets states to highlight.
func (o Options) WithHighlightPath(path []string) Options {
	o.HighlightPath = path

	return o
}

// WithFence enables/disables the surrounding code fence.
func (o Options) WithFence(fence bool) Options {
	o.Fence = fence

	return o
}
