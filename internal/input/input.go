package input

// Source is one logical capture button, polled once per tick. It reports
// levels, not edges; edge detection is the poller's job.
type Source interface {
	// Available reports whether the source is currently delivering state.
	// While false, Pressed values are stale and must not be acted on.
	Available() bool
	Pressed() bool
}
