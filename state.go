package tide

// State represents the current state of a Program.
type State int32

const (
	// StateInitializing indicates init and subscriptions are being called
	// and the loop has not consumed any message yet.
	StateInitializing State = iota

	// StateRunning indicates the loop is consuming messages.
	StateRunning

	// StateTerminated indicates every source is exhausted, or the context
	// ended, and the loop has returned.
	StateTerminated
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
