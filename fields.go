package tide

import "github.com/zoobzio/capitan"

// Field keys for Program events.
var (
	// KeyState is the current state of the Program.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyCommand is the kind of command involved.
	KeyCommand = capitan.NewStringKey("command")

	// KeyCapacity is the configured bus capacity.
	KeyCapacity = capitan.NewIntKey("capacity")

	// KeyUpdates is the number of update calls made by the Program.
	KeyUpdates = capitan.NewIntKey("updates")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyPath is a filesystem path.
	KeyPath = capitan.NewStringKey("path")

	// KeyDuration is how long the loop ran.
	KeyDuration = capitan.NewDurationKey("duration")
)
