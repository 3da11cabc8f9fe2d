package tide

import "github.com/zoobzio/capitan"

// Program lifecycle signals.
var (
	// ProgramStarted is emitted when a Program begins initializing.
	ProgramStarted = capitan.NewSignal(
		"tide.program.started",
		"Program loop started",
	)

	// ProgramStopped is emitted when a Program loop returns.
	ProgramStopped = capitan.NewSignal(
		"tide.program.stopped",
		"Program loop stopped",
	)

	// ProgramStateChanged is emitted when a Program transitions between states.
	ProgramStateChanged = capitan.NewSignal(
		"tide.program.state.changed",
		"Program state transition",
	)
)

// Command signals.
var (
	// CommandDispatched is emitted when a command spawns a producer task.
	CommandDispatched = capitan.NewSignal(
		"tide.command.dispatched",
		"Command task spawned",
	)

	// CommandDropped is emitted when a producer task could not deliver its
	// message, usually because the program loop has stopped.
	CommandDropped = capitan.NewSignal(
		"tide.command.dropped",
		"Command message dropped",
	)
)

// Subscription signals.
var (
	// SubscriptionStarted is emitted when the program subscription starts.
	SubscriptionStarted = capitan.NewSignal(
		"tide.subscription.started",
		"Program subscription started",
	)

	// SubscriptionEnded is emitted when the program subscription is exhausted.
	SubscriptionEnded = capitan.NewSignal(
		"tide.subscription.ended",
		"Program subscription ended",
	)

	// ScopeReleased is emitted the first time a cancellation scope is released.
	ScopeReleased = capitan.NewSignal(
		"tide.scope.released",
		"Cancellation scope released",
	)

	// WatchFailed is emitted when a file subscription cannot be established.
	WatchFailed = capitan.NewSignal(
		"tide.watch.failed",
		"File watch failed",
	)
)

// Configuration signals.
var (
	// ConfigLoaded is emitted when a configuration file has been decoded and validated.
	ConfigLoaded = capitan.NewSignal(
		"tide.config.loaded",
		"Configuration loaded",
	)
)
