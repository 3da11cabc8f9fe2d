// Package tide provides a runtime for small reactive programs built around a
// pure update function.
//
// A Program owns a single model value. Messages arrive from two kinds of
// asynchronous sources, commands returned by update and a long-lived
// subscription, and are merged into one strictly sequential stream. For
// each message the loop calls update, dispatches the returned command and
// renders the new model:
//
//	Subscription ─┐
//	              ├─→ merge → update → dispatch → view
//	Bus ←─ Cmd ───┘
//
// # Commands
//
// A Cmd is a closed set of effect shapes:
//
//   - None: nothing happens (the zero value)
//   - Immediate: queue a message
//   - Effect / Perform: compute a message in a goroutine and queue it
//   - Stream: forward every message of a Sub
//
// Pipeline runs a pipz pipeline as an effect. Build, WithRetry, WithBackoff
// and WithTimeout assemble one, which keeps retry policy in application
// code where update can see the outcome.
//
// Every non-None command runs in its own goroutine and meets the loop only
// at the Bus. update and view are never called concurrently, so the model
// needs no locks.
//
// # Subscriptions
//
// A Sub is a function returning a channel of messages. The package ships
// Items, FromChannel, Map, Batch, Lines, Every (backed by clockz) and
// WatchFile (backed by fsnotify).
//
// # Cancellation
//
// NewScope returns a Token and its owning Scope. Releasing the Scope, which
// is idempotent and irreversible, stops every subscription wrapped with
// Until and every command tied to the token with Cmd.Until. Messages already
// accepted by the bus are still delivered.
//
//	token, scope := tide.NewScope()
//	model.ticking = scope
//	return model, tide.Stream(tide.Every(clock, time.Second, toTick)).Until(token)
//
//	// later
//	model.ticking.Release()
//
// # Observability
//
// The runtime emits capitan signals (ProgramStarted, CommandDispatched,
// ScopeReleased, ...) and reports to an optional MetricsProvider; the otel
// subpackage provides an OpenTelemetry implementation. Program.DropHistory
// keeps the most recent dropped commands for inspection.
package tide
