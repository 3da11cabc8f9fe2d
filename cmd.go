package tide

import "context"

// CmdKind identifies the shape of a command.
type CmdKind int

const (
	// CmdNone performs no effect.
	CmdNone CmdKind = iota

	// CmdImmediate queues a message without doing asynchronous work.
	CmdImmediate

	// CmdEffect runs a computation once and queues its result.
	CmdEffect

	// CmdStream forwards every message of a subscription until it ends.
	CmdStream
)

// String returns the string representation of the kind.
func (k CmdKind) String() string {
	switch k {
	case CmdNone:
		return "none"
	case CmdImmediate:
		return "immediate"
	case CmdEffect:
		return "effect"
	case CmdStream:
		return "stream"
	default:
		return "unknown"
	}
}

// Cmd describes a side effect to perform after a transition. The zero value
// is a command that does nothing.
type Cmd[Msg any] struct {
	kind   CmdKind
	msg    Msg
	effect func(context.Context) Msg
	stream Sub[Msg]
	token  *Token
}

// None returns a command that does nothing.
func None[Msg any]() Cmd[Msg] {
	return Cmd[Msg]{}
}

// Immediate returns a command that queues msg. The message still travels
// through the bus, so update is never re-entered from within update.
func Immediate[Msg any](msg Msg) Cmd[Msg] {
	return Cmd[Msg]{kind: CmdImmediate, msg: msg}
}

// Effect returns a command that runs fn in its own goroutine and queues the
// message it returns. The context is cancelled when the program stops, or
// when the token set with Until is released. A nil fn yields None.
//
// Failures must be encoded in the returned message:
//
//	tide.Effect(func(ctx context.Context) Msg {
//	    body, err := fetch(ctx, url)
//	    return Fetched{Body: body, Err: err}
//	})
func Effect[Msg any](fn func(context.Context) Msg) Cmd[Msg] {
	if fn == nil {
		return Cmd[Msg]{}
	}
	return Cmd[Msg]{kind: CmdEffect, effect: fn}
}

// Perform returns an effect computed by a plain function, for work that
// does not need the context.
func Perform[Msg any](fn func() Msg) Cmd[Msg] {
	if fn == nil {
		return Cmd[Msg]{}
	}
	return Effect(func(context.Context) Msg {
		return fn()
	})
}

// Stream returns a command that forwards every message produced by sub, in
// order, until sub ends or the program stops. A nil sub yields None.
func Stream[Msg any](sub Sub[Msg]) Cmd[Msg] {
	if sub == nil {
		return Cmd[Msg]{}
	}
	return Cmd[Msg]{kind: CmdStream, stream: sub}
}

// Until ties the command to a cancellation token. Once the token's scope is
// released the command stops producing: a pending send is abandoned and a
// stream is torn down. Messages already accepted by the bus still arrive.
func (c Cmd[Msg]) Until(token *Token) Cmd[Msg] {
	if c.kind == CmdNone || token == nil {
		return c
	}
	c.token = token
	if c.kind == CmdStream {
		c.stream = Until(c.stream, token)
	}
	return c
}

// Kind reports the shape of the command.
func (c Cmd[Msg]) Kind() CmdKind {
	return c.kind
}
