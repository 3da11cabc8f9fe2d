package tide

import (
	"context"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// dispatcher turns commands into producer goroutines feeding the bus.
// dispatch is called only from the program loop and never blocks.
type dispatcher[Msg any] struct {
	ctx     context.Context
	bus     *Bus[Msg]
	metrics MetricsProvider
	drops   *dropRing
	clock   clockz.Clock
}

// dispatch spawns the task described by cmd. CmdNone spawns nothing and
// leaves the bus untouched.
func (d *dispatcher[Msg]) dispatch(cmd Cmd[Msg]) {
	switch cmd.kind {
	case CmdNone:
		return

	case CmdImmediate:
		msg := cmd.msg
		d.spawn(cmd, func(ctx context.Context, s *Sender[Msg]) error {
			return s.Send(ctx, msg)
		})

	case CmdEffect:
		fn := cmd.effect
		d.spawn(cmd, func(ctx context.Context, s *Sender[Msg]) error {
			msg := fn(ctx)
			return s.Send(ctx, msg)
		})

	case CmdStream:
		sub := cmd.stream
		d.spawn(cmd, func(ctx context.Context, s *Sender[Msg]) error {
			for msg := range sub(ctx) {
				if err := s.Send(ctx, msg); err != nil {
					return err
				}
			}
			return nil
		})
	}
}

// spawn registers a sender for the task and runs it in its own goroutine.
// A failed send ends the task; nobody is waiting on the result, so the
// failure is only reported through signals and metrics.
func (d *dispatcher[Msg]) spawn(cmd Cmd[Msg], task func(context.Context, *Sender[Msg]) error) {
	kind := cmd.kind
	var sender *Sender[Msg]
	if cmd.token != nil {
		sender = d.bus.ScopedSender(cmd.token)
	} else {
		sender = d.bus.Sender()
	}

	capitan.Emit(context.WithoutCancel(d.ctx), CommandDispatched,
		KeyCommand.Field(kind.String()),
	)
	if d.metrics != nil {
		d.metrics.OnDispatch(kind)
	}

	go func() {
		defer sender.Release()

		ctx, cancel := context.WithCancel(d.ctx)
		defer cancel()
		if cmd.token != nil {
			ctx, cancel = WithScope(ctx, cmd.token)
			defer cancel()
		}

		if err := task(ctx, sender); err != nil {
			capitan.Emit(context.WithoutCancel(ctx), CommandDropped,
				KeyCommand.Field(kind.String()),
				KeyError.Field(err.Error()),
			)
			if d.metrics != nil {
				d.metrics.OnDropped(kind)
			}
			if d.drops != nil {
				d.drops.push(Drop{Kind: kind, Err: err, At: d.clock.Now()})
			}
		}
	}()
}
