package eventloop

import (
	"context"
	"errors"
	"log"

	"snip-annotate/src/session"
)

// Controller is the part of session.Controller the loop drives.
type Controller interface {
	Activate(ctx context.Context)
	Handle(ctx context.Context, ev session.Event)
	State() session.State
}

// Loop is the single-threaded coordinator: it is the only goroutine touching
// the session, and it processes one event to completion before the next.
type Loop struct {
	ctrl Controller
}

func New(ctrl Controller) *Loop {
	return &Loop{ctrl: ctrl}
}

// Run activates the session and handles events until it is Closed.
// A closed channel or cancelled ctx cancels the session.
func (l *Loop) Run(ctx context.Context, events <-chan session.Event) error {
	if l.ctrl.State() != session.StateEditing {
		return errors.New("event loop needs a session in the Editing state")
	}
	l.ctrl.Activate(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Printf("eventloop: context done, cancelling session")
			l.ctrl.Handle(context.Background(), session.CancelRequested{})
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				log.Printf("eventloop: event source closed, cancelling session")
				l.ctrl.Handle(ctx, session.CancelRequested{})
				return nil
			}
			l.dispatch(ctx, ev)
			if l.ctrl.State() == session.StateClosed {
				return nil
			}
		}
	}
}

func (l *Loop) dispatch(ctx context.Context, ev session.Event) {
	switch ev.(type) {
	case session.PointerMove:
		// too chatty to log
	default:
		log.Printf("eventloop: handling %s", ev.Type())
	}
	l.ctrl.Handle(ctx, ev)
}
