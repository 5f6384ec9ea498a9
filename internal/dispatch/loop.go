// Package dispatch drains the update queue on the rendering goroutine and
// applies each event to the view.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/padscope/internal/event"
	"github.com/Alia5/padscope/internal/view"
	"github.com/Alia5/padscope/pad"
)

// DefaultInterval is the period between drains.
const DefaultInterval = 10 * time.Millisecond

// ErrHalted is returned by Run once an ErrorRaised event stopped the loop.
var ErrHalted = errors.New("dispatch halted")

// DrainError is a failure to interpret one dequeued event. The event is
// skipped; draining continues with the next one.
type DrainError struct {
	Event event.Event
	Err   error
}

func (e *DrainError) Error() string {
	return fmt.Sprintf("apply %s: %v", e.Event.Kind, e.Err)
}

func (e *DrainError) Unwrap() error { return e.Err }

// Loop is the single consumer of the update queue and the only writer of the
// view's render state.
type Loop struct {
	queue    *event.Queue
	view     *view.View
	logger   *slog.Logger
	interval time.Duration

	halted  bool
	haltMsg string
}

// New creates a loop draining q into v.
func New(q *event.Queue, v *view.View, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		queue:    q,
		view:     v,
		logger:   logger,
		interval: DefaultInterval,
	}
}

// SetInterval changes the tick period used by Run.
func (l *Loop) SetInterval(d time.Duration) {
	if d > 0 {
		l.interval = d
	}
}

// Halted reports whether a fatal device error stopped the loop, and its
// message.
func (l *Loop) Halted() (bool, string) {
	return l.halted, l.haltMsg
}

// Tick pops events until the queue is empty, applying each one before popping
// the next. It returns the number of events applied. Once halted, Tick only
// discards whatever was queued.
func (l *Loop) Tick() int {
	if l.halted {
		if n := l.queue.Discard(); n > 0 {
			l.logger.Debug("discarding events after halt", "count", n)
		}
		return 0
	}

	applied := 0
	for {
		ev, ok := l.queue.Pop()
		if !ok {
			return applied
		}
		applied++
		if err := l.applySafe(ev); err != nil {
			l.logger.Error("skipping event", "event", ev.Kind, "error", err)
		}
		if l.halted {
			if n := l.queue.Discard(); n > 0 {
				l.logger.Debug("discarding events after halt", "count", n)
			}
			return applied
		}
	}
}

// Run ticks every interval until ctx is done or the loop halts. afterTick, if
// set, runs on the loop goroutine after every tick that applied events.
func (l *Loop) Run(ctx context.Context, afterTick func(applied int)) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		n := l.Tick()
		if n > 0 && afterTick != nil {
			afterTick(n)
		}
		if l.halted {
			return fmt.Errorf("%w: %s", ErrHalted, l.haltMsg)
		}
	}
}

func (l *Loop) applySafe(ev event.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DrainError{Event: ev, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return l.apply(ev)
}

func (l *Loop) apply(ev event.Event) error {
	switch ev.Kind {
	case event.ButtonChanged:
		p, ok := ev.Payload.(event.Button)
		if !ok {
			return badPayload(ev)
		}
		return l.render(ev, l.view.SetButton(p.Button, p.Pressed))

	case event.StickAxisChanged:
		p, ok := ev.Payload.(event.Stick)
		if !ok {
			return badPayload(ev)
		}
		_, err := l.view.MoveStick(p.Stick, p.Axes, p.X, p.Y)
		return l.render(ev, err)

	case event.BatteryChanged:
		p, ok := ev.Payload.(pad.Battery)
		if !ok {
			return badPayload(ev)
		}
		l.view.Indicators.SetBattery(p)

	case event.BatteryWarning:
		p, ok := ev.Payload.(event.Warning)
		if !ok {
			return badPayload(ev)
		}
		l.logger.Warn("battery warning", "message", p.Message)
		l.view.Indicators.SetBatteryWarning()

	case event.ConnectionChanged:
		p, ok := ev.Payload.(pad.Connection)
		if !ok {
			return badPayload(ev)
		}
		l.view.Indicators.SetConnection(p)

	case event.StatusMessage:
		p, ok := ev.Payload.(event.Status)
		if !ok {
			return badPayload(ev)
		}
		c := view.ColorOK
		if p.Severity == event.SeverityError {
			c = view.ColorError
		}
		l.view.Indicators.SetStatus(p.Text, c)

	case event.ErrorRaised:
		p, ok := ev.Payload.(event.Failure)
		if !ok {
			return badPayload(ev)
		}
		l.logger.Error("device error, halting updates", "message", p.Message)
		l.view.Indicators.SetError(p.Message)
		l.halted = true
		l.haltMsg = p.Message

	default:
		return &DrainError{Event: ev, Err: errors.New("unknown event kind")}
	}
	return nil
}

// render classifies a view error: transient render failures are logged and
// swallowed, anything else is a drain error for this event.
func (l *Loop) render(ev event.Event, err error) error {
	if err == nil {
		return nil
	}
	if view.IsTransient(err) {
		l.logger.Warn("frame not updated", "event", ev.Kind, "error", err)
		return nil
	}
	return &DrainError{Event: ev, Err: err}
}

func badPayload(ev event.Event) error {
	return &DrainError{Event: ev, Err: fmt.Errorf("unexpected payload %T", ev.Payload)}
}
