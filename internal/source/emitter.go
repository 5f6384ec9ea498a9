package source

import (
	"sync"

	"github.com/Alia5/padscope/pad"
)

type threshold struct {
	percent int
	fn      func(pad.Battery)
	armed   bool
}

// Emitter holds registered callbacks and fires them. Registration is expected
// before activation; firing may happen concurrently from several goroutines.
type Emitter struct {
	mu sync.RWMutex

	down, up   [pad.ButtonCount][]func()
	axes       [pad.StickCount][2][]func(float64)
	battery    []func(pad.Battery)
	below      []*threshold
	connection []func(pad.Connection)
	errs       []func(error)
}

// NewEmitter returns an Emitter with no callbacks.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// OnButtonDown registers fn for presses of b.
func (e *Emitter) OnButtonDown(b pad.Button, fn func()) {
	if !b.Valid() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.down[b] = append(e.down[b], fn)
}

// OnButtonUp registers fn for releases of b.
func (e *Emitter) OnButtonUp(b pad.Button, fn func()) {
	if !b.Valid() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.up[b] = append(e.up[b], fn)
}

// OnAxis registers fn for changes of one stick axis. Values are in [-1, 1]
// with +Y pointing down.
func (e *Emitter) OnAxis(s pad.Stick, axis pad.Axis, fn func(float64)) {
	i, ok := axisIndex(axis)
	if !ok || int(s) >= pad.StickCount {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.axes[s][i] = append(e.axes[s][i], fn)
}

// OnBattery registers fn for any battery change.
func (e *Emitter) OnBattery(fn func(pad.Battery)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.battery = append(e.battery, fn)
}

// OnBatteryBelow registers fn to fire once each time the level drops below
// percent. It re-arms when the level climbs back to percent or above.
func (e *Emitter) OnBatteryBelow(percent int, fn func(pad.Battery)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.below = append(e.below, &threshold{percent: percent, fn: fn, armed: true})
}

// OnConnection registers fn for transport changes.
func (e *Emitter) OnConnection(fn func(pad.Connection)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.connection = append(e.connection, fn)
}

// OnError registers fn for fatal driver errors.
func (e *Emitter) OnError(fn func(error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs = append(e.errs, fn)
}

// Button fires the down or up callbacks of b.
func (e *Emitter) Button(b pad.Button, pressed bool) {
	if !b.Valid() {
		return
	}
	e.mu.RLock()
	fns := e.up[b]
	if pressed {
		fns = e.down[b]
	}
	e.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// Axis fires the callbacks of one stick axis.
func (e *Emitter) Axis(s pad.Stick, axis pad.Axis, v float64) {
	i, ok := axisIndex(axis)
	if !ok || int(s) >= pad.StickCount {
		return
	}
	e.mu.RLock()
	fns := e.axes[s][i]
	e.mu.RUnlock()
	for _, fn := range fns {
		fn(v)
	}
}

// Battery fires battery callbacks and any threshold crossings.
func (e *Emitter) Battery(b pad.Battery) {
	e.mu.Lock()
	fns := e.battery
	var crossed []func(pad.Battery)
	for _, t := range e.below {
		switch {
		case b.Level < t.percent && t.armed:
			t.armed = false
			crossed = append(crossed, t.fn)
		case b.Level >= t.percent:
			t.armed = true
		}
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(b)
	}
	for _, fn := range crossed {
		fn(b)
	}
}

// Connection fires transport callbacks.
func (e *Emitter) Connection(c pad.Connection) {
	e.mu.RLock()
	fns := e.connection
	e.mu.RUnlock()
	for _, fn := range fns {
		fn(c)
	}
}

// Error fires error callbacks.
func (e *Emitter) Error(err error) {
	e.mu.RLock()
	fns := e.errs
	e.mu.RUnlock()
	for _, fn := range fns {
		fn(err)
	}
}

// Apply fires callbacks for every difference between two snapshots.
func (e *Emitter) Apply(prev, next pad.InputState) {
	if changed := prev.Buttons ^ next.Buttons; changed != 0 {
		for _, b := range pad.Buttons() {
			if changed&(1<<uint(b)) != 0 {
				e.Button(b, next.Pressed(b))
			}
		}
	}

	if prev.LX != next.LX {
		e.Axis(pad.StickLeft, pad.AxisX, pad.RawToAxis(next.LX))
	}
	if prev.LY != next.LY {
		e.Axis(pad.StickLeft, pad.AxisY, pad.RawToAxis(next.LY))
	}
	if prev.RX != next.RX {
		e.Axis(pad.StickRight, pad.AxisX, pad.RawToAxis(next.RX))
	}
	if prev.RY != next.RY {
		e.Axis(pad.StickRight, pad.AxisY, pad.RawToAxis(next.RY))
	}

	if prev.Battery != next.Battery || prev.Flags != next.Flags {
		e.Battery(next.BatteryInfo())
	}
	if prev.Connection != next.Connection {
		e.Connection(next.Connection)
	}
}

func axisIndex(a pad.Axis) (int, bool) {
	switch a {
	case pad.AxisX:
		return 0, true
	case pad.AxisY:
		return 1, true
	default:
		return 0, false
	}
}
