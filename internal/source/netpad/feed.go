package netpad

import (
	"fmt"
	"sync"

	"github.com/Alia5/padscope/internal/source"
	"github.com/Alia5/padscope/pad"
)

// feed is one connected feeder. mu is held while callbacks fire so catch-up
// on activation and live frames never interleave.
type feed struct {
	id   string
	name string

	mu     sync.Mutex
	state  pad.InputState
	ctrl   *Controller
	active bool
	gone   bool
}

func (f *feed) candidate() (source.Candidate, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ctrl != nil || f.gone {
		return source.Candidate{}, false
	}
	return source.Candidate{ID: f.id, Name: f.name, Connection: f.state.Connection}, true
}

func (f *feed) bind() (*Controller, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gone {
		return nil, fmt.Errorf("%w: %s", source.ErrNoDevice, f.id)
	}
	if f.ctrl != nil {
		return nil, fmt.Errorf("feeder %s already bound", f.id)
	}
	f.ctrl = &Controller{feed: f, emitter: source.NewEmitter()}
	return f.ctrl, nil
}

func (f *feed) update(next pad.InputState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev := f.state
	f.state = next
	if f.active {
		f.ctrl.emitter.Apply(prev, next)
	}
}

func (f *feed) lost() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gone {
		return
	}
	f.gone = true
	if f.active {
		f.active = false
		f.ctrl.emitter.Error(ErrDisconnected)
	}
}

// Controller is a feeder bound to a consumer.
type Controller struct {
	feed    *feed
	emitter *source.Emitter
}

// Callbacks implements source.Controller.
func (c *Controller) Callbacks() *source.Emitter { return c.emitter }

// Activate implements source.Controller. Callbacks first fire for the
// difference between an idle pad and the feeder's current state.
func (c *Controller) Activate() error {
	f := c.feed
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gone {
		return fmt.Errorf("%w: %s", source.ErrNoDevice, f.id)
	}
	if f.active {
		return nil
	}
	f.active = true
	c.emitter.Apply(pad.InputState{}, f.state)
	return nil
}

// Deactivate implements source.Controller.
func (c *Controller) Deactivate() error {
	f := c.feed
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = false
	return nil
}

// Connection implements source.Controller.
func (c *Controller) Connection() pad.Connection {
	f := c.feed
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Connection
}
