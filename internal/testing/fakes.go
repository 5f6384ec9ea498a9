package testing

import (
	"errors"
	"sync"

	"github.com/Alia5/padscope/internal/source"
	"github.com/Alia5/padscope/pad"
)

// FakeDriver is a scripted source.Driver.
type FakeDriver struct {
	mu sync.Mutex

	Candidates   []source.Candidate
	EnumerateErr error
	OpenErr      error
	ActivateErr  error

	Opened []*FakeController
	closed bool
}

// Name implements source.Driver.
func (d *FakeDriver) Name() string { return "fake" }

// Enumerate implements source.Driver.
func (d *FakeDriver) Enumerate() ([]source.Candidate, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.EnumerateErr != nil {
		return nil, d.EnumerateErr
	}
	return append([]source.Candidate(nil), d.Candidates...), nil
}

// Open implements source.Driver.
func (d *FakeDriver) Open(c source.Candidate) (source.Controller, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	fc := &FakeController{
		emitter:     source.NewEmitter(),
		conn:        c.Connection,
		activateErr: d.ActivateErr,
	}
	d.Opened = append(d.Opened, fc)
	return fc, nil
}

// Close implements source.Driver.
func (d *FakeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errors.New("already closed")
	}
	d.closed = true
	return nil
}

// SetCandidates replaces the enumeration result.
func (d *FakeDriver) SetCandidates(c ...source.Candidate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Candidates = c
}

// Controllers returns the controllers opened so far.
func (d *FakeDriver) Controllers() []*FakeController {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*FakeController(nil), d.Opened...)
}

// FakeController records activation and lets tests fire callbacks directly.
type FakeController struct {
	mu          sync.Mutex
	emitter     *source.Emitter
	conn        pad.Connection
	activateErr error
	active      bool
	activations int
	deactivated int
}

// Callbacks implements source.Controller.
func (c *FakeController) Callbacks() *source.Emitter { return c.emitter }

// Activate implements source.Controller.
func (c *FakeController) Activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activateErr != nil {
		return c.activateErr
	}
	c.active = true
	c.activations++
	return nil
}

// Deactivate implements source.Controller.
func (c *FakeController) Deactivate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		c.active = false
		c.deactivated++
	}
	return nil
}

// Connection implements source.Controller.
func (c *FakeController) Connection() pad.Connection { return c.conn }

// Active reports whether the controller is activated.
func (c *FakeController) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Deactivations counts effective Deactivate calls.
func (c *FakeController) Deactivations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deactivated
}
