// Package sdlpad reads a local gamepad through SDL3.
//
// All SDL calls run on one locked OS thread owned by the Driver; other
// goroutines reach it by submitting closures.
package sdlpad

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/Alia5/padscope/internal/source"
	"github.com/Alia5/padscope/pad"
	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/sdl"
)

// DefaultPollInterval is how often active gamepads are sampled.
const DefaultPollInterval = 4 * time.Millisecond

// ErrClosed is returned once the driver has been closed.
var ErrClosed = errors.New("sdlpad: driver closed")

// ErrDisconnected is reported through OnError when an active gamepad vanishes.
var ErrDisconnected = errors.New("controller disconnected")

// Driver owns the SDL gamepad subsystem.
type Driver struct {
	logger   *slog.Logger
	interval time.Duration

	reqs   chan func()
	quit   chan struct{}
	done   chan struct{}
	closer sync.Once

	// owned by the SDL thread
	active []*Controller
}

// New loads SDL and starts the SDL thread.
func New(logger *slog.Logger, pollInterval time.Duration) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	d := &Driver{
		logger:   logger.With("driver", "sdl"),
		interval: pollInterval,
		reqs:     make(chan func()),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go d.loop()
	return d
}

func (d *Driver) loop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(d.done)

	defer binsdl.Load().Unload()
	defer sdl.Quit()
	sdl.Init(sdl.INIT_GAMEPAD)
	d.logger.Debug("sdl gamepad subsystem ready")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-d.quit:
			for _, c := range d.active {
				c.close()
			}
			d.active = nil
			return
		case fn := <-d.reqs:
			fn()
		case <-ticker.C:
			d.poll()
		}
	}
}

// do runs fn on the SDL thread and waits for it.
func (d *Driver) do(fn func()) error {
	ran := make(chan struct{})
	select {
	case d.reqs <- func() { fn(); close(ran) }:
	case <-d.done:
		return ErrClosed
	}
	<-ran
	return nil
}

func (d *Driver) poll() {
	sdl.UpdateGamepads()
	if len(d.active) == 0 {
		return
	}
	ids, err := sdl.GetGamepads()
	if err != nil {
		d.logger.Warn("list gamepads", "error", err)
		return
	}
	kept := d.active[:0]
	for _, c := range d.active {
		if !slices.Contains(ids, c.id) {
			d.logger.Info("gamepad removed", "id", c.id)
			c.close()
			c.emitter.Error(ErrDisconnected)
			continue
		}
		c.sample()
		kept = append(kept, c)
	}
	d.active = kept
}

// Name implements source.Driver.
func (d *Driver) Name() string { return "sdl" }

// Enumerate implements source.Driver.
func (d *Driver) Enumerate() ([]source.Candidate, error) {
	var (
		ids []sdl.JoystickID
		err error
	)
	if derr := d.do(func() {
		sdl.UpdateGamepads()
		ids, err = sdl.GetGamepads()
	}); derr != nil {
		return nil, derr
	}
	if err != nil {
		return nil, fmt.Errorf("list gamepads: %w", err)
	}

	out := make([]source.Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, source.Candidate{
			ID:   strconv.FormatUint(uint64(id), 10),
			Name: fmt.Sprintf("Gamepad %d", id),
		})
	}
	return out, nil
}

// Open implements source.Driver.
func (d *Driver) Open(c source.Candidate) (source.Controller, error) {
	return d.OpenGamepad(c)
}

// OpenGamepad opens the candidate and returns the concrete controller.
func (d *Driver) OpenGamepad(c source.Candidate) (*Controller, error) {
	n, err := strconv.ParseUint(c.ID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", source.ErrNoDevice, c.ID)
	}
	id := sdl.JoystickID(n)

	var (
		gp   *sdl.Gamepad
		oerr error
	)
	if derr := d.do(func() { gp, oerr = id.OpenGamepad() }); derr != nil {
		return nil, derr
	}
	if oerr != nil {
		return nil, fmt.Errorf("open gamepad %d: %w", id, oerr)
	}
	return &Controller{
		driver:  d,
		id:      id,
		gamepad: gp,
		emitter: source.NewEmitter(),
	}, nil
}

// Close implements source.Driver. It closes any gamepad still open.
func (d *Driver) Close() error {
	d.closer.Do(func() { close(d.quit) })
	<-d.done
	return nil
}

// Controller is one opened SDL gamepad.
type Controller struct {
	driver  *Driver
	id      sdl.JoystickID
	gamepad *sdl.Gamepad
	emitter *source.Emitter

	mu    sync.Mutex
	state pad.InputState
}

// Callbacks implements source.Controller.
func (c *Controller) Callbacks() *source.Emitter { return c.emitter }

// Connection implements source.Controller. SDL does not expose the transport
// through the gamepad API.
func (c *Controller) Connection() pad.Connection { return pad.ConnectionUnknown }

// Activate implements source.Controller.
func (c *Controller) Activate() error {
	var err error
	if derr := c.driver.do(func() {
		switch {
		case c.gamepad == nil:
			err = fmt.Errorf("gamepad %d: %w", c.id, source.ErrNoDevice)
		case !slices.Contains(c.driver.active, c):
			c.driver.active = append(c.driver.active, c)
		}
	}); derr != nil {
		return derr
	}
	return err
}

// Deactivate implements source.Controller.
func (c *Controller) Deactivate() error {
	err := c.driver.do(func() {
		c.driver.active = slices.DeleteFunc(c.driver.active, func(o *Controller) bool { return o == c })
		c.close()
	})
	if errors.Is(err, ErrClosed) {
		return nil
	}
	return err
}

// State returns the most recent sample.
func (c *Controller) State() pad.InputState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// sample runs on the SDL thread.
func (c *Controller) sample() {
	next := readState(c.gamepad, pad.ConnectionUnknown)
	c.mu.Lock()
	prev := c.state
	c.state = next
	c.mu.Unlock()
	c.emitter.Apply(prev, next)
}

// close runs on the SDL thread.
func (c *Controller) close() {
	if c.gamepad != nil {
		c.gamepad.Close()
		c.gamepad = nil
	}
}
