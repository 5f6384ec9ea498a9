// Package monitor discovers a controller, binds its callbacks to the update
// queue and reports connection status.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Alia5/padscope/internal/event"
	"github.com/Alia5/padscope/internal/source"
	"github.com/Alia5/padscope/pad"
)

const (
	// DefaultInterval is the period between discovery attempts.
	DefaultInterval = time.Second
	// LowBatteryPercent triggers a battery warning when crossed downwards.
	LowBatteryPercent = 20

	StatusNoController = "No controller available!"
	LowBatteryMessage  = "Low battery!"
)

// Monitor polls a driver until a controller is found, then keeps it bound.
// Only one controller is ever bound.
type Monitor struct {
	driver   source.Driver
	queue    *event.Queue
	logger   *slog.Logger
	interval time.Duration
	invertY  bool

	mu         sync.Mutex
	ctrl       source.Controller
	lastStatus string
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithInterval changes the discovery period.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithInvertY flips stick Y values before they are queued.
func WithInvertY(invert bool) Option {
	return func(m *Monitor) { m.invertY = invert }
}

// New creates a monitor feeding q.
func New(driver source.Driver, q *event.Queue, logger *slog.Logger, opts ...Option) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Monitor{
		driver:   driver,
		queue:    q,
		logger:   logger.With("driver", driver.Name()),
		interval: DefaultInterval,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Connected reports whether a controller is bound.
func (m *Monitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctrl != nil
}

// Run checks for a controller immediately and then every interval until ctx
// is done. On return the bound controller, if any, is deactivated.
func (m *Monitor) Run(ctx context.Context) error {
	defer m.Close()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		m.Check()
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Check performs one discovery attempt. It is a no-op while a controller is
// bound.
func (m *Monitor) Check() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl != nil {
		return
	}

	candidates, err := m.driver.Enumerate()
	if err != nil {
		m.logger.Warn("enumerate failed", "error", err)
		m.status(fmt.Sprintf("Error connecting to controller: %v", err), event.SeverityError)
		return
	}
	if len(candidates) == 0 {
		m.status(StatusNoController, event.SeverityError)
		return
	}

	c := candidates[0]
	ctrl, err := m.driver.Open(c)
	if err != nil {
		m.logger.Warn("open failed", "device", c.ID, "error", err)
		m.status(fmt.Sprintf("Error connecting to controller: %v", err), event.SeverityError)
		return
	}
	Bind(ctrl.Callbacks(), m.queue, m.invertY)
	if err := ctrl.Activate(); err != nil {
		_ = ctrl.Deactivate()
		m.logger.Warn("activate failed", "device", c.ID, "error", err)
		m.status(fmt.Sprintf("Error connecting to controller: %v", err), event.SeverityError)
		return
	}

	m.ctrl = ctrl
	name := c.Name
	if name == "" {
		name = "Controller"
	}
	m.logger.Info("controller connected", "device", c.ID, "name", name, "connection", ctrl.Connection())
	m.status(name+" connected!", event.SeverityInfo)
	m.queue.Enqueue(event.ConnectionEvent(ctrl.Connection()))
}

// Close deactivates the bound controller. It is safe to call more than once.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl == nil {
		return
	}
	if err := m.ctrl.Deactivate(); err != nil {
		m.logger.Warn("deactivate failed", "error", err)
	}
	m.ctrl = nil
}

// status queues a status message unless it repeats the previous one.
func (m *Monitor) status(text string, sev event.Severity) {
	if text == m.lastStatus {
		return
	}
	m.lastStatus = text
	m.queue.Enqueue(event.StatusEvent(text, sev))
}

// Bind registers callbacks on e that translate every device callback into
// exactly one queued event.
func Bind(e *source.Emitter, q *event.Queue, invertY bool) {
	for _, b := range pad.Buttons() {
		e.OnButtonDown(b, func() { q.Enqueue(event.ButtonEvent(b, true)) })
		e.OnButtonUp(b, func() { q.Enqueue(event.ButtonEvent(b, false)) })
	}

	for s := range pad.StickCount {
		stick := pad.Stick(s)
		e.OnAxis(stick, pad.AxisX, func(v float64) {
			q.Enqueue(event.AxisEvent(stick, pad.AxisX, v))
		})
		e.OnAxis(stick, pad.AxisY, func(v float64) {
			if invertY {
				v = -v
			}
			q.Enqueue(event.AxisEvent(stick, pad.AxisY, v))
		})
	}

	e.OnBattery(func(b pad.Battery) { q.Enqueue(event.BatteryEvent(b)) })
	e.OnBatteryBelow(LowBatteryPercent, func(pad.Battery) {
		q.Enqueue(event.WarningEvent(LowBatteryMessage))
	})
	e.OnConnection(func(c pad.Connection) { q.Enqueue(event.ConnectionEvent(c)) })
	e.OnError(func(err error) { q.Enqueue(event.ErrorEvent(err.Error())) })
}
