// Package source defines the device event source: drivers that discover
// controllers, and controllers that fire input callbacks from their own
// goroutines once activated.
package source

import (
	"errors"

	"github.com/Alia5/padscope/pad"
)

// ErrNoDevice is returned when a driver is asked to open a device that is not
// (or no longer) present.
var ErrNoDevice = errors.New("no such device")

// Candidate is a discovered, not yet opened, controller.
type Candidate struct {
	ID         string
	Name       string
	Connection pad.Connection
}

// Driver discovers and opens controllers.
type Driver interface {
	// Name identifies the driver in logs.
	Name() string
	// Enumerate returns the controllers currently available, possibly none.
	Enumerate() ([]Candidate, error)
	// Open prepares a controller. Callbacks may be registered on it before
	// Activate is called.
	Open(c Candidate) (Controller, error)
	// Close releases driver resources. Controllers must be deactivated first.
	Close() error
}

// Controller is an opened device.
type Controller interface {
	// Callbacks is where per-button, per-axis, battery, connection and error
	// callbacks are registered.
	Callbacks() *Emitter
	// Activate starts firing callbacks from the driver's goroutines.
	Activate() error
	// Deactivate stops firing callbacks. It is idempotent.
	Deactivate() error
	// Connection reports the current transport.
	Connection() pad.Connection
}
