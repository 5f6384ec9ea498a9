// Package event defines the update events that device callbacks produce and the
// queue that carries them to the rendering goroutine.
package event

import (
	"fmt"

	"github.com/Alia5/padscope/pad"
)

// Kind tags an Event's payload.
type Kind uint8

const (
	ButtonChanged Kind = iota + 1
	StickAxisChanged
	BatteryChanged
	BatteryWarning
	ConnectionChanged
	ErrorRaised
	StatusMessage
)

func (k Kind) String() string {
	switch k {
	case ButtonChanged:
		return "ButtonChanged"
	case StickAxisChanged:
		return "StickAxisChanged"
	case BatteryChanged:
		return "BatteryChanged"
	case BatteryWarning:
		return "BatteryWarning"
	case ConnectionChanged:
		return "ConnectionChanged"
	case ErrorRaised:
		return "ErrorRaised"
	case StatusMessage:
		return "StatusMessage"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Event is one queued update. Payload's dynamic type is fixed by Kind; see the
// payload types below.
type Event struct {
	Kind    Kind
	Payload any
}

func (e Event) String() string {
	return fmt.Sprintf("%s%+v", e.Kind, e.Payload)
}

// Button is the payload of ButtonChanged.
type Button struct {
	Button  pad.Button
	Pressed bool
}

// Stick is the payload of StickAxisChanged. Axes says which of X and Y carry a
// new value; the other component keeps its current value.
type Stick struct {
	Stick pad.Stick
	Axes  pad.Axis
	X, Y  float64
}

// Warning is the payload of BatteryWarning.
type Warning struct {
	Message string
}

// Severity selects how a status message is presented.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityError
)

// Status is the payload of StatusMessage.
type Status struct {
	Text     string
	Severity Severity
}

// Failure is the payload of ErrorRaised.
type Failure struct {
	Message string
}

// ButtonEvent builds a ButtonChanged event.
func ButtonEvent(b pad.Button, pressed bool) Event {
	return Event{Kind: ButtonChanged, Payload: Button{Button: b, Pressed: pressed}}
}

// AxisEvent builds a StickAxisChanged event for a single axis.
func AxisEvent(s pad.Stick, axis pad.Axis, v float64) Event {
	p := Stick{Stick: s, Axes: axis}
	if axis&pad.AxisX != 0 {
		p.X = v
	}
	if axis&pad.AxisY != 0 {
		p.Y = v
	}
	return Event{Kind: StickAxisChanged, Payload: p}
}

// StickEvent builds a StickAxisChanged event carrying both axes.
func StickEvent(s pad.Stick, x, y float64) Event {
	return Event{Kind: StickAxisChanged, Payload: Stick{Stick: s, Axes: pad.AxisBoth, X: x, Y: y}}
}

// BatteryEvent builds a BatteryChanged event.
func BatteryEvent(b pad.Battery) Event {
	return Event{Kind: BatteryChanged, Payload: b}
}

// WarningEvent builds a BatteryWarning event.
func WarningEvent(msg string) Event {
	return Event{Kind: BatteryWarning, Payload: Warning{Message: msg}}
}

// ConnectionEvent builds a ConnectionChanged event.
func ConnectionEvent(c pad.Connection) Event {
	return Event{Kind: ConnectionChanged, Payload: c}
}

// ErrorEvent builds an ErrorRaised event.
func ErrorEvent(msg string) Event {
	return Event{Kind: ErrorRaised, Payload: Failure{Message: msg}}
}

// StatusEvent builds a StatusMessage event.
func StatusEvent(text string, sev Severity) Event {
	return Event{Kind: StatusMessage, Payload: Status{Text: text, Severity: sev}}
}
