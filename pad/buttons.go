// Package pad describes the logical controller: its 18 buttons, its two analog
// sticks and where each of them sits on the 1200×1200 reference layout.
package pad

// ReferenceSize is the edge length of the square logical space that all layout
// positions are expressed in.
const ReferenceSize = 1200.0

// Button identifies one of the logical controller buttons.
type Button uint8

// Declaration order is the stable enumeration order used for status text and
// for the wire bitmask.
const (
	ButtonL2 Button = iota
	ButtonL1
	ButtonR2
	ButtonR1
	ButtonTriangle
	ButtonCircle
	ButtonCross
	ButtonSquare
	ButtonDPadUp
	ButtonDPadRight
	ButtonDPadDown
	ButtonDPadLeft
	ButtonCreate
	ButtonOptions
	ButtonPS
	ButtonTouchpad
	ButtonL3
	ButtonR3

	ButtonCount = int(ButtonR3) + 1
)

// Position is a point in logical reference space.
type Position struct {
	X, Y float64
}

var buttonNames = [ButtonCount]string{
	ButtonL2:        "L2",
	ButtonL1:        "L1",
	ButtonR2:        "R2",
	ButtonR1:        "R1",
	ButtonTriangle:  "Triangle",
	ButtonCircle:    "Circle",
	ButtonCross:     "Cross",
	ButtonSquare:    "Square",
	ButtonDPadUp:    "D-Pad Up",
	ButtonDPadRight: "D-Pad Right",
	ButtonDPadDown:  "D-Pad Down",
	ButtonDPadLeft:  "D-Pad Left",
	ButtonCreate:    "Create",
	ButtonOptions:   "Options",
	ButtonPS:        "PS",
	ButtonTouchpad:  "Touchpad",
	ButtonL3:        "L3",
	ButtonR3:        "R3",
}

var buttonPositions = [ButtonCount]Position{
	ButtonL2:        {298, 313},
	ButtonL1:        {292, 360},
	ButtonR2:        {907, 313},
	ButtonR1:        {909, 360},
	ButtonTriangle:  {901, 481},
	ButtonCircle:    {971, 551},
	ButtonCross:     {901, 620},
	ButtonSquare:    {830, 553},
	ButtonDPadUp:    {311, 508},
	ButtonDPadRight: {354, 550},
	ButtonDPadDown:  {311, 588},
	ButtonDPadLeft:  {266, 550},
	ButtonCreate:    {385, 444},
	ButtonOptions:   {827, 444},
	ButtonPS:        {604, 669},
	ButtonTouchpad:  {605, 477},
	ButtonL3:        {452, 688},
	ButtonR3:        {755, 688},
}

// Valid reports whether b is one of the enumerated buttons.
func (b Button) Valid() bool {
	return int(b) < ButtonCount
}

func (b Button) String() string {
	if !b.Valid() {
		return "Unknown"
	}
	return buttonNames[b]
}

// Position returns the button's logical position.
func (b Button) Position() Position {
	if !b.Valid() {
		return Position{}
	}
	return buttonPositions[b]
}

// Buttons returns all buttons in enumeration order.
func Buttons() []Button {
	out := make([]Button, ButtonCount)
	for i := range out {
		out[i] = Button(i)
	}
	return out
}

// Stick identifies an analog stick.
type Stick uint8

const (
	StickLeft Stick = iota
	StickRight

	StickCount = int(StickRight) + 1
)

func (s Stick) String() string {
	switch s {
	case StickLeft:
		return "Left Stick"
	case StickRight:
		return "Right Stick"
	default:
		return "Unknown Stick"
	}
}

// Origin is the logical centre the stick's vector is drawn from. It matches the
// position of the stick's click button.
func (s Stick) Origin() Position {
	switch s {
	case StickLeft:
		return ButtonL3.Position()
	case StickRight:
		return ButtonR3.Position()
	default:
		return Position{}
	}
}

// Axis selects a stick axis.
type Axis uint8

const (
	AxisX Axis = 1 << iota
	AxisY

	AxisBoth = AxisX | AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisBoth:
		return "xy"
	default:
		return "none"
	}
}
