package sdlpad

import (
	"github.com/Alia5/padscope/pad"
	"github.com/Zyko0/go-sdl3/sdl"
)

// TriggerThreshold is the analog trigger reading above which L2/R2 count as
// pressed.
const TriggerThreshold int16 = 8000

var buttonMap = []struct {
	sdl sdl.GamepadButton
	pad pad.Button
}{
	{sdl.GAMEPAD_BUTTON_SOUTH, pad.ButtonCross},
	{sdl.GAMEPAD_BUTTON_EAST, pad.ButtonCircle},
	{sdl.GAMEPAD_BUTTON_WEST, pad.ButtonSquare},
	{sdl.GAMEPAD_BUTTON_NORTH, pad.ButtonTriangle},
	{sdl.GAMEPAD_BUTTON_LEFT_SHOULDER, pad.ButtonL1},
	{sdl.GAMEPAD_BUTTON_RIGHT_SHOULDER, pad.ButtonR1},
	{sdl.GAMEPAD_BUTTON_LEFT_STICK, pad.ButtonL3},
	{sdl.GAMEPAD_BUTTON_RIGHT_STICK, pad.ButtonR3},
	{sdl.GAMEPAD_BUTTON_BACK, pad.ButtonCreate},
	{sdl.GAMEPAD_BUTTON_START, pad.ButtonOptions},
	{sdl.GAMEPAD_BUTTON_GUIDE, pad.ButtonPS},
	{sdl.GAMEPAD_BUTTON_TOUCHPAD, pad.ButtonTouchpad},
	{sdl.GAMEPAD_BUTTON_DPAD_UP, pad.ButtonDPadUp},
	{sdl.GAMEPAD_BUTTON_DPAD_RIGHT, pad.ButtonDPadRight},
	{sdl.GAMEPAD_BUTTON_DPAD_DOWN, pad.ButtonDPadDown},
	{sdl.GAMEPAD_BUTTON_DPAD_LEFT, pad.ButtonDPadLeft},
}

// reader is the part of *sdl.Gamepad the mapping needs.
type reader interface {
	Button(button sdl.GamepadButton) bool
	Axis(axis sdl.GamepadAxis) int16
}

// readState samples a gamepad into the wire snapshot. SDL reports +Y down,
// which is also the snapshot convention.
func readState(r reader, conn pad.Connection) pad.InputState {
	s := pad.InputState{Connection: conn}
	for _, m := range buttonMap {
		if r.Button(m.sdl) {
			s.SetPressed(m.pad, true)
		}
	}
	s.SetPressed(pad.ButtonL2, r.Axis(sdl.GAMEPAD_AXIS_LEFT_TRIGGER) > TriggerThreshold)
	s.SetPressed(pad.ButtonR2, r.Axis(sdl.GAMEPAD_AXIS_RIGHT_TRIGGER) > TriggerThreshold)

	s.SetStick(pad.StickLeft,
		pad.NormalizeAxis16(r.Axis(sdl.GAMEPAD_AXIS_LEFTX)),
		pad.NormalizeAxis16(r.Axis(sdl.GAMEPAD_AXIS_LEFTY)))
	s.SetStick(pad.StickRight,
		pad.NormalizeAxis16(r.Axis(sdl.GAMEPAD_AXIS_RIGHTX)),
		pad.NormalizeAxis16(r.Axis(sdl.GAMEPAD_AXIS_RIGHTY)))
	return s
}
