package pad

import (
	"encoding/binary"
	"io"
)

// InputState is a full snapshot of a controller. Drivers that poll hardware, and
// the network feed, produce InputStates and diff consecutive ones into
// per-button and per-axis callbacks.
//
// Stick axes use screen orientation: +X is right, +Y is down.
type InputState struct {
	LX, LY     int8
	RX, RY     int8
	Buttons    uint32 // bit n set means Button(n) is pressed
	Battery    uint8  // percent
	Flags      uint8
	Connection Connection
}

// Pressed reports whether b is held in this snapshot.
func (s *InputState) Pressed(b Button) bool {
	if !b.Valid() {
		return false
	}
	return s.Buttons&(1<<uint(b)) != 0
}

// SetPressed sets or clears b.
func (s *InputState) SetPressed(b Button, down bool) {
	if !b.Valid() {
		return
	}
	if down {
		s.Buttons |= 1 << uint(b)
	} else {
		s.Buttons &^= 1 << uint(b)
	}
}

// Stick returns the normalized position of a stick.
func (s *InputState) Stick(st Stick) (x, y float64) {
	switch st {
	case StickLeft:
		return RawToAxis(s.LX), RawToAxis(s.LY)
	case StickRight:
		return RawToAxis(s.RX), RawToAxis(s.RY)
	}
	return 0, 0
}

// SetStick stores a normalized stick position.
func (s *InputState) SetStick(st Stick, x, y float64) {
	switch st {
	case StickLeft:
		s.LX, s.LY = AxisToRaw(x), AxisToRaw(y)
	case StickRight:
		s.RX, s.RY = AxisToRaw(x), AxisToRaw(y)
	}
}

// BatteryInfo decodes the battery fields.
func (s *InputState) BatteryInfo() Battery {
	return Battery{
		Level:    int(s.Battery),
		Charging: s.Flags&FlagCharging != 0,
		Full:     s.Flags&FlagFull != 0,
	}
}

func (s *InputState) MarshalBinary() ([]byte, error) {
	b := make([]byte, InputStateSize)
	b[offLX] = uint8(s.LX)
	b[offLY] = uint8(s.LY)
	b[offRX] = uint8(s.RX)
	b[offRY] = uint8(s.RY)
	binary.LittleEndian.PutUint32(b[offButtons:offButtons+4], s.Buttons)
	b[offBattery] = s.Battery
	b[offFlags] = s.Flags
	b[offConnection] = uint8(s.Connection)
	return b, nil
}

func (s *InputState) UnmarshalBinary(data []byte) error {
	if len(data) < InputStateSize {
		return io.ErrUnexpectedEOF
	}
	s.LX = int8(data[offLX])
	s.LY = int8(data[offLY])
	s.RX = int8(data[offRX])
	s.RY = int8(data[offRY])
	s.Buttons = binary.LittleEndian.Uint32(data[offButtons : offButtons+4])
	s.Battery = data[offBattery]
	s.Flags = data[offFlags]
	s.Connection = Connection(data[offConnection])
	return nil
}
