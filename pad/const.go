package pad

import "strings"

const (
	// InputStateSize is the fixed size of one InputState wire frame.
	InputStateSize = 16

	offLX         = 0
	offLY         = 1
	offRX         = 2
	offRY         = 3
	offButtons    = 4
	offBattery    = 8
	offFlags      = 9
	offConnection = 10
)

const (
	FlagCharging uint8 = 0x01
	FlagFull     uint8 = 0x02
)

// Connection is the transport a controller is attached over.
type Connection uint8

const (
	ConnectionUnknown Connection = iota
	ConnectionUSB
	ConnectionBluetooth
)

func (c Connection) String() string {
	switch c {
	case ConnectionUSB:
		return "USB"
	case ConnectionBluetooth:
		return "Bluetooth"
	default:
		return "Unknown"
	}
}

// ParseConnection maps "usb" / "bluetooth" (any case) to a Connection.
func ParseConnection(s string) Connection {
	switch strings.ToLower(s) {
	case "usb":
		return ConnectionUSB
	case "bluetooth", "bt":
		return ConnectionBluetooth
	default:
		return ConnectionUnknown
	}
}
