package view

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/Alia5/padscope/pad"
)

var (
	ColorText    = color.RGBA{0x20, 0x20, 0x20, 0xff}
	ColorGood    = color.RGBA{0x2e, 0xcc, 0x71, 0xff}
	ColorWarn    = color.RGBA{0xf1, 0xc4, 0x0f, 0xff}
	ColorBad     = color.RGBA{0xe7, 0x4c, 0x3c, 0xff}
	ColorInfo    = color.RGBA{0x34, 0x98, 0xdb, 0xff}
	ColorUnknown = color.RGBA{0x80, 0x80, 0x80, 0xff}
	ColorError   = color.RGBA{0xff, 0x00, 0x00, 0xff}
	ColorOK      = color.RGBA{0x00, 0x80, 0x00, 0xff}
)

// Label is a piece of coloured text.
type Label struct {
	Text  string
	Color color.RGBA
}

// Indicators are the presentation-only labels around the controller image.
type Indicators struct {
	Status     Label
	Battery    Label
	Connection Label
	Input      Label
}

// NewIndicators returns the labels shown before any controller is seen.
func NewIndicators() Indicators {
	return Indicators{
		Status:     Label{Text: "Controller Status", Color: ColorText},
		Battery:    Label{Text: "--", Color: ColorText},
		Connection: Label{Text: "--", Color: ColorText},
		Input:      Label{Text: NoInputs, Color: ColorText},
	}
}

// SetBattery formats a battery reading.
func (in *Indicators) SetBattery(b pad.Battery) {
	if b.Level < 0 || b.Level > 100 {
		in.Battery = Label{Text: "Unknown", Color: ColorUnknown}
		return
	}

	var c color.RGBA
	switch {
	case b.Charging, b.Level > 50:
		c = ColorGood
	case b.Level > 20:
		c = ColorWarn
	default:
		c = ColorBad
	}

	parts := []string{fmt.Sprintf("%d%%", b.Level)}
	if b.Charging {
		parts = append(parts, "⚡")
	}
	if b.Full {
		parts = append(parts, "(Full)")
	}
	in.Battery = Label{Text: strings.Join(parts, " "), Color: c}
}

// SetBatteryWarning flags the battery label.
func (in *Indicators) SetBatteryWarning() {
	in.Battery.Color = ColorBad
}

// SetConnection shows the transport.
func (in *Indicators) SetConnection(c pad.Connection) {
	switch c {
	case pad.ConnectionBluetooth:
		in.Connection = Label{Text: c.String(), Color: ColorInfo}
	case pad.ConnectionUSB:
		in.Connection = Label{Text: c.String(), Color: ColorGood}
	default:
		in.Connection = Label{Text: c.String(), Color: ColorUnknown}
	}
}

// SetStatus replaces the status line.
func (in *Indicators) SetStatus(text string, c color.RGBA) {
	in.Status = Label{Text: text, Color: c}
}

// SetError shows a fatal error.
func (in *Indicators) SetError(msg string) {
	in.Status = Label{Text: "Error: " + msg, Color: ColorError}
}
