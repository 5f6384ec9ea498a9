package view

import "image/color"

// Config tunes how indicators are drawn. Lengths are in reference units and
// are multiplied by Mapper.Unit.
type Config struct {
	MarkerColor color.RGBA
	ArrowColor  color.RGBA

	MarkerRadius    float64
	ArrowLength     float64
	ArrowHeadLength float64
	ShaftWidth      float64

	// DeadZone is the per-axis magnitude at or below which no vector is drawn.
	DeadZone float64
	// Epsilon is the per-axis change below which a stick update is not redrawn.
	Epsilon float64

	MinWidth, MinHeight int
}

// DefaultConfig returns the stock look.
func DefaultConfig() Config {
	return Config{
		MarkerColor:     color.RGBA{255, 0, 0, 255},
		ArrowColor:      color.RGBA{255, 0, 0, 255},
		MarkerRadius:    10,
		ArrowLength:     30,
		ArrowHeadLength: 10,
		ShaftWidth:      4,
		DeadZone:        0.1,
		Epsilon:         0.01,
		MinWidth:        800,
		MinHeight:       500,
	}
}
