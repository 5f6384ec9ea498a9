package view

import (
	"image"
	"math"

	"github.com/Alia5/padscope/internal/canvas"
	"github.com/Alia5/padscope/pad"
)

// Mapper converts logical reference-space positions into pixel positions for
// the current scaled image and canvas.
type Mapper struct {
	ScaleX, ScaleY float64
	// Offset is the top-left corner of the scaled image on the canvas. It is
	// snapped to whole pixels, where Canvas.Render places the bitmap, so an
	// odd-sized image sits half a pixel left of exact centre.
	Offset canvas.Point
	// Center is where the scaled image is centred on the canvas.
	Center image.Point
}

// NewMapper builds a mapper for a scaled image of the given size shown centred
// on a canvas of the given size.
func NewMapper(scaled image.Point, canvasW, canvasH int) Mapper {
	center := image.Pt(canvasW/2, canvasH/2)
	return Mapper{
		ScaleX: float64(scaled.X) / pad.ReferenceSize,
		ScaleY: float64(scaled.Y) / pad.ReferenceSize,
		Offset: canvas.Point{
			X: float64(center.X - scaled.X/2),
			Y: float64(center.Y - scaled.Y/2),
		},
		Center: center,
	}
}

// Valid reports whether the mapper describes a real image.
func (m Mapper) Valid() bool {
	return m.ScaleX > 0 && m.ScaleY > 0
}

// Unit is the factor applied to radii and lengths so they stay proportional
// under non-uniform stretch.
func (m Mapper) Unit() float64 {
	return math.Min(m.ScaleX, m.ScaleY)
}

// ImagePoint maps p into scaled-image pixel coordinates.
func (m Mapper) ImagePoint(p pad.Position) canvas.Point {
	return canvas.Point{X: p.X * m.ScaleX, Y: p.Y * m.ScaleY}
}

// CanvasPoint maps p into canvas device coordinates.
func (m Mapper) CanvasPoint(p pad.Position) canvas.Point {
	ip := m.ImagePoint(p)
	return canvas.Point{X: m.Offset.X + ip.X, Y: m.Offset.Y + ip.Y}
}

func finite(pts ...canvas.Point) bool {
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}
