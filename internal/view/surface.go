package view

import (
	"image"
	"image/color"

	"github.com/Alia5/padscope/internal/canvas"
)

// Surface is the drawing surface the view renders onto. canvas.Canvas
// implements it.
type Surface interface {
	Size() (width, height int)
	SetBitmap(img *image.RGBA, center image.Point)
	Line(from, to canvas.Point, width float64, c color.Color) canvas.Handle
	Polygon(pts []canvas.Point, c color.Color) canvas.Handle
	Ellipse(min, max canvas.Point, c color.Color) canvas.Handle
	Delete(h canvas.Handle) bool
}
