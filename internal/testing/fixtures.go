// Package testing holds fixtures shared by package tests.
package testing

import (
	"image"
	"image/color"
	"testing"

	"github.com/Alia5/padscope/internal/canvas"
	"github.com/Alia5/padscope/internal/view"
	"github.com/stretchr/testify/require"
)

// Grey is the fill colour of Reference images.
var Grey = color.RGBA{0x40, 0x40, 0x40, 0xff}

// Reference returns a uniformly grey w×h reference image.
func Reference(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = Grey.R, Grey.G, Grey.B, Grey.A
	}
	return img
}

// NewView wires a view to a fresh canvas with a 1200×1200 reference image and
// resizes the canvas to w×h. Resize failures fail the test.
func NewView(t *testing.T, w, h int) (*view.View, *canvas.Canvas) {
	t.Helper()
	c := canvas.New(0, 0, color.White)
	store := view.NewStore(Reference(1200, 1200), 800, 500)
	v := view.New(store, c, view.DefaultConfig(), nil)
	c.OnResize(func(w, h int) { require.NoError(t, v.Resize(w, h)) })
	c.Resize(w, h)
	return v, c
}
