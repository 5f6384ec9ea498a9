// Package window shows the view in a desktop window driven by ebiten. Update
// ticks the dispatch loop, so every view mutation stays on ebiten's game
// thread.
package window

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/Alia5/padscope/internal/canvas"
	"github.com/Alia5/padscope/internal/dispatch"
	"github.com/Alia5/padscope/internal/view"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	// TicksPerSecond matches the dispatch loop's 10ms drain interval.
	TicksPerSecond = 100

	headerHeight = 72
	footerHeight = 40
	padding      = 8
)

// Options configure the window.
type Options struct {
	Title     string
	Width     int
	Height    int
	MinWidth  int
	MinHeight int
}

// Window is an ebiten.Game.
type Window struct {
	ctx    context.Context
	loop   *dispatch.Loop
	view   *view.View
	canvas *canvas.Canvas
	logger *slog.Logger

	title, status *text.GoTextFace

	frame  *image.RGBA
	image  *ebiten.Image
	dirty  bool
	width  int
	height int
}

// New creates a window around an already wired loop, view and canvas.
func New(ctx context.Context, loop *dispatch.Loop, v *view.View, c *canvas.Canvas, logger *slog.Logger) (*Window, error) {
	if logger == nil {
		logger = slog.Default()
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &Window{
		ctx:    ctx,
		loop:   loop,
		view:   v,
		canvas: c,
		logger: logger,
		title:  &text.GoTextFace{Source: src, Size: 20},
		status: &text.GoTextFace{Source: src, Size: 15},
		dirty:  true,
	}, nil
}

// Run opens the window and blocks until it is closed or ctx is done.
func (w *Window) Run(o Options) error {
	if o.Title == "" {
		o.Title = "padscope"
	}
	ebiten.SetWindowTitle(o.Title)
	ebiten.SetWindowSize(max(o.Width, o.MinWidth), max(o.Height, o.MinHeight)+headerHeight+footerHeight)
	ebiten.SetWindowSizeLimits(o.MinWidth, o.MinHeight+headerHeight+footerHeight, -1, -1)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(TicksPerSecond)
	return ebiten.RunGame(w)
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}
	if n := w.loop.Tick(); n > 0 {
		w.dirty = true
	}
	return nil
}

// Layout implements ebiten.Game. The canvas gets whatever the labels leave.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	cw, ch := outsideWidth, max(outsideHeight-headerHeight-footerHeight, 1)
	if w.canvas.Resize(cw, ch) {
		w.logger.Debug("window resized", "width", outsideWidth, "height", outsideHeight)
		w.dirty = true
	}
	w.width, w.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(color.White)
	w.renderCanvas()
	if w.image != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(0, headerHeight)
		screen.DrawImage(w.image, op)
	}

	in := w.view.Indicators
	w.label(screen, in.Status, w.title, float64(w.width)/2, padding, text.AlignCenter)
	w.label(screen, in.Battery, w.status, float64(w.width)/2-padding, 40, text.AlignEnd)
	w.label(screen, in.Connection, w.status, float64(w.width)/2+padding, 40, text.AlignStart)
	w.label(screen, in.Input, w.status, float64(w.width)/2, float64(w.height-footerHeight+padding), text.AlignCenter)
}

func (w *Window) renderCanvas() {
	cw, ch := w.canvas.Size()
	if cw <= 0 || ch <= 0 {
		return
	}
	if w.frame == nil || w.frame.Bounds().Dx() != cw || w.frame.Bounds().Dy() != ch {
		w.frame = image.NewRGBA(image.Rect(0, 0, cw, ch))
		if w.image != nil {
			w.image.Deallocate()
		}
		w.image = ebiten.NewImage(cw, ch)
		w.dirty = true
	}
	if !w.dirty {
		return
	}
	w.canvas.Render(w.frame)
	w.image.WritePixels(w.frame.Pix)
	w.dirty = false
}

func (w *Window) label(dst *ebiten.Image, l view.Label, face *text.GoTextFace, x, y float64, align text.Align) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(l.Color)
	op.PrimaryAlign = align
	text.Draw(dst, l.Text, face, op)
}
