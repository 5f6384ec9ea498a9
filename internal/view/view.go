// Package view turns controller render state into pixels: it scales the
// reference image, composites pressed-button markers, draws stick vectors and
// derives the status labels.
package view

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/padscope/pad"
)

// View bundles the render state with everything that draws it. All methods
// must be called from the rendering goroutine.
type View struct {
	State      State
	Indicators Indicators

	cfg        Config
	store      *Store
	surface    Surface
	mapper     Mapper
	compositor *Compositor
	sticks     *StickRenderer
	logger     *slog.Logger
}

// New creates a view. Nothing is drawn until the first successful Resize.
func New(store *Store, surface Surface, cfg Config, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	return &View{
		Indicators: NewIndicators(),
		cfg:        cfg,
		store:      store,
		surface:    surface,
		compositor: NewCompositor(store, surface, cfg),
		sticks:     NewStickRenderer(surface, cfg),
		logger:     logger,
	}
}

// Config returns the view's drawing configuration.
func (v *View) Config() Config { return v.cfg }

// Resize rescales the base image for a new canvas size and redraws everything
// at the new mapping.
func (v *View) Resize(width, height int) error {
	if err := v.store.Resize(width, height); err != nil {
		return err
	}
	v.mapper = NewMapper(v.store.Scaled().Bounds().Size(), width, height)
	v.logger.Debug("canvas resized", "canvas", [2]int{width, height}, "image", v.store.Scaled().Bounds().Size())

	err := v.compositor.Rebuild(&v.State, v.mapper)
	for i := range v.State.Sticks {
		if serr := v.sticks.Draw(&v.State, pad.Stick(i), v.mapper); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}

// SetButton records a button transition and recomposites the frame.
func (v *View) SetButton(b pad.Button, pressed bool) error {
	if !b.Valid() {
		return fmt.Errorf("%w: button %d", ErrUnknownInput, b)
	}
	v.State.Buttons[b] = pressed
	err := v.compositor.Rebuild(&v.State, v.mapper)
	v.refreshInput()
	return err
}

// MoveStick records new axis values and redraws the stick's vector if it moved
// enough. Only the axes selected by axes are updated.
func (v *View) MoveStick(s pad.Stick, axes pad.Axis, x, y float64) (bool, error) {
	if int(s) >= pad.StickCount {
		return false, fmt.Errorf("%w: stick %d", ErrUnknownInput, s)
	}
	sample := &v.State.Sticks[s]
	if axes&pad.AxisX != 0 {
		sample.X = x
	}
	if axes&pad.AxisY != 0 {
		sample.Y = y
	}
	redrawn, err := v.sticks.Update(&v.State, s, v.mapper)
	v.refreshInput()
	return redrawn, err
}

func (v *View) refreshInput() {
	v.Indicators.Input.Text = StatusText(&v.State, v.cfg.DeadZone)
}
