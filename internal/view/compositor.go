package view

import (
	"github.com/Alia5/padscope/internal/canvas"
)

// Compositor regenerates the displayed bitmap from the scaled base image plus
// one marker per pressed button.
//
// Every rebuild starts from a fresh copy of the base, so markers never
// accumulate across scale changes. The finished image replaces the displayed
// one in a single SetBitmap call.
type Compositor struct {
	store   *Store
	surface Surface
	cfg     Config
}

func NewCompositor(store *Store, surface Surface, cfg Config) *Compositor {
	return &Compositor{store: store, surface: surface, cfg: cfg}
}

// Rebuild composites st onto a copy of the base and shows it. On error the
// surface is left untouched.
func (c *Compositor) Rebuild(st *State, m Mapper) error {
	working, err := c.store.Copy()
	if err != nil {
		return &RenderError{Op: "composite", Err: err}
	}
	if !m.Valid() {
		return &RenderError{Op: "composite", Err: ErrNoCanvas}
	}

	r := c.cfg.MarkerRadius * m.Unit()
	for _, b := range st.Pressed() {
		p := m.ImagePoint(b.Position())
		if !finite(p) {
			return &RenderError{Op: "composite", Err: errBadCoordinates}
		}
		canvas.FillCircle(working, p, r, c.cfg.MarkerColor)
	}

	c.surface.SetBitmap(working, m.Center)
	return nil
}
