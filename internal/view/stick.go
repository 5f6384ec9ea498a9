package view

import (
	"math"

	"github.com/Alia5/padscope/internal/canvas"
	"github.com/Alia5/padscope/pad"
)

// headAngle is the spread of each arrowhead side from the shaft.
const headAngle = math.Pi / 6

// StickRenderer draws one arrow per stick directly on the surface, on top of
// whatever bitmap is displayed.
type StickRenderer struct {
	surface Surface
	cfg     Config
}

func NewStickRenderer(surface Surface, cfg Config) *StickRenderer {
	return &StickRenderer{surface: surface, cfg: cfg}
}

// Update redraws the stick if its sample moved by at least the epsilon since it
// was last drawn. It reports whether a redraw happened. A stick that settled
// inside the dead zone loses its arrow even after a sub-epsilon step.
func (r *StickRenderer) Update(st *State, s pad.Stick, m Mapper) (bool, error) {
	sample := &st.Sticks[s]
	if !sample.moved(r.cfg.Epsilon) {
		if !sample.Active(r.cfg.DeadZone) {
			r.Retire(st, s)
		}
		return false, nil
	}
	sample.PrevX, sample.PrevY = sample.X, sample.Y
	return true, r.Draw(st, s, m)
}

// Draw replaces the stick's arrow with one for the current sample, or removes
// it when the sample is inside the dead zone. On error the previous arrow stays.
func (r *StickRenderer) Draw(st *State, s pad.Stick, m Mapper) error {
	sample := st.Sticks[s]
	if !sample.Active(r.cfg.DeadZone) {
		r.Retire(st, s)
		return nil
	}
	if !m.Valid() {
		return &RenderError{Op: "stick", Err: ErrNoCanvas}
	}

	unit := m.Unit()
	origin := m.CanvasPoint(s.Origin())
	length := r.cfg.ArrowLength * unit
	tip := canvas.Point{
		X: origin.X + sample.X*length,
		Y: origin.Y + sample.Y*length,
	}

	headLen := r.cfg.ArrowHeadLength * unit
	theta := math.Atan2(tip.Y-origin.Y, tip.X-origin.X)
	left := canvas.Point{
		X: tip.X - headLen*math.Cos(theta+headAngle),
		Y: tip.Y - headLen*math.Sin(theta+headAngle),
	}
	right := canvas.Point{
		X: tip.X - headLen*math.Cos(theta-headAngle),
		Y: tip.Y - headLen*math.Sin(theta-headAngle),
	}
	if !finite(origin, tip, left, right) {
		return &RenderError{Op: "stick", Err: errBadCoordinates}
	}

	r.Retire(st, s)
	st.arrows[s] = &arrow{
		shaft: r.surface.Line(origin, tip, r.cfg.ShaftWidth, r.cfg.ArrowColor),
		head:  r.surface.Polygon([]canvas.Point{tip, left, right}, r.cfg.ArrowColor),
	}
	return nil
}

// Retire deletes the stick's live arrow, if any.
func (r *StickRenderer) Retire(st *State, s pad.Stick) {
	a := st.arrows[s]
	if a == nil {
		return
	}
	r.surface.Delete(a.shaft)
	r.surface.Delete(a.head)
	st.arrows[s] = nil
}
