package view

import (
	"math"

	"github.com/Alia5/padscope/internal/canvas"
	"github.com/Alia5/padscope/pad"
)

// StickSample is the current position of one stick and the position it was
// last drawn at.
type StickSample struct {
	X, Y         float64
	PrevX, PrevY float64
}

// Active reports whether the current position lies outside the dead zone on
// either axis.
func (s StickSample) Active(deadZone float64) bool {
	return math.Abs(s.X) > deadZone || math.Abs(s.Y) > deadZone
}

// moved reports whether the sample changed by at least eps on either axis
// since it was last drawn.
func (s StickSample) moved(eps float64) bool {
	return math.Abs(s.X-s.PrevX) >= eps || math.Abs(s.Y-s.PrevY) >= eps
}

// arrow is the pair of live primitives that make up one stick vector.
type arrow struct {
	shaft, head canvas.Handle
}

// State is the render state. It is owned by the dispatch goroutine.
type State struct {
	Buttons [pad.ButtonCount]bool
	Sticks  [pad.StickCount]StickSample

	// nil means the stick has no arrow on screen.
	arrows [pad.StickCount]*arrow
}

// Pressed returns the held buttons in enumeration order.
func (s *State) Pressed() []pad.Button {
	var out []pad.Button
	for i, down := range s.Buttons {
		if down {
			out = append(out, pad.Button(i))
		}
	}
	return out
}

// Arrow returns the live primitive handles for a stick's vector.
func (s *State) Arrow(st pad.Stick) (shaft, head canvas.Handle, ok bool) {
	if int(st) >= pad.StickCount || s.arrows[st] == nil {
		return 0, 0, false
	}
	a := s.arrows[st]
	return a.shaft, a.head, true
}
