package view

import (
	"fmt"
	"strings"

	"github.com/Alia5/padscope/pad"
)

// NoInputs is shown when no button is held and every stick is centred.
const NoInputs = "No inputs active"

// StatusText summarises the held buttons and deflected sticks.
func StatusText(st *State, deadZone float64) string {
	var items []string
	for _, b := range st.Pressed() {
		items = append(items, b.String())
	}
	for i, s := range st.Sticks {
		if s.Active(deadZone) {
			items = append(items, fmt.Sprintf("%s (x: %.2f, y: %.2f)", pad.Stick(i), s.X, s.Y))
		}
	}
	if len(items) == 0 {
		return NoInputs
	}
	return "Active Inputs: " + strings.Join(items, " | ")
}
