// Package termview prints the view's labels as a single status line.
package termview

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/Alia5/padscope/internal/view"
	"golang.org/x/term"
)

// StatusLine rewrites one terminal line in place. On anything that is not a
// terminal it appends a plain line whenever the text changes.
type StatusLine struct {
	w     io.Writer
	fd    int
	tty   bool
	color bool
	last  string
}

// New writes to f, detecting whether it is a terminal.
func New(f *os.File, useColor bool) *StatusLine {
	fd := int(f.Fd())
	tty := term.IsTerminal(fd)
	return &StatusLine{w: f, fd: fd, tty: tty, color: tty && useColor}
}

// NewWriter writes plain lines to w.
func NewWriter(w io.Writer) *StatusLine {
	return &StatusLine{w: w, fd: -1}
}

// Line formats the indicators without any escape sequences.
func Line(in view.Indicators) string {
	return strings.Join([]string{in.Status.Text, in.Battery.Text, in.Connection.Text, in.Input.Text}, " | ")
}

// Render prints the current indicators.
func (s *StatusLine) Render(in view.Indicators) error {
	plain := Line(in)
	if plain == s.last {
		return nil
	}
	s.last = plain

	if !s.tty {
		_, err := fmt.Fprintln(s.w, plain)
		return err
	}

	line := plain
	fits := true
	if w, _, err := term.GetSize(s.fd); err == nil && w > 1 && utf8.RuneCountInString(line) > w-1 {
		line = truncate(line, w-1)
		fits = false
	}
	if s.color && fits {
		parts := make([]string, 0, 4)
		for _, l := range []view.Label{in.Status, in.Battery, in.Connection, in.Input} {
			parts = append(parts, fg(l.Color)+l.Text+"\x1b[0m")
		}
		line = strings.Join(parts, " | ")
	}
	_, err := io.WriteString(s.w, "\r\x1b[K"+line)
	return err
}

// Close ends the status line.
func (s *StatusLine) Close() error {
	if !s.tty {
		return nil
	}
	_, err := io.WriteString(s.w, "\n")
	return err
}

func fg(c color.RGBA) string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
