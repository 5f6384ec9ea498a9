package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger records raw feed frames.
type RawLogger interface {
	Frame(peer string, in bool, data []byte)
}

type rawLogger struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewRaw returns a RawLogger writing one hex-dump line per frame to w. A nil
// w yields a logger that drops everything.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w, now: time.Now}
}

func (r *rawLogger) Frame(peer string, in bool, data []byte) {
	if r.w == nil || len(data) == 0 {
		return
	}

	dir := "->"
	if in {
		dir = "<-"
	}

	var line bytes.Buffer
	fmt.Fprintf(&line, "%s %s %s %d bytes:", r.now().Format("2006/01/02 15:04:05.000"), dir, peer, len(data))
	const hexdigits = "0123456789abcdef"
	for _, b := range data {
		line.WriteByte(' ')
		line.WriteByte(hexdigits[b>>4])
		line.WriteByte(hexdigits[b&0x0f])
	}
	line.WriteByte('\n')

	r.mu.Lock()
	_, _ = r.w.Write(line.Bytes())
	r.mu.Unlock()
}
