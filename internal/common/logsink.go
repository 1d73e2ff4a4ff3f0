package common

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// LogSink is the user-facing run log: an append-only sequence of text
// lines. The pipeline never assumes a rendering surface (console, GUI
// text box, file); it only requires "append line".
type LogSink interface {
	Append(line string)
}

// WriterSink appends timestamped lines to an io.Writer.
type WriterSink struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w, now: time.Now}
}

func (s *WriterSink) Append(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.w, "[%s] %s\n", s.now().Format("15:04:05"), line)
}
