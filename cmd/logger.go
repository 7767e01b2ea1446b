package cmd

import (
	"io"
	"log"
	"time"
)

// custom logger to allow for custom date/time format
// see https://stackoverflow.com/questions/26152993/go-logger-to-print-timestamp
type writer struct {
	io.Writer
	timeFormat string
}

func (w writer) Write(b []byte) (n int, err error) {
	return w.Writer.Write(append([]byte(time.Now().Format(w.timeFormat)), b...))
}

// newLogger returns a logger that prefixes lines with a timestamp and the
// given component, e.g. "2025-01-02T15:04:05.999Z [server] ...".
func newLogger(out io.Writer, component string) *log.Logger {
	return log.New(&writer{out, time.RFC3339Nano}, " ["+component+"] ", 0)
}
