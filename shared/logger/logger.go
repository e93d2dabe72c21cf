// Package logger builds the timestamped stdout logger used by every step.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"
)

// TimeLayout is the timestamp prefix of every log line.
const TimeLayout = "2006-01-02 15:04:05"

// New returns a logger writing "<timestamp>: <message>" lines to w.
// Debug lines are only emitted when verbose is set.
func New(w io.Writer, verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&LineFormatter{})
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	return New(io.Discard, false)
}

// LineFormatter renders entries as plain timestamped lines. Fields, if any,
// are appended as key=value pairs in key order.
type LineFormatter struct{}

// Format implements logrus.Formatter.
func (f *LineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(e.Time.Format(TimeLayout))
	b.WriteString(": ")
	b.WriteString(e.Message)

	if len(e.Data) > 0 {
		keys := make([]string, 0, len(e.Data))
		for k := range e.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
		}
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}
