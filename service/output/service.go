// Package output provides a service for rendering run summaries to the console.
package output

import (
	"io"
	"os"

	"github.com/thirukguru/designer-wrapper/model"
)

// NewService creates a new output service with the specified format.
// A nil writer means stdout.
func NewService(format string, out io.Writer) Service {
	return newService(format, out, &realRenderer{})
}

func newService(format string, out io.Writer, renderer Renderer) *service {
	f := FormatText
	if format == string(FormatJSON) {
		f = FormatJSON
	}
	if out == nil {
		out = os.Stdout
	}

	return &service{
		format:   f,
		out:      out,
		renderer: renderer,
	}
}

func (s *service) RenderSummary(summary model.RunSummary) error {
	s.renderer.StopSpinner()
	if s.format == FormatJSON {
		return s.renderer.OutputRunJSON(s.out, summary)
	}
	s.renderer.DrawStepTable(s.out, summary)
	return nil
}

func (s *service) StopSpinner() {
	s.renderer.StopSpinner()
}
