package output

import (
	"io"

	"github.com/thirukguru/designer-wrapper/model"
	jsonoutput "github.com/thirukguru/designer-wrapper/shared/json_output"
	"github.com/thirukguru/designer-wrapper/shared/spinner"
	steptable "github.com/thirukguru/designer-wrapper/shared/step_table"
)

// Format represents the output format type
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Renderer defines the interface for drawing the run summary
type Renderer interface {
	DrawStepTable(w io.Writer, summary model.RunSummary)
	OutputRunJSON(w io.Writer, summary model.RunSummary) error
	StopSpinner()
}

type realRenderer struct{}

func (r *realRenderer) DrawStepTable(w io.Writer, summary model.RunSummary) {
	steptable.DrawStepTable(w, summary)
}

func (r *realRenderer) OutputRunJSON(w io.Writer, summary model.RunSummary) error {
	return jsonoutput.OutputRunJSON(w, summary)
}

func (r *realRenderer) StopSpinner() {
	spinner.StopSpinner()
}

// service is the internal implementation
type service struct {
	format   Format
	out      io.Writer
	renderer Renderer
}

// Service defines the interface for output operations
type Service interface {
	RenderSummary(summary model.RunSummary) error
	StopSpinner()
}
