// Package classify wires the preprocessing, inference and reporting
// stages into one single-shot run.
package classify

import (
	"fmt"
	"image"
	"io"
	"log"

	"github.com/Brownie44l1/litert-classify/internal/labels"
	"github.com/Brownie44l1/litert-classify/internal/model"
	"github.com/Brownie44l1/litert-classify/internal/postprocess"
	"github.com/Brownie44l1/litert-classify/internal/preprocess"
)

// DefaultTopK is the number of ranked results reported when the caller
// does not ask for a specific count.
const DefaultTopK = 5

// Options configure one classification run.
type Options struct {
	// ModelName is the identifier matched against the preprocessing
	// family table, normally the model path or file name.
	ModelName string
	// ClassList is the path of the class identifier file. Optional.
	ClassList string
	// Metadata is the path of the identifier-to-name mapping. Optional.
	Metadata string
	// TopK is the number of ranked results to report.
	TopK int
}

// Pipeline runs the adaptive inference flow against one loaded model.
type Pipeline struct {
	model model.Model
	opts  Options
}

func New(m model.Model, opts Options) *Pipeline {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	return &Pipeline{model: m, opts: opts}
}

// Run classifies one image and writes the ranked report to w. The model's
// buffers belong to this run from the first input write until the last
// output read.
func (p *Pipeline) Run(img image.Image, w io.Writer) error {
	// Requirements that cannot be retrieved leave the shape inferrer on
	// its defaults; unknown metadata must not abort the run.
	inputReq, err := p.model.InputRequirements(0, 0)
	if err != nil {
		inputReq = nil
	}
	height, width := preprocess.InferInputSize(inputReq)
	cfg := preprocess.Select(p.opts.ModelName, height, width)

	tensor, err := preprocess.Transform(img, cfg)
	if err != nil {
		return fmt.Errorf("preprocessing failed: %w", err)
	}
	if err := p.model.WriteInput(0, tensor.Data); err != nil {
		return fmt.Errorf("failed to write input: %w", err)
	}
	if err := p.model.Invoke(); err != nil {
		return err
	}
	outputReq, err := p.model.OutputRequirements(0, 0)
	if err != nil {
		return fmt.Errorf("failed to read output requirements: %w", err)
	}
	raw, err := p.model.ReadOutput(0)
	if err != nil {
		return fmt.Errorf("failed to read output: %w", err)
	}
	scores, err := postprocess.Decode(raw, outputReq)
	if err != nil {
		return err
	}
	probs := postprocess.Softmax(scores)

	table, err := labels.Resolve(p.opts.ClassList, p.opts.Metadata, len(probs))
	if err != nil {
		return err
	}
	if table == nil {
		log.Printf("Warning: label file does not match output size %d. Falling back to class indices.", len(probs))
	}
	return labels.WriteTopK(w, probs, table, p.opts.TopK)
}
