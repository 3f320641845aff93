// Package litert runs LiteRT (TFLite flatbuffer) models.
package litert

import (
	"fmt"
	"log"
	"unsafe"

	"github.com/mattn/go-tflite"

	"github.com/Brownie44l1/litert-classify/internal/model"
)

const numThreads = 4

func init() {
	model.Register(engine{})
}

type engine struct{}

func (engine) Name() string { return "litert" }

func (engine) Extensions() []string { return []string{".tflite", ".litert"} }

func (engine) Load(path string) (model.Model, error) {
	flatbuffer := tflite.NewModelFromFile(path)
	if flatbuffer == nil {
		return nil, fmt.Errorf("failed to load model %s: not a readable flatbuffer", path)
	}
	options := tflite.NewInterpreterOptions()
	options.SetNumThread(numThreads)
	options.SetErrorReporter(func(msg string, userData interface{}) {
		log.Printf("litert: %s", msg)
	}, nil)
	interp := tflite.NewInterpreter(flatbuffer, options)
	if interp == nil {
		options.Delete()
		flatbuffer.Delete()
		return nil, fmt.Errorf("failed to create interpreter for %s", path)
	}
	if status := interp.AllocateTensors(); status != tflite.OK {
		interp.Delete()
		options.Delete()
		flatbuffer.Delete()
		return nil, fmt.Errorf("failed to allocate tensors for %s", path)
	}
	return &compiledModel{flatbuffer: flatbuffer, options: options, interp: interp}, nil
}

type compiledModel struct {
	flatbuffer *tflite.Model
	options    *tflite.InterpreterOptions
	interp     *tflite.Interpreter
}

func (c *compiledModel) InputRequirements(slot, signature int) (model.BufferRequirements, error) {
	if signature != 0 {
		return nil, fmt.Errorf("signature %d out of range: only the default signature is exposed", signature)
	}
	if slot < 0 || slot >= c.interp.GetInputTensorCount() {
		return nil, fmt.Errorf("input slot %d out of range (model has %d inputs)", slot, c.interp.GetInputTensorCount())
	}
	return tensorRequirements(c.interp.GetInputTensor(slot)), nil
}

func (c *compiledModel) OutputRequirements(slot, signature int) (model.BufferRequirements, error) {
	if signature != 0 {
		return nil, fmt.Errorf("signature %d out of range: only the default signature is exposed", signature)
	}
	if slot < 0 || slot >= c.interp.GetOutputTensorCount() {
		return nil, fmt.Errorf("output slot %d out of range (model has %d outputs)", slot, c.interp.GetOutputTensorCount())
	}
	return tensorRequirements(c.interp.GetOutputTensor(slot)), nil
}

func tensorRequirements(t *tflite.Tensor) model.BufferRequirements {
	dims := make([]int64, t.NumDims())
	for i := range dims {
		dims[i] = int64(t.Dim(i))
	}
	return model.BufferRequirements{
		model.KeyDimensions:     dims,
		model.KeySupportedTypes: []int{int(t.Type())},
		model.KeyBufferSize:     int(t.ByteSize()),
	}
}

func (c *compiledModel) WriteInput(slot int, data []float32) error {
	if slot < 0 || slot >= c.interp.GetInputTensorCount() {
		return fmt.Errorf("input slot %d out of range (model has %d inputs)", slot, c.interp.GetInputTensorCount())
	}
	t := c.interp.GetInputTensor(slot)
	if t.Type() != tflite.Float32 {
		return fmt.Errorf("input tensor is %s, only float32 inputs can be written", model.ElementType(t.Type()))
	}
	if want := int(t.ByteSize()) / 4; len(data) != want {
		return fmt.Errorf("input has %d elements, tensor expects %d", len(data), want)
	}
	if status := t.CopyFromBuffer(data); status != tflite.OK {
		return fmt.Errorf("failed to copy %d elements into input %d", len(data), slot)
	}
	return nil
}

func (c *compiledModel) Invoke() error {
	if status := c.interp.Invoke(); status != tflite.OK {
		return fmt.Errorf("inference failed with status %d", int(status))
	}
	return nil
}

func (c *compiledModel) ReadOutput(slot int) ([]byte, error) {
	if slot < 0 || slot >= c.interp.GetOutputTensorCount() {
		return nil, fmt.Errorf("output slot %d out of range (model has %d outputs)", slot, c.interp.GetOutputTensorCount())
	}
	t := c.interp.GetOutputTensor(slot)
	n := int(t.ByteSize())
	raw := make([]byte, n)
	if n > 0 {
		copy(raw, unsafe.Slice((*byte)(t.Data()), n))
	}
	return raw, nil
}

func (c *compiledModel) Close() error {
	if c.interp != nil {
		c.interp.Delete()
		c.interp = nil
	}
	if c.options != nil {
		c.options.Delete()
		c.options = nil
	}
	if c.flatbuffer != nil {
		c.flatbuffer.Delete()
		c.flatbuffer = nil
	}
	return nil
}
