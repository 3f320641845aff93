// Package onnx runs ONNX models through onnxruntime.
package onnx

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/Brownie44l1/litert-classify/internal/model"
)

func init() {
	model.Register(engine{})
}

type engine struct{}

func (engine) Name() string { return "onnxruntime" }

func (engine) Extensions() []string { return []string{".onnx"} }

var (
	initOnce sync.Once
	initErr  error
)

// initEnvironment brings the process-wide onnxruntime environment up once.
// It stays up for the process lifetime; tearing it down per model would
// pull the runtime out from under any other open session.
func initEnvironment() error {
	initOnce.Do(func() {
		if !ort.IsInitialized() {
			initErr = ort.InitializeEnvironment()
		}
	})
	return initErr
}

func (engine) Load(path string) (model.Model, error) {
	if err := initEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}
	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model metadata: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("model %s declares no inputs or outputs", path)
	}
	inputNames := make([]string, len(inputs))
	for i, info := range inputs {
		inputNames[i] = info.Name
	}
	outputNames := make([]string, len(outputs))
	for i, info := range outputs {
		outputNames[i] = info.Name
	}
	session, err := ort.NewDynamicAdvancedSession(path, inputNames, outputNames, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}
	return &compiledModel{
		session: session,
		inputs:  inputs,
		outputs: outputs,
		pending: make([][]float32, len(inputs)),
		results: make([]ort.Value, len(outputs)),
	}, nil
}

type compiledModel struct {
	session *ort.DynamicAdvancedSession
	inputs  []ort.InputOutputInfo
	outputs []ort.InputOutputInfo
	// pending holds written input tensors until Invoke materializes them.
	pending [][]float32
	results []ort.Value
}

func (c *compiledModel) InputRequirements(slot, signature int) (model.BufferRequirements, error) {
	if signature != 0 {
		return nil, fmt.Errorf("signature %d out of range: ONNX models expose a single graph", signature)
	}
	if slot < 0 || slot >= len(c.inputs) {
		return nil, fmt.Errorf("input slot %d out of range (model has %d inputs)", slot, len(c.inputs))
	}
	return infoRequirements(c.inputs[slot]), nil
}

func (c *compiledModel) OutputRequirements(slot, signature int) (model.BufferRequirements, error) {
	if signature != 0 {
		return nil, fmt.Errorf("signature %d out of range: ONNX models expose a single graph", signature)
	}
	if slot < 0 || slot >= len(c.outputs) {
		return nil, fmt.Errorf("output slot %d out of range (model has %d outputs)", slot, len(c.outputs))
	}
	return infoRequirements(c.outputs[slot]), nil
}

func infoRequirements(info ort.InputOutputInfo) model.BufferRequirements {
	dims := make([]int64, len(info.Dimensions))
	copy(dims, info.Dimensions)
	elem := elementType(info.DataType)
	return model.BufferRequirements{
		model.KeyDimensions:     dims,
		model.KeySupportedTypes: []int{int(elem)},
		model.KeyBufferSize:     elementCount(dims) * elem.ByteWidth(),
	}
}

// elementCount treats non-positive dims as 1, so dynamic batch axes still
// yield the size of the single-image run this harness performs.
func elementCount(dims []int64) int {
	count := 1
	for _, d := range dims {
		if d > 0 {
			count *= int(d)
		}
	}
	return count
}

func elementType(t ort.TensorElementDataType) model.ElementType {
	switch t {
	case ort.TensorElementDataTypeFloat:
		return model.ElementFloat32
	case ort.TensorElementDataTypeDouble:
		return model.ElementFloat64
	case ort.TensorElementDataTypeUint8:
		return model.ElementUInt8
	case ort.TensorElementDataTypeInt8:
		return model.ElementInt8
	case ort.TensorElementDataTypeInt16:
		return model.ElementInt16
	case ort.TensorElementDataTypeInt32:
		return model.ElementInt32
	case ort.TensorElementDataTypeInt64:
		return model.ElementInt64
	case ort.TensorElementDataTypeBool:
		return model.ElementBool
	default:
		return model.ElementNone
	}
}

func (c *compiledModel) WriteInput(slot int, data []float32) error {
	if slot < 0 || slot >= len(c.inputs) {
		return fmt.Errorf("input slot %d out of range (model has %d inputs)", slot, len(c.inputs))
	}
	c.pending[slot] = append([]float32(nil), data...)
	return nil
}

func (c *compiledModel) Invoke() error {
	values := make([]ort.Value, len(c.inputs))
	defer func() {
		for _, v := range values {
			if v != nil {
				v.Destroy()
			}
		}
	}()
	for i, info := range c.inputs {
		data := c.pending[i]
		if data == nil {
			return fmt.Errorf("input %d (%s) was not written before invoke", i, info.Name)
		}
		shape := inputShape(info, len(data))
		if n := elementCount(shape); n != len(data) {
			return fmt.Errorf("input %d has %d elements, model expects %d", i, len(data), n)
		}
		tensor, err := ort.NewTensor(ort.NewShape(shape...), data)
		if err != nil {
			return fmt.Errorf("failed to create input tensor %d: %w", i, err)
		}
		values[i] = tensor
	}
	c.releaseResults()
	outputs := make([]ort.Value, len(c.outputs))
	if err := c.session.Run(values, outputs); err != nil {
		return fmt.Errorf("inference failed: %w", err)
	}
	c.results = outputs
	return nil
}

// inputShape resolves declared dimensions into a concrete tensor shape:
// dynamic axes become 1, and inputs with no declared rank get a flat
// (1, n) layout.
func inputShape(info ort.InputOutputInfo, n int) []int64 {
	if len(info.Dimensions) == 0 {
		return []int64{1, int64(n)}
	}
	shape := make([]int64, len(info.Dimensions))
	for i, d := range info.Dimensions {
		if d <= 0 {
			d = 1
		}
		shape[i] = d
	}
	return shape
}

func (c *compiledModel) ReadOutput(slot int) ([]byte, error) {
	if slot < 0 || slot >= len(c.results) {
		return nil, fmt.Errorf("output slot %d out of range (model has %d outputs)", slot, len(c.outputs))
	}
	value := c.results[slot]
	if value == nil {
		return nil, fmt.Errorf("output %d is not available: inference has not run", slot)
	}
	switch t := value.(type) {
	case *ort.Tensor[float32]:
		return encodeFloat32(t.GetData()), nil
	case *ort.Tensor[uint8]:
		return append([]byte(nil), t.GetData()...), nil
	case *ort.Tensor[int8]:
		return encodeInt8(t.GetData()), nil
	case *ort.Tensor[int32]:
		return encodeInt32(t.GetData()), nil
	case *ort.Tensor[int64]:
		return encodeInt64(t.GetData()), nil
	case *ort.Tensor[float64]:
		return encodeFloat64(t.GetData()), nil
	default:
		return nil, fmt.Errorf("output %d has unsupported tensor type %T", slot, value)
	}
}

func (c *compiledModel) releaseResults() {
	for i, v := range c.results {
		if v != nil {
			v.Destroy()
			c.results[i] = nil
		}
	}
}

func (c *compiledModel) Close() error {
	c.releaseResults()
	if c.session != nil {
		if err := c.session.Destroy(); err != nil {
			return fmt.Errorf("failed to destroy session: %w", err)
		}
		c.session = nil
	}
	return nil
}

func encodeFloat32(values []float32) []byte {
	raw := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(v))
	}
	return raw
}

func encodeInt8(values []int8) []byte {
	raw := make([]byte, len(values))
	for i, v := range values {
		raw[i] = byte(v)
	}
	return raw
}

func encodeInt32(values []int32) []byte {
	raw := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(raw[4*i:], uint32(v))
	}
	return raw
}

func encodeInt64(values []int64) []byte {
	raw := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(raw[8*i:], uint64(v))
	}
	return raw
}

func encodeFloat64(values []float64) []byte {
	raw := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(raw[8*i:], math.Float64bits(v))
	}
	return raw
}
