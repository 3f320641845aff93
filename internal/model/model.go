// Package model defines the boundary between the classification pipeline
// and the inference runtimes that execute compiled models. The pipeline
// only ever talks to the Model interface, so tests can drive it with a
// fake runtime and real engines stay isolated in their own packages.
package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ElementType identifies the numeric element encoding of a tensor buffer.
// The values follow the LiteRT tensor-type enumeration so engines that
// speak it can pass type ids through without translation.
type ElementType int

const (
	ElementNone    ElementType = 0
	ElementFloat32 ElementType = 1
	ElementInt32   ElementType = 2
	ElementUInt8   ElementType = 3
	ElementInt64   ElementType = 4
	ElementString  ElementType = 5
	ElementBool    ElementType = 6
	ElementInt16   ElementType = 7
	ElementInt8    ElementType = 9
	ElementFloat16 ElementType = 10
	ElementFloat64 ElementType = 11
)

// ByteWidth returns the size of one element in bytes, or 0 when the type
// has no fixed width.
func (t ElementType) ByteWidth() int {
	switch t {
	case ElementFloat32, ElementInt32:
		return 4
	case ElementUInt8, ElementInt8, ElementBool:
		return 1
	case ElementInt16, ElementFloat16:
		return 2
	case ElementInt64, ElementFloat64:
		return 8
	default:
		return 0
	}
}

func (t ElementType) String() string {
	switch t {
	case ElementFloat32:
		return "float32"
	case ElementInt32:
		return "int32"
	case ElementUInt8:
		return "uint8"
	case ElementInt64:
		return "int64"
	case ElementString:
		return "string"
	case ElementBool:
		return "bool"
	case ElementInt16:
		return "int16"
	case ElementInt8:
		return "int8"
	case ElementFloat16:
		return "float16"
	case ElementFloat64:
		return "float64"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Model is one loaded, executable network. A model's buffers are owned by
// a single run at a time: write the inputs, invoke once, read the
// outputs. Implementations are not safe for concurrent use.
type Model interface {
	// InputRequirements reports the buffer layout the runtime expects
	// for an input slot of the given signature.
	InputRequirements(slot, signature int) (BufferRequirements, error)

	// OutputRequirements reports the buffer layout of an output slot.
	OutputRequirements(slot, signature int) (BufferRequirements, error)

	// WriteInput copies a float32 tensor into an input buffer.
	WriteInput(slot int, data []float32) error

	// Invoke runs one blocking inference pass over the bound buffers.
	Invoke() error

	// ReadOutput returns the raw bytes of an output buffer. Multi-byte
	// elements are little-endian; interpreting them is the decoder's job.
	ReadOutput(slot int) ([]byte, error)

	Close() error
}

// Engine loads models of one compiled format.
type Engine interface {
	Name() string
	// Extensions lists the lower-cased file extensions the engine claims.
	Extensions() []string
	Load(path string) (Model, error)
}

var engines []Engine

// Register adds an engine to the registry. Engine packages call it from
// init, the same way image formats self-register.
func Register(e Engine) {
	engines = append(engines, e)
}

// Open loads the model at path using the engine registered for its file
// extension.
func Open(path string) (Model, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range engines {
		for _, known := range e.Extensions() {
			if ext == known {
				return e.Load(path)
			}
		}
	}
	return nil, fmt.Errorf("no engine registered for %q (known formats: %s)", ext, knownExtensions())
}

func knownExtensions() string {
	var exts []string
	for _, e := range engines {
		exts = append(exts, e.Extensions()...)
	}
	if len(exts) == 0 {
		return "none"
	}
	return strings.Join(exts, ", ")
}
