// Package postprocess turns a model's raw output buffer into ranked
// probabilities.
package postprocess

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Brownie44l1/litert-classify/internal/model"
)

// typePreference is the order in which output element types are chosen
// when the runtime offers several: full-precision float first, then the
// common quantized widths.
var typePreference = []model.ElementType{
	model.ElementFloat32,
	model.ElementInt8,
	model.ElementUInt8,
	model.ElementInt32,
}

// PickType chooses the element type used to decode an output buffer. The
// first preferred type present in the requirements wins; a non-empty set
// without any preferred member falls back to its first decodable entry;
// anything else defaults to float32.
func PickType(req model.BufferRequirements) model.ElementType {
	supported := req.SupportedTypes()
	for _, want := range typePreference {
		for _, have := range supported {
			if have == want {
				return want
			}
		}
	}
	if len(supported) > 0 && decodable(supported[0]) {
		return supported[0]
	}
	return model.ElementFloat32
}

func decodable(t model.ElementType) bool {
	switch t {
	case model.ElementFloat32, model.ElementInt8, model.ElementUInt8,
		model.ElementInt32, model.ElementInt64, model.ElementFloat64:
		return true
	}
	return false
}

// Decode interprets the raw bytes of an output buffer according to its
// requirements and returns the scores as a flat float32 vector. The
// element count comes from the declared buffer size, not from len(raw).
func Decode(raw []byte, req model.BufferRequirements) ([]float32, error) {
	elem := PickType(req)
	width := elem.ByteWidth()
	count := 0
	if width > 0 {
		count = req.BufferSize() / width
	}
	if count <= 0 {
		return nil, fmt.Errorf("output buffer size is zero")
	}
	if len(raw) < count*width {
		return nil, fmt.Errorf("output buffer holds %d bytes, expected %d %s elements", len(raw), count, elem)
	}
	scores := make([]float32, count)
	switch elem {
	case model.ElementFloat32:
		for i := range scores {
			scores[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
		}
	case model.ElementInt8:
		for i := range scores {
			scores[i] = float32(int8(raw[i]))
		}
	case model.ElementUInt8:
		for i := range scores {
			scores[i] = float32(raw[i])
		}
	case model.ElementInt32:
		for i := range scores {
			scores[i] = float32(int32(binary.LittleEndian.Uint32(raw[4*i:])))
		}
	case model.ElementInt64:
		for i := range scores {
			scores[i] = float32(int64(binary.LittleEndian.Uint64(raw[8*i:])))
		}
	case model.ElementFloat64:
		for i := range scores {
			scores[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:])))
		}
	default:
		return nil, fmt.Errorf("cannot decode %s output", elem)
	}
	return scores, nil
}
