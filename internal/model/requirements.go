package model

import "github.com/spf13/cast"

// Requirement keys engines populate. Dimension lists may appear under any
// of the dimension keys depending on the runtime's vocabulary.
const (
	KeyDimensions     = "dimensions"
	KeyShape          = "shape"
	KeyDims           = "dims"
	KeySupportedTypes = "supported_types"
	KeyBufferSize     = "buffer_size"
)

var dimensionKeys = []string{KeyDimensions, KeyShape, KeyDims}

// BufferRequirements carries the runtime-reported memory layout for one
// tensor slot. Engines fill it with loosely typed values; the accessors
// coerce on read and report absence instead of failing, because unknown
// model metadata must never abort a run.
type BufferRequirements map[string]any

// Dimensions returns the dimension list, trying each dimension key in
// order. A key holding an empty list is skipped; a key holding a value
// that cannot be coerced to integers makes the whole list absent rather
// than falling through to the next key.
func (r BufferRequirements) Dimensions() ([]int, bool) {
	for _, key := range dimensionKeys {
		raw, ok := r[key]
		if !ok || raw == nil {
			continue
		}
		dims, err := cast.ToIntSliceE(raw)
		if err != nil {
			return nil, false
		}
		if len(dims) == 0 {
			continue
		}
		return dims, true
	}
	return nil, false
}

// SupportedTypes returns the element types the runtime accepts for this
// buffer, in the order reported. Malformed entries yield an empty list.
func (r BufferRequirements) SupportedTypes() []ElementType {
	raw, ok := r[KeySupportedTypes]
	if !ok || raw == nil {
		return nil
	}
	ids, err := cast.ToIntSliceE(raw)
	if err != nil {
		return nil
	}
	types := make([]ElementType, len(ids))
	for i, id := range ids {
		types[i] = ElementType(id)
	}
	return types
}

// BufferSize returns the total byte size of the buffer, or 0 when the
// entry is missing or malformed.
func (r BufferRequirements) BufferSize() int {
	size, err := cast.ToIntE(r[KeyBufferSize])
	if err != nil || size < 0 {
		return 0
	}
	return size
}
