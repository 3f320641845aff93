// Package preprocess prepares a decoded image for a classification model:
// it infers the model's input geometry, picks the preprocessing convention
// the architecture was trained with, and applies it.
package preprocess

import "github.com/Brownie44l1/litert-classify/internal/model"

// DefaultSide is the input edge assumed when a model's requirements do
// not reveal its spatial dimensions.
const DefaultSide = 224

// InferInputSize derives the expected input height and width from a
// model's input-buffer requirements. It never fails: absent or malformed
// metadata falls back to DefaultSide on both axes.
func InferInputSize(req model.BufferRequirements) (height, width int) {
	dims, ok := req.Dimensions()
	if !ok {
		return DefaultSide, DefaultSide
	}
	return sizeFromDims(dims)
}

// sizeFromDims locates the two spatial axes around the channel axis
// (value 3). Channel second means channel-first layout, channel last
// means channel-last. A leading batch axis of 1, or the unknown sentinel
// -1, is dropped and the remaining three axes are re-examined.
func sizeFromDims(dims []int) (int, int) {
	if len(dims) == 4 {
		switch {
		case dims[1] == 3:
			return dims[2], dims[3]
		case dims[3] == 3:
			return dims[1], dims[2]
		case dims[0] == 1 || dims[0] == -1:
			dims = dims[1:]
		}
	}
	if len(dims) == 3 {
		switch {
		case dims[0] == 3:
			return dims[1], dims[2]
		case dims[2] == 3:
			return dims[0], dims[1]
		}
	}
	return DefaultSide, DefaultSide
}
