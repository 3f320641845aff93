package preprocess

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// Resample selects the interpolation filter used when resizing.
type Resample int

const (
	ResampleBilinear Resample = iota
	ResampleBicubic
)

func (r Resample) filter() resize.InterpolationFunction {
	if r == ResampleBicubic {
		return resize.Bicubic
	}
	return resize.Bilinear
}

func (r Resample) String() string {
	if r == ResampleBicubic {
		return "bicubic"
	}
	return "bilinear"
}

// Config describes one preprocessing convention: resize the shorter image
// side to Resize, center-crop to CropHeight x CropWidth, scale to [0,1]
// and normalize each channel with Mean and Std.
type Config struct {
	Resize     int
	CropHeight int
	CropWidth  int
	Mean       [3]float32
	Std        [3]float32
	Resample   Resample
}

var (
	imagenetMean = [3]float32{0.485, 0.456, 0.406}
	imagenetStd  = [3]float32{0.229, 0.224, 0.225}
)

// families maps model-name fragments to the preprocessing published for
// that architecture family. Matching is first-hit, so narrower fragments
// must stay ahead of wider ones that could also match.
var families = []struct {
	pattern string
	config  Config
}{
	{"efficientnet_v2_s", Config{384, 384, 384, imagenetMean, imagenetStd, ResampleBilinear}},
	{"efficientnet_v2_m", Config{480, 480, 480, imagenetMean, imagenetStd, ResampleBilinear}},
	{"efficientnet_v2_l", Config{480, 480, 480, [3]float32{0.5, 0.5, 0.5}, [3]float32{0.5, 0.5, 0.5}, ResampleBicubic}},
	{"efficientnet_b", Config{600, 600, 600, imagenetMean, imagenetStd, ResampleBicubic}},
}

// Select resolves the preprocessing for a model. The identifier is the
// lower-cased base name of the model path, matched as a substring against
// the family table; models with no known family get the generic ImageNet
// convention sized from the inferred input geometry.
func Select(modelPath string, inferredHeight, inferredWidth int) Config {
	name := strings.ToLower(filepath.Base(modelPath))
	for _, f := range families {
		if strings.Contains(name, f.pattern) {
			return f.config
		}
	}
	cropH, cropW := inferredHeight, inferredWidth
	if cropH <= 0 {
		cropH = DefaultSide
	}
	if cropW <= 0 {
		cropW = DefaultSide
	}
	return Config{
		Resize:     roundToInt(float64(max(cropH, cropW)) / 0.875),
		CropHeight: cropH,
		CropWidth:  cropW,
		Mean:       imagenetMean,
		Std:        imagenetStd,
		Resample:   ResampleBilinear,
	}
}

// roundToInt rounds half away from zero. Every rounded quantity in this
// package (resize scale, crop offsets) uses the same convention.
func roundToInt(v float64) int {
	return int(math.Round(v))
}
