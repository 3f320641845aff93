package preprocess

import "testing"

func TestSelectKnownFamilies(t *testing.T) {
	tests := []struct {
		name      string
		modelPath string
		want      Config
	}{
		{
			"efficientnet v2 s",
			"efficientnet_v2_s.tflite",
			Config{384, 384, 384, imagenetMean, imagenetStd, ResampleBilinear},
		},
		{
			"match is case-insensitive",
			"EfficientNet_V2_S.tflite",
			Config{384, 384, 384, imagenetMean, imagenetStd, ResampleBilinear},
		},
		{
			"fragment inside a longer name",
			"my_efficientnet_v2_m_int8.tflite",
			Config{480, 480, 480, imagenetMean, imagenetStd, ResampleBilinear},
		},
		{
			"v2 l uses its own normalization",
			"efficientnet_v2_l.onnx",
			Config{480, 480, 480, [3]float32{0.5, 0.5, 0.5}, [3]float32{0.5, 0.5, 0.5}, ResampleBicubic},
		},
		{
			"b variants",
			"efficientnet_b3.tflite",
			Config{600, 600, 600, imagenetMean, imagenetStd, ResampleBicubic},
		},
		{
			"first table entry wins",
			"efficientnet_v2_s_from_efficientnet_b0.tflite",
			Config{384, 384, 384, imagenetMean, imagenetStd, ResampleBilinear},
		},
		{
			"directory names are ignored",
			"/data/efficientnet_v2_m/EFFICIENTNET_B0.tflite",
			Config{600, 600, 600, imagenetMean, imagenetStd, ResampleBicubic},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The inferred size must not leak into family configs.
			if got := Select(tt.modelPath, 17, 19); got != tt.want {
				t.Errorf("Select(%q) = %+v, want %+v", tt.modelPath, got, tt.want)
			}
		})
	}
}

func TestSelectGeneric(t *testing.T) {
	tests := []struct {
		name string
		h, w int
		want Config
	}{
		{
			"square 224",
			224, 224,
			Config{256, 224, 224, imagenetMean, imagenetStd, ResampleBilinear},
		},
		{
			"non-positive inferred size",
			0, -1,
			Config{256, 224, 224, imagenetMean, imagenetStd, ResampleBilinear},
		},
		{
			"square 299 rounds up",
			299, 299,
			Config{342, 299, 299, imagenetMean, imagenetStd, ResampleBilinear},
		},
		{
			"rectangular uses the longer side",
			300, 200,
			Config{343, 300, 200, imagenetMean, imagenetStd, ResampleBilinear},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Select("mobilenet_v2.tflite", tt.h, tt.w); got != tt.want {
				t.Errorf("Select(mobilenet_v2, %d, %d) = %+v, want %+v", tt.h, tt.w, got, tt.want)
			}
		})
	}
}
