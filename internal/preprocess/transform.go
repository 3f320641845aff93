package preprocess

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

const channels = 3

// Tensor holds a normalized image in channel-first (CHW) layout, ready to
// be written into a model input buffer.
type Tensor struct {
	Data     []float32
	Channels int
	Height   int
	Width    int
}

// Transform runs the resize / center-crop / normalize protocol on one
// decoded image and returns the channel-first tensor.
func Transform(img image.Image, cfg Config) (*Tensor, error) {
	if cfg.Resize <= 0 || cfg.CropHeight <= 0 || cfg.CropWidth <= 0 {
		return nil, fmt.Errorf("invalid preprocessing sizes: resize=%d crop=%dx%d", cfg.Resize, cfg.CropHeight, cfg.CropWidth)
	}
	if img == nil {
		return nil, fmt.Errorf("no image to transform")
	}

	rgb := imaging.Clone(img)
	bounds := rgb.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("image is empty")
	}

	newW, newH := scaledSize(bounds.Dx(), bounds.Dy(), cfg.Resize)
	resized := resize.Resize(uint(newW), uint(newH), rgb, cfg.Resample.filter())

	left := roundToInt(float64(newW-cfg.CropWidth) / 2)
	top := roundToInt(float64(newH-cfg.CropHeight) / 2)

	plane := cfg.CropHeight * cfg.CropWidth
	data := make([]float32, channels*plane)
	rb := resized.Bounds()
	for y := 0; y < cfg.CropHeight; y++ {
		for x := 0; x < cfg.CropWidth; x++ {
			sx := rb.Min.X + left + x
			sy := rb.Min.Y + top + y
			// Crop reads outside the resized image stay zero.
			var rf, gf, bf float32
			if (image.Point{X: sx, Y: sy}).In(rb) {
				r, g, b, _ := resized.At(sx, sy).RGBA()
				rf = float32(r>>8) / 255
				gf = float32(g>>8) / 255
				bf = float32(b>>8) / 255
			}
			i := y*cfg.CropWidth + x
			data[i] = (rf - cfg.Mean[0]) / cfg.Std[0]
			data[plane+i] = (gf - cfg.Mean[1]) / cfg.Std[1]
			data[2*plane+i] = (bf - cfg.Mean[2]) / cfg.Std[2]
		}
	}
	return &Tensor{Data: data, Channels: channels, Height: cfg.CropHeight, Width: cfg.CropWidth}, nil
}

// scaledSize computes the post-resize dimensions: the shorter side becomes
// target and the longer side keeps the aspect ratio, rounded to the
// nearest integer.
func scaledSize(w, h, target int) (newW, newH int) {
	if w < h {
		return target, roundToInt(float64(h) * float64(target) / float64(w))
	}
	return roundToInt(float64(w) * float64(target) / float64(h)), target
}
