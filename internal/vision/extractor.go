package vision

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ImageNet normalization, as used by the DETR image processor.
var (
	imagenetMean = [3]float32{0.485, 0.456, 0.406}
	imagenetStd  = [3]float32{0.229, 0.224, 0.225}
)

const defaultInputSize = 800

// Features is the model-ready tensor for one image together with the
// dimensions needed to map predictions back onto the original picture.
type Features struct {
	// Pixels is NCHW float32 data of shape [1, 3, Size, Size].
	Pixels []float32
	Size   int

	OrigWidth  int
	OrigHeight int
}

// Extractor turns a decoded image into detector input.
type Extractor interface {
	Extract(img image.Image) (*Features, error)
}

// FeatureExtractor resizes to a fixed square and applies ImageNet normalization.
// Boxes predicted by DETR are relative, so the aspect ratio change is undone
// when post-processing against the original size.
type FeatureExtractor struct {
	size int
}

func NewFeatureExtractor(size int) *FeatureExtractor {
	if size <= 0 {
		size = defaultInputSize
	}
	return &FeatureExtractor{size: size}
}

func (e *FeatureExtractor) Size() int {
	return e.size
}

func (e *FeatureExtractor) Extract(img image.Image) (*Features, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrMalformedImage)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image bounds", ErrMalformedImage)
	}

	return &Features{
		Pixels:     preprocess(img, e.size),
		Size:       e.size,
		OrigWidth:  bounds.Dx(),
		OrigHeight: bounds.Dy(),
	}, nil
}

// preprocess resizes img to size x size, converts to RGB, NCHW layout, float32 with ImageNet normalization.
func preprocess(img image.Image, size int) []float32 {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	out := make([]float32, 3*size*size)
	plane := size * size

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			idx := y*size + x
			c := dst.RGBAAt(x, y)
			r, g, b := float32(c.R)/255.0, float32(c.G)/255.0, float32(c.B)/255.0
			out[0*plane+idx] = (r - imagenetMean[0]) / imagenetStd[0]
			out[1*plane+idx] = (g - imagenetMean[1]) / imagenetStd[1]
			out[2*plane+idx] = (b - imagenetMean[2]) / imagenetStd[2]
		}
	}
	return out
}
