package transform

import (
	"bytes"
	"fmt"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Image recompresses uploaded images to WebP. Oversized images are
// scaled down so neither dimension exceeds maxDim, smaller images are
// never upscaled.
type Image struct {
	maxDim  int
	quality int
}

func NewImage(maxDim, quality int) Image {
	return Image{
		maxDim:  maxDim,
		quality: quality,
	}
}

func (t Image) Apply(data []byte) (*Result, error) {
	// Corrupt input must fail the attempt, not slip through as a
	// passthrough
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image, %w", err)
	}

	b := img.Bounds()
	if b.Dx() > t.maxDim || b.Dy() > t.maxDim {
		img = imaging.Fit(img, t.maxDim, t.maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	err = webp.Encode(&buf, img, &webp.Options{Quality: float32(t.quality)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode webp, %w", err)
	}

	return &Result{
		Data:        buf.Bytes(),
		Extension:   "webp",
		ContentType: "image/webp",
	}, nil
}
