// Package media normalizes uploaded equipment photos to bounded WebP images.
package media

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
)

const (
	ContentType = "image/webp"

	// MaxUploadBytes caps the raw upload before decoding.
	MaxUploadBytes = 8 << 20
)

type Processor struct {
	maxDimension int
	quality      float32
}

func NewProcessor(maxDimension int) *Processor {
	if maxDimension <= 0 {
		maxDimension = 1024
	}
	return &Processor{maxDimension: maxDimension, quality: 80}
}

// ToWebP decodes a jpeg, png, gif or webp image, scales it down so neither
// side exceeds the max dimension, and re-encodes it as WebP.
func (p *Processor) ToWebP(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return nil, httperr.ErrValidation("invalid_image", "file is not a supported image")
	}

	img := p.fit(src)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: p.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Processor) fit(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= p.maxDimension && h <= p.maxDimension {
		return src
	}

	nw, nh := p.maxDimension, p.maxDimension
	if w >= h {
		nh = max(1, h*p.maxDimension/w)
	} else {
		nw = max(1, w*p.maxDimension/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
