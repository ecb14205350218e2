package ticket

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// scalePNG resizes img to w x h pixels and encodes it as PNG, keeping any
// transparency.
func scalePNG(img image.Image, w, h int) ([]byte, error) {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
