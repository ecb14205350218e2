package ticket

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"golang.org/x/image/draw"
)

const qrPixels = 360

func qrCode(content string) (barcode.Barcode, error) {
	if content == "" {
		return nil, fmt.Errorf("qr: empty payload")
	}
	bc, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	scaled, err := barcode.Scale(bc, qrPixels, qrPixels)
	if err != nil {
		return nil, fmt.Errorf("qr scale: %w", err)
	}
	return scaled, nil
}

// qrPNG renders content as an 8-bit grayscale PNG QR code. The barcode's
// own color model is 16-bit, which the PDF writer does not accept.
func qrPNG(content string) ([]byte, error) {
	bc, err := qrCode(content)
	if err != nil {
		return nil, err
	}
	gray := image.NewGray(bc.Bounds())
	draw.Draw(gray, gray.Bounds(), bc, bc.Bounds().Min, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("qr png: %w", err)
	}
	return buf.Bytes(), nil
}
