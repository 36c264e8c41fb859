package spayd

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize is the default edge length of generated QR images in pixels.
const DefaultQRSize = 512

// QRPNG renders content as a PNG QR code with high error correction.
// A size <= 0 uses DefaultQRSize.
func QRPNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(content, qrcode.High, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
