// Package qr renders share links as printable QR codes.
package qr

import (
	"strings"

	"github.com/rotisserie/eris"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	// DefaultSize is the PNG edge length in pixels.
	DefaultSize = 512
	minSize     = 64
	maxSize     = 2048
)

// ErrEmptyContent is returned for blank content.
var ErrEmptyContent = eris.New("qr: empty content")

// PNG encodes content as a QR code PNG with medium error recovery. size is
// clamped to [64, 2048]; zero means DefaultSize.
func PNG(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	png, err := qrcode.Encode(content, qrcode.Medium, ClampSize(size))
	if err != nil {
		return nil, eris.Wrap(err, "qr: encode")
	}
	return png, nil
}

// ClampSize returns the PNG size used for a requested size.
func ClampSize(size int) int {
	switch {
	case size == 0:
		return DefaultSize
	case size < minSize:
		return minSize
	case size > maxSize:
		return maxSize
	}
	return size
}
