// Package qr renders viewer links as downloadable QR code images.
package qr

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// Rendered images are square PNGs. High error correction keeps codes
// scannable when printed small or partially covered.
const imageSize = 512

var ErrNoContent = errors.New("no content to encode")

// Render encodes url into a PNG image and returns its bytes.
func Render(url string) ([]byte, error) {
	if url == "" {
		return nil, ErrNoContent
	}

	png, err := qrcode.Encode(url, qrcode.High, imageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code, %w", err)
	}

	return png, nil
}

// WriteFile renders url and writes it to dir as qrcode-<id>.png, matching
// the download name the viewer page offers. The written path is returned.
func WriteFile(url, id, dir string) (string, error) {
	png, err := Render(url)
	if err != nil {
		return "", err
	}

	p := filepath.Join(dir, fmt.Sprintf("qrcode-%s.png", id))

	if err := os.WriteFile(p, png, 0o644); err != nil {
		return "", fmt.Errorf("failed to write QR code image, %w", err)
	}

	return p, nil
}
