package twofa

import (
	"bytes"
	"fmt"
	"image/png"
	"log/slog"

	"github.com/pquerna/otp"
)

// DefaultQRSize is the default QR image edge length in pixels.
const DefaultQRSize = 256

// RenderQR renders a provisioning URI as a PNG QR code. A size of zero
// or less uses DefaultQRSize. The renderer is stateless; it also
// validates that the URI is a well-formed otpauth URL.
func RenderQR(provisioningURI string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}

	key, err := otp.NewKeyFromURL(provisioningURI)
	if err != nil {
		slog.Error("Failed to parse provisioning URI", "err", err)
		return nil, fmt.Errorf("invalid provisioning URI: %w", err)
	}

	img, err := key.Image(size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode QR image: %w", err)
	}
	return buf.Bytes(), nil
}
