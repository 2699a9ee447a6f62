// Package imageutil prepares uploaded photos for transport to vision
// providers: decode, downscale, and re-encode as JPEG.
package imageutil

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// MaxDimension is the longest edge sent to a provider. Larger uploads are
// downscaled; vision models gain nothing from more pixels and some providers
// reject oversized payloads.
const MaxDimension = 1024

// jpegQuality matches the ~85-90 range the providers recommend for uploads.
const jpegQuality = 85

// Prepare decodes a JPEG or PNG image, downscales it so neither edge exceeds
// MaxDimension, and re-encodes it as JPEG. The returned bytes are what gets
// base64-encoded into provider payloads.
func Prepare(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img = Downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Downscale returns img scaled so that its longest edge is at most maxDim,
// preserving aspect ratio. Images already within bounds are returned as-is.
func Downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	var nw, nh int
	if w >= h {
		nw = maxDim
		nh = h * maxDim / w
	} else {
		nh = maxDim
		nw = w * maxDim / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// DataURL encodes image bytes as a base64 data URL, the form the
// OpenAI-compatible vision endpoints expect.
func DataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
