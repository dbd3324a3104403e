// Package imaging provides the bitmap decode/resample/encode primitive used
// by the batch transcoder and the live preview.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Decode parses image bytes into a pixel buffer. JPEG, PNG, GIF, BMP and
// WEBP inputs are accepted.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// SourceDims decodes only the image header to read dimensions.
func SourceDims(data []byte) (Dims, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Dims{}, fmt.Errorf("failed to read image header: %w", err)
	}
	return Dims{W: cfg.Width, H: cfg.Height}, nil
}

// Resample scales img to exactly w×h with a high-quality filter. When opaque
// is set the result is composited over a white background, which is required
// before JPEG encoding: JPEG has no alpha channel, and dropping it any other
// way would turn transparent regions black.
func Resample(img image.Image, w, h int, opaque bool) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	op := xdraw.Src
	if opaque {
		draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
		op = xdraw.Over
	}
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), op, nil)
	return out
}

// Encode serializes a pixel buffer to the requested format. Quality is a
// [0.1, 1.0] fraction; PNG ignores it.
func Encode(img image.Image, format Format, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality(quality)}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	case FormatWEBP:
		if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality * 100)}); err != nil {
			return nil, fmt.Errorf("failed to encode webp: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return buf.Bytes(), nil
}

// Transcode decodes source bytes, resamples to exactly w×h, and re-encodes.
// This is the single most expensive operation in the pipeline; batch callers
// run it strictly sequentially to bound peak memory.
func Transcode(data []byte, w, h int, format Format, quality float64) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid target dimensions %dx%d", w, h)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	resampled := Resample(img, w, h, format == FormatJPEG)
	return Encode(resampled, format, quality)
}

func jpegQuality(quality float64) int {
	q := int(quality * 100)
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return q
}
