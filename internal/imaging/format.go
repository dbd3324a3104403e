package imaging

import (
	"fmt"
	"strings"

	"github.com/solorzano0401/genesis-tools/internal/constants"
)

// Format is a supported output encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWEBP Format = "webp"
)

// PNGQualitySentinel stands in for the quality axis when the format is PNG.
// PNG encoding has no quality knob, so change detection must not treat
// quality slider movement as a real parameter change.
const PNGQualitySentinel = -1.0

// ParseFormat accepts common spellings ("jpg", "image/jpeg", "PNG", ...).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "image/")) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWEBP, nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: jpeg, png, webp)", s)
	}
}

// Ext returns the filename extension for the format, without the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// MIME returns the media type for the format.
func (f Format) MIME() string {
	return "image/" + string(f)
}

// EffectiveQuality collapses quality to a sentinel for formats that ignore it.
func EffectiveQuality(f Format, quality float64) float64 {
	if f == FormatPNG {
		return PNGQualitySentinel
	}
	return quality
}

// Spec describes one requested output rendition. Width or Height may be zero
// when MaintainAspect is set; the missing axis is derived per source image.
type Spec struct {
	Width          int
	Height         int
	Format         Format
	Quality        float64
	MaintainAspect bool
}

// Validate checks the spec's static constraints.
func (s Spec) Validate() error {
	if s.Width <= 0 && s.Height <= 0 {
		return fmt.Errorf("at least one of width and height must be positive")
	}
	if !s.MaintainAspect && (s.Width <= 0 || s.Height <= 0) {
		return fmt.Errorf("both width and height are required unless aspect ratio is maintained")
	}
	if s.Format != FormatJPEG && s.Format != FormatPNG && s.Format != FormatWEBP {
		return fmt.Errorf("unsupported format %q", s.Format)
	}
	if s.Quality < constants.MinQuality || s.Quality > constants.MaxQuality {
		return fmt.Errorf("quality %.2f out of range [%.1f, %.1f]", s.Quality, constants.MinQuality, constants.MaxQuality)
	}
	return nil
}
