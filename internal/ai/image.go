package ai

import (
	"fmt"

	"github.com/solorzano0401/genesis-tools/internal/constants"
	"github.com/solorzano0401/genesis-tools/internal/imaging"
)

// PrepareImage downscales an image so neither side exceeds maxSize and
// re-encodes it as JPEG. Oversized uploads waste tokens without improving
// suggestions, and a consistent format keeps the request path simple.
func PrepareImage(data []byte, maxSize int) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = constants.MaxAIImageSize
	}

	src, err := imaging.SourceDims(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	dims := src
	if src.W > maxSize || src.H > maxSize {
		if src.W >= src.H {
			dims = imaging.FitWidth(src, maxSize)
		} else {
			dims = imaging.FitHeight(src, maxSize)
		}
	}

	return imaging.Transcode(data, dims.W, dims.H, imaging.FormatJPEG, 0.85)
}
