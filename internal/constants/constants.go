// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Matching constants
const (
	// ScorePrefix is assigned when a normalized filename starts with a catalog model.
	ScorePrefix = 100

	// ScoreSubstring is assigned when the model appears elsewhere in the filename.
	ScoreSubstring = 80
)

// Transcoding constants
const (
	// MinQuality and MaxQuality bound the encoder quality axis.
	MinQuality = 0.1
	MaxQuality = 1.0

	// DefaultQuality is used when no preference or flag is provided.
	DefaultQuality = 0.8

	// SecondarySmall and SecondaryLarge are the paired dual-output dimensions.
	// A primary of SecondarySmall pairs with SecondaryLarge and vice versa.
	SecondarySmall = 160
	SecondaryLarge = 1000
)

// Preview constants
const (
	// DebounceWindow is the quiescence period before a preview recompute fires.
	DebounceWindow = 500 * time.Millisecond
)

// AI constants
const (
	// MaxAIImageSize is the maximum dimension for images sent to AI providers.
	// Larger uploads waste tokens without improving suggestions.
	MaxAIImageSize = 800

	// DefaultSuggestionCount is the default number of filename suggestions.
	DefaultSuggestionCount = 10
)

// Web constants
const (
	// MaxUploadSize limits multipart request bodies (256 MiB).
	MaxUploadSize = 256 << 20

	// EventChannelBuffer is the buffer size for job event listener channels.
	EventChannelBuffer = 64
)
