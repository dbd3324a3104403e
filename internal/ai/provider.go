package ai

import "context"

// SEOResult is the structured SEO strategy returned for a product.
type SEOResult struct {
	// Description is a 50-80 word technical product description.
	Description string `json:"description"`
	// Primary holds the high-volume main keywords.
	Primary []string `json:"primary"`
	// Attributes holds specification keywords (color, material, size, brand).
	Attributes []string `json:"attributes"`
	// SEOTitles holds three optimized titles under 70 characters.
	SEOTitles []string `json:"seoTitles"`
}

// Provider defines the interface for generative AI backends.
type Provider interface {
	Name() string

	// SuggestFilenames returns count SEO-optimized filename suggestions for
	// an image, in Spanish, without extensions.
	SuggestFilenames(ctx context.Context, imageData []byte, count int) ([]string, error)

	// GenerateSEO builds an SEO keyword strategy from product text, an image,
	// or both. At least one input must be provided.
	GenerateSEO(ctx context.Context, text string, imageData []byte) (*SEOResult, error)

	// Usage tracking.
	GetUsage() *Usage
	ResetUsage()
}

// Usage tracks token usage and calculates cost.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalCost    float64 // in USD
}

// RequestPricing holds input/output prices per 1M tokens.
type RequestPricing struct {
	Input  float64
	Output float64
}
