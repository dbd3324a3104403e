package ai

import (
	_ "embed"
	"errors"
	"fmt"
)

//go:embed prompts/filenames.txt
var filenamesPrompt string

//go:embed prompts/seo.txt
var seoPrompt string

// ErrNoInput is returned when an SEO request carries neither text nor image.
var ErrNoInput = errors.New("either text or an image is required")

func buildFilenamesPrompt(count int) string {
	return fmt.Sprintf(filenamesPrompt, count)
}

func buildSEOPrompt() string {
	return seoPrompt
}

func buildSEOContext(text string) string {
	return fmt.Sprintf("Contexto del producto/contenido: %q", text)
}
