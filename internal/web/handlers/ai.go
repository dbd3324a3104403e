package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/solorzano0401/genesis-tools/internal/ai"
	"github.com/solorzano0401/genesis-tools/internal/constants"
)

// AIHandler exposes filename suggestions and SEO generation.
type AIHandler struct {
	provider ai.Provider
}

// NewAIHandler creates a new AI handler. A nil provider disables the
// endpoints with 503 instead of failing at startup.
func NewAIHandler(provider ai.Provider) *AIHandler {
	return &AIHandler{provider: provider}
}

func (h *AIHandler) requireProvider(w http.ResponseWriter) bool {
	if h.provider == nil {
		respondError(w, http.StatusServiceUnavailable, "no AI provider configured, set GEMINI_API_KEY or OPENAI_TOKEN")
		return false
	}
	return true
}

// SuggestFilenames returns AI filename suggestions for an uploaded image.
func (h *AIHandler) SuggestFilenames(w http.ResponseWriter, r *http.Request) {
	if !h.requireProvider(w) {
		return
	}
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	images := r.MultipartForm.File["image"]
	if len(images) != 1 {
		respondError(w, http.StatusBadRequest, "exactly one image is required")
		return
	}
	data, err := readUpload(images[0])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	count := formValueInt(r, "count")
	names, err := h.provider.SuggestFilenames(r.Context(), data, count)
	if err != nil {
		log.Printf("filename suggestion failed: %v", err)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"provider": h.provider.Name(),
		"names":    names,
	})
}

// GenerateSEO builds an SEO keyword strategy from text and/or an image.
func (h *AIHandler) GenerateSEO(w http.ResponseWriter, r *http.Request) {
	if !h.requireProvider(w) {
		return
	}
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	var imageData []byte
	if images := r.MultipartForm.File["image"]; len(images) > 0 {
		var err error
		imageData, err = readUpload(images[0])
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := h.provider.GenerateSEO(r.Context(), r.FormValue("text"), imageData)
	if err != nil {
		if errors.Is(err, ai.ErrNoInput) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("SEO generation failed: %v", err)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"provider": h.provider.Name(),
		"result":   result,
	})
}
