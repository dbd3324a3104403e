package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/solorzano0401/genesis-tools/internal/constants"
)

const geminiModel = "gemini-2.5-flash"

type GeminiProvider struct {
	client      *genai.Client
	usage       Usage
	inputPrice  float64 // per 1M tokens
	outputPrice float64 // per 1M tokens
}

func NewGeminiProvider(ctx context.Context, apiKey string, pricing RequestPricing) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:      client,
		inputPrice:  pricing.Input,
		outputPrice: pricing.Output,
	}, nil
}

func (p *GeminiProvider) Name() string {
	return geminiModel
}

func (p *GeminiProvider) GetUsage() *Usage {
	return &p.usage
}

func (p *GeminiProvider) ResetUsage() {
	p.usage = Usage{}
}

func (p *GeminiProvider) trackUsage(inputTokens, outputTokens int32) {
	p.usage.InputTokens += int(inputTokens)
	p.usage.OutputTokens += int(outputTokens)
	p.usage.TotalCost += float64(inputTokens) / 1_000_000 * p.inputPrice
	p.usage.TotalCost += float64(outputTokens) / 1_000_000 * p.outputPrice
}

func (p *GeminiProvider) SuggestFilenames(ctx context.Context, imageData []byte, count int) ([]string, error) {
	if count <= 0 {
		count = constants.DefaultSuggestionCount
	}

	prepared, err := PrepareImage(imageData, constants.MaxAIImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{Data: prepared, MIMEType: "image/jpeg"}},
				{Text: buildFilenamesPrompt(count)},
			},
		},
	}

	var names []string
	if err := p.generateJSON(ctx, contents, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (p *GeminiProvider) GenerateSEO(ctx context.Context, text string, imageData []byte) (*SEOResult, error) {
	if text == "" && len(imageData) == 0 {
		return nil, ErrNoInput
	}

	var parts []*genai.Part
	if len(imageData) > 0 {
		prepared, err := PrepareImage(imageData, constants.MaxAIImageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare image: %w", err)
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{Data: prepared, MIMEType: "image/jpeg"}})
	}
	if text != "" {
		parts = append(parts, &genai.Part{Text: buildSEOContext(text)})
	}
	parts = append(parts, &genai.Part{Text: buildSEOPrompt()})

	contents := []*genai.Content{{Role: "user", Parts: parts}}

	var result SEOResult
	if err := p.generateJSON(ctx, contents, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// generateJSON runs one JSON-mode generation with parse-failure retries:
// on a malformed response the model output and the parse error are appended
// to the conversation and the request is retried.
func (p *GeminiProvider) generateJSON(ctx context.Context, contents []*genai.Content, out any) error {
	const maxRetries = 5

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	var lastError error
	var lastResponse string

	for range maxRetries {
		result, err := p.client.Models.GenerateContent(ctx, geminiModel, contents, config)
		if err != nil {
			return fmt.Errorf("gemini API error: %w", err)
		}

		if result.UsageMetadata != nil {
			p.trackUsage(result.UsageMetadata.PromptTokenCount, result.UsageMetadata.CandidatesTokenCount)
		}

		content := result.Text()
		if content == "" {
			return errors.New("no response from Gemini")
		}
		lastResponse = content

		if err := json.Unmarshal([]byte(content), out); err != nil {
			lastError = err
			contents = append(contents,
				&genai.Content{
					Role:  "model",
					Parts: []*genai.Part{{Text: content}},
				},
				&genai.Content{
					Role:  "user",
					Parts: []*genai.Part{{Text: fmt.Sprintf("JSON parse error: %v. Please fix the JSON and try again. Remember to escape quotes inside strings with backslash.", err)}},
				},
			)
			continue
		}
		return nil
	}

	return fmt.Errorf("failed to parse JSON after %d attempts: %w (last response: %s)", maxRetries, lastError, lastResponse)
}
