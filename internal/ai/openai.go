package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/solorzano0401/genesis-tools/internal/constants"
)

const chatModel = openai.ChatModelGPT4_1Mini

type OpenAIProvider struct {
	client      *openai.Client
	usage       Usage
	inputPrice  float64 // per 1M tokens
	outputPrice float64 // per 1M tokens
}

func NewOpenAIProvider(apiKey string, pricing RequestPricing) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		client:      &client,
		inputPrice:  pricing.Input,
		outputPrice: pricing.Output,
	}
}

func (p *OpenAIProvider) Name() string {
	return chatModel
}

func (p *OpenAIProvider) GetUsage() *Usage {
	return &p.usage
}

func (p *OpenAIProvider) ResetUsage() {
	p.usage = Usage{}
}

func (p *OpenAIProvider) trackUsage(inputTokens, outputTokens int64) {
	p.usage.InputTokens += int(inputTokens)
	p.usage.OutputTokens += int(outputTokens)
	p.usage.TotalCost += float64(inputTokens) / 1_000_000 * p.inputPrice
	p.usage.TotalCost += float64(outputTokens) / 1_000_000 * p.outputPrice
}

func (p *OpenAIProvider) SuggestFilenames(ctx context.Context, imageData []byte, count int) ([]string, error) {
	if count <= 0 {
		count = constants.DefaultSuggestionCount
	}

	imageURL, err := dataURL(imageData)
	if err != nil {
		return nil, err
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
							URL:    imageURL,
							Detail: "low",
						}),
						openai.TextContentPart(buildFilenamesPrompt(count) + "\nDevuelve un objeto JSON {\"names\": [...]}."),
					},
				},
			},
		},
	}

	// JSON mode requires an object at the top level, so the array is wrapped.
	var wrapper struct {
		Names []string `json:"names"`
	}
	if err := p.completeJSON(ctx, messages, 500, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Names, nil
}

func (p *OpenAIProvider) GenerateSEO(ctx context.Context, text string, imageData []byte) (*SEOResult, error) {
	if text == "" && len(imageData) == 0 {
		return nil, ErrNoInput
	}

	var parts []openai.ChatCompletionContentPartUnionParam
	if len(imageData) > 0 {
		imageURL, err := dataURL(imageData)
		if err != nil {
			return nil, err
		}
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL:    imageURL,
			Detail: "low",
		}))
	}
	if text != "" {
		parts = append(parts, openai.TextContentPart(buildSEOContext(text)))
	}
	parts = append(parts, openai.TextContentPart(buildSEOPrompt()))

	messages := []openai.ChatCompletionMessageParamUnion{
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: parts,
				},
			},
		},
	}

	var result SEOResult
	if err := p.completeJSON(ctx, messages, 1000, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// completeJSON runs one JSON-mode chat completion with parse-failure retries.
func (p *OpenAIProvider) completeJSON(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, maxTokens int64, out any) error {
	const maxRetries = 5

	var lastError error
	var lastResponse string

	for range maxRetries {
		resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    chatModel,
			Messages: messages,
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			},
			MaxTokens: openai.Int(maxTokens),
		})
		if err != nil {
			return fmt.Errorf("OpenAI API error: %w", err)
		}

		if len(resp.Choices) == 0 {
			return errors.New("no response from OpenAI")
		}

		if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
			p.trackUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		}

		content := resp.Choices[0].Message.Content
		lastResponse = content

		if err := json.Unmarshal([]byte(content), out); err != nil {
			lastError = err
			messages = append(messages,
				openai.ChatCompletionMessageParamUnion{
					OfAssistant: &openai.ChatCompletionAssistantMessageParam{
						Content: openai.ChatCompletionAssistantMessageParamContentUnion{
							OfString: openai.String(content),
						},
					},
				},
				openai.ChatCompletionMessageParamUnion{
					OfUser: &openai.ChatCompletionUserMessageParam{
						Content: openai.ChatCompletionUserMessageParamContentUnion{
							OfString: openai.String(fmt.Sprintf("JSON parse error: %v. Please fix the JSON and try again. Remember to escape quotes inside strings with backslash.", err)),
						},
					},
				},
			)
			continue
		}
		return nil
	}

	return fmt.Errorf("failed to parse JSON after %d attempts: %w (last response: %s)", maxRetries, lastError, lastResponse)
}

func dataURL(imageData []byte) (string, error) {
	prepared, err := PrepareImage(imageData, constants.MaxAIImageSize)
	if err != nil {
		return "", fmt.Errorf("failed to prepare image: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(prepared), nil
}
