package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/solorzano0401/genesis-tools/internal/ai"
	"github.com/solorzano0401/genesis-tools/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Content preparation tools for e-commerce image pipelines",
	Long: `Genesis is a suite of content-preparation tools for e-commerce image
pipelines: Excel-driven SKU/image matching, batch image resizing and format
conversion, bulk renaming with AI-suggested names, and SEO keyword generation.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// printUsage reports token usage and cost after an AI call.
func printUsage(provider ai.Provider) {
	usage := provider.GetUsage()
	if usage.InputTokens == 0 && usage.OutputTokens == 0 {
		return
	}
	fmt.Printf("Tokens: %d in / %d out, cost $%.4f\n", usage.InputTokens, usage.OutputTokens, usage.TotalCost)
}

// newProvider builds the AI provider selected by name, falling back to
// whichever credential is configured. Returns nil without error when name is
// empty and no credential exists, so callers can degrade gracefully.
func newProvider(ctx context.Context, cfg *config.Config, name string) (ai.Provider, error) {
	// Default per-1M-token pricing for the configured models.
	geminiPricing := ai.RequestPricing{Input: 0.30, Output: 2.50}
	openaiPricing := ai.RequestPricing{Input: 0.40, Output: 1.60}

	switch name {
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is not set")
		}
		return ai.NewGeminiProvider(ctx, cfg.Gemini.APIKey, geminiPricing)
	case "openai":
		if cfg.OpenAI.Token == "" {
			return nil, errors.New("OPENAI_TOKEN is not set")
		}
		return ai.NewOpenAIProvider(cfg.OpenAI.Token, openaiPricing), nil
	case "":
		if cfg.Gemini.APIKey != "" {
			return ai.NewGeminiProvider(ctx, cfg.Gemini.APIKey, geminiPricing)
		}
		if cfg.OpenAI.Token != "" {
			return ai.NewOpenAIProvider(cfg.OpenAI.Token, openaiPricing), nil
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: gemini, openai)", name)
	}
}
