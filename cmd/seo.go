package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/solorzano0401/genesis-tools/internal/config"
)

var seoCmd = &cobra.Command{
	Use:   "seo",
	Short: "Generate an SEO keyword strategy for a product",
	Long: `Seo asks an AI provider for a structured SEO strategy: a technical
product description, primary keywords, attribute keywords and three SEO
titles. Input is product text (--text), a product image (--image), or both.`,
	RunE: runSEO,
}

func init() {
	rootCmd.AddCommand(seoCmd)

	seoCmd.Flags().String("text", "", "Product context text")
	seoCmd.Flags().String("image", "", "Product image path")
	seoCmd.Flags().String("provider", "", "AI provider: gemini or openai (default: first configured)")
}

func runSEO(cmd *cobra.Command, args []string) error {
	text := mustGetString(cmd, "text")
	imagePath := mustGetString(cmd, "image")
	if text == "" && imagePath == "" {
		return errors.New("either --text or --image is required")
	}

	var imageData []byte
	if imagePath != "" {
		var err error
		imageData, err = os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", imagePath, err)
		}
	}

	provider, err := newProvider(cmd.Context(), config.Load(), mustGetString(cmd, "provider"))
	if err != nil {
		return err
	}
	if provider == nil {
		return errors.New("no AI provider configured, set GEMINI_API_KEY or OPENAI_TOKEN")
	}

	fmt.Printf("Generating SEO strategy with %s...\n\n", provider.Name())
	result, err := provider.GenerateSEO(cmd.Context(), text, imageData)
	if err != nil {
		return fmt.Errorf("generating SEO strategy: %w", err)
	}

	fmt.Println("DESCRIPCIÓN:")
	fmt.Println(result.Description)
	fmt.Println()
	fmt.Println("KEYWORDS PRINCIPALES:")
	fmt.Println(strings.Join(result.Primary, ", "))
	fmt.Println()
	fmt.Println("ATRIBUTOS:")
	fmt.Println(strings.Join(result.Attributes, ", "))
	fmt.Println()
	fmt.Println("TÍTULOS SEO:")
	for _, title := range result.SEOTitles {
		fmt.Printf("  %s\n", title)
	}
	fmt.Println()
	printUsage(provider)
	return nil
}
