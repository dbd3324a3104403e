package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/solorzano0401/genesis-tools/internal/catalog"
	"github.com/solorzano0401/genesis-tools/internal/config"
	"github.com/solorzano0401/genesis-tools/internal/constants"
	"github.com/solorzano0401/genesis-tools/internal/renamer"
)

var renameCmd = &cobra.Command{
	Use:   "rename <image>",
	Short: "Copy one image under a list of target names",
	Long: `Rename duplicates a single image under each name in a target list.
Names come from a list file (--names), or are suggested by an AI provider
from the image content (--ai).

A single target name writes the renamed file directly; multiple names are
packed into a {stem}_variaciones zip. Repeated names are numbered name_2,
name_3 and so on.`,
	Args: cobra.ExactArgs(1),
	RunE: runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)

	renameCmd.Flags().String("names", "", "Name list file (text, csv or xlsx, first column)")
	renameCmd.Flags().Bool("ai", false, "Generate names from the image content")
	renameCmd.Flags().Int("count", constants.DefaultSuggestionCount, "Number of AI name suggestions")
	renameCmd.Flags().String("provider", "", "AI provider: gemini or openai (default: first configured)")
	renameCmd.Flags().String("output-dir", ".", "Directory to write the result into")
}

func runRename(cmd *cobra.Command, args []string) error {
	imagePath := args[0]
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", imagePath, err)
	}

	var names []string
	switch {
	case mustGetString(cmd, "names") != "":
		names, err = catalog.ParseNameList(mustGetString(cmd, "names"))
		if err != nil {
			return fmt.Errorf("loading name list: %w", err)
		}
	case mustGetBool(cmd, "ai"):
		names, err = suggestNames(cmd, data)
		if err != nil {
			return err
		}
	default:
		return errors.New("either --names or --ai is required")
	}
	if len(names) == 0 {
		return errors.New("no names to apply")
	}

	fileName, _, out, err := renamer.Export(filepath.Base(imagePath), data, names)
	if err != nil {
		return err
	}

	outPath := filepath.Join(mustGetString(cmd, "output-dir"), fileName)
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Printf("Wrote %s (%d names)\n", outPath, len(names))
	return nil
}

func suggestNames(cmd *cobra.Command, imageData []byte) ([]string, error) {
	provider, err := newProvider(cmd.Context(), config.Load(), mustGetString(cmd, "provider"))
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, errors.New("no AI provider configured, set GEMINI_API_KEY or OPENAI_TOKEN")
	}

	fmt.Printf("Asking %s for name suggestions...\n", provider.Name())
	names, err := provider.SuggestFilenames(cmd.Context(), imageData, mustGetInt(cmd, "count"))
	if err != nil {
		return nil, fmt.Errorf("suggesting names: %w", err)
	}
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	printUsage(provider)
	return names, nil
}
