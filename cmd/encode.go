package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/solorzano0401/genesis-tools/internal/catalog"
	"github.com/solorzano0401/genesis-tools/internal/matcher"
	"github.com/solorzano0401/genesis-tools/internal/renamer"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [images|dirs|zips...]",
	Short: "Match images against a SKU catalog and export renamed copies",
	Long: `Encode matches image filenames against an Excel or CSV catalog of
(SKU, MODEL) pairs, assigns collision-free final names, and exports the
renamed set as a zip archive.

Multiple images matching the same SKU are numbered in display order: the
first gets the bare SKU, later ones get SKU_1, SKU_2 and so on.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().String("catalog", "", "Catalog file with SKU and MODEL columns (xlsx or csv)")
	encodeCmd.Flags().StringSlice("move", nil, "Reorder items before naming, as from:to index pairs (repeatable)")
	encodeCmd.Flags().String("output", "codificador_output.zip", "Output archive path")
	encodeCmd.Flags().Bool("dry-run", false, "Print the name assignments without writing the archive")
	_ = encodeCmd.MarkFlagRequired("catalog")
}

// parseMove parses a "from:to" index pair.
func parseMove(s string) (from, to int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid move %q, expected from:to", s)
	}
	from, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid move %q: %w", s, err)
	}
	to, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid move %q: %w", s, err)
	}
	return from, to, nil
}

func runEncode(cmd *cobra.Command, args []string) error {
	entries, err := catalog.Load(mustGetString(cmd, "catalog"))
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	fmt.Printf("Loaded %d catalog entries\n", len(entries))

	sources, skipped, err := collectImages(args)
	if err != nil {
		return err
	}
	for _, name := range skipped {
		fmt.Printf("Warning: skipped unreadable archive entry %s\n", name)
	}
	if len(sources) == 0 {
		return errors.New("no images found")
	}

	items := make([]*matcher.Item, len(sources))
	for i, src := range sources {
		items[i] = matcher.NewItem(src.Name, src.Data)
	}
	matcher.ValidateAll(items, entries)

	for _, m := range mustGetStringSlice(cmd, "move") {
		from, to, err := parseMove(m)
		if err != nil {
			return err
		}
		items = matcher.Reorder(items, from, to)
	}

	matched := 0
	for _, item := range items {
		marker := " "
		if item.Match != nil {
			marker = "*"
			matched++
		}
		fmt.Printf("%s %-40s -> %s\n", marker, item.OriginalName, item.FinalName)
	}
	fmt.Printf("Matched %d of %d images\n", matched, len(items))

	if dups := matcher.CheckDuplicates(items); len(dups) > 0 {
		return fmt.Errorf("duplicate final names, rename before exporting: %s", strings.Join(dups, ", "))
	}

	if mustGetBool(cmd, "dry-run") {
		return nil
	}

	bar := progressbar.NewOptions(len(items),
		progressbar.OptionSetDescription("Packing archive"),
		progressbar.OptionShowCount(),
		progressbar.OptionFullWidth(),
	)
	data, err := renamer.ExportMatched(items, func(done, total int) {
		_ = bar.Set(done)
	})
	if err != nil {
		return fmt.Errorf("exporting archive: %w", err)
	}

	output := mustGetString(cmd, "output")
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Printf("\nWrote %s (%d files)\n", output, len(items))
	return nil
}
