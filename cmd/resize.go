package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/solorzano0401/genesis-tools/internal/catalog"
	"github.com/solorzano0401/genesis-tools/internal/constants"
	"github.com/solorzano0401/genesis-tools/internal/imaging"
	"github.com/solorzano0401/genesis-tools/internal/prefs"
	"github.com/solorzano0401/genesis-tools/internal/transcoder"
)

var resizeCmd = &cobra.Command{
	Use:   "resize [images|dirs|zips...]",
	Short: "Batch resize and convert images",
	Long: `Resize re-encodes a batch of images to the requested dimensions,
format and quality. A single image with a single output is written as a bare
file; everything else is packed into a zip archive.

With --dual a second rendition is produced per image and outputs are placed
in sibling folders named by pixel width (160 pairs with 1000 by default).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResize,
}

func init() {
	rootCmd.AddCommand(resizeCmd)

	resizeCmd.Flags().Int("width", 0, "Target width in pixels")
	resizeCmd.Flags().Int("height", 0, "Target height in pixels")
	resizeCmd.Flags().Bool("fit", false, "Derive the missing axis from each image's aspect ratio")
	resizeCmd.Flags().String("format", "", "Output format: jpeg, png or webp (default from preferences)")
	resizeCmd.Flags().Float64("quality", 0, "Encoding quality between 0.1 and 1.0 (default from preferences)")
	resizeCmd.Flags().Bool("dual", false, "Produce a paired secondary size per image")
	resizeCmd.Flags().Int("secondary-width", 0, "Secondary width (default pairs 160 with 1000)")
	resizeCmd.Flags().String("names", "", "Name list file for manual output naming")
	resizeCmd.Flags().String("base-name", "", "Base name for {base}_{n} output naming")
	resizeCmd.Flags().Bool("keep-names", false, "Keep original filenames")
	resizeCmd.Flags().String("archive-name", "", "Custom archive filename")
	resizeCmd.Flags().String("output-dir", ".", "Directory to write the result into")
}

// resizeDefaults loads sticky format/quality defaults from the preferences
// store and writes back the values used by this run.
func resizeDefaults(format string, quality float64) (string, float64) {
	store, err := prefs.OpenDefault()
	if err != nil {
		// Preferences are best effort; fall back to built-in defaults.
		if format == "" {
			format = "jpeg"
		}
		if quality == 0 {
			quality = constants.DefaultQuality
		}
		return format, quality
	}

	if format == "" {
		format = store.Get("resize.format", "jpeg")
	}
	if quality == 0 {
		quality, _ = strconv.ParseFloat(store.Get("resize.quality", ""), 64)
		if quality == 0 {
			quality = constants.DefaultQuality
		}
	}

	store.Set("resize.format", format)
	store.Set("resize.quality", strconv.FormatFloat(quality, 'f', 2, 64))
	if err := store.Save(); err != nil {
		fmt.Printf("Warning: could not save preferences: %v\n", err)
	}
	return format, quality
}

func buildResizeOptions(cmd *cobra.Command) (transcoder.Options, error) {
	formatStr, quality := resizeDefaults(mustGetString(cmd, "format"), mustGetFloat64(cmd, "quality"))

	format, err := imaging.ParseFormat(formatStr)
	if err != nil {
		return transcoder.Options{}, err
	}

	spec := imaging.Spec{
		Width:          mustGetInt(cmd, "width"),
		Height:         mustGetInt(cmd, "height"),
		Format:         format,
		Quality:        quality,
		MaintainAspect: mustGetBool(cmd, "fit"),
	}
	if err := spec.Validate(); err != nil {
		return transcoder.Options{}, err
	}

	opts := transcoder.Options{
		Spec:        spec,
		ArchiveName: mustGetString(cmd, "archive-name"),
	}

	if mustGetBool(cmd, "dual") {
		w := mustGetInt(cmd, "secondary-width")
		if w <= 0 {
			w = transcoder.SecondaryFor(spec.Width)
		}
		secondary := spec
		secondary.Width = w
		secondary.Height = w
		opts.Secondary = &secondary
	}

	switch {
	case mustGetBool(cmd, "keep-names"):
		opts.Naming.Strategy = transcoder.KeepOriginal
	case mustGetString(cmd, "names") != "":
		names, err := catalog.ParseManualNames(mustGetString(cmd, "names"))
		if err != nil {
			return transcoder.Options{}, fmt.Errorf("loading name list: %w", err)
		}
		opts.Naming.Strategy = transcoder.ManualList
		opts.Naming.ManualNames = names
	case mustGetString(cmd, "base-name") != "":
		opts.Naming.Strategy = transcoder.BaseNamePlusIndex
		opts.Naming.BaseName = mustGetString(cmd, "base-name")
	}
	return opts, nil
}

func runResize(cmd *cobra.Command, args []string) error {
	opts, err := buildResizeOptions(cmd)
	if err != nil {
		return err
	}

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

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("Processing images"),
		progressbar.OptionShowCount(),
		progressbar.OptionFullWidth(),
	)
	result, err := transcoder.RunBatch(cmd.Context(), sources, opts, func(percent int) {
		_ = bar.Set(percent)
	})
	if err != nil {
		return err
	}
	fmt.Println()

	for _, f := range result.Failed {
		fmt.Printf("Warning: skipped %s\n", f.Error())
	}

	outPath := filepath.Join(mustGetString(cmd, "output-dir"), result.FileName)
	if err := os.WriteFile(outPath, result.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", outPath, len(result.Data))
	return nil
}
