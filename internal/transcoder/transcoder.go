// Package transcoder runs resize/re-encode batches and assembles the
// downloadable artifact: raw bytes for a single output, a zip otherwise.
package transcoder

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/solorzano0401/genesis-tools/internal/archive"
	"github.com/solorzano0401/genesis-tools/internal/constants"
	"github.com/solorzano0401/genesis-tools/internal/imaging"
	"github.com/solorzano0401/genesis-tools/internal/matcher"
)

// Source is one input image for a batch.
type Source struct {
	Name string
	Data []byte
}

// Strategy selects how output filenames are derived.
type Strategy int

const (
	// OriginalPlusDimensions appends "_{w}x{h}" to the source stem. Default.
	OriginalPlusDimensions Strategy = iota
	// KeepOriginal reuses the source stem unchanged.
	KeepOriginal
	// ManualList takes the i-th entry of a user-provided name list, falling
	// through to the next strategy when the list runs out.
	ManualList
	// BaseNamePlusIndex produces "{base}_{i+1}".
	BaseNamePlusIndex
)

// Naming bundles the strategy with its inputs.
type Naming struct {
	Strategy Strategy
	// ManualNames backs the ManualList strategy, one name per item index.
	// Blank entries mean "no name for that index", not "skip the slot".
	ManualNames []string
	// BaseName backs the BaseNamePlusIndex strategy.
	BaseName string
}

// Options configures one batch run.
type Options struct {
	Spec imaging.Spec
	// Secondary, when set, requests a second rendition per source. Outputs
	// then land in sibling folders named by pixel width.
	Secondary *imaging.Spec
	Naming    Naming
	// ArchiveName overrides the default archive filename. ".zip" is appended
	// when missing.
	ArchiveName string
}

// ItemError records one source that failed to transcode.
type ItemError struct {
	Name string
	Err  error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

// Result is the outcome of a batch run. Exactly one of the two output shapes
// is populated: a bare file for single-source single-output runs, an archive
// for everything else.
type Result struct {
	FileName string
	MIME     string
	Data     []byte
	Archived bool
	// Failed lists sources skipped because they could not be transcoded.
	Failed []ItemError
}

// SecondaryFor returns the paired secondary width for a primary width:
// 160 pairs with 1000 and anything else pairs with 160.
func SecondaryFor(primaryWidth int) int {
	if primaryWidth == constants.SecondarySmall {
		return constants.SecondaryLarge
	}
	return constants.SecondarySmall
}

// OutputName resolves the filename for the item at index, without extension.
// Strategy precedence is evaluated top-down: a ManualList with no entry for
// the index falls through to BaseNamePlusIndex, then to the dimension-suffix
// default. The suffix is omitted in dual-output runs because the folder split
// already disambiguates sizes.
func OutputName(src Source, index int, naming Naming, dims imaging.Dims, dualOutput bool) string {
	switch naming.Strategy {
	case KeepOriginal:
		return matcher.Stem(src.Name)
	case ManualList:
		if index < len(naming.ManualNames) && strings.TrimSpace(naming.ManualNames[index]) != "" {
			return strings.TrimSpace(naming.ManualNames[index])
		}
		fallthrough
	case BaseNamePlusIndex:
		if naming.BaseName != "" {
			return fmt.Sprintf("%s_%d", naming.BaseName, index+1)
		}
	}
	if dualOutput {
		return matcher.Stem(src.Name)
	}
	return fmt.Sprintf("%s_%dx%d", matcher.Stem(src.Name), dims.W, dims.H)
}

// RunBatch transcodes every source sequentially, one decoded bitmap in memory
// at a time. onProgress, when non-nil, receives round(done/total*100) after
// each source. Per-source failures are skipped and reported in Result.Failed;
// the batch aborts only when ctx is cancelled or no source survives.
func RunBatch(ctx context.Context, sources []Source, opts Options, onProgress func(percent int)) (*Result, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images to process")
	}
	if err := opts.Spec.Validate(); err != nil {
		return nil, err
	}
	if opts.Secondary != nil {
		if err := opts.Secondary.Validate(); err != nil {
			return nil, fmt.Errorf("secondary spec: %w", err)
		}
	}

	dual := opts.Secondary != nil
	result := &Result{}
	var entries []archive.Entry

	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		srcDims, err := imaging.SourceDims(src.Data)
		if err != nil {
			result.Failed = append(result.Failed, ItemError{Name: src.Name, Err: err})
			reportProgress(onProgress, i+1, len(sources))
			continue
		}

		primary := resolveDims(srcDims, opts.Spec)
		name := OutputName(src, i, opts.Naming, primary, dual)

		out, err := imaging.Transcode(src.Data, primary.W, primary.H, opts.Spec.Format, opts.Spec.Quality)
		if err != nil {
			result.Failed = append(result.Failed, ItemError{Name: src.Name, Err: err})
			reportProgress(onProgress, i+1, len(sources))
			continue
		}

		if !dual {
			entries = append(entries, archive.Entry{
				Path: name + "." + opts.Spec.Format.Ext(),
				Data: out,
			})
		} else {
			secondary := resolveDims(srcDims, *opts.Secondary)
			out2, err := imaging.Transcode(src.Data, secondary.W, secondary.H, opts.Secondary.Format, opts.Secondary.Quality)
			if err != nil {
				result.Failed = append(result.Failed, ItemError{Name: src.Name, Err: err})
				reportProgress(onProgress, i+1, len(sources))
				continue
			}
			entries = append(entries,
				archive.Entry{
					Path: strconv.Itoa(primary.W) + "/" + name + "." + opts.Spec.Format.Ext(),
					Data: out,
				},
				archive.Entry{
					Path: strconv.Itoa(secondary.W) + "/" + name + "." + opts.Secondary.Format.Ext(),
					Data: out2,
				},
			)
		}
		reportProgress(onProgress, i+1, len(sources))
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("all %d images failed to process", len(sources))
	}

	// Single output skips archiving entirely.
	if len(entries) == 1 {
		result.FileName = entries[0].Path
		result.MIME = opts.Spec.Format.MIME()
		result.Data = entries[0].Data
		return result, nil
	}

	data, err := archive.Build(entries, nil)
	if err != nil {
		return nil, err
	}
	result.FileName = archiveName(opts, sources)
	result.MIME = "application/zip"
	result.Data = data
	result.Archived = true
	return result, nil
}

func resolveDims(src imaging.Dims, spec imaging.Spec) imaging.Dims {
	return imaging.TargetDims(src, spec.Width, spec.Height, spec.MaintainAspect)
}

func reportProgress(onProgress func(int), done, total int) {
	if onProgress == nil {
		return
	}
	onProgress(int(math.Round(float64(done) / float64(total) * 100)))
}

func archiveName(opts Options, sources []Source) string {
	if opts.ArchiveName != "" {
		name := opts.ArchiveName
		if !strings.HasSuffix(strings.ToLower(name), ".zip") {
			name += ".zip"
		}
		return name
	}
	if len(sources) == 1 {
		return matcher.Stem(sources[0].Name) + "_kit.zip"
	}
	return fmt.Sprintf("lote_imagenes_%d_archivos.zip", len(sources))
}
