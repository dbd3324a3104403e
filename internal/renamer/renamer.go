// Package renamer implements the bulk rename tool: one source image copied
// under a list of target names, plus the matcher's export packaging.
package renamer

import (
	"fmt"
	"strings"

	"github.com/solorzano0401/genesis-tools/internal/archive"
	"github.com/solorzano0401/genesis-tools/internal/matcher"
)

// PlanNames resolves a target name list against the source extension.
// Names missing the extension get it appended (case-insensitive check), and
// repeated names are disambiguated with _2, _3 and so on in list order.
func PlanNames(names []string, sourceName string) []string {
	ext := "." + matcher.Ext(sourceName)
	seen := make(map[string]int)
	out := make([]string, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
			name += ext
		}
		key := strings.ToLower(name)
		seen[key]++
		if n := seen[key]; n > 1 {
			stem := strings.TrimSuffix(name, ext)
			name = fmt.Sprintf("%s_%d%s", stem, n, ext)
		}
		out = append(out, name)
	}
	return out
}

// FolderName is the top-level folder used when exporting multiple copies.
func FolderName(sourceName string) string {
	return matcher.Stem(sourceName) + "_variaciones"
}

// Export packages the source bytes under each planned name. A single name
// skips archiving and returns the bare file; multiple names produce a zip
// with every copy under the variations folder.
func Export(sourceName string, data []byte, names []string) (fileName string, mime string, out []byte, err error) {
	planned := PlanNames(names, sourceName)
	if len(planned) == 0 {
		return "", "", nil, fmt.Errorf("no valid names provided")
	}

	if len(planned) == 1 {
		return planned[0], mimeForExt(matcher.Ext(sourceName)), data, nil
	}

	folder := FolderName(sourceName)
	entries := make([]archive.Entry, len(planned))
	for i, name := range planned {
		entries[i] = archive.Entry{Path: folder + "/" + name, Data: data}
	}
	zipped, err := archive.Build(entries, nil)
	if err != nil {
		return "", "", nil, err
	}
	return folder + ".zip", "application/zip", zipped, nil
}

// ExportMatched packages the encoder working set: each item's bytes under its
// resolved final name plus the original extension. Layout is flat.
func ExportMatched(items []*matcher.Item, onProgress func(done, total int)) ([]byte, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no images to export")
	}
	if dups := matcher.CheckDuplicates(items); len(dups) > 0 {
		return nil, &DuplicateNamesError{Names: dups}
	}

	entries := make([]archive.Entry, len(items))
	for i, item := range items {
		entries[i] = archive.Entry{
			Path: item.FinalName + "." + matcher.Ext(item.OriginalName),
			Data: item.Data,
		}
	}
	return archive.Build(entries, onProgress)
}

// DuplicateNamesError blocks an export whose final names collide.
type DuplicateNamesError struct {
	Names []string
}

func (e *DuplicateNamesError) Error() string {
	return fmt.Sprintf("duplicate final names: %s", strings.Join(e.Names, ", "))
}

func mimeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}
