// Package archive builds and unpacks the zip bundles used by the batch
// export and upload paths.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
)

// Entry is one file to place in an archive. Path uses forward slashes and may
// contain folder components.
type Entry struct {
	Path string
	Data []byte
}

// imageExts are the source formats accepted when unpacking an uploaded zip.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
}

// Build writes entries into a zip archive with deflate compression.
// onProgress, when non-nil, is called after each entry with the number of
// entries written so far and the total.
func Build(entries []Entry, onProgress func(done, total int)) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, entry := range entries {
		w, err := zw.Create(entry.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry %s: %w", entry.Path, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("failed to write archive entry %s: %w", entry.Path, err)
		}
		if onProgress != nil {
			onProgress(i+1, len(entries))
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// ExtractImages unpacks every image file from a zip, flattening folder
// structure to base names. Directories, macOS resource forks, hidden files and
// non-image entries are skipped. Entries that fail to read are skipped and
// returned by name so callers can report them without aborting the batch.
func ExtractImages(data []byte) (files []Entry, skipped []string, err error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open archive: %w", err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := path.Base(f.Name)
		if strings.HasPrefix(f.Name, "__MACOSX/") || strings.HasPrefix(name, ".") {
			continue
		}
		if !imageExts[strings.ToLower(path.Ext(name))] {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			skipped = append(skipped, name)
			continue
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			rc.Close()
			skipped = append(skipped, name)
			continue
		}
		rc.Close()
		files = append(files, Entry{Path: name, Data: buf.Bytes()})
	}
	return files, skipped, nil
}
