package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/solorzano0401/genesis-tools/internal/archive"
	"github.com/solorzano0401/genesis-tools/internal/transcoder"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
}

// collectImages loads image sources from a mix of files, directories and zip
// archives. Directory scans are non-recursive and sorted by name so runs are
// deterministic. Unreadable archive entries are returned as skipped names.
func collectImages(paths []string) (sources []transcoder.Source, skipped []string, err error) {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot access %s: %w", path, err)
		}

		if info.IsDir() {
			dirSources, err := collectDir(path)
			if err != nil {
				return nil, nil, err
			}
			sources = append(sources, dirSources...)
			continue
		}

		if strings.EqualFold(filepath.Ext(path), ".zip") {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, nil, fmt.Errorf("cannot read %s: %w", path, err)
			}
			entries, bad, err := archive.ExtractImages(data)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", path, err)
			}
			skipped = append(skipped, bad...)
			for _, e := range entries {
				sources = append(sources, transcoder.Source{Name: e.Path, Data: e.Data})
			}
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		sources = append(sources, transcoder.Source{Name: filepath.Base(path), Data: data})
	}
	return sources, skipped, nil
}

func collectDir(dir string) ([]transcoder.Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	sources := make([]transcoder.Source, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", name, err)
		}
		sources = append(sources, transcoder.Source{Name: name, Data: data})
	}
	return sources, nil
}
