package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/solorzano0401/genesis-tools/internal/archive"
	"github.com/solorzano0401/genesis-tools/internal/transcoder"
)

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondFile sends raw file bytes as an attachment.
func respondFile(w http.ResponseWriter, fileName, mime string, data []byte) {
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// readUpload reads one multipart file fully into memory.
func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}
	return data, nil
}

// collectSources gathers image sources from "images" file parts plus any
// "archive" zip uploads, flattened to base filenames. Returned skipped names
// are archive entries that could not be read.
func collectSources(form *multipart.Form) (sources []transcoder.Source, skipped []string, err error) {
	for _, fh := range form.File["images"] {
		data, err := readUpload(fh)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, transcoder.Source{Name: filepath.Base(fh.Filename), Data: data})
	}

	for _, fh := range form.File["archive"] {
		data, err := readUpload(fh)
		if err != nil {
			return nil, nil, err
		}
		entries, bad, err := archive.ExtractImages(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", fh.Filename, err)
		}
		skipped = append(skipped, bad...)
		for _, e := range entries {
			sources = append(sources, transcoder.Source{Name: e.Path, Data: e.Data})
		}
	}
	return sources, skipped, nil
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
