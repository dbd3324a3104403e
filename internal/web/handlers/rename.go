package handlers

import (
	"bytes"
	"net/http"
	"path/filepath"

	"github.com/solorzano0401/genesis-tools/internal/catalog"
	"github.com/solorzano0401/genesis-tools/internal/constants"
	"github.com/solorzano0401/genesis-tools/internal/renamer"
)

// RenameHandler implements the bulk rename endpoint: one image duplicated
// under a list of target names.
type RenameHandler struct{}

// NewRenameHandler creates a new rename handler.
func NewRenameHandler() *RenameHandler {
	return &RenameHandler{}
}

// Export accepts a single image plus target names (a "names" text field or a
// "names_file" sheet upload) and returns the renamed copy or a zip of copies.
func (h *RenameHandler) Export(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	images := r.MultipartForm.File["image"]
	if len(images) != 1 {
		respondError(w, http.StatusBadRequest, "exactly one image is required")
		return
	}
	data, err := readUpload(images[0])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	names := splitLines(r.FormValue("names"))
	if files := r.MultipartForm.File["names_file"]; len(files) > 0 {
		raw, err := readUpload(files[0])
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		parsed, err := catalog.ParseNameListReader(bytes.NewReader(raw), files[0].Filename)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		names = append(names, parsed...)
	}

	fileName, mime, out, err := renamer.Export(filepath.Base(images[0].Filename), data, names)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondFile(w, fileName, mime, out)
}
