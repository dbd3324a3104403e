package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/solorzano0401/genesis-tools/internal/catalog"
	"github.com/solorzano0401/genesis-tools/internal/constants"
	"github.com/solorzano0401/genesis-tools/internal/matcher"
	"github.com/solorzano0401/genesis-tools/internal/renamer"
)

// encoderOutputName is the archive filename for matched-set exports.
const encoderOutputName = "codificador_output.zip"

// templateName is the starter catalog offered for download.
const templateName = "plantilla_catalogo.xlsx"

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EncoderHandler implements the SKU/image matching endpoints.
type EncoderHandler struct{}

// NewEncoderHandler creates a new encoder handler.
func NewEncoderHandler() *EncoderHandler {
	return &EncoderHandler{}
}

// move is one drag-reorder step applied after matching.
type move struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// matchResponse is the payload returned by Match.
type matchResponse struct {
	Items      []*matcher.Item `json:"items"`
	Duplicates []string        `json:"duplicates,omitempty"`
	Skipped    []string        `json:"skipped,omitempty"`
}

// buildWorkingSet parses the catalog and images out of a multipart request,
// runs the matching pass, and applies any requested removes and moves in
// order. Indexes refer to the list as it stands when each step applies.
func (h *EncoderHandler) buildWorkingSet(r *http.Request) (*matchResponse, error) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		return nil, errors.New("failed to parse multipart form")
	}

	catalogFiles := r.MultipartForm.File["catalog"]
	if len(catalogFiles) == 0 {
		return nil, errors.New("catalog file is required")
	}
	catalogData, err := readUpload(catalogFiles[0])
	if err != nil {
		return nil, err
	}
	entries, err := catalog.LoadReader(bytes.NewReader(catalogData), catalogFiles[0].Filename)
	if err != nil {
		return nil, err
	}

	sources, skipped, err := collectSources(r.MultipartForm)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, errors.New("no images provided")
	}

	items := make([]*matcher.Item, len(sources))
	for i, src := range sources {
		items[i] = matcher.NewItem(src.Name, src.Data)
	}
	matcher.ValidateAll(items, entries)

	if removesJSON := r.FormValue("removes"); removesJSON != "" {
		var removes []int
		if err := json.Unmarshal([]byte(removesJSON), &removes); err != nil {
			return nil, errors.New("invalid removes payload")
		}
		for _, idx := range removes {
			items = matcher.Remove(items, idx)
		}
	}

	if movesJSON := r.FormValue("moves"); movesJSON != "" {
		var moves []move
		if err := json.Unmarshal([]byte(movesJSON), &moves); err != nil {
			return nil, errors.New("invalid moves payload")
		}
		for _, m := range moves {
			items = matcher.Reorder(items, m.From, m.To)
		}
	}

	return &matchResponse{
		Items:      items,
		Duplicates: matcher.CheckDuplicates(items),
		Skipped:    skipped,
	}, nil
}

// Match runs the catalog matching pass and returns the working set with
// resolved final names, without producing an archive.
func (h *EncoderHandler) Match(w http.ResponseWriter, r *http.Request) {
	set, err := h.buildWorkingSet(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, set)
}

// Export packages the matched working set as a flat zip. Colliding final
// names refuse the export with 409 and the offending names.
func (h *EncoderHandler) Export(w http.ResponseWriter, r *http.Request) {
	set, err := h.buildWorkingSet(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := renamer.ExportMatched(set.Items, nil)
	if err != nil {
		var dupErr *renamer.DuplicateNamesError
		if errors.As(err, &dupErr) {
			respondJSON(w, http.StatusConflict, map[string]any{
				"error":      "duplicate final names",
				"duplicates": dupErr.Names,
			})
			return
		}
		log.Printf("encoder export failed: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondFile(w, encoderOutputName, "application/zip", data)
}

// Template serves an empty catalog spreadsheet with the expected columns,
// seeded with one example row.
func (h *EncoderHandler) Template(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := catalog.WriteXLSX(&buf, []catalog.Entry{
		{SKU: "SKU-0001", Model: "modelo-ejemplo"},
	})
	if err != nil {
		log.Printf("encoder template failed: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondFile(w, templateName, xlsxMIME, buf.Bytes())
}
