package handlers

import (
	"archive/zip"
	"bytes"
	"net/http"
	"testing"
)

func TestRename_SingleName(t *testing.T) {
	h := NewRenameHandler()
	img := testJPEG(t, 10, 10)

	rec := postMultipart(t, h.Export, "/api/v1/rename",
		map[string]string{"names": "zapato-rojo"},
		map[string][]filePart{
			"image": {{name: "foto.jpg", data: img}},
		})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), img) {
		t.Error("single-name export must return source bytes unchanged")
	}
}

func TestRename_MultipleNames(t *testing.T) {
	h := NewRenameHandler()

	rec := postMultipart(t, h.Export, "/api/v1/rename",
		map[string]string{"names": "uno\ndos\nuno"},
		map[string][]filePart{
			"image": {{name: "foto.jpg", data: testJPEG(t, 10, 10)}},
		})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	want := []string{
		"foto_variaciones/uno.jpg",
		"foto_variaciones/dos.jpg",
		"foto_variaciones/uno_2.jpg",
	}
	if len(zr.File) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(zr.File))
	}
	for i, f := range zr.File {
		if f.Name != want[i] {
			t.Errorf("entry[%d] = %q; want %q", i, f.Name, want[i])
		}
	}
}

func TestRename_NamesFromFile(t *testing.T) {
	h := NewRenameHandler()

	rec := postMultipart(t, h.Export, "/api/v1/rename",
		nil,
		map[string][]filePart{
			"image":      {{name: "foto.jpg", data: testJPEG(t, 10, 10)}},
			"names_file": {{name: "names.txt", data: []byte("alpha\nbeta\n")}},
		})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Errorf("expected 2 entries, got %d", len(zr.File))
	}
}

func TestRename_NoImage(t *testing.T) {
	h := NewRenameHandler()

	rec := postMultipart(t, h.Export, "/api/v1/rename",
		map[string]string{"names": "a"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}

func TestRename_NoNames(t *testing.T) {
	h := NewRenameHandler()

	rec := postMultipart(t, h.Export, "/api/v1/rename",
		nil,
		map[string][]filePart{
			"image": {{name: "foto.jpg", data: testJPEG(t, 10, 10)}},
		})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}

func TestAI_NoProviderConfigured(t *testing.T) {
	h := NewAIHandler(nil)

	rec := postMultipart(t, h.SuggestFilenames, "/api/v1/ai/filenames",
		nil,
		map[string][]filePart{
			"image": {{name: "foto.jpg", data: testJPEG(t, 10, 10)}},
		})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d; want 503", rec.Code)
	}

	rec = postMultipart(t, h.GenerateSEO, "/api/v1/ai/seo",
		map[string]string{"text": "botas"}, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d; want 503", rec.Code)
	}
}
