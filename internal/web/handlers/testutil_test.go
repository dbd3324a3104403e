package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// multipartBody builds a multipart request body from form fields and files.
func multipartBody(t *testing.T, fields map[string]string, files map[string][]filePart) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	for key, parts := range files {
		for _, p := range parts {
			fw, err := mw.CreateFormFile(key, p.name)
			if err != nil {
				t.Fatalf("create file part %s: %v", p.name, err)
			}
			if _, err := fw.Write(p.data); err != nil {
				t.Fatalf("write file part %s: %v", p.name, err)
			}
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

type filePart struct {
	name string
	data []byte
}

// postMultipart performs a multipart POST against a handler func.
func postMultipart(t *testing.T, handler http.HandlerFunc, path string, fields map[string]string, files map[string][]filePart) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, files)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

// testJPEG encodes a solid-color JPEG for upload fixtures.
func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// testCatalogCSV is a small SKU/MODEL catalog fixture.
const testCatalogCSV = "SKU,MODEL\nA1,shoe-x\nB2,boot-y\n"
