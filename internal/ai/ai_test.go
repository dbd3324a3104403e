package ai

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

// Helper functions for creating test images

func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		for y := range height {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(img image.Image) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

// --- PrepareImage tests ---

func TestPrepareImage_NoResizeNeeded(t *testing.T) {
	data := encodeJPEG(createTestImage(100, 100, color.White))

	prepared, err := PrepareImage(data, 200)
	if err != nil {
		t.Fatalf("PrepareImage failed: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(prepared))
	if err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg format, got %s", format)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 100 {
		t.Errorf("dimensions must be unchanged, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestPrepareImage_DownscalesWide(t *testing.T) {
	data := encodeJPEG(createTestImage(1600, 800, color.White))

	prepared, err := PrepareImage(data, 800)
	if err != nil {
		t.Fatalf("PrepareImage failed: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(prepared))
	if err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 400 {
		t.Errorf("expected 800x400, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestPrepareImage_DownscalesTall(t *testing.T) {
	data := encodeJPEG(createTestImage(400, 1200, color.White))

	prepared, err := PrepareImage(data, 600)
	if err != nil {
		t.Fatalf("PrepareImage failed: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(prepared))
	if err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 600 {
		t.Errorf("expected 200x600, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestPrepareImage_PNGConvertedToJPEG(t *testing.T) {
	data := encodePNG(createTestImage(50, 50, color.Black))

	prepared, err := PrepareImage(data, 800)
	if err != nil {
		t.Fatalf("PrepareImage failed: %v", err)
	}

	_, format, err := image.Decode(bytes.NewReader(prepared))
	if err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg format, got %s", format)
	}
}

func TestPrepareImage_InvalidData(t *testing.T) {
	if _, err := PrepareImage([]byte("not an image"), 800); err == nil {
		t.Error("expected error for invalid image data")
	}
}

// --- Prompt builder tests ---

func TestBuildFilenamesPrompt(t *testing.T) {
	prompt := buildFilenamesPrompt(12)
	if !strings.Contains(prompt, "12 nombres") {
		t.Errorf("prompt missing count: %s", prompt)
	}
	if !strings.Contains(prompt, "ESPAÑOL") {
		t.Error("prompt must request Spanish names")
	}
}

func TestBuildSEOContext(t *testing.T) {
	got := buildSEOContext("botas de cuero")
	if !strings.Contains(got, `"botas de cuero"`) {
		t.Errorf("context missing quoted input: %s", got)
	}
}

func TestBuildSEOPrompt_SchemaFields(t *testing.T) {
	prompt := buildSEOPrompt()
	for _, field := range []string{"description", "primary", "attributes", "seoTitles"} {
		if !strings.Contains(prompt, field) {
			t.Errorf("prompt missing output field %q", field)
		}
	}
}
