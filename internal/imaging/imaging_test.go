package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
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

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// --- ParseFormat / Format tests ---

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"jpeg", FormatJPEG, false},
		{"jpg", FormatJPEG, false},
		{"JPG", FormatJPEG, false},
		{"image/jpeg", FormatJPEG, false},
		{"png", FormatPNG, false},
		{"image/png", FormatPNG, false},
		{"webp", FormatWEBP, false},
		{"gif", "", true},
		{"", "", true},
	}

	for _, tc := range tests {
		got, err := ParseFormat(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %s; want %s", tc.input, got, tc.want)
		}
	}
}

func TestFormatExt(t *testing.T) {
	if FormatJPEG.Ext() != "jpg" {
		t.Errorf("jpeg ext = %q; want jpg", FormatJPEG.Ext())
	}
	if FormatPNG.Ext() != "png" {
		t.Errorf("png ext = %q; want png", FormatPNG.Ext())
	}
	if FormatWEBP.Ext() != "webp" {
		t.Errorf("webp ext = %q; want webp", FormatWEBP.Ext())
	}
}

func TestEffectiveQuality(t *testing.T) {
	if q := EffectiveQuality(FormatPNG, 0.8); q != PNGQualitySentinel {
		t.Errorf("PNG effective quality = %v; want sentinel", q)
	}
	if q := EffectiveQuality(FormatJPEG, 0.8); q != 0.8 {
		t.Errorf("JPEG effective quality = %v; want 0.8", q)
	}
	if q := EffectiveQuality(FormatWEBP, 0.5); q != 0.5 {
		t.Errorf("WEBP effective quality = %v; want 0.5", q)
	}
}

func TestSpecValidate(t *testing.T) {
	valid := Spec{Width: 100, Height: 100, Format: FormatJPEG, Quality: 0.8}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid spec rejected: %v", err)
	}

	tests := []struct {
		name string
		spec Spec
	}{
		{"no dimensions", Spec{Format: FormatJPEG, Quality: 0.8}},
		{"missing height without aspect", Spec{Width: 100, Format: FormatJPEG, Quality: 0.8}},
		{"quality too low", Spec{Width: 100, Height: 100, Format: FormatJPEG, Quality: 0.05}},
		{"quality too high", Spec{Width: 100, Height: 100, Format: FormatJPEG, Quality: 1.5}},
		{"bad format", Spec{Width: 100, Height: 100, Format: "gif", Quality: 0.8}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.spec.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	fitOnly := Spec{Width: 600, MaintainAspect: true, Format: FormatJPEG, Quality: 0.8}
	if err := fitOnly.Validate(); err != nil {
		t.Errorf("single-axis spec with aspect rejected: %v", err)
	}
}

// --- TargetDims tests ---

func TestTargetDims(t *testing.T) {
	src := Dims{W: 1200, H: 800}

	tests := []struct {
		name   string
		reqW   int
		reqH   int
		aspect bool
		want   Dims
	}{
		{"width derives height", 600, 0, true, Dims{W: 600, H: 400}},
		{"height derives width", 0, 400, true, Dims{W: 600, H: 400}},
		{"both explicit", 500, 500, true, Dims{W: 500, H: 500}},
		{"both explicit no aspect", 300, 100, false, Dims{W: 300, H: 100}},
		{"nothing requested", 0, 0, true, src},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TargetDims(src, tc.reqW, tc.reqH, tc.aspect)
			if got != tc.want {
				t.Errorf("TargetDims = %+v; want %+v", got, tc.want)
			}
		})
	}
}

func TestTargetDims_Rounding(t *testing.T) {
	// 1000x667 at width 500 -> 333.5, rounds to 334.
	got := TargetDims(Dims{W: 1000, H: 667}, 500, 0, true)
	if got.H != 334 {
		t.Errorf("expected rounded height 334, got %d", got.H)
	}
}

func TestFitAxes(t *testing.T) {
	src := Dims{W: 1200, H: 800}

	if got := FitWidth(src, 600); got != (Dims{W: 600, H: 400}) {
		t.Errorf("FitWidth = %+v", got)
	}
	if got := FitHeight(src, 200); got != (Dims{W: 300, H: 200}) {
		t.Errorf("FitHeight = %+v", got)
	}
}

// --- Decode / Transcode tests ---

func TestSourceDims(t *testing.T) {
	data := encodeJPEG(t, createTestImage(320, 240, color.White))

	dims, err := SourceDims(data)
	if err != nil {
		t.Fatalf("SourceDims failed: %v", err)
	}
	if dims != (Dims{W: 320, H: 240}) {
		t.Errorf("SourceDims = %+v; want 320x240", dims)
	}
}

func TestTranscode_ExactDimensions(t *testing.T) {
	data := encodeJPEG(t, createTestImage(800, 600, color.White))

	out, err := Transcode(data, 400, 300, FormatJPEG, 0.8)
	if err != nil {
		t.Fatalf("Transcode failed: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %s", format)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 300 {
		t.Errorf("expected 400x300, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestTranscode_PNGOutput(t *testing.T) {
	data := encodeJPEG(t, createTestImage(100, 100, color.White))

	out, err := Transcode(data, 50, 50, FormatPNG, 0.8)
	if err != nil {
		t.Fatalf("Transcode failed: %v", err)
	}
	_, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "png" {
		t.Errorf("expected png output, got %s", format)
	}
}

func TestTranscode_WEBPOutput(t *testing.T) {
	data := encodeJPEG(t, createTestImage(100, 100, color.White))

	out, err := Transcode(data, 50, 50, FormatWEBP, 0.8)
	if err != nil {
		t.Fatalf("Transcode failed: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty webp output")
	}
	// RIFF....WEBP container header.
	if !bytes.HasPrefix(out, []byte("RIFF")) || !bytes.Equal(out[8:12], []byte("WEBP")) {
		t.Error("output does not look like a WEBP container")
	}
}

func TestTranscode_JPEGFlattensTransparency(t *testing.T) {
	// Fully transparent source: JPEG output must be opaque white, not black.
	src := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	data := encodePNG(t, src)

	out, err := Transcode(data, 40, 40, FormatJPEG, 0.9)
	if err != nil {
		t.Fatalf("Transcode failed: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	r, g, b, a := img.At(20, 20).RGBA()
	if a != 0xffff {
		t.Errorf("expected opaque output, alpha %x", a)
	}
	// JPEG is lossy; accept near-white.
	const min = 0xf000
	if r < min || g < min || b < min {
		t.Errorf("expected white background, got rgb(%x, %x, %x)", r, g, b)
	}
}

func TestTranscode_InvalidInput(t *testing.T) {
	if _, err := Transcode([]byte("not an image"), 100, 100, FormatJPEG, 0.8); err == nil {
		t.Error("expected error for invalid image data")
	}
	if _, err := Transcode([]byte{}, 100, 100, FormatJPEG, 0.8); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestTranscode_InvalidDimensions(t *testing.T) {
	data := encodeJPEG(t, createTestImage(100, 100, color.White))

	if _, err := Transcode(data, 0, 100, FormatJPEG, 0.8); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := Transcode(data, 100, -1, FormatJPEG, 0.8); err == nil {
		t.Error("expected error for negative height")
	}
}

func TestTranscode_BMPInput(t *testing.T) {
	// BMP decoding is registered via golang.org/x/image/bmp. Build a minimal
	// BMP through the decoder's own round trip is not possible (no encoder in
	// stdlib), so just verify PNG input is handled through the generic path.
	data := encodePNG(t, createTestImage(64, 64, color.Black))

	out, err := Transcode(data, 32, 32, FormatPNG, 0.8)
	if err != nil {
		t.Fatalf("Transcode failed: %v", err)
	}
	img, _, _ := image.Decode(bytes.NewReader(out))
	if img.Bounds().Dx() != 32 {
		t.Errorf("expected width 32, got %d", img.Bounds().Dx())
	}
}

func TestJPEGQualityClamping(t *testing.T) {
	if q := jpegQuality(0.8); q != 80 {
		t.Errorf("jpegQuality(0.8) = %d; want 80", q)
	}
	if q := jpegQuality(0.0); q != 1 {
		t.Errorf("jpegQuality(0.0) = %d; want 1", q)
	}
	if q := jpegQuality(2.0); q != 100 {
		t.Errorf("jpegQuality(2.0) = %d; want 100", q)
	}
}
