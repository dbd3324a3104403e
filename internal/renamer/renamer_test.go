package renamer

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/solorzano0401/genesis-tools/internal/matcher"
)

func TestPlanNames(t *testing.T) {
	tests := []struct {
		name   string
		names  []string
		source string
		want   []string
	}{
		{
			"appends extension",
			[]string{"zapato-rojo", "zapato-azul"},
			"foto.jpg",
			[]string{"zapato-rojo.jpg", "zapato-azul.jpg"},
		},
		{
			"keeps existing extension",
			[]string{"zapato.jpg"},
			"foto.jpg",
			[]string{"zapato.jpg"},
		},
		{
			"extension check is case insensitive",
			[]string{"zapato.JPG"},
			"foto.jpg",
			[]string{"zapato.JPG"},
		},
		{
			"duplicates numbered from 2",
			[]string{"a", "a", "a"},
			"foto.png",
			[]string{"a.png", "a_2.png", "a_3.png"},
		},
		{
			"duplicate detection ignores case",
			[]string{"Abc", "abc"},
			"foto.jpg",
			[]string{"Abc.jpg", "abc_2.jpg"},
		},
		{
			"blank names dropped",
			[]string{"a", "  ", "", "b"},
			"foto.jpg",
			[]string{"a.jpg", "b.jpg"},
		},
		{
			"source without extension defaults jpg",
			[]string{"a"},
			"foto",
			[]string{"a.jpg"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PlanNames(tc.names, tc.source)
			if len(got) != len(tc.want) {
				t.Fatalf("PlanNames = %v; want %v", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("name[%d] = %q; want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestFolderName(t *testing.T) {
	if got := FolderName("producto.jpg"); got != "producto_variaciones" {
		t.Errorf("FolderName = %q", got)
	}
}

func TestExport_SingleNameBypassesArchive(t *testing.T) {
	data := []byte("image bytes")

	name, mime, out, err := Export("foto.jpg", data, []string{"zapato-rojo"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if name != "zapato-rojo.jpg" {
		t.Errorf("file name = %q", name)
	}
	if mime != "image/jpeg" {
		t.Errorf("mime = %q; want image/jpeg", mime)
	}
	if !bytes.Equal(out, data) {
		t.Error("single-name export must return source bytes unchanged")
	}
}

func TestExport_MultipleNamesZipped(t *testing.T) {
	data := []byte("image bytes")

	name, mime, out, err := Export("foto.jpg", data, []string{"a", "b", "a"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if name != "foto_variaciones.zip" {
		t.Errorf("archive name = %q", name)
	}
	if mime != "application/zip" {
		t.Errorf("mime = %q", mime)
	}

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	want := []string{
		"foto_variaciones/a.jpg",
		"foto_variaciones/b.jpg",
		"foto_variaciones/a_2.jpg",
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

func TestExport_NoValidNames(t *testing.T) {
	if _, _, _, err := Export("foto.jpg", []byte("x"), []string{" ", ""}); err == nil {
		t.Error("expected error for empty name list")
	}
}

func TestExportMatched(t *testing.T) {
	items := []*matcher.Item{
		{OriginalName: "a.jpg", FinalName: "SKU1", Data: []byte("one")},
		{OriginalName: "b.png", FinalName: "SKU1_1", Data: []byte("two")},
	}

	out, err := ExportMatched(items, nil)
	if err != nil {
		t.Fatalf("ExportMatched failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	// Flat layout, final name plus original extension.
	if zr.File[0].Name != "SKU1.jpg" || zr.File[1].Name != "SKU1_1.png" {
		t.Errorf("entries = %s, %s", zr.File[0].Name, zr.File[1].Name)
	}
}

func TestExportMatched_RefusesDuplicates(t *testing.T) {
	items := []*matcher.Item{
		{OriginalName: "a.jpg", FinalName: "same", Data: []byte("one")},
		{OriginalName: "b.jpg", FinalName: "Same", Data: []byte("two")},
	}

	_, err := ExportMatched(items, nil)
	var dupErr *DuplicateNamesError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateNamesError, got %v", err)
	}
	if len(dupErr.Names) != 1 || dupErr.Names[0] != "same" {
		t.Errorf("duplicate names = %v", dupErr.Names)
	}
}

func TestExportMatched_Empty(t *testing.T) {
	if _, err := ExportMatched(nil, nil); err == nil {
		t.Error("expected error for empty working set")
	}
}
