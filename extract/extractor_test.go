package extract

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writePNGFixture renders a small PNG to dir. One translucent pixel keeps
// the encoder from collapsing the image to an alpha-less color type.
func writePNGFixture(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	img.Set(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestExtractMissingFile(t *testing.T) {
	x := NewExtractor(nil)
	rec := x.Extract(filepath.Join(t.TempDir(), "does-not-exist.jpg"))
	if rec == nil {
		t.Fatal("extract must always return a record")
	}
	// Only the extension-table pass can contribute for a missing file.
	if got := rec.GetString("RAW_File"); got != "NO" {
		t.Errorf("expected RAW_File=NO, got %q", got)
	}
	if rec.Has("Error") {
		t.Error("per-pass failures must not produce a top-level Error field")
	}
}

func TestExtractPlainPNG(t *testing.T) {
	path := writePNGFixture(t, t.TempDir(), "plain.png")

	x := NewExtractor(nil)
	rec := x.Extract(path)

	if got := rec.GetString("File_Name"); got != "plain.png" {
		t.Errorf("File_Name = %q", got)
	}
	if got := rec.GetString("File_Extension"); got != ".png" {
		t.Errorf("File_Extension = %q", got)
	}
	if got := rec.GetString("Image_Format"); got != "PNG" {
		t.Errorf("Image_Format = %q", got)
	}
	if got := rec.GetString("Image_Size"); got != "8x4" {
		t.Errorf("Image_Size = %q", got)
	}
	if got := rec.GetString("MakerNotes_Present"); got != "NO" {
		t.Errorf("MakerNotes_Present = %q, want NO", got)
	}
	if rec.Has("GPS_Presence") {
		t.Error("a PNG without EXIF must not report GPS presence")
	}
	if got := rec.GetString("Color_ICC_Present"); got != "NO" {
		t.Errorf("Color_ICC_Present = %q, want NO", got)
	}
	if got := rec.GetString("XMP_Present"); got != "NO" {
		t.Errorf("XMP_Present = %q, want NO", got)
	}
	if got := rec.GetString("RAW_File"); got != "NO" {
		t.Errorf("RAW_File = %q, want NO", got)
	}
}

func TestExtractTechnicalSpecs(t *testing.T) {
	path := writePNGFixture(t, t.TempDir(), "tech.png")

	x := NewExtractor(nil)
	rec := x.Extract(path)

	if got := rec.GetString("Technical_Mode"); got != "RGBA" {
		t.Errorf("Technical_Mode = %q", got)
	}
	if got := rec.GetString("Technical_Aspect_Ratio"); got != "2.0000" {
		t.Errorf("Technical_Aspect_Ratio = %q", got)
	}
	if got := rec.GetString("Technical_Bit_Depth"); got != "32" {
		t.Errorf("Technical_Bit_Depth = %q", got)
	}
	if got := rec.GetString("Technical_Color_Bands"); got != "R|G|B|A" {
		t.Errorf("Technical_Color_Bands = %q", got)
	}
}

func TestExtractRAWByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "IMG_1234.CR2")
	if err := os.WriteFile(path, []byte("not really raw data"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	x := NewExtractor(nil)
	rec := x.Extract(path)

	if got := rec.GetString("RAW_File"); got != "YES" {
		t.Errorf("RAW_File = %q, want YES", got)
	}
	if got := rec.GetString("RAW_Format"); got != "Canon RAW" {
		t.Errorf("RAW_Format = %q, want Canon RAW", got)
	}
}

func TestExtractZeroByteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.jpg")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	x := NewExtractor(nil)
	rec := x.Extract(path)

	if got := rec.GetString("File_Size_Bytes"); got != "0" {
		t.Errorf("File_Size_Bytes = %q", got)
	}
	if got := rec.GetString("MakerNotes_Present"); got != "NO" {
		t.Errorf("MakerNotes_Present = %q, want NO", got)
	}
	if rec.Has("Error") {
		t.Error("zero-byte file must not abort extraction")
	}
}

func TestExtractFileInfoOrderedFirst(t *testing.T) {
	path := writePNGFixture(t, t.TempDir(), "first.png")

	x := NewExtractor(nil)
	rec := x.Extract(path)

	keys := rec.Keys()
	if len(keys) == 0 || keys[0] != "File_Path" {
		t.Errorf("file info pass must contribute first, got leading key %v", keys[:1])
	}
}
