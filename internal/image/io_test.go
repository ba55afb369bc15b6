package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func testFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := range 3 {
		for x := range 4 {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 80), B: 40, A: 255})
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"png", FormatPNG},
		{".PNG", FormatPNG},
		{"jpg", FormatJPEG},
		{"jpeg", FormatJPEG},
		{"bmp", FormatBMP},
		{"tif", FormatTIFF},
		{".tiff", FormatTIFF},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ParseFormat(gif) error = %v", err)
	}
	if f, _ := FormatFromPath("out/frame.Bmp"); f != FormatBMP {
		t.Errorf("FormatFromPath = %v", f)
	}
	if s := Format(42).String(); s != "Format(42)" {
		t.Errorf("String() = %q", s)
	}
}

func TestEncodeDecodeLossless(t *testing.T) {
	src := testFrame()
	for _, f := range []Format{FormatPNG, FormatBMP, FormatTIFF} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, f); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := DecodeBytes(buf.Bytes())
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got.Bounds() != src.Bounds() {
				t.Fatalf("bounds = %v, want %v", got.Bounds(), src.Bounds())
			}
			for y := range 3 {
				for x := range 4 {
					r1, g1, b1, a1 := got.At(x, y).RGBA()
					r2, g2, b2, a2 := src.At(x, y).RGBA()
					if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
						t.Fatalf("pixel (%d,%d) differs", x, y)
					}
				}
			}
		})
	}
}

func TestEncodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testFrame(), FormatJPEG); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}
}

func TestEncodeUnsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testFrame(), Format(9)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Encode() error = %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.png")
	if err := Save(path, testFrame()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Bounds() != testFrame().Bounds() {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if err := Save(filepath.Join(dir, "frame.gif"), testFrame()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Save(gif) error = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Load(missing) succeeded")
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := DecodeBytes(nil); !errors.Is(err, ErrEmptyData) {
		t.Errorf("DecodeBytes(nil) error = %v", err)
	}
	if _, err := DecodeBytes([]byte("not an image")); err == nil {
		t.Error("DecodeBytes(garbage) succeeded")
	}
}
