package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	rimage "github.com/gogpu/rampmap/internal/image"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func loadFrame(t *testing.T, path string) image.Image {
	t.Helper()
	img, err := rimage.Load(path)
	if err != nil {
		t.Fatalf("Load(%s) error = %v", path, err)
	}
	return img
}

func alphaAt(img image.Image, x, y int) uint32 {
	_, _, _, a := img.At(x, y).RGBA()
	return a
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	grid := writeFile(t, "grid.json", `[[1, 2], [3, null]]`)
	out := filepath.Join(dir, "map.png")

	stdout, err := execute(t, "", "render", grid,
		"--backend", "software", "--width", "10", "--height", "10", "-o", out)
	if err != nil {
		t.Fatalf("render error = %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "2×2 grid (4 cells, 1 missing) with software backend") {
		t.Errorf("summary = %q", stdout)
	}

	img := loadFrame(t, out)
	if img.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if alphaAt(img, 1, 1) == 0 {
		t.Error("pixel (1,1) inside the first cell is transparent")
	}
	if alphaAt(img, 5, 5) != 0 {
		t.Error("pixel (5,5) inside the missing cell is painted")
	}
	if alphaAt(img, 9, 9) != 0 {
		t.Error("pixel (9,9) outside every cell is painted")
	}
}

func TestRenderCommandConfigAndStdin(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "map.bmp")
	cfg := writeFile(t, "job.toml", `
width = 20
height = 20
backend = "software"
interpolate = false

[[stops]]
color = "#ff0000"
value = 0.0

[[stops]]
color = "#ff0000"
value = 1.0
`)
	stdout, err := execute(t, "7\n", "render", "-", "--config", cfg, "--width", "8", "-o", out)
	if err != nil {
		t.Fatalf("render error = %v\n%s", err, stdout)
	}
	img := loadFrame(t, out)
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 20 {
		t.Fatalf("bounds = %v, want 8x20 (flag overrides file)", img.Bounds())
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("pixel (0,0) = %v, want red", img.At(0, 0))
	}
}

func TestRenderCommandRampImage(t *testing.T) {
	dir := t.TempDir()
	strip := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := range 3 {
		for x := range 4 {
			strip.SetRGBA(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	stripPath := filepath.Join(dir, "strip.png")
	f, err := os.Create(stripPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, strip); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	out := filepath.Join(dir, "map.png")
	grid := writeFile(t, "grid.csv", "1\n")
	if _, err := execute(t, "", "render", grid, "--backend", "software",
		"--width", "4", "--height", "4", "--ramp-image", stripPath, "-o", out); err != nil {
		t.Fatalf("render error = %v", err)
	}
	_, g, _, _ := loadFrame(t, out).At(0, 0).RGBA()
	if g>>8 != 255 {
		t.Errorf("pixel (0,0) = %v, want green from the ramp image", loadFrame(t, out).At(0, 0))
	}
}

func TestRenderCommandErrors(t *testing.T) {
	grid := writeFile(t, "grid.json", `[[1]]`)
	tests := [][]string{
		{"render"},
		{"render", grid, "--backend", "nope"},
		{"render", grid, "--preset", "nope"},
		{"render", grid, "--width", "0"},
		{"render", grid, "--stops", "#000@x"},
		{"render", grid, "--backend", "software", "-o", filepath.Join(t.TempDir(), "map.gif")},
	}
	for _, args := range tests {
		if _, err := execute(t, "", args...); err == nil {
			t.Errorf("%v succeeded", args)
		}
	}
}

func TestListCommands(t *testing.T) {
	out, err := execute(t, "", "presets")
	if err != nil {
		t.Fatalf("presets error = %v", err)
	}
	if !strings.Contains(out, "kindlmann\n") {
		t.Errorf("presets output = %q", out)
	}

	out, err = execute(t, "", "backends")
	if err != nil {
		t.Fatalf("backends error = %v", err)
	}
	if out != "wgpu\nsoftware\n" {
		t.Errorf("backends output = %q, want wgpu then software", out)
	}
}
