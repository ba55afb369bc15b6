package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/rampmap"
	"github.com/gogpu/rampmap/preset"
	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "job.toml", `
input = "grid.csv"
width = 64
height = 32
backend = "software"
interpolate = false
color_space = "linear"

[[stops]]
color = "#000000"
percent = 0.0

[[stops]]
color = "white"
value = 1.0
`)
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := DefaultConfig()
	want.Input = "grid.csv"
	want.Width, want.Height = 64, 32
	want.Backend = "software"
	want.Interpolate = false
	want.ColorSpace = "linear"
	want.Stops = []rampmap.StopSpec{
		{Color: "#000000"},
		{Color: "white", Value: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if space, _ := got.Space(); space != rampmap.ColorSpaceLinear {
		t.Errorf("Space() = %v, want linear", space)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	unknown := writeFile(t, "unknown.toml", "widht = 10\n")
	if _, err := LoadConfig(unknown); !errors.Is(err, errConfig) {
		t.Errorf("unknown key error = %v, want errConfig", err)
	}
	broken := writeFile(t, "broken.toml", "width = \n")
	if _, err := LoadConfig(broken); !errors.Is(err, errConfig) {
		t.Errorf("syntax error = %v, want errConfig", err)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"defaults", func(*Config) {}, nil},
		{"zero width", func(c *Config) { c.Width = 0 }, rampmap.ErrInvalidCanvas},
		{"no output", func(c *Config) { c.Output = "" }, errConfig},
		{"bad format", func(c *Config) { c.Output = "map.gif" }, errConfig},
		{"bad space", func(c *Config) { c.ColorSpace = "cmyk" }, errConfig},
		{"bad preset", func(c *Config) { c.Preset = "nope" }, preset.ErrUnknown},
		{"bad stop", func(c *Config) { c.Stops = []rampmap.StopSpec{{Color: "#zz"}} }, rampmap.ErrInvalidColor},
		{"ramp image skips stops", func(c *Config) { c.Preset, c.RampImage = "nope", "ramp.png" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConfigColorStopsReverse(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stops = []rampmap.StopSpec{{Color: "#000", Value: 0}, {Color: "#fff", Value: 1}}
	cfg.Reverse = true
	stops, err := cfg.ColorStops()
	if err != nil {
		t.Fatalf("ColorStops() error = %v", err)
	}
	if stops[0].Color != rampmap.Hex("#fff") || stops[0].Offset != 0 {
		t.Errorf("first stop = %+v, want white at 0", stops[0])
	}
}

func TestParseStopList(t *testing.T) {
	got, err := ParseStopList("#000@0, #f00@0.25 ,#fff@1")
	if err != nil {
		t.Fatalf("ParseStopList() error = %v", err)
	}
	want := []rampmap.StopSpec{
		{Color: "#000"},
		{Color: "#f00", Value: 0.25},
		{Color: "#fff", Value: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseStopList() mismatch (-want +got):\n%s", diff)
	}

	even, err := ParseStopList("red,green,blue")
	if err != nil {
		t.Fatalf("ParseStopList(even) error = %v", err)
	}
	if even[1].Value != 0.5 || even[2].Value != 1 {
		t.Errorf("even offsets = %v, %v", even[1].Value, even[2].Value)
	}

	for _, bad := range []string{"", " , ", "#000@x"} {
		if _, err := ParseStopList(bad); !errors.Is(err, errConfig) {
			t.Errorf("ParseStopList(%q) error = %v, want errConfig", bad, err)
		}
	}
}
