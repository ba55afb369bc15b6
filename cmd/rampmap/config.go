package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/rampmap"
	rimage "github.com/gogpu/rampmap/internal/image"
	"github.com/gogpu/rampmap/preset"
)

// Config is a render job as read from a TOML file. Command-line flags
// override the file.
type Config struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`

	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	Backend     string `toml:"backend"`
	Interpolate bool   `toml:"interpolate"`

	RampWidth   int                `toml:"ramp_width"`
	ColorSpace  string             `toml:"color_space"`
	Preset      string             `toml:"preset"`
	PresetStops int                `toml:"preset_stops"`
	Reverse     bool               `toml:"reverse"`
	RampImage   string             `toml:"ramp_image"`
	Stops       []rampmap.StopSpec `toml:"stops"`
}

var errConfig = errors.New("config")

// DefaultConfig returns the settings used when neither the file nor the
// flags set a value.
func DefaultConfig() Config {
	return Config{
		Output:      "rampmap.png",
		Width:       800,
		Height:      600,
		Backend:     "auto",
		Interpolate: true,
		RampWidth:   rampmap.DefaultRampWidth,
		ColorSpace:  "srgb",
		Preset:      "blue-red",
		PresetStops: preset.DefaultStops,
	}
}

// LoadConfig decodes the TOML file at path over DefaultConfig. Unknown
// keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", errConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for k, key := range undecoded {
			keys[k] = key.String()
		}
		return Config{}, fmt.Errorf("%w: %s: unknown keys %s", errConfig, path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Canvas returns the output size.
func (c Config) Canvas() rampmap.Canvas {
	return rampmap.Canvas{Width: c.Width, Height: c.Height}
}

// Space parses ColorSpace.
func (c Config) Space() (rampmap.ColorSpace, error) {
	switch strings.ToLower(c.ColorSpace) {
	case "", "srgb":
		return rampmap.ColorSpaceSRGB, nil
	case "linear":
		return rampmap.ColorSpaceLinear, nil
	}
	return 0, fmt.Errorf("%w: color_space %q: want srgb or linear", errConfig, c.ColorSpace)
}

// ColorStops resolves the ramp: explicit stops win over the preset.
func (c Config) ColorStops() ([]rampmap.ColorStop, error) {
	var (
		stops []rampmap.ColorStop
		err   error
	)
	if len(c.Stops) > 0 {
		stops, err = rampmap.ParseStops(c.Stops)
	} else {
		stops, err = preset.Stops(c.Preset, c.PresetStops)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errConfig, err)
	}
	if c.Reverse {
		stops = preset.Reverse(stops)
	}
	return stops, nil
}

// Validate checks the settings that can be checked without I/O.
func (c Config) Validate() error {
	if err := c.Canvas().Validate(); err != nil {
		return err
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output path is empty", errConfig)
	}
	if _, err := rimage.FormatFromPath(c.Output); err != nil {
		return fmt.Errorf("%w: output: %w", errConfig, err)
	}
	if _, err := c.Space(); err != nil {
		return err
	}
	if c.RampImage == "" {
		if _, err := c.ColorStops(); err != nil {
			return err
		}
	}
	return nil
}

// ParseStopList parses the --stops flag: comma-separated "color@offset"
// entries. An entry without an offset is spread evenly.
func ParseStopList(s string) ([]rampmap.StopSpec, error) {
	parts := strings.Split(s, ",")
	specs := make([]rampmap.StopSpec, 0, len(parts))
	for k, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		colorPart, offPart, hasOffset := strings.Cut(part, "@")
		spec := rampmap.StopSpec{Color: strings.TrimSpace(colorPart)}
		if hasOffset {
			if _, err := fmt.Sscan(strings.TrimSpace(offPart), &spec.Value); err != nil {
				return nil, fmt.Errorf("%w: stop %d offset %q", errConfig, k, offPart)
			}
		} else if len(parts) > 1 {
			spec.Value = float64(k) / float64(len(parts)-1)
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: empty stop list", errConfig)
	}
	return specs, nil
}
