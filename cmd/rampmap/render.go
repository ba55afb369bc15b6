package main

import (
	"context"
	"fmt"

	"github.com/gogpu/rampmap"
	"github.com/gogpu/rampmap/backend"
	rimage "github.com/gogpu/rampmap/internal/image"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

// renderFlags are the command-line overrides of Config.
type renderFlags struct {
	config string
	stops  string
	lang   string
	cfg    Config
}

func newRenderCmd() *cobra.Command {
	f := &renderFlags{cfg: DefaultConfig()}
	cmd := &cobra.Command{
		Use:   "render [grid.json|grid.csv|-]",
		Short: "Render a grid file to an image",
		Long: "Render tessellates a grid into cells whose corners are smoothed " +
			"with their neighbours, colors every pixel from the ramp and writes " +
			"the frame to --output. Settings come from --config, then flags.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, args)
			if err != nil {
				return err
			}
			sum, err := runRender(cmd.Context(), cmd, cfg)
			if err != nil {
				return err
			}
			tag, err := language.Parse(f.lang)
			if err != nil {
				tag = language.English
			}
			sum.Print(cmd.OutOrStdout(), tag)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.config, "config", "c", "", "TOML render configuration file")
	fs.StringVarP(&f.cfg.Output, "output", "o", f.cfg.Output, "output image (.png, .jpg, .bmp, .tif)")
	fs.IntVar(&f.cfg.Width, "width", f.cfg.Width, "canvas width in pixels")
	fs.IntVar(&f.cfg.Height, "height", f.cfg.Height, "canvas height in pixels")
	fs.StringVarP(&f.cfg.Backend, "backend", "b", f.cfg.Backend, "render backend: auto, software or wgpu")
	fs.BoolVar(&f.cfg.Interpolate, "interpolate", f.cfg.Interpolate, "smooth shared cell corners")
	fs.IntVar(&f.cfg.RampWidth, "ramp-width", f.cfg.RampWidth, "color ramp texture width")
	fs.StringVar(&f.cfg.ColorSpace, "color-space", f.cfg.ColorSpace, "ramp blending space: srgb or linear")
	fs.StringVarP(&f.cfg.Preset, "preset", "p", f.cfg.Preset, "named color ramp (see 'rampmap presets')")
	fs.IntVar(&f.cfg.PresetStops, "preset-stops", f.cfg.PresetStops, "stops sampled from the preset")
	fs.BoolVar(&f.cfg.Reverse, "reverse", f.cfg.Reverse, "reverse the color ramp")
	fs.StringVar(&f.cfg.RampImage, "ramp-image", "", "image whose middle row is used as the ramp")
	fs.StringVar(&f.stops, "stops", "", `explicit stops, e.g. "#000@0,#f00@0.5,#fff@1"`)
	fs.StringVar(&f.lang, "lang", "en", "language tag for the printed summary")
	return cmd
}

// resolve layers the config file, then changed flags, then the grid
// argument.
func (f *renderFlags) resolve(cmd *cobra.Command, args []string) (Config, error) {
	cfg := DefaultConfig()
	if f.config != "" {
		var err error
		if cfg, err = LoadConfig(f.config); err != nil {
			return Config{}, err
		}
	}

	fs := cmd.Flags()
	override := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	override("output", func() { cfg.Output = f.cfg.Output })
	override("width", func() { cfg.Width = f.cfg.Width })
	override("height", func() { cfg.Height = f.cfg.Height })
	override("backend", func() { cfg.Backend = f.cfg.Backend })
	override("interpolate", func() { cfg.Interpolate = f.cfg.Interpolate })
	override("ramp-width", func() { cfg.RampWidth = f.cfg.RampWidth })
	override("color-space", func() { cfg.ColorSpace = f.cfg.ColorSpace })
	override("preset", func() { cfg.Preset, cfg.Stops = f.cfg.Preset, nil })
	override("preset-stops", func() { cfg.PresetStops = f.cfg.PresetStops })
	override("reverse", func() { cfg.Reverse = f.cfg.Reverse })
	override("ramp-image", func() { cfg.RampImage = f.cfg.RampImage })
	if f.stops != "" {
		specs, err := ParseStopList(f.stops)
		if err != nil {
			return Config{}, err
		}
		cfg.Stops = specs
	}
	if len(args) == 1 {
		cfg.Input = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// runRender draws the grid named by cfg and writes the frame.
func runRender(ctx context.Context, cmd *cobra.Command, cfg Config) (Summary, error) {
	grid, err := ReadGridFile(cfg.Input, cmd.InOrStdin())
	if err != nil {
		return Summary{}, err
	}
	space, err := cfg.Space()
	if err != nil {
		return Summary{}, err
	}

	r, err := newRenderer(cfg,
		rampmap.WithInterpolation(cfg.Interpolate),
		rampmap.WithRampWidth(cfg.RampWidth),
		rampmap.WithRampColorSpace(space),
	)
	if err != nil {
		return Summary{}, err
	}
	defer r.Close()

	if err := prepareRamp(ctx, r, cfg); err != nil {
		return Summary{}, err
	}
	if err := r.Render(grid, nil); err != nil {
		return Summary{}, err
	}

	ib, ok := r.Backend().(rampmap.ImageBackend)
	if !ok {
		return Summary{}, fmt.Errorf("backend %s cannot read frames back", r.Backend().Name())
	}
	frame, err := ib.Image()
	if err != nil {
		return Summary{}, err
	}
	if err := rimage.Save(cfg.Output, frame); err != nil {
		return Summary{}, err
	}

	sum := Summarize(grid)
	sum.Vertices = r.Mesh().VertexCount()
	sum.Backend = r.Backend().Name()
	sum.Output = cfg.Output
	return sum, nil
}

func newRenderer(cfg Config, opts ...rampmap.Option) (*rampmap.Renderer, error) {
	if cfg.Backend == "" || cfg.Backend == "auto" {
		return backend.NewRenderer(cfg.Canvas(), opts...)
	}
	b := backend.Get(cfg.Backend)
	if b == nil {
		return nil, fmt.Errorf("%w: %q (registered: %v)", backend.ErrBackendNotAvailable, cfg.Backend, backend.Ordered())
	}
	return rampmap.New(cfg.Canvas(), append([]rampmap.Option{rampmap.WithBackend(b)}, opts...)...)
}

func prepareRamp(ctx context.Context, r *rampmap.Renderer, cfg Config) error {
	if cfg.RampImage != "" {
		src, err := rimage.Load(cfg.RampImage)
		if err != nil {
			return err
		}
		_, err = r.PrepareRampImage(ctx, src)
		return err
	}
	stops, err := cfg.ColorStops()
	if err != nil {
		return err
	}
	_, err = r.PrepareColorRamp(ctx, stops)
	return err
}
