// Command rampmap renders a grid of samples as a smoothly shaded color
// map image.
//
// Usage:
//
//	rampmap render grid.json -o map.png --preset kindlmann
//	rampmap render --config job.toml
//	rampmap presets
//	rampmap backends
//
// Grids are JSON arrays of rows or CSV files; null, empty and NaN samples
// are drawn transparent. Output format follows the file extension (png,
// jpg, bmp, tif).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/rampmap"
	"github.com/gogpu/rampmap/backend"
	_ "github.com/gogpu/rampmap/backend/wgpu" // Register the GPU backend.
	"github.com/gogpu/rampmap/preset"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "rampmap",
		Short:        "Render gridded samples as a color ramp map",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if verbose {
				rampmap.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(),
					&slog.HandlerOptions{Level: slog.LevelDebug})))
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline and backend diagnostics to stderr")

	root.AddCommand(newRenderCmd(), newPresetsCmd(), newBackendsCmd())
	return root
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the named color ramps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range preset.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the registered render backends in selection order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range backend.Ordered() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
