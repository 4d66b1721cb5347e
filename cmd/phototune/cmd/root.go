package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gopixel/phototune"
	"github.com/gopixel/phototune/gpu"
	"github.com/gopixel/phototune/internal/curve"
	"github.com/gopixel/phototune/internal/kernel"
)

var (
	version = "0.1.0"

	verbose bool
	useGPU  bool
	maxSize int
	output  string
)

var rootCmd = &cobra.Command{
	Use:   "phototune",
	Short: "Image adjustment engine for photos",
	Long: `phototune applies photographic adjustments to images: brightness,
contrast, saturation, tone curves, levels, noise reduction and more.

Processing runs on the CPU by default; pass --gpu to use a compute
device when one is available.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			phototune.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			ks := kernel.CacheStats()
			cs := curve.CacheStats()
			phototune.Logger().Debug("cache stats",
				"kernel_len", ks.Len, "kernel_hits", ks.Hits, "kernel_misses", ks.Misses,
				"curve_len", cs.Len, "curve_hits", cs.Hits, "curve_misses", cs.Misses)
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&useGPU, "gpu", false, "use the GPU engine when available")
	rootCmd.PersistentFlags().IntVar(&maxSize, "max-size", 0, "downscale so both dimensions fit (0 = no limit)")
	rootCmd.PersistentFlags().StringVarP(&output, "out", "o", "", "output file (default: overwrite input)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"phototune %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// gpuProcessor returns an initialized GPU processor, or nil when --gpu
// was not passed or no adapter is available. Callers fall back to the
// pixel package on nil.
func gpuProcessor() *gpu.Processor {
	if !useGPU {
		return nil
	}
	if !gpu.IsSupported() {
		fmt.Fprintln(os.Stderr, "no gpu adapter, using cpu")
		return nil
	}
	p := gpu.NewProcessor()
	ok, err := p.Initialize()
	if !ok {
		fmt.Fprintf(os.Stderr, "gpu unavailable, using cpu: %v\n", err)
		p.Cleanup()
		return nil
	}
	return p
}

func outputPath(input string) string {
	if output != "" {
		return output
	}
	return input
}
