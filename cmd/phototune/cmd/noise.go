package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gopixel/phototune"
	"github.com/gopixel/phototune/pixel"
)

var noiseParams phototune.NoiseReduction
var noiseMethod string

var noiseCmd = &cobra.Command{
	Use:   "noise-reduction <input>",
	Short: "Smooth sensor noise",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoise,
}

var histogramJSON bool

var histogramCmd = &cobra.Command{
	Use:   "histogram <input>",
	Short: "Print channel and luminance histograms",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistogram,
}

func init() {
	noiseCmd.Flags().Float64Var(&noiseParams.Strength, "strength", 50, "strength, 0 to 100")
	noiseCmd.Flags().StringVar(&noiseMethod, "method", "gaussian", "gaussian, median or bilateral")
	noiseCmd.Flags().Float64Var(&noiseParams.PreserveDetail, "preserve-detail", 0, "blend toward the original, 0 to 1")
	rootCmd.AddCommand(noiseCmd)

	histogramCmd.Flags().BoolVar(&histogramJSON, "json", false, "emit raw bins as JSON")
	rootCmd.AddCommand(histogramCmd)
}

func runNoise(cmd *cobra.Command, args []string) error {
	noiseParams.Method = phototune.NoiseMethod(noiseMethod)

	img, err := loadImage(args[0])
	if err != nil {
		return err
	}
	var out *phototune.ImageBuffer
	if p := gpuProcessor(); p != nil {
		defer p.Cleanup()
		out, err = p.ProcessNoiseReduction(img, noiseParams)
	} else {
		out, err = pixel.ReduceNoise(img, noiseParams)
	}
	if err != nil {
		return err
	}
	return saveImage(out, outputPath(args[0]))
}

func runHistogram(cmd *cobra.Command, args []string) error {
	img, err := loadImage(args[0])
	if err != nil {
		return err
	}
	hist, err := pixel.ComputeHistogram(img)
	if err != nil {
		return err
	}

	if histogramJSON {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(hist)
	}

	fmt.Printf("%s: %dx%d, %d pixels\n", args[0], img.Width, img.Height,
		uint64(img.Width)*uint64(img.Height))
	printChannel("lum", hist.Lum[:])
	printChannel("r", hist.R[:])
	printChannel("g", hist.G[:])
	printChannel("b", hist.B[:])
	return nil
}

// printChannel renders one histogram channel as 16 buckets of 16 bins.
func printChannel(name string, bins []uint32) {
	var buckets [16]uint64
	var peak uint64
	for i, v := range bins {
		buckets[i/16] += uint64(v)
		if buckets[i/16] > peak {
			peak = buckets[i/16]
		}
	}
	fmt.Printf("%4s ", name)
	for _, v := range buckets {
		fmt.Print(spark(v, peak))
	}
	fmt.Println()
}

var sparkLevels = []rune(" ▁▂▃▄▅▆▇█")

func spark(v, peak uint64) string {
	if peak == 0 {
		return " "
	}
	idx := int(v * uint64(len(sparkLevels)-1) / peak)
	return string(sparkLevels[idx])
}
