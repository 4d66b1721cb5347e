package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gopixel/phototune"
	"github.com/gopixel/phototune/pixel"
)

var adjustParams phototune.Adjustments

var adjustCmd = &cobra.Command{
	Use:   "adjust <input>",
	Short: "Apply brightness, contrast, saturation, hue, blur and sharpen",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdjust,
}

func init() {
	adjustCmd.Flags().Float64Var(&adjustParams.Brightness, "brightness", 0, "brightness, -100 to 100")
	adjustCmd.Flags().Float64Var(&adjustParams.Contrast, "contrast", 0, "contrast, -100 to 100")
	adjustCmd.Flags().Float64Var(&adjustParams.Saturation, "saturation", 0, "saturation, -100 to 100")
	adjustCmd.Flags().Float64Var(&adjustParams.Hue, "hue", 0, "hue rotation in degrees")
	adjustCmd.Flags().Float64Var(&adjustParams.Blur, "blur", 0, "gaussian blur radius")
	adjustCmd.Flags().Float64Var(&adjustParams.Sharpen, "sharpen", 0, "unsharp mask amount, 0 to 100")
	rootCmd.AddCommand(adjustCmd)
}

func runAdjust(cmd *cobra.Command, args []string) error {
	img, err := loadImage(args[0])
	if err != nil {
		return err
	}

	var out *phototune.ImageBuffer
	if p := gpuProcessor(); p != nil {
		defer p.Cleanup()
		out, err = p.ProcessAdjustments(img, adjustParams)
	} else {
		out, err = pixel.ApplyAdjustments(img, adjustParams)
	}
	if err != nil {
		return err
	}
	return saveImage(out, outputPath(args[0]))
}
