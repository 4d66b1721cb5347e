package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gopixel/phototune"
	"github.com/gopixel/phototune/pixel"
)

var filterCmd = &cobra.Command{
	Use:       "filter <input> <grayscale|invert|sepia>",
	Short:     "Apply a named filter",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"grayscale", "invert", "sepia"},
	RunE:      runFilter,
}

var transformCmd = &cobra.Command{
	Use:   "transform <input> <rotate90|rotate180|rotate270|flip-horizontal|flip-vertical>",
	Short: "Rotate or flip the image",
	Args:  cobra.ExactArgs(2),
	RunE:  runTransform,
}

func init() {
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(transformCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	img, err := loadImage(args[0])
	if err != nil {
		return err
	}

	var out *phototune.ImageBuffer
	if p := gpuProcessor(); p != nil {
		defer p.Cleanup()
		out, err = p.ProcessFilter(img, pixel.Filter(args[1]))
	} else {
		out, err = pixel.ApplyFilter(img, pixel.Filter(args[1]))
	}
	if err != nil {
		return err
	}
	return saveImage(out, outputPath(args[0]))
}

func runTransform(cmd *cobra.Command, args []string) error {
	img, err := loadImage(args[0])
	if err != nil {
		return err
	}

	var out *phototune.ImageBuffer
	switch args[1] {
	case "rotate90":
		out, err = pixel.Rotate(img, pixel.Rotate90)
	case "rotate180":
		out, err = pixel.Rotate(img, pixel.Rotate180)
	case "rotate270":
		out, err = pixel.Rotate(img, pixel.Rotate270)
	case "flip-horizontal":
		out, err = pixel.FlipHorizontal(img)
	case "flip-vertical":
		out, err = pixel.FlipVertical(img)
	default:
		return phototune.ErrUnknownOperation
	}
	if err != nil {
		return err
	}
	return saveImage(out, outputPath(args[0]))
}
