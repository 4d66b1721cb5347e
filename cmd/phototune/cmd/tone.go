package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gopixel/phototune"
	"github.com/gopixel/phototune/pixel"
)

var levelsParams = phototune.Levels{
	InputWhite: 255, InputGamma: 1, OutputWhite: 255,
}

var levelsCmd = &cobra.Command{
	Use:   "levels <input>",
	Short: "Remap the tonal range with input/output levels and gamma",
	Args:  cobra.ExactArgs(1),
	RunE:  runLevels,
}

var (
	curveRGB string
	curveR   string
	curveG   string
	curveB   string
)

var curvesCmd = &cobra.Command{
	Use:   "curves <input>",
	Short: "Apply tone curves from control points",
	Long: `Apply tone curves given as semicolon-separated control points, e.g.

  phototune curves photo.jpg --rgb "0,0;128,150;255,255"

Coordinates are in [0,255]. A curve with fewer than two points is the
identity.`,
	Args: cobra.ExactArgs(1),
	RunE: runCurves,
}

var hslParams phototune.HSL

var hslCmd = &cobra.Command{
	Use:   "hsl <input>",
	Short: "Adjust hue, saturation and lightness, optionally per hue band",
	Args:  cobra.ExactArgs(1),
	RunE:  runHSL,
}

var (
	balanceShadows    string
	balanceMidtones   string
	balanceHighlights string
)

var balanceCmd = &cobra.Command{
	Use:   "balance <input>",
	Short: "Shift colors separately in shadows, midtones and highlights",
	Args:  cobra.ExactArgs(1),
	RunE:  runBalance,
}

var vibranceAmount float64

var vibranceCmd = &cobra.Command{
	Use:   "vibrance <input>",
	Short: "Boost muted colors more than saturated ones",
	Args:  cobra.ExactArgs(1),
	RunE:  runVibrance,
}

func init() {
	levelsCmd.Flags().Float64Var(&levelsParams.InputBlack, "input-black", 0, "input black point, 0 to 255")
	levelsCmd.Flags().Float64Var(&levelsParams.InputWhite, "input-white", 255, "input white point, 0 to 255")
	levelsCmd.Flags().Float64Var(&levelsParams.InputGamma, "gamma", 1, "gamma, 0.01 to 10")
	levelsCmd.Flags().Float64Var(&levelsParams.OutputBlack, "output-black", 0, "output black point, 0 to 255")
	levelsCmd.Flags().Float64Var(&levelsParams.OutputWhite, "output-white", 255, "output white point, 0 to 255")
	rootCmd.AddCommand(levelsCmd)

	curvesCmd.Flags().StringVar(&curveRGB, "rgb", "", "master curve points")
	curvesCmd.Flags().StringVar(&curveR, "red", "", "red channel curve points")
	curvesCmd.Flags().StringVar(&curveG, "green", "", "green channel curve points")
	curvesCmd.Flags().StringVar(&curveB, "blue", "", "blue channel curve points")
	rootCmd.AddCommand(curvesCmd)

	hslCmd.Flags().Float64Var(&hslParams.Hue, "hue", 0, "hue shift in degrees, -180 to 180")
	hslCmd.Flags().Float64Var(&hslParams.Saturation, "saturation", 0, "saturation, -100 to 100")
	hslCmd.Flags().Float64Var(&hslParams.Lightness, "lightness", 0, "lightness, -100 to 100")
	hslCmd.Flags().Float64Var(&hslParams.TargetHue, "target-hue", 0, "target hue in degrees")
	hslCmd.Flags().Float64Var(&hslParams.HueRange, "hue-range", 30, "target falloff range in degrees")
	rootCmd.AddCommand(hslCmd)

	balanceCmd.Flags().StringVar(&balanceShadows, "shadows", "", "shadow offsets r,g,b in [-1,1]")
	balanceCmd.Flags().StringVar(&balanceMidtones, "midtones", "", "midtone offsets r,g,b in [-1,1]")
	balanceCmd.Flags().StringVar(&balanceHighlights, "highlights", "", "highlight offsets r,g,b in [-1,1]")
	rootCmd.AddCommand(balanceCmd)

	vibranceCmd.Flags().Float64Var(&vibranceAmount, "amount", 0, "vibrance, -100 to 100")
	rootCmd.AddCommand(vibranceCmd)
}

func runLevels(cmd *cobra.Command, args []string) error {
	img, err := loadImage(args[0])
	if err != nil {
		return err
	}
	var out *phototune.ImageBuffer
	if p := gpuProcessor(); p != nil {
		defer p.Cleanup()
		out, err = p.ProcessLevels(img, levelsParams)
	} else {
		out, err = pixel.AdjustLevels(img, levelsParams)
	}
	if err != nil {
		return err
	}
	return saveImage(out, outputPath(args[0]))
}

func runCurves(cmd *cobra.Command, args []string) error {
	var c phototune.Curves
	var err error
	if c.RGB, err = parseCurve(curveRGB); err != nil {
		return err
	}
	if c.R, err = parseCurve(curveR); err != nil {
		return err
	}
	if c.G, err = parseCurve(curveG); err != nil {
		return err
	}
	if c.B, err = parseCurve(curveB); err != nil {
		return err
	}

	img, err := loadImage(args[0])
	if err != nil {
		return err
	}
	var out *phototune.ImageBuffer
	if p := gpuProcessor(); p != nil {
		defer p.Cleanup()
		out, err = p.ProcessCurves(img, c)
	} else {
		out, err = pixel.ApplyCurves(img, c)
	}
	if err != nil {
		return err
	}
	return saveImage(out, outputPath(args[0]))
}

func runHSL(cmd *cobra.Command, args []string) error {
	hslParams.HasTarget = cmd.Flags().Changed("target-hue")

	img, err := loadImage(args[0])
	if err != nil {
		return err
	}
	var out *phototune.ImageBuffer
	if p := gpuProcessor(); p != nil {
		defer p.Cleanup()
		out, err = p.ProcessHSL(img, hslParams)
	} else {
		out, err = pixel.AdjustHSL(img, hslParams)
	}
	if err != nil {
		return err
	}
	return saveImage(out, outputPath(args[0]))
}

func runBalance(cmd *cobra.Command, args []string) error {
	var cb phototune.ColorBalance
	var err error
	if cb.Shadows, err = parseOffsets(balanceShadows); err != nil {
		return err
	}
	if cb.Midtones, err = parseOffsets(balanceMidtones); err != nil {
		return err
	}
	if cb.Highlights, err = parseOffsets(balanceHighlights); err != nil {
		return err
	}

	img, err := loadImage(args[0])
	if err != nil {
		return err
	}
	var out *phototune.ImageBuffer
	if p := gpuProcessor(); p != nil {
		defer p.Cleanup()
		out, err = p.ProcessColorBalance(img, cb)
	} else {
		out, err = pixel.AdjustColorBalance(img, cb)
	}
	if err != nil {
		return err
	}
	return saveImage(out, outputPath(args[0]))
}

func runVibrance(cmd *cobra.Command, args []string) error {
	img, err := loadImage(args[0])
	if err != nil {
		return err
	}
	params := phototune.Vibrance{Amount: vibranceAmount}
	var out *phototune.ImageBuffer
	if p := gpuProcessor(); p != nil {
		defer p.Cleanup()
		out, err = p.ProcessVibrance(img, params)
	} else {
		out, err = pixel.AdjustVibrance(img, params)
	}
	if err != nil {
		return err
	}
	return saveImage(out, outputPath(args[0]))
}
