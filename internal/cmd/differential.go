package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/texturefield/internal/differential"
	"github.com/MeKo-Tech/texturefield/internal/raster"
)

var differentialCmd = &cobra.Command{
	Use:   "differential",
	Short: "Extract finite-difference gradients from an image",
	Long:  "Compute central-difference gradients of a PNG image and remap them through a response curve.",
	RunE:  runDifferential,
}

func init() {
	rootCmd.AddCommand(differentialCmd)

	differentialCmd.Flags().StringP("in", "i", "", "Input PNG path (required)")
	differentialCmd.Flags().StringP("out", "o", "differential.png", "Output PNG path")
	differentialCmd.Flags().String("axis", "x", "Gradient axis (x, y, magnitude)")
	differentialCmd.Flags().String("edge-mode", "repeat", "Out-of-bounds sampling (none, repeat, tile, mirror)")
	differentialCmd.Flags().String("response", "clamp", "Output response curve (clamp, soft-clamp, mirror, wrap, identity)")
	differentialCmd.Flags().Float64("offset", 0.5, "Output midpoint before scaling")
	differentialCmd.Flags().Float64("scale", 1.0, "Gradient amplification factor")
	differentialCmd.Flags().Bool("raw", false, "Emit signed gradients centered on offset-0.5")
	differentialCmd.Flags().Bool("keep-alpha", false, "Copy source alpha instead of opaque output")
	differentialCmd.Flags().Float64("pre-blur", 0.0, "Gaussian sigma applied before differencing (0 disables)")

	if err := differentialCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark flag required: %v", err))
	}

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"differential.in", "in"},
		{"differential.out", "out"},
		{"differential.axis", "axis"},
		{"differential.edge_mode", "edge-mode"},
		{"differential.response", "response"},
		{"differential.offset", "offset"},
		{"differential.scale", "scale"},
		{"differential.raw", "raw"},
		{"differential.keep_alpha", "keep-alpha"},
		{"differential.pre_blur", "pre-blur"},
	}

	for _, bf := range bindFlags {
		mustBindFlag(differentialCmd, bf.key, bf.flag)
	}
}

func runDifferential(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	in := viper.GetString("differential.in")
	out := viper.GetString("differential.out")

	axis, err := differential.ParseAxis(viper.GetString("differential.axis"))
	if err != nil {
		return err
	}
	edgeMode, err := differential.ParseEdgeMode(viper.GetString("differential.edge_mode"))
	if err != nil {
		return err
	}
	response, err := differential.ParseResponseMode(viper.GetString("differential.response"))
	if err != nil {
		return err
	}

	logger.Info("Extracting gradients",
		"in", in,
		"out", out,
		"axis", axis.String(),
		"edge_mode", edgeMode.String(),
		"response", response.String(),
	)

	src, err := raster.ReadPNG(in)
	if err != nil {
		return fmt.Errorf("failed to read input image: %w", err)
	}

	if sigma := viper.GetFloat64("differential.pre_blur"); sigma > 0 {
		src, err = differential.PreSmooth(src, float32(sigma))
		if err != nil {
			return err
		}
	}

	ext, err := differential.NewExtractor(src, differential.Params{
		Axis:             axis,
		EdgeMode:         edgeMode,
		Response:         response,
		MapOffset:        float32(viper.GetFloat64("differential.offset")),
		MapScale:         float32(viper.GetFloat64("differential.scale")),
		RawOutput:        viper.GetBool("differential.raw"),
		AlphaPassthrough: viper.GetBool("differential.keep_alpha"),
	})
	if err != nil {
		return err
	}

	buf, err := ext.Render(cmd.Context(), viper.GetInt("workers"))
	if err != nil {
		return err
	}

	if err := raster.WritePNG(out, buf); err != nil {
		return err
	}

	logger.Info("Gradient image written", "path", out)
	return nil
}
