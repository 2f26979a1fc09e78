package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/texturefield/internal/grain"
	"github.com/MeKo-Tech/texturefield/internal/raster"
	"github.com/MeKo-Tech/texturefield/internal/voronoi"
)

var voronoiCmd = &cobra.Command{
	Use:   "voronoi",
	Short: "Render a procedural cellular texture",
	Long:  "Render a cellular (Voronoi) texture from a jittered hashed lattice to a PNG file.",
	RunE:  runVoronoi,
}

func init() {
	rootCmd.AddCommand(voronoiCmd)

	addFieldFlags(voronoiCmd, "voronoi")
	voronoiCmd.Flags().Float64("w", 0.0, "Third noise axis value (animation phase)")
	voronoiCmd.Flags().StringP("out", "o", "voronoi.png", "Output PNG path")

	mustBindFlag(voronoiCmd, "voronoi.w", "w")
	mustBindFlag(voronoiCmd, "voronoi.out", "out")
}

// addFieldFlags registers the flags shared by the voronoi and sequence
// commands, bound under the given viper prefix.
func addFieldFlags(cmd *cobra.Command, prefix string) {
	cmd.Flags().Int("width", 512, "Output width in pixels")
	cmd.Flags().Int("height", 512, "Output height in pixels")
	cmd.Flags().Float64("cell-size", 64.0, "Base lattice cell size in pixels")
	cmd.Flags().Float64("scale-x", 1.0, "Cell density multiplier along X")
	cmd.Flags().Float64("scale-y", 1.0, "Cell density multiplier along Y")
	cmd.Flags().Float64("scale-w", 1.0, "Cell density multiplier along W")
	cmd.Flags().Float64("randomness", 1.0, "Site jitter amount (0 = regular grid, 1 = full)")
	cmd.Flags().Uint32("seed", 0, "Deterministic lattice seed")
	cmd.Flags().String("metric", "euclidean", "Distance metric (euclidean, manhattan, chebyshev, minkowski)")
	cmd.Flags().Float64("lp-exponent", 2.0, "Minkowski exponent (floored at 0.1)")
	cmd.Flags().Float64("smoothness", 0.0, "Boundary blending amount (0 = hard edges)")
	cmd.Flags().String("mode", "color", "Render mode (color, position, smooth-distance, nearest-distance, distance-gap)")
	cmd.Flags().Float64("offset-x", 0.0, "Lattice offset X in pixels")
	cmd.Flags().Float64("offset-y", 0.0, "Lattice offset Y in pixels")
	cmd.Flags().Bool("clamp", false, "Clamp output channels to [0,1]")
	cmd.Flags().Int("supersample", 1, "Supersampling factor for anti-aliased edges")
	cmd.Flags().Float64("grain", 0.0, "Grain overlay strength (0 disables)")
	cmd.Flags().Float64("grain-scale", 64.0, "Grain modulation wavelength in pixels")
	cmd.Flags().Int64("grain-seed", 1337, "Grain overlay seed")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{prefix + ".width", "width"},
		{prefix + ".height", "height"},
		{prefix + ".cell_size", "cell-size"},
		{prefix + ".scale_x", "scale-x"},
		{prefix + ".scale_y", "scale-y"},
		{prefix + ".scale_w", "scale-w"},
		{prefix + ".randomness", "randomness"},
		{prefix + ".seed", "seed"},
		{prefix + ".metric", "metric"},
		{prefix + ".lp_exponent", "lp-exponent"},
		{prefix + ".smoothness", "smoothness"},
		{prefix + ".mode", "mode"},
		{prefix + ".offset_x", "offset-x"},
		{prefix + ".offset_y", "offset-y"},
		{prefix + ".clamp", "clamp"},
		{prefix + ".supersample", "supersample"},
		{prefix + ".grain", "grain"},
		{prefix + ".grain_scale", "grain-scale"},
		{prefix + ".grain_seed", "grain-seed"},
	}

	for _, bf := range bindFlags {
		mustBindFlag(cmd, bf.key, bf.flag)
	}
}

func mustBindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", flag, err))
	}
}

// fieldParams assembles voronoi parameters from the bound config prefix.
// The supersample factor scales the pixel-space geometry so the lattice
// keeps its apparent size.
func fieldParams(prefix string, w float64, supersample int) (voronoi.Params, error) {
	cellSize := viper.GetFloat64(prefix + ".cell_size")
	scaleX := viper.GetFloat64(prefix + ".scale_x")
	scaleY := viper.GetFloat64(prefix + ".scale_y")
	scaleW := viper.GetFloat64(prefix + ".scale_w")

	if cellSize <= 0 {
		return voronoi.Params{}, fmt.Errorf("cell-size must be positive, got %v", cellSize)
	}
	if scaleX <= 0 || scaleY <= 0 || scaleW <= 0 {
		return voronoi.Params{}, fmt.Errorf("scale factors must be positive")
	}

	metric, err := voronoi.ParseMetric(viper.GetString(prefix + ".metric"))
	if err != nil {
		return voronoi.Params{}, err
	}
	mode, err := voronoi.ParseMode(viper.GetString(prefix + ".mode"))
	if err != nil {
		return voronoi.Params{}, err
	}

	ss := float64(supersample)
	return voronoi.Params{
		Width:      viper.GetInt(prefix+".width") * supersample,
		Height:     viper.GetInt(prefix+".height") * supersample,
		Seed:       viper.GetUint32(prefix + ".seed"),
		Metric:     metric,
		LpExponent: float32(viper.GetFloat64(prefix + ".lp_exponent")),
		Randomness: float32(viper.GetFloat64(prefix + ".randomness")),
		Smoothness: float32(viper.GetFloat64(prefix + ".smoothness")),
		CellSize: [3]float32{
			float32(cellSize / scaleX * ss),
			float32(cellSize / scaleY * ss),
			float32(cellSize / scaleW),
		},
		W:       float32(w),
		OffsetX: float32(viper.GetFloat64(prefix+".offset_x") * ss),
		OffsetY: float32(viper.GetFloat64(prefix+".offset_y") * ss),
		Mode:    mode,
		Clamp:   viper.GetBool(prefix + ".clamp"),
	}, nil
}

// renderField runs the full single-image pipeline: field render, optional
// supersample downscale, optional grain overlay.
func renderField(ctx context.Context, prefix string, w float64, workers int) (*raster.Buffer, error) {
	supersample := viper.GetInt(prefix + ".supersample")
	if supersample < 1 {
		supersample = 1
	}

	params, err := fieldParams(prefix, w, supersample)
	if err != nil {
		return nil, err
	}

	gen, err := voronoi.NewGenerator(params)
	if err != nil {
		return nil, err
	}

	buf, err := gen.Render(ctx, workers)
	if err != nil {
		return nil, err
	}

	if supersample > 1 {
		buf, err = raster.Downscale(buf, supersample)
		if err != nil {
			return nil, err
		}
	}

	if strength := viper.GetFloat64(prefix + ".grain"); strength > 0 {
		buf, err = grain.Apply(buf, grain.Params{
			Strength: float32(strength),
			Scale:    viper.GetFloat64(prefix + ".grain_scale"),
			Seed:     viper.GetInt64(prefix + ".grain_seed"),
		})
		if err != nil {
			return nil, err
		}
	}

	return buf, nil
}

func runVoronoi(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	out := viper.GetString("voronoi.out")
	workers := viper.GetInt("workers")

	logger.Info("Rendering cellular texture",
		"out", out,
		"size", fmt.Sprintf("%dx%d", viper.GetInt("voronoi.width"), viper.GetInt("voronoi.height")),
		"mode", viper.GetString("voronoi.mode"),
		"metric", viper.GetString("voronoi.metric"),
		"seed", viper.GetUint32("voronoi.seed"),
	)

	buf, err := renderField(cmd.Context(), "voronoi", viper.GetFloat64("voronoi.w"), workers)
	if err != nil {
		return err
	}

	if err := raster.WritePNG(out, buf); err != nil {
		return err
	}

	logger.Info("Texture written", "path", out)
	return nil
}
