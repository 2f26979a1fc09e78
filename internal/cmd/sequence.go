package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/texturefield/internal/framestore"
	"github.com/MeKo-Tech/texturefield/internal/raster"
	"github.com/MeKo-Tech/texturefield/internal/worker"
)

var sequenceCmd = &cobra.Command{
	Use:   "sequence",
	Short: "Render an animation sequence",
	Long:  `Render a series of cellular texture frames sweeping the third noise axis, to a folder of PNGs or a single frame store file.`,
	RunE:  runSequence,
}

func init() {
	rootCmd.AddCommand(sequenceCmd)

	addFieldFlags(sequenceCmd, "sequence")
	sequenceCmd.Flags().Int("frames", 16, "Number of frames to render")
	sequenceCmd.Flags().Float64("w-from", 0.0, "Third-axis value of the first frame")
	sequenceCmd.Flags().Float64("w-to", 1.0, "Third-axis value of the last frame")
	sequenceCmd.Flags().String("format", "folder", "Output format: folder or store")
	sequenceCmd.Flags().String("out-dir", "frames", "Output directory for folder format")
	sequenceCmd.Flags().String("output-file", "", "Output file path for store format (e.g., frames.db)")
	sequenceCmd.Flags().String("name", "texturefield", "Sequence name recorded in store metadata")
	sequenceCmd.Flags().Bool("progress", true, "Show progress bar")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"sequence.frames", "frames"},
		{"sequence.w_from", "w-from"},
		{"sequence.w_to", "w-to"},
		{"sequence.format", "format"},
		{"sequence.out_dir", "out-dir"},
		{"sequence.output_file", "output-file"},
		{"sequence.name", "name"},
		{"sequence.progress", "progress"},
	}

	for _, bf := range bindFlags {
		mustBindFlag(sequenceCmd, bf.key, bf.flag)
	}
}

// frameRenderer renders sequence frames either to a folder of PNGs or
// into a frame store. The store writer serializes its own writes, so it
// is shared across pool workers directly.
type frameRenderer struct {
	outDir string
	store  *framestore.Writer
}

func (fr *frameRenderer) RenderFrame(ctx context.Context, frame int, w float32) (string, error) {
	// The pool already parallelizes across frames.
	buf, err := renderField(ctx, "sequence", float64(w), 1)
	if err != nil {
		return "", fmt.Errorf("frame %d: %w", frame, err)
	}

	if fr.store != nil {
		var data bytes.Buffer
		if err := png.Encode(&data, buf.NRGBA64()); err != nil {
			return "", fmt.Errorf("frame %d: failed to encode png: %w", frame, err)
		}

		if err := fr.store.WriteFrame(frame, data.Bytes()); err != nil {
			return "", fmt.Errorf("frame %d: %w", frame, err)
		}
		return fmt.Sprintf("store:%d", frame), nil
	}

	path := filepath.Join(fr.outDir, fmt.Sprintf("frame_%04d.png", frame))
	if err := raster.WritePNG(path, buf); err != nil {
		return "", fmt.Errorf("frame %d: %w", frame, err)
	}
	return path, nil
}

func runSequence(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	frames := viper.GetInt("sequence.frames")
	wFrom := viper.GetFloat64("sequence.w_from")
	wTo := viper.GetFloat64("sequence.w_to")
	format := viper.GetString("sequence.format")
	outDir := viper.GetString("sequence.out_dir")
	outputFile := viper.GetString("sequence.output_file")
	showProgress := viper.GetBool("sequence.progress")
	workers := viper.GetInt("workers")

	if frames < 1 {
		return fmt.Errorf("--frames must be at least 1, got %d", frames)
	}
	if format != "folder" && format != "store" {
		return fmt.Errorf("invalid format %q: must be 'folder' or 'store'", format)
	}
	if format == "store" && outputFile == "" {
		return fmt.Errorf("--output-file is required when using --format=store")
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger.Info("Starting sequence render",
		"frames", frames,
		"w_range", fmt.Sprintf("%g-%g", wFrom, wTo),
		"format", format,
		"workers", workers,
	)

	renderer := &frameRenderer{outDir: outDir}

	if format == "store" {
		meta := framestore.Metadata{
			Name:        viper.GetString("sequence.name"),
			Format:      "png",
			Description: "Cellular texture animation frames",
			Width:       viper.GetInt("sequence.width"),
			Height:      viper.GetInt("sequence.height"),
			FrameCount:  frames,
			WFrom:       wFrom,
			WTo:         wTo,
			Seed:        viper.GetUint32("sequence.seed"),
			Mode:        viper.GetString("sequence.mode"),
		}

		store, err := framestore.New(outputFile, meta)
		if err != nil {
			return fmt.Errorf("failed to create frame store: %w", err)
		}
		defer store.Close()
		renderer.store = store

		logger.Info("Frame store created", "path", outputFile)
	} else {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("Received interrupt signal, cancelling...")
		cancel()
	}()

	tasks := make([]worker.Task, 0, frames)
	for i := 0; i < frames; i++ {
		w := wFrom
		if frames > 1 {
			w = wFrom + (wTo-wFrom)*float64(i)/float64(frames-1)
		}
		tasks = append(tasks, worker.Task{Frame: i, W: float32(w)})
	}

	progress := worker.NewProgress(len(tasks), showProgress)

	pool := worker.New(worker.Config{
		Workers:    workers,
		Renderer:   renderer,
		OnProgress: progress.Callback(),
	})

	results := pool.Run(ctx, tasks)
	progress.Done()

	var failedCount int
	for _, r := range results {
		if r.Err != nil {
			failedCount++
			logger.Error("Frame render failed", "frame", r.Task.Frame, "error", r.Err)
		}
	}

	logger.Info(progress.Summary())

	if failedCount > 0 {
		return fmt.Errorf("%d frames failed to render", failedCount)
	}

	return nil
}
