// Package render runs a per-pixel function over a raster in parallel. The
// kernels are pure, so any partition of the output produces identical
// results; rows are handed out in bands purely as a scheduling choice.
package render

import (
	"context"
	"runtime"
	"sync"

	"github.com/MeKo-Tech/texturefield/internal/raster"
)

// PixelFunc computes the pixel at one output coordinate. Implementations
// must be safe for concurrent use.
type PixelFunc func(x, y int) raster.Pixel

// Options tune the dispatch. Zero values pick defaults.
type Options struct {
	// Workers is the number of goroutines filling rows. Defaults to
	// runtime.NumCPU().
	Workers int
}

// Fill evaluates fn for every coordinate of dst. Cancellation is coarse:
// when ctx is cancelled the fill stops between rows and the buffer contents
// are undefined; callers discard it wholesale.
func Fill(ctx context.Context, dst *raster.Buffer, fn PixelFunc, opts Options) error {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > dst.Height {
		workers = dst.Height
	}

	rows := make(chan int, dst.Height)
	for y := 0; y < dst.Height; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				select {
				case <-ctx.Done():
					return
				default:
				}
				base := y * dst.Width
				for x := 0; x < dst.Width; x++ {
					dst.Pix[base+x] = fn(x, y)
				}
			}
		}()
	}
	wg.Wait()

	return ctx.Err()
}
