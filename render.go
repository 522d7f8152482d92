// Package vssamples assembles synthetic test clips.
//
// This file implements the render loops that drive a clip's frames into
// a stream writer, sequentially or across a worker pool.
package vssamples

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/OpusGang/vs-samples/frame"
	"github.com/OpusGang/vs-samples/y4m"
)

// renderLogEvery is the frame interval between progress log entries.
const renderLogEvery = 100

// Render computes every frame in order and writes it to w. The context
// is checked before each frame, so cancellation takes effect within one
// frame's work.
func (c *Clip) Render(ctx context.Context, w *y4m.Writer) error {
	if w == nil {
		return ErrNilWriter
	}

	log := logrus.WithFields(logrus.Fields{
		"function": "Render",
		"package":  "vssamples",
		"kind":     c.src.Kind().String(),
		"frames":   c.settings.Frames,
	})
	log.Debug("render started")

	for n := 0; n < c.settings.Frames; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := c.Frame(n)
		if err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
		if err := w.WriteFrame(f); err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
		if (n+1)%renderLogEvery == 0 {
			log.WithField("frame", n+1).Debug("render progress")
		}
	}

	log.Debug("render finished")
	return nil
}

// renderResult carries one computed frame from a worker to the writer.
type renderResult struct {
	f   *frame.Frame
	err error
}

// RenderParallel computes frames on up to workers goroutines while
// delivering them to w strictly in index order. workers below 1 selects
// GOMAXPROCS. Frame computation is pure, so the output stream is
// byte-identical to Render's.
func (c *Clip) RenderParallel(ctx context.Context, w *y4m.Writer, workers int) error {
	if w == nil {
		return ErrNilWriter
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 1 {
		return c.Render(ctx, w)
	}

	logrus.WithFields(logrus.Fields{
		"function": "RenderParallel",
		"package":  "vssamples",
		"kind":     c.src.Kind().String(),
		"frames":   c.settings.Frames,
		"workers":  workers,
	}).Debug("parallel render started")

	g, ctx := errgroup.WithContext(ctx)

	// Bounded queue of per-frame slots. Slot order is frame order, so
	// the writer drains results in sequence no matter which worker
	// finishes first; the capacity caps the frames in flight.
	slots := make(chan chan renderResult, workers)

	g.Go(func() error {
		defer close(slots)
		for n := 0; n < c.settings.Frames; n++ {
			n := n
			slot := make(chan renderResult, 1)
			select {
			case slots <- slot:
			case <-ctx.Done():
				return ctx.Err()
			}
			g.Go(func() error {
				f, err := c.Frame(n)
				if err != nil {
					err = fmt.Errorf("frame %d: %w", n, err)
				}
				slot <- renderResult{f: f, err: err}
				return err
			})
		}
		return nil
	})

	g.Go(func() error {
		n := 0
		for slot := range slots {
			var res renderResult
			select {
			case res = <-slot:
			case <-ctx.Done():
				return ctx.Err()
			}
			if res.err != nil {
				return res.err
			}
			if err := w.WriteFrame(res.f); err != nil {
				return fmt.Errorf("frame %d: %w", n, err)
			}
			n++
		}
		return nil
	})

	return g.Wait()
}
