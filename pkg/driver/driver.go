// Package driver ticks a machine once per frame.
package driver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/stateforward/go-fsm/clock"
)

// Ticker is implemented by fsm.Fsm and fsm.AsyncFsm.
type Ticker interface {
	Execute(ctx context.Context) error
}

type Options struct {
	// Frames to run; zero runs until ctx is done.
	Frames int
	// Interval is the frame period. Frames that overrun it start the next one at once.
	Interval time.Duration
	Clock    clock.Clock
	Logger   *slog.Logger
	// ContinueOnError logs tick errors instead of stopping.
	ContinueOnError bool
	// OnFrame runs after every tick with the zero-based frame number.
	OnFrame func(frame int)
}

// Run executes ticker once per frame and returns the number of frames run.
// Cancelling ctx ends the run without an error.
func Run(ctx context.Context, ticker Ticker, options Options) (int, error) {
	if options.Clock == nil {
		options.Clock = clock.Make()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	frame := 0
	for ; options.Frames == 0 || frame < options.Frames; frame++ {
		if ctx.Err() != nil {
			return frame, nil
		}
		start := options.Clock.Now()
		if err := ticker.Execute(ctx); err != nil {
			if !options.ContinueOnError {
				return frame + 1, err
			}
			options.Logger.Error("tick failed", "frame", frame, "error", err)
		}
		if options.OnFrame != nil {
			options.OnFrame(frame)
		}
		wait := options.Interval - options.Clock.Now().Sub(start)
		if wait <= 0 {
			continue
		}
		if err := options.Clock.Sleep(ctx, wait); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return frame + 1, nil
			}
			return frame + 1, err
		}
	}
	return frame, nil
}
