package driver_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fsm "github.com/stateforward/go-fsm"
	"github.com/stateforward/go-fsm/clock"
	"github.com/stateforward/go-fsm/pkg/driver"
)

type tickerFunc func(ctx context.Context) error

func (fn tickerFunc) Execute(ctx context.Context) error {
	return fn(ctx)
}

func TestRunFrames(t *testing.T) {
	frames := 0
	machine := fsm.New("count")
	require.NoError(t, machine.AddState(fsm.Define("count", fsm.Activity(fsm.Do(func(fsm.Context) error {
		frames++
		return nil
	})))))
	c := clock.NewManual(time.Unix(0, 0))

	n, err := driver.Run(context.Background(), machine, driver.Options{
		Frames:   5,
		Interval: 16 * time.Millisecond,
		Clock:    c,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, frames)
	assert.Len(t, c.Slept(), 5)
	assert.Equal(t, time.Unix(0, 0).Add(80*time.Millisecond), c.Now())
}

func TestRunSkipsSleepOnOverrun(t *testing.T) {
	c := clock.NewManual(time.Unix(0, 0))
	ticker := tickerFunc(func(context.Context) error {
		c.Advance(20 * time.Millisecond)
		return nil
	})
	n, err := driver.Run(context.Background(), ticker, driver.Options{Frames: 3, Interval: 16 * time.Millisecond, Clock: c})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Empty(t, c.Slept())
}

func TestRunStopsOnError(t *testing.T) {
	calls := 0
	ticker := tickerFunc(func(context.Context) error {
		calls++
		if calls == 2 {
			return assert.AnError
		}
		return nil
	})
	n, err := driver.Run(context.Background(), ticker, driver.Options{Frames: 5, Clock: clock.NewManual(time.Unix(0, 0))})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 2, n)

	calls = 0
	var seen []int
	n, err = driver.Run(context.Background(), ticker, driver.Options{
		Frames:          4,
		Clock:           clock.NewManual(time.Unix(0, 0)),
		ContinueOnError: true,
		OnFrame:         func(frame int) { seen = append(seen, frame) },
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
}

func TestRunUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	ticker := tickerFunc(func(context.Context) error {
		calls++
		if calls == 10 {
			cancel()
		}
		return nil
	})
	n, err := driver.Run(ctx, ticker, driver.Options{Interval: time.Millisecond, Clock: clock.NewManual(time.Unix(0, 0))})
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}
