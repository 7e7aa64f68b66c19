package main

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fsm "github.com/stateforward/go-fsm"
	"github.com/stateforward/go-fsm/clock"
	"github.com/stateforward/go-fsm/pkg/driver"
	"github.com/stateforward/go-fsm/pkg/plantuml"
)

func TestScriptedSession(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := fsm.New(screenBoot, fsm.Config{Name: "game", Logger: logger})
	g := &game{logger: logger}
	require.NoError(t, g.build(m))

	var screens []fsm.StateKey
	deepest := 0
	m.Subscribe(fsm.Listeners{
		Transition: func(args fsm.TransitionArgs) {
			screens = append(screens, args.To)
			deepest = max(deepest, len(m.Stack()))
		},
	})

	frames, err := g.drive(context.Background(), m, driver.Options{
		Frames:   70,
		Interval: 16 * time.Millisecond,
		Clock:    clock.NewManual(time.Unix(0, 0)),
	})
	require.NoError(t, err)
	assert.Equal(t, 70, frames)

	assert.Equal(t, []fsm.StateKey{screenMenu}, m.Stack())
	assert.Equal(t, 20, g.best)
	assert.Equal(t, 4, deepest, "settings over pause over play over menu")
	assert.Equal(t, []fsm.StateKey{
		screenBoot, screenMenu, screenPlay, screenPause, screenSettings, screenPause, screenPlay,
		screenPause, screenPlay, screenMenu, screenPlay, screenGameOver, screenMenu,
	}, screens)
	assert.True(t, slices.Contains(screens, screenGameOver))
}

func TestDiagram(t *testing.T) {
	m := fsm.New(screenBoot, fsm.Config{Name: "game"})
	g := &game{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	require.NoError(t, g.build(m))

	var builder strings.Builder
	require.NoError(t, plantuml.Generate(&builder, m))
	diagram := builder.String()
	assert.Contains(t, diagram, "[*] --> boot")
	assert.Contains(t, diagram, "menu ----> play : start / push")
	assert.Contains(t, diagram, "play ----> gameover : [when 1] / pop push")
	assert.Contains(t, diagram, "state pause: quit / dynamic")
}
