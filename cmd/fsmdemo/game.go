package main

import (
	"context"
	"fmt"
	"log/slog"

	fsm "github.com/stateforward/go-fsm"
	"github.com/stateforward/go-fsm/pkg/driver"
	"github.com/stateforward/go-fsm/pkg/expr"
)

const (
	screenBoot     fsm.StateKey = "boot"
	screenMenu     fsm.StateKey = "menu"
	screenPlay     fsm.StateKey = "play"
	screenPause    fsm.StateKey = "pause"
	screenSettings fsm.StateKey = "settings"
	screenGameOver fsm.StateKey = "gameover"
)

const (
	bootFrames     = 3
	gameOverFrames = 5
	damagePerFrame = 5
)

// game is the data the screens share. Hooks run one at a time, so it needs no lock.
type game struct {
	logger *slog.Logger

	loaded int
	health int
	score  int
	best   int
	over   int
	quit   bool
}

func (g *game) params(fsm.Context) map[string]any {
	return map[string]any{
		"loaded": g.loaded,
		"health": g.health,
		"over":   g.over,
	}
}

func (g *game) build(m machine) error {
	loaded, err := expr.Predicate(fmt.Sprintf("loaded >= %d", bootFrames), g.params, g.logger)
	if err != nil {
		return err
	}
	dead := expr.MustPredicate("health <= 0", g.params)
	shown := expr.MustPredicate(fmt.Sprintf("over >= %d", gameOverFrames), g.params)

	states := []fsm.State{
		fsm.Define(screenBoot,
			fsm.Entry(func(ctx fsm.Context) error {
				g.logger.Info("loading assets", "frames", bootFrames)
				return nil
			}),
			fsm.Activity(fsm.Do(func(fsm.Context) error {
				g.loaded++
				return nil
			})),
			fsm.When(loaded, fsm.Set(screenMenu)),
		),
		fsm.Define(screenMenu,
			fsm.Awake(func(fsm.Context) error {
				g.quit = false
				return nil
			}),
			fsm.On("start", fsm.Push(screenPlay)),
		),
		fsm.Define(screenPlay,
			fsm.Entry(func(fsm.Context) error {
				g.health, g.score = 100, 0
				return nil
			}),
			fsm.Activity(func(fsm.Context) (fsm.Command, error) {
				if g.quit {
					return fsm.Pop(), nil
				}
				g.health -= damagePerFrame
				g.score++
				return fsm.Stay(), nil
			}),
			fsm.Suspend(func(fsm.Context) error {
				g.logger.Info("game paused", "health", g.health, "score", g.score)
				return nil
			}),
			fsm.Exit(func(fsm.Context) error {
				g.best = max(g.best, g.score)
				return nil
			}),
			fsm.When(dead, fsm.PopPush(screenGameOver)),
			fsm.On("pause", fsm.Push(screenPause)),
		),
		fsm.Define(screenPause,
			fsm.On("resume", fsm.Pop()),
			// leaving pause wakes play, whose Execute sees quit and pops back to the menu
			fsm.OnFunc("quit", func(fsm.Context) fsm.Command {
				g.quit = true
				return fsm.Pop()
			}),
		),
		fsm.Define(screenSettings,
			fsm.On("back", fsm.Pop()),
		),
		fsm.Define(screenGameOver,
			fsm.Entry(func(fsm.Context) error {
				g.over = 0
				g.logger.Info("game over", "score", g.score)
				return nil
			}),
			fsm.Activity(fsm.Do(func(fsm.Context) error {
				g.over++
				return nil
			})),
			fsm.When(shown, fsm.Pop()),
		),
	}
	for _, state := range states {
		if err := m.AddState(state); err != nil {
			return err
		}
	}
	return m.AddEventRule("settings", fsm.EventRule{Outcome: fsm.Push(screenSettings)})
}

type input struct {
	event  fsm.EventKey
	weight int
}

// script is the player input, keyed by the frame that sees it.
var script = map[int][]input{
	5:  {{event: "start"}},
	10: {{event: "settings"}, {event: "pause", weight: 1}},
	14: {{event: "settings"}},
	17: {{event: "back"}},
	20: {{event: "resume"}},
	30: {{event: "pause"}},
	33: {{event: "quit"}},
	40: {{event: "start"}},
}

// drive runs the machine, feeding it the scripted input between frames.
func (g *game) drive(ctx context.Context, m machine, options driver.Options) (int, error) {
	options.OnFrame = func(frame int) {
		for _, in := range script[frame+1] {
			if err := m.Send(in.event, in.weight); err != nil {
				g.logger.Error("input rejected", "frame", frame, "event", in.event, "error", err)
			}
		}
	}
	return driver.Run(ctx, m, options)
}
