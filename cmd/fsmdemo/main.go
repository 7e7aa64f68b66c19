// Command fsmdemo drives a game-screen pushdown machine for a fixed number of frames.
//
// Configuration comes from the environment (see internal/config). With FSM_DIAGRAM set
// it prints the PlantUML diagram of the machine and exits.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	fsm "github.com/stateforward/go-fsm"
	"github.com/stateforward/go-fsm/internal/config"
	"github.com/stateforward/go-fsm/internal/logging"
	"github.com/stateforward/go-fsm/pkg/driver"
	"github.com/stateforward/go-fsm/pkg/plantuml"
	"github.com/stateforward/go-fsm/pkg/telemetry"
)

type machine interface {
	driver.Ticker
	plantuml.Model
	AddState(state fsm.State) error
	AddEventRule(event fsm.EventKey, rule fsm.EventRule) error
	Send(event fsm.EventKey, maybeWeight ...int) error
	Subscribe(listener fsm.Listener) func()
	Stack() []fsm.StateKey
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fsmdemo:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}
	logger := logging.New(logging.WithLevel(level), logging.WithFormat(format))

	fsmConfig := fsm.Config{Name: cfg.Name, Logger: logger, MaxChainedTransitions: cfg.MaxChained}
	var provider *telemetry.Provider
	if cfg.Trace {
		provider = telemetry.NewProvider()
		fsmConfig.Trace = telemetry.New(provider.Tracer(telemetry.Instrumentation))
	}

	var m machine
	var wait func(context.Context) error
	if cfg.Async {
		async := fsm.NewAsync(screenBoot, fsmConfig)
		m, wait = async, async.Wait
	} else {
		m, wait = fsm.New(screenBoot, fsmConfig), func(context.Context) error { return nil }
	}
	g := &game{logger: logger}
	if err := g.build(m); err != nil {
		return err
	}
	if cfg.Diagram {
		return plantuml.Generate(os.Stdout, m)
	}

	m.Subscribe(fsm.Listeners{
		Transition: func(args fsm.TransitionArgs) {
			logger.Info("screen", "from", args.From, "to", args.To)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	frames, err := g.drive(ctx, m, driver.Options{
		Frames:   cfg.Frames,
		Interval: cfg.FrameInterval,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	if err := wait(context.Background()); err != nil {
		return err
	}

	logger.Info("done", "frames", frames, "stack", m.Stack(), "best_score", g.best)
	if provider != nil {
		counts := map[string]int{}
		for _, span := range provider.Spans() {
			counts[span.Name]++
		}
		logger.Info("spans", slog.Any("counts", counts))
	}
	return nil
}
