// Command galaxy renders a procedural spiral galaxy in the terminal
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/spiral-galaxy/audio"
	"github.com/lixenwraith/spiral-galaxy/config"
	"github.com/lixenwraith/spiral-galaxy/control"
	"github.com/lixenwraith/spiral-galaxy/galaxy"
	"github.com/lixenwraith/spiral-galaxy/render"
	"github.com/lixenwraith/spiral-galaxy/vmath"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := newFlags("galaxy")
	if err := flags.parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := flags.loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "galaxy: %v\n", err)
		return 1
	}

	log, logFile := setupLogging(cfg.Viewer)
	if logFile != nil {
		defer logFile.Close()
	}
	log.Info("starting", "params", cfg.Galaxy.String(), "preset", cfg.Preset, "seed", cfg.Viewer.Seed)

	src := newSource(cfg.Viewer.Seed)

	if flags.png != "" {
		if err := snapshot(cfg, src, flags.png, flags.width, flags.height, flags.at, log); err != nil {
			fmt.Fprintf(os.Stderr, "galaxy: %v\n", err)
			return 1
		}
		return 0
	}

	setColorMode(flags.color)
	if err := runViewer(cfg, src, log); err != nil {
		fmt.Fprintf(os.Stderr, "galaxy: %v\n", err)
		return 1
	}
	return 0
}

func newSource(seed uint64) galaxy.Source {
	if seed == 0 {
		return vmath.NewTimeSeeded()
	}
	return vmath.NewFastRand(seed)
}

// setColorMode steers tcell's palette detection from the -color flag
func setColorMode(mode string) {
	switch mode {
	case "256":
		os.Setenv("TCELL_TRUECOLOR", "disable")
	case "truecolor", "true", "24bit":
		os.Setenv("COLORTERM", "truecolor")
	}
}

func runViewer(cfg *config.Config, src galaxy.Source, log *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer screen.Fini()

	// Panic Recovery: restore the terminal before printing the crash
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mGALAXY CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	screen.HideCursor()
	screen.Clear()

	sound := audio.NewSoundManager(&audio.Config{
		Enabled:      cfg.Viewer.Sound,
		MasterVolume: cfg.Viewer.Volume,
		SampleRate:   44100,
	})
	if err := sound.Initialize(); err != nil {
		log.Warn("audio unavailable, continuing without sound", "error", err)
	}
	defer sound.Cleanup()

	scene := render.NewScene()
	gen := galaxy.NewGenerator(scene, src,
		galaxy.WithBufferLimit(cfg.Viewer.BufferLimit),
		galaxy.WithLogger(log.With("component", "generator")),
	)

	var v *viewer
	ctrl, err := control.New(gen, cfg.Galaxy,
		control.WithRateLimit(cfg.Viewer.RegenRate, 1),
		control.WithLogger(log.With("component", "controller")),
		control.WithNotify(func(res control.Result) { v.onResult(res) }),
	)
	if err != nil {
		return err
	}
	v = newViewer(screen, scene, ctrl, sound, cfg, log.With("component", "viewer"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("controller stopped", "error", err)
		}
	}()

	v.run(ctx)

	stop()
	wg.Wait()
	ctrl.Close()
	log.Info("stopped", "stats", fmt.Sprintf("%+v", ctrl.Stats().Snapshot()))
	return nil
}
