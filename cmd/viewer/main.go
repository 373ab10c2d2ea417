package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"exolore.ai/internal/render/term"
	"exolore.ai/internal/sim/tuning"
	"exolore.ai/internal/sim/world"
)

func main() {
	var (
		tuningPath = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml (defaults are used if missing)")
		seed       = flag.Int64("seed", 0, "override tuning seed")
		robots     = flag.Int("robots", 0, "override robot count")
		obstacles  = flag.Int("obstacles", 0, "override obstacle count")
		fps        = flag.Int("fps", 30, "redraw rate")
	)
	flag.Parse()

	// The screen owns stdout; log to stderr after it is torn down.
	logger := log.New(os.Stderr, "[viewer] ", log.LstdFlags|log.Lmicroseconds)

	tune, found, err := tuning.LoadOrDefaults(*tuningPath)
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			tune.Seed = *seed
		case "robots":
			tune.Robots.Count = *robots
		case "obstacles":
			tune.Obstacles.Count = *obstacles
		}
	})
	if err := tune.Validate(); err != nil {
		logger.Fatalf("tuning: %v", err)
	}
	if *fps <= 0 {
		logger.Fatalf("fps must be > 0 (got %d)", *fps)
	}

	cfg, err := world.ConfigFromTuning("viewer", tune)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	w, err := world.New(cfg)
	if err != nil {
		logger.Fatalf("world: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Fatalf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		logger.Fatalf("screen init: %v", err)
	}

	err = view(context.Background(), screen, w, time.Second/time.Duration(*fps))
	screen.Fini()
	if !found {
		logger.Printf("tuning not found (%s); used defaults", *tuningPath)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("%v", err)
	}
	fmt.Printf("stopped at tick %d\n", w.CurrentTick())
}

// view runs w and redraws screen every frame until the user quits.
func view(ctx context.Context, screen tcell.Screen, w *world.World, frame time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	worldDone := make(chan error, 1)
	go func() { worldDone <- w.Run(ctx) }()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	r := term.New(screen)
	redraw := func() {
		r.Draw(w.View(), term.Status{Paused: w.Paused(), Metrics: w.Metrics()})
	}
	redraw()

	t := time.NewTicker(frame)
	defer t.Stop()
	for {
		select {
		case err := <-worldDone:
			return err
		case <-t.C:
			redraw()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if quitKey(ev) {
					cancel()
					<-worldDone
					return nil
				}
				if ev.Key() == tcell.KeyRune && ev.Rune() == ' ' {
					w.SetPaused(!w.Paused())
					redraw()
				}
			case *tcell.EventResize:
				screen.Sync()
				redraw()
			}
		}
	}
}

func quitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}
