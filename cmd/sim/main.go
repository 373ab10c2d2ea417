package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	var (
		tuningPath = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml (defaults are used if missing)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		worldID    = flag.String("world", "world_1", "world id")
		seed       = flag.Int64("seed", 0, "override tuning seed")
		robots     = flag.Int("robots", 0, "override robot count")
		obstacles  = flag.Int("obstacles", 0, "override obstacle count")
		ticks      = flag.Uint64("ticks", 0, "step N ticks with a fixed dt and exit (0 = run in real time until signalled)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite index")
		logEvery   = flag.Int("log_every", 0, "override progress log interval in ticks")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[sim] ", log.LstdFlags|log.Lmicroseconds)

	opts := options{
		TuningPath: *tuningPath,
		DataDir:    *dataDir,
		WorldID:    *worldID,
		Ticks:      *ticks,
		DisableDB:  *disableDB,
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			opts.Seed = seed
		case "robots":
			opts.Robots = robots
		case "obstacles":
			opts.Obstacles = obstacles
		case "log_every":
			opts.LogEvery = logEvery
		}
	})

	ctx, cancel := signalContext()
	defer cancel()

	res, err := run(ctx, opts, logger)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	logger.Printf("run %s done: ticks=%d digest=%s dir=%s", res.RunID, res.Ticks, res.Digest, res.RunDir)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
