package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	var (
		runDir   = flag.String("run", "", "run directory containing run.json and events/")
		maxTicks = flag.Uint64("max_ticks", 0, "stop after N ticks (0 = all recorded ticks)")
	)
	flag.Parse()

	if *runDir == "" {
		fmt.Fprintln(os.Stderr, "missing -run")
		os.Exit(2)
	}

	res, err := replay(*runDir, *maxTicks)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("replay ok: run=%s world=%s seed=%d checked=%d ticks digest=%s\n",
		res.Header.RunID, res.Header.WorldID, res.Header.Tuning.Seed, res.Checked, res.Digest)
}
