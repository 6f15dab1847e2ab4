// File: cmd/pacebench/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// pacebench runs a set of paced workers for a while and reports their
// timing statistics, either from a YAML config or from flags.

package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/urfave/cli"

	"github.com/momentics/pacekit/control"
	"github.com/momentics/pacekit/internal/diag"
	"github.com/momentics/pacekit/worker"
)

func main() {
	app := cli.App{
		Name:      "pacebench",
		HelpName:  "pacebench",
		Usage:     "exercise pacekit workers and report pacing statistics",
		UsageText: "pacebench [options]",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "config, c",
				Usage: "YAML worker-set config; overrides the rate flags",
			},
			cli.Float64Flag{
				Name:  "rate, r",
				Usage: "cycle rate in Hz for the ad-hoc worker",
				Value: 100,
			},
			cli.DurationFlag{
				Name:  "busy, b",
				Usage: "simulated work per cycle",
				Value: 2 * time.Millisecond,
			},
			cli.DurationFlag{
				Name:  "duration, d",
				Usage: "how long to run",
				Value: 3 * time.Second,
			},
			cli.BoolFlag{
				Name:  "relax",
				Usage: "forgive schedule deficits instead of catching up",
			},
			cli.IntFlag{
				Name:  "history",
				Usage: "number of recent diagnostics to retain and print",
				Value: 16,
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pacebench: %s\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	hist := control.NewHistory(c.Int("history"))
	// Diagnostics land in the history for the final report instead of
	// interleaving with it on stderr.
	sink := control.RecordingSink(hist, diag.Discard)
	busy := c.Duration("busy")
	callback := func(worker.Event) bool {
		time.Sleep(busy)
		return true
	}

	mgr := worker.NewManager()
	if path := c.String("config"); path != "" {
		cfg, err := control.Load(path)
		if err != nil {
			return err
		}
		for _, wc := range cfg.Workers {
			opts := wc.Options(callback)
			opts.Sink = sink
			if err := mgr.Add(opts); err != nil {
				return err
			}
		}
	} else {
		rate := c.Float64("rate")
		if rate <= 0 {
			return fmt.Errorf("rate must be positive, got %v", rate)
		}
		err := mgr.Add(worker.Options{
			Name:      "bench",
			TimeStep:  1 / rate,
			Callback:  callback,
			RelaxRate: c.Bool("relax"),
			Sink:      sink,
		})
		if err != nil {
			return err
		}
	}

	if err := mgr.StartAll(); err != nil {
		return err
	}
	time.Sleep(c.Duration("duration"))
	mgr.StopAll(true)

	metrics := control.NewMetricsRegistry()
	metrics.Collect(mgr)
	report(metrics, hist)
	return nil
}

func report(metrics *control.MetricsRegistry, hist *control.History) {
	snaps := metrics.GetSnapshot()
	names := make([]string, 0, len(snaps))
	for name := range snaps {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%-16s %10s %8s %8s %12s %12s %12s\n",
		"worker", "cycles", "warns", "errors", "awake mean", "awake std", "awake last")
	for _, name := range names {
		s := snaps[name]
		fmt.Printf("%-16s %10d %8d %8d %11.6fs %11.6fs %11.6fs\n",
			s.Name, s.Cycles, s.Warnings, s.Errors, s.MeanAwake, s.StdDevAwake, s.LastAwake)
	}

	if recs := hist.Records(); len(recs) > 0 {
		fmt.Printf("\nrecent diagnostics (%d):\n", len(recs))
		for _, r := range recs {
			fmt.Printf("  %s %-7s %s\n", r.Wall.Format("15:04:05.000"), r.Severity, r.Message)
		}
	}
}
