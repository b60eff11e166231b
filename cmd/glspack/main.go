// Package main is the glspack CLI driver: it parses a problem instance,
// runs the Orchestrator's Explore/Compress loop against a time budget, and
// writes the resulting solution (plus a diagnostic SVG) back out. None of
// the flag parsing, JSON IO, or SVG rendering here is part of the core
// separation engine.
package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/rbscholtus/glspack/internal/builder"
	"github.com/rbscholtus/glspack/internal/geom"
	"github.com/rbscholtus/glspack/internal/gls"
	"github.com/rbscholtus/glspack/internal/ioformat"
)

func main() {
	app := &cli.App{
		Name:  "glspack",
		Usage: "2D irregular strip-packing via Guided Local Search",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "i", Usage: "input instance JSON path", Required: true},
			&cli.DurationFlag{Name: "t", Usage: "total time budget (exclusive with -e/-c)"},
			&cli.DurationFlag{Name: "e", Usage: "explore-phase time budget"},
			&cli.DurationFlag{Name: "c", Usage: "compress-phase time budget"},
			&cli.Int64Flag{Name: "s", Usage: "fixed RNG seed", Value: 0},
			&cli.BoolFlag{Name: "x", Usage: "enable Ctrl-C handler"},
			&cli.StringFlag{Name: "o", Usage: "output directory for solution.json/solution.svg", Value: "."},
			&cli.IntFlag{Name: "workers", Usage: "number of separator workers", Value: 4},
			&cli.StringFlag{Name: "log-file", Usage: "JSONL structured log path (disabled if empty)"},
		},
		Before: validateFlags,
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

func validateFlags(c *cli.Context) error {
	total, explore, compress := c.Duration("t"), c.Duration("e"), c.Duration("c")
	if total > 0 && (explore > 0 || compress > 0) {
		return fmt.Errorf("-t is exclusive with -e/-c")
	}
	if total == 0 && explore == 0 && compress == 0 {
		return fmt.Errorf("one of -t or -e/-c is required")
	}
	return nil
}

func run(c *cli.Context) error {
	instPath := c.String("i")
	inst, err := ioformat.LoadInstance(instPath)
	if err != nil {
		return err
	}

	surCfg := geom.DefaultSurrogateConfig()
	demands, err := inst.ToDemands(surCfg)
	if err != nil {
		return fmt.Errorf("instance %s: %w", instPath, err)
	}
	numItems := 0
	for _, d := range demands {
		numItems += d.Quantity
	}

	seed := c.Int64("s")
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))

	cfg := gls.DefaultGLSConfig(numItems)
	if w := c.Int("workers"); w > 0 {
		cfg.NWorkers = w
	}

	var logFile *os.File
	if path := c.String("log-file"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating log file: %w", err)
		}
		defer f.Close()
		logFile = f
	}
	logger := gls.NewLogger(os.Stdout, logFile)

	initialWidth := inst.InitialStripWidth(demands)
	problem := builder.Build(demands, inst.StripHeight, initialWidth, cfg.LBFSampleConfig, rng)

	term := gls.NewTerminator()
	if c.Bool("x") {
		installCtrlCHandler(term)
	}

	budget := resolveBudget(c)
	exploreTerm := term.WithTimeout(budget.Explore)
	compressTerm := term.WithTimeout(budget.Explore + budget.Compress)

	orch := gls.NewOrchestrator(problem, cfg, rng, logger)

	start := time.Now()
	orch.Explore(exploreTerm, gls.NoopListener{})
	orch.Compress(compressTerm, gls.NoopListener{})
	elapsed := time.Since(start)

	best := orch.BestProblem()

	if err := os.MkdirAll(c.String("o"), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	runID := ioformat.NewRunID()
	sol := ioformat.BuildSolutionFile(runID, filepath.Base(instPath), best, elapsed)
	if err := ioformat.WriteSolution(filepath.Join(c.String("o"), "solution.json"), sol); err != nil {
		return err
	}
	if err := ioformat.WriteSVG(filepath.Join(c.String("o"), "solution.svg"), best); err != nil {
		return err
	}

	printSummary(sol, elapsed)
	return nil
}

func resolveBudget(c *cli.Context) gls.PhaseBudget {
	if total := c.Duration("t"); total > 0 {
		return gls.SplitBudget(total)
	}
	return gls.PhaseBudget{Explore: c.Duration("e"), Compress: c.Duration("c")}
}

func installCtrlCHandler(term gls.Terminator) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go func() {
		<-ch
		term.Stop()
	}()
}

func printSummary(sol ioformat.SolutionFile, elapsed time.Duration) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Width", "Height", "Density", "Items", "Elapsed"})
	t.AppendRow(table.Row{
		fmt.Sprintf("%.3f", sol.StripWidth),
		fmt.Sprintf("%.3f", sol.StripHeight),
		fmt.Sprintf("%.2f%%", sol.Density*100),
		len(sol.Placements),
		elapsed.Round(time.Millisecond),
	})
	t.Render()
}
