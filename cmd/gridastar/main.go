package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	astar "github.com/pdrpinto/gridastar"
	"github.com/pdrpinto/gridastar/internal/logging"
	"github.com/pdrpinto/gridastar/internal/render"
	"github.com/pdrpinto/gridastar/internal/scenario"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads the scenario, searches it and prints the outcome to outW. Logs
// go to logW.
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	cfg, shouldExit, err := parseArgs(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, logW)
	if err != nil {
		return &ExitError{Code: exitConfig, Message: err.Error()}
	}
	defer logger.Sync()

	sc, err := scenario.NewLoader(logger).LoadFile(cfg.ScenarioPath)
	if err != nil {
		return &ExitError{Code: exitConfig, Message: err.Error()}
	}
	grid, err := sc.Build()
	if err != nil {
		return &ExitError{Code: exitConfig, Message: fmt.Sprintf("%s: %v", cfg.ScenarioPath, err)}
	}

	renderer := render.New(outW, grid,
		render.WithColor(cfg.Color),
		render.WithClear(cfg.Draw),
		render.WithDelay(cfg.Delay))
	var onStep astar.StepFunc
	if cfg.Draw {
		onStep = renderer.Step
	}

	logger.Info("search started",
		zap.String("scenario", cfg.ScenarioPath),
		zap.Int("size", grid.Size()),
		zap.Int("barriers", len(grid.Barriers())))
	result, err := astar.Run(ctx, grid, sc.Start, sc.End, onStep, astar.WithLogger(logger))
	if err != nil {
		return &ExitError{Code: exitConfig, Message: err.Error()}
	}
	if err := renderer.Err(); err != nil {
		return err
	}
	logger.Info("search finished",
		zap.Stringer("outcome", result.Outcome),
		zap.Int("expanded", result.ExpandedNodes))

	switch result.Outcome {
	case astar.Found:
		if !cfg.Draw {
			if err := renderer.Draw(); err != nil {
				return err
			}
		}
		fmt.Fprintf(outW, "path found: cost %d, %d cells expanded\n", result.TotalCost, result.ExpandedNodes)
		fmt.Fprintln(outW, formatPath(result.Path))
		return nil
	case astar.Exhausted:
		return &ExitError{Code: exitNoPath, Message: fmt.Sprintf("no path from %v to %v", sc.Start, sc.End)}
	default:
		return &ExitError{Code: exitCancelled, Message: "search cancelled"}
	}
}

func formatPath(path []astar.Position) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = p.String()
	}
	return strings.Join(parts, " -> ")
}
