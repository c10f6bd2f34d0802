package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Exit codes.
const (
	exitNoPath    = 1
	exitConfig    = 2
	exitCancelled = 3
)

// Config is the validated command line.
type Config struct {
	ScenarioPath string
	LogLevel     string
	LogFormat    string
	Draw         bool
	Color        bool
	Delay        time.Duration
}

// parseArgs processes command-line arguments. It returns the config, whether
// the program should exit cleanly (help was printed), or an ExitError.
func parseArgs(args []string, output io.Writer) (*Config, bool, error) {
	flagSet := flag.NewFlagSet("gridastar", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
gridastar - shortest paths on square grids with A*.

Usage:
  gridastar [options] SCENARIO.hcl

Options:
`)
		flagSet.PrintDefaults()
	}

	logLevelFlag := flagSet.String("log-level", "info", "Logging level: debug, info, warn, error.")
	logFormatFlag := flagSet.String("log-format", "console", "Log output format: console or json.")
	drawFlag := flagSet.Bool("draw", false, "Redraw the grid after every search step.")
	colorFlag := flagSet.Bool("color", true, "Use ANSI colors when drawing.")
	delayFlag := flagSet.Duration("delay", 0, "Pause after every drawn step, e.g. 20ms.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: exitConfig, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: exitConfig, Message: "expected exactly one scenario file"}
	}

	cfg := &Config{
		ScenarioPath: flagSet.Arg(0),
		LogLevel:     strings.ToLower(*logLevelFlag),
		LogFormat:    strings.ToLower(*logFormatFlag),
		Draw:         *drawFlag,
		Color:        *colorFlag,
		Delay:        *delayFlag,
	}
	if cfg.Delay < 0 {
		return nil, false, &ExitError{Code: exitConfig, Message: "delay must not be negative"}
	}
	return cfg, false, nil
}
