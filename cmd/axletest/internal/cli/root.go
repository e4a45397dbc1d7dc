// Package cli wires the cobra command surface for the axletest binary:
// dispatch between driver and runner mode, and the "run" subcommand that
// actually drives a test exe. Modeled on the teacher pack's cobra usage
// (DataDog-datadog-agent's cmd/trace-agent/command package) — a root
// command with persistent flags and zerolog-backed logging configured once
// at Execute time, rather than each subcommand configuring its own.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/axletest/axletest/driver"
	"github.com/axletest/axletest/ipc"
	"github.com/axletest/axletest/runner"
)

var (
	verbose    bool
	runnerMode bool
)

// Execute builds the root command and runs it against args (typically
// os.Args[1:]).
func Execute(args []string) error {
	root := newRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "axletest",
		Short:         "Process-isolated unit test driver and runner",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runnerMode {
				return runRunnerMode()
			}
			return cmd.Help()
		},
	}

	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	// RunnerModeFlag is never meant to be typed by a user; it is the flag
	// the driver appends when it re-execs a test binary as a runner.
	root.PersistentFlags().BoolVar(&runnerMode, driver.RunnerModeFlag[2:], false, "internal: run as an IPC runner, reading fd 3 and writing fd 4")
	_ = root.PersistentFlags().MarkHidden(driver.RunnerModeFlag[2:])

	root.AddCommand(newRunCommand())
	return root
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

// runRunnerMode services exactly one request on the fd 3/4 pipe pair an
// exec.Cmd.ExtraFiles-based parent handed this process, then exits —
// mirroring client_main's single request/response lifetime per process.
func runRunnerMode() error {
	in := os.NewFile(3, "axletest-req")
	out := os.NewFile(4, "axletest-resp")
	if in == nil || out == nil {
		return fmt.Errorf("axletest: runner mode requires inherited file descriptors 3 and 4")
	}
	if !runner.Run(ipc.NewBlockingTransport(in, out)) {
		os.Exit(1)
	}
	return nil
}
