package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/axletest/axletest/driver"
)

func newRunCommand() *cobra.Command {
	var (
		timeout      time.Duration
		contextFlags []string
	)

	cmd := &cobra.Command{
		Use:   "run [client-exe]",
		Short: "Discover and run every registered test, each in its own process",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientExe, err := resolveClientExe(args)
			if err != nil {
				return err
			}

			contexts, err := parseContextFlags(contextFlags)
			if err != nil {
				return err
			}

			cfg := driver.Config{
				ClientExe: clientExe,
				Contexts:  contexts,
				Timeout:   timeout,
				Stdout:    os.Stdout,
				Stderr:    os.Stderr,
				Logger:    newLogger(),
			}

			result, err := driver.Run(cfg)
			if err != nil {
				return err
			}
			if !result.Passed() {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-exchange deadline before a runner is considered hung")
	cmd.Flags().StringArrayVar(&contextFlags, "context", nil, "name=base64(data) pair, may be repeated, supplying an opaque context a test declared it needs")

	return cmd
}

// resolveClientExe defaults to this process's own executable, so a single
// binary that links registry/runner/cli against its own test files can
// both discover and execute its tests by re-exec'ing itself — the common
// case. An explicit argument is for driving a separately built test binary.
func resolveClientExe(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("axletest: could not resolve own executable path: %w", err)
	}
	return self, nil
}

func parseContextFlags(flags []string) (map[string][]byte, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	out := make(map[string][]byte, len(flags))
	for _, f := range flags {
		name, encoded, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("axletest: malformed --context %q, want name=base64(data)", f)
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("axletest: --context %s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}
