// Package driver implements the parent side of the IPC protocol: it spawns
// one fresh runner process per test (process isolation means a crashing or
// hanging test can never take the next test down with it), drives the
// discovery and execute exchanges described in package ipc, and prints a
// pass/fail summary. It is grounded on the teacher's
// AxleTest::IPC::server_main, start_test_executable, expect_test_info and
// expect_report, adapted from Windows named pipes and CreateProcessA to
// exec.Cmd and anonymous os.Pipe pairs passed through ExtraFiles.
package driver

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/axletest/axletest/ipc"
	"github.com/axletest/axletest/wire"
)

// RunnerModeFlag is the hidden flag cmd/axletest's root command recognizes
// to re-exec itself as a runner rather than a driver. It is exported so the
// driver and the CLI layer agree on its spelling without a circular import.
const RunnerModeFlag = "--axletest-runner"

// Catalogue is one test the driver learned about during discovery.
type Catalogue struct {
	Name        string
	ContextName string
}

// Failure is one test that did not report Success.
type Failure struct {
	TestName string
	Message  string
}

// Config configures a driver run.
type Config struct {
	// ClientExe is the path to the test binary to spawn — a binary built
	// against package registry/runner/cmd, not the axletest binary itself,
	// though in practice they are often the same executable self-re-exec'd.
	ClientExe string
	// Args are extra arguments appended after RunnerModeFlag when spawning
	// a child, e.g. to select a build variant.
	Args []string
	// Contexts holds the opaque, named payloads available to tests that
	// declare a required context. A test whose context name has no entry
	// here fails without a runner ever being spawned for it.
	Contexts map[string][]byte
	// Timeout bounds every single IPC exchange with a child — discovery,
	// and each test's execute/report round trip. A child that misses it is
	// killed and the test is reported as failed.
	Timeout time.Duration
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  zerolog.Logger
}

// Result is the outcome of a full driver run.
type Result struct {
	Total    int
	Failures []Failure
}

// Passed reports whether every discovered test reported Success.
func (r Result) Passed() bool { return len(r.Failures) == 0 }

// Run discovers tests from cfg.ClientExe, executes each in its own runner
// process, and prints progress and a final summary to cfg.Stdout/cfg.Stderr.
func Run(cfg Config) (Result, error) {
	catalogue, err := discoverTests(cfg)
	if err != nil {
		return Result{}, fmt.Errorf("driver: discovery failed: %w", err)
	}
	cfg.Logger.Debug().Int("count", len(catalogue)).Msg("tests found")

	var failures []Failure
	for i, entry := range catalogue {
		failure := runOne(cfg, uint32(i), entry)
		if failure != nil {
			failures = append(failures, *failure)
		}
	}

	printSummary(cfg, failures, len(catalogue))
	return Result{Total: len(catalogue), Failures: failures}, nil
}

func runOne(cfg Config, id uint32, entry Catalogue) *Failure {
	var ctxData []byte
	if entry.ContextName != "" {
		fmt.Fprintf(cfg.Stdout, "%s (%s) ...\t", entry.Name, entry.ContextName)
		data, ok := cfg.Contexts[entry.ContextName]
		if !ok {
			fmt.Fprintln(cfg.Stdout, "Failed")
			return &Failure{TestName: entry.Name, Message: fmt.Sprintf("Invalid context type: %s", entry.ContextName)}
		}
		ctxData = data
	} else {
		fmt.Fprintf(cfg.Stdout, "%s ...\t", entry.Name)
	}

	ch, err := spawnChild(cfg)
	if err != nil {
		cfg.Logger.Error().Err(err).Str("test", entry.Name).Msg("failed to start runner process")
		fmt.Fprintln(cfg.Stdout, "Failed")
		return &Failure{TestName: entry.Name, Message: "Internal Error: Failed to create process"}
	}
	defer ch.terminate(cfg.Timeout)

	c := wire.New(ch.transport, ipc.Order)
	ipc.WriteExecute(c, id)
	if entry.ContextName != "" {
		ipc.WriteData(c, ctxData)
	}

	report, ok := ipc.ExpectReport(c)
	if !ok {
		fmt.Fprintln(cfg.Stdout, "Failed")
		return &Failure{TestName: entry.Name, Message: "Internal Error: Message never received (likely timeout)"}
	}

	switch report.Type {
	case ipc.ReportSuccess:
		if len(report.Message) != 0 {
			fmt.Fprintln(cfg.Stdout, "Failed")
			return &Failure{TestName: entry.Name, Message: fmt.Sprintf("Assertion failed: success report carried a non-empty message: %q", report.Message)}
		}
		fmt.Fprintln(cfg.Stdout, "Success")
		return nil
	case ipc.ReportFailure:
		fmt.Fprintln(cfg.Stdout, "Failed")
		return &Failure{TestName: entry.Name, Message: string(report.Message)}
	default:
		fmt.Fprintln(cfg.Stdout, "Failed")
		return &Failure{TestName: entry.Name, Message: fmt.Sprintf("Unexpected Report Message Type: %v", report.Type)}
	}
}

// discoverTests spawns one child, asks it for its test catalogue, and tears
// it down again — discovery always runs in its own short-lived process
// rather than piggybacking on the first test's runner, matching the
// teacher's server_main, which spawns a dedicated ChildProcess for
// expect_test_info before the per-test loop even starts.
func discoverTests(cfg Config) ([]Catalogue, error) {
	ch, err := spawnChild(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start discovery process: %w", err)
	}
	defer ch.terminate(cfg.Timeout)

	c := wire.New(ch.transport, ipc.Order)
	ipc.WriteQueryTestInfo(c)

	count, ok := ipc.ExpectDataU32(c)
	if !ok {
		return nil, fmt.Errorf("test count message invalid")
	}
	if _, ok := ipc.ExpectDataU32(c); !ok {
		return nil, fmt.Errorf("strings size message invalid")
	}

	out := make([]Catalogue, count)
	for i := range out {
		name, ok := ipc.ExpectData(c)
		if !ok {
			return nil, fmt.Errorf("test name message invalid for entry %d", i)
		}
		if len(name) == 0 {
			return nil, fmt.Errorf("test name message empty for entry %d", i)
		}
		ctxName, ok := ipc.ExpectData(c)
		if !ok {
			return nil, fmt.Errorf("context name message invalid for entry %d", i)
		}
		out[i] = Catalogue{Name: string(name), ContextName: string(ctxName)}
	}
	return out, nil
}

// printSummary writes the final pass/fail report, wrapping each failure's
// message with a hanging indent the way the teacher's format_type_set
// wraps a test's accumulated error text to a fixed column width before
// printing it under a "=====" banner.
func printSummary(cfg Config, failures []Failure, total int) {
	if len(failures) == 0 {
		fmt.Fprintf(cfg.Stdout, "All tests (%d) succeeded\n", total)
		return
	}

	fmt.Fprintf(cfg.Stderr, "\n%d / %d tests failed\n", len(failures), total)
	for _, f := range failures {
		wrapped := wrapIndented(f.Message, 2, 80)
		fmt.Fprintf(cfg.Stderr, "\n===========\n\n%q failed with errors:\n%s\n", f.TestName, wrapped)
	}
	fmt.Fprint(cfg.Stderr, "\n===========\n")
}

// wrapIndented wraps s to width columns, indenting every output line,
// including the first, by indent spaces (the hang is relative to the
// summary's per-test header line), preserving existing newlines in s as hard breaks
// (an assertion failure message already contains its own "Line: N" /
// "Expected: ..." structure, which must not be word-wrapped away).
func wrapIndented(s string, indent, width int) string {
	pad := strings.Repeat(" ", indent)
	var out strings.Builder
	for li, line := range strings.Split(s, "\n") {
		if li > 0 {
			out.WriteByte('\n')
		}
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		col := 0
		for wi, word := range words {
			sep := " "
			if wi == 0 {
				sep = pad
			}
			if col > 0 && col+len(sep)+len(word) > width {
				out.WriteByte('\n')
				out.WriteString(pad)
				col = indent
				sep = ""
			}
			out.WriteString(sep)
			out.WriteString(word)
			col += len(sep) + len(word)
		}
	}
	return out.String()
}

// child is one spawned runner process and the timeout-wrapped transport
// talking to it.
type child struct {
	cmd       *exec.Cmd
	transport wire.Transport
	reqW      *os.File
	respR     *os.File
}

// terminate waits up to timeout for the child to exit on its own — it
// should, having finished answering its one request — then kills it if it
// is still running, mirroring terminate_child's
// WaitForSingleObject-then-TerminateProcess sequence. It always closes this
// driver's ends of the pipe pair afterward, the Go equivalent of
// DisconnectNamedPipe.
func (c *child) terminate(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		c.cmd.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		if c.cmd.Process != nil {
			_ = c.cmd.Process.Kill()
		}
		<-done
	}

	c.reqW.Close()
	c.respR.Close()
}
