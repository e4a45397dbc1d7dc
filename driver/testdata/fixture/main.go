// Command fixture is a tiny test binary used only by driver's own tests: it
// registers a handful of deliberately passing, failing, panicking, hanging,
// and context-requiring tests, then behaves like any other axletest
// runner binary when invoked with the hidden runner flag.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/axletest/axletest/ipc"
	"github.com/axletest/axletest/registry"
	"github.com/axletest/axletest/runner"
)

type buildInfo struct {
	Major int32
}

func init() {
	registry.Register("fixture::passes", func(errs *registry.ErrorSink, ctx *registry.Context) {})

	registry.Register("fixture::fails", func(errs *registry.ErrorSink, ctx *registry.Context) {
		errs.Report("deliberate failure")
	})

	registry.Register("fixture::panics", func(errs *registry.ErrorSink, ctx *registry.Context) {
		panic("deliberate panic")
	})

	registry.Register("fixture::hangs", func(errs *registry.ErrorSink, ctx *registry.Context) {
		time.Sleep(time.Hour)
	})

	registry.RegisterWithContext("fixture::needs_context", "build_info", func(errs *registry.ErrorSink, ctx *registry.Context) {
		bi, ok := registry.ContextAs[buildInfo](ctx, "build_info")
		if !ok {
			errs.Report("missing or malformed build_info context")
			return
		}
		if bi.Major != 3 {
			errs.Report("expected Major=3, got %d", bi.Major)
		}
	})
}

func main() {
	const runnerFlag = "--axletest-runner"
	isRunner := false
	for _, a := range os.Args[1:] {
		if a == runnerFlag {
			isRunner = true
			break
		}
	}
	if !isRunner {
		fmt.Fprintln(os.Stderr, "fixture: must be invoked as a runner")
		os.Exit(1)
	}

	in := os.NewFile(3, "axletest-req")
	out := os.NewFile(4, "axletest-resp")
	if in == nil || out == nil {
		fmt.Fprintln(os.Stderr, "fixture: missing IPC file descriptors")
		os.Exit(1)
	}

	ok := runner.Run(ipc.NewBlockingTransport(in, out))
	if !ok {
		os.Exit(1)
	}
}
