// Package runner implements the child side of the IPC protocol: it answers
// exactly one request on its transport (a discovery query or an execute
// request) and returns. It is the Go counterpart of the teacher's
// AxleTest::IPC::client_main — "client" in the original naming refers to
// being the client of the named pipe, not to any notion of a network
// client, so this package uses "runner" throughout to avoid that collision
// with Go's own client/server vocabulary.
//
// Unlike the original, which adopted the process's own stdio handles for
// IPC (and had to disconnect and reopen CONOUT$/CONIN$ so a test's own
// prints would not corrupt the protocol stream), this runner is always
// invoked with a dedicated file-descriptor pair via exec.Cmd.ExtraFiles —
// see cmd/axletest — so a test's ordinary stdout/stderr writes pass through
// untouched and the wire protocol has its own private channel.
package runner

import (
	"fmt"

	"github.com/axletest/axletest/ipc"
	"github.com/axletest/axletest/registry"
	"github.com/axletest/axletest/stacktrace"
	"github.com/axletest/axletest/wire"
)

// Run services exactly one request read from t and returns whether the
// exchange completed the protocol successfully. A false return means the
// runner could not make sense of what it read (bad version, wrong type, or
// a transport that closed mid-message) and the process should exit
// nonzero. The driver does not look at the exit status: it records the
// Failure report the runner wrote where there is one, and treats a missing
// report the same as a timeout.
func Run(t wire.Transport) bool {
	scope := stacktrace.Push("runner")
	defer scope.Close()

	c := wire.New(t, ipc.Order)

	header, ok := ipc.ReadHeader(c)
	if !ok {
		return false
	}
	if header.Version != ipc.Version {
		writeFail(c, fmt.Sprintf("Incompatible IPC version. Found: %d, Expected: %d", header.Version, ipc.Version))
		return false
	}

	switch header.Type {
	case ipc.TypeQueryTestInfo:
		return runQueryTestInfo(c)
	case ipc.TypeExecute:
		return runExecute(c)
	default:
		writeFail(c, fmt.Sprintf("Invalid IPC input type: %d", uint32(header.Type)))
		return false
	}
}

func writeFail(c wire.Codec, message string) {
	ipc.WriteReport(c, ipc.Report{Type: ipc.ReportFailure, Message: []byte(message)})
}

// runQueryTestInfo answers a discovery request with every registered test's
// name and required context name, matching the teacher's
// Type::QueryTestInfo branch: a test count, a total string-bytes count (the
// original's arena-size hint, which this driver reads and discards), then
// one Data pair per test.
func runQueryTestInfo(c wire.Codec) bool {
	scope := stacktrace.Push("QueryTestInfo")
	defer scope.Close()

	tests := registry.Tests()

	ipc.WriteDataU32(c, uint32(len(tests)))

	var stringsSize uint32
	for _, t := range tests {
		stringsSize += uint32(len(t.Name))
		stringsSize += uint32(len(t.ContextName))
	}
	ipc.WriteDataU32(c, stringsSize)

	for _, t := range tests {
		ipc.WriteData(c, []byte(t.Name))
		ipc.WriteData(c, []byte(t.ContextName))
	}
	return true
}

// runExecute answers an execute request by running the named test to
// completion — isolating a panic from the test body with a deferred
// recover scoped to this one dispatch, matching the invariant that a single
// crashing test must never take down a runner process trying to report on
// an earlier or later test, since in this design a runner process only ever
// runs one test to begin with. A hang is not this function's problem to
// solve: the driver enforces that with TimeoutTransport on its end of the
// pipe and kills the child if Run never returns in time.
func runExecute(c wire.Codec) bool {
	scope := stacktrace.Push("Execute")
	defer scope.Close()

	testID, ok := ipc.ReadExecuteBody(c)
	if !ok {
		writeFail(c, "Unexpected read error")
		return false
	}

	tests := registry.Tests()
	if int(testID) >= len(tests) {
		writeFail(c, fmt.Sprintf("Tried to run test %d / %d", testID, len(tests)))
		return false
	}
	test := tests[testID]

	var ctx *registry.Context
	if test.ContextName != "" {
		data, ok := ipc.ExpectData(c)
		if !ok {
			writeFail(c, "Expected context payload was never sent")
			return false
		}
		ctx = registry.NewContext(map[string][]byte{test.ContextName: data})
	}

	errs := registry.NewErrorSink(test.Name)
	runTest(test, errs, ctx)

	if errs.Failed() {
		ipc.WriteReport(c, ipc.Report{Type: ipc.ReportFailure, Message: []byte(errs.FirstError())})
	} else {
		ipc.WriteReport(c, ipc.Report{Type: ipc.ReportSuccess})
	}
	return true
}

// runTest invokes a single test's function, converting a panic into a
// reported failure instead of letting it crash the runner process — the
// driver already treats a crashed runner as a failed test, because no
// report ever arrives, but recovering here lets the failure message include
// the panic value and the scoped execution trace rather than just "the
// child died".
func runTest(test registry.Test, errs *registry.ErrorSink, ctx *registry.Context) {
	testScope := stacktrace.Replace(test.Name)
	defer testScope.Close()

	defer func() {
		if r := recover(); r != nil {
			errs.Report("Test panicked: %v\nTrace: %v", r, stacktrace.Trace())
		}
	}()

	test.Fn(errs, ctx)
}
