// Package stacktrace maintains a lightweight execution trace a runner can
// unwind when a test panics, independent of whatever Go runtime stack trace
// recover() hands back. It is grounded on the teacher's
// Axle::Stacktrace::ScopedExecTrace: a thread_local singly linked list of
// named scopes, pushed on entry and popped on exit via RAII.
//
// Go has no destructors, so the push/pop pairing here is expressed as a
// scope value whose Close method callers defer — and the list itself is a
// package-level slice rather than a true thread-local, which is sound only
// because exactly one goroutine ever runs user test code in a runner
// process (see the runner package): there is no concurrent test execution
// to race against.
package stacktrace

// Scope is a single pushed trace frame. Callers obtain one from Push or
// Replace and must defer its Close to keep the stack balanced.
type Scope struct {
	name      string
	index     int
	replaced  []string
	isReplace bool
}

var stack []string

// Push records entry into a named scope (typically a helper or dispatch
// function name) and returns a Scope whose Close call pops it back off.
func Push(name string) Scope {
	idx := len(stack)
	stack = append(stack, name)
	return Scope{name: name, index: idx}
}

// Replace discards the entire current stack and installs a single node
// naming name, returning a Scope whose Close restores the prior stack in
// full. The runner uses this when a test begins executing, so a panic
// during the test renders a trace containing only the test's own name
// rather than the framework dispatch frames ("runner", "Execute") that
// got it there — matching the original's ScopedExecTrace construction at
// the top of a test body, which replaced rather than nested under the
// thread-local head.
func Replace(name string) Scope {
	prev := stack
	stack = []string{name}
	return Scope{name: name, index: 0, replaced: prev, isReplace: true}
}

// Close pops the scope, or restores the replaced stack if the scope came
// from Replace. It panics if the stack was mutated out of LIFO order — the
// same invariant the original's ~ScopedExecTrace enforced with
// ASSERT(EXECUTION_TRACE == &node).
func (s Scope) Close() {
	if s.isReplace {
		if len(stack) != 1 || stack[0] != s.name {
			panic("stacktrace: scope closed out of order")
		}
		stack = s.replaced
		return
	}
	if len(stack) != s.index+1 || stack[s.index] != s.name {
		panic("stacktrace: scope closed out of order")
	}
	stack = stack[:s.index]
}

// Trace returns the current stack of scope names, innermost last. The
// returned slice is a copy safe to retain past further Push/Close calls —
// typically captured right before a recovered panic is reported, so the
// caller can print "while running: a > b > c".
func Trace() []string {
	out := make([]string, len(stack))
	copy(out, stack)
	return out
}

// Reset clears the trace. The runner does not call it (each runner process
// executes one test); this package's own tests use it to avoid interference
// across test functions sharing the same process-global stack.
func Reset() {
	stack = nil
}
