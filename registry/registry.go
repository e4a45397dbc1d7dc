// Package registry holds the process-wide table of unit tests, populated by
// each test file's init() function — the Go analogue of the teacher's
// translation-unit-scope static registrar (AxleTest::_testAdder), which ran
// a constructor before main() to insert itself into a shared Array. Go has
// no static-initialization-order guarantees across files within a package,
// but it does guarantee every init() in a compiled binary runs before main,
// which is all the original registrar actually relied on.
package registry

import "sync"

// Func is the signature every registered test must implement. It receives a
// fresh ErrorSink and, optionally, whatever opaque context the driver pushed
// for a matching type name.
type Func func(errs *ErrorSink, ctx *Context)

// Test is one registered unit test. ContextName is empty for a test that
// takes no context; otherwise it names the opaque context type the driver
// must supply before this test can run at all (a driver with no matching
// context fails the test without ever spawning a runner for it).
type Test struct {
	Name        string
	ContextName string
	Fn          Func
}

var (
	mu     sync.Mutex
	tests  []Test
	byName = map[string]int{}
)

// Register adds a context-free test to the process-wide registry. Called
// from an init() function in the test binary that links this package,
// exactly once per test — a duplicate name panics at startup rather than
// silently shadowing, since both are programmer errors the original caught
// by simply appending (last-registered-wins was never actually desired, it
// was just unchecked).
func Register(name string, fn Func) {
	RegisterWithContext(name, "", fn)
}

// RegisterWithContext adds a test that requires a named context, supplied
// by the driver along with the test's Execute request.
func RegisterWithContext(name, contextName string, fn Func) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := byName[name]; exists {
		panic("registry: duplicate test name " + name)
	}
	byName[name] = len(tests)
	tests = append(tests, Test{Name: name, ContextName: contextName, Fn: fn})
}

// Tests returns the registered tests in registration order. The returned
// slice is a copy; callers must not rely on further Register calls being
// reflected in it.
func Tests() []Test {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Test, len(tests))
	copy(out, tests)
	return out
}

// Lookup returns the test registered under name, if any.
func Lookup(name string) (Test, bool) {
	mu.Lock()
	defer mu.Unlock()
	idx, ok := byName[name]
	if !ok {
		return Test{}, false
	}
	return tests[idx], ok
}

// reset clears the registry. Unexported: it exists only for this package's
// own tests, which must not leak registrations into one another given the
// registry is process-global state.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	tests = nil
	byName = map[string]int{}
}
