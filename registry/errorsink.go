package registry

import "fmt"

// ErrorSink collects at most one failure per test run — first error wins,
// matching the teacher's TestErrors::report_error, which silently ignored
// every report after the first so a cascade of follow-on assertion failures
// inside one test body never buries the actual cause.
type ErrorSink struct {
	testName string
	first    string
}

// NewErrorSink returns an ErrorSink for the named test.
func NewErrorSink(testName string) *ErrorSink {
	return &ErrorSink{testName: testName}
}

// TestName returns the name the sink was created for.
func (e *ErrorSink) TestName() string { return e.testName }

// Report records a failure message, formatted like fmt.Sprintf. Only the
// first call in a sink's lifetime has any effect.
func (e *ErrorSink) Report(format string, args ...any) {
	if e.first != "" {
		return
	}
	e.first = fmt.Sprintf(format, args...)
}

// Failed reports whether Report has been called at least once.
func (e *ErrorSink) Failed() bool { return e.first != "" }

// FirstError returns the recorded message, or "" if none was reported.
func (e *ErrorSink) FirstError() string { return e.first }
