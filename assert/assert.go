// Package assert implements the comparison helpers a registered test calls
// against its *registry.ErrorSink — the Go counterpart of the teacher's
// TEST_EQ/TEST_NEQ/TEST_ARR_EQ/TEST_STR_EQ macros. Go has no preprocessor,
// so there is no way to stringify an expression automatically the way
// #expected did; callers instead pass the expression text explicitly as a
// plain string, which every assertion prints back alongside the values so a
// failure message still reads like "Expected: width == 0 = 10".
//
// Every function returns a bool (true on pass) rather than aborting the test
// the way the original's macro did with its trailing `if (is_panic) return`.
// Go has no return-from-caller-frame mechanism a function can invoke on the
// caller's behalf, so tests that want early-exit-on-failure semantics must
// check the return value themselves:
//
//	if !assert.Eq(errs, "got", got, "want", want, 0) {
//	    return
//	}
package assert

import (
	"fmt"
	"reflect"

	"github.com/axletest/axletest/registry"
)

// Eq reports errs.Report (and returns false) if expected != actual. line
// should be the caller's own source line, typically obtained once at the
// top of the calling test via runtime.Caller and threaded through.
func Eq[T comparable](errs *registry.ErrorSink, expectedExpr string, expected T, actualExpr string, actual T, line int) bool {
	if expected == actual {
		return true
	}
	errs.Report("Test assert failed!\nLine: %d, Test: %s\nExpected: %s = %v\nActual: %s = %v",
		line, errs.TestName(), expectedExpr, expected, actualExpr, actual)
	return false
}

// NEq reports errs.Report (and returns false) if expected == actual.
func NEq[T comparable](errs *registry.ErrorSink, expectedExpr string, expected T, actualExpr string, actual T, line int) bool {
	if expected != actual {
		return true
	}
	errs.Report("Test assert failed!\nLine: %d, Test: %s\n%s = %v\n%s = %v\nThese should not be equal",
		line, errs.TestName(), expectedExpr, expected, actualExpr, actual)
	return false
}

// ArrEq reports errs.Report (and returns false) if expected and actual
// differ in length or in any element.
func ArrEq[T comparable](errs *registry.ErrorSink, expectedExpr string, expected []T, actualExpr string, actual []T, line int) bool {
	if len(expected) == len(actual) {
		match := true
		for i := range expected {
			if expected[i] != actual[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	errs.Report("Test assert failed!\nLine: %d, Test: %s\n"+
		"Expected Size: len(%s) = %d\nActual Size: len(%s) = %d\n"+
		"Expected Array: %s = %v\nActual Array: %s = %v",
		line, errs.TestName(),
		expectedExpr, len(expected), actualExpr, len(actual),
		expectedExpr, expected, actualExpr, actual)
	return false
}

// StrEq reports errs.Report (and returns false) if expected != actual,
// quoting both strings the way the original's DisplayString wrapper did.
func StrEq(errs *registry.ErrorSink, expectedExpr string, expected string, actualExpr string, actual string, line int) bool {
	if expected == actual {
		return true
	}
	errs.Report("Test assert failed!\nLine: %d, Test: %s\n"+
		"Expected String: %s = %q\nActual String: %s = %q",
		line, errs.TestName(), expectedExpr, expected, actualExpr, actual)
	return false
}

// DeepEq reports errs.Report (and returns false) if expected and actual are
// not reflect.DeepEqual. Provided for struct and map comparisons that Eq's
// comparable constraint cannot accept; the original had no equivalent since
// C++ operator== can be defined for any type.
func DeepEq(errs *registry.ErrorSink, expectedExpr string, expected any, actualExpr string, actual any, line int) bool {
	if reflect.DeepEqual(expected, actual) {
		return true
	}
	errs.Report("Test assert failed!\nLine: %d, Test: %s\nExpected: %s = %s\nActual: %s = %s",
		line, errs.TestName(), expectedExpr, fmt.Sprint(expected), actualExpr, fmt.Sprint(actual))
	return false
}

// CheckErrors returns true while the sink has no failure recorded and false
// once it has one — the direct counterpart of TEST_CHECK_ERRORS(), for tests
// that call into a helper which itself reports to the same sink and want to
// bail early.
func CheckErrors(errs *registry.ErrorSink) bool {
	return !errs.Failed()
}
