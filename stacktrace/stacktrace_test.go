package stacktrace

import (
	"reflect"
	"testing"
)

func TestPushCloseBalanced(t *testing.T) {
	Reset()
	defer Reset()

	s1 := Push("outer")
	s2 := Push("inner")
	if got := Trace(); !reflect.DeepEqual(got, []string{"outer", "inner"}) {
		t.Fatalf("got %v", got)
	}
	s2.Close()
	if got := Trace(); !reflect.DeepEqual(got, []string{"outer"}) {
		t.Fatalf("got %v", got)
	}
	s1.Close()
	if got := Trace(); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestCloseOutOfOrderPanics(t *testing.T) {
	Reset()
	defer Reset()

	s1 := Push("a")
	_ = Push("b")

	defer func() {
		if recover() == nil {
			t.Fatal("expected out-of-order close to panic")
		}
	}()
	s1.Close()
}

func TestReplaceSwapsAndRestores(t *testing.T) {
	Reset()
	defer Reset()

	Push("runner")
	Push("Execute")

	r := Replace("MyTest")
	if got := Trace(); !reflect.DeepEqual(got, []string{"MyTest"}) {
		t.Fatalf("got %v, want only the replaced frame", got)
	}
	r.Close()

	if got := Trace(); !reflect.DeepEqual(got, []string{"runner", "Execute"}) {
		t.Fatalf("got %v, want prior stack restored", got)
	}
}

func TestTraceReturnsCopy(t *testing.T) {
	Reset()
	defer Reset()

	Push("a")
	got := Trace()
	got[0] = "mutated"

	if Trace()[0] != "a" {
		t.Fatal("Trace() leaked internal slice")
	}
}
