package registry

import "testing"

type buildInfo struct {
	Major int32
	Minor int32
}

func TestContextAsRoundTrip(t *testing.T) {
	want := buildInfo{Major: 3, Minor: 7}
	raw := AsBytes(want)

	ctx := NewContext(map[string][]byte{"buildInfo": raw})
	got, ok := ContextAs[buildInfo](ctx, "buildInfo")
	if !ok || got != want {
		t.Fatalf("got=%+v ok=%v", got, ok)
	}
}

func TestContextAsMissingName(t *testing.T) {
	ctx := NewContext(nil)
	if _, ok := ContextAs[buildInfo](ctx, "missing"); ok {
		t.Fatal("expected missing context name to fail")
	}
}

func TestContextAsSizeMismatch(t *testing.T) {
	ctx := NewContext(map[string][]byte{"buildInfo": {1, 2, 3}})
	if _, ok := ContextAs[buildInfo](ctx, "buildInfo"); ok {
		t.Fatal("expected size mismatch to fail")
	}
}

func TestContextOnNilPointer(t *testing.T) {
	var ctx *Context
	if _, ok := ctx.Raw("anything"); ok {
		t.Fatal("expected nil context Raw to report absent")
	}
}
