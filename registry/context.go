package registry

import "unsafe"

// Context holds the opaque, named context payloads the driver pushed to a
// runner along with its Execute request, keyed by a type name rather than a Go type
// itself — mirroring the original's AxleTest::IPC::OpaqueContext, which
// erased a context value to {name, byte view} on the wire and relied on the
// receiving test to know which concrete type that name meant.
type Context struct {
	named map[string][]byte
}

// NewContext builds a Context from the named byte payloads a driver sent.
func NewContext(named map[string][]byte) *Context {
	if named == nil {
		named = map[string][]byte{}
	}
	return &Context{named: named}
}

// Raw returns the raw bytes registered under name, and whether it was
// present at all. Most tests should prefer ContextAs, which also checks the
// size matches the target type.
func (c *Context) Raw(name string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, ok := c.named[name]
	return b, ok
}

// ContextAs reinterprets the bytes registered under name as a T, failing if
// the name is absent or the payload size does not match sizeof(T) exactly —
// the same size check the original's DataT<T> deserializer performed before
// trusting a reinterpret_cast. Unlike the original, this performs a byte
// copy rather than aliasing the wire buffer, so the result stays valid even
// after the buffer it came from is reused or GC'd.
func ContextAs[T any](c *Context, name string) (T, bool) {
	var zero T
	raw, ok := c.Raw(name)
	if !ok {
		return zero, false
	}
	if len(raw) != int(unsafe.Sizeof(zero)) {
		return zero, false
	}
	var out T
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&out)), unsafe.Sizeof(out)), raw)
	return out, true
}

// AsBytes erases a value of type T to its opaque byte representation, the
// send-side counterpart of ContextAs — used to build the byte payloads a
// caller hands the driver as its named contexts.
func AsBytes[T any](v T) []byte {
	out := make([]byte, unsafe.Sizeof(v))
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v)))
	return out
}
