// Package wire implements the endian-parameterised primitive codec shared by
// the axletest driver and runner: fixed-width integers, length-prefixed byte
// blobs, and zero-fill, all read/written against an abstract transport.
//
// The codec itself is not tied to one byte order or one transport kind —
// individual wire messages (see package ipc) pin the order to little-endian,
// but the primitives here stay generic so the same engine could serialise a
// different wire format under a different order.
package wire

import (
	"encoding/binary"
	"time"
)

// Transport is the minimal contract a codec reads from and writes to.
//
// ReadExact must block (subject to whatever policy the concrete transport
// implements) until len(buf) bytes have been read, or return false. WriteAll
// must write every byte of buf or fail the transport permanently; the codec
// layer itself never observes write errors directly — a short or failed
// write surfaces to the peer as a failed read, per the protocol design.
type Transport interface {
	ReadExact(buf []byte) bool
	WriteAll(buf []byte)
}

// Codec serialises primitives against a Transport using a fixed byte order.
type Codec struct {
	t   Transport
	ord binary.ByteOrder
}

// New returns a Codec that reads and writes using the given byte order.
func New(t Transport, order binary.ByteOrder) Codec {
	return Codec{t: t, ord: order}
}

// ReadUint8 reads one byte.
func (c Codec) ReadUint8() (uint8, bool) {
	var b [1]byte
	if !c.t.ReadExact(b[:]) {
		return 0, false
	}
	return b[0], true
}

// WriteUint8 writes one byte.
func (c Codec) WriteUint8(v uint8) {
	c.t.WriteAll([]byte{v})
}

// ReadUint16 reads a 16-bit unsigned integer in the codec's byte order.
func (c Codec) ReadUint16() (uint16, bool) {
	var b [2]byte
	if !c.t.ReadExact(b[:]) {
		return 0, false
	}
	return c.ord.Uint16(b[:]), true
}

// WriteUint16 writes a 16-bit unsigned integer in the codec's byte order.
func (c Codec) WriteUint16(v uint16) {
	var b [2]byte
	c.ord.PutUint16(b[:], v)
	c.t.WriteAll(b[:])
}

// ReadUint32 reads a 32-bit unsigned integer in the codec's byte order.
func (c Codec) ReadUint32() (uint32, bool) {
	var b [4]byte
	if !c.t.ReadExact(b[:]) {
		return 0, false
	}
	return c.ord.Uint32(b[:]), true
}

// WriteUint32 writes a 32-bit unsigned integer in the codec's byte order.
func (c Codec) WriteUint32(v uint32) {
	var b [4]byte
	c.ord.PutUint32(b[:], v)
	c.t.WriteAll(b[:])
}

// ReadUint64 reads a 64-bit unsigned integer in the codec's byte order.
func (c Codec) ReadUint64() (uint64, bool) {
	var b [8]byte
	if !c.t.ReadExact(b[:]) {
		return 0, false
	}
	return c.ord.Uint64(b[:]), true
}

// WriteUint64 writes a 64-bit unsigned integer in the codec's byte order.
func (c Codec) WriteUint64(v uint64) {
	var b [8]byte
	c.ord.PutUint64(b[:], v)
	c.t.WriteAll(b[:])
}

// ReadInt32 reads a 32-bit signed integer by bit-casting the unsigned codec,
// as the wire format never encodes signedness separately.
func (c Codec) ReadInt32() (int32, bool) {
	v, ok := c.ReadUint32()
	return int32(v), ok
}

// WriteInt32 writes a 32-bit signed integer by bit-casting through the
// unsigned codec.
func (c Codec) WriteInt32(v int32) {
	c.WriteUint32(uint32(v))
}

// ReadBytes reads exactly len(buf) bytes with no length prefix of its own.
func (c Codec) ReadBytes(buf []byte) bool {
	if len(buf) == 0 {
		return true
	}
	return c.t.ReadExact(buf)
}

// WriteBytes writes buf verbatim, with no length prefix of its own.
func (c Codec) WriteBytes(buf []byte) {
	if len(buf) == 0 {
		return
	}
	c.t.WriteAll(buf)
}

// WriteZeros writes n zero bytes.
func (c Codec) WriteZeros(n int) {
	if n <= 0 {
		return
	}
	const chunk = 64
	var z [chunk]byte
	for n > 0 {
		k := n
		if k > chunk {
			k = chunk
		}
		c.t.WriteAll(z[:k])
		n -= k
	}
}

// ReadBlob reads a u32 length prefix followed by that many bytes, returning a
// freshly allocated slice. This is the "Data" codec: a dynamically sized,
// length-prefixed byte blob (test names, context payloads, report messages).
func (c Codec) ReadBlob() ([]byte, bool) {
	n, ok := c.ReadUint32()
	if !ok {
		return nil, false
	}
	if n == 0 {
		return nil, true
	}
	buf := make([]byte, n)
	if !c.ReadBytes(buf) {
		return nil, false
	}
	return buf, true
}

// ReadBlobFixed reads a u32 length prefix, asserting it equals len(buf), then
// reads len(buf) bytes into buf. This is the "Data<T>" fixed-size codec variant;
// callers outside test-name/context-name discovery (where sizes are
// dynamic) should prefer this over ReadBlob so a length mismatch is caught
// eagerly rather than silently truncating.
func (c Codec) ReadBlobFixed(buf []byte) bool {
	n, ok := c.ReadUint32()
	if !ok {
		return false
	}
	if int(n) != len(buf) {
		return false
	}
	return c.ReadBytes(buf)
}

// WriteBlob writes a u32 length prefix followed by data.
func (c Codec) WriteBlob(data []byte) {
	c.WriteUint32(uint32(len(data)))
	c.WriteBytes(data)
}

// PollInterval is unused by the codec itself; package ipc's TimeoutTransport
// races a deadline timer against a background goroutine rather than polling,
// since anonymous pipes give no portable non-blocking read primitive to poll
// against. Kept here as the one constant both layers might tune together.
const PollInterval = time.Millisecond
