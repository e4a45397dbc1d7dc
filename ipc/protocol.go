// Package ipc implements the fixed binary message protocol the driver and
// runner speak over their duplex byte pipe: an 8-byte header (version, type)
// followed by a per-type body. Every message is little-endian regardless of
// host architecture — the header carries no byte-order negotiation of its
// own, so both ends must agree on it out of band, and this package hardcodes
// that agreement rather than exposing it as an option the way wire.Codec
// does for its underlying primitives.
package ipc

import (
	"encoding/binary"
	"fmt"

	"github.com/axletest/axletest/wire"
)

// Order is the byte order every axletest message is encoded with.
var Order = binary.LittleEndian

// Version is the only protocol version this package speaks. A peer
// advertising any other version is rejected rather than negotiated with.
const Version uint32 = 0

// MessageType identifies the body that follows a Header.
type MessageType uint32

const (
	TypeData          MessageType = 0
	TypeQueryTestInfo MessageType = 1
	TypeExecute       MessageType = 2
	TypeReport        MessageType = 3
	TypeQueryContext  MessageType = 4
)

func (t MessageType) String() string {
	switch t {
	case TypeData:
		return "Data"
	case TypeQueryTestInfo:
		return "QueryTestInfo"
	case TypeExecute:
		return "Execute"
	case TypeReport:
		return "Report"
	case TypeQueryContext:
		return "QueryContext"
	default:
		return fmt.Sprintf("MessageType(%d)", uint32(t))
	}
}

// ReportType is the outcome carried by a Report message.
type ReportType uint32

const (
	ReportSuccess ReportType = 0
	ReportFailure ReportType = 1
)

func (t ReportType) String() string {
	switch t {
	case ReportSuccess:
		return "Success"
	case ReportFailure:
		return "Failure"
	default:
		return fmt.Sprintf("ReportType(%d)", uint32(t))
	}
}

// Header is the 8-byte preamble of every message.
type Header struct {
	Version uint32
	Type    MessageType
}

// WriteHeader writes a Header for the given message type at the current
// protocol version.
func WriteHeader(c wire.Codec, t MessageType) {
	c.WriteUint32(Version)
	c.WriteUint32(uint32(t))
}

// ReadHeader reads a raw Header, performing no validation of its own. Callers
// that expect one specific type should use ExpectHeader instead; ReadHeader
// exists for dispatch sites (the runner's request loop) that must branch on
// the type before they know what body to expect.
func ReadHeader(c wire.Codec) (Header, bool) {
	version, ok := c.ReadUint32()
	if !ok {
		return Header{}, false
	}
	rawType, ok := c.ReadUint32()
	if !ok {
		return Header{}, false
	}
	return Header{Version: version, Type: MessageType(rawType)}, true
}

// ExpectHeader reads a Header and verifies it matches the expected version
// and message type, collapsing both checks into the single boolean success
// the rest of the protocol's read side uses.
func ExpectHeader(c wire.Codec, want MessageType) bool {
	h, ok := ReadHeader(c)
	if !ok {
		return false
	}
	return h.Version == Version && h.Type == want
}

// WriteData sends a Data message: a header followed by a length-prefixed
// byte blob. Used for discovery-phase test and context names, and for any
// other dynamically sized payload.
func WriteData(c wire.Codec, data []byte) {
	WriteHeader(c, TypeData)
	c.WriteBlob(data)
}

// ExpectData reads a Data message body, having already verified the header.
// Returns the freshly allocated payload.
func ExpectData(c wire.Codec) ([]byte, bool) {
	if !ExpectHeader(c, TypeData) {
		return nil, false
	}
	return c.ReadBlob()
}

// WriteDataU32 sends a Data message whose payload is a single fixed-size
// uint32 — the DataT<u32> specialisation from the original wire format, used
// for the discovery-phase test count and string-table size.
func WriteDataU32(c wire.Codec, v uint32) {
	WriteHeader(c, TypeData)
	c.WriteUint32(4)
	c.WriteUint32(v)
}

// ExpectDataU32 reads a Data message whose payload must be exactly 4 bytes,
// decoding it as a uint32.
func ExpectDataU32(c wire.Codec) (uint32, bool) {
	if !ExpectHeader(c, TypeData) {
		return 0, false
	}
	var buf [4]byte
	if !c.ReadBlobFixed(buf[:]) {
		return 0, false
	}
	return Order.Uint32(buf[:]), true
}

// WriteQueryTestInfo sends the driver's discovery-phase request: a bare
// header with no body.
func WriteQueryTestInfo(c wire.Codec) {
	WriteHeader(c, TypeQueryTestInfo)
}

// WriteExecute sends a request to run the test identified by testID.
func WriteExecute(c wire.Codec, testID uint32) {
	WriteHeader(c, TypeExecute)
	c.WriteUint32(testID)
}

// ReadExecuteBody reads the body of an Execute message, assuming the caller
// already consumed and validated the header via ReadHeader/ExpectHeader —
// this is the runner's main dispatch, which must read the header first to
// decide which body to parse.
func ReadExecuteBody(c wire.Codec) (testID uint32, ok bool) {
	return c.ReadUint32()
}

// Report carries a test's outcome back to the driver.
type Report struct {
	Type    ReportType
	Message []byte
}

// WriteReport sends a Report message.
func WriteReport(c wire.Codec, r Report) {
	WriteHeader(c, TypeReport)
	c.WriteUint32(uint32(r.Type))
	c.WriteBlob(r.Message)
}

// ExpectReport reads a Report message, having already verified the header.
func ExpectReport(c wire.Codec) (Report, bool) {
	if !ExpectHeader(c, TypeReport) {
		return Report{}, false
	}
	rawType, ok := c.ReadUint32()
	if !ok {
		return Report{}, false
	}
	msg, ok := c.ReadBlob()
	if !ok {
		return Report{}, false
	}
	return Report{Type: ReportType(rawType), Message: msg}, true
}

// WriteQueryContext sends a request for a named context's payload. No
// runner in this implementation issues QueryContext — the driver always
// pushes a test's context as a Data message right after its Execute
// request — so this exists only to
// keep the wire format complete and documented, matching the original
// protocol's reserved-but-unused message type.
func WriteQueryContext(c wire.Codec, name string) {
	WriteHeader(c, TypeQueryContext)
	c.WriteBlob([]byte(name))
}

// ReadQueryContextBody reads the body of a QueryContext message, assuming
// the header was already consumed.
func ReadQueryContextBody(c wire.Codec) (name string, ok bool) {
	data, ok := c.ReadBlob()
	if !ok {
		return "", false
	}
	return string(data), true
}
