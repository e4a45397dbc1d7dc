package ipc_test

import (
	"bytes"
	"testing"

	"github.com/axletest/axletest/ipc"
	"github.com/axletest/axletest/wire"
)

type bufTransport struct {
	r *bytes.Buffer
	w *bytes.Buffer
}

func newBufTransport() *bufTransport {
	return &bufTransport{r: new(bytes.Buffer), w: new(bytes.Buffer)}
}

func (b *bufTransport) ReadExact(buf []byte) bool {
	n, err := b.r.Read(buf)
	return err == nil && n == len(buf)
}

func (b *bufTransport) WriteAll(buf []byte) {
	b.w.Write(buf)
}

func (b *bufTransport) flip() {
	b.r = b.w
}

func TestDataRoundTrip(t *testing.T) {
	tr := newBufTransport()
	c := wire.New(tr, ipc.Order)
	ipc.WriteData(c, []byte("my_test_name"))
	tr.flip()
	got, ok := ipc.ExpectData(c)
	if !ok || string(got) != "my_test_name" {
		t.Fatalf("got=%q ok=%v", got, ok)
	}
}

func TestDataU32RoundTrip(t *testing.T) {
	tr := newBufTransport()
	c := wire.New(tr, ipc.Order)
	ipc.WriteDataU32(c, 42)
	tr.flip()
	got, ok := ipc.ExpectDataU32(c)
	if !ok || got != 42 {
		t.Fatalf("got=%d ok=%v", got, ok)
	}
}

func TestExecuteRoundTrip(t *testing.T) {
	tr := newBufTransport()
	c := wire.New(tr, ipc.Order)
	ipc.WriteExecute(c, 7)
	tr.flip()
	h, ok := ipc.ReadHeader(c)
	if !ok || h.Type != ipc.TypeExecute || h.Version != ipc.Version {
		t.Fatalf("header=%+v ok=%v", h, ok)
	}
	id, ok := ipc.ReadExecuteBody(c)
	if !ok || id != 7 {
		t.Fatalf("id=%d ok=%v", id, ok)
	}
}

func TestReportRoundTrip(t *testing.T) {
	tr := newBufTransport()
	c := wire.New(tr, ipc.Order)
	ipc.WriteReport(c, ipc.Report{Type: ipc.ReportFailure, Message: []byte("boom")})
	tr.flip()
	r, ok := ipc.ExpectReport(c)
	if !ok || r.Type != ipc.ReportFailure || string(r.Message) != "boom" {
		t.Fatalf("report=%+v ok=%v", r, ok)
	}
}

func TestReportRoundTripEmptyMessage(t *testing.T) {
	tr := newBufTransport()
	c := wire.New(tr, ipc.Order)
	ipc.WriteReport(c, ipc.Report{Type: ipc.ReportSuccess, Message: nil})
	tr.flip()
	r, ok := ipc.ExpectReport(c)
	if !ok || r.Type != ipc.ReportSuccess || len(r.Message) != 0 {
		t.Fatalf("report=%+v ok=%v", r, ok)
	}
}

func TestQueryContextRoundTrip(t *testing.T) {
	tr := newBufTransport()
	c := wire.New(tr, ipc.Order)
	ipc.WriteQueryContext(c, "build_dir")
	tr.flip()
	h, ok := ipc.ReadHeader(c)
	if !ok || h.Type != ipc.TypeQueryContext {
		t.Fatalf("header=%+v ok=%v", h, ok)
	}
	name, ok := ipc.ReadQueryContextBody(c)
	if !ok || name != "build_dir" {
		t.Fatalf("name=%q ok=%v", name, ok)
	}
}

func TestExpectHeaderRejectsWrongType(t *testing.T) {
	tr := newBufTransport()
	c := wire.New(tr, ipc.Order)
	ipc.WriteQueryTestInfo(c)
	tr.flip()
	if ipc.ExpectHeader(c, ipc.TypeExecute) {
		t.Fatal("expected type mismatch to fail")
	}
}

func TestExpectHeaderRejectsWrongVersion(t *testing.T) {
	tr := newBufTransport()
	c := wire.New(tr, ipc.Order)
	c.WriteUint32(99)
	c.WriteUint32(uint32(ipc.TypeData))
	tr.flip()
	if ipc.ExpectHeader(c, ipc.TypeData) {
		t.Fatal("expected version mismatch to fail")
	}
}

func TestExpectDataRejectsShortStream(t *testing.T) {
	tr := newBufTransport()
	c := wire.New(tr, ipc.Order)
	tr.r.Write([]byte{1, 2, 3})
	if _, ok := ipc.ExpectData(c); ok {
		t.Fatal("expected short stream to fail")
	}
}

func TestMessageTypeString(t *testing.T) {
	cases := map[ipc.MessageType]string{
		ipc.TypeData:          "Data",
		ipc.TypeQueryTestInfo: "QueryTestInfo",
		ipc.TypeExecute:       "Execute",
		ipc.TypeReport:        "Report",
		ipc.TypeQueryContext:  "QueryContext",
	}
	for ty, want := range cases {
		if got := ty.String(); got != want {
			t.Errorf("MessageType(%d).String() = %q, want %q", ty, got, want)
		}
	}
}

func TestReportTypeString(t *testing.T) {
	if ipc.ReportSuccess.String() != "Success" {
		t.Fatal("ReportSuccess.String()")
	}
	if ipc.ReportFailure.String() != "Failure" {
		t.Fatal("ReportFailure.String()")
	}
}
