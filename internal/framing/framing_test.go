package framing

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestWriteFrame_Layout(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteFrame(&buf, []byte("hello")); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	want := []byte{0, 0, 0, 5, 'h', 'e', 'l', 'l', 'o'}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("frame = %x, want %x", buf.Bytes(), want)
	}
}

func TestWriteFrame_SingleWrite(t *testing.T) {
	t.Parallel()

	w := &countingWriter{}
	if err := WriteFrame(w, []byte("payload")); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if w.calls != 1 {
		t.Fatalf("Write calls = %d, want 1", w.calls)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	payloads := [][]byte{
		{},
		[]byte("a"),
		[]byte("First test message"),
		bytes.Repeat([]byte{0xab}, 100_000),
	}

	var stream bytes.Buffer
	for _, p := range payloads {
		if err := WriteFrame(&stream, p); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}

	r := bytes.NewReader(stream.Bytes())
	for i, want := range payloads {
		got, err := ReadFrame(r)
		if err != nil {
			t.Fatalf("frame %d: ReadFrame: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("frame %d: got %d bytes, want %d", i, len(got), len(want))
		}
	}
	if _, err := ReadFrame(r); !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("ReadFrame at end = %v, want ErrConnectionClosed", err)
	}
}

func TestReadFrame_OneByteAtATime(t *testing.T) {
	t.Parallel()

	var stream bytes.Buffer
	want := []byte(strings.Repeat("partial-read ", 50))
	if err := WriteFrame(&stream, want); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	got, err := ReadFrame(iotest.OneByteReader(&stream))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("ReadFrame = %q, want %q", got, want)
	}
}

func TestReadFrame_HalfReader(t *testing.T) {
	t.Parallel()

	var stream bytes.Buffer
	for i := 0; i < 3; i++ {
		if err := WriteFrame(&stream, []byte{byte(i), byte(i), byte(i)}); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	fr := NewReader(iotest.HalfReader(&stream), 0)
	for i := 0; i < 3; i++ {
		got, err := fr.ReadFrame()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if !bytes.Equal(got, []byte{byte(i), byte(i), byte(i)}) {
			t.Fatalf("frame %d = %v", i, got)
		}
	}
}

func TestReadFrame_ClosedStream(t *testing.T) {
	t.Parallel()

	full := make([]byte, HeaderSize+10)
	binary.BigEndian.PutUint32(full, 10)

	tests := []struct {
		name   string
		stream []byte
	}{
		{"empty stream", nil},
		{"partial header", full[:2]},
		{"header only", full[:HeaderSize]},
		{"partial payload", full[:HeaderSize+6]},
	}
	for _, tt := range tests {
		_, err := ReadFrame(iotest.OneByteReader(bytes.NewReader(tt.stream)))
		if !errors.Is(err, ErrConnectionClosed) {
			t.Errorf("%s: err = %v, want ErrConnectionClosed", tt.name, err)
		}
	}
}

func TestReadFrame_TransportErrorIsNotClosed(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	_, err := ReadFrame(iotest.ErrReader(boom))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if errors.Is(err, ErrConnectionClosed) {
		t.Fatal("transport error must not be reported as ErrConnectionClosed")
	}
}

func TestReader_MaxFrameSize(t *testing.T) {
	t.Parallel()

	var stream bytes.Buffer
	if err := WriteFrame(&stream, make([]byte, 64)); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	if _, err := NewReader(bytes.NewReader(stream.Bytes()), 32).ReadFrame(); !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("capped ReadFrame err = %v, want ErrFrameTooLarge", err)
	}
	if _, err := NewReader(bytes.NewReader(stream.Bytes()), 64).ReadFrame(); err != nil {
		t.Fatalf("ReadFrame at exactly the cap: %v", err)
	}
}

func TestWriteFrame_WriterError(t *testing.T) {
	t.Parallel()

	err := WriteFrame(failingWriter{}, []byte("x"))
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("err = %v, want io.ErrClosedPipe", err)
	}
}

type countingWriter struct {
	bytes.Buffer
	calls int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.calls++
	return w.Buffer.Write(p)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }
