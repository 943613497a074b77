// Package framing wraps payloads in a 4-byte big-endian length prefix on a
// byte stream.
//
//	frame := uint32be(len(payload)) || payload
package framing

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// HeaderSize is the width of the length prefix.
const HeaderSize = 4

var (
	// ErrConnectionClosed reports that the stream ended before a full length
	// prefix or a full payload arrived. It is the ordinary end of a stream.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrFrameTooLarge reports a payload that exceeds the prefix range or a
	// reader's configured cap.
	ErrFrameTooLarge = errors.New("frame too large")
)

// WriteFrame writes payload with its length prefix in a single Write call,
// so frames written by one goroutine never interleave on w.
func WriteFrame(w io.Writer, payload []byte) error {
	if uint64(len(payload)) > math.MaxUint32 {
		return fmt.Errorf("framing: write: %w: %d bytes", ErrFrameTooLarge, len(payload))
	}
	buf := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[HeaderSize:], payload)

	n, err := w.Write(buf)
	if err != nil {
		return fmt.Errorf("framing: write: %w", err)
	}
	if n != len(buf) {
		return fmt.Errorf("framing: write: %w", io.ErrShortWrite)
	}
	return nil
}

// ReadFrame reads one frame from r with no size cap. Short reads are
// assembled until the prefix and payload are complete.
func ReadFrame(r io.Reader) ([]byte, error) {
	return readFrame(r, 0)
}

// Reader reads frames from a buffered stream and applies an optional cap on
// the announced payload length.
type Reader struct {
	r            *bufio.Reader
	maxFrameSize int
}

// NewReader returns a Reader over r. maxFrameSize <= 0 disables the cap.
func NewReader(r io.Reader, maxFrameSize int) *Reader {
	return &Reader{r: bufio.NewReader(r), maxFrameSize: maxFrameSize}
}

// ReadFrame reads the next frame. A prefix above the cap returns
// ErrFrameTooLarge without consuming the payload.
func (fr *Reader) ReadFrame() ([]byte, error) {
	return readFrame(fr.r, fr.maxFrameSize)
}

func readFrame(r io.Reader, maxFrameSize int) ([]byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, readError("header", err)
	}

	n := binary.BigEndian.Uint32(header[:])
	if maxFrameSize > 0 && uint64(n) > uint64(maxFrameSize) {
		return nil, fmt.Errorf("framing: read: %w: %d bytes exceeds limit %d", ErrFrameTooLarge, n, maxFrameSize)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, readError("payload", err)
	}
	return payload, nil
}

func readError(part string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("framing: read %s: %w", part, ErrConnectionClosed)
	}
	return fmt.Errorf("framing: read %s: %w", part, err)
}
