package codec

import (
	"fmt"
	"io"
	"os"

	"github.com/goblimey/go-crc24q/crc24q"

	"github.com/ste616/atca-training-sub001/internal/errs"
)

// Transport is the read/write primitive both codec transports expose:
// plain byte I/O plus a forward-only skip, used to step over a payload
// a reader isn't interested in (e.g. an unrecognised trailing field).
type Transport interface {
	io.Reader
	io.Writer
	Skip(n int64) error
}

// FileTransport is a Transport backed by a random-access file stream,
// per spec.md §4.D's "(i) random-access file stream with forward skip".
type FileTransport struct {
	f *os.File
}

// NewFileTransport wraps f for tagged reads and writes.
func NewFileTransport(f *os.File) *FileTransport {
	return &FileTransport{f: f}
}

func (t *FileTransport) Read(p []byte) (int, error)  { return t.f.Read(p) }
func (t *FileTransport) Write(p []byte) (int, error) { return t.f.Write(p) }

// Skip advances the file's cursor by n bytes without reading them.
func (t *FileTransport) Skip(n int64) error {
	if n < 0 {
		return fmt.Errorf("negative skip %d: %w", n, errs.ErrDecodeValue)
	}
	_, err := t.f.Seek(n, io.SeekCurrent)
	return err
}

// BufferTransport is a Transport backed by a contiguous in-memory byte
// slice with an internal cursor, per spec.md §4.D's "(ii) in-memory
// buffer backed by a contiguous byte slice".
type BufferTransport struct {
	buf    []byte
	cursor int
}

// NewBufferTransport wraps an existing buffer for reading (or writing
// starting from position 0, growing it as needed).
func NewBufferTransport(buf []byte) *BufferTransport {
	return &BufferTransport{buf: buf}
}

// Bytes returns the buffer's current contents.
func (t *BufferTransport) Bytes() []byte {
	return t.buf
}

func (t *BufferTransport) Read(p []byte) (int, error) {
	if t.cursor >= len(t.buf) {
		return 0, io.EOF
	}
	n := copy(p, t.buf[t.cursor:])
	t.cursor += n
	return n, nil
}

func (t *BufferTransport) Write(p []byte) (int, error) {
	needed := t.cursor + len(p)
	if needed > len(t.buf) {
		grown := make([]byte, needed)
		copy(grown, t.buf)
		t.buf = grown
	}
	n := copy(t.buf[t.cursor:], p)
	t.cursor += n
	return n, nil
}

// Skip advances the cursor by n bytes. If that moves the cursor past the
// end of the buffer, the buffer is grown and the new region zero-filled,
// whether the transport is being read or written; Skip itself does not
// fail there. A Read once the cursor is at the end returns io.EOF.
func (t *BufferTransport) Skip(n int64) error {
	if n < 0 {
		return fmt.Errorf("negative skip %d: %w", n, errs.ErrDecodeValue)
	}
	target := t.cursor + int(n)
	if target > len(t.buf) {
		grown := make([]byte, target)
		copy(grown, t.buf)
		t.buf = grown
	}
	t.cursor = target
	return nil
}

// WriteFrame writes a length-prefixed message: an 8-byte little-endian
// length followed by payload, per spec.md §6.1 "8-byte little-endian
// length prefix, then a codec-encoded payload."
func WriteFrame(w io.Writer, payload []byte) error {
	var lenBuf [8]byte
	order.PutUint64(lenBuf[:], uint64(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one length-prefixed message from r.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("reading frame length: %w", errs.ErrIO)
	}
	n := order.Uint64(lenBuf[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("reading frame payload (%d bytes): %w", n, errs.ErrIO)
	}
	return payload, nil
}

// WriteFrameChecked writes a frame the same way WriteFrame does, with a
// crc24q checksum of the payload appended after it, inside the length
// count. This is the server wire path's integrity check over the TCP
// socket; the plain on-disk snapshot does not carry one.
func WriteFrameChecked(w io.Writer, payload []byte) error {
	crc := crc24q.Hash(payload)
	framed := make([]byte, 0, len(payload)+3)
	framed = append(framed, payload...)
	framed = append(framed, crc24q.HiByte(crc), crc24q.MiByte(crc), crc24q.LoByte(crc))
	return WriteFrame(w, framed)
}

// ReadFrameChecked reads a frame written by WriteFrameChecked and
// verifies its trailing checksum, returning ErrIO on mismatch.
func ReadFrameChecked(r io.Reader) ([]byte, error) {
	framed, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	if len(framed) < 3 {
		return nil, fmt.Errorf("frame too short for checksum: %w", errs.ErrIO)
	}
	payload := framed[:len(framed)-3]
	crc := crc24q.Hash(payload)
	if framed[len(framed)-3] != crc24q.HiByte(crc) ||
		framed[len(framed)-2] != crc24q.MiByte(crc) ||
		framed[len(framed)-1] != crc24q.LoByte(crc) {
		return nil, fmt.Errorf("frame checksum mismatch: %w", errs.ErrIO)
	}
	return payload, nil
}
