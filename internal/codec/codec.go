// Package codec implements the self-describing tagged binary format used
// on the wire and in snapshot files (spec.md §4.D). Every value is
// prefixed with a one-byte tag naming its kind; arrays are prefixed with
// their element count so a reader can validate it against what the
// caller expected.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ste616/atca-training-sub001/internal/errs"
)

// Tag identifies the kind of the value that follows it on the wire.
type Tag byte

const (
	TagBool Tag = iota + 1
	TagInt
	TagUint
	TagFloat
	TagDouble
	TagString
	TagArray
)

// order is little-endian throughout, matching spec.md §6.1's wire frame
// length prefix.
var order = binary.LittleEndian

// Writer encodes tagged values onto a Transport.
type Writer struct {
	t Transport
}

// NewWriter returns a Writer that emits onto t.
func NewWriter(t Transport) *Writer {
	return &Writer{t: t}
}

func (w *Writer) writeTag(tag Tag) error {
	_, err := w.t.Write([]byte{byte(tag)})
	return err
}

// WriteBool emits a tagged boolean.
func (w *Writer) WriteBool(v bool) error {
	if err := w.writeTag(TagBool); err != nil {
		return err
	}
	b := byte(0)
	if v {
		b = 1
	}
	_, err := w.t.Write([]byte{b})
	return err
}

// WriteInt emits a tagged signed 64-bit integer.
func (w *Writer) WriteInt(v int64) error {
	if err := w.writeTag(TagInt); err != nil {
		return err
	}
	var buf [8]byte
	order.PutUint64(buf[:], uint64(v))
	_, err := w.t.Write(buf[:])
	return err
}

// WriteUint emits a tagged unsigned 64-bit integer.
func (w *Writer) WriteUint(v uint64) error {
	if err := w.writeTag(TagUint); err != nil {
		return err
	}
	var buf [8]byte
	order.PutUint64(buf[:], v)
	_, err := w.t.Write(buf[:])
	return err
}

// WriteFloat emits a tagged 32-bit float.
func (w *Writer) WriteFloat(v float32) error {
	if err := w.writeTag(TagFloat); err != nil {
		return err
	}
	var buf [4]byte
	order.PutUint32(buf[:], math.Float32bits(v))
	_, err := w.t.Write(buf[:])
	return err
}

// WriteDouble emits a tagged 64-bit float.
func (w *Writer) WriteDouble(v float64) error {
	if err := w.writeTag(TagDouble); err != nil {
		return err
	}
	var buf [8]byte
	order.PutUint64(buf[:], math.Float64bits(v))
	_, err := w.t.Write(buf[:])
	return err
}

// WriteString emits a tagged, length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) error {
	if err := w.writeTag(TagString); err != nil {
		return err
	}
	if err := w.writeRawUint(uint64(len(s))); err != nil {
		return err
	}
	_, err := w.t.Write([]byte(s))
	return err
}

// WriteArrayHeader emits a tagged array length; the caller then writes
// exactly n further tagged values (or nested arrays) for the elements.
func (w *Writer) WriteArrayHeader(n int) error {
	if err := w.writeTag(TagArray); err != nil {
		return err
	}
	return w.writeRawUint(uint64(n))
}

// WriteFloat64Array emits an array of n doubles.
func (w *Writer) WriteFloat64Array(v []float64) error {
	if err := w.WriteArrayHeader(len(v)); err != nil {
		return err
	}
	for _, x := range v {
		if err := w.WriteDouble(x); err != nil {
			return err
		}
	}
	return nil
}

// WriteComplexArray emits v as a 2N-element array of doubles, real then
// imaginary per element, per spec.md §4.D.
func (w *Writer) WriteComplexArray(v []complex128) error {
	if err := w.WriteArrayHeader(len(v) * 2); err != nil {
		return err
	}
	for _, c := range v {
		if err := w.WriteDouble(real(c)); err != nil {
			return err
		}
		if err := w.WriteDouble(imag(c)); err != nil {
			return err
		}
	}
	return nil
}

// WriteIntArray emits an array of n signed integers.
func (w *Writer) WriteIntArray(v []int) error {
	if err := w.WriteArrayHeader(len(v)); err != nil {
		return err
	}
	for _, x := range v {
		if err := w.WriteInt(int64(x)); err != nil {
			return err
		}
	}
	return nil
}

// WriteStringArray emits an array of n strings.
func (w *Writer) WriteStringArray(v []string) error {
	if err := w.WriteArrayHeader(len(v)); err != nil {
		return err
	}
	for _, s := range v {
		if err := w.WriteString(s); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeRawUint(v uint64) error {
	var buf [8]byte
	order.PutUint64(buf[:], v)
	_, err := w.t.Write(buf[:])
	return err
}

// Reader decodes tagged values from a Transport.
type Reader struct {
	t Transport
}

// NewReader returns a Reader that consumes from t.
func NewReader(t Transport) *Reader {
	return &Reader{t: t}
}

func (r *Reader) readTag(want Tag) error {
	var buf [1]byte
	if _, err := readFull(r.t, buf[:]); err != nil {
		return fmt.Errorf("reading tag: %w", err)
	}
	got := Tag(buf[0])
	if got != want {
		return fmt.Errorf("expected tag %d, got %d: %w", want, got, errs.ErrDecodeValue)
	}
	return nil
}

// ReadBool decodes a tagged boolean.
func (r *Reader) ReadBool() (bool, error) {
	if err := r.readTag(TagBool); err != nil {
		return false, err
	}
	var buf [1]byte
	if _, err := readFull(r.t, buf[:]); err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}

// ReadInt decodes a tagged signed 64-bit integer.
func (r *Reader) ReadInt() (int64, error) {
	if err := r.readTag(TagInt); err != nil {
		return 0, err
	}
	var buf [8]byte
	if _, err := readFull(r.t, buf[:]); err != nil {
		return 0, err
	}
	return int64(order.Uint64(buf[:])), nil
}

// ReadUint decodes a tagged unsigned 64-bit integer.
func (r *Reader) ReadUint() (uint64, error) {
	if err := r.readTag(TagUint); err != nil {
		return 0, err
	}
	var buf [8]byte
	if _, err := readFull(r.t, buf[:]); err != nil {
		return 0, err
	}
	return order.Uint64(buf[:]), nil
}

// ReadFloat decodes a tagged 32-bit float.
func (r *Reader) ReadFloat() (float32, error) {
	if err := r.readTag(TagFloat); err != nil {
		return 0, err
	}
	var buf [4]byte
	if _, err := readFull(r.t, buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(order.Uint32(buf[:])), nil
}

// ReadDouble decodes a tagged 64-bit float.
func (r *Reader) ReadDouble() (float64, error) {
	if err := r.readTag(TagDouble); err != nil {
		return 0, err
	}
	var buf [8]byte
	if _, err := readFull(r.t, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(order.Uint64(buf[:])), nil
}

// ReadString decodes a tagged, length-prefixed string.
func (r *Reader) ReadString() (string, error) {
	if err := r.readTag(TagString); err != nil {
		return "", err
	}
	n, err := r.readRawUint()
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := readFull(r.t, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadArrayHeader decodes a tagged array length and checks it against
// expected, which may be -1 to accept any length. It fails with
// ErrDecodeLength on a mismatch, per spec.md §4.D.
func (r *Reader) ReadArrayHeader(expected int) (int, error) {
	if err := r.readTag(TagArray); err != nil {
		return 0, err
	}
	n, err := r.readRawUint()
	if err != nil {
		return 0, err
	}
	if expected >= 0 && int(n) != expected {
		return 0, fmt.Errorf("array length %d, expected %d: %w", n, expected, errs.ErrDecodeLength)
	}
	return int(n), nil
}

// ReadFloat64Array decodes an array of doubles, expecting exactly
// expected elements (-1 to accept any length).
func (r *Reader) ReadFloat64Array(expected int) ([]float64, error) {
	n, err := r.ReadArrayHeader(expected)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		if out[i], err = r.ReadDouble(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadComplexArray decodes a 2N-element array of doubles back into N
// complex values, per spec.md §4.D.
func (r *Reader) ReadComplexArray(expectedN int) ([]complex128, error) {
	expectedLen := -1
	if expectedN >= 0 {
		expectedLen = expectedN * 2
	}
	n, err := r.ReadArrayHeader(expectedLen)
	if err != nil {
		return nil, err
	}
	if n%2 != 0 {
		return nil, fmt.Errorf("complex array has odd length %d: %w", n, errs.ErrDecodeLength)
	}
	out := make([]complex128, n/2)
	for i := range out {
		re, err := r.ReadDouble()
		if err != nil {
			return nil, err
		}
		im, err := r.ReadDouble()
		if err != nil {
			return nil, err
		}
		out[i] = complex(re, im)
	}
	return out, nil
}

// ReadIntArray decodes an array of signed integers.
func (r *Reader) ReadIntArray(expected int) ([]int, error) {
	n, err := r.ReadArrayHeader(expected)
	if err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i := range out {
		v, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		out[i] = int(v)
	}
	return out, nil
}

// ReadStringArray decodes an array of strings.
func (r *Reader) ReadStringArray(expected int) ([]string, error) {
	n, err := r.ReadArrayHeader(expected)
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		if out[i], err = r.ReadString(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Reader) readRawUint() (uint64, error) {
	var buf [8]byte
	if _, err := readFull(r.t, buf[:]); err != nil {
		return 0, err
	}
	return order.Uint64(buf[:]), nil
}

// readFull reads exactly len(buf) bytes from t, translating a short read
// into ErrIO the way the teacher's handler treats a short RTCM frame.
func readFull(t Transport, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := t.Read(buf[total:])
		total += n
		if err != nil {
			return total, fmt.Errorf("short read (%d/%d bytes): %w", total, len(buf), errs.ErrIO)
		}
	}
	return total, nil
}
