// Package reader implements a bounded, typed cursor over a borrowed byte
// buffer, used to walk the nested IPTS wire records without copying the
// underlying device buffer.
package reader

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrEndOfData is returned when a read or skip is attempted with no bytes left.
var ErrEndOfData = errors.New("reader: no data left")

// ErrInvalidRead is returned when a read or skip requests more bytes than remain.
var ErrInvalidRead = errors.New("reader: requested more bytes than available")

// ErrInvalidSeek is returned when Seek is given a position beyond the buffer.
var ErrInvalidSeek = errors.New("reader: seek position beyond buffer")

// Reader is a bounded cursor over a borrowed byte slice. The zero value is
// not usable; construct with New. A Reader must not outlive the buffer it
// was given.
type Reader struct {
	buf []byte
	pos int
}

// New wraps buf in a Reader starting at position 0.
func New(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Index returns the current cursor position.
func (r *Reader) Index() int {
	return r.pos
}

// Size returns the number of bytes remaining to be read.
func (r *Reader) Size() int {
	return len(r.buf) - r.pos
}

// Seek sets the cursor to an absolute position.
func (r *Reader) Seek(n int) error {
	if n > len(r.buf) {
		return errors.Wrapf(ErrInvalidSeek, "pos=%d max=%d", n, len(r.buf))
	}
	r.pos = n
	return nil
}

// Skip advances the cursor by n bytes without copying them.
func (r *Reader) Skip(n int) error {
	if r.Size() == 0 {
		return errors.Wrapf(ErrEndOfData, "skip %d bytes", n)
	}
	if n > r.Size() {
		return errors.Wrapf(ErrInvalidRead, "skip %d bytes, %d available", n, r.Size())
	}
	r.pos += n
	return nil
}

// Read copies len(dest) bytes into dest and advances the cursor.
func (r *Reader) Read(dest []byte) error {
	if r.Size() == 0 {
		return errors.Wrapf(ErrEndOfData, "read %d bytes", len(dest))
	}
	if len(dest) > r.Size() {
		return errors.Wrapf(ErrInvalidRead, "read %d bytes, %d available", len(dest), r.Size())
	}
	copy(dest, r.buf[r.pos:r.pos+len(dest)])
	r.pos += len(dest)
	return nil
}

// Subspan returns an independent Reader over the next n bytes and advances
// the parent past them.
func (r *Reader) Subspan(n int) (*Reader, error) {
	if r.Size() == 0 {
		return nil, errors.Wrapf(ErrEndOfData, "subspan %d bytes", n)
	}
	if n > r.Size() {
		return nil, errors.Wrapf(ErrInvalidRead, "subspan %d bytes, %d available", n, r.Size())
	}
	sub := r.buf[r.pos : r.pos+n]
	r.pos += n
	return New(sub), nil
}

// ReadStruct reads exactly sizeof(T) bytes and decodes them as a packed,
// little-endian struct. T must only contain fixed-size fields (no pointers,
// slices, or strings) for binary.Read to succeed.
func ReadStruct[T any](r *Reader) (T, error) {
	var value T
	size := binary.Size(value)
	if size <= 0 {
		return value, errors.Errorf("reader: type %T has no fixed binary size", value)
	}

	raw := make([]byte, size)
	if err := r.Read(raw); err != nil {
		return value, errors.Wrap(err, "read struct")
	}

	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &value); err != nil {
		return value, errors.Wrap(err, "decode struct")
	}
	return value, nil
}
