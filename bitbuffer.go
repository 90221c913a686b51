package section

import (
	"errors"
	"io"

	"github.com/icza/bitio"
)

// ErrInvalidLength is returned (and recorded, never panicked) whenever a
// wire buffer runs out of bytes inside a declared field: a section whose
// section_length promised more bytes than were actually supplied, a
// descriptor loop cut short, a length-prefixed run with no room left.
var ErrInvalidLength = errors.New("section: buffer ends inside a declared field")

// BitReader is a length-checked, big-endian bit cursor over a byte slice.
// It is a thin domain wrapper around bitio.CountReader: every Read call
// that would run past the end of the underlying buffer sets a sticky
// error and turns every subsequent read into a zero-value no-op, exactly
// as the rest of this package's wire format requires. BytesRead reports
// the read-head position in whole bytes, which the section/descriptor parsers
// use to compute "how many bytes are left in this bounded region".
type BitReader struct {
	r *bitio.CountReader
}

// NewBitReader wraps bs for length-checked big-endian reads.
func NewBitReader(bs []byte) *BitReader {
	return &BitReader{r: bitio.NewCountReader(newByteSliceReader(bs))}
}

// Err returns the sticky error, if any read has overflowed the buffer.
func (b *BitReader) Err() error {
	if b.r.TryError != nil {
		return ErrInvalidLength
	}
	return nil
}

// BitsRead returns the number of bits consumed so far.
func (b *BitReader) BitsRead() int64 { return b.r.BitsCount }

// BytesRead returns the number of whole bytes consumed so far.
func (b *BitReader) BytesRead() int64 { return b.r.BitsCount / 8 }

func (b *BitReader) ReadBool() bool { return b.r.TryReadBool() }

func (b *BitReader) ReadBits(n uint8) uint64 { return b.r.TryReadBits(n) }

func (b *BitReader) ReadUint8() uint8 { return b.r.TryReadByte() }

func (b *BitReader) ReadUint16() uint16 { return uint16(b.r.TryReadBits(16)) }

func (b *BitReader) ReadUint24() uint32 { return uint32(b.r.TryReadBits(24)) }

func (b *BitReader) ReadUint32() uint32 { return uint32(b.r.TryReadBits(32)) }

func (b *BitReader) ReadUint40() uint64 { return b.r.TryReadBits(40) }

func (b *BitReader) ReadUint48() uint64 { return b.r.TryReadBits(48) }

func (b *BitReader) ReadUint64() uint64 { return b.r.TryReadBits(64) }

// ReadBCD reads digits BCD-packed nibbles (4 bits each) and returns their
// decimal value, e.g. ReadBCD(2) on 0x27 returns 27.
func (b *BitReader) ReadBCD(digits int) int {
	v := 0
	for i := 0; i < digits; i++ {
		v = v*10 + int(b.r.TryReadBits(4))
	}
	return v
}

// ReadBytes reads n raw bytes.
func (b *BitReader) ReadBytes(n int) []byte {
	bs := make([]byte, n)
	TryReadFull(b.r, bs)
	return bs
}

// Skip advances the read head by n bytes, discarding them.
func (b *BitReader) Skip(n int) {
	if n <= 0 {
		return
	}
	TryReadFull(b.r, make([]byte, n))
}

// BitWriter is the write-side mirror of BitReader: a length-checked,
// big-endian bit cursor that accumulates a sticky error instead of
// panicking or silently corrupting the stream on overflow.
type BitWriter struct {
	w   *bitio.Writer
	buf *growingByteWriter
}

// NewBitWriter creates a BitWriter that appends to an internal buffer,
// retrievable via Bytes after Flush.
func NewBitWriter() *BitWriter {
	buf := &growingByteWriter{}
	return &BitWriter{w: bitio.NewWriter(buf), buf: buf}
}

// Err returns the sticky write error, if any.
func (b *BitWriter) Err() error { return b.w.TryError }

// Flush pads the current byte (if mid-byte) and returns the accumulated
// bytes written so far.
func (b *BitWriter) Flush() []byte {
	_ = b.w.Close()
	return b.buf.bs
}

func (b *BitWriter) WriteBool(v bool) { b.w.TryWriteBool(v) }

func (b *BitWriter) WriteBits(v uint64, n uint8) { b.w.TryWriteBits(v, n) }

func (b *BitWriter) WriteUint8(v uint8) { b.w.TryWriteByte(v) }

func (b *BitWriter) WriteUint16(v uint16) { b.w.TryWriteBits(uint64(v), 16) }

func (b *BitWriter) WriteUint24(v uint32) { b.w.TryWriteBits(uint64(v), 24) }

func (b *BitWriter) WriteUint32(v uint32) { b.w.TryWriteBits(uint64(v), 32) }

// WriteBCD writes v's decimal digits as packed BCD nibbles, most
// significant digit first.
func (b *BitWriter) WriteBCD(v int, digits int) {
	for i := digits - 1; i >= 0; i-- {
		p := 1
		for j := 0; j < i; j++ {
			p *= 10
		}
		b.w.TryWriteBits(uint64((v/p)%10), 4)
	}
}

func (b *BitWriter) WriteBytes(bs []byte) {
	for _, c := range bs {
		b.w.TryWriteByte(c)
	}
}

// byteSliceReader and growingByteWriter keep bitbuffer.go free of any
// direct bytes.Reader/Buffer aliasing so BitReader/BitWriter have a single
// minimal seam to the stdlib.

type byteSliceReader struct {
	bs     []byte
	offset int
}

func newByteSliceReader(bs []byte) *byteSliceReader { return &byteSliceReader{bs: bs} }

func (r *byteSliceReader) Read(p []byte) (int, error) {
	if r.offset >= len(r.bs) {
		return 0, io.EOF
	}
	n := copy(p, r.bs[r.offset:])
	r.offset += n
	return n, nil
}

func (r *byteSliceReader) ReadByte() (byte, error) {
	if r.offset >= len(r.bs) {
		return 0, io.EOF
	}
	c := r.bs[r.offset]
	r.offset++
	return c, nil
}

type growingByteWriter struct{ bs []byte }

func (w *growingByteWriter) Write(p []byte) (int, error) {
	w.bs = append(w.bs, p...)
	return len(p), nil
}

func (w *growingByteWriter) WriteByte(c byte) error {
	w.bs = append(w.bs, c)
	return nil
}
