package packet

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// MaxVarIntLen is the maximum encoded length of a 32-bit varint.
const MaxVarIntLen = 5

var (
	// ErrVarIntTooLong is returned when a varint does not terminate within MaxVarIntLen bytes.
	ErrVarIntTooLong = errors.New("varint exceeds 5 bytes")
	// ErrVarIntOverflow is returned when the last varint byte carries bits above bit 31.
	ErrVarIntOverflow = errors.New("varint overflows 32 bits")
)

// Reader provides methods for reading packet data.
// Fixed-width values are Little-Endian; varints are decoded by the Bedrock protocol reader.
type Reader struct {
	data []byte
	pos  int

	src *bytes.Reader    // window over data[pos:] for varint decoding
	pr  *protocol.Reader // reads from src
}

// NewReader creates a new packet reader.
func NewReader(data []byte) *Reader {
	src := bytes.NewReader(data)
	return &Reader{
		data: data,
		pos:  0,
		src:  src,
		pr:   protocol.NewReader(src, 0, false),
	}
}

// ReadShort reads an int16 (2 bytes, LE).
func (r *Reader) ReadShort() (int16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("ReadShort: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := int16(binary.LittleEndian.Uint16(r.data[r.pos:]))
	r.pos += 2
	return val, nil
}

// ReadUnsignedVarInt reads an unsigned 32-bit varint.
func (r *Reader) ReadUnsignedVarInt() (uint32, error) {
	var val uint32
	if err := r.varint(func() { r.pr.Varuint32(&val) }); err != nil {
		return 0, fmt.Errorf("ReadUnsignedVarInt: %w", err)
	}
	return val, nil
}

// ReadVarInt reads a signed 32-bit varint (zigzag encoded).
func (r *Reader) ReadVarInt() (int32, error) {
	var val int32
	if err := r.varint(func() { r.pr.Varint32(&val) }); err != nil {
		return 0, fmt.Errorf("ReadVarInt: %w", err)
	}
	return val, nil
}

// varint runs decode against the unread data and advances pos by what it consumed.
// protocol.Reader reports malformed input by panicking with an error.
func (r *Reader) varint(decode func()) (err error) {
	start := r.pos
	r.src.Reset(r.data[start:])

	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		perr, ok := rec.(error)
		if !ok {
			panic(rec)
		}
		switch {
		case errors.Is(perr, io.EOF), errors.Is(perr, io.ErrUnexpectedEOF):
			err = fmt.Errorf("unexpected end of data (pos=%d, len=%d)", start, len(r.data))
		default:
			err = fmt.Errorf("at pos=%d: %w", start, ErrVarIntTooLong)
		}
	}()

	decode()

	n := len(r.data) - start - r.src.Len()
	if n == MaxVarIntLen && r.data[start+n-1] > 0x0f {
		// пятый байт несёт только 4 старших бита
		return fmt.Errorf("at pos=%d: %w", start, ErrVarIntOverflow)
	}
	r.pos += n
	return nil
}

// ReadBytes reads n bytes (zero-copy: returns a subslice of internal data).
// IMPORTANT: Returned slice shares underlying array with Reader.data.
// Caller MUST NOT modify returned bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("ReadBytes: negative count %d", n)
	}
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("ReadBytes: not enough data (pos=%d, need=%d, len=%d)", r.pos, n, len(r.data))
	}

	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}
