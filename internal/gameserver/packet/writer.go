package packet

import (
	"bytes"
	"sync"

	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// Writer provides methods for writing packet data.
// Fixed-width values are Little-Endian; varints are encoded by the Bedrock protocol writer.
type Writer struct {
	buf *bytes.Buffer
	pw  *protocol.Writer // writes into buf
}

// writerPool reduces allocations by reusing Writers.
// Get() returns a Writer with Reset() called, Put() returns it to pool.
var writerPool = sync.Pool{
	New: func() any {
		return NewWriter(256)
	},
}

// Get returns a Writer from the pool (already Reset).
func Get() *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	return w
}

// Put returns a Writer to the pool for reuse.
// IMPORTANT: Do not use the Writer after calling Put.
func (w *Writer) Put() {
	writerPool.Put(w)
}

// NewWriter creates a new packet writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	buf := bytes.NewBuffer(make([]byte, 0, capacity))
	return &Writer{
		buf: buf,
		pw:  protocol.NewWriter(buf, 0),
	}
}

// WriteShort writes an int16 (2 bytes, LE).
func (w *Writer) WriteShort(val int16) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
}

// WriteUnsignedVarInt writes an unsigned 32-bit varint (1-5 bytes).
func (w *Writer) WriteUnsignedVarInt(val uint32) {
	w.pw.Varuint32(&val)
}

// WriteVarInt writes a signed 32-bit varint (zigzag encoded).
func (w *Writer) WriteVarInt(val int32) {
	w.pw.Varint32(&val)
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	_, _ = w.buf.Write(data)
}

// Bytes returns the accumulated packet data.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the current length of the packet.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset clears the buffer for reuse.
func (w *Writer) Reset() {
	w.buf.Reset()
}
