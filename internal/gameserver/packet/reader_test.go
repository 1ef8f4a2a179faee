package packet

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestReader_ReadShort(t *testing.T) {
	data := make([]byte, 2)
	binary.LittleEndian.PutUint16(data, 0x1234)

	r := NewReader(data)

	val, err := r.ReadShort()
	if err != nil {
		t.Fatalf("ReadShort failed: %v", err)
	}

	if val != 0x1234 {
		t.Errorf("expected 0x1234, got 0x%04X", val)
	}
}

func TestReader_ReadUnsignedVarInt(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected uint32
	}{
		{"zero", []byte{0x00}, 0},
		{"one byte max", []byte{0x7f}, 127},
		{"two bytes", []byte{0x80, 0x01}, 128},
		{"300", []byte{0xac, 0x02}, 300},
		{"max uint32", []byte{0xff, 0xff, 0xff, 0xff, 0x0f}, math.MaxUint32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.input)
			val, err := r.ReadUnsignedVarInt()
			if err != nil {
				t.Fatalf("ReadUnsignedVarInt failed: %v", err)
			}
			if val != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, val)
			}
			if r.Remaining() != 0 {
				t.Errorf("expected 0 remaining bytes, got %d", r.Remaining())
			}
		})
	}
}

func TestReader_ReadVarInt(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected int32
	}{
		{"zero", []byte{0x00}, 0},
		{"minus one", []byte{0x01}, -1},
		{"one", []byte{0x02}, 1},
		{"minus two", []byte{0x03}, -2},
		{"minus hundred", []byte{0xc7, 0x01}, -100},
		{"max int32", []byte{0xfe, 0xff, 0xff, 0xff, 0x0f}, math.MaxInt32},
		{"min int32", []byte{0xff, 0xff, 0xff, 0xff, 0x0f}, math.MinInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.input)
			val, err := r.ReadVarInt()
			if err != nil {
				t.Fatalf("ReadVarInt failed: %v", err)
			}
			if val != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, val)
			}
		})
	}
}

func TestReader_ReadUnsignedVarInt_TooLong(t *testing.T) {
	r := NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01})

	_, err := r.ReadUnsignedVarInt()
	if !errors.Is(err, ErrVarIntTooLong) {
		t.Fatalf("expected ErrVarIntTooLong, got %v", err)
	}
}

func TestReader_ReadUnsignedVarInt_Overflow(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"unsigned above max uint32", []byte{0xff, 0xff, 0xff, 0xff, 0x1f}},
		{"high bits set in last byte", []byte{0x80, 0x80, 0x80, 0x80, 0x70}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.input)
			if _, err := r.ReadUnsignedVarInt(); !errors.Is(err, ErrVarIntOverflow) {
				t.Fatalf("expected ErrVarIntOverflow, got %v", err)
			}

			r = NewReader(tt.input)
			if _, err := r.ReadVarInt(); !errors.Is(err, ErrVarIntOverflow) {
				t.Fatalf("ReadVarInt: expected ErrVarIntOverflow, got %v", err)
			}
		})
	}
}

func TestReader_VarIntAdvancesPosition(t *testing.T) {
	r := NewReader([]byte{0xac, 0x02, 0x03, 0x34, 0x12})

	u, err := r.ReadUnsignedVarInt()
	if err != nil || u != 300 {
		t.Fatalf("ReadUnsignedVarInt = %d, %v; want 300", u, err)
	}
	v, err := r.ReadVarInt()
	if err != nil || v != -2 {
		t.Fatalf("ReadVarInt = %d, %v; want -2", v, err)
	}
	s, err := r.ReadShort()
	if err != nil || s != 0x1234 {
		t.Fatalf("ReadShort = 0x%04X, %v; want 0x1234", s, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected 0 remaining bytes, got %d", r.Remaining())
	}
}

func TestReader_ReadUnsignedVarInt_Truncated(t *testing.T) {
	r := NewReader([]byte{0x80, 0x80})

	if _, err := r.ReadUnsignedVarInt(); err == nil {
		t.Fatal("expected error for truncated varint")
	}
}

func TestReader_ReadBytes(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	r := NewReader(data)

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if len(got) != 3 || got[0] != 0x01 || got[2] != 0x03 {
		t.Errorf("unexpected bytes: %v", got)
	}
	if r.Remaining() != 2 {
		t.Errorf("expected 2 remaining bytes, got %d", r.Remaining())
	}

	if _, err := r.ReadBytes(3); err == nil {
		t.Error("expected error when reading past end")
	}
	if _, err := r.ReadBytes(-1); err == nil {
		t.Error("expected error for negative count")
	}
}

func TestReader_NotEnoughData(t *testing.T) {
	r := NewReader([]byte{0x01})

	if _, err := r.ReadShort(); err == nil {
		t.Error("expected error for ReadShort on 1 byte")
	}
	if r.Remaining() != 1 {
		t.Errorf("failed read must not consume data, %d bytes remaining", r.Remaining())
	}
}
