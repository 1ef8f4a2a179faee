// Package itemslot encodes item stacks as they appear inside inventory packets.
//
// Layout:
//   - id    (varint)        : 0 means air, nothing follows
//   - aux   (varint)        : meta<<8 | count&0xff
//   - tagLen (uint16, LE)   : 0 means no tag
//   - tag   (tagLen bytes)  : CBOR map[string]int32, core deterministic encoding
package itemslot

import (
	"errors"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/udisondev/invtx/internal/gameserver/packet"
	"github.com/udisondev/invtx/internal/model"
)

// MaxCount is the largest stack size the aux field can carry.
const MaxCount = 0xff

// ErrMetaOutOfRange is returned when the aux field carries a meta that does not fit int16.
var ErrMetaOutOfRange = errors.New("item meta out of int16 range")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	// Sorted keys: the same tag always produces identical bytes, so re-encoded
	// packets compare equal byte-for-byte.
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("itemslot: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		MaxMapPairs: 256,
	}.DecMode()
	if err != nil {
		panic("itemslot: CBOR decoder initialization failed: " + err.Error())
	}
}

// Read decodes one item stack.
func Read(r *packet.Reader) (model.Item, error) {
	id, err := r.ReadVarInt()
	if err != nil {
		return model.Air, fmt.Errorf("reading item id: %w", err)
	}
	if id == 0 {
		return model.Air, nil
	}

	aux, err := r.ReadVarInt()
	if err != nil {
		return model.Air, fmt.Errorf("reading item aux: %w", err)
	}

	tagLen, err := r.ReadShort()
	if err != nil {
		return model.Air, fmt.Errorf("reading item tag length: %w", err)
	}

	meta := aux >> 8
	if meta < math.MinInt16 || meta > math.MaxInt16 {
		return model.Air, fmt.Errorf("item %d: %w: %d", id, ErrMetaOutOfRange, meta)
	}

	item := model.Item{
		ID:    id,
		Meta:  int16(meta),
		Count: aux & 0xff,
	}

	if n := int(uint16(tagLen)); n > 0 {
		raw, err := r.ReadBytes(n)
		if err != nil {
			return model.Air, fmt.Errorf("reading item tag: %w", err)
		}
		var tag map[string]int32
		if err := decMode.Unmarshal(raw, &tag); err != nil {
			return model.Air, fmt.Errorf("decoding item tag: %w", err)
		}
		if len(tag) > 0 {
			item.Tag = tag
		}
	}

	return item, nil
}

// Write encodes one item stack. Null items are written as air.
func Write(w *packet.Writer, item model.Item) error {
	if item.IsNull() {
		w.WriteVarInt(0)
		return nil
	}
	if item.Count > MaxCount {
		return fmt.Errorf("item %d: count %d exceeds %d", item.ID, item.Count, MaxCount)
	}

	var tag []byte
	if len(item.Tag) > 0 {
		var err error
		tag, err = encMode.Marshal(item.Tag)
		if err != nil {
			return fmt.Errorf("encoding item %d tag: %w", item.ID, err)
		}
		if len(tag) > math.MaxUint16 {
			return fmt.Errorf("item %d: tag too large (%d bytes)", item.ID, len(tag))
		}
	}

	w.WriteVarInt(item.ID)
	w.WriteVarInt(int32(item.Meta)<<8 | item.Count&0xff)
	w.WriteShort(int16(uint16(len(tag))))
	w.WriteBytes(tag)
	return nil
}
