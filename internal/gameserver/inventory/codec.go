package inventory

import (
	"fmt"

	"github.com/udisondev/invtx/internal/gameserver/itemslot"
	"github.com/udisondev/invtx/internal/gameserver/packet"
)

// Decodable is a record that reads its own variable-length shape.
type Decodable interface {
	Decode(r *packet.Reader) error
}

// Encodable is a record that writes its own variable-length shape.
type Encodable interface {
	Encode(w *packet.Writer) error
}

var (
	_ Decodable = (*ActionRecord)(nil)
	_ Encodable = ActionRecord{}
)

// Decode reads one action record.
//
// Record structure:
//   - sourceType    (uvarint)
//   - sourceFlags   (uvarint) : World only
//   - windowID      (varint)  : Container, CraftingGrid only
//   - inventorySlot (uvarint)
//   - oldItem       (item slot)
//   - newItem       (item slot)
//
// An *InvalidSourceTypeError leaves r at an undefined position; the caller must
// abandon the rest of the transaction.
func Decode(r *packet.Reader) (ActionRecord, error) {
	var rec ActionRecord

	sourceType, err := r.ReadUnsignedVarInt()
	if err != nil {
		return rec, fmt.Errorf("reading source type: %w", err)
	}
	rec.SourceType = SourceType(sourceType)

	switch rec.SourceType {
	case SourceWorld:
		if rec.SourceFlags, err = r.ReadUnsignedVarInt(); err != nil {
			return rec, fmt.Errorf("reading source flags: %w", err)
		}
	case SourceCreative:
	case SourceContainer, SourceCraftingGrid:
		if rec.WindowID, err = r.ReadVarInt(); err != nil {
			return rec, fmt.Errorf("reading window id: %w", err)
		}
	default:
		return rec, &InvalidSourceTypeError{Value: sourceType}
	}

	if rec.InventorySlot, err = r.ReadUnsignedVarInt(); err != nil {
		return rec, fmt.Errorf("reading inventory slot: %w", err)
	}
	if rec.OldItem, err = itemslot.Read(r); err != nil {
		return rec, fmt.Errorf("reading old item: %w", err)
	}
	if rec.NewItem, err = itemslot.Read(r); err != nil {
		return rec, fmt.Errorf("reading new item: %w", err)
	}

	return rec, nil
}

// Encode writes rec. Records with an invalid source type or unencodable items are
// rejected before anything is written, so the caller may skip the record and go on.
func Encode(w *packet.Writer, rec ActionRecord) error {
	if !rec.SourceType.Valid() {
		return &InvalidSourceTypeError{Value: uint32(rec.SourceType)}
	}

	// items first into scratch space: a failing item must not leave half a record behind
	items := packet.Get()
	defer items.Put()
	if err := itemslot.Write(items, rec.OldItem); err != nil {
		return fmt.Errorf("writing old item: %w", err)
	}
	if err := itemslot.Write(items, rec.NewItem); err != nil {
		return fmt.Errorf("writing new item: %w", err)
	}

	w.WriteUnsignedVarInt(uint32(rec.SourceType))
	switch rec.SourceType {
	case SourceWorld:
		w.WriteUnsignedVarInt(rec.SourceFlags)
	case SourceContainer, SourceCraftingGrid:
		w.WriteVarInt(rec.WindowID)
	}
	w.WriteUnsignedVarInt(rec.InventorySlot)
	w.WriteBytes(items.Bytes())
	return nil
}

// Decode implements Decodable.
func (a *ActionRecord) Decode(r *packet.Reader) error {
	rec, err := Decode(r)
	if err != nil {
		return err
	}
	*a = rec
	return nil
}

// Encode implements Encodable.
func (a ActionRecord) Encode(w *packet.Writer) error {
	return Encode(w, a)
}
