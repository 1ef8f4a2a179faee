package clientpackets

import (
	"errors"
	"fmt"

	"github.com/udisondev/invtx/internal/gameserver/inventory"
	"github.com/udisondev/invtx/internal/gameserver/packet"
)

// OpcodeInventoryTransaction is the opcode for InventoryTransaction (C2S 0x1E).
const OpcodeInventoryTransaction = 0x1E

// DefaultMaxTransactionActions bounds the action count of a single transaction.
const DefaultMaxTransactionActions = 64

// InventoryTransaction is the batch of inventory actions a client reports at once.
//
// Packet structure (body after opcode):
//   - count   (uvarint): number of actions
//   - actions (count × action record, see inventory.Decode)
type InventoryTransaction struct {
	Actions []inventory.ActionRecord
}

// ParseInventoryTransaction parses an InventoryTransaction body.
// Any malformed action fails the whole transaction.
func ParseInventoryTransaction(data []byte, maxActions int) (*InventoryTransaction, error) {
	r := packet.NewReader(data)

	count, err := r.ReadUnsignedVarInt()
	if err != nil {
		return nil, fmt.Errorf("reading action count: %w", err)
	}
	if int64(count) > int64(maxActions) {
		return nil, fmt.Errorf("invalid action count: %d (max %d)", count, maxActions)
	}

	actions := make([]inventory.ActionRecord, count)
	for i := range actions {
		if actions[i], err = inventory.Decode(r); err != nil {
			return nil, fmt.Errorf("reading action[%d]: %w", i, err)
		}
	}

	if r.Remaining() != 0 {
		return nil, fmt.Errorf("trailing data after %d actions: %d bytes", count, r.Remaining())
	}

	return &InventoryTransaction{Actions: actions}, nil
}

// Write encodes the transaction body into w. Actions with an invalid source type
// are skipped and counted in skipped; any other encoding error aborts and leaves
// w untouched.
func (t *InventoryTransaction) Write(w *packet.Writer) (skipped int, err error) {
	body := packet.Get()
	defer body.Put()

	var written uint32
	for i, rec := range t.Actions {
		if err := inventory.Encode(body, rec); err != nil {
			if errors.Is(err, inventory.ErrInvalidSourceType) {
				skipped++
				continue
			}
			return skipped, fmt.Errorf("writing action[%d]: %w", i, err)
		}
		written++
	}

	w.WriteUnsignedVarInt(written)
	w.WriteBytes(body.Bytes())
	return skipped, nil
}
