package gameserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/invtx/internal/gameserver/clientpackets"
	"github.com/udisondev/invtx/internal/gameserver/inventory"
)

// ErrTransactionRejected wraps every failure that rejects a whole inventory transaction.
var ErrTransactionRejected = errors.New("inventory transaction rejected")

// Journal stores accepted inventory transactions.
// *db.InventoryJournalRepository implements it.
type Journal interface {
	Append(ctx context.Context, player string, actions []inventory.Action) (int64, error)
}

// Handler processes inventory packets for a session.
type Handler struct {
	interp     *inventory.Interpreter
	journal    Journal // nil = journaling disabled
	maxActions int
	log        *slog.Logger
}

// NewHandler creates a new inventory packet handler. journal may be nil;
// a nil logger discards diagnostics.
func NewHandler(interp *inventory.Interpreter, journal Journal, maxActions int, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if maxActions <= 0 {
		maxActions = clientpackets.DefaultMaxTransactionActions
	}
	return &Handler{
		interp:     interp,
		journal:    journal,
		maxActions: maxActions,
		log:        log,
	}
}

// HandlePacket dispatches one packet (opcode + body) and returns the actions to apply.
// Unknown opcodes are logged and ignored.
func (h *Handler) HandlePacket(ctx context.Context, sess inventory.Session, data []byte) ([]inventory.Action, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty packet data")
	}

	opcode := data[0]
	body := data[1:]

	switch opcode {
	case clientpackets.OpcodeInventoryTransaction:
		return h.HandleInventoryTransaction(ctx, sess, body)
	default:
		h.log.Warn("unknown packet opcode",
			"opcode", fmt.Sprintf("0x%02X", opcode),
			"player", sess.Name())
		return nil, nil
	}
}

// HandleInventoryTransaction decodes a transaction body, resolves its actions in
// wire order and journals the result.
//
// The first failing action rejects the whole transaction: nothing is returned or
// journaled. Side effects already applied to client-only window mirrors by earlier
// actions of the batch are not rolled back; the client resyncs those windows on
// its next transaction.
func (h *Handler) HandleInventoryTransaction(ctx context.Context, sess inventory.Session, body []byte) ([]inventory.Action, error) {
	pkt, err := clientpackets.ParseInventoryTransaction(body, h.maxActions)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing InventoryTransaction from %s: %w", ErrTransactionRejected, sess.Name(), err)
	}

	actions := make([]inventory.Action, 0, len(pkt.Actions))
	for i, rec := range pkt.Actions {
		action, err := h.interp.Resolve(rec, sess)
		if err != nil {
			h.log.Warn("inventory action rejected",
				"player", sess.Name(),
				"index", i,
				"record", rec.String(),
				"error", err)
			return nil, fmt.Errorf("%w: action[%d]: %w", ErrTransactionRejected, i, err)
		}
		if action == nil {
			continue
		}
		actions = append(actions, action)
	}

	if h.journal != nil && len(actions) > 0 {
		txID, err := h.journal.Append(ctx, sess.Name(), actions)
		if err != nil {
			return nil, fmt.Errorf("journaling transaction of %s: %w", sess.Name(), err)
		}
		h.log.Debug("inventory transaction journaled", "player", sess.Name(), "txID", txID)
	}

	h.log.Debug("inventory transaction accepted",
		"player", sess.Name(),
		"records", len(pkt.Actions),
		"actions", len(actions))

	return actions, nil
}
