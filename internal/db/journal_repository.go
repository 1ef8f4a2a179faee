package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/invtx/internal/gameserver/inventory"
	"github.com/udisondev/invtx/internal/gameserver/itemslot"
	"github.com/udisondev/invtx/internal/gameserver/packet"
	"github.com/udisondev/invtx/internal/model"
)

// JournalEntry is one stored action of an accepted inventory transaction.
type JournalEntry struct {
	TxID      int64
	Seq       int32
	Player    string
	CreatedAt time.Time

	Type         inventory.ActionType
	WindowID     *int32            // SlotChange only
	WindowKind   *model.WindowKind // SlotChange only
	Slot         *int32            // SlotChange only
	CreativeKind *inventory.CreativeKind
	Old          model.Item
	New          model.Item
}

// InventoryJournalRepository stores accepted inventory transactions for audit.
type InventoryJournalRepository struct {
	db *pgxpool.Pool
}

// NewInventoryJournalRepository создаёт новый InventoryJournalRepository.
func NewInventoryJournalRepository(db *pgxpool.Pool) *InventoryJournalRepository {
	return &InventoryJournalRepository{db: db}
}

// Append stores the actions of one transaction atomically and returns its id.
func (r *InventoryJournalRepository) Append(ctx context.Context, player string, actions []inventory.Action) (int64, error) {
	rows := make([][]any, 0, len(actions))
	for i, a := range actions {
		row, err := actionRow(a)
		if err != nil {
			return 0, fmt.Errorf("encoding action[%d] for player %s: %w", i, player, err)
		}
		rows = append(rows, row)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction for player %s: %w", player, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var txID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO inventory_transactions (player) VALUES ($1) RETURNING tx_id`,
		player,
	).Scan(&txID)
	if err != nil {
		return 0, fmt.Errorf("inserting transaction for player %s: %w", player, err)
	}

	for i := range rows {
		rows[i] = append([]any{txID, int32(i)}, rows[i]...)
	}

	if len(rows) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"inventory_actions"},
			[]string{"tx_id", "seq", "action_type", "window_id", "window_kind", "slot", "creative_kind", "old_item", "new_item"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting actions of transaction %d: %w", txID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing transaction %d: %w", txID, err)
	}

	slog.Debug("journaled inventory transaction",
		"player", player,
		"txID", txID,
		"actions", len(actions))

	return txID, nil
}

// ListByPlayer returns the actions of the player's latest transactions, newest
// transaction first, actions in their original order.
func (r *InventoryJournalRepository) ListByPlayer(ctx context.Context, player string, limitTx int) ([]JournalEntry, error) {
	query := `
		SELECT t.tx_id, a.seq, t.player, t.created_at,
		       a.action_type, a.window_id, a.window_kind, a.slot, a.creative_kind, a.old_item, a.new_item
		FROM (
			SELECT tx_id, player, created_at
			FROM inventory_transactions
			WHERE player = $1
			ORDER BY tx_id DESC
			LIMIT $2
		) t
		JOIN inventory_actions a ON a.tx_id = t.tx_id
		ORDER BY t.tx_id DESC, a.seq
	`

	rows, err := r.db.Query(ctx, query, player, limitTx)
	if err != nil {
		return nil, fmt.Errorf("querying journal for player %s: %w", player, err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var (
			e            JournalEntry
			actionType   int16
			windowKind   *int16
			creativeKind *int16
			oldRaw       []byte
			newRaw       []byte
		)
		err := rows.Scan(
			&e.TxID, &e.Seq, &e.Player, &e.CreatedAt,
			&actionType, &e.WindowID, &windowKind, &e.Slot, &creativeKind, &oldRaw, &newRaw,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}

		e.Type = inventory.ActionType(actionType)
		if windowKind != nil {
			k := model.WindowKind(*windowKind)
			e.WindowKind = &k
		}
		if creativeKind != nil {
			k := inventory.CreativeKind(*creativeKind)
			e.CreativeKind = &k
		}
		if e.Old, err = itemslot.Read(packet.NewReader(oldRaw)); err != nil {
			return nil, fmt.Errorf("decoding old item of tx %d seq %d: %w", e.TxID, e.Seq, err)
		}
		if e.New, err = itemslot.Read(packet.NewReader(newRaw)); err != nil {
			return nil, fmt.Errorf("decoding new item of tx %d seq %d: %w", e.TxID, e.Seq, err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal rows: %w", err)
	}

	return entries, nil
}

// actionRow returns the columns after (tx_id, seq).
func actionRow(a inventory.Action) ([]any, error) {
	var (
		windowID, slot         *int32
		windowKind, creativeKd *int16
		before, after          model.Item
	)

	switch act := a.(type) {
	case *inventory.SlotChange:
		id, kind, s := act.Window.ID(), int16(act.Window.Kind()), int32(act.Slot)
		windowID, windowKind, slot = &id, &kind, &s
		before, after = act.Old, act.New
	case *inventory.DropItem:
		after = act.Item
	case *inventory.CreativeAction:
		kind := int16(act.Kind)
		creativeKd = &kind
		before, after = act.Old, act.New
	default:
		return nil, fmt.Errorf("unsupported action %T", a)
	}

	oldRaw, err := encodeItem(before)
	if err != nil {
		return nil, err
	}
	newRaw, err := encodeItem(after)
	if err != nil {
		return nil, err
	}

	return []any{int16(a.Type()), windowID, windowKind, slot, creativeKd, oldRaw, newRaw}, nil
}

func encodeItem(item model.Item) ([]byte, error) {
	w := packet.Get()
	defer w.Put()
	if err := itemslot.Write(w, item); err != nil {
		return nil, err
	}
	return append([]byte(nil), w.Bytes()...), nil
}
