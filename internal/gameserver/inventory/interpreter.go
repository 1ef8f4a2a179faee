package inventory

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/invtx/internal/model"
)

// Magic UI window slots.
const (
	uiSlotNoise = 50 // sent on menu transitions, carries nothing

	uiSmallGridFirst = 28
	uiSmallGridLast  = 31
	uiBigGridFirst   = 32
	uiBigGridLast    = 40
)

// Canonical slots of the client-side windows.
const (
	anvilSlotInput    = 0
	anvilSlotMaterial = 1
	anvilSlotResult   = 2

	enchantSlotInput    = 0
	enchantSlotMaterial = 1
	enchantSlotOutput   = 2

	beaconSlotPayment = 0
)

// Interpreter resolves decoded records into inventory actions.
//
// Resolve has side effects on windows that exist only on the client (anvil,
// enchanting table): their server-side mirrors are updated while the record is
// resolved. Records of one transaction must therefore be resolved in the order
// they were decoded, and never concurrently for the same session.
type Interpreter struct {
	log *slog.Logger
	ids WindowIDs
}

// NewInterpreter creates an Interpreter. A nil logger discards diagnostics.
func NewInterpreter(log *slog.Logger, ids WindowIDs) *Interpreter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Interpreter{log: log, ids: ids}
}

// Resolve maps rec to the action it claims. (nil, nil) means there is nothing to
// apply: the record is noise, targets a client window that is already closed, or
// asks for an anvil repair the player cannot pay for.
func (in *Interpreter) Resolve(rec ActionRecord, sess Session) (Action, error) {
	if rec.OldItem.Equal(rec.NewItem) {
		// client sends these on UI transitions even when nothing changed
		return nil, nil
	}

	switch rec.SourceType {
	case SourceContainer:
		return in.resolveContainer(rec, sess)

	case SourceWorld:
		if rec.InventorySlot != SlotWorldDropItem {
			return nil, fmt.Errorf("%w: only drop-item world actions expected from client, got slot %d",
				ErrUnexpectedValue, rec.InventorySlot)
		}
		return &DropItem{Item: rec.NewItem}, nil

	case SourceCreative:
		var kind CreativeKind
		switch rec.InventorySlot {
		case SlotCreativeDeleteItem:
			kind = CreativeDelete
		case SlotCreativeCreateItem:
			kind = CreativeCreate
		default:
			return nil, fmt.Errorf("%w %d", ErrUnexpectedCreativeActionType, rec.InventorySlot)
		}
		return &CreativeAction{Old: rec.OldItem, New: rec.NewItem, Kind: kind}, nil

	case SourceCraftingGrid:
		return in.resolveFakeWindow(rec, sess)

	default:
		return nil, fmt.Errorf("%w %d", ErrUnknownSourceType, uint32(rec.SourceType))
	}
}

func (in *Interpreter) resolveContainer(rec ActionRecord, sess Session) (Action, error) {
	if rec.WindowID == in.ids.UI && rec.InventorySlot > 0 {
		in.log.Debug("container UI action", "player", sess.Name(), "slot", rec.InventorySlot)

		slot := rec.InventorySlot
		switch {
		case slot == uiSlotNoise:
			return nil, nil
		case slot >= uiSmallGridFirst && slot <= uiSmallGridLast:
			grid, err := craftingGrid(sess, model.GridSizeSmall)
			if err != nil {
				return nil, err
			}
			return slotChange(grid, int(slot-uiSmallGridFirst), rec), nil
		case slot >= uiBigGridFirst && slot <= uiBigGridLast:
			grid, err := craftingGrid(sess, model.GridSizeBig)
			if err != nil {
				return nil, err
			}
			return slotChange(grid, int(slot-uiBigGridFirst), rec), nil
		default:
			return nil, fmt.Errorf("%w %d", ErrUnknownUISlotOffset, slot)
		}
	}

	w, ok := sess.Window(rec.WindowID)
	if !ok {
		return nil, fmt.Errorf("player %s has %w with window ID %d", sess.Name(), ErrNoOpenContainer, rec.WindowID)
	}
	return slotChange(w, int(rec.InventorySlot), rec), nil
}

// craftingGrid returns the session's crafting grid, which must be width wide.
func craftingGrid(sess Session, width int) (model.Grid, error) {
	grid := sess.CraftingGrid()
	if grid == nil {
		return nil, fmt.Errorf("player %s has %w: crafting grid", sess.Name(), ErrNoOpenContainer)
	}
	if grid.GridWidth() != width {
		return nil, fmt.Errorf("%w: expected width %d, got %d", ErrUnexpectedWindowShape, width, grid.GridWidth())
	}
	return grid, nil
}

func (in *Interpreter) resolveFakeWindow(rec ActionRecord, sess Session) (Action, error) {
	fw := FakeWindow(rec.WindowID)

	switch fw {
	case FakeWindowCraftingAddIngredient,
		FakeWindowCraftingRemoveIngredient,
		FakeWindowContainerDropContents: // TODO: drop-contents applies to every fake window, not only crafting
		grid := sess.CraftingGrid()
		if grid == nil {
			return nil, fmt.Errorf("player %s has %w: crafting grid", sess.Name(), ErrNoOpenContainer)
		}
		return slotChange(grid, int(rec.InventorySlot), rec), nil

	case FakeWindowCraftingResult, FakeWindowCraftingUseIngredient:
		// result consumption is applied by the crafting transaction itself
		return nil, nil

	case FakeWindowEnchantInput, FakeWindowEnchantMaterial, FakeWindowEnchantOutput:
		return in.resolveEnchant(fw, rec, sess), nil

	case FakeWindowBeacon:
		w, ok := in.clientWindow(sess, in.ids.Beacon, model.WindowKindBeacon)
		if !ok {
			return nil, nil
		}
		return slotChange(w, beaconSlotPayment, rec), nil

	case FakeWindowAnvilInput, FakeWindowAnvilMaterial, FakeWindowAnvilResult, FakeWindowAnvilOutput:
		return in.resolveAnvil(fw, rec, sess), nil

	default:
		return nil, &UnhandledFakeWindowError{Player: sess.Name(), Window: fw}
	}
}

// clientWindow looks up a client-only window. A missing window is not an error:
// the player may have closed it before the transaction got here.
func (in *Interpreter) clientWindow(sess Session, id int32, kind model.WindowKind) (model.Window, bool) {
	w, ok := sess.Window(id)
	if !ok || w.Kind() != kind {
		in.log.Debug("player has no open client window",
			"player", sess.Name(),
			"kind", kind,
			"window_id", id)
		return nil, false
	}
	return w, true
}

func (in *Interpreter) resolveEnchant(fw FakeWindow, rec ActionRecord, sess Session) Action {
	w, ok := in.clientWindow(sess, in.ids.Enchant, model.WindowKindEnchant)
	if !ok {
		return nil
	}

	var slot int
	switch fw {
	case FakeWindowEnchantInput:
		slot = enchantSlotInput
		if w.Item(enchantSlotInput).EqualLoose(rec.NewItem) {
			w.SetItem(enchantSlotInput, rec.NewItem, true)
		}
	case FakeWindowEnchantMaterial:
		// the table deducts lapis on its own; this only resyncs the mirror
		slot = enchantSlotMaterial
		w.SetItem(enchantSlotMaterial, rec.OldItem, true)
	case FakeWindowEnchantOutput:
		slot = enchantSlotOutput
	}

	return slotChange(w, slot, rec)
}

func (in *Interpreter) resolveAnvil(fw FakeWindow, rec ActionRecord, sess Session) Action {
	w, ok := in.clientWindow(sess, in.ids.Anvil, model.WindowKindAnvil)
	if !ok {
		return nil
	}

	var slot int
	switch fw {
	case FakeWindowAnvilInput:
		slot = anvilSlotInput
	case FakeWindowAnvilMaterial:
		slot = anvilSlotMaterial
	case FakeWindowAnvilOutput:
		slot = anvilSlotResult
		w.SendSlot(anvilSlotResult, w.Viewers())
	case FakeWindowAnvilResult:
		slot = anvilSlotResult

		cost := rec.OldItem.RepairCost()
		if cost < 0 {
			// tag comes from the client; a negative cost would grant levels
			in.log.Debug("anvil repair rejected: negative repair cost",
				"player", sess.Name(),
				"cost", cost)
			return nil
		}
		survival := sess.IsSurvival()
		if survival && sess.XPLevel() < cost {
			in.log.Debug("anvil repair rejected: not enough levels",
				"player", sess.Name(),
				"cost", cost,
				"levels", sess.XPLevel())
			return nil
		}

		w.Clear(anvilSlotInput)
		if material := w.Item(anvilSlotMaterial); !material.IsNull() {
			w.SetItem(anvilSlotMaterial, material.WithCount(material.Count-1), true)
		}
		w.SetItem(anvilSlotResult, rec.OldItem, false)
		if survival {
			sess.SubtractXPLevels(cost)
		}
	}

	return slotChange(w, slot, rec)
}

func slotChange(w model.Window, slot int, rec ActionRecord) *SlotChange {
	return &SlotChange{Window: w, Slot: slot, Old: rec.OldItem, New: rec.NewItem}
}
