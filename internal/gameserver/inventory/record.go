// Package inventory decodes client-reported inventory actions and resolves them
// into the slot mutations the server applies.
package inventory

import (
	"fmt"

	"github.com/udisondev/invtx/internal/model"
)

// SourceType tells where an inventory action originated.
type SourceType uint32

const (
	SourceContainer    SourceType = 0
	SourceWorld        SourceType = 2 // drop/pickup item entity
	SourceCreative     SourceType = 3
	SourceCraftingGrid SourceType = 100 // fake windows, see FakeWindow
)

// Valid reports whether t is one of the known source types.
func (t SourceType) Valid() bool {
	switch t {
	case SourceContainer, SourceWorld, SourceCreative, SourceCraftingGrid:
		return true
	}
	return false
}

// String returns human-readable source type name.
func (t SourceType) String() string {
	switch t {
	case SourceContainer:
		return "Container"
	case SourceWorld:
		return "World"
	case SourceCreative:
		return "Creative"
	case SourceCraftingGrid:
		return "CraftingGrid"
	default:
		return fmt.Sprintf("SourceType(%d)", uint32(t))
	}
}

// FakeWindow: window ids the client uses for windows that exist only on its side.
// Carried in ActionRecord.WindowID when SourceType is SourceCraftingGrid.
type FakeWindow int32

const (
	FakeWindowCraftingAddIngredient    FakeWindow = -2
	FakeWindowCraftingRemoveIngredient FakeWindow = -3
	FakeWindowCraftingResult           FakeWindow = -4
	FakeWindowCraftingUseIngredient    FakeWindow = -5

	FakeWindowAnvilInput    FakeWindow = -10
	FakeWindowAnvilMaterial FakeWindow = -11
	FakeWindowAnvilResult   FakeWindow = -12
	FakeWindowAnvilOutput   FakeWindow = -13

	FakeWindowEnchantInput    FakeWindow = -15
	FakeWindowEnchantMaterial FakeWindow = -16
	FakeWindowEnchantOutput   FakeWindow = -17

	FakeWindowTradingInput1    FakeWindow = -20
	FakeWindowTradingInput2    FakeWindow = -21
	FakeWindowTradingUseInputs FakeWindow = -22
	FakeWindowTradingOutput    FakeWindow = -23

	FakeWindowBeacon FakeWindow = -24

	// Any client-side window dropping its contents when the player closes it.
	FakeWindowContainerDropContents FakeWindow = -100
)

var fakeWindowNames = map[FakeWindow]string{
	FakeWindowCraftingAddIngredient:    "CraftingAddIngredient",
	FakeWindowCraftingRemoveIngredient: "CraftingRemoveIngredient",
	FakeWindowCraftingResult:           "CraftingResult",
	FakeWindowCraftingUseIngredient:    "CraftingUseIngredient",
	FakeWindowAnvilInput:               "AnvilInput",
	FakeWindowAnvilMaterial:            "AnvilMaterial",
	FakeWindowAnvilResult:              "AnvilResult",
	FakeWindowAnvilOutput:              "AnvilOutput",
	FakeWindowEnchantInput:             "EnchantInput",
	FakeWindowEnchantMaterial:          "EnchantMaterial",
	FakeWindowEnchantOutput:            "EnchantOutput",
	FakeWindowTradingInput1:            "TradingInput1",
	FakeWindowTradingInput2:            "TradingInput2",
	FakeWindowTradingUseInputs:         "TradingUseInputs",
	FakeWindowTradingOutput:            "TradingOutput",
	FakeWindowBeacon:                   "Beacon",
	FakeWindowContainerDropContents:    "ContainerDropContents",
}

// Known reports whether w is a fake window id the protocol defines.
func (w FakeWindow) Known() bool {
	_, ok := fakeWindowNames[w]
	return ok
}

// String returns human-readable fake window name.
func (w FakeWindow) String() string {
	if name, ok := fakeWindowNames[w]; ok {
		return name
	}
	return fmt.Sprintf("FakeWindow(%d)", int32(w))
}

// Magic InventorySlot values.
const (
	SlotCreativeDeleteItem = 0
	SlotCreativeCreateItem = 1

	SlotWorldDropItem   = 0
	SlotWorldPickupItem = 1
)

// ActionRecord: one inventory action as it travels on the wire.
//
// WindowID is meaningful for SourceContainer and SourceCraftingGrid, SourceFlags for
// SourceWorld only. InventorySlot is a slot index, a creative/world sub-type, or a
// fake-window slot that Resolve maps to a real slot.
type ActionRecord struct {
	SourceType    SourceType
	WindowID      int32
	SourceFlags   uint32
	InventorySlot uint32
	OldItem       model.Item
	NewItem       model.Item
}

// String returns a short description for logs.
func (a ActionRecord) String() string {
	switch a.SourceType {
	case SourceCraftingGrid:
		return fmt.Sprintf("%s[%s] slot=%d %s -> %s", a.SourceType, FakeWindow(a.WindowID), a.InventorySlot, a.OldItem, a.NewItem)
	case SourceContainer:
		return fmt.Sprintf("%s[%d] slot=%d %s -> %s", a.SourceType, a.WindowID, a.InventorySlot, a.OldItem, a.NewItem)
	case SourceWorld:
		return fmt.Sprintf("%s flags=%d slot=%d %s -> %s", a.SourceType, a.SourceFlags, a.InventorySlot, a.OldItem, a.NewItem)
	default:
		return fmt.Sprintf("%s slot=%d %s -> %s", a.SourceType, a.InventorySlot, a.OldItem, a.NewItem)
	}
}
