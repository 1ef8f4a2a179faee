package testutil

import (
	"testing"

	"github.com/udisondev/invtx/internal/gameserver/inventory"
	"github.com/udisondev/invtx/internal/model"
)

// CraftingWindowID is the crafting grid id fixtures use.
const CraftingWindowID = int32(-1)

// Items used across tests.
var (
	Sword     = model.NewItem(267, 0, 1)
	IronIngot = model.NewItem(265, 0, 4)
	Lapis     = model.NewItem(351, 4, 3)
	Emerald   = model.NewItem(388, 0, 1)
	Dirt      = model.NewItem(3, 0, 32)
)

// RepairedSword returns a sword carrying the given anvil repair cost.
func RepairedSword(cost int32) model.Item {
	return Sword.WithTag(model.TagRepairCost, cost)
}

// ClientWindows are the server-side mirrors of client-only windows.
type ClientWindows struct {
	Anvil   *model.Inventory
	Enchant *model.Inventory
	Beacon  *model.Inventory
}

// NewPlayer creates a player named "tester" with a small crafting grid.
func NewPlayer(tb testing.TB, mode model.GameMode, xpLevel int) *model.Player {
	tb.Helper()
	p, err := model.NewPlayer("tester", mode, xpLevel, CraftingWindowID)
	if err != nil {
		tb.Fatalf("creating player: %v", err)
	}
	return p
}

// OpenClientWindows opens anvil, enchant and beacon windows for p under ids.
func OpenClientWindows(p *model.Player, ids inventory.WindowIDs) ClientWindows {
	w := ClientWindows{
		Anvil:   model.NewAnvilInventory(ids.Anvil),
		Enchant: model.NewEnchantInventory(ids.Enchant),
		Beacon:  model.NewBeaconInventory(ids.Beacon),
	}
	p.OpenWindow(w.Anvil)
	p.OpenWindow(w.Enchant)
	p.OpenWindow(w.Beacon)
	return w
}
