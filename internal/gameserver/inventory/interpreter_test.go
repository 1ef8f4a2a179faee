package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/invtx/internal/model"
)

const testCraftingWindowID = int32(200)

var (
	sword      = model.NewItem(267, 0, 1)
	repaired   = model.NewItem(267, 0, 1).WithTag(model.TagRepairCost, 3)
	ironIngot  = model.NewItem(265, 0, 4)
	lapis      = model.NewItem(351, 4, 3)
	emerald    = model.NewItem(388, 0, 1)
	dirtStack  = model.NewItem(3, 0, 32)
	dirtSingle = model.NewItem(3, 0, 1)
)

func newTestPlayer(t *testing.T, mode model.GameMode, xpLevel int) *model.Player {
	t.Helper()
	p, err := model.NewPlayer("Steve", mode, xpLevel, testCraftingWindowID)
	require.NoError(t, err)
	return p
}

func newTestInterpreter() *Interpreter {
	return NewInterpreter(nil, DefaultWindowIDs())
}

func fakeWindowRecord(fw FakeWindow, slot uint32, before, after model.Item) ActionRecord {
	return ActionRecord{
		SourceType:    SourceCraftingGrid,
		WindowID:      int32(fw),
		InventorySlot: slot,
		OldItem:       before,
		NewItem:       after,
	}
}

func requireSlotChange(t *testing.T, action Action) *SlotChange {
	t.Helper()
	require.NotNil(t, action)
	sc, ok := action.(*SlotChange)
	require.True(t, ok, "expected *SlotChange, got %T", action)
	return sc
}

func TestResolve_NoiseSuppression(t *testing.T) {
	ids := DefaultWindowIDs()
	sourceTypes := []struct {
		name     string
		source   SourceType
		windowID int32
	}{
		{"container", SourceContainer, 42},
		{"container UI", SourceContainer, ids.UI},
		{"world", SourceWorld, 0},
		{"creative", SourceCreative, 0},
		{"fake window", SourceCraftingGrid, int32(FakeWindowAnvilResult)},
		{"unknown source", SourceType(7), 0},
	}

	for _, tt := range sourceTypes {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPlayer(t, model.GameModeSurvival, 0)
			rec := ActionRecord{
				SourceType:    tt.source,
				WindowID:      tt.windowID,
				InventorySlot: 99, // invalid for every source; must not matter
				OldItem:       dirtStack,
				NewItem:       dirtStack,
			}

			action, err := newTestInterpreter().Resolve(rec, p)
			require.NoError(t, err)
			assert.Nil(t, action)
		})
	}
}

func TestResolve_ContainerUICraftingSlots(t *testing.T) {
	ids := DefaultWindowIDs()

	tests := []struct {
		name     string
		width    int
		slot     uint32
		wantSlot int
		wantErr  error
		noAction bool
	}{
		{name: "small grid first", width: model.GridSizeSmall, slot: 28, wantSlot: 0},
		{name: "small grid slot 29", width: model.GridSizeSmall, slot: 29, wantSlot: 1},
		{name: "small grid last", width: model.GridSizeSmall, slot: 31, wantSlot: 3},
		{name: "big grid slot 35", width: model.GridSizeBig, slot: 35, wantSlot: 3},
		{name: "big grid last", width: model.GridSizeBig, slot: 40, wantSlot: 8},
		{name: "noise slot 50", width: model.GridSizeSmall, slot: 50, noAction: true},
		{name: "small range on big grid", width: model.GridSizeBig, slot: 29, wantErr: ErrUnexpectedWindowShape},
		{name: "big range on small grid", width: model.GridSizeSmall, slot: 35, wantErr: ErrUnexpectedWindowShape},
		{name: "unknown offset 41", width: model.GridSizeBig, slot: 41, wantErr: ErrUnknownUISlotOffset},
		{name: "unknown offset 5", width: model.GridSizeSmall, slot: 5, wantErr: ErrUnknownUISlotOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPlayer(t, model.GameModeSurvival, 0)
			grid := model.NewCraftingGrid(testCraftingWindowID, tt.width)
			p.SetCraftingGrid(grid)

			rec := ActionRecord{
				SourceType:    SourceContainer,
				WindowID:      ids.UI,
				InventorySlot: tt.slot,
				OldItem:       model.Air,
				NewItem:       dirtSingle,
			}

			action, err := newTestInterpreter().Resolve(rec, p)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, action)
				return
			}
			require.NoError(t, err)
			if tt.noAction {
				assert.Nil(t, action)
				return
			}

			sc := requireSlotChange(t, action)
			assert.Same(t, grid, sc.Window)
			assert.Equal(t, tt.wantSlot, sc.Slot)
			assert.Equal(t, model.Air, sc.Old)
			assert.Equal(t, dirtSingle, sc.New)
		})
	}
}

func TestResolve_ContainerWindowLookup(t *testing.T) {
	ids := DefaultWindowIDs()
	chest := model.NewInventory(7, model.WindowKindContainer, 27)

	t.Run("open window", func(t *testing.T) {
		p := newTestPlayer(t, model.GameModeSurvival, 0)
		p.OpenWindow(chest)

		rec := ActionRecord{SourceType: SourceContainer, WindowID: 7, InventorySlot: 13, OldItem: dirtStack, NewItem: model.Air}
		action, err := newTestInterpreter().Resolve(rec, p)
		require.NoError(t, err)

		sc := requireSlotChange(t, action)
		assert.Same(t, chest, sc.Window)
		assert.Equal(t, 13, sc.Slot)
	})

	t.Run("closed window", func(t *testing.T) {
		p := newTestPlayer(t, model.GameModeSurvival, 0)

		rec := ActionRecord{SourceType: SourceContainer, WindowID: 7, InventorySlot: 13, OldItem: dirtStack, NewItem: model.Air}
		action, err := newTestInterpreter().Resolve(rec, p)
		require.ErrorIs(t, err, ErrNoOpenContainer)
		assert.Contains(t, err.Error(), "Steve")
		assert.Nil(t, action)
	})

	t.Run("UI window slot zero goes through lookup", func(t *testing.T) {
		p := newTestPlayer(t, model.GameModeSurvival, 0)
		cursor := model.NewInventory(ids.UI, model.WindowKindContainer, 51)
		p.OpenWindow(cursor)

		rec := ActionRecord{SourceType: SourceContainer, WindowID: ids.UI, InventorySlot: 0, OldItem: model.Air, NewItem: dirtStack}
		action, err := newTestInterpreter().Resolve(rec, p)
		require.NoError(t, err)

		sc := requireSlotChange(t, action)
		assert.Same(t, cursor, sc.Window)
		assert.Equal(t, 0, sc.Slot)
	})
}

func TestResolve_World(t *testing.T) {
	p := newTestPlayer(t, model.GameModeSurvival, 0)
	in := newTestInterpreter()

	action, err := in.Resolve(ActionRecord{SourceType: SourceWorld, InventorySlot: SlotWorldDropItem, OldItem: model.Air, NewItem: dirtStack}, p)
	require.NoError(t, err)
	assert.Equal(t, &DropItem{Item: dirtStack}, action)

	action, err = in.Resolve(ActionRecord{SourceType: SourceWorld, InventorySlot: SlotWorldPickupItem, OldItem: dirtStack, NewItem: model.Air}, p)
	require.ErrorIs(t, err, ErrUnexpectedValue)
	assert.Nil(t, action)
}

func TestResolve_Creative(t *testing.T) {
	tests := []struct {
		name     string
		slot     uint32
		wantKind CreativeKind
		wantErr  bool
	}{
		{name: "delete", slot: SlotCreativeDeleteItem, wantKind: CreativeDelete},
		{name: "create", slot: SlotCreativeCreateItem, wantKind: CreativeCreate},
		{name: "unknown", slot: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPlayer(t, model.GameModeCreative, 0)
			rec := ActionRecord{SourceType: SourceCreative, InventorySlot: tt.slot, OldItem: model.Air, NewItem: emerald}

			action, err := newTestInterpreter().Resolve(rec, p)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnexpectedCreativeActionType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, &CreativeAction{Old: model.Air, New: emerald, Kind: tt.wantKind}, action)
		})
	}
}

func TestResolve_UnknownSourceType(t *testing.T) {
	p := newTestPlayer(t, model.GameModeSurvival, 0)
	rec := ActionRecord{SourceType: SourceType(99999), OldItem: model.Air, NewItem: dirtStack}

	action, err := newTestInterpreter().Resolve(rec, p)
	require.ErrorIs(t, err, ErrUnknownSourceType)
	assert.Nil(t, action)
}

func TestResolve_CraftingFakeWindows(t *testing.T) {
	for _, fw := range []FakeWindow{
		FakeWindowCraftingAddIngredient,
		FakeWindowCraftingRemoveIngredient,
		FakeWindowContainerDropContents,
	} {
		t.Run(fw.String(), func(t *testing.T) {
			p := newTestPlayer(t, model.GameModeSurvival, 0)

			action, err := newTestInterpreter().Resolve(fakeWindowRecord(fw, 3, model.Air, dirtSingle), p)
			require.NoError(t, err)

			sc := requireSlotChange(t, action)
			assert.Equal(t, p.CraftingGrid(), sc.Window)
			assert.Equal(t, 3, sc.Slot)
		})
	}

	for _, fw := range []FakeWindow{FakeWindowCraftingResult, FakeWindowCraftingUseIngredient} {
		t.Run(fw.String(), func(t *testing.T) {
			p := newTestPlayer(t, model.GameModeSurvival, 0)

			action, err := newTestInterpreter().Resolve(fakeWindowRecord(fw, 0, model.Air, dirtSingle), p)
			require.NoError(t, err)
			assert.Nil(t, action)
		})
	}
}

func TestResolve_UnhandledFakeWindow(t *testing.T) {
	for _, fw := range []FakeWindow{
		FakeWindowTradingInput1,
		FakeWindowTradingInput2,
		FakeWindowTradingUseInputs,
		FakeWindowTradingOutput,
		FakeWindow(-99),
	} {
		t.Run(fw.String(), func(t *testing.T) {
			p := newTestPlayer(t, model.GameModeSurvival, 0)

			action, err := newTestInterpreter().Resolve(fakeWindowRecord(fw, 0, emerald, model.Air), p)
			require.ErrorIs(t, err, ErrUnhandledFakeWindow)
			require.ErrorIs(t, err, ErrNoOpenContainer)
			assert.Nil(t, action)

			var uerr *UnhandledFakeWindowError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, fw, uerr.Window)
		})
	}
}

func TestResolve_MissingClientWindow(t *testing.T) {
	for _, fw := range []FakeWindow{
		FakeWindowEnchantInput, FakeWindowEnchantMaterial, FakeWindowEnchantOutput,
		FakeWindowBeacon,
		FakeWindowAnvilInput, FakeWindowAnvilMaterial, FakeWindowAnvilResult, FakeWindowAnvilOutput,
	} {
		t.Run(fw.String(), func(t *testing.T) {
			p := newTestPlayer(t, model.GameModeSurvival, 30)

			action, err := newTestInterpreter().Resolve(fakeWindowRecord(fw, 0, repaired, model.Air), p)
			require.NoError(t, err)
			assert.Nil(t, action)
			assert.Equal(t, 30, p.XPLevel())
		})
	}
}

func TestResolve_ClientWindowWrongKind(t *testing.T) {
	ids := DefaultWindowIDs()
	p := newTestPlayer(t, model.GameModeSurvival, 0)
	// a chest registered under the anvil id is not an anvil
	p.OpenWindow(model.NewInventory(ids.Anvil, model.WindowKindContainer, 27))

	action, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowAnvilInput, 0, sword, model.Air), p)
	require.NoError(t, err)
	assert.Nil(t, action)
}

func TestResolve_Enchant(t *testing.T) {
	ids := DefaultWindowIDs()

	t.Run("input resyncs loosely equal item", func(t *testing.T) {
		p := newTestPlayer(t, model.GameModeSurvival, 0)
		table := model.NewEnchantInventory(ids.Enchant)
		p.OpenWindow(table)
		table.SetItem(0, sword, false)

		enchanted := sword.WithTag("ench", 1)
		action, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowEnchantInput, 77, sword, enchanted), p)
		require.NoError(t, err)

		sc := requireSlotChange(t, action)
		assert.Same(t, table, sc.Window)
		assert.Equal(t, 0, sc.Slot)
		assert.Equal(t, enchanted, table.Item(0))
	})

	t.Run("input leaves different item alone", func(t *testing.T) {
		p := newTestPlayer(t, model.GameModeSurvival, 0)
		table := model.NewEnchantInventory(ids.Enchant)
		p.OpenWindow(table)
		table.SetItem(0, emerald, false)

		_, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowEnchantInput, 77, sword, sword.WithTag("ench", 1)), p)
		require.NoError(t, err)
		assert.Equal(t, emerald, table.Item(0))
	})

	t.Run("material pushes old item into slot 1", func(t *testing.T) {
		p := newTestPlayer(t, model.GameModeSurvival, 0)
		table := model.NewEnchantInventory(ids.Enchant)
		p.OpenWindow(table)

		spent := lapis.WithCount(1)
		action, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowEnchantMaterial, 77, lapis, spent), p)
		require.NoError(t, err)

		sc := requireSlotChange(t, action)
		assert.Equal(t, 1, sc.Slot)
		assert.Equal(t, lapis, table.Item(1))
	})

	t.Run("output", func(t *testing.T) {
		p := newTestPlayer(t, model.GameModeSurvival, 0)
		table := model.NewEnchantInventory(ids.Enchant)
		p.OpenWindow(table)

		action, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowEnchantOutput, 77, sword, model.Air), p)
		require.NoError(t, err)

		sc := requireSlotChange(t, action)
		assert.Equal(t, 2, sc.Slot)
		assert.Equal(t, []model.Item{model.Air, model.Air, model.Air}, table.Contents())
	})
}

func TestResolve_Beacon(t *testing.T) {
	ids := DefaultWindowIDs()
	p := newTestPlayer(t, model.GameModeSurvival, 0)
	beacon := model.NewBeaconInventory(ids.Beacon)
	p.OpenWindow(beacon)

	action, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowBeacon, 27, emerald, model.Air), p)
	require.NoError(t, err)

	sc := requireSlotChange(t, action)
	assert.Same(t, beacon, sc.Window)
	assert.Equal(t, 0, sc.Slot)
}

func TestResolve_AnvilCanonicalSlots(t *testing.T) {
	ids := DefaultWindowIDs()

	tests := []struct {
		fw       FakeWindow
		wantSlot int
	}{
		{FakeWindowAnvilInput, 0},
		{FakeWindowAnvilMaterial, 1},
		{FakeWindowAnvilOutput, 2},
	}

	for _, tt := range tests {
		t.Run(tt.fw.String(), func(t *testing.T) {
			p := newTestPlayer(t, model.GameModeSurvival, 0)
			anvil := model.NewAnvilInventory(ids.Anvil)
			p.OpenWindow(anvil)

			action, err := newTestInterpreter().Resolve(fakeWindowRecord(tt.fw, 55, sword, model.Air), p)
			require.NoError(t, err)

			sc := requireSlotChange(t, action)
			assert.Same(t, anvil, sc.Window)
			assert.Equal(t, tt.wantSlot, sc.Slot)
			assert.Equal(t, sword, sc.Old)
		})
	}
}

func TestResolve_AnvilOutputRefreshesViewers(t *testing.T) {
	ids := DefaultWindowIDs()
	p := newTestPlayer(t, model.GameModeSurvival, 0)
	anvil := model.NewAnvilInventory(ids.Anvil)
	p.OpenWindow(anvil)
	anvil.SetItem(2, repaired, false)

	_, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowAnvilOutput, 2, repaired, model.Air), p)
	require.NoError(t, err)

	assert.Equal(t, []model.SlotUpdate{{WindowID: ids.Anvil, Slot: 2, Item: repaired}}, p.DrainSlotUpdates())
	assert.Equal(t, repaired, anvil.Item(2), "output refresh must not mutate the slot")
}

func TestResolve_AnvilResult(t *testing.T) {
	ids := DefaultWindowIDs()

	setup := func(t *testing.T, mode model.GameMode, xp int, material model.Item) (*model.Player, *model.Inventory) {
		t.Helper()
		p := newTestPlayer(t, mode, xp)
		anvil := model.NewAnvilInventory(ids.Anvil)
		p.OpenWindow(anvil)
		anvil.SetItem(0, sword, false)
		anvil.SetItem(1, material, false)
		return p, anvil
	}

	t.Run("insufficient levels suppress the action", func(t *testing.T) {
		p, anvil := setup(t, model.GameModeSurvival, 2, ironIngot)
		before := anvil.Contents()

		action, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowAnvilResult, 2, repaired, model.Air), p)
		require.NoError(t, err)
		assert.Nil(t, action)

		assert.Equal(t, 2, p.XPLevel())
		assert.Equal(t, before, anvil.Contents())
		assert.Empty(t, p.DrainSlotUpdates())
	})

	t.Run("enough levels apply the repair", func(t *testing.T) {
		p, anvil := setup(t, model.GameModeSurvival, 5, ironIngot)

		action, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowAnvilResult, 9, repaired, model.Air), p)
		require.NoError(t, err)

		sc := requireSlotChange(t, action)
		assert.Same(t, anvil, sc.Window)
		assert.Equal(t, 2, sc.Slot)
		assert.Equal(t, repaired, sc.Old)
		assert.Equal(t, model.Air, sc.New)

		assert.Equal(t, model.Air, anvil.Item(0))
		assert.Equal(t, ironIngot.WithCount(3), anvil.Item(1))
		assert.Equal(t, repaired, anvil.Item(2))
		assert.Equal(t, 2, p.XPLevel())
	})

	t.Run("empty material slot untouched", func(t *testing.T) {
		p, anvil := setup(t, model.GameModeSurvival, 5, model.Air)

		_, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowAnvilResult, 2, repaired, model.Air), p)
		require.NoError(t, err)

		assert.Equal(t, model.Air, anvil.Item(1))
		assert.Equal(t, 2, p.XPLevel())
	})

	t.Run("last material item empties the slot", func(t *testing.T) {
		p, anvil := setup(t, model.GameModeSurvival, 5, ironIngot.WithCount(1))

		_, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowAnvilResult, 2, repaired, model.Air), p)
		require.NoError(t, err)

		assert.True(t, anvil.Item(1).IsNull())
	})

	t.Run("result slot written silently", func(t *testing.T) {
		p, _ := setup(t, model.GameModeSurvival, 5, ironIngot)

		_, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowAnvilResult, 2, repaired, model.Air), p)
		require.NoError(t, err)

		// slot 0 clear and slot 1 decrement notify; slot 2 must not
		for _, u := range p.DrainSlotUpdates() {
			assert.NotEqual(t, 2, u.Slot)
		}
	})

	t.Run("missing repair cost tag defaults to one level", func(t *testing.T) {
		p, _ := setup(t, model.GameModeSurvival, 1, ironIngot)

		action, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowAnvilResult, 2, sword.WithCount(1).WithTag("other", 1), model.Air), p)
		require.NoError(t, err)
		require.NotNil(t, action)
		assert.Equal(t, 0, p.XPLevel())
	})

	t.Run("negative repair cost suppresses the action", func(t *testing.T) {
		p, anvil := setup(t, model.GameModeSurvival, 2, ironIngot)
		before := anvil.Contents()

		forged := sword.WithTag(model.TagRepairCost, -1000)
		action, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowAnvilResult, 2, forged, model.Air), p)
		require.NoError(t, err)
		assert.Nil(t, action)

		assert.Equal(t, 2, p.XPLevel())
		assert.Equal(t, before, anvil.Contents())
	})

	t.Run("zero repair cost is free", func(t *testing.T) {
		p, _ := setup(t, model.GameModeSurvival, 2, ironIngot)

		action, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowAnvilResult, 2, sword.WithTag(model.TagRepairCost, 0), model.Air), p)
		require.NoError(t, err)
		requireSlotChange(t, action)
		assert.Equal(t, 2, p.XPLevel())
	})

	t.Run("creative mode pays nothing", func(t *testing.T) {
		p, anvil := setup(t, model.GameModeCreative, 0, ironIngot)

		action, err := newTestInterpreter().Resolve(fakeWindowRecord(FakeWindowAnvilResult, 2, repaired, model.Air), p)
		require.NoError(t, err)
		requireSlotChange(t, action)

		assert.Equal(t, 0, p.XPLevel())
		assert.Equal(t, model.Air, anvil.Item(0))
	})
}

func TestResolve_RecordNotMutated(t *testing.T) {
	ids := DefaultWindowIDs()
	p := newTestPlayer(t, model.GameModeSurvival, 0)
	p.OpenWindow(model.NewAnvilInventory(ids.Anvil))

	rec := fakeWindowRecord(FakeWindowAnvilInput, 55, sword, model.Air)
	_, err := newTestInterpreter().Resolve(rec, p)
	require.NoError(t, err)

	assert.Equal(t, uint32(55), rec.InventorySlot)
}
