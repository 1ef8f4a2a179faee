package model

// Crafting grid widths.
const (
	GridSizeSmall = 2 // player inventory 2x2
	GridSizeBig   = 3 // crafting table 3x3
)

// CraftingGrid: the player's crafting window. The same window object is reused
// for the 2x2 inventory grid and the 3x3 crafting table; only the width changes.
type CraftingGrid struct {
	*Inventory
	width int
}

// NewCraftingGrid creates a crafting grid of the given width (GridSizeSmall or GridSizeBig).
func NewCraftingGrid(id int32, width int) *CraftingGrid {
	return &CraftingGrid{
		Inventory: NewInventory(id, WindowKindCrafting, width*width),
		width:     width,
	}
}

// GridWidth returns the grid width (2 or 3).
func (g *CraftingGrid) GridWidth() int {
	return g.width
}
