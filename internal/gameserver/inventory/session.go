package inventory

import "github.com/udisondev/invtx/internal/model"

// Session is the player state Resolve reads and mutates. *model.Player implements it.
// Callers must not resolve two batches against the same Session concurrently.
type Session interface {
	Name() string
	Window(id int32) (model.Window, bool)
	CraftingGrid() model.Grid
	IsSurvival() bool
	XPLevel() int
	SubtractXPLevels(n int)
}

var _ Session = (*model.Player)(nil)

// WindowIDs are the fixed protocol ids of the pseudo-windows.
type WindowIDs struct {
	UI      int32 // player UI (cursor, crafting grid slots)
	Enchant int32
	Anvil   int32
	Beacon  int32
}

// DefaultWindowIDs returns the ids used by current clients.
func DefaultWindowIDs() WindowIDs {
	return WindowIDs{
		UI:      124,
		Enchant: 3,
		Anvil:   4,
		Beacon:  5,
	}
}
