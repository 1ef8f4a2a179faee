package model

import (
	"fmt"
	"sync"
)

// GameMode of a player.
type GameMode int32

const (
	GameModeSurvival GameMode = iota
	GameModeCreative
	GameModeAdventure
	GameModeSpectator
)

// String returns human-readable game mode name.
func (m GameMode) String() string {
	switch m {
	case GameModeSurvival:
		return "Survival"
	case GameModeCreative:
		return "Creative"
	case GameModeAdventure:
		return "Adventure"
	case GameModeSpectator:
		return "Spectator"
	default:
		return "Unknown"
	}
}

// Window is a slot container registered under a protocol window id.
// *Inventory is the stock implementation.
type Window interface {
	ID() int32
	Kind() WindowKind
	Item(slot int) Item
	SetItem(slot int, item Item, notify bool)
	Clear(slot int)
	SendSlot(slot int, viewers []Viewer)
	Viewers() []Viewer
}

// Grid is a crafting window.
type Grid interface {
	Window
	GridWidth() int
}

// SlotUpdate is a queued outbound InventorySlot packet.
type SlotUpdate struct {
	WindowID int32
	Slot     int
	Item     Item
}

// Player: connected player session state relevant to inventory handling.
type Player struct {
	name     string
	gameMode GameMode
	xpLevel  int

	windows      map[int32]Window // window id → open window
	craftingGrid *CraftingGrid

	outbox []SlotUpdate // slot updates waiting to be flushed to the client

	mu sync.RWMutex
}

// NewPlayer creates a player with a small crafting grid registered under craftingWindowID.
func NewPlayer(name string, mode GameMode, xpLevel int, craftingWindowID int32) (*Player, error) {
	if name == "" {
		return nil, fmt.Errorf("player name cannot be empty")
	}
	if xpLevel < 0 {
		return nil, fmt.Errorf("xp level must be >= 0, got %d", xpLevel)
	}

	return &Player{
		name:         name,
		gameMode:     mode,
		xpLevel:      xpLevel,
		windows:      make(map[int32]Window),
		craftingGrid: NewCraftingGrid(craftingWindowID, GridSizeSmall),
	}, nil
}

// Name returns the player name.
func (p *Player) Name() string {
	return p.name
}

// GameMode returns the current game mode.
func (p *Player) GameMode() GameMode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gameMode
}

// SetGameMode changes the game mode.
func (p *Player) SetGameMode(mode GameMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gameMode = mode
}

// IsSurvival reports whether the player is in survival mode.
func (p *Player) IsSurvival() bool {
	return p.GameMode() == GameModeSurvival
}

// XPLevel returns the experience level.
func (p *Player) XPLevel() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.xpLevel
}

// SubtractXPLevels lowers the experience level by n, clamping at zero.
// Non-positive n is ignored.
func (p *Player) SubtractXPLevels(n int) {
	if n <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.xpLevel = max(p.xpLevel-n, 0)
}

// OpenWindow registers w under its id and subscribes the player to its slot updates.
func (p *Player) OpenWindow(w Window) {
	p.mu.Lock()
	p.windows[w.ID()] = w
	p.mu.Unlock()

	if inv, ok := w.(interface{ AddViewer(Viewer) }); ok {
		inv.AddViewer(p)
	}
}

// CloseWindow removes the window registered under id.
func (p *Player) CloseWindow(id int32) {
	p.mu.Lock()
	w, ok := p.windows[id]
	delete(p.windows, id)
	p.mu.Unlock()

	if !ok {
		return
	}
	if inv, ok := w.(interface{ RemoveViewer(Viewer) }); ok {
		inv.RemoveViewer(p)
	}
}

// Window returns the open window registered under id.
func (p *Player) Window(id int32) (Window, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	w, ok := p.windows[id]
	return w, ok
}

// CraftingGrid returns the player's crafting grid.
func (p *Player) CraftingGrid() Grid {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.craftingGrid == nil {
		return nil
	}
	return p.craftingGrid
}

// SetCraftingGrid replaces the crafting grid (opening or closing a crafting table).
func (p *Player) SetCraftingGrid(g *CraftingGrid) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.craftingGrid = g
}

// SendInventorySlot queues a slot update for the client.
func (p *Player) SendInventorySlot(windowID int32, slot int, item Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outbox = append(p.outbox, SlotUpdate{WindowID: windowID, Slot: slot, Item: item})
}

// DrainSlotUpdates returns and clears queued slot updates.
func (p *Player) DrainSlotUpdates() []SlotUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.outbox
	p.outbox = nil
	return out
}
