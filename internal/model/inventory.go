package model

import (
	"sync"
)

// WindowKind identifies what a window is, independent of its protocol window id.
type WindowKind int32

const (
	WindowKindContainer WindowKind = iota
	WindowKindCrafting
	WindowKindAnvil
	WindowKindEnchant
	WindowKindBeacon
)

// String returns human-readable window kind name.
func (k WindowKind) String() string {
	switch k {
	case WindowKindContainer:
		return "Container"
	case WindowKindCrafting:
		return "Crafting"
	case WindowKindAnvil:
		return "Anvil"
	case WindowKindEnchant:
		return "Enchant"
	case WindowKindBeacon:
		return "Beacon"
	default:
		return "Unknown"
	}
}

// Slot counts of the client-side windows.
const (
	AnvilSlots   = 3 // input, material, result
	EnchantSlots = 2 // input, lapis
	BeaconSlots  = 1 // payment
)

// Viewer receives slot updates for windows it is looking at.
type Viewer interface {
	SendInventorySlot(windowID int32, slot int, item Item)
}

// SlotListener is called after a notifying slot write.
type SlotListener func(inv *Inventory, slot int, before, after Item)

// Inventory: fixed-size slot container backing a window.
// Slots outside [0, Size) read as Air and ignore writes.
type Inventory struct {
	id    int32
	kind  WindowKind
	slots []Item

	viewers  []Viewer
	listener SlotListener

	mu sync.RWMutex
}

// NewInventory creates an empty window with the given protocol id, kind and slot count.
func NewInventory(id int32, kind WindowKind, size int) *Inventory {
	return &Inventory{
		id:    id,
		kind:  kind,
		slots: make([]Item, size),
	}
}

// NewAnvilInventory creates the server-side mirror of an anvil window.
func NewAnvilInventory(id int32) *Inventory {
	return NewInventory(id, WindowKindAnvil, AnvilSlots)
}

// NewEnchantInventory creates the server-side mirror of an enchanting table window.
// Slot 2 is addressable for the output, so the mirror keeps three slots.
func NewEnchantInventory(id int32) *Inventory {
	return NewInventory(id, WindowKindEnchant, EnchantSlots+1)
}

// NewBeaconInventory creates the server-side mirror of a beacon window.
func NewBeaconInventory(id int32) *Inventory {
	return NewInventory(id, WindowKindBeacon, BeaconSlots)
}

// ID returns the protocol window id.
func (inv *Inventory) ID() int32 {
	return inv.id
}

// Kind returns the window kind.
func (inv *Inventory) Kind() WindowKind {
	return inv.kind
}

// Size returns the slot count.
func (inv *Inventory) Size() int {
	return len(inv.slots)
}

// Item returns the item in slot (Air when empty or out of range).
func (inv *Inventory) Item(slot int) Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	if slot < 0 || slot >= len(inv.slots) {
		return Air
	}
	return inv.slots[slot]
}

// SetItem stores item in slot. With notify the slot listener runs and viewers
// receive the new contents; without it the write is silent.
func (inv *Inventory) SetItem(slot int, item Item, notify bool) {
	if item.IsNull() {
		item = Air
	}

	inv.mu.Lock()
	if slot < 0 || slot >= len(inv.slots) {
		inv.mu.Unlock()
		return
	}
	before := inv.slots[slot]
	inv.slots[slot] = item
	listener := inv.listener
	viewers := inv.viewers
	inv.mu.Unlock()

	if !notify {
		return
	}
	if listener != nil {
		listener(inv, slot, before, item)
	}
	inv.SendSlot(slot, viewers)
}

// Clear empties slot, notifying listener and viewers.
func (inv *Inventory) Clear(slot int) {
	inv.SetItem(slot, Air, true)
}

// SendSlot pushes the current contents of slot to viewers. Does not mutate.
func (inv *Inventory) SendSlot(slot int, viewers []Viewer) {
	item := inv.Item(slot)
	for _, v := range viewers {
		v.SendInventorySlot(inv.id, slot, item)
	}
}

// Viewers returns a snapshot of the players looking at this window.
func (inv *Inventory) Viewers() []Viewer {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return append([]Viewer(nil), inv.viewers...)
}

// AddViewer registers v for slot updates.
func (inv *Inventory) AddViewer(v Viewer) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.viewers = append(inv.viewers, v)
}

// RemoveViewer unregisters v.
func (inv *Inventory) RemoveViewer(v Viewer) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	for i, cur := range inv.viewers {
		if cur == v {
			inv.viewers = append(inv.viewers[:i], inv.viewers[i+1:]...)
			return
		}
	}
}

// SetListener installs the on-set side effect hook (nil removes it).
func (inv *Inventory) SetListener(l SlotListener) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.listener = l
}

// Contents returns a copy of all slots.
func (inv *Inventory) Contents() []Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return append([]Item(nil), inv.slots...)
}
