package inventory

import (
	"fmt"

	"github.com/udisondev/invtx/internal/model"
)

// ActionType classifies a resolved Action.
type ActionType int16

const (
	ActionTypeSlotChange ActionType = iota + 1
	ActionTypeDropItem
	ActionTypeCreative
)

// String returns human-readable action type name.
func (t ActionType) String() string {
	switch t {
	case ActionTypeSlotChange:
		return "SlotChange"
	case ActionTypeDropItem:
		return "DropItem"
	case ActionTypeCreative:
		return "Creative"
	default:
		return "Unknown"
	}
}

// Action is a resolved inventory mutation: *SlotChange, *DropItem or *CreativeAction.
// A nil Action from Resolve means the record carries nothing to apply.
type Action interface {
	Type() ActionType
	fmt.Stringer
}

// SlotChange: the contents of Slot in Window go from Old to New.
type SlotChange struct {
	Window model.Window
	Slot   int
	Old    model.Item
	New    model.Item
}

// Type implements Action.
func (*SlotChange) Type() ActionType { return ActionTypeSlotChange }

func (a *SlotChange) String() string {
	return fmt.Sprintf("SlotChange{window=%d(%s) slot=%d %s -> %s}", a.Window.ID(), a.Window.Kind(), a.Slot, a.Old, a.New)
}

// DropItem: the player throws Item into the world.
type DropItem struct {
	Item model.Item
}

// Type implements Action.
func (*DropItem) Type() ActionType { return ActionTypeDropItem }

func (a *DropItem) String() string {
	return fmt.Sprintf("DropItem{%s}", a.Item)
}

// CreativeKind is the creative inventory sub-action.
type CreativeKind int16

const (
	CreativeDelete CreativeKind = iota
	CreativeCreate
)

// String returns human-readable creative kind name.
func (k CreativeKind) String() string {
	switch k {
	case CreativeDelete:
		return "Delete"
	case CreativeCreate:
		return "Create"
	default:
		return "Unknown"
	}
}

// CreativeAction: an item taken from (Create) or thrown into (Delete) the creative inventory.
type CreativeAction struct {
	Old  model.Item
	New  model.Item
	Kind CreativeKind
}

// Type implements Action.
func (*CreativeAction) Type() ActionType { return ActionTypeCreative }

func (a *CreativeAction) String() string {
	return fmt.Sprintf("CreativeAction{%s %s -> %s}", a.Kind, a.Old, a.New)
}
