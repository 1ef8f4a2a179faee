package model

import (
	"fmt"
	"maps"
)

// TagRepairCost is the tag key holding the XP level cost of an anvil repair.
const TagRepairCost = "RepairCost"

// DefaultRepairCost is used when an item carries no RepairCost tag.
const DefaultRepairCost = 1

// Item: snapshot of an item stack as the client reports it.
// Value type: copying an Item never aliases slot storage, except for Tag which
// callers must treat as read-only (use WithTag to derive a modified copy).
type Item struct {
	ID    int32            // network item id, 0 = air
	Meta  int16            // damage / variant
	Count int32            // stack size
	Tag   map[string]int32 // auxiliary integer attributes (RepairCost, ...)
}

// Air is the empty item.
var Air = Item{}

// NewItem creates an item stack without tag data.
func NewItem(id int32, meta int16, count int32) Item {
	return Item{ID: id, Meta: meta, Count: count}
}

// IsNull reports whether the item represents an empty slot.
func (i Item) IsNull() bool {
	return i.ID == 0 || i.Count <= 0
}

// Equal reports exact equality: id, meta, count and tag.
func (i Item) Equal(o Item) bool {
	if i.IsNull() && o.IsNull() {
		return true
	}
	return i.ID == o.ID &&
		i.Meta == o.Meta &&
		i.Count == o.Count &&
		tagsEqual(i.Tag, o.Tag)
}

// EqualLoose reports whether both stacks are the same kind of item.
// Count and tag are ignored.
func (i Item) EqualLoose(o Item) bool {
	return i.ID == o.ID && i.Meta == o.Meta
}

// RepairCost returns the anvil repair cost stored on the item.
func (i Item) RepairCost() int {
	if v, ok := i.Tag[TagRepairCost]; ok {
		return int(v)
	}
	return DefaultRepairCost
}

// WithCount returns a copy with the given stack size.
// A non-positive count yields Air.
func (i Item) WithCount(count int32) Item {
	if count <= 0 {
		return Air
	}
	i.Count = count
	return i
}

// WithTag returns a copy with key set to val. The receiver's tag map is not modified.
func (i Item) WithTag(key string, val int32) Item {
	tag := make(map[string]int32, len(i.Tag)+1)
	maps.Copy(tag, i.Tag)
	tag[key] = val
	i.Tag = tag
	return i
}

// String returns a compact human-readable form, e.g. "267:0x1{RepairCost:3}".
func (i Item) String() string {
	if i.IsNull() {
		return "air"
	}
	if len(i.Tag) == 0 {
		return fmt.Sprintf("%d:%dx%d", i.ID, i.Meta, i.Count)
	}
	return fmt.Sprintf("%d:%dx%d%v", i.ID, i.Meta, i.Count, i.Tag)
}

// tagsEqual treats nil and empty tags as equal.
func tagsEqual(a, b map[string]int32) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return maps.Equal(a, b)
}
