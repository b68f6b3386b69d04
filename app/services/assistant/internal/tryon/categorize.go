package tryon

import (
	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/vocab"
)

type Slot string

const (
	SlotTop         Slot = "top"
	SlotBottom      Slot = "bottom"
	SlotShoes       Slot = "shoes"
	SlotAccessories Slot = "accessories"
)

// Slots is the order pieces are layered in.
var Slots = []Slot{SlotTop, SlotBottom, SlotShoes, SlotAccessories}

var categorySlots = map[string]Slot{
	"shirts":      SlotTop,
	"hoodies":     SlotTop,
	"jackets":     SlotTop,
	"dresses":     SlotTop,
	"pants":       SlotBottom,
	"shorts":      SlotBottom,
	"shoes":       SlotShoes,
	"accessories": SlotAccessories,
}

// Categorize maps an item name onto a slot by keyword.
func Categorize(name string) (Slot, bool) {
	slot, ok := categorySlots[vocab.Category(name)]
	return slot, ok
}

type Pick struct {
	Slot Slot
	Item state.CartItem
}

// Representatives picks the first cart item for each slot. Items that fit no slot are skipped.
func Representatives(items []state.CartItem) []Pick {
	first := make(map[Slot]state.CartItem, len(Slots))
	for _, it := range items {
		slot, ok := Categorize(it.Name)
		if !ok {
			continue
		}
		if _, taken := first[slot]; !taken {
			first[slot] = it
		}
	}
	out := make([]Pick, 0, len(first))
	for _, slot := range Slots {
		if it, ok := first[slot]; ok {
			out = append(out, Pick{Slot: slot, Item: it})
		}
	}
	return out
}
