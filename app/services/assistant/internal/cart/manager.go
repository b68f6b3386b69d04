package cart

import (
	"fmt"
	"strings"
	"time"

	"ShopAssistant/app/services/assistant/internal/state"
)

// Handle runs the session's pending cart operation and returns the update.
// It is the only code that writes SelectedProducts.
func Handle(s *state.Session, now time.Time) state.Update {
	op := s.CartOperation
	if !op.Valid() {
		op = state.CartAdd
	}
	switch op {
	case state.CartRemove:
		return remove(s)
	case state.CartView:
		return view(s)
	case state.CartClear:
		return clearCart(s)
	}
	return add(s, now)
}

func add(s *state.Session, now time.Time) state.Update {
	if len(s.PendingCartAdditions) == 0 {
		return state.Update{
			AwaitingSelection: state.Some(len(s.ProductsShown) > 0),
			CartOperation:     state.Some(state.CartOp("")),
			Reply:             "Which items would you like to add? Tell me the item numbers from the list, like \"#1\" or \"#2 and #3\".",
		}
	}
	items := Add(s.SelectedProducts, s.PendingCartAdditions, now)

	added := make([]string, 0, len(s.PendingCartAdditions))
	for _, p := range s.PendingCartAdditions {
		added = append(added, fmt.Sprintf("%s (size %s)", p.Name, sizeOf(p)))
	}
	reply := fmt.Sprintf("Added %s to your cart. You now have %d item(s), total %s.",
		strings.Join(added, ", "), countOf(items), Money(Total(items)))

	return state.Update{
		SelectedProducts:     state.Some(items),
		PendingCartAdditions: state.Some([]state.CartItem{}),
		CartOperation:        state.Some(state.CartOp("")),
		ConversationStage:    state.Some(state.StageCart),
		AwaitingCartAction:   state.Some(true),
		Reply:                reply,
	}
}

func remove(s *state.Session) state.Update {
	if len(s.SelectedProducts) == 0 || len(s.RemovalIndices) == 0 {
		reply := "Which items should I remove? Tell me their numbers from your cart, like \"remove #1\"."
		if len(s.SelectedProducts) == 0 {
			reply = "Your cart is empty, so there's nothing to remove yet. Which items were you thinking of? I can search for something new."
		}
		return state.Update{
			RemovalIndices: state.Some([]int{}),
			CartOperation:  state.Some(state.CartOp("")),
			Reply:          reply,
		}
	}

	items := Remove(s.SelectedProducts, s.RemovalIndices)
	removed := len(s.SelectedProducts) - len(items)
	u := state.Update{
		SelectedProducts: state.Some(items),
		RemovalIndices:   state.Some([]int{}),
		CartOperation:    state.Some(state.CartOp("")),
	}
	switch {
	case removed == 0:
		u.Reply = fmt.Sprintf("I couldn't find those items. Your cart has %d item(s), numbered 1 to %d.", len(items), len(items))
	case len(items) == 0:
		stage := state.StageDiscovery
		if len(s.ProductsShown) > 0 {
			stage = state.StagePresenting
		}
		u.ConversationStage = state.Some(stage)
		u.AwaitingCartAction = state.Some(false)
		u.Reply = "Removed. Your cart is now empty. Want to keep browsing?"
	default:
		u.ConversationStage = state.Some(state.StageCart)
		u.Reply = fmt.Sprintf("Removed %d item(s). You have %d left, total %s.", removed, countOf(items), Money(Total(items)))
	}
	return u
}

func view(s *state.Session) state.Update {
	u := state.Update{
		CartOperation: state.Some(state.CartOp("")),
		Reply:         Render(Build(s.SelectedProducts)),
	}
	if len(s.SelectedProducts) > 0 {
		u.ConversationStage = state.Some(state.StageCart)
		u.AwaitingCartAction = state.Some(true)
		u.Reply += "\nYou can remove items by number, keep shopping, or check out."
	}
	return u
}

func clearCart(s *state.Session) state.Update {
	return state.Update{
		SelectedProducts:     state.Some([]state.CartItem{}),
		PendingCartAdditions: state.Some([]state.CartItem{}),
		RemovalIndices:       state.Some([]int{}),
		CartOperation:        state.Some(state.CartOp("")),
		ConversationStage:    state.Some(state.StageDiscovery),
		AwaitingCartAction:   state.Some(false),
		Reply:                "Your cart is now empty. What would you like to look for next?",
	}
}

func sizeOf(it state.CartItem) string {
	if it.SelectedSize == "" {
		return state.DefaultSize
	}
	return it.SelectedSize
}

func countOf(items []state.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
