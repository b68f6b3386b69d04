package upsell

import (
	"fmt"

	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/vocab"
)

// complements pairs a category with the one most often bought alongside it.
var complements = map[string]string{
	"shirts":      "pants",
	"hoodies":     "pants",
	"pants":       "shirts",
	"shorts":      "shirts",
	"shoes":       "accessories",
	"jackets":     "pants",
	"dresses":     "shoes",
	"accessories": "shirts",
}

// colorComplements is a fixed palette lookup: what goes well with a given color.
var colorComplements = map[string]string{
	"black":    "grey",
	"white":    "navy",
	"grey":     "black",
	"navy":     "beige",
	"blue":     "white",
	"beige":    "navy",
	"brown":    "cream",
	"cream":    "brown",
	"red":      "black",
	"green":    "beige",
	"olive":    "black",
	"khaki":    "white",
	"pink":     "grey",
	"purple":   "grey",
	"yellow":   "navy",
	"orange":   "navy",
	"burgundy": "grey",
	"tan":      "white",
}

type Suggestion struct {
	Category string
	Color    string
	BaseItem string
}

// Suggest proposes a complementary item for the most recently added cart
// entry. It never suggests after a decline or while an offer is pending.
func Suggest(last state.CartItem, fallbackColor string, current state.Upsell) (Suggestion, bool) {
	if current.Declined || current.Pending {
		return Suggestion{}, false
	}
	cat := vocab.Category(last.Name)
	comp, ok := complements[cat]
	if !ok {
		return Suggestion{}, false
	}
	color := vocab.Color(last.Name)
	if color == "" {
		color = fallbackColor
	}
	return Suggestion{
		Category: comp,
		Color:    colorComplements[color],
		BaseItem: last.Name,
	}, true
}

func (s Suggestion) Offer() string {
	target := s.Category
	if s.Color != "" {
		target = s.Color + " " + s.Category
	}
	return fmt.Sprintf("Want me to find some %s to go with your %s?", target, s.BaseItem)
}

// Criteria seeds a search for the suggestion.
func (s Suggestion) Criteria() state.Criteria {
	return state.Criteria{Category: s.Category, ColorPreference: s.Color}
}

// State is the upsell record after making the offer.
func (s Suggestion) State() state.Upsell {
	return state.Upsell{
		Offered:  true,
		Pending:  true,
		Category: s.Category,
		Color:    s.Color,
		BaseItem: s.BaseItem,
	}
}

type Answer int

const (
	AnswerNone Answer = iota
	AnswerAccept
	AnswerDecline
)

// ReadAnswer interprets the reply to a pending offer. Declines win over accepts.
// A reply that is really about the cart, checkout or the shown products is
// not an answer and goes through normal classification.
func ReadAnswer(msg string) Answer {
	switch {
	case otherRequest(msg):
		return AnswerNone
	case vocab.ContainsAny(msg, vocab.Decline):
		return AnswerDecline
	case vocab.ContainsAny(msg, vocab.Accept):
		return AnswerAccept
	}
	return AnswerNone
}

func otherRequest(msg string) bool {
	return vocab.ContainsAny(msg, vocab.CartWords) ||
		vocab.ContainsAny(msg, vocab.CartRemove) ||
		vocab.ContainsAny(msg, vocab.Checkout) ||
		vocab.ContainsAny(msg, vocab.SelectionVerbs) ||
		vocab.HasIndexMarker(msg)
}

// Pending returns the suggestion stored in u.
func Pending(u state.Upsell) Suggestion {
	return Suggestion{Category: u.Category, Color: u.Color, BaseItem: u.BaseItem}
}
