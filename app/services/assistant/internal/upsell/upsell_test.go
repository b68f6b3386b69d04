package upsell

import (
	"testing"

	"ShopAssistant/app/services/assistant/internal/state"

	"github.com/stretchr/testify/assert"
)

func TestSuggestComplement(t *testing.T) {
	last := state.CartItem{Product: state.Product{Name: "Black Pullover Hoodie"}}
	s, ok := Suggest(last, "", state.Upsell{})

	assert.True(t, ok)
	assert.Equal(t, "pants", s.Category)
	assert.Equal(t, "grey", s.Color)
	assert.Equal(t, "Want me to find some grey pants to go with your Black Pullover Hoodie?", s.Offer())
	assert.Equal(t, state.Criteria{Category: "pants", ColorPreference: "grey"}, s.Criteria())
}

func TestSuggestUsesCriteriaColor(t *testing.T) {
	s, ok := Suggest(state.CartItem{Product: state.Product{Name: "Slim Jeans"}}, "navy", state.Upsell{})
	assert.True(t, ok)
	assert.Equal(t, "shirts", s.Category)
	assert.Equal(t, "beige", s.Color)
}

func TestNeverAfterDecline(t *testing.T) {
	last := state.CartItem{Product: state.Product{Name: "White Sneakers"}}
	_, ok := Suggest(last, "", state.Upsell{Offered: true, Declined: true})
	assert.False(t, ok)

	_, ok = Suggest(last, "", state.Upsell{Offered: true, Pending: true})
	assert.False(t, ok)

	_, ok = Suggest(state.CartItem{Product: state.Product{Name: "Gift card"}}, "", state.Upsell{})
	assert.False(t, ok)
}

func TestReadAnswer(t *testing.T) {
	assert.Equal(t, AnswerAccept, ReadAnswer("Sure, sounds good"))
	assert.Equal(t, AnswerAccept, ReadAnswer("yes"))
	assert.Equal(t, AnswerDecline, ReadAnswer("no thanks"))
	assert.Equal(t, AnswerDecline, ReadAnswer("Nah, not now"))
	assert.Equal(t, AnswerNone, ReadAnswer("what sizes do those come in"))

	for _, msg := range []string{
		"show me my cart",
		"please remove #1 from my cart",
		"ok, checkout",
		"yes I want the second one",
		"no, remove it",
	} {
		assert.Equal(t, AnswerNone, ReadAnswer(msg), msg)
	}
}
