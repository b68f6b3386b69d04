package cart

import (
	"testing"
	"time"

	"ShopAssistant/app/services/assistant/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func item(name, url, price, store string) state.CartItem {
	return state.NewCartItem(state.Product{Name: name, URL: url, Price: price, StoreName: store}, "", now)
}

func session() *state.Session {
	return state.New("s1", 0, now)
}

func TestAddFromEmptyCart(t *testing.T) {
	s := session()
	s.PendingCartAdditions = []state.CartItem{{Product: state.Product{Name: "Red Hoodie", Price: "$50.00"}}}
	s.CartOperation = state.CartAdd

	s.Apply(Handle(s, now), now)

	require.Len(t, s.SelectedProducts, 1)
	assert.Equal(t, 1, s.SelectedProducts[0].Quantity)
	assert.Equal(t, state.DefaultSize, s.SelectedProducts[0].SelectedSize)
	assert.Equal(t, now, s.SelectedProducts[0].AddedAt)
	assert.Empty(t, s.PendingCartAdditions)
	assert.Equal(t, state.StageCart, s.ConversationStage)
}

func TestAddSameURLTwiceIncrementsQuantity(t *testing.T) {
	a := item("Hoodie", "https://shop/h", "$40", "A")
	cart := Add(nil, []state.CartItem{a}, now)
	cart = Add(cart, []state.CartItem{a}, now)

	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestAddMergesByNameWithoutURL(t *testing.T) {
	cart := Add(nil, []state.CartItem{item("Plain Tee", "", "$10", "A")}, now)
	cart = Add(cart, []state.CartItem{item("Plain Tee", "", "$10", "B"), item("Other Tee", "", "$12", "A")}, now)

	require.Len(t, cart, 2)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, "Other Tee", cart[1].Name)
}

func TestAddWithNothingPendingAsks(t *testing.T) {
	s := session()
	s.CartOperation = state.CartAdd
	u := Handle(s, now)
	assert.False(t, u.TouchesCart())
	assert.Contains(t, u.Reply, "Which items")
}

func TestRemoveOrderIndependent(t *testing.T) {
	cart := []state.CartItem{
		item("a", "u1", "$1", "S"),
		item("b", "u2", "$2", "S"),
		item("c", "u3", "$3", "S"),
	}
	forward := Remove(cart, []int{0, 2})
	backward := Remove(cart, []int{2, 0})

	assert.Equal(t, forward, backward)
	require.Len(t, forward, 1)
	assert.Equal(t, "b", forward[0].Name)
	assert.Len(t, cart, 3, "input must not be modified")
}

func TestRemoveSkipsOutOfRange(t *testing.T) {
	cart := []state.CartItem{item("a", "u1", "$1", "S"), item("b", "u2", "$2", "S")}
	got := Remove(cart, []int{5, -1, 1, 1})
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)
}

func TestRemoveEverythingRevertsStage(t *testing.T) {
	s := session()
	s.SelectedProducts = []state.CartItem{item("a", "u1", "$1", "S"), item("b", "u2", "$2", "S")}
	s.ConversationStage = state.StageCart
	s.CartOperation = state.CartRemove
	s.RemovalIndices = []int{1, 0}

	s.Apply(Handle(s, now), now)

	assert.Empty(t, s.SelectedProducts)
	assert.Equal(t, state.StageDiscovery, s.ConversationStage)

	s.SelectedProducts = []state.CartItem{item("a", "u1", "$1", "S")}
	s.ProductsShown = []state.Product{{Name: "x"}}
	s.CartOperation = state.CartRemove
	s.RemovalIndices = []int{0}
	s.Apply(Handle(s, now), now)
	assert.Equal(t, state.StagePresenting, s.ConversationStage)
}

func TestRemoveOnEmptyCartAsksWithoutMutation(t *testing.T) {
	s := session()
	s.CartOperation = state.CartRemove
	before := s.Clone()

	u := Handle(s, now)

	assert.False(t, u.TouchesCart())
	assert.False(t, u.PendingCartAdditions.Set)
	assert.False(t, u.ConversationStage.Set)
	assert.Contains(t, u.Reply, "Which items")
	assert.Equal(t, before, s)

	s.RemovalIndices = []int{0}
	s.Apply(Handle(s, now), now)
	assert.Empty(t, s.SelectedProducts)
	assert.Equal(t, state.CartOp(""), s.CartOperation)
	assert.Empty(t, s.RemovalIndices)
}

func TestViewIsReadOnlyAndGrouped(t *testing.T) {
	s := session()
	s.SelectedProducts = []state.CartItem{
		item("Hoodie", "u1", "$45.50", "North"),
		item("Tee", "u2", "USD 10", "South"),
		item("Cap", "u3", "Price: 12.25 (was 20)", "North"),
	}
	s.SelectedProducts[1].Quantity = 2
	s.CartOperation = state.CartView

	u := Handle(s, now)
	assert.False(t, u.TouchesCart())
	assert.Contains(t, u.Reply, "Total: $77.75")

	v := Build(s.SelectedProducts)
	require.Len(t, v.Groups, 2)
	assert.Equal(t, "North", v.Groups[0].Store)
	assert.Equal(t, []int{1, 3}, []int{v.Groups[0].Lines[0].Position, v.Groups[0].Lines[1].Position})
	assert.InDelta(t, 57.75, v.Groups[0].Subtotal, 1e-9)
	assert.Equal(t, 4, v.Count)
	assert.InDelta(t, 77.75, v.Total, 1e-9)
}

func TestClear(t *testing.T) {
	s := session()
	s.SelectedProducts = []state.CartItem{item("a", "u1", "$1", "S")}
	s.CartOperation = state.CartClear
	s.ConversationStage = state.StageCart

	s.Apply(Handle(s, now), now)
	assert.Empty(t, s.SelectedProducts)
	assert.Equal(t, state.StageDiscovery, s.ConversationStage)
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 50.0, ParsePrice("$50.00"))
	assert.Equal(t, 1234.5, ParsePrice("$1,234.50"))
	assert.Equal(t, 0.0, ParsePrice("call for price"))
	assert.Equal(t, 19.99, ParsePrice("Now 19.99, was 29.99"))
}
