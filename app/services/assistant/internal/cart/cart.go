package cart

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"ShopAssistant/app/services/assistant/internal/state"
)

var firstNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParsePrice reads the first decimal number in a display price. Unparseable prices count as zero.
func ParsePrice(price string) float64 {
	m := firstNumber.FindString(strings.ReplaceAll(price, ",", ""))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// Add merges pending into items. An entry with the same key gains quantity
// instead of being duplicated.
func Add(items, pending []state.CartItem, now time.Time) []state.CartItem {
	out := append([]state.CartItem{}, items...)
	index := make(map[string]int, len(out))
	for i, it := range out {
		index[it.Key()] = i
	}
	for _, p := range pending {
		qty := p.Quantity
		if qty < 1 {
			qty = 1
		}
		if i, ok := index[p.Key()]; ok {
			out[i].Quantity += qty
			continue
		}
		if p.SelectedSize == "" {
			p.SelectedSize = state.DefaultSize
		}
		p.Quantity = qty
		if p.AddedAt.IsZero() {
			p.AddedAt = now
		}
		index[p.Key()] = len(out)
		out = append(out, p)
	}
	return out
}

// Remove drops the given positions, highest first. Out-of-range positions are skipped.
func Remove(items []state.CartItem, indices []int) []state.CartItem {
	out := append([]state.CartItem{}, items...)
	uniq := make(map[int]bool, len(indices))
	order := make([]int, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(out) || uniq[i] {
			continue
		}
		uniq[i] = true
		order = append(order, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(order)))
	for _, i := range order {
		out = append(out[:i], out[i+1:]...)
	}
	return out
}

// Total sums price times quantity.
func Total(items []state.CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += ParsePrice(it.Price) * float64(it.Quantity)
	}
	return sum
}

type Line struct {
	Position int            `json:"position"`
	Item     state.CartItem `json:"item"`
	Subtotal float64        `json:"subtotal"`
}

type StoreGroup struct {
	Store    string  `json:"store"`
	Lines    []Line  `json:"lines"`
	Subtotal float64 `json:"subtotal"`
}

type View struct {
	Groups []StoreGroup `json:"groups"`
	Count  int          `json:"count"`
	Total  float64      `json:"total"`
}

// Build groups the cart by store in first-seen order. Positions are 1-based as shown to the user.
func Build(items []state.CartItem) View {
	v := View{Groups: []StoreGroup{}}
	byStore := map[string]int{}
	for i, it := range items {
		store := it.StoreName
		if store == "" {
			store = "Other"
		}
		g, ok := byStore[store]
		if !ok {
			g = len(v.Groups)
			byStore[store] = g
			v.Groups = append(v.Groups, StoreGroup{Store: store})
		}
		sub := ParsePrice(it.Price) * float64(it.Quantity)
		v.Groups[g].Lines = append(v.Groups[g].Lines, Line{Position: i + 1, Item: it, Subtotal: sub})
		v.Groups[g].Subtotal += sub
		v.Count += it.Quantity
	}
	v.Total = Total(items)
	return v
}
