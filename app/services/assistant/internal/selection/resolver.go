package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ShopAssistant/app/services/assistant/internal/oracle"
	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/vocab"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const nodeName = string(state.StepSelectionHandler)

type resolveRequest struct {
	Message string
	Shown   []state.Product
}

type resolveAnswer struct {
	Indices []int `json:"indices"`
}

type Resolver struct {
	resolve *oracle.JSON[resolveRequest, resolveAnswer]
}

func NewResolver(ctx context.Context, chatModel model.BaseChatModel, opts ...oracle.Option) (*Resolver, error) {
	o, err := oracle.NewJSON[resolveRequest, resolveAnswer](ctx, "selection", chatModel, resolvePrompt, opts...)
	if err != nil {
		return nil, err
	}
	return &Resolver{resolve: o}, nil
}

// Resolve maps the user's references onto 0-based indices into shown.
// The result is bounds-checked, deduplicated and in mention order.
func (r *Resolver) Resolve(ctx context.Context, msg string, shown []state.Product) oracle.Result[[]int] {
	if len(shown) == 0 {
		return oracle.OK([]int{}, "empty")
	}
	var o *oracle.JSON[resolveRequest, resolveAnswer]
	if r != nil {
		o = r.resolve
	}

	var res oracle.Result[[]int]
	ans, err := o.Call(ctx, resolveRequest{Message: msg, Shown: shown})
	if err == nil {
		if valid := Validate(ans.Indices, len(shown)); len(valid) > 0 {
			res = oracle.OK(valid, o.Name())
		} else {
			err = errors.New("no usable indices")
		}
	}
	if err != nil {
		if idx := Validate(vocab.Indices(msg, len(shown)), len(shown)); len(idx) > 0 {
			res = oracle.Fallback(idx, "regex", err)
		} else {
			res = oracle.Failed[[]int](fmt.Errorf("no reference resolved: %w", err))
		}
	}
	oracle.Report(ctx, nodeName, res)
	return res
}

// Validate drops out-of-range and repeated indices, keeping first-mention order.
func Validate(indices []int, n int) []int {
	seen := make(map[int]bool, len(indices))
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= n || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	return out
}

// Stage copies the chosen products into cart items ready for the cart manager.
func Stage(shown []state.Product, indices []int, size string, now time.Time) []state.CartItem {
	out := make([]state.CartItem, 0, len(indices))
	for _, i := range Validate(indices, len(shown)) {
		out = append(out, state.NewCartItem(shown[i], size, now))
	}
	return out
}

// Instructions is the reply when nothing could be resolved.
func Instructions(n int) string {
	if n == 0 {
		return "There's nothing to pick from yet. Tell me what you're looking for and I'll find some options."
	}
	return "I couldn't tell which item you meant. Reply with the item number, like \"#2\" or \"#1 and #3\", " +
		"or describe it, like \"the black one\". You can also ask me about any of them."
}

func resolvePrompt(_ context.Context, in resolveRequest) ([]*schema.Message, error) {
	type line struct {
		Index int    `json:"index"`
		Name  string `json:"name"`
		Price string `json:"price"`
		Store string `json:"store"`
	}
	lines := make([]line, 0, len(in.Shown))
	for i, p := range in.Shown {
		lines = append(lines, line{Index: i, Name: p.Name, Price: p.Price, Store: p.StoreName})
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return nil, err
	}
	system := `The shopper is choosing from a numbered product list shown to them as 1, 2, 3...
Resolve numbers, ordinal words and descriptions ("the red one") into 0-based indices of the list below.
Return JSON {"indices":[...]} in the order mentioned. Return an empty list if nothing is referenced.`
	var user strings.Builder
	user.WriteString("Products: ")
	user.Write(payload)
	user.WriteString("\nMessage: ")
	user.WriteString(in.Message)
	return []*schema.Message{schema.SystemMessage(system), schema.UserMessage(user.String())}, nil
}
