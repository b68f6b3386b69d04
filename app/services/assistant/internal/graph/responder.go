package graph

import (
	"context"
	"fmt"
	"strings"

	"ShopAssistant/app/services/assistant/internal/intent"
	"ShopAssistant/app/services/assistant/internal/oracle"
	"ShopAssistant/app/services/assistant/internal/state"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	HiccupReply = "Sorry, I hit a technical hiccup on my side. I can:\n" +
		"1. Keep looking for something new\n" +
		"2. Show your cart\n" +
		"3. Try that last request again"

	supportReply = "I'm really sorry about that. I've flagged this for our support team, " +
		"and you can reach them directly at support@shop.example. Meanwhile I can:\n" +
		"1. Show your cart\n" +
		"2. Help you find something else"
)

type answerRequest struct {
	Message  string
	Stage    state.Stage
	Criteria state.Criteria
	Shown    []state.Product
	Cart     int
}

// Responder answers off-topic and product questions. It never touches the cart.
type Responder struct {
	text *oracle.Text[answerRequest]
}

func NewResponder(ctx context.Context, chatModel model.BaseChatModel, opts ...oracle.Option) (*Responder, error) {
	t, err := oracle.NewText[answerRequest](ctx, "general_answer", chatModel, answerPrompt, opts...)
	if err != nil {
		return nil, err
	}
	return &Responder{text: t}, nil
}

func (r *Responder) Respond(ctx context.Context, msg string, s *state.Session, cls intent.Classification) string {
	switch {
	case cls.Primary == state.IntentComplaint:
		return supportReply
	case cls.SystemError:
		return HiccupReply
	}

	var t *oracle.Text[answerRequest]
	if r != nil {
		t = r.text
	}
	var res oracle.Result[string]
	text, err := t.Call(ctx, answerRequest{
		Message:  msg,
		Stage:    s.ConversationStage,
		Criteria: s.SearchCriteria,
		Shown:    s.ProductsShown,
		Cart:     len(s.SelectedProducts),
	})
	if err == nil {
		res = oracle.OK(text, t.Name())
	} else {
		res = oracle.Fallback(fallbackAnswer(s), "template", err)
	}
	oracle.Report(ctx, string(state.StepGeneralResponder), res)
	return res.Value
}

func fallbackAnswer(s *state.Session) string {
	if len(s.ProductsShown) > 0 {
		return "Good question! I don't have more detail than what's in the listing, but the item link has the full description. " +
			"You can add any item by its number, like \"#1\", or ask me to search for something else."
	}
	opts := []string{"1. Find clothing by type, color, size or budget"}
	if len(s.SelectedProducts) > 0 {
		opts = append(opts, "2. Show or change your cart", "3. Check out")
	} else {
		opts = append(opts, "2. Suggest outfits for an occasion", "3. Compare prices across stores")
	}
	return "I'm your shopping assistant. I can:\n" + strings.Join(opts, "\n")
}

func answerPrompt(_ context.Context, in answerRequest) ([]*schema.Message, error) {
	system := `You are a friendly clothing shopping assistant. Answer the shopper briefly and helpfully.
Never claim to have changed their cart. End by offering one concrete next step.`

	var sb strings.Builder
	fmt.Fprintf(&sb, "Stage: %s. Looking for: %s. Items in cart: %d.\n", in.Stage, in.Criteria.Describe(), in.Cart)
	if len(in.Shown) > 0 {
		sb.WriteString("Products on screen:\n")
		for i, p := range in.Shown {
			fmt.Fprintf(&sb, "%d. %s %s (%s)\n", i+1, p.Name, p.Price, p.StoreName)
		}
	}
	fmt.Fprintf(&sb, "Shopper says: %s", in.Message)
	return []*schema.Message{schema.SystemMessage(system), schema.UserMessage(sb.String())}, nil
}
