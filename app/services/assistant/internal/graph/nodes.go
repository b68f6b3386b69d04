package graph

import (
	"context"
	"fmt"
	"strings"

	"ShopAssistant/app/services/assistant/internal/cart"
	"ShopAssistant/app/services/assistant/internal/clarify"
	"ShopAssistant/app/services/assistant/internal/intent"
	"ShopAssistant/app/services/assistant/internal/mq"
	"ShopAssistant/app/services/assistant/internal/needs"
	"ShopAssistant/app/services/assistant/internal/search"
	"ShopAssistant/app/services/assistant/internal/selection"
	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/upsell"
	"ShopAssistant/app/services/assistant/internal/vocab"

	"github.com/zeromicro/go-zero/core/logx"
)

const DefaultDisplayLimit = 12

type CheckoutPublisher interface {
	PublishCheckout(ctx context.Context, evt mq.CheckoutEvent) error
}

// Nodes holds the collaborators of every graph node. Nil collaborators fall
// back to their rule-based behaviour.
type Nodes struct {
	Classifier   *intent.Classifier
	Analyzer     *needs.Analyzer
	Asker        *clarify.Asker
	Search       *search.Pipeline
	Relevance    *search.RelevanceFilter
	Resolver     *selection.Resolver
	Responder    *Responder
	Publisher    CheckoutPublisher
	DisplayLimit int
}

type nodeFunc func(ctx context.Context, t *Turn) state.Update

func (n *Nodes) classify(ctx context.Context, t *Turn) state.Update {
	s := t.Session
	if s.Upsell.Pending {
		if u, ok := n.answerUpsell(t); ok {
			return u
		}
	}

	cls := n.Classifier.Classify(ctx, t.Input, intent.ContextOf(s))
	t.Classification = cls

	sc := make(map[string]string, len(s.SessionContext)+2)
	for k, v := range s.SessionContext {
		sc[k] = v
	}
	if cls.Urgency != "" {
		sc[state.CtxUrgency] = string(cls.Urgency)
	}
	if cls.Sentiment != "" {
		sc[state.CtxSentiment] = string(cls.Sentiment)
	}

	u := state.Update{
		CurrentIntent:  state.Some(cls.Primary),
		RecentIntents:  state.Some(s.PushIntent(cls.Primary)),
		NextStep:       state.Some(cls.NextAction),
		SessionContext: state.Some(sc),
	}
	if s.Upsell.Pending {
		// an unanswered offer lapses, but may be made again later
		up := s.Upsell
		up.Pending = false
		u.Upsell = state.Some(up)
	}
	if cls.Primary == state.IntentCart {
		u.CartOperation = state.Some(cls.Entities.CartOperation)
		u.RemovalIndices = state.Some(cls.Entities.RemovalIndices)
	}
	return u
}

func (n *Nodes) answerUpsell(t *Turn) (state.Update, bool) {
	s := t.Session
	up := s.Upsell
	up.Pending = false

	switch upsell.ReadAnswer(t.Input) {
	case upsell.AnswerAccept:
		// the seeded criteria already name a category, so go straight to search
		sugg := upsell.Pending(s.Upsell)
		t.Classification = intent.Classification{Primary: state.IntentSearch, Confidence: 1, Source: "upsell"}
		return state.Update{
			Upsell:            state.Some(up),
			SearchCriteria:    state.Some(s.SearchCriteria.Merge(sugg.Criteria())),
			CurrentIntent:     state.Some(state.IntentSearch),
			RecentIntents:     state.Some(s.PushIntent(state.IntentSearch)),
			NextStep:          state.Some(state.StepSearch),
			AwaitingSelection: state.Some(false),
			ConversationStage: state.Some(state.StageSearching),
		}, true
	case upsell.AnswerDecline:
		up.Declined = true
		t.Classification = intent.Classification{Primary: state.IntentGeneral, Confidence: 1, Source: "upsell"}
		return state.Update{
			Upsell:            state.Some(up),
			CurrentIntent:     state.Some(state.IntentGeneral),
			RecentIntents:     state.Some(s.PushIntent(state.IntentGeneral)),
			NextStep:          state.Some(state.StepWaitForUser),
			AwaitingSelection: state.Some(false),
			ConversationStage: state.Some(state.StageCart),
			Reply:             "No problem! You can keep shopping, view your cart, or check out whenever you're ready.",
		}, true
	}
	return state.Update{}, false
}

func (n *Nodes) greet(_ context.Context, t *Turn) state.Update {
	s := t.Session
	sc := make(map[string]string, len(s.SessionContext)+2)
	for k, v := range s.SessionContext {
		sc[k] = v
	}
	if _, ok := sc[state.CtxFormality]; !ok {
		sc[state.CtxFormality] = "formal"
		if vocab.ContainsAny(t.Input, []string{"hey", "hiya", "yo", "sup", "howdy"}) {
			sc[state.CtxFormality] = "casual"
		}
	}
	returning := len(s.SelectedProducts) > 0 || s.TurnCount() > 1
	if returning {
		sc[state.CtxUserType] = "returning"
	} else if _, ok := sc[state.CtxUserType]; !ok {
		sc[state.CtxUserType] = "new"
	}

	reply := "Hi! I'm your shopping assistant. What are you looking for today? " +
		"Tell me a type of clothing, and any size, color or budget you have in mind."
	if sc[state.CtxFormality] == "casual" {
		reply = "Hey! What are you shopping for today? Tell me what you're after, like \"black hoodie in M\"."
	}
	if returning && len(s.SelectedProducts) > 0 {
		reply = fmt.Sprintf("Welcome back! You have %d item(s) in your cart. Want to keep shopping or check out?", s.CartCount())
	}

	u := state.Update{
		SessionContext: state.Some(sc),
		NextStep:       state.Some(state.StepWaitForUser),
		Reply:          reply,
	}
	if s.ConversationStage == state.StageGreeting {
		u.ConversationStage = state.Some(state.StageDiscovery)
	}
	return u
}

func (n *Nodes) analyzeNeeds(ctx context.Context, t *Turn) state.Update {
	s := t.Session
	r := n.Analyzer.Analyze(ctx, s.Messages, s.SearchCriteria, s.QuestionsAsked)
	// past the ceiling search with whatever is known, even without a category
	sufficient := r.Sufficient || s.QuestionsAsked >= needs.FatigueCeiling
	u := state.Update{
		SearchCriteria:     state.Some(r.Criteria),
		NeedsClarification: state.Some(!sufficient),
	}
	if sufficient {
		u.NextStep = state.Some(state.StepSearch)
		u.ConversationStage = state.Some(state.StageSearching)
	} else {
		u.NextStep = state.Some(state.StepClarificationAsker)
		u.ConversationStage = state.Some(state.StageDiscovery)
	}
	return u
}

func (n *Nodes) askClarification(ctx context.Context, t *Turn) state.Update {
	s := t.Session
	q := n.Asker.Ask(ctx, s.SearchCriteria, s.SearchCriteria.Missing(clarify.Ranking), clarify.DetectStyle(t.Input))
	return state.Update{
		QuestionsAsked:     state.Some(s.QuestionsAsked + 1),
		LastAskedAttribute: state.Some(q.Attribute),
		NeedsClarification: state.Some(true),
		NextStep:           state.Some(state.StepWaitForUser),
		Reply:              q.Text,
	}
}

func (n *Nodes) respond(ctx context.Context, t *Turn) state.Update {
	s := t.Session
	u := state.Update{
		NextStep: state.Some(state.StepWaitForUser),
		Reply:    n.Responder.Respond(ctx, t.Input, s, t.Classification),
	}
	if len(s.ProductsShown) == 0 && len(s.SelectedProducts) == 0 {
		u.ConversationStage = state.Some(state.StageGeneral)
	}
	return u
}

func (n *Nodes) search(ctx context.Context, t *Turn) state.Update {
	s := t.Session
	query := search.BuildQuery(s.SearchCriteria)
	results := n.Search.Fetch(ctx, query)

	budgetNote := ""
	if budget := cart.ParsePrice(s.SearchCriteria.BudgetMax); budget > 0 && len(results) > 0 {
		within := make([]state.Product, 0, len(results))
		for _, p := range results {
			if price := cart.ParsePrice(p.Price); price == 0 || price <= budget {
				within = append(within, p)
			}
		}
		if len(within) == 0 {
			budgetNote = fmt.Sprintf(" under %s", cart.Money(budget))
		}
		results = within
	}

	u := state.Update{
		SearchResults:      state.Some(results),
		NeedsClarification: state.Some(false),
		ConversationStage:  state.Some(state.StageSearching),
		NextStep:           state.Some(state.StepProductPresenter),
	}
	if len(results) == 0 {
		u.NextStep = state.Some(state.StepWaitForUser)
		u.AwaitingSelection = state.Some(false)
		u.ConversationStage = state.Some(state.StageDiscovery)
		u.Reply = noResults(s.SearchCriteria, budgetNote)
	}
	return u
}

func noResults(c state.Criteria, note string) string {
	var alts []string
	if c.ColorPreference != "" {
		alts = append(alts, "try a different color")
	}
	if c.BudgetMax != "" {
		alts = append(alts, "raise the budget")
	}
	alts = append(alts, "broaden the search to any style", "look at a different type of clothing")
	if len(alts) > 3 {
		alts = alts[:3]
	}
	return fmt.Sprintf("I couldn't find any %s%s right now. Want me to %s?", c.Describe(), note, strings.Join(alts, ", or "))
}

func (n *Nodes) present(ctx context.Context, t *Turn) state.Update {
	s := t.Session
	res := n.Relevance.Filter(ctx, s.SearchCriteria.Describe(), s.SearchResults)
	if len(res.Value) == 0 {
		return state.Update{
			AwaitingSelection: state.Some(false),
			ConversationStage: state.Some(state.StageDiscovery),
			NextStep:          state.Some(state.StepWaitForUser),
			Reply:             noResults(s.SearchCriteria, ""),
		}
	}

	limit := n.DisplayLimit
	if limit <= 0 {
		limit = DefaultDisplayLimit
	}
	shown := res.Value
	if len(shown) > limit {
		shown = shown[:limit]
	}
	return state.Update{
		ProductsShown:     state.Some(shown),
		AwaitingSelection: state.Some(true),
		ConversationStage: state.Some(state.StagePresenting),
		NextStep:          state.Some(state.StepWaitForUser),
		Reply:             renderProducts(s.SearchCriteria, shown),
	}
}

func renderProducts(c state.Criteria, shown []state.Product) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Here are %d %s I found:\n", len(shown), c.Describe())
	for i, p := range shown {
		fmt.Fprintf(&sb, "%d. %s - %s", i+1, p.Name, p.Price)
		if p.StoreName != "" {
			fmt.Fprintf(&sb, " (%s)", p.StoreName)
		}
		if p.IsOnSale {
			sb.WriteString(" [on sale]")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Reply with item numbers to add them to your cart, like \"#1\" or \"#2 and #4\".")
	return sb.String()
}

func (n *Nodes) selectItems(ctx context.Context, t *Turn) state.Update {
	s := t.Session
	res := n.Resolver.Resolve(ctx, t.Input, s.ProductsShown)

	size := s.SearchCriteria.Size
	if sz := vocab.Size(t.Input); sz != "" {
		size = sz
	}
	staged := selection.Stage(s.ProductsShown, res.Value, size, t.Now)
	if len(staged) == 0 {
		return state.Update{
			NextStep: state.Some(state.StepWaitForUser),
			Reply:    selection.Instructions(len(s.ProductsShown)),
		}
	}
	return state.Update{
		PendingCartAdditions: state.Some(staged),
		CartOperation:        state.Some(state.CartAdd),
		NextStep:             state.Some(state.StepCartManager),
	}
}

func (n *Nodes) manageCart(_ context.Context, t *Turn) state.Update {
	s := t.Session
	op := s.CartOperation
	u := cart.Handle(s, t.Now)
	u.NextStep = state.Some(state.StepWaitForUser)

	if (op == state.CartAdd || op == "") && u.TouchesCart() && len(s.PendingCartAdditions) > 0 {
		last := s.PendingCartAdditions[len(s.PendingCartAdditions)-1]
		if sugg, ok := upsell.Suggest(last, s.SearchCriteria.ColorPreference, s.Upsell); ok {
			u.Upsell = state.Some(sugg.State())
			u.ConversationStage = state.Some(state.StageUpselling)
			u.Reply += "\n\n" + sugg.Offer()
		}
	}
	return u
}

func (n *Nodes) checkout(ctx context.Context, t *Turn) state.Update {
	s := t.Session
	if len(s.SelectedProducts) == 0 {
		return state.Update{
			NextStep:          state.Some(state.StepWaitForUser),
			ConversationStage: state.Some(state.StageDiscovery),
			Reply:             "Your cart is empty, so there's nothing to check out yet. What would you like to find?",
		}
	}

	view := cart.Build(s.SelectedProducts)
	evt := mq.CheckoutEvent{
		SessionID: s.ID,
		UserID:    s.UserID,
		Total:     view.Total,
		At:        t.Now,
	}
	for _, g := range view.Groups {
		evt.Stores = append(evt.Stores, g.Store)
	}
	for _, it := range s.SelectedProducts {
		evt.Items = append(evt.Items, mq.CheckoutLine{
			Name:      it.Name,
			Price:     it.Price,
			URL:       it.URL,
			StoreName: it.StoreName,
			Size:      it.SelectedSize,
			Quantity:  it.Quantity,
		})
	}
	if n.Publisher != nil {
		if err := n.Publisher.PublishCheckout(ctx, evt); err != nil {
			logx.WithContext(ctx).Errorf("checkout_handler: publish checkout event for %s: %v", s.ID, err)
		}
	}

	reply := cart.Render(view) + "\n\n"
	if len(view.Groups) > 1 {
		reply += fmt.Sprintf("Your items come from %d stores, so you'll finish checkout on each store's site: %s.",
			len(view.Groups), strings.Join(evt.Stores, ", "))
	} else {
		reply += fmt.Sprintf("You'll finish checkout on %s's site. Use the item links to complete your order.", evt.Stores[0])
	}
	return state.Update{
		ConversationStage:  state.Some(state.StageCheckout),
		AwaitingCartAction: state.Some(false),
		AwaitingSelection:  state.Some(false),
		NextStep:           state.Some(state.StepWaitForUser),
		Reply:              reply,
	}
}
