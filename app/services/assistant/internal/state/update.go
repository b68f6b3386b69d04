package state

import "time"

// Opt marks whether a partial update carries a value for a field.
type Opt[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Set: true}
}

func (o Opt[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// Update is the partial state a node returns. Unset fields are left alone,
// set fields replace the current value wholesale.
type Update struct {
	SearchCriteria       Opt[Criteria]
	SearchResults        Opt[[]Product]
	ProductsShown        Opt[[]Product]
	SelectedProducts     Opt[[]CartItem]
	PendingCartAdditions Opt[[]CartItem]
	CartOperation        Opt[CartOp]
	RemovalIndices       Opt[[]int]

	ConversationStage  Opt[Stage]
	NextStep           Opt[Step]
	NeedsClarification Opt[bool]
	AwaitingSelection  Opt[bool]
	AwaitingCartAction Opt[bool]

	CurrentIntent      Opt[Intent]
	RecentIntents      Opt[[]Intent]
	QuestionsAsked     Opt[int]
	LastAskedAttribute Opt[Attribute]

	Upsell         Opt[Upsell]
	SessionContext Opt[map[string]string]

	// Reply is appended to Messages as an assistant turn.
	Reply string
}

// TouchesCart reports whether the update writes the cart.
func (u Update) TouchesCart() bool {
	return u.SelectedProducts.Set
}

// Apply shallow-merges u into s. Invalid enum values are ignored and
// malformed collections are defaulted rather than stored.
func (s *Session) Apply(u Update, now time.Time) {
	if v, ok := u.SearchCriteria.Get(); ok {
		s.SearchCriteria = v
	}
	if v, ok := u.SearchResults.Get(); ok {
		s.SearchResults = append([]Product{}, v...)
	}
	if v, ok := u.ProductsShown.Get(); ok {
		s.ProductsShown = append([]Product{}, v...)
	}
	if v, ok := u.SelectedProducts.Get(); ok {
		s.SelectedProducts = normalizeItems(v)
	}
	if v, ok := u.PendingCartAdditions.Get(); ok {
		s.PendingCartAdditions = normalizeItems(v)
	}
	if v, ok := u.CartOperation.Get(); ok && (v == "" || v.Valid()) {
		s.CartOperation = v
	}
	if v, ok := u.RemovalIndices.Get(); ok {
		s.RemovalIndices = append([]int{}, v...)
	}
	if v, ok := u.ConversationStage.Get(); ok && v.Valid() {
		s.ConversationStage = v
	}
	if v, ok := u.NextStep.Get(); ok && v.Valid() {
		s.NextStep = v
	}
	if v, ok := u.NeedsClarification.Get(); ok {
		s.NeedsClarification = v
	}
	if v, ok := u.AwaitingSelection.Get(); ok {
		s.AwaitingSelection = v
	}
	if v, ok := u.AwaitingCartAction.Get(); ok {
		s.AwaitingCartAction = v
	}
	if v, ok := u.CurrentIntent.Get(); ok && v.Valid() {
		s.CurrentIntent = v
	}
	if v, ok := u.RecentIntents.Get(); ok {
		intents := make([]Intent, 0, len(v))
		for _, i := range v {
			if i.Valid() {
				intents = append(intents, i)
			}
		}
		if len(intents) > recentIntentLimit {
			intents = intents[len(intents)-recentIntentLimit:]
		}
		s.RecentIntents = intents
	}
	if v, ok := u.QuestionsAsked.Get(); ok && v >= 0 {
		s.QuestionsAsked = v
	}
	if v, ok := u.LastAskedAttribute.Get(); ok {
		s.LastAskedAttribute = v
	}
	if v, ok := u.Upsell.Get(); ok {
		s.Upsell = v
	}
	if v, ok := u.SessionContext.Get(); ok {
		ctx := make(map[string]string, len(v))
		for k, val := range v {
			ctx[k] = val
		}
		s.SessionContext = ctx
	}
	s.AddAssistantMessage(u.Reply, now)
	s.UpdatedAt = now
	s.normalize()
}

func normalizeItems(items []CartItem) []CartItem {
	out := make([]CartItem, 0, len(items))
	for _, it := range items {
		out = append(out, it.normalized())
	}
	return out
}
