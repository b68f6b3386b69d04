package intent

import (
	"strings"

	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/vocab"
)

// Pattern is what a reply looks like while the user is choosing from shown products.
type Pattern int

const (
	PatternNone Pattern = iota
	PatternSelection
	PatternQuestion
)

// SelectionPattern weighs item-index markers and selection verbs against
// question words. When both appear a digit decides for selection.
func SelectionPattern(msg string) Pattern {
	selecting := vocab.HasIndexMarker(msg) || vocab.ContainsAny(msg, vocab.SelectionVerbs)
	asking := vocab.ContainsAny(msg, vocab.Questions)
	switch {
	case selecting && asking:
		if vocab.HasDigit(msg) {
			return PatternSelection
		}
		return PatternQuestion
	case selecting:
		return PatternSelection
	case asking:
		return PatternQuestion
	}
	return PatternNone
}

// IsUrgent reports escalation keywords that skip classification entirely.
func IsUrgent(msg string) bool {
	return vocab.ContainsAny(msg, vocab.Urgency)
}

// CartOperation detects what the user wants done with the cart. ok is false when the message is not about the cart.
func CartOperation(msg string) (op state.CartOp, ok bool) {
	mentionsCart := vocab.ContainsAny(msg, vocab.CartWords)
	switch {
	case vocab.ContainsAny(msg, vocab.CartClear) && (mentionsCart || vocab.ContainsAny(msg, []string{"remove everything", "remove all"})):
		return state.CartClear, true
	case vocab.ContainsAny(msg, vocab.CartRemove):
		return state.CartRemove, true
	case mentionsCart && vocab.ContainsAny(msg, vocab.CartAdd):
		return state.CartAdd, true
	case mentionsCart:
		return state.CartView, true
	}
	return "", false
}

// classifyByRules is the last-resort classifier: keyword matching plus turn count.
func classifyByRules(msg string, c Context) Classification {
	cls := Classification{
		Confidence: 0.5,
		Sentiment:  SentimentNeutral,
		Urgency:    UrgencyLow,
		Source:     "rules",
	}
	norm := vocab.Normalize(msg)
	_, cartOp := CartOperation(msg)

	switch {
	case cartOp:
		cls.Primary = state.IntentCart
		cls.Reasoning = "mentions the cart"
	case vocab.ContainsAny(msg, vocab.Checkout):
		cls.Primary = state.IntentCheckout
		cls.Reasoning = "checkout wording"
	case c.ProductsShown > 0 && SelectionPattern(msg) == PatternSelection:
		cls.Primary = state.IntentSelection
		cls.Reasoning = "refers to shown products"
	case isGreeting(norm, c):
		cls.Primary = state.IntentGreeting
		cls.Reasoning = "greeting"
	case vocab.Category(msg) != "":
		cls.Primary = state.IntentSearch
		cls.Reasoning = "names a product category"
	case c.NeedsClarification && answersQuestion(msg):
		cls.Primary = state.IntentClarification
		cls.Reasoning = "answers the pending question"
	case vocab.ContainsAny(msg, vocab.SearchVerbs):
		cls.Primary = state.IntentSearch
		cls.Reasoning = "shopping verb"
	default:
		cls.Primary = state.IntentGeneral
		cls.Confidence = 0.3
		cls.Reasoning = "no rule matched"
	}

	if vocab.ContainsAny(msg, vocab.Impatience) {
		cls.Sentiment = SentimentFrustrated
		cls.Urgency = UrgencyMedium
	}
	return cls
}

func isGreeting(norm string, c Context) bool {
	if !vocab.ContainsAny(norm, vocab.Greetings) {
		return false
	}
	// a greeting buried in a longer request is not a greeting turn
	return c.TurnCount <= 1 || len(strings.Fields(norm)) <= 3
}

func answersQuestion(msg string) bool {
	return vocab.Size(msg) != "" || vocab.Color(msg) != "" || vocab.Budget(msg) != "" ||
		vocab.Style(msg) != "" || vocab.Brand(msg) != ""
}

// keywordCriteria pulls whatever criteria the keyword lists can see in msg.
func keywordCriteria(msg string) state.Criteria {
	return state.Criteria{
		Category:        vocab.Category(msg),
		Size:            vocab.Size(msg),
		ColorPreference: vocab.Color(msg),
		BudgetMax:       vocab.Budget(msg),
		StylePreference: vocab.Style(msg),
		BrandPreference: vocab.Brand(msg),
	}
}
