package intent

import (
	"ShopAssistant/app/services/assistant/internal/oracle"
	"ShopAssistant/app/services/assistant/internal/state"
)

type Sentiment string

const (
	SentimentPositive   Sentiment = "positive"
	SentimentNeutral    Sentiment = "neutral"
	SentimentNegative   Sentiment = "negative"
	SentimentFrustrated Sentiment = "frustrated"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Context is what the classifier knows about the conversation besides the message.
type Context struct {
	Stage              state.Stage
	ProductsShown      int
	CartCount          int
	RecentIntents      []state.Intent
	TurnCount          int
	Criteria           state.Criteria
	AwaitingSelection  bool
	AwaitingCartAction bool
	NeedsClarification bool
}

// ContextOf snapshots the classifier context from a session.
func ContextOf(s *state.Session) Context {
	return Context{
		Stage:              s.ConversationStage,
		ProductsShown:      len(s.ProductsShown),
		CartCount:          len(s.SelectedProducts),
		RecentIntents:      append([]state.Intent(nil), s.RecentIntents...),
		TurnCount:          s.TurnCount(),
		Criteria:           s.SearchCriteria,
		AwaitingSelection:  s.AwaitingSelection,
		AwaitingCartAction: s.AwaitingCartAction,
		NeedsClarification: s.NeedsClarification,
	}
}

type Entities struct {
	CartOperation  state.CartOp   `json:"cart_operation,omitempty"`
	RemovalIndices []int          `json:"removal_indices,omitempty"`
	Criteria       state.Criteria `json:"criteria"`
}

type Classification struct {
	Primary     state.Intent
	Secondary   []state.Intent
	Confidence  float64
	Reasoning   string
	Entities    Entities
	Sentiment   Sentiment
	Urgency     Urgency
	NextAction  state.Step
	SystemError bool
	Source      string
	Status      oracle.Status
}
