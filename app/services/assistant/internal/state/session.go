package state

import (
	"strings"
	"time"
)

const recentIntentLimit = 3

type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Session is the full per-conversation record persisted after every turn.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []Message `json:"messages"`

	SearchCriteria       Criteria   `json:"search_criteria"`
	SearchResults        []Product  `json:"search_results"`
	ProductsShown        []Product  `json:"products_shown"`
	SelectedProducts     []CartItem `json:"selected_products"`
	PendingCartAdditions []CartItem `json:"pending_cart_additions"`
	CartOperation        CartOp     `json:"cart_operation,omitempty"`
	RemovalIndices       []int      `json:"removal_indices"`

	ConversationStage  Stage `json:"conversation_stage"`
	NextStep           Step  `json:"next_step,omitempty"`
	NeedsClarification bool  `json:"needs_clarification"`
	AwaitingSelection  bool  `json:"awaiting_selection"`
	AwaitingCartAction bool  `json:"awaiting_cart_action"`

	CurrentIntent      Intent    `json:"current_intent,omitempty"`
	RecentIntents      []Intent  `json:"recent_intents"`
	QuestionsAsked     int       `json:"questions_asked"`
	LastAskedAttribute Attribute `json:"last_asked_attribute,omitempty"`

	Upsell         Upsell            `json:"upsell"`
	SessionContext map[string]string `json:"session_context"`
}

func New(id string, userID int64, now time.Time) *Session {
	s := &Session{
		ID:                id,
		UserID:            userID,
		CreatedAt:         now,
		UpdatedAt:         now,
		ConversationStage: StageGreeting,
	}
	s.normalize()
	return s
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Messages = append([]Message(nil), s.Messages...)
	c.SearchResults = append([]Product(nil), s.SearchResults...)
	c.ProductsShown = append([]Product(nil), s.ProductsShown...)
	c.SelectedProducts = append([]CartItem(nil), s.SelectedProducts...)
	c.PendingCartAdditions = append([]CartItem(nil), s.PendingCartAdditions...)
	c.RemovalIndices = append([]int(nil), s.RemovalIndices...)
	c.RecentIntents = append([]Intent(nil), s.RecentIntents...)
	c.SessionContext = make(map[string]string, len(s.SessionContext))
	for k, v := range s.SessionContext {
		c.SessionContext[k] = v
	}
	c.normalize()
	return &c
}

// normalize replaces nil collections with empty ones so snapshots serialise uniformly.
func (s *Session) normalize() {
	if s.Messages == nil {
		s.Messages = []Message{}
	}
	if s.SearchResults == nil {
		s.SearchResults = []Product{}
	}
	if s.ProductsShown == nil {
		s.ProductsShown = []Product{}
	}
	if s.SelectedProducts == nil {
		s.SelectedProducts = []CartItem{}
	}
	if s.PendingCartAdditions == nil {
		s.PendingCartAdditions = []CartItem{}
	}
	if s.RemovalIndices == nil {
		s.RemovalIndices = []int{}
	}
	if s.RecentIntents == nil {
		s.RecentIntents = []Intent{}
	}
	if s.SessionContext == nil {
		s.SessionContext = map[string]string{}
	}
	if !s.ConversationStage.Valid() {
		s.ConversationStage = StageGreeting
	}
	for i := range s.SelectedProducts {
		s.SelectedProducts[i] = s.SelectedProducts[i].normalized()
	}
}

// Normalize repairs a snapshot decoded from storage.
func (s *Session) Normalize() {
	s.normalize()
}

func (s *Session) AddUserMessage(text string, now time.Time) {
	s.Messages = append(s.Messages, Message{Role: RoleUser, Text: text, At: now})
	s.UpdatedAt = now
}

func (s *Session) AddAssistantMessage(text string, now time.Time) {
	if strings.TrimSpace(text) == "" {
		return
	}
	s.Messages = append(s.Messages, Message{Role: RoleAssistant, Text: text, At: now})
	s.UpdatedAt = now
}

// LastUserMessage returns the text of the most recent user turn.
func (s *Session) LastUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Text
		}
	}
	return ""
}

// RecentMessages returns at most n trailing messages.
func (s *Session) RecentMessages(n int) []Message {
	if n <= 0 || len(s.Messages) <= n {
		return append([]Message(nil), s.Messages...)
	}
	return append([]Message(nil), s.Messages[len(s.Messages)-n:]...)
}

// TurnCount counts user messages.
func (s *Session) TurnCount() int {
	n := 0
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

func (s *Session) CartCount() int {
	return len(s.SelectedProducts)
}

// PushIntent returns the last three intents including i.
func (s *Session) PushIntent(i Intent) []Intent {
	out := append(append([]Intent(nil), s.RecentIntents...), i)
	if len(out) > recentIntentLimit {
		out = out[len(out)-recentIntentLimit:]
	}
	return out
}
