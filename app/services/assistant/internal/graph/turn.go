package graph

import (
	"time"

	"ShopAssistant/app/services/assistant/internal/intent"
	"ShopAssistant/app/services/assistant/internal/state"
)

// Turn is what flows between graph nodes during one user message.
type Turn struct {
	Input   string
	Session *state.Session
	Now     time.Time

	// Classification is the classifier's verdict for this turn; nodes after it read tone and error flags.
	Classification intent.Classification

	Replies []string
	Path    []state.Step
}
