package graph

import (
	"ShopAssistant/app/services/assistant/internal/intent"
	"ShopAssistant/app/services/assistant/internal/state"
)

// successors lists the legal targets of every node. wait_for_user is always legal.
var successors = map[state.Step][]state.Step{
	state.StepIntentClassifier: {
		state.StepGreeter, state.StepNeedsAnalyzer, state.StepClarificationAsker,
		state.StepGeneralResponder, state.StepSearch, state.StepSelectionHandler,
		state.StepCartManager, state.StepCheckoutHandler,
	},
	state.StepNeedsAnalyzer:      {state.StepSearch, state.StepClarificationAsker},
	state.StepSearch:             {state.StepProductPresenter},
	state.StepSelectionHandler:   {state.StepCartManager},
	state.StepGreeter:            {},
	state.StepClarificationAsker: {},
	state.StepGeneralResponder:   {},
	state.StepProductPresenter:   {},
	state.StepCartManager:        {},
	state.StepCheckoutHandler:    {},
}

func legal(from, to state.Step) bool {
	if to == state.StepWaitForUser {
		return true
	}
	for _, s := range successors[from] {
		if s == to {
			return true
		}
	}
	return false
}

// routeAfterClassifier applies the global rules in priority order, then the
// node hint, then the intent table.
func routeAfterClassifier(t *Turn) state.Step {
	s := t.Session
	if s.CurrentIntent == state.IntentCart {
		return state.StepCartManager
	}
	if len(s.ProductsShown) > 0 && s.AwaitingSelection {
		switch intent.SelectionPattern(t.Input) {
		case intent.PatternSelection:
			return state.StepSelectionHandler
		case intent.PatternQuestion:
			return state.StepGeneralResponder
		}
	}
	if s.CurrentIntent == state.IntentCheckout && len(s.SelectedProducts) == 0 {
		return state.StepNeedsAnalyzer
	}
	if s.CurrentIntent == state.IntentSelection && len(s.ProductsShown) == 0 {
		return state.StepNeedsAnalyzer
	}
	if s.NextStep != "" && s.NextStep != state.StepIntentClassifier && legal(state.StepIntentClassifier, s.NextStep) {
		return s.NextStep
	}
	return intent.NextNode(s.CurrentIntent, intent.ContextOf(s))
}

func routeAfterNeeds(t *Turn) state.Step {
	if t.Session.NeedsClarification {
		return state.StepClarificationAsker
	}
	return state.StepSearch
}

func routeAfterSearch(t *Turn) state.Step {
	if len(t.Session.SearchResults) == 0 {
		return state.StepWaitForUser
	}
	return state.StepProductPresenter
}

func routeAfterSelection(t *Turn) state.Step {
	if len(t.Session.PendingCartAdditions) == 0 {
		return state.StepWaitForUser
	}
	return state.StepCartManager
}

func waitForUser(*Turn) state.Step {
	return state.StepWaitForUser
}
