package intent

import "ShopAssistant/app/services/assistant/internal/state"

// broadSearchLimit is how many shown products make a fresh search redundant.
const broadSearchLimit = 10

var routeTable = map[state.Intent]state.Step{
	state.IntentGreeting:      state.StepGreeter,
	state.IntentSearch:        state.StepNeedsAnalyzer,
	state.IntentClarification: state.StepNeedsAnalyzer,
	state.IntentSelection:     state.StepSelectionHandler,
	state.IntentCart:          state.StepCartManager,
	state.IntentCheckout:      state.StepCheckoutHandler,
	state.IntentGeneral:       state.StepGeneralResponder,
	state.IntentComplaint:     state.StepGeneralResponder,
}

// NextNode maps an intent to the node that handles it.
func NextNode(i state.Intent, c Context) state.Step {
	if i == state.IntentSearch && c.ProductsShown > broadSearchLimit {
		return state.StepClarificationAsker
	}
	if step, ok := routeTable[i]; ok {
		return step
	}
	return state.StepGeneralResponder
}
