package state

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Stage is descriptive of the UI context and also read by routing.
type Stage string

const (
	StageGreeting   Stage = "greeting"
	StageDiscovery  Stage = "discovery"
	StageSearching  Stage = "searching"
	StagePresenting Stage = "presenting"
	StageCart       Stage = "cart"
	StageUpselling  Stage = "upselling"
	StageCheckout   Stage = "checkout"
	StageGeneral    Stage = "general"
)

func (s Stage) Valid() bool {
	switch s {
	case StageGreeting, StageDiscovery, StageSearching, StagePresenting,
		StageCart, StageUpselling, StageCheckout, StageGeneral:
		return true
	}
	return false
}

// Step names a routing graph node, or the wait_for_user sink.
type Step string

const (
	StepIntentClassifier   Step = "intent_classifier"
	StepGreeter            Step = "greeter"
	StepNeedsAnalyzer      Step = "needs_analyzer"
	StepClarificationAsker Step = "clarification_asker"
	StepGeneralResponder   Step = "general_responder"
	StepSearch             Step = "search"
	StepProductPresenter   Step = "product_presenter"
	StepSelectionHandler   Step = "selection_handler"
	StepCartManager        Step = "cart_manager"
	StepCheckoutHandler    Step = "checkout_handler"
	StepWaitForUser        Step = "wait_for_user"
)

var Steps = []Step{
	StepIntentClassifier,
	StepGreeter,
	StepNeedsAnalyzer,
	StepClarificationAsker,
	StepGeneralResponder,
	StepSearch,
	StepProductPresenter,
	StepSelectionHandler,
	StepCartManager,
	StepCheckoutHandler,
}

func (s Step) Valid() bool {
	if s == StepWaitForUser {
		return true
	}
	for _, v := range Steps {
		if v == s {
			return true
		}
	}
	return false
}

// Intent is the single enumeration of user intents.
type Intent string

const (
	IntentGreeting      Intent = "greeting"
	IntentSearch        Intent = "search"
	IntentSelection     Intent = "selection"
	IntentCart          Intent = "cart"
	IntentCheckout      Intent = "checkout"
	IntentGeneral       Intent = "general"
	IntentClarification Intent = "clarification"
	IntentComplaint     Intent = "complaint"
)

var Intents = []Intent{
	IntentGreeting,
	IntentSearch,
	IntentSelection,
	IntentCart,
	IntentCheckout,
	IntentGeneral,
	IntentClarification,
	IntentComplaint,
}

func (i Intent) Valid() bool {
	for _, v := range Intents {
		if v == i {
			return true
		}
	}
	return false
}

func ParseIntent(s string) (Intent, bool) {
	i := Intent(s)
	return i, i.Valid()
}

type CartOp string

const (
	CartAdd    CartOp = "add"
	CartRemove CartOp = "remove"
	CartView   CartOp = "view"
	CartClear  CartOp = "clear"
)

func (o CartOp) Valid() bool {
	switch o {
	case CartAdd, CartRemove, CartView, CartClear:
		return true
	}
	return false
}

// Attribute is a criteria key.
type Attribute string

const (
	AttrCategory Attribute = "category"
	AttrSize     Attribute = "size"
	AttrBudget   Attribute = "budget_max"
	AttrColor    Attribute = "color_preference"
	AttrStyle    Attribute = "style_preference"
	AttrBrand    Attribute = "brand_preference"
)

// Session context keys.
const (
	CtxUrgency   = "urgency"
	CtxFormality = "formality"
	CtxUserType  = "user_type"
	CtxSentiment = "sentiment"
)
