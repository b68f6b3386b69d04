package intent

import (
	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/vocab"
)

// ApplyBusinessRules corrects classifications that conflict with the session.
func ApplyBusinessRules(cls Classification, msg string, c Context) Classification {
	if cls.Primary == state.IntentCart && cls.Entities.CartOperation == state.CartAdd &&
		c.ProductsShown > 0 && vocab.HasIndexMarker(msg) {
		cls.Primary = state.IntentSelection
		cls.Reasoning = appendReason(cls.Reasoning, "adding shown items goes through selection")
	}
	if cls.Primary == state.IntentCheckout && c.CartCount == 0 {
		cls.Primary = state.IntentSearch
		cls.Reasoning = appendReason(cls.Reasoning, "cart is empty, nothing to check out")
	}
	if cls.Primary == state.IntentSelection && c.ProductsShown == 0 {
		cls.Primary = state.IntentSearch
		cls.Reasoning = appendReason(cls.Reasoning, "no products shown to select from")
	}
	if cls.Primary == state.IntentSelection && c.Stage == state.StagePresenting {
		cls.Confidence += 0.1
	}
	if cls.Confidence > 1 {
		cls.Confidence = 1
	}
	if cls.Confidence < 0 {
		cls.Confidence = 0
	}
	return cls
}

func appendReason(reason, extra string) string {
	if reason == "" {
		return extra
	}
	return reason + "; " + extra
}
