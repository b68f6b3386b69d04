package intent

import (
	"fmt"
	"strings"

	"ShopAssistant/app/services/assistant/internal/oracle"
	"ShopAssistant/app/services/assistant/internal/state"

	"github.com/cloudwego/eino/schema"
)

const decisionToolName = "submit_intent_decision"

// decision is the oracle's answer as it arrives on the wire.
type decision struct {
	Intent         string            `json:"intent"`
	Secondary      []string          `json:"secondary_intents"`
	Confidence     float64           `json:"confidence"`
	Reasoning      string            `json:"reasoning"`
	Sentiment      string            `json:"sentiment"`
	Urgency        string            `json:"urgency"`
	CartOperation  string            `json:"cart_operation"`
	RemovalIndices []int             `json:"removal_indices"`
	Category       string            `json:"category"`
	Size           string            `json:"size"`
	Color          string            `json:"color"`
	Budget         oracle.FlexString `json:"budget"`
	Style          string            `json:"style"`
	Brand          string            `json:"brand"`
}

func (d decision) toClassification(source string) (Classification, error) {
	primary, ok := state.ParseIntent(strings.ToLower(strings.TrimSpace(d.Intent)))
	if !ok {
		return Classification{}, fmt.Errorf("unknown intent %q", d.Intent)
	}
	cls := Classification{
		Primary:    primary,
		Confidence: clamp(d.Confidence),
		Reasoning:  d.Reasoning,
		Sentiment:  parseSentiment(d.Sentiment),
		Urgency:    parseUrgency(d.Urgency),
		Source:     source,
		Entities: Entities{
			CartOperation:  state.CartOp(strings.ToLower(d.CartOperation)),
			RemovalIndices: d.RemovalIndices,
			Criteria: state.Criteria{
				Category:        d.Category,
				Size:            d.Size,
				ColorPreference: d.Color,
				BudgetMax:       d.Budget.String(),
				StylePreference: d.Style,
				BrandPreference: d.Brand,
			},
		},
	}
	if !cls.Entities.CartOperation.Valid() {
		cls.Entities.CartOperation = ""
	}
	for _, s := range d.Secondary {
		if i, ok := state.ParseIntent(strings.ToLower(s)); ok && i != primary {
			cls.Secondary = append(cls.Secondary, i)
		}
	}
	return cls, nil
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func parseSentiment(s string) Sentiment {
	switch v := Sentiment(strings.ToLower(s)); v {
	case SentimentPositive, SentimentNegative, SentimentFrustrated:
		return v
	}
	return SentimentNeutral
}

func parseUrgency(s string) Urgency {
	switch v := Urgency(strings.ToLower(s)); v {
	case UrgencyMedium, UrgencyHigh:
		return v
	}
	return UrgencyLow
}

func intentNames() []string {
	out := make([]string, 0, len(state.Intents))
	for _, i := range state.Intents {
		out = append(out, string(i))
	}
	return out
}

func buildDecisionTool() *schema.ToolInfo {
	str := func(desc string) *schema.ParameterInfo {
		return &schema.ParameterInfo{Type: schema.String, Desc: desc}
	}
	return &schema.ToolInfo{
		Name: decisionToolName,
		Desc: "Submit the intent analysis for the latest shopper message",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"intent": {
				Type:     schema.String,
				Desc:     "primary intent",
				Enum:     intentNames(),
				Required: true,
			},
			"secondary_intents": {
				Type:     schema.Array,
				Desc:     "other intents present in the message",
				ElemInfo: &schema.ParameterInfo{Type: schema.String, Enum: intentNames()},
			},
			"confidence": {
				Type: schema.Number,
				Desc: "0 to 1",
			},
			"reasoning": str("one sentence"),
			"sentiment": {
				Type: schema.String,
				Enum: []string{"positive", "neutral", "negative", "frustrated"},
			},
			"urgency": {
				Type: schema.String,
				Enum: []string{"low", "medium", "high"},
			},
			"cart_operation": {
				Type: schema.String,
				Desc: "only for cart intent",
				Enum: []string{"add", "remove", "view", "clear"},
			},
			"removal_indices": {
				Type:     schema.Array,
				Desc:     "0-based cart positions to remove",
				ElemInfo: &schema.ParameterInfo{Type: schema.Integer},
			},
			"category": str("product category if mentioned"),
			"size":     str("size if mentioned"),
			"color":    str("color if mentioned"),
			"budget":   str("maximum price as a number"),
			"style":    str("style if mentioned"),
			"brand":    str("brand if mentioned"),
		}),
	}
}
