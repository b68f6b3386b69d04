package intent

import (
	"context"
	"testing"

	"ShopAssistant/app/services/assistant/internal/oracle"
	"ShopAssistant/app/services/assistant/internal/oracle/oracletest"
	"ShopAssistant/app/services/assistant/internal/state"

	"github.com/cloudwego/eino/components/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassifier(t *testing.T, primary, secondary model.BaseChatModel) *Classifier {
	t.Helper()
	c, err := NewClassifier(context.Background(), primary, secondary)
	require.NoError(t, err)
	return c
}

func TestUrgencyFastPathSkipsOracle(t *testing.T) {
	m := oracletest.Content(`{"intent":"search"}`)
	c := newClassifier(t, m, nil)

	cls := c.Classify(context.Background(), "I was charged twice, I want a refund ASAP", Context{})

	assert.Equal(t, state.IntentComplaint, cls.Primary)
	assert.Equal(t, UrgencyHigh, cls.Urgency)
	assert.Equal(t, state.StepGeneralResponder, cls.NextAction)
	assert.Equal(t, 0, m.Calls())
}

func TestPrimaryOracleToolCall(t *testing.T) {
	m := oracletest.ToolCall(decisionToolName, `{"intent":"search","confidence":0.92,"category":"Hoodie","color":"black"}`)
	c := newClassifier(t, m, nil)

	cls := c.Classify(context.Background(), "show me some black hoodies", Context{TurnCount: 2})

	assert.Equal(t, state.IntentSearch, cls.Primary)
	assert.Equal(t, oracle.StatusOK, cls.Status)
	assert.InDelta(t, 0.92, cls.Confidence, 1e-9)
	assert.Equal(t, "hoodies", cls.Entities.Criteria.Category)
	assert.Equal(t, state.StepNeedsAnalyzer, cls.NextAction)
}

func TestFallsBackToSecondaryThenRules(t *testing.T) {
	primary := oracletest.Content("I think it's a search")
	secondary := oracletest.Content(`{"intent":"checkout","confidence":0.8}`)
	c := newClassifier(t, primary, secondary)

	cls := c.Classify(context.Background(), "let's pay", Context{CartCount: 2})
	assert.Equal(t, state.IntentCheckout, cls.Primary)
	assert.Equal(t, oracle.StatusFallback, cls.Status)
	assert.Equal(t, "intent_secondary", cls.Source)

	c = newClassifier(t, oracletest.Failing(), oracletest.Content(`{"intent":"shopping"}`))
	cls = c.Classify(context.Background(), "checkout please", Context{CartCount: 1})
	assert.Equal(t, state.IntentCheckout, cls.Primary)
	assert.Equal(t, "rules", cls.Source)
	assert.False(t, cls.SystemError)
}

func TestWorstCaseIsLowConfidenceGeneral(t *testing.T) {
	c := newClassifier(t, oracletest.Failing(), oracletest.Failing())

	cls := c.Classify(context.Background(), "hmm interesting", Context{TurnCount: 4})

	assert.Equal(t, state.IntentGeneral, cls.Primary)
	assert.LessOrEqual(t, cls.Confidence, 0.3)
	assert.True(t, cls.SystemError)
	assert.Equal(t, oracle.StatusFallback, cls.Status)
}

func TestNilClassifierUsesRules(t *testing.T) {
	var c *Classifier
	cls := c.Classify(context.Background(), "black hoodies size M", Context{})
	assert.Equal(t, state.IntentSearch, cls.Primary)
	assert.Equal(t, state.Criteria{Category: "hoodies", ColorPreference: "black", Size: "M"}, cls.Entities.Criteria)
}

func TestRuleClassifier(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		ctx  Context
		want state.Intent
		op   state.CartOp
	}{
		{"greeting", "hello there", Context{TurnCount: 1}, state.IntentGreeting, ""},
		{"search", "I'm looking for jeans", Context{TurnCount: 2}, state.IntentSearch, ""},
		{"selection", "I'll take the second one", Context{ProductsShown: 5, TurnCount: 3}, state.IntentSelection, ""},
		{"view cart", "what's in my cart?", Context{CartCount: 1}, state.IntentCart, state.CartView},
		{"remove", "remove #1 and #3", Context{CartCount: 3}, state.IntentCart, state.CartRemove},
		{"clear", "clear my cart", Context{CartCount: 3}, state.IntentCart, state.CartClear},
		{"clarification answer", "size L", Context{NeedsClarification: true, TurnCount: 3}, state.IntentClarification, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := finish(classifyByRules(tt.msg, tt.ctx), tt.msg, tt.ctx)
			assert.Equal(t, tt.want, cls.Primary)
			assert.Equal(t, tt.op, cls.Entities.CartOperation)
		})
	}
}

func TestRemovalIndicesExtracted(t *testing.T) {
	var c *Classifier
	cls := c.Classify(context.Background(), "remove #1 and #3", Context{CartCount: 3})
	assert.Equal(t, state.CartRemove, cls.Entities.CartOperation)
	assert.Equal(t, []int{0, 2}, cls.Entities.RemovalIndices)
	assert.Equal(t, state.StepCartManager, cls.NextAction)
}

func TestBusinessRules(t *testing.T) {
	cls := ApplyBusinessRules(Classification{Primary: state.IntentCheckout, Confidence: 0.9}, "checkout", Context{})
	assert.Equal(t, state.IntentSearch, cls.Primary)

	cls = ApplyBusinessRules(Classification{Primary: state.IntentSelection, Confidence: 0.9}, "#2", Context{})
	assert.Equal(t, state.IntentSearch, cls.Primary)

	cls = ApplyBusinessRules(Classification{Primary: state.IntentSelection, Confidence: 0.95}, "#2",
		Context{ProductsShown: 3, Stage: state.StagePresenting})
	assert.Equal(t, state.IntentSelection, cls.Primary)
	assert.Equal(t, 1.0, cls.Confidence)

	cls = ApplyBusinessRules(Classification{
		Primary:  state.IntentCart,
		Entities: Entities{CartOperation: state.CartAdd},
	}, "add #2 to my cart", Context{ProductsShown: 4})
	assert.Equal(t, state.IntentSelection, cls.Primary)
}

func TestNextNodeTable(t *testing.T) {
	for _, i := range state.Intents {
		assert.True(t, NextNode(i, Context{}).Valid(), i)
	}
	assert.Equal(t, state.StepNeedsAnalyzer, NextNode(state.IntentSearch, Context{ProductsShown: 10}))
	assert.Equal(t, state.StepClarificationAsker, NextNode(state.IntentSearch, Context{ProductsShown: 11}))
	assert.Equal(t, state.StepGeneralResponder, NextNode(state.IntentComplaint, Context{}))
}

func TestSelectionPattern(t *testing.T) {
	assert.Equal(t, PatternSelection, SelectionPattern("#2 please"))
	assert.Equal(t, PatternSelection, SelectionPattern("I want the red one"))
	assert.Equal(t, PatternQuestion, SelectionPattern("how does it fit?"))
	assert.Equal(t, PatternSelection, SelectionPattern("what about 3, I want it"))
	assert.Equal(t, PatternQuestion, SelectionPattern("what would you recommend I choose"))
	assert.Equal(t, PatternNone, SelectionPattern("nice"))
}
