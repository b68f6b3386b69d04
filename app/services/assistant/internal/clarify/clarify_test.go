package clarify

import (
	"context"
	"testing"

	"ShopAssistant/app/services/assistant/internal/oracle"
	"ShopAssistant/app/services/assistant/internal/oracle/oracletest"
	"ShopAssistant/app/services/assistant/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickHonoursRanking(t *testing.T) {
	tests := []struct {
		missing []state.Attribute
		want    state.Attribute
	}{
		{[]state.Attribute{state.AttrBrand, state.AttrSize, state.AttrColor}, state.AttrSize},
		{[]state.Attribute{state.AttrStyle, state.AttrColor}, state.AttrColor},
		{[]state.Attribute{state.AttrBrand, state.AttrBudget}, state.AttrBudget},
		{[]state.Attribute{state.AttrBrand, state.AttrCategory}, state.AttrCategory},
	}
	for _, tt := range tests {
		got, ok := Pick(tt.missing)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got)
	}
	_, ok := Pick(nil)
	assert.False(t, ok)
}

func TestDetectStyle(t *testing.T) {
	assert.Equal(t, Signal{Style: StyleBrief, Patience: PatienceNormal}, DetectStyle("hoodies"))
	assert.Equal(t, Signal{Style: StyleNormal, Patience: PatienceNormal}, DetectStyle("I need a warm hoodie for the winter"))
	assert.Equal(t, Signal{Style: StyleBrief, Patience: PatienceLow}, DetectStyle("whatever, just show me something"))
	long := "I am going to a friend's wedding next month and I would like something that looks smart but is still comfortable to wear all day"
	assert.Equal(t, StyleDetailed, DetectStyle(long).Style)
}

func TestAskFallsBackToTemplate(t *testing.T) {
	var a *Asker
	q := a.Ask(context.Background(), state.Criteria{Category: "hoodies"},
		[]state.Attribute{state.AttrColor, state.AttrSize}, Signal{Style: StyleBrief})

	assert.Equal(t, state.AttrSize, q.Attribute)
	assert.Equal(t, "What size?", q.Text)
	assert.Equal(t, oracle.StatusFallback, q.Status)
}

func TestAskUsesOracleQuestion(t *testing.T) {
	a, err := NewAsker(context.Background(), oracletest.Content("Which size fits you best?"))
	require.NoError(t, err)

	q := a.Ask(context.Background(), state.Criteria{Category: "hoodies"}, []state.Attribute{state.AttrSize}, Signal{Style: StyleNormal})
	assert.Equal(t, "Which size fits you best?", q.Text)
	assert.Equal(t, oracle.StatusOK, q.Status)

	a, err = NewAsker(context.Background(), oracletest.Content("Sure thing."))
	require.NoError(t, err)
	q = a.Ask(context.Background(), state.Criteria{Category: "hoodies"}, []state.Attribute{state.AttrSize}, Signal{Style: StyleNormal})
	assert.Equal(t, "What size should I look for in hoodies?", q.Text)
}

func TestAskNarrowsWhenNothingMissing(t *testing.T) {
	var a *Asker
	q := a.Ask(context.Background(), state.Criteria{Category: "shoes"}, nil, Signal{Style: StyleNormal})
	assert.Equal(t, state.Attribute(""), q.Attribute)
	assert.Contains(t, q.Text, "shoes")
}
