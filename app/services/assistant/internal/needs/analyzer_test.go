package needs

import (
	"context"
	"testing"
	"time"

	"ShopAssistant/app/services/assistant/internal/clarify"
	"ShopAssistant/app/services/assistant/internal/oracle"
	"ShopAssistant/app/services/assistant/internal/oracle/oracletest"
	"ShopAssistant/app/services/assistant/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func user(text string) state.Message {
	return state.Message{Role: state.RoleUser, Text: text, At: time.Now()}
}

func TestBlackHoodiesSizeMIsSufficient(t *testing.T) {
	a, err := NewAnalyzer(context.Background(),
		oracletest.Content(`{"category":"hoodies","color":"black","size":"M"}`))
	require.NoError(t, err)

	res := a.Analyze(context.Background(), []state.Message{user("black hoodies size M")}, state.Criteria{}, 0)

	assert.Equal(t, oracle.StatusOK, res.Status)
	assert.Equal(t, state.Criteria{Category: "hoodies", ColorPreference: "black", Size: "M"}, res.Criteria)
	assert.True(t, res.Sufficient)
}

func TestKeywordFallbackWhenOracleFails(t *testing.T) {
	a, err := NewAnalyzer(context.Background(), oracletest.Failing())
	require.NoError(t, err)

	res := a.Analyze(context.Background(), []state.Message{user("black hoodies size M")}, state.Criteria{}, 0)
	assert.Equal(t, oracle.StatusFallback, res.Status)
	assert.Equal(t, "hoodies", res.Criteria.Category)
	assert.True(t, res.Sufficient)

	res = a.Analyze(context.Background(), []state.Message{user("something warm")}, state.Criteria{}, 0)
	assert.False(t, res.Sufficient)
}

func TestOracleFailureWithCategoryIsSufficient(t *testing.T) {
	var a *Analyzer
	res := a.Analyze(context.Background(), []state.Message{user("jackets")}, state.Criteria{}, 0)
	assert.True(t, res.Sufficient, "category alone is enough once the oracle is down")
}

func TestMergeKeepsEarlierCriteria(t *testing.T) {
	a, err := NewAnalyzer(context.Background(), oracletest.Content(`{"size":"L"}`))
	require.NoError(t, err)

	res := a.Analyze(context.Background(), []state.Message{user("L")},
		state.Criteria{Category: "shirts", ColorPreference: "blue"}, 1)
	assert.Equal(t, state.Criteria{Category: "shirts", ColorPreference: "blue", Size: "L"}, res.Criteria)
	assert.Equal(t, state.Criteria{Size: "L"}, res.Extracted)
}

func TestSufficiencyDecisionList(t *testing.T) {
	cat := state.Criteria{Category: "pants"}
	tests := []struct {
		name     string
		criteria state.Criteria
		patience clarify.Patience
		asked    int
		want     bool
	}{
		{"no category", state.Criteria{Size: "M"}, clarify.PatienceLow, 5, false},
		{"impatient after a question", cat, clarify.PatienceLow, 1, true},
		{"impatient before any question", cat, clarify.PatienceLow, 0, false},
		{"category and size", cat.With(state.AttrSize, "32"), clarify.PatienceNormal, 0, true},
		{"fatigue ceiling", cat, clarify.PatienceNormal, 3, true},
		{"below ceiling", cat, clarify.PatienceNormal, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sufficient(tt.criteria, tt.patience, tt.asked))
		})
	}
}

func TestFatigueCeilingAlwaysSufficient(t *testing.T) {
	for asked := FatigueCeiling; asked < FatigueCeiling+5; asked++ {
		assert.True(t, Sufficient(state.Criteria{Category: "shoes"}, clarify.PatienceNormal, asked))
	}
}

func TestKeywordExtractLaterTurnsWin(t *testing.T) {
	got := KeywordExtract([]state.Message{
		user("black hoodies"),
		{Role: state.RoleAssistant, Text: "What size? We have red ones too."},
		user("actually red, size L"),
	})
	assert.Equal(t, state.Criteria{Category: "hoodies", ColorPreference: "red", Size: "L"}, got)
}

func TestAnalyzeUsesOnlyRecentHistory(t *testing.T) {
	history := []state.Message{user("white shoes")}
	for i := 0; i < HistoryTurns; i++ {
		history = append(history, user("hmm"))
	}
	var a *Analyzer
	res := a.Analyze(context.Background(), history, state.Criteria{}, 0)
	assert.Empty(t, res.Criteria.Category)
}
