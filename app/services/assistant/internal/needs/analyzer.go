package needs

import (
	"context"
	"encoding/json"
	"strings"

	"ShopAssistant/app/services/assistant/internal/clarify"
	"ShopAssistant/app/services/assistant/internal/oracle"
	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/vocab"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	nodeName = string(state.StepNeedsAnalyzer)

	// HistoryTurns is how many trailing messages feed extraction.
	HistoryTurns = 6

	// FatigueCeiling is the question count after which any criteria are enough.
	FatigueCeiling = 3
)

type extraction struct {
	Category string            `json:"category"`
	Size     string            `json:"size"`
	Color    string            `json:"color"`
	Budget   oracle.FlexString `json:"budget"`
	Style    string            `json:"style"`
	Brand    string            `json:"brand"`
}

func (e extraction) criteria() state.Criteria {
	return state.Criteria{
		Category:        vocab.CanonicalCategory(e.Category),
		Size:            strings.ToUpper(strings.TrimSpace(e.Size)),
		ColorPreference: strings.ToLower(strings.TrimSpace(e.Color)),
		BudgetMax:       strings.TrimPrefix(e.Budget.String(), "$"),
		StylePreference: strings.ToLower(strings.TrimSpace(e.Style)),
		BrandPreference: strings.TrimSpace(e.Brand),
	}
}

type extractRequest struct {
	History []state.Message
	Current state.Criteria
}

type Result struct {
	Criteria   state.Criteria
	Extracted  state.Criteria
	Sufficient bool
	Missing    []state.Attribute
	Signal     clarify.Signal
	Status     oracle.Status
}

type Analyzer struct {
	extract *oracle.JSON[extractRequest, extraction]
}

func NewAnalyzer(ctx context.Context, chatModel model.BaseChatModel, opts ...oracle.Option) (*Analyzer, error) {
	o, err := oracle.NewJSON[extractRequest, extraction](ctx, "needs_extract", chatModel, extractPrompt, opts...)
	if err != nil {
		return nil, err
	}
	return &Analyzer{extract: o}, nil
}

// Analyze extracts criteria from recent turns, merges them into current and decides sufficiency.
func (a *Analyzer) Analyze(ctx context.Context, history []state.Message, current state.Criteria, questionsAsked int) Result {
	if len(history) > HistoryTurns {
		history = history[len(history)-HistoryTurns:]
	}
	var lastUser string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == state.RoleUser {
			lastUser = history[i].Text
			break
		}
	}

	var o *oracle.JSON[extractRequest, extraction]
	if a != nil {
		o = a.extract
	}
	var res oracle.Result[state.Criteria]
	if e, err := o.Call(ctx, extractRequest{History: history, Current: current}); err == nil {
		res = oracle.OK(e.criteria(), o.Name())
	} else {
		res = oracle.Fallback(KeywordExtract(history), "keywords", err)
	}
	oracle.Report(ctx, nodeName, res)

	merged := current.Merge(res.Value)
	sig := clarify.DetectStyle(lastUser)

	out := Result{
		Criteria:  merged,
		Extracted: res.Value,
		Missing:   merged.Missing(clarify.Ranking),
		Signal:    sig,
		Status:    res.Status,
	}
	if res.Degraded() {
		out.Sufficient = merged.Has(state.AttrCategory)
	} else {
		out.Sufficient = Sufficient(merged, sig.Patience, questionsAsked)
	}
	return out
}

// Sufficient is an ordered decision list; the first matching rule wins.
func Sufficient(c state.Criteria, patience clarify.Patience, questionsAsked int) bool {
	switch {
	case !c.Has(state.AttrCategory):
		return false
	case patience == clarify.PatienceLow && questionsAsked >= 1:
		return true
	case c.Has(state.AttrSize):
		return true
	case questionsAsked >= FatigueCeiling:
		return true
	}
	return false
}

// KeywordExtract reads user turns oldest first so later mentions overwrite earlier ones.
func KeywordExtract(history []state.Message) state.Criteria {
	var out state.Criteria
	for _, m := range history {
		if m.Role != state.RoleUser {
			continue
		}
		out = out.Merge(state.Criteria{
			Category:        vocab.Category(m.Text),
			Size:            vocab.Size(m.Text),
			ColorPreference: vocab.Color(m.Text),
			BudgetMax:       vocab.Budget(m.Text),
			StylePreference: vocab.Style(m.Text),
			BrandPreference: vocab.Brand(m.Text),
		})
	}
	return out
}

func extractPrompt(_ context.Context, in extractRequest) ([]*schema.Message, error) {
	current, err := json.Marshal(in.Current)
	if err != nil {
		return nil, err
	}
	system := `You extract shopping criteria from a conversation with a clothing store assistant.
Categories and synonyms: ` + taxonomy() + `
Return JSON {"category":"","size":"","color":"","budget":"","style":"","brand":""}.
Use a canonical category name. Budget is the maximum price as a number. Leave a field empty unless the user stated it.`

	var user strings.Builder
	user.WriteString("Known criteria: ")
	user.Write(current)
	user.WriteString("\nConversation:\n")
	for _, m := range in.History {
		user.WriteString(string(m.Role))
		user.WriteString(": ")
		user.WriteString(m.Text)
		user.WriteString("\n")
	}
	return []*schema.Message{schema.SystemMessage(system), schema.UserMessage(user.String())}, nil
}

func taxonomy() string {
	var sb strings.Builder
	for i, cat := range vocab.CategoryNames() {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(cat)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(vocab.Categories[cat], ", "))
		sb.WriteString(")")
	}
	return sb.String()
}
