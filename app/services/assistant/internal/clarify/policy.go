package clarify

import (
	"context"
	"fmt"
	"strings"

	"ShopAssistant/app/services/assistant/internal/oracle"
	"ShopAssistant/app/services/assistant/internal/state"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const nodeName = string(state.StepClarificationAsker)

// Ranking orders attributes by how much they narrow a search.
var Ranking = []state.Attribute{
	state.AttrCategory,
	state.AttrSize,
	state.AttrBudget,
	state.AttrColor,
	state.AttrStyle,
	state.AttrBrand,
}

// Pick returns the highest-ranked attribute in missing.
func Pick(missing []state.Attribute) (state.Attribute, bool) {
	set := make(map[state.Attribute]bool, len(missing))
	for _, a := range missing {
		set[a] = true
	}
	for _, a := range Ranking {
		if set[a] {
			return a, true
		}
	}
	return "", false
}

type Question struct {
	Attribute state.Attribute
	Text      string
	Status    oracle.Status
}

type phrasing struct {
	Attribute string
	Style     Style
	Criteria  state.Criteria
	Narrowing bool
}

type Asker struct {
	phrase *oracle.Text[phrasing]
}

func NewAsker(ctx context.Context, chatModel model.BaseChatModel, opts ...oracle.Option) (*Asker, error) {
	t, err := oracle.NewText[phrasing](ctx, "clarify", chatModel, phrasingPrompt, opts...)
	if err != nil {
		return nil, err
	}
	return &Asker{phrase: t}, nil
}

// Ask picks exactly one attribute and phrases one question about it. With
// nothing missing it asks a narrowing question instead.
func (a *Asker) Ask(ctx context.Context, criteria state.Criteria, missing []state.Attribute, sig Signal) Question {
	attr, ok := Pick(missing)
	in := phrasing{Attribute: string(attr), Style: sig.Style, Criteria: criteria, Narrowing: !ok}

	var res oracle.Result[string]
	var p *oracle.Text[phrasing]
	if a != nil {
		p = a.phrase
	}
	if text, err := p.Call(ctx, in); err == nil && strings.Contains(text, "?") {
		res = oracle.OK(text, "clarify")
	} else {
		if err == nil {
			err = fmt.Errorf("not a question: %q", text)
		}
		res = oracle.Fallback(template(attr, sig.Style, criteria, !ok), "template", err)
	}
	oracle.Report(ctx, nodeName, res)
	return Question{Attribute: attr, Text: res.Value, Status: res.Status}
}

func phrasingPrompt(_ context.Context, in phrasing) ([]*schema.Message, error) {
	system := `You write one short clarifying question for a clothing shopping assistant.
Ask about exactly one thing. Brief users get one short sentence; detailed users may get a sentence of context.
Reply with the question only.`
	var user string
	if in.Narrowing {
		user = fmt.Sprintf("The shopper wants %s and has many matches. Ask one question that narrows the results. Tone: %s.",
			in.Criteria.Describe(), in.Style)
	} else {
		user = fmt.Sprintf("The shopper wants %s. Ask about: %s. Tone: %s.", in.Criteria.Describe(), in.Attribute, in.Style)
	}
	return []*schema.Message{schema.SystemMessage(system), schema.UserMessage(user)}, nil
}
