package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ShopAssistant/app/services/assistant/internal/oracle"
	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/vocab"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/zeromicro/go-zero/core/logx"
)

const nodeName = string(state.StepIntentClassifier)

type request struct {
	Message string
	Context Context
}

type Classifier struct {
	primary   *oracle.JSON[request, decision]
	secondary *oracle.JSON[request, decision]
}

// NewClassifier wires the primary and secondary oracles. Either model may be nil,
// in which case that stage is skipped.
func NewClassifier(ctx context.Context, primary, secondary model.BaseChatModel, opts ...oracle.Option) (*Classifier, error) {
	opts = append(opts, oracle.WithTool(buildDecisionTool()))
	p, err := oracle.NewJSON[request, decision](ctx, "intent_primary", primary, buildPrompt, opts...)
	if err != nil {
		return nil, err
	}
	s, err := oracle.NewJSON[request, decision](ctx, "intent_secondary", secondary, buildPrompt, opts...)
	if err != nil {
		return nil, err
	}
	return &Classifier{primary: p, secondary: s}, nil
}

// Classify never fails. Degraded answers carry a fallback status, and when
// nothing but the last rule matched SystemError is set.
func (c *Classifier) Classify(ctx context.Context, msg string, cc Context) Classification {
	if IsUrgent(msg) {
		cls := Classification{
			Primary:    state.IntentComplaint,
			Confidence: 0.9,
			Reasoning:  "escalation keywords",
			Sentiment:  SentimentFrustrated,
			Urgency:    UrgencyHigh,
			Source:     "fast_path",
			Status:     oracle.StatusOK,
		}
		return finish(cls, msg, cc)
	}

	res := c.consult(ctx, msg, cc)
	oracle.Report(ctx, nodeName, res)
	cls := res.Value
	cls.Status = res.Status
	return finish(cls, msg, cc)
}

func (c *Classifier) consult(ctx context.Context, msg string, cc Context) oracle.Result[Classification] {
	in := request{Message: msg, Context: cc}
	var causes []string

	if c != nil {
		for _, o := range []*oracle.JSON[request, decision]{c.primary, c.secondary} {
			if o == nil {
				continue
			}
			d, err := o.Call(ctx, in)
			if err == nil {
				cls, convErr := d.toClassification(o.Name())
				if convErr == nil {
					if o == c.primary {
						return oracle.OK(cls, o.Name())
					}
					return oracle.Fallback(cls, o.Name(), joinCauses(causes))
				}
				err = convErr
			}
			logx.WithContext(ctx).Errorf("%s: %s failed: %v", nodeName, o.Name(), err)
			causes = append(causes, fmt.Sprintf("%s: %v", o.Name(), err))
		}
	}

	cls := classifyByRules(msg, cc)
	if cls.Primary == state.IntentGeneral {
		cls.SystemError = true
	}
	return oracle.Fallback(cls, "rules", joinCauses(causes))
}

func joinCauses(causes []string) error {
	if len(causes) == 0 {
		return oracle.ErrUnavailable
	}
	return errors.New(strings.Join(causes, "; "))
}

// finish fills entities the oracle may have missed, applies business rules and picks the next node.
func finish(cls Classification, msg string, cc Context) Classification {
	kw := keywordCriteria(msg)
	cls.Entities.Criteria = kw.Merge(cls.Entities.Criteria)
	cls.Entities.Criteria.Category = vocab.CanonicalCategory(cls.Entities.Criteria.Category)

	if cls.Primary == state.IntentCart && cls.Entities.CartOperation == "" {
		if op, ok := CartOperation(msg); ok {
			cls.Entities.CartOperation = op
		} else {
			cls.Entities.CartOperation = state.CartAdd
		}
	}
	if cls.Entities.CartOperation == state.CartRemove && len(cls.Entities.RemovalIndices) == 0 {
		cls.Entities.RemovalIndices = vocab.Indices(msg, cc.CartCount)
	}

	cls = ApplyBusinessRules(cls, msg, cc)
	cls.NextAction = NextNode(cls.Primary, cc)
	return cls
}

func buildPrompt(_ context.Context, in request) ([]*schema.Message, error) {
	ctxJSON, err := json.Marshal(map[string]any{
		"stage":                in.Context.Stage,
		"products_shown":       in.Context.ProductsShown,
		"cart_items":           in.Context.CartCount,
		"recent_intents":       in.Context.RecentIntents,
		"turn_count":           in.Context.TurnCount,
		"criteria":             in.Context.Criteria,
		"awaiting_selection":   in.Context.AwaitingSelection,
		"awaiting_cart_action": in.Context.AwaitingCartAction,
	})
	if err != nil {
		return nil, err
	}

	system := `You classify messages sent to a clothing shopping assistant.
Intents: greeting, search, selection, cart, checkout, general, clarification, complaint.
- selection: the user picks from products already shown (numbers, ordinals, descriptions).
- clarification: the user answers a question about size, color, budget, style or brand.
- cart: view, remove from, clear or add to the cart. Removal positions are 0-based.
Call submit_intent_decision with your analysis. Do not reply with prose.`

	var user strings.Builder
	user.WriteString("Conversation context: ")
	user.Write(ctxJSON)
	user.WriteString("\nMessage: ")
	user.WriteString(in.Message)

	return []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user.String()),
	}, nil
}
