package search

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"ShopAssistant/app/services/assistant/internal/oracle"
	"ShopAssistant/app/services/assistant/internal/state"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const filterNode = string(state.StepProductPresenter)

type filterRequest struct {
	Request    string
	Candidates []state.Product
}

type filterAnswer struct {
	Relevant *[]int `json:"relevant"`
}

// RelevanceFilter keeps the candidates an oracle judges relevant to the request.
type RelevanceFilter struct {
	judge *oracle.JSON[filterRequest, filterAnswer]
}

func NewRelevanceFilter(ctx context.Context, chatModel model.BaseChatModel, opts ...oracle.Option) (*RelevanceFilter, error) {
	j, err := oracle.NewJSON[filterRequest, filterAnswer](ctx, "relevance", chatModel, filterPrompt, opts...)
	if err != nil {
		return nil, err
	}
	return &RelevanceFilter{judge: j}, nil
}

// Filter returns an order-preserving subset of candidates. When the oracle
// fails or answers with nothing usable the full list comes back.
func (f *RelevanceFilter) Filter(ctx context.Context, request string, candidates []state.Product) oracle.Result[[]state.Product] {
	if len(candidates) == 0 {
		return oracle.OK([]state.Product{}, "empty")
	}
	var j *oracle.JSON[filterRequest, filterAnswer]
	if f != nil {
		j = f.judge
	}

	var res oracle.Result[[]state.Product]
	ans, err := j.Call(ctx, filterRequest{Request: request, Candidates: candidates})
	switch {
	case err != nil:
		res = oracle.Fallback(candidates, "unfiltered", err)
	case ans.Relevant == nil:
		res = oracle.Fallback(candidates, "unfiltered", errors.New("no relevant field"))
	default:
		keep := make(map[int]bool, len(*ans.Relevant))
		for _, i := range *ans.Relevant {
			if i >= 0 && i < len(candidates) {
				keep[i] = true
			}
		}
		if len(keep) == 0 && len(*ans.Relevant) > 0 {
			res = oracle.Fallback(candidates, "unfiltered", errors.New("all indices out of range"))
			break
		}
		out := make([]state.Product, 0, len(keep))
		for i, c := range candidates {
			if keep[i] {
				out = append(out, c)
			}
		}
		res = oracle.OK(out, j.Name())
	}
	oracle.Report(ctx, filterNode, res)
	return res
}

func filterPrompt(_ context.Context, in filterRequest) ([]*schema.Message, error) {
	type line struct {
		Index int    `json:"index"`
		Name  string `json:"name"`
		Price string `json:"price"`
		Store string `json:"store"`
	}
	lines := make([]line, 0, len(in.Candidates))
	for i, c := range in.Candidates {
		lines = append(lines, line{Index: i, Name: c.Name, Price: c.Price, Store: c.StoreName})
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return nil, err
	}
	system := `You judge which products match a shopper's request.
Return JSON {"relevant":[indices]} using the given 0-based indices. Return an empty list if none match.`
	var user strings.Builder
	user.WriteString("Request: ")
	user.WriteString(in.Request)
	user.WriteString("\nProducts: ")
	user.Write(payload)
	return []*schema.Message{schema.SystemMessage(system), schema.UserMessage(user.String())}, nil
}
