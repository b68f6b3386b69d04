package assistant

import (
	"context"
	"encoding/base64"
	"errors"

	"ShopAssistant/app/common/consts/errno"
	"ShopAssistant/app/common/util"
	"ShopAssistant/app/services/assistant/internal/cart"
	"ShopAssistant/app/services/assistant/internal/graph"
	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/store"
	"ShopAssistant/app/services/assistant/internal/svc"
	"ShopAssistant/app/services/assistant/internal/tryon"
	"ShopAssistant/app/services/assistant/internal/types"

	xerrors "github.com/zeromicro/x/errors"
)

// toCodeError maps domain errors onto coded API errors. Unknown errors pass through as internal.
func toCodeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, graph.ErrEmptyMessage):
		return xerrors.New(errno.InvalidParam, "message is empty")
	case errors.Is(err, graph.ErrForbidden):
		return xerrors.New(errno.SessionForbidden, "session belongs to another user")
	case errors.Is(err, store.ErrBusy):
		return xerrors.New(errno.SessionBusy, "session is busy, try again")
	case errors.Is(err, store.ErrNotFound):
		return xerrors.New(errno.SessionNotFound, "session not found")
	}
	return err
}

// loadOwned loads a session the caller may read.
func loadOwned(ctx context.Context, svcCtx *svc.ServiceContext, id string) (*state.Session, error) {
	if id == "" {
		return nil, xerrors.New(errno.InvalidParam, "session id is required")
	}
	s, err := svcCtx.Store.Load(ctx, id)
	if err != nil {
		return nil, toCodeError(err)
	}
	uid, _ := util.UserIdFromCtx(ctx)
	if s.UserID != 0 && s.UserID != uid {
		return nil, toCodeError(graph.ErrForbidden)
	}
	return s, nil
}

func toProducts(ps []state.Product) []types.Product {
	out := make([]types.Product, 0, len(ps))
	for i, p := range ps {
		out = append(out, types.Product{
			Position:  i + 1,
			Name:      p.Name,
			Price:     p.Price,
			Brand:     p.Brand,
			Url:       p.URL,
			ImageUrl:  p.ImageURL,
			StoreName: p.StoreName,
			IsOnSale:  p.IsOnSale,
		})
	}
	return out
}

func toCartView(items []state.CartItem) types.CartView {
	v := cart.Build(items)
	out := types.CartView{Stores: make([]types.CartStore, 0, len(v.Groups)), Count: v.Count, Total: v.Total}
	for _, g := range v.Groups {
		cs := types.CartStore{Store: g.Store, Subtotal: g.Subtotal, Lines: make([]types.CartLine, 0, len(g.Lines))}
		for _, l := range g.Lines {
			cs.Lines = append(cs.Lines, types.CartLine{
				Position:     l.Position,
				Name:         l.Item.Name,
				Price:        l.Item.Price,
				Url:          l.Item.URL,
				ImageUrl:     l.Item.ImageURL,
				SelectedSize: l.Item.SelectedSize,
				Quantity:     l.Item.Quantity,
				Subtotal:     l.Subtotal,
			})
		}
		out.Stores = append(out.Stores, cs)
	}
	return out
}

func toSessionResponse(s *state.Session) *types.SessionResponse {
	resp := &types.SessionResponse{
		SessionId:      s.ID,
		Stage:          string(s.ConversationStage),
		Messages:       make([]types.Message, 0, len(s.Messages)),
		Criteria:       map[string]string{},
		ProductsShown:  toProducts(s.ProductsShown),
		Cart:           toCartView(s.SelectedProducts),
		QuestionsAsked: s.QuestionsAsked,
		UpdatedAt:      s.UpdatedAt.Unix(),
	}
	for _, m := range s.Messages {
		resp.Messages = append(resp.Messages, types.Message{Role: string(m.Role), Text: m.Text, At: m.At.Unix()})
	}
	for _, attr := range []state.Attribute{state.AttrCategory, state.AttrSize, state.AttrBudget,
		state.AttrColor, state.AttrStyle, state.AttrBrand} {
		if v := s.SearchCriteria.Get(attr); v != "" {
			resp.Criteria[string(attr)] = v
		}
	}
	return resp
}

func toTryOnResponse(r *tryon.Report, status string) *types.TryOnResponse {
	resp := &types.TryOnResponse{SessionId: r.SessionID, Status: status, Results: make([]types.TryOnSlot, 0, len(r.Results))}
	if !r.FinishedAt.IsZero() {
		resp.FinishedAt = r.FinishedAt.Unix()
	}
	for _, res := range r.Results {
		slot := types.TryOnSlot{
			Slot:     string(res.Slot),
			Item:     res.Item,
			Ok:       res.OK,
			Error:    res.Error,
			Attempts: res.Attempts,
		}
		if len(res.Image) > 0 {
			slot.Image = base64.StdEncoding.EncodeToString(res.Image)
		}
		resp.Results = append(resp.Results, slot)
	}
	return resp
}
