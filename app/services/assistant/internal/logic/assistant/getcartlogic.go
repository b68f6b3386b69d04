package assistant

import (
	"context"

	"ShopAssistant/app/services/assistant/internal/svc"
	"ShopAssistant/app/services/assistant/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GetCartLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetCartLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetCartLogic {
	return &GetCartLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// 购物车只读视图，按店铺分组
func (l *GetCartLogic) GetCart(req *types.SessionRequest) (resp *types.CartView, err error) {
	s, err := loadOwned(l.ctx, l.svcCtx, req.SessionId)
	if err != nil {
		return nil, err
	}
	view := toCartView(s.SelectedProducts)
	return &view, nil
}
