package assistant

import (
	"context"
	"errors"

	"ShopAssistant/app/common/consts/errno"
	"ShopAssistant/app/services/assistant/internal/store"
	"ShopAssistant/app/services/assistant/internal/svc"
	"ShopAssistant/app/services/assistant/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
	xerrors "github.com/zeromicro/x/errors"
)

type GetTryOnLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetTryOnLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetTryOnLogic {
	return &GetTryOnLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetTryOnLogic) GetTryOn(req *types.SessionRequest) (resp *types.TryOnResponse, err error) {
	s, err := loadOwned(l.ctx, l.svcCtx, req.SessionId)
	if err != nil {
		return nil, err
	}
	rep, err := l.svcCtx.Store.LoadTryOn(l.ctx, s.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, xerrors.New(errno.TryOnUnavailable, "no try-on results yet")
	}
	if err != nil {
		return nil, err
	}
	return toTryOnResponse(rep, "done"), nil
}
