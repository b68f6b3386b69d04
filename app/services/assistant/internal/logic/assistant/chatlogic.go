package assistant

import (
	"context"

	"ShopAssistant/app/common/util"
	"ShopAssistant/app/services/assistant/internal/graph"
	"ShopAssistant/app/services/assistant/internal/svc"
	"ShopAssistant/app/services/assistant/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ChatLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewChatLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ChatLogic {
	return &ChatLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ChatLogic) Chat(req *types.ChatRequest) (resp *types.ChatResponse, err error) {
	uid, _ := util.UserIdFromCtx(l.ctx)
	res, err := l.svcCtx.Driver.Handle(l.ctx, graph.Request{
		SessionID: req.SessionId,
		UserID:    uid,
		Message:   req.Message,
	})
	if err != nil {
		l.Logger.Errorf("chat turn failed: %v", err)
		return nil, toCodeError(err)
	}

	s := res.Session
	return &types.ChatResponse{
		SessionId:     s.ID,
		Replies:       res.Replies,
		Stage:         string(s.ConversationStage),
		ProductsShown: toProducts(s.ProductsShown),
		Cart:          toCartView(s.SelectedProducts),
		Degraded:      res.Degraded,
	}, nil
}
