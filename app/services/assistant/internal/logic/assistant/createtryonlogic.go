package assistant

import (
	"context"
	"encoding/base64"

	"ShopAssistant/app/common/consts/errno"
	"ShopAssistant/app/services/assistant/internal/mq"
	"ShopAssistant/app/services/assistant/internal/svc"
	"ShopAssistant/app/services/assistant/internal/tryon"
	"ShopAssistant/app/services/assistant/internal/types"

	"github.com/hibiken/asynq"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/threading"
	xerrors "github.com/zeromicro/x/errors"
)

type CreateTryOnLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCreateTryOnLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CreateTryOnLogic {
	return &CreateTryOnLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// CreateTryOn queues a try-on of the session's cart. Without a queue it runs in the background.
func (l *CreateTryOnLogic) CreateTryOn(req *types.TryOnRequest) (resp *types.TryOnResponse, err error) {
	if l.svcCtx.TryOn == nil {
		return nil, xerrors.New(errno.TryOnUnavailable, "virtual try-on is not enabled")
	}
	s, err := loadOwned(l.ctx, l.svcCtx, req.SessionId)
	if err != nil {
		return nil, err
	}
	if len(tryon.Representatives(s.SelectedProducts)) == 0 {
		return nil, xerrors.New(errno.EmptyCart, "add some clothing to your cart first")
	}
	person, err := base64.StdEncoding.DecodeString(req.PersonImage)
	if err != nil || len(person) == 0 {
		return nil, xerrors.New(errno.InvalidParam, "person_image must be base64 encoded")
	}

	payload := mq.TryOnPayload{SessionID: s.ID, UserID: s.UserID, PersonImage: person}
	if l.svcCtx.AsynqClient != nil {
		task, err := mq.NewTryOnTask(payload)
		if err != nil {
			return nil, xerrors.New(errno.InvalidParam, err.Error())
		}
		if _, err := l.svcCtx.AsynqClient.Enqueue(task, asynq.Queue(mq.QueueTryOn), asynq.MaxRetry(1)); err != nil {
			l.Logger.Errorf("enqueue try-on for %s failed: %v", s.ID, err)
			return nil, err
		}
	} else {
		items := s.SelectedProducts
		threading.GoSafe(func() {
			ctx := context.Background()
			rep := l.svcCtx.TryOn.Run(ctx, s.ID, person, items)
			if err := l.svcCtx.Store.SaveTryOn(ctx, &rep); err != nil {
				logx.Errorf("save try-on report for %s failed: %v", s.ID, err)
			}
		})
	}
	return &types.TryOnResponse{SessionId: s.ID, Status: "queued", Results: []types.TryOnSlot{}}, nil
}
