package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/tryon"

	"github.com/hibiken/asynq"
	"github.com/zeromicro/go-zero/core/logx"
)

type SessionLoader interface {
	Load(ctx context.Context, id string) (*state.Session, error)
}

type ReportSaver interface {
	SaveTryOn(ctx context.Context, r *tryon.Report) error
}

func NewTryOnTask(p TryOnPayload) (*asynq.Task, error) {
	if p.SessionID == "" || len(p.PersonImage) == 0 {
		return nil, errors.New("try-on task needs a session and a person image")
	}
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTryOn, body), nil
}

func NewAsynqMux(sessions SessionLoader, reports ReportSaver, runner *tryon.Service) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTryOn, newTryOnHandler(sessions, reports, runner))
	return mux
}

func newTryOnHandler(sessions SessionLoader, reports ReportSaver, runner *tryon.Service) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p TryOnPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("decode try-on payload: %v: %w", err, asynq.SkipRetry)
		}
		s, err := sessions.Load(ctx, p.SessionID)
		if err != nil {
			return fmt.Errorf("load session %s: %w", p.SessionID, err)
		}

		rep := runner.Run(ctx, s.ID, p.PersonImage, s.SelectedProducts)
		ok := 0
		for _, r := range rep.Results {
			if r.OK {
				ok++
			}
		}
		logx.WithContext(ctx).Infow("try-on finished",
			logx.Field("session", s.ID),
			logx.Field("slots", len(rep.Results)),
			logx.Field("ok", ok))
		return reports.SaveTryOn(ctx, &rep)
	}
}
