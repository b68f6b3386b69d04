package bootstrap

import (
	"github.com/hibiken/asynq"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/threading"

	"ShopAssistant/app/services/assistant/internal/mq"
	"ShopAssistant/app/services/assistant/internal/svc"
)

// StartAsynq runs the try-on worker when a queue is configured; returns a stop func.
func StartAsynq(sc *svc.ServiceContext) func() {
	if sc.AsynqClient == nil || sc.TryOn == nil {
		return nil
	}
	addr := sc.Config.AsynqConf.Addr
	if addr == "" {
		addr = sc.Config.Store.Redis.Host
	}
	queues := sc.Config.AsynqServerConf.Queues
	if len(queues) == 0 {
		queues = map[string]int{mq.QueueTryOn: 1}
	}
	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: addr}, asynq.Config{
		Concurrency: sc.Config.AsynqServerConf.Concurrency,
		Queues:      queues,
	})
	mux := mq.NewAsynqMux(sc.Store, sc.Store, sc.TryOn)
	threading.GoSafe(func() {
		if err := srv.Run(mux); err != nil {
			logx.Errorf("asynq server stopped: %v", err)
		}
	})
	return func() {
		srv.Shutdown()
		_ = sc.AsynqClient.Close()
	}
}
