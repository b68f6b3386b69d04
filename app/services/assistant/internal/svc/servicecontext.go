package svc

import (
	"context"
	"time"

	"ShopAssistant/app/common/middleware"
	"ShopAssistant/app/common/snowflake"
	"ShopAssistant/app/services/assistant/internal/clarify"
	"ShopAssistant/app/services/assistant/internal/config"
	"ShopAssistant/app/services/assistant/internal/graph"
	"ShopAssistant/app/services/assistant/internal/intent"
	"ShopAssistant/app/services/assistant/internal/mq"
	"ShopAssistant/app/services/assistant/internal/needs"
	"ShopAssistant/app/services/assistant/internal/oracle"
	"ShopAssistant/app/services/assistant/internal/search"
	"ShopAssistant/app/services/assistant/internal/selection"
	"ShopAssistant/app/services/assistant/internal/store"
	"ShopAssistant/app/services/assistant/internal/tryon"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/hibiken/asynq"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest"
)

type ServiceContext struct {
	Config config.Config

	AuthMiddleware rest.Middleware

	Store  store.Store
	Driver *graph.Driver

	CheckoutPublisher *mq.CheckoutPublisher
	AsynqClient       *asynq.Client
	TryOn             *tryon.Service
}

func NewServiceContext(c config.Config) *ServiceContext {
	logx.MustSetup(c.LogConf)

	if c.SnowflakeNode > 0 {
		if err := snowflake.SetNodeID(c.SnowflakeNode); err != nil {
			logx.Errorf("failed to set snowflake node id: %v", err)
		}
	}

	ctx := context.Background()
	primary := newChatModel(ctx, "primary", c.ChatModel)
	fallback := newChatModel(ctx, "fallback", c.FallbackModel)
	opts := []oracle.Option{oracle.WithTimeout(c.Turn.OracleTimeout)}

	nodes := &graph.Nodes{
		Classifier:   must(intent.NewClassifier(ctx, primary, fallback, opts...)),
		Analyzer:     must(needs.NewAnalyzer(ctx, primary, opts...)),
		Asker:        must(clarify.NewAsker(ctx, primary, opts...)),
		Search:       newPipeline(c.Search),
		Relevance:    must(search.NewRelevanceFilter(ctx, primary, opts...)),
		Resolver:     must(selection.NewResolver(ctx, primary, opts...)),
		Responder:    must(graph.NewResponder(ctx, primary, opts...)),
		DisplayLimit: c.Search.DisplayLimit,
	}
	publisher := mq.NewCheckoutPublisher(c.KafkaConf)
	nodes.Publisher = publisher

	g, err := graph.Build(ctx, nodes)
	if err != nil {
		logx.Must(err)
	}

	st := newStore(c.Store, c.Turn.Timeout)
	sc := &ServiceContext{
		Config:            c,
		AuthMiddleware:    middleware.NewAuthMiddleware(c.Auth.AccessSecret, c.Auth.Required).Handle,
		Store:             st,
		Driver:            graph.NewDriver(st, g, c.Turn.Timeout),
		CheckoutPublisher: publisher,
	}

	if c.TryOn.ComposeEndpoint != "" {
		sc.TryOn = tryon.NewService(
			tryon.HTTPComposer{Endpoint: c.TryOn.ComposeEndpoint},
			tryon.HTTPFetcher{},
			tryon.WithMaxAttempts(c.TryOn.MaxAttempts),
			tryon.WithInitialInterval(c.TryOn.InitialInterval))
		if addr := asynqAddr(c); addr != "" {
			sc.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{Addr: addr})
		}
	}
	return sc
}

// newChatModel returns nil when the model is not configured, leaving the
// oracles on their rule-based fallbacks.
func newChatModel(ctx context.Context, name string, mc config.ModelConf) model.BaseChatModel {
	if !mc.Enabled() {
		logx.Infow("chat model not configured", logx.Field("model", name))
		return nil
	}
	cfg := &ark.ChatModelConfig{
		BaseURL: mc.BaseUrl,
		APIKey:  mc.APIKey,
		Model:   mc.Model,
	}
	cm, err := ark.NewChatModel(ctx, cfg)
	if err != nil {
		logx.Errorw("init ark chat model failed", logx.Field("model", name), logx.Field("err", err))
		return nil
	}
	logx.Infow("ark chat model initialized", logx.Field("model", name))
	return cm
}

func newPipeline(c config.SearchConf) *search.Pipeline {
	sources := make([]search.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		sources = append(sources, search.Source{
			Name:       s.Name,
			Priority:   s.Priority,
			MaxResults: s.MaxResults,
			Timeout:    s.Timeout,
			Provider:   search.NewHTTPSource(s.Name, s.Endpoint),
		})
	}
	return search.NewPipeline(c.TotalLimit, sources...)
}

func newStore(c config.StoreConf, turnTimeout time.Duration) store.Store {
	if c.Type == "redis" {
		return store.NewRedisStore(redis.MustNewRedis(c.Redis), store.WithTurnTimeout(turnTimeout))
	}
	return store.NewMemoryStore()
}

func asynqAddr(c config.Config) string {
	if c.AsynqConf.Addr != "" {
		return c.AsynqConf.Addr
	}
	return c.Store.Redis.Host
}

func must[T any](v T, err error) T {
	logx.Must(err)
	return v
}
