package config

import (
	"time"

	"ShopAssistant/app/services/assistant/internal/mq"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/zero-contrib/zrpc/registry/consul"
)

type Config struct {
	rest.RestConf

	Consul consul.Conf `json:",optional"`

	Auth AuthConf

	// ChatModel drives every oracle; FallbackModel is the cheaper second
	// opinion for intent classification.
	ChatModel     ModelConf
	FallbackModel ModelConf `json:",optional"`

	Store  StoreConf
	Search SearchConf
	Turn   TurnConf

	// Use lightweight config structs to avoid mapstructure errors on func fields
	AsynqConf       AsynqRedisConf  `json:",optional"`
	AsynqServerConf AsynqServerConf `json:",optional"`

	KafkaConf mq.KafkaConf `json:",optional"`

	TryOn TryOnConf `json:",optional"`

	SnowflakeNode int64 `json:",optional"`

	LogConf logx.LogConf
}

type AuthConf struct {
	AccessSecret string `json:",optional"`
	Required     bool   `json:",default=false"`
}

type ModelConf struct {
	BaseUrl string `json:",optional"`
	APIKey  string `json:",optional"`
	Model   string `json:",optional"`
}

func (m ModelConf) Enabled() bool {
	return m.APIKey != "" && m.Model != ""
}

type StoreConf struct {
	Type  string          `json:",default=memory,options=memory|redis"`
	Redis redis.RedisConf `json:",optional"`
}

type SearchSourceConf struct {
	Name       string
	Endpoint   string
	Priority   int           `json:",default=0"`
	MaxResults int           `json:",default=10"`
	Timeout    time.Duration `json:",default=5s"`
}

type SearchConf struct {
	Sources      []SearchSourceConf `json:",optional"`
	TotalLimit   int                `json:",default=30"`
	DisplayLimit int                `json:",default=12"`
}

type TurnConf struct {
	Timeout       time.Duration `json:",default=60s"`
	OracleTimeout time.Duration `json:",default=8s"`
}

// Minimal redis client config for Asynq
type AsynqRedisConf struct {
	Addr string `json:",optional"`
}

// Minimal asynq server config
type AsynqServerConf struct {
	Concurrency int            `json:",default=2"`
	Queues      map[string]int `json:",optional"`
}

type TryOnConf struct {
	ComposeEndpoint string        `json:",optional"`
	MaxAttempts     int           `json:",default=4"`
	InitialInterval time.Duration `json:",default=500ms"`
}
