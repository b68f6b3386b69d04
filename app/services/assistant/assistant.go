package main

import (
	"flag"
	"fmt"

	"ShopAssistant/app/common/response"
	"ShopAssistant/app/services/assistant/internal/bootstrap"
	"ShopAssistant/app/services/assistant/internal/config"
	"ShopAssistant/app/services/assistant/internal/handler"
	"ShopAssistant/app/services/assistant/internal/svc"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"
	"github.com/zeromicro/zero-contrib/zrpc/registry/consul"
)

var configFile = flag.String("f", "etc/assistant.yaml", "the config file")

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c)

	server := rest.MustNewServer(c.RestConf)
	defer server.Stop()

	ctx := svc.NewServiceContext(c)
	handler.RegisterHandlers(server, ctx)
	httpx.SetErrorHandlerCtx(response.ErrorHandler)

	if stop := bootstrap.StartAsynq(ctx); stop != nil {
		defer stop()
	}
	defer ctx.CheckoutPublisher.Close()

	if c.Consul.Host != "" {
		if err := consul.RegisterService(fmt.Sprintf("%s:%d", c.Host, c.Port), c.Consul); err != nil {
			logx.Errorw("register service error", logx.Field("err", err))
			panic(err)
		}
	}

	fmt.Printf("Starting server at %s:%d...\n", c.Host, c.Port)
	server.Start()
}
