package oracle

import (
	"context"

	"ShopAssistant/app/services/assistant/internal/metrics"

	"github.com/zeromicro/go-zero/core/logx"
)

// Report logs a degraded outcome with the node that triggered it and counts every outcome.
func Report[T any](ctx context.Context, node string, r Result[T]) {
	metrics.OracleOutcomes.Inc(node, string(r.Status))
	if !r.Degraded() {
		return
	}
	logx.WithContext(ctx).Infow("oracle degraded",
		logx.Field("node", node),
		logx.Field("status", string(r.Status)),
		logx.Field("source", r.Source),
		logx.Field("err", r.Err),
	)
}
