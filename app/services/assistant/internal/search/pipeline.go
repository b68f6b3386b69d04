package search

import (
	"context"
	"sort"
	"time"

	"ShopAssistant/app/services/assistant/internal/metrics"
	"ShopAssistant/app/services/assistant/internal/state"

	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSourceLimit   = 10
	defaultTotalLimit    = 30
	defaultSourceTimeout = 5 * time.Second
)

// Source is one configured store. Lower Priority values sort first.
type Source struct {
	Name       string
	Priority   int
	MaxResults int
	Timeout    time.Duration
	Provider   Provider
}

type Pipeline struct {
	sources    []Source
	totalLimit int
}

func NewPipeline(totalLimit int, sources ...Source) *Pipeline {
	if totalLimit <= 0 {
		totalLimit = defaultTotalLimit
	}
	return &Pipeline{sources: sources, totalLimit: totalLimit}
}

type ranked struct {
	product  state.Product
	priority int
	source   int
	pos      int
}

// Fetch queries every source concurrently and merges the results. A source
// that fails or times out is logged and contributes nothing.
func (p *Pipeline) Fetch(ctx context.Context, query string) []state.Product {
	if p == nil || len(p.sources) == 0 {
		return []state.Product{}
	}

	results := make([][]state.Product, len(p.sources))
	var group errgroup.Group
	for i, src := range p.sources {
		group.Go(func() error {
			results[i] = p.query(ctx, src, query)
			return nil
		})
	}
	_ = group.Wait()

	var merged []ranked
	for i, items := range results {
		for pos, item := range items {
			merged = append(merged, ranked{product: item, priority: p.sources[i].Priority, source: i, pos: pos})
		}
	}
	order(merged)

	if len(merged) > p.totalLimit {
		merged = merged[:p.totalLimit]
	}
	out := make([]state.Product, 0, len(merged))
	for _, r := range merged {
		out = append(out, r.product)
	}
	return out
}

func (p *Pipeline) query(ctx context.Context, src Source, query string) (items []state.Product) {
	limit := src.MaxResults
	if limit <= 0 {
		limit = defaultSourceLimit
	}
	timeout := src.Timeout
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logx.WithContext(ctx).Errorf("search source %s panicked: %v", src.Name, r)
			metrics.SearchSourceResults.Inc(src.Name, "panic")
			items = nil
		}
	}()

	if src.Provider == nil {
		return nil
	}
	got, err := src.Provider.Search(ctx, query, limit)
	if err != nil {
		logx.WithContext(ctx).Errorf("search source %s failed: %v", src.Name, err)
		metrics.SearchSourceResults.Inc(src.Name, "error")
		return nil
	}
	metrics.SearchSourceResults.Inc(src.Name, "ok")
	if len(got) > limit {
		got = got[:limit]
	}
	return got
}

// order sorts by source priority, then on-sale first, then name. Equal
// items keep their source and position order.
func order(items []ranked) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		if a.product.IsOnSale != b.product.IsOnSale {
			return a.product.IsOnSale
		}
		if a.product.Name != b.product.Name {
			return a.product.Name < b.product.Name
		}
		if a.source != b.source {
			return a.source < b.source
		}
		return a.pos < b.pos
	})
}
