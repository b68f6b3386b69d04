package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ShopAssistant/app/services/assistant/internal/state"

	"github.com/zeromicro/go-zero/rest/httpc"
)

// Provider returns candidate products for a query. No results is an empty
// slice, not an error; errors mean the transport failed.
type Provider interface {
	Search(ctx context.Context, query string, max int) ([]state.Product, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, query string, max int) ([]state.Product, error)

func (f ProviderFunc) Search(ctx context.Context, query string, max int) ([]state.Product, error) {
	return f(ctx, query, max)
}

type searchRequest struct {
	Query string `form:"q"`
	Limit int    `form:"limit"`
}

type productPayload struct {
	Name      string `json:"name"`
	Price     string `json:"price"`
	Brand     string `json:"brand"`
	URL       string `json:"url"`
	ImageURL  string `json:"image_url"`
	StoreName string `json:"store_name"`
	IsOnSale  bool   `json:"is_on_sale"`
}

type searchResponse struct {
	Products []productPayload `json:"products"`
}

// HTTPSource queries a store's JSON search endpoint: GET {endpoint}?q=...&limit=...
type HTTPSource struct {
	Store    string
	Endpoint string
	now      func() time.Time
}

func NewHTTPSource(store, endpoint string) *HTTPSource {
	return &HTTPSource{Store: store, Endpoint: endpoint, now: time.Now}
}

func (h *HTTPSource) Search(ctx context.Context, query string, max int) ([]state.Product, error) {
	resp, err := httpc.Do(ctx, http.MethodGet, h.Endpoint, searchRequest{Query: query, Limit: max})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", h.Store, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []state.Product{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search %s: unexpected status %d", h.Store, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("search %s: decode: %w", h.Store, err)
	}

	now := h.now()
	out := make([]state.Product, 0, len(body.Products))
	for _, p := range body.Products {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		store := p.StoreName
		if store == "" {
			store = h.Store
		}
		out = append(out, state.Product{
			Name:        strings.TrimSpace(p.Name),
			Price:       p.Price,
			Brand:       p.Brand,
			URL:         p.URL,
			ImageURL:    p.ImageURL,
			StoreName:   store,
			IsOnSale:    p.IsOnSale,
			ExtractedAt: now,
		})
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out, nil
}
