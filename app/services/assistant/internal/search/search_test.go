package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ShopAssistant/app/services/assistant/internal/oracle"
	"ShopAssistant/app/services/assistant/internal/oracle/oracletest"
	"ShopAssistant/app/services/assistant/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticProvider(items ...state.Product) Provider {
	return ProviderFunc(func(_ context.Context, _ string, _ int) ([]state.Product, error) {
		return items, nil
	})
}

func names(items []state.Product) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, "clothing", BuildQuery(state.Criteria{}))
	assert.Equal(t, "black hoodies", BuildQuery(state.Criteria{Category: "hoodies", ColorPreference: "black", Size: "M"}))
	assert.Equal(t, "red dresses vintage", BuildQuery(state.Criteria{Category: "dresses", ColorPreference: "red", StylePreference: "vintage"}))
}

func TestFetchMergesAndOrders(t *testing.T) {
	p := NewPipeline(30,
		Source{Name: "secondary", Priority: 2, Provider: staticProvider(
			state.Product{Name: "Alpha Tee"},
			state.Product{Name: "Zeta Tee", IsOnSale: true},
		)},
		Source{Name: "primary", Priority: 1, Provider: staticProvider(
			state.Product{Name: "Beta Hoodie"},
			state.Product{Name: "Yankee Hoodie", IsOnSale: true},
			state.Product{Name: "Alpha Hoodie"},
		)},
	)

	got := p.Fetch(context.Background(), "hoodie")
	assert.Equal(t, []string{"Yankee Hoodie", "Alpha Hoodie", "Beta Hoodie", "Zeta Tee", "Alpha Tee"}, names(got))
}

func TestFailingSourceContributesNothing(t *testing.T) {
	boom := ProviderFunc(func(context.Context, string, int) ([]state.Product, error) {
		return nil, errors.New("connection reset")
	})
	panicky := ProviderFunc(func(context.Context, string, int) ([]state.Product, error) {
		panic("selector changed")
	})
	slow := ProviderFunc(func(ctx context.Context, _ string, _ int) ([]state.Product, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	p := NewPipeline(0,
		Source{Name: "boom", Priority: 1, Provider: boom},
		Source{Name: "panicky", Priority: 1, Provider: panicky},
		Source{Name: "slow", Priority: 1, Timeout: 20 * time.Millisecond, Provider: slow},
		Source{Name: "ok", Priority: 2, Provider: staticProvider(state.Product{Name: "Only One"})},
	)

	got := p.Fetch(context.Background(), "anything")
	assert.Equal(t, []string{"Only One"}, names(got))
}

func TestFetchCaps(t *testing.T) {
	many := make([]state.Product, 0, 8)
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		many = append(many, state.Product{Name: n})
	}
	p := NewPipeline(5,
		Source{Name: "one", Priority: 1, MaxResults: 3, Provider: staticProvider(many...)},
		Source{Name: "two", Priority: 2, MaxResults: 4, Provider: staticProvider(many...)},
	)
	got := p.Fetch(context.Background(), "x")
	assert.Equal(t, []string{"a", "b", "c", "a", "b"}, names(got))

	assert.Empty(t, NewPipeline(5).Fetch(context.Background(), "x"))
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "black hoodies", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"products": []map[string]any{
				{"name": "Black Hoodie", "price": "$45.00", "url": "https://shop/1", "is_on_sale": true},
				{"name": "", "price": "$1"},
				{"name": "Black Zip Hoodie", "price": "$55.00", "store_name": "Outlet"},
			},
		})
	}))
	defer srv.Close()

	src := NewHTTPSource("Main Store", srv.URL)
	got, err := src.Search(context.Background(), "black hoodies", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Main Store", got[0].StoreName)
	assert.True(t, got[0].IsOnSale)
	assert.Equal(t, "Outlet", got[1].StoreName)
	assert.False(t, got[1].ExtractedAt.IsZero())
}

func TestHTTPSourceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewHTTPSource("s", srv.URL)
	got, err := src.Search(context.Background(), "missing", 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = src.Search(context.Background(), "boom", 5)
	assert.Error(t, err)
}

func TestRelevanceFilter(t *testing.T) {
	candidates := []state.Product{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	f, err := NewRelevanceFilter(context.Background(), oracletest.Content(`{"relevant":[2,0,9]}`))
	require.NoError(t, err)
	res := f.Filter(context.Background(), "x", candidates)
	assert.Equal(t, oracle.StatusOK, res.Status)
	assert.Equal(t, []string{"a", "c"}, names(res.Value))

	f, err = NewRelevanceFilter(context.Background(), oracletest.Content(`{"relevant":[]}`))
	require.NoError(t, err)
	res = f.Filter(context.Background(), "x", candidates)
	assert.Equal(t, oracle.StatusOK, res.Status)
	assert.Empty(t, res.Value)
}

func TestRelevanceFilterFallsBackToFullList(t *testing.T) {
	candidates := []state.Product{{Name: "a"}, {Name: "b"}}
	for _, m := range []*oracletest.Model{
		oracletest.Failing(),
		oracletest.Content("they all look great"),
		oracletest.Content(`{"other":1}`),
		oracletest.Content(`{"relevant":[7]}`),
	} {
		f, err := NewRelevanceFilter(context.Background(), m)
		require.NoError(t, err)
		res := f.Filter(context.Background(), "x", candidates)
		assert.Equal(t, oracle.StatusFallback, res.Status)
		assert.Equal(t, candidates, res.Value)
	}

	var none *RelevanceFilter
	assert.Equal(t, candidates, none.Filter(context.Background(), "x", candidates).Value)
}
