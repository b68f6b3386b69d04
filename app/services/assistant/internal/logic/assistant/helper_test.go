package assistant

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"ShopAssistant/app/common/consts/errno"
	"ShopAssistant/app/common/util"
	"ShopAssistant/app/services/assistant/internal/graph"
	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/store"
	"ShopAssistant/app/services/assistant/internal/svc"
	"ShopAssistant/app/services/assistant/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xerrors "github.com/zeromicro/x/errors"
)

func codeOf(t *testing.T, err error) int {
	t.Helper()
	var cm *xerrors.CodeMsg
	require.ErrorAs(t, err, &cm)
	return cm.Code
}

func TestToCodeError(t *testing.T) {
	assert.NoError(t, toCodeError(nil))
	assert.Equal(t, errno.InvalidParam, codeOf(t, toCodeError(graph.ErrEmptyMessage)))
	assert.Equal(t, errno.SessionForbidden, codeOf(t, toCodeError(graph.ErrForbidden)))
	assert.Equal(t, errno.SessionBusy, codeOf(t, toCodeError(store.ErrBusy)))
	assert.Equal(t, errno.SessionNotFound, codeOf(t, toCodeError(store.ErrNotFound)))
}

func ctxWithUser(uid int64) context.Context {
	r := httptest.NewRequest("GET", "/", nil)
	util.InjectUserId2Ctx(r, uid)
	return r.Context()
}

func TestGetCartOwnership(t *testing.T) {
	now := time.Now()
	st := store.NewMemoryStore()
	owned := state.New("owned", 7, now)
	owned.SelectedProducts = []state.CartItem{
		state.NewCartItem(state.Product{Name: "Hoodie", Price: "$30.00", StoreName: "Acme"}, "L", now),
		state.NewCartItem(state.Product{Name: "Cap", Price: "$10.00", StoreName: "Hats Co"}, "", now),
	}
	owned.SelectedProducts[0].Quantity = 2
	require.NoError(t, st.Save(context.Background(), owned))
	require.NoError(t, st.Save(context.Background(), state.New("anon", 0, now)))

	sc := &svc.ServiceContext{Store: st}

	view, err := NewGetCartLogic(ctxWithUser(7), sc).GetCart(&types.SessionRequest{SessionId: "owned"})
	require.NoError(t, err)
	assert.Equal(t, 3, view.Count)
	assert.InDelta(t, 70.0, view.Total, 0.001)
	assert.Len(t, view.Stores, 2)

	_, err = NewGetCartLogic(ctxWithUser(8), sc).GetCart(&types.SessionRequest{SessionId: "owned"})
	assert.Equal(t, errno.SessionForbidden, codeOf(t, err))

	_, err = NewGetCartLogic(context.Background(), sc).GetCart(&types.SessionRequest{SessionId: "missing"})
	assert.Equal(t, errno.SessionNotFound, codeOf(t, err))

	_, err = NewGetCartLogic(context.Background(), sc).GetCart(&types.SessionRequest{})
	assert.Equal(t, errno.InvalidParam, codeOf(t, err))

	view, err = NewGetCartLogic(ctxWithUser(9), sc).GetCart(&types.SessionRequest{SessionId: "anon"})
	require.NoError(t, err)
	assert.Zero(t, view.Count)
}

func TestToSessionResponse(t *testing.T) {
	now := time.Now()
	s := state.New("s1", 0, now)
	s.AddUserMessage("black hoodie size L", now)
	s.SearchCriteria.Category = "hoodies"
	s.SearchCriteria.Size = "L"
	s.ProductsShown = []state.Product{{Name: "A"}, {Name: "B"}}

	resp := toSessionResponse(s)
	assert.Equal(t, "s1", resp.SessionId)
	assert.Len(t, resp.Messages, 1)
	assert.Equal(t, "hoodies", resp.Criteria["category"])
	assert.Equal(t, "L", resp.Criteria["size"])
	assert.NotContains(t, resp.Criteria, "brand_preference")
	assert.Equal(t, 2, resp.ProductsShown[1].Position)
}
