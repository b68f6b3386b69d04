package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/tryon"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessions map[string]*state.Session

func (s sessions) Load(_ context.Context, id string) (*state.Session, error) {
	if v, ok := s[id]; ok {
		return v, nil
	}
	return nil, errors.New("missing")
}

type reports struct{ saved []*tryon.Report }

func (r *reports) SaveTryOn(_ context.Context, rep *tryon.Report) error {
	r.saved = append(r.saved, rep)
	return nil
}

type echoComposer struct{}

func (echoComposer) Compose(_ context.Context, person []byte, garments [][]byte, _ string) ([]byte, error) {
	return append(append([]byte{}, person...), garments[0]...), nil
}

type echoFetcher struct{}

func (echoFetcher) Fetch(_ context.Context, url string) ([]byte, error) { return []byte(url), nil }

func TestNewTryOnTaskValidates(t *testing.T) {
	_, err := NewTryOnTask(TryOnPayload{SessionID: "s"})
	assert.Error(t, err)

	task, err := NewTryOnTask(TryOnPayload{SessionID: "s", PersonImage: []byte("p")})
	require.NoError(t, err)
	assert.Equal(t, TaskTryOn, task.Type())
}

func TestTryOnHandlerStoresReport(t *testing.T) {
	now := time.Now()
	s := state.New("s1", 1, now)
	s.SelectedProducts = []state.CartItem{
		state.NewCartItem(state.Product{Name: "Black Hoodie", ImageURL: "h", URL: "u1"}, "M", now),
		state.NewCartItem(state.Product{Name: "Slim Jeans", ImageURL: "j", URL: "u2"}, "M", now),
	}
	saved := &reports{}
	h := newTryOnHandler(sessions{"s1": s}, saved, tryon.NewService(echoComposer{}, echoFetcher{}))

	body, _ := json.Marshal(TryOnPayload{SessionID: "s1", PersonImage: []byte("p")})
	require.NoError(t, h(context.Background(), asynq.NewTask(TaskTryOn, body)))
	require.Len(t, saved.saved, 1)
	rep := saved.saved[0]
	require.Len(t, rep.Results, 2)
	assert.True(t, rep.Results[0].OK)
	assert.Equal(t, []byte("ph"), rep.Results[0].Image)
}

func TestTryOnHandlerBadPayloadSkipsRetry(t *testing.T) {
	h := newTryOnHandler(sessions{}, &reports{}, tryon.NewService(echoComposer{}, echoFetcher{}))
	err := h(context.Background(), asynq.NewTask(TaskTryOn, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestPublisherWithoutBrokerIsNoop(t *testing.T) {
	p := NewCheckoutPublisher(KafkaConf{})
	assert.NoError(t, p.PublishCheckout(context.Background(), CheckoutEvent{SessionID: "s1"}))
	assert.NoError(t, p.Close())
}
