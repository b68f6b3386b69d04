package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"ShopAssistant/app/common/consts/biz"
	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/tryon"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps JSON snapshots in process, so callers never share state with the store.
type MemoryStore struct {
	sessions *cache.Cache
	tryons   *cache.Cache

	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: cache.New(biz.SessionTTL, 10*time.Minute),
		tryons:   cache.New(biz.TryOnResultTTL, 10*time.Minute),
		locks:    make(map[string]chan struct{}),
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*state.Session, error) {
	raw, ok := m.sessions.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	var s state.Session
	if err := json.Unmarshal(raw.([]byte), &s); err != nil {
		return nil, err
	}
	s.Normalize()
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *state.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.sessions.Set(s.ID, data, cache.DefaultExpiration)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.sessions.Delete(id)
	m.tryons.Delete(id)
	return nil
}

func (m *MemoryStore) Lock(ctx context.Context, id string) (func(), error) {
	m.mu.Lock()
	ch, ok := m.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locks[id] = ch
	}
	m.mu.Unlock()

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ErrBusy
	}
	var once sync.Once
	return func() { once.Do(func() { <-ch }) }, nil
}

func (m *MemoryStore) SaveTryOn(_ context.Context, rep *tryon.Report) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	m.tryons.Set(rep.SessionID, data, cache.DefaultExpiration)
	return nil
}

func (m *MemoryStore) LoadTryOn(_ context.Context, sessionID string) (*tryon.Report, error) {
	raw, ok := m.tryons.Get(sessionID)
	if !ok {
		return nil, ErrNotFound
	}
	var rep tryon.Report
	if err := json.Unmarshal(raw.([]byte), &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}
