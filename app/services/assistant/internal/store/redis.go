package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ShopAssistant/app/common/consts/biz"
	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/tryon"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

const (
	lockPollInterval = 50 * time.Millisecond
	lockMargin       = 15 * time.Second
)

type RedisStore struct {
	rds         *redis.Redis
	lockSeconds int
}

type RedisOption func(*RedisStore)

// WithTurnTimeout keeps the session lock alive for a whole turn plus the
// time to load and save the snapshot around it.
func WithTurnTimeout(d time.Duration) RedisOption {
	return func(r *RedisStore) {
		r.lockSeconds = LockSeconds(d)
	}
}

func NewRedisStore(rds *redis.Redis, opts ...RedisOption) *RedisStore {
	r := &RedisStore{rds: rds, lockSeconds: biz.SessionLockTTL}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LockSeconds is the lock expiry for a turn timeout, never below the default.
func LockSeconds(turnTimeout time.Duration) int {
	secs := int((turnTimeout + lockMargin + time.Second - 1) / time.Second)
	if secs < biz.SessionLockTTL {
		return biz.SessionLockTTL
	}
	return secs
}

func (r *RedisStore) Load(ctx context.Context, id string) (*state.Session, error) {
	raw, err := r.rds.GetCtx(ctx, biz.SessionKeyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if raw == "" {
		return nil, ErrNotFound
	}
	var s state.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	s.Normalize()
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *state.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rds.SetexCtx(ctx, biz.SessionKeyPrefix+s.ID, string(data), int(biz.SessionTTL.Seconds()))
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	_, err := r.rds.DelCtx(ctx, biz.SessionKeyPrefix+id, biz.TryOnKeyPrefix+id)
	return err
}

// Lock spins on a redis lock until it is acquired or ctx ends.
func (r *RedisStore) Lock(ctx context.Context, id string) (func(), error) {
	lock := redis.NewRedisLock(r.rds, biz.SessionLockKey+id)
	lock.SetExpire(r.lockSeconds)

	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()
	for {
		ok, err := lock.AcquireCtx(ctx)
		if err != nil {
			return nil, fmt.Errorf("lock session %s: %w", id, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ErrBusy
		case <-ticker.C:
		}
	}

	return func() {
		// the turn context may already be done
		if _, err := lock.ReleaseCtx(context.Background()); err != nil {
			logx.Errorf("release session lock %s: %v", id, err)
		}
	}, nil
}

func (r *RedisStore) SaveTryOn(ctx context.Context, rep *tryon.Report) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	return r.rds.SetexCtx(ctx, biz.TryOnKeyPrefix+rep.SessionID, string(data), int(biz.TryOnResultTTL.Seconds()))
}

func (r *RedisStore) LoadTryOn(ctx context.Context, sessionID string) (*tryon.Report, error) {
	raw, err := r.rds.GetCtx(ctx, biz.TryOnKeyPrefix+sessionID)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, ErrNotFound
	}
	var rep tryon.Report
	if err := json.Unmarshal([]byte(raw), &rep); err != nil {
		return nil, fmt.Errorf("decode try-on report %s: %w", sessionID, err)
	}
	return &rep, nil
}
