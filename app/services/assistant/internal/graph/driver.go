package graph

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"ShopAssistant/app/common/snowflake"
	"ShopAssistant/app/services/assistant/internal/metrics"
	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/store"

	"github.com/zeromicro/go-zero/core/logx"
)

const DefaultTurnTimeout = 60 * time.Second

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrForbidden    = errors.New("session belongs to another user")
)

type Request struct {
	SessionID string
	UserID    int64
	Message   string
}

type Result struct {
	Session  *state.Session
	Replies  []string
	Path     []state.Step
	Degraded bool
}

// Driver runs one turn per inbound message and commits the session snapshot.
type Driver struct {
	store   store.Store
	runner  Runner
	timeout time.Duration
	now     func() time.Time
}

func NewDriver(st store.Store, runner Runner, timeout time.Duration) *Driver {
	if timeout <= 0 {
		timeout = DefaultTurnTimeout
	}
	return &Driver{store: st, runner: runner, timeout: timeout, now: time.Now}
}

// Handle serialises turns per session. A failed turn commits only the user
// message and a hiccup reply on top of the previous snapshot.
func (d *Driver) Handle(ctx context.Context, req Request) (*Result, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, ErrEmptyMessage
	}
	id := req.SessionID
	if id == "" {
		id = snowflake.NextSessionID()
	}

	unlock, err := d.store.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	start := d.now()
	prev, err := d.store.Load(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		prev = state.New(id, req.UserID, start)
	case err != nil:
		return nil, err
	case prev.UserID != 0 && prev.UserID != req.UserID:
		return nil, ErrForbidden
	}

	work := prev.Clone()
	work.AddUserMessage(msg, start)
	turn, err := d.run(ctx, &Turn{Input: msg, Session: work, Now: start})

	outcome := "ok"
	defer func() {
		metrics.TurnDuration.Observe(d.now().Sub(start).Milliseconds(), outcome)
	}()

	if err != nil {
		outcome = "failed"
		logx.WithContext(ctx).Errorf("turn failed for session %s: %v", id, err)

		safe := prev.Clone()
		safe.AddUserMessage(msg, start)
		safe.AddAssistantMessage(HiccupReply, d.now())
		safe.UpdatedAt = d.now()
		if err := d.store.Save(ctx, safe); err != nil {
			return nil, fmt.Errorf("save session %s: %w", id, err)
		}
		return &Result{Session: safe, Replies: []string{HiccupReply}, Degraded: true}, nil
	}

	if len(turn.Replies) == 0 {
		// every path should answer, but never leave the user without a reply
		turn.Session.AddAssistantMessage(HiccupReply, d.now())
		turn.Replies = []string{HiccupReply}
	}
	if err := d.store.Save(ctx, turn.Session); err != nil {
		outcome = "failed"
		return nil, fmt.Errorf("save session %s: %w", id, err)
	}
	return &Result{Session: turn.Session, Replies: turn.Replies, Path: turn.Path}, nil
}

func (d *Driver) run(ctx context.Context, t *Turn) (out *Turn, err error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	defer func() {
		if p := recover(); p != nil {
			logx.WithContext(ctx).Errorf("turn panic: %v\n%s", p, debug.Stack())
			out, err = nil, fmt.Errorf("turn panic: %v", p)
		}
	}()

	out, err = d.runner.Run(ctx, t)
	if err == nil && out == nil {
		err = errors.New("graph returned no turn")
	}
	return out, err
}
