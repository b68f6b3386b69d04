package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerFunc func(ctx context.Context, t *Turn) (*Turn, error)

func (f runnerFunc) Run(ctx context.Context, t *Turn) (*Turn, error) { return f(ctx, t) }

func seeded(t *testing.T, st store.Store) *state.Session {
	t.Helper()
	now := time.Now()
	s := state.New("s1", 1, now)
	s.AddUserMessage("black hoodie", now)
	s.SelectedProducts = []state.CartItem{
		state.NewCartItem(state.Product{Name: "Black Hoodie", Price: "$40.00", URL: "u1"}, "M", now),
	}
	s.ConversationStage = state.StageCart
	require.NoError(t, st.Save(context.Background(), s))
	return s
}

func TestFailedTurnPreservesCart(t *testing.T) {
	st := store.NewMemoryStore()
	seeded(t, st)

	d := NewDriver(st, runnerFunc(func(_ context.Context, t *Turn) (*Turn, error) {
		t.Session.SelectedProducts = nil
		return nil, errors.New("boom")
	}), time.Second)

	res, err := d.Handle(context.Background(), Request{SessionID: "s1", UserID: 1, Message: "what's new?"})
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, []string{HiccupReply}, res.Replies)

	got, err := st.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, got.SelectedProducts, 1)
	assert.Equal(t, state.StageCart, got.ConversationStage)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "what's new?", got.Messages[1].Text)
	assert.Equal(t, state.RoleAssistant, got.Messages[2].Role)
}

func TestPanickingTurnIsRecovered(t *testing.T) {
	st := store.NewMemoryStore()
	seeded(t, st)

	d := NewDriver(st, runnerFunc(func(context.Context, *Turn) (*Turn, error) {
		panic("node exploded")
	}), time.Second)

	res, err := d.Handle(context.Background(), Request{SessionID: "s1", UserID: 1, Message: "hello"})
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Len(t, res.Session.SelectedProducts, 1)
}

func TestTurnTimeout(t *testing.T) {
	st := store.NewMemoryStore()
	seeded(t, st)

	d := NewDriver(st, runnerFunc(func(ctx context.Context, _ *Turn) (*Turn, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), 20*time.Millisecond)

	res, err := d.Handle(context.Background(), Request{SessionID: "s1", UserID: 1, Message: "hello"})
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Len(t, res.Session.SelectedProducts, 1)
}

func TestDriverRejectsOtherUsers(t *testing.T) {
	st := store.NewMemoryStore()
	seeded(t, st)
	d := NewDriver(st, runnerFunc(func(_ context.Context, t *Turn) (*Turn, error) { return t, nil }), time.Second)

	_, err := d.Handle(context.Background(), Request{SessionID: "s1", UserID: 2, Message: "hi"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = d.Handle(context.Background(), Request{SessionID: "s1", UserID: 1, Message: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestDriverCreatesSession(t *testing.T) {
	st := store.NewMemoryStore()
	d := NewDriver(st, runnerFunc(func(_ context.Context, t *Turn) (*Turn, error) {
		t.Replies = append(t.Replies, "hi")
		t.Session.AddAssistantMessage("hi", t.Now)
		return t, nil
	}), time.Second)

	res, err := d.Handle(context.Background(), Request{UserID: 9, Message: "hello"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Session.ID)
	assert.Equal(t, int64(9), res.Session.UserID)
	assert.Equal(t, state.StageGreeting, res.Session.ConversationStage)

	got, err := st.Load(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 2)
}

func TestDriverBusySession(t *testing.T) {
	st := store.NewMemoryStore()
	unlock, err := st.Lock(context.Background(), "s1")
	require.NoError(t, err)
	defer unlock()

	d := NewDriver(st, runnerFunc(func(_ context.Context, t *Turn) (*Turn, error) { return t, nil }), time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = d.Handle(ctx, Request{SessionID: "s1", Message: "hi"})
	assert.ErrorIs(t, err, store.ErrBusy)
}

func TestNonCartNodeCannotWriteCart(t *testing.T) {
	s := state.New("s1", 0, time.Now())
	s.SelectedProducts = []state.CartItem{state.NewCartItem(state.Product{Name: "Keep Me"}, "M", time.Now())}
	turn := &Turn{Session: s, Now: time.Now()}

	rogue := wrap(state.StepGeneralResponder, func(context.Context, *Turn) state.Update {
		return state.Update{SelectedProducts: state.Some([]state.CartItem{}), Reply: "hi"}
	})
	out, err := rogue(context.Background(), turn)
	require.NoError(t, err)
	require.Len(t, out.Session.SelectedProducts, 1)
	assert.Equal(t, "Keep Me", out.Session.SelectedProducts[0].Name)
	assert.Equal(t, []string{"hi"}, out.Replies)
	assert.Equal(t, []state.Step{state.StepGeneralResponder}, out.Path)
}

func TestNodesSeePrivateCopy(t *testing.T) {
	s := state.New("s1", 0, time.Now())
	turn := &Turn{Session: s, Now: time.Now()}

	sneaky := wrap(state.StepGreeter, func(_ context.Context, t *Turn) state.Update {
		t.Session.SearchCriteria.Category = "shoes"
		return state.Update{}
	})
	_, err := sneaky(context.Background(), turn)
	require.NoError(t, err)
	assert.Empty(t, s.SearchCriteria.Category)
}

func TestRouteAfterClassifier(t *testing.T) {
	shown := []state.Product{{Name: "a"}, {Name: "b"}}
	cases := []struct {
		name string
		msg  string
		s    state.Session
		want state.Step
	}{
		{"cart always wins", "#2 please", state.Session{CurrentIntent: state.IntentCart, ProductsShown: shown, AwaitingSelection: true}, state.StepCartManager},
		{"index marker selects", "#2", state.Session{CurrentIntent: state.IntentSearch, ProductsShown: shown, AwaitingSelection: true}, state.StepSelectionHandler},
		{"question goes general", "what material is it", state.Session{CurrentIntent: state.IntentSearch, ProductsShown: shown, AwaitingSelection: true}, state.StepGeneralResponder},
		{"tie with digit selects", "what about #2, I want it", state.Session{CurrentIntent: state.IntentGeneral, ProductsShown: shown, AwaitingSelection: true}, state.StepSelectionHandler},
		{"tie without digit asks", "which one should I choose", state.Session{CurrentIntent: state.IntentSelection, ProductsShown: shown, AwaitingSelection: true}, state.StepGeneralResponder},
		{"checkout empty cart", "checkout", state.Session{CurrentIntent: state.IntentCheckout, NextStep: state.StepCheckoutHandler}, state.StepNeedsAnalyzer},
		{"selection nothing shown", "the second", state.Session{CurrentIntent: state.IntentSelection, NextStep: state.StepSelectionHandler}, state.StepNeedsAnalyzer},
		{"hint honoured", "hello", state.Session{CurrentIntent: state.IntentGreeting, NextStep: state.StepGreeter}, state.StepGreeter},
		{"wait hint", "no", state.Session{CurrentIntent: state.IntentGeneral, NextStep: state.StepWaitForUser}, state.StepWaitForUser},
		{"table when no hint", "hello", state.Session{CurrentIntent: state.IntentGreeting}, state.StepGreeter},
	}
	for _, tc := range cases {
		s := tc.s
		got := routeAfterClassifier(&Turn{Input: tc.msg, Session: &s})
		assert.Equal(t, tc.want, got, tc.name)
	}
}
