package graph

import (
	"context"
	"fmt"

	"ShopAssistant/app/services/assistant/internal/metrics"
	"ShopAssistant/app/services/assistant/internal/state"

	"github.com/cloudwego/eino/compose"
	"github.com/zeromicro/go-zero/core/logx"
)

// maxRunSteps bounds one turn; the longest path is
// classifier -> needs -> search -> presenter.
const maxRunSteps = 12

// Runner executes one turn of the routing graph.
type Runner interface {
	Run(ctx context.Context, t *Turn) (*Turn, error)
}

type Graph struct {
	runnable compose.Runnable[*Turn, *Turn]
}

type route func(*Turn) state.Step

// Build compiles the routing graph over n.
func Build(ctx context.Context, n *Nodes) (*Graph, error) {
	if n == nil {
		n = &Nodes{}
	}
	specs := []struct {
		step  state.Step
		run   nodeFunc
		route route
	}{
		{state.StepIntentClassifier, n.classify, routeAfterClassifier},
		{state.StepGreeter, n.greet, waitForUser},
		{state.StepNeedsAnalyzer, n.analyzeNeeds, routeAfterNeeds},
		{state.StepClarificationAsker, n.askClarification, waitForUser},
		{state.StepGeneralResponder, n.respond, waitForUser},
		{state.StepSearch, n.search, routeAfterSearch},
		{state.StepProductPresenter, n.present, waitForUser},
		{state.StepSelectionHandler, n.selectItems, routeAfterSelection},
		{state.StepCartManager, n.manageCart, waitForUser},
		{state.StepCheckoutHandler, n.checkout, waitForUser},
	}

	g := compose.NewGraph[*Turn, *Turn]()
	for _, sp := range specs {
		if err := g.AddLambdaNode(string(sp.step), compose.InvokableLambda(wrap(sp.step, sp.run))); err != nil {
			return nil, fmt.Errorf("add node %s: %w", sp.step, err)
		}
	}
	if err := g.AddEdge(compose.START, string(state.StepIntentClassifier)); err != nil {
		return nil, err
	}
	for _, sp := range specs {
		if err := g.AddBranch(string(sp.step), branch(sp.step, sp.route)); err != nil {
			return nil, fmt.Errorf("add branch %s: %w", sp.step, err)
		}
	}

	runnable, err := g.Compile(ctx,
		compose.WithGraphName("shopping_turn"),
		compose.WithMaxRunSteps(maxRunSteps))
	if err != nil {
		return nil, fmt.Errorf("compile routing graph: %w", err)
	}
	return &Graph{runnable: runnable}, nil
}

func (g *Graph) Run(ctx context.Context, t *Turn) (*Turn, error) {
	return g.runnable.Invoke(ctx, t)
}

// wrap runs a node over a private copy of the session and merges its update.
// Only cart_manager may write the cart.
func wrap(step state.Step, run nodeFunc) func(context.Context, *Turn) (*Turn, error) {
	return func(ctx context.Context, t *Turn) (*Turn, error) {
		view := *t
		view.Session = t.Session.Clone()
		u := run(ctx, &view)
		t.Classification = view.Classification

		if u.TouchesCart() && step != state.StepCartManager {
			logx.WithContext(ctx).Errorf("%s: dropped cart write from non-cart node", step)
			metrics.CartWriteRejected.Inc(string(step))
			u.SelectedProducts = state.Opt[[]state.CartItem]{}
		}
		t.Session.Apply(u, t.Now)
		if u.Reply != "" {
			t.Replies = append(t.Replies, u.Reply)
		}
		t.Path = append(t.Path, step)
		metrics.NodeRuns.Inc(string(step))
		return t, nil
	}
}

// branch adapts a pure routing function. Targets outside the node's legal
// successors end the turn.
func branch(from state.Step, r route) *compose.GraphBranch {
	ends := map[string]bool{compose.END: true}
	for _, s := range successors[from] {
		ends[string(s)] = true
	}
	return compose.NewGraphBranch(func(ctx context.Context, t *Turn) (string, error) {
		next := r(t)
		if next == state.StepWaitForUser {
			return compose.END, nil
		}
		if !legal(from, next) {
			logx.WithContext(ctx).Errorf("%s: illegal route to %s, waiting for user", from, next)
			return compose.END, nil
		}
		return string(next), nil
	}, ends)
}
