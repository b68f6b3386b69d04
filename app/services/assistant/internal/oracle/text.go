package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// Text is a prompt -> chat model chain answering in plain prose.
type Text[I any] struct {
	name     string
	timeout  time.Duration
	runnable compose.Runnable[I, string]
}

func NewText[I any](ctx context.Context, name string, chatModel model.BaseChatModel, prompt PromptFunc[I], opts ...Option) (*Text[I], error) {
	if chatModel == nil {
		return nil, nil
	}
	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	chain := compose.NewChain[I, string]()
	chain.AppendLambda(compose.InvokableLambda(func(ctx context.Context, in I) ([]*schema.Message, error) {
		return prompt(ctx, in)
	}))
	chain.AppendChatModel(chatModel, compose.WithNodeKey(name+"_model"))
	chain.AppendLambda(compose.InvokableLambda(func(_ context.Context, msg *schema.Message) (string, error) {
		if msg == nil {
			return "", ErrEmptyOutput
		}
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			return "", ErrEmptyOutput
		}
		return content, nil
	}))

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile %s chain: %w", name, err)
	}
	return &Text[I]{name: name, timeout: o.timeout, runnable: runnable}, nil
}

func (t *Text[I]) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

func (t *Text[I]) Call(ctx context.Context, in I) (string, error) {
	if t == nil || t.runnable == nil {
		return "", ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.runnable.Invoke(ctx, in)
}
