package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/zeromicro/go-zero/core/logx"
)

const defaultTimeout = 8 * time.Second

// PromptFunc renders the chat messages for one oracle call.
type PromptFunc[I any] func(ctx context.Context, in I) ([]*schema.Message, error)

type options struct {
	timeout time.Duration
	tool    *schema.ToolInfo
}

type Option func(*options)

func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithTool forces the model to answer through the given tool; its arguments are the JSON payload.
func WithTool(tool *schema.ToolInfo) Option {
	return func(o *options) {
		o.tool = tool
	}
}

// JSON is a prompt -> chat model -> decode chain answering with a JSON document.
type JSON[I, O any] struct {
	name     string
	nodeKey  string
	timeout  time.Duration
	tools    []*schema.ToolInfo
	runnable compose.Runnable[I, O]
}

// NewJSON compiles the chain. A nil chat model yields a nil oracle, whose calls fail with ErrUnavailable.
func NewJSON[I, O any](ctx context.Context, name string, chatModel model.BaseChatModel, prompt PromptFunc[I], opts ...Option) (*JSON[I, O], error) {
	if chatModel == nil {
		return nil, nil
	}
	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	var tools []*schema.ToolInfo
	bound := chatModel
	if o.tool != nil {
		tools = []*schema.ToolInfo{o.tool}
		if toolCapable, ok := chatModel.(model.ToolCallingChatModel); ok {
			if withTools, err := toolCapable.WithTools(tools); err != nil {
				logx.WithContext(ctx).Errorf("bind %s tool failed: %v", name, err)
			} else {
				bound = withTools
			}
		}
	}

	nodeKey := name + "_model"
	toolName := ""
	if o.tool != nil {
		toolName = o.tool.Name
	}

	chain := compose.NewChain[I, O]()
	chain.AppendLambda(compose.InvokableLambda(func(ctx context.Context, in I) ([]*schema.Message, error) {
		return prompt(ctx, in)
	}))
	chain.AppendChatModel(bound, compose.WithNodeKey(nodeKey))
	chain.AppendLambda(compose.InvokableLambda(func(_ context.Context, msg *schema.Message) (O, error) {
		var out O
		payload := Payload(msg, toolName)
		if payload == "" {
			return out, ErrEmptyOutput
		}
		if err := json.Unmarshal([]byte(payload), &out); err != nil {
			return out, fmt.Errorf("decode %s output: %w", name, err)
		}
		return out, nil
	}))

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile %s chain: %w", name, err)
	}

	return &JSON[I, O]{
		name:     name,
		nodeKey:  nodeKey,
		timeout:  o.timeout,
		tools:    tools,
		runnable: runnable,
	}, nil
}

func (j *JSON[I, O]) Name() string {
	if j == nil {
		return ""
	}
	return j.name
}

// Call runs the chain once under the oracle timeout. There are no retries.
func (j *JSON[I, O]) Call(ctx context.Context, in I) (O, error) {
	if j == nil || j.runnable == nil {
		var zero O
		return zero, ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	var opts []compose.Option
	if len(j.tools) > 0 {
		opts = append(opts, compose.WithChatModelOption(
			model.WithTools(j.tools),
			model.WithToolChoice(schema.ToolChoiceForced),
		).DesignateNode(j.nodeKey))
	}
	return j.runnable.Invoke(ctx, in, opts...)
}

// Payload pulls the JSON document out of a reply: the named tool call's
// arguments when present, else the first {...} block of the content.
func Payload(msg *schema.Message, toolName string) string {
	if msg == nil {
		return ""
	}
	for _, call := range msg.ToolCalls {
		if toolName == "" || strings.EqualFold(call.Function.Name, toolName) {
			if args := strings.TrimSpace(call.Function.Arguments); args != "" {
				return args
			}
		}
	}
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return ""
	}
	return TrimJSONBlock(content)
}

// TrimJSONBlock strips prose or code fences around a JSON object.
func TrimJSONBlock(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start > end {
		return content
	}
	return content[start : end+1]
}
