// Package oracletest provides scripted chat models for tests.
package oracletest

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var ErrScripted = errors.New("scripted model failure")

// Model answers every Generate call through Reply.
type Model struct {
	mu    sync.Mutex
	calls int
	Reply func(input []*schema.Message) (*schema.Message, error)
}

var _ model.BaseChatModel = (*Model)(nil)

// Content answers with fixed assistant content.
func Content(content string) *Model {
	return &Model{Reply: func([]*schema.Message) (*schema.Message, error) {
		return schema.AssistantMessage(content, nil), nil
	}}
}

// ToolCall answers with a single tool call carrying args.
func ToolCall(name, args string) *Model {
	return &Model{Reply: func([]*schema.Message) (*schema.Message, error) {
		return schema.AssistantMessage("", []schema.ToolCall{{
			ID:       "call-1",
			Function: schema.FunctionCall{Name: name, Arguments: args},
		}}), nil
	}}
}

// Failing always returns ErrScripted.
func Failing() *Model {
	return &Model{Reply: func([]*schema.Message) (*schema.Message, error) {
		return nil, ErrScripted
	}}
}

func (m *Model) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.Reply(input)
}

func (m *Model) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *Model) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
