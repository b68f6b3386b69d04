package oracle

import (
	"context"
	"encoding/json"
	"testing"

	"ShopAssistant/app/services/assistant/internal/oracle/oracletest"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type answer struct {
	Intent string `json:"intent"`
}

func prompt(_ context.Context, in string) ([]*schema.Message, error) {
	return []*schema.Message{schema.SystemMessage("classify"), schema.UserMessage(in)}, nil
}

func TestJSONDecodesContent(t *testing.T) {
	m := oracletest.Content("Sure! ```json\n{\"intent\":\"search\"}\n```")
	o, err := NewJSON[string, answer](context.Background(), "test", m, prompt)
	require.NoError(t, err)

	out, err := o.Call(context.Background(), "black hoodies")
	require.NoError(t, err)
	assert.Equal(t, "search", out.Intent)
	assert.Equal(t, 1, m.Calls())
}

func TestJSONDecodesToolArguments(t *testing.T) {
	tool := &schema.ToolInfo{Name: "submit", Desc: "submit"}
	m := oracletest.ToolCall("submit", `{"intent":"cart"}`)
	o, err := NewJSON[string, answer](context.Background(), "test", m, prompt, WithTool(tool))
	require.NoError(t, err)

	out, err := o.Call(context.Background(), "show my cart")
	require.NoError(t, err)
	assert.Equal(t, "cart", out.Intent)
}

func TestJSONFailures(t *testing.T) {
	var missing *JSON[string, answer]
	_, err := missing.Call(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnavailable)

	nilModel, err := NewJSON[string, answer](context.Background(), "test", nil, prompt)
	require.NoError(t, err)
	assert.Nil(t, nilModel)

	o, err := NewJSON[string, answer](context.Background(), "test", oracletest.Content("not json"), prompt)
	require.NoError(t, err)
	_, err = o.Call(context.Background(), "x")
	assert.Error(t, err)

	o, err = NewJSON[string, answer](context.Background(), "test", oracletest.Failing(), prompt)
	require.NoError(t, err)
	_, err = o.Call(context.Background(), "x")
	assert.Error(t, err)
}

func TestTextOracle(t *testing.T) {
	o, err := NewText[string](context.Background(), "reply", oracletest.Content("  Happy to help!  "), prompt)
	require.NoError(t, err)
	out, err := o.Call(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "Happy to help!", out)
}

func TestResultStatus(t *testing.T) {
	assert.False(t, OK(1, "primary").Degraded())
	assert.True(t, Fallback(1, "rules", ErrUnavailable).Degraded())
	r := Failed[int](ErrEmptyOutput)
	assert.Equal(t, StatusFailed, r.Status)
	assert.Zero(t, r.Value)
}

func TestTrimJSONBlock(t *testing.T) {
	assert.Equal(t, `{"a":1}`, TrimJSONBlock("here: {\"a\":1} done"))
	assert.Equal(t, "plain", TrimJSONBlock("plain"))
}

func TestFlexString(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"60","b":45.5,"c":null}`), &v))
	assert.Equal(t, "60", v.A.String())
	assert.Equal(t, "45.5", v.B.String())
	assert.Equal(t, "", v.C.String())
}
