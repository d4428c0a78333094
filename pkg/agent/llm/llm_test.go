package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffolder/pkg/agent/llm"
	"scaffolder/pkg/agent/llmerrors"
)

// scriptedClient returns canned responses in order.
type scriptedClient struct {
	responses []llm.CompletionResponse
	errs      []error
	calls     int
	lastReq   llm.CompletionRequest
}

func (s *scriptedClient) Complete(_ context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	s.lastReq = req
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return llm.CompletionResponse{}, s.errs[i]
	}
	if i >= len(s.responses) {
		return llm.CompletionResponse{}, errors.New("no more scripted responses")
	}
	return s.responses[i], nil
}

func (s *scriptedClient) GetModelName() string { return "scripted" }

func TestChainOrdering(t *testing.T) {
	var order []string
	mw := func(name string) llm.Middleware {
		return func(next llm.Client) llm.Client {
			return llm.WrapClient(
				func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
					order = append(order, name)
					return next.Complete(ctx, req)
				},
				next.GetModelName,
			)
		}
	}

	base := &scriptedClient{responses: []llm.CompletionResponse{{Content: "ok"}}}
	client := llm.Chain(base, mw("outer"), mw("inner"))

	resp, err := client.Complete(context.Background(), llm.NewCompletionRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, "scripted", client.GetModelName())
}

type greeting struct {
	Name  string   `json:"name"`
	Files []string `json:"files"`
}

func TestGenerateStructured(t *testing.T) {
	base := &scriptedClient{responses: []llm.CompletionResponse{
		{Content: `{"name":"hello","files":["a.txt","b.txt"]}`},
	}}

	out, err := llm.GenerateStructured[greeting](context.Background(), base, "make a greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Name)
	assert.Equal(t, []string{"a.txt", "b.txt"}, out.Files)

	// The schema travels in the system message.
	require.NotEmpty(t, base.lastReq.Messages)
	assert.Equal(t, llm.RoleSystem, base.lastReq.Messages[0].Role)
	assert.Contains(t, base.lastReq.Messages[0].Content, `"name"`)
}

func TestGenerateStructuredStripsFences(t *testing.T) {
	base := &scriptedClient{responses: []llm.CompletionResponse{
		{Content: "```json\n{\"name\":\"fenced\",\"files\":[]}\n```"},
	}}
	out, err := llm.GenerateStructured[greeting](context.Background(), base, "p")
	require.NoError(t, err)
	assert.Equal(t, "fenced", out.Name)
}

func TestGenerateStructuredEmptyResponse(t *testing.T) {
	base := &scriptedClient{responses: []llm.CompletionResponse{{Content: "   "}}}
	_, err := llm.GenerateStructured[greeting](context.Background(), base, "p")
	assert.True(t, llmerrors.Is(err, llmerrors.ErrorTypeEmptyResponse))
}

func TestGenerateStructuredPropagatesBackendError(t *testing.T) {
	rateErr := llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeRateLimit, 429, "slow down")
	base := &scriptedClient{errs: []error{rateErr}}
	_, err := llm.GenerateStructured[greeting](context.Background(), base, "p")
	assert.True(t, llmerrors.IsRateLimit(err))
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                  `{"a":1}`,
		"```json\n{\"a\":1}\n```":    `{"a":1}`,
		"```\n{\"a\":1}\n```":        `{"a":1}`,
		"  \n```json\n[1,2]\n```\n ": `[1,2]`,
	}
	for in, want := range cases {
		assert.Equal(t, want, llm.StripFences(in), "input %q", in)
	}
}
