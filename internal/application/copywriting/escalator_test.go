package copywriting

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResponse struct {
	content string
	err     error
}

// stubCompletionClient 按序回放预置响应，超出后重复最后一条
type stubCompletionClient struct {
	responses []stubResponse
	calls     []*CompletionRequest
}

func (s *stubCompletionClient) Complete(_ context.Context, req *CompletionRequest) (*CompletionResult, error) {
	s.calls = append(s.calls, req)
	i := len(s.calls) - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	r := s.responses[i]
	if r.err != nil {
		return nil, r.err
	}
	return &CompletionResult{Content: r.content, PromptTokens: 10, CompletionTokens: 20}, nil
}

func cjkText(n int) string {
	return strings.Repeat("字", n)
}

func stubStrengthener(t *testing.T) PromptStrengthener {
	t.Helper()
	return func(_ context.Context, attempt int, strength PromptStrength, _ ContentPayload, _ int) (PromptPair, error) {
		return PromptPair{System: "system", User: fmt.Sprintf("revise %d %s", attempt, strength)}, nil
	}
}

func escalationParams(t *testing.T, client *stubCompletionClient) EscalationParams {
	t.Helper()
	return EscalationParams{
		Mode:             ModeCreate,
		Target:           200,
		TolerancePercent: 5,
		Strengthen:       stubStrengthener(t),
		Decode:           DecodePlain,
	}
}

func TestEscalatorRunsAllThreeStrengths(t *testing.T) {
	client := &stubCompletionClient{responses: []stubResponse{
		{content: cjkText(100)},
	}}
	esc := NewEscalator(client)

	final, attempts := esc.Run(context.Background(), PlainText(cjkText(50)), escalationParams(t, client))

	require.Len(t, attempts, 3)
	assert.Equal(t, StrengthNormal, attempts[0].Strength)
	assert.Equal(t, StrengthAggressive, attempts[1].Strength)
	assert.Equal(t, StrengthEmergency, attempts[2].Strength)
	for _, a := range attempts {
		assert.False(t, a.Accepted)
	}

	// 链终止后返回最后一次成功解析的内容，哪怕仍未达标
	assert.Equal(t, 100, CountPayload(final))

	// 升级调用使用更长超时与更高温度
	require.Len(t, client.calls, 3)
	assert.Nil(t, client.calls[0].Temperature)
	assert.Equal(t, DefaultCallTimeout, client.calls[0].Timeout)
	require.NotNil(t, client.calls[1].Temperature)
	assert.InDelta(t, 0.9, float64(*client.calls[1].Temperature), 1e-6)
	assert.Equal(t, EscalatedCallTimeout, client.calls[1].Timeout)
	require.NotNil(t, client.calls[2].Temperature)
	assert.InDelta(t, 1.0, float64(*client.calls[2].Temperature), 1e-6)
	assert.Equal(t, EscalatedCallTimeout, client.calls[2].Timeout)
}

func TestEscalatorFallsBackToPreviousAttemptOnFailure(t *testing.T) {
	client := &stubCompletionClient{responses: []stubResponse{
		{content: cjkText(120)},
		{err: fmt.Errorf("upstream unavailable")},
	}}
	esc := NewEscalator(client)

	final, attempts := esc.Run(context.Background(), PlainText(cjkText(50)), escalationParams(t, client))

	// 第二次调用失败：链终止，保留第一次尝试的产出
	require.Len(t, attempts, 1)
	assert.Equal(t, 120, CountPayload(final))
	assert.Len(t, client.calls, 2)
}

func TestEscalatorStopsOnAcceptance(t *testing.T) {
	client := &stubCompletionClient{responses: []stubResponse{
		{content: cjkText(195)},
	}}
	esc := NewEscalator(client)

	final, attempts := esc.Run(context.Background(), PlainText(cjkText(50)), escalationParams(t, client))

	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].Accepted)
	assert.Equal(t, 195, CountPayload(final))
	assert.Len(t, client.calls, 1)
}

func TestEscalatorSkipsWhenDraftAcceptable(t *testing.T) {
	client := &stubCompletionClient{responses: []stubResponse{
		{content: cjkText(999)},
	}}
	esc := NewEscalator(client)

	draft := PlainText(cjkText(200))
	final, attempts := esc.Run(context.Background(), draft, escalationParams(t, client))

	assert.Empty(t, attempts)
	assert.Equal(t, draft, final)
	assert.Empty(t, client.calls)
}

func TestEscalatorFallsBackOnEmptyContent(t *testing.T) {
	client := &stubCompletionClient{responses: []stubResponse{
		{content: "   "},
	}}
	esc := NewEscalator(client)

	draft := PlainText(cjkText(50))
	final, attempts := esc.Run(context.Background(), draft, escalationParams(t, client))

	// 空响应视同调用失败：不产生尝试记录，保留草稿
	assert.Empty(t, attempts)
	assert.Equal(t, draft, final)
}
