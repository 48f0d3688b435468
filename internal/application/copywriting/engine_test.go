package copywriting

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-copy-ai-api/internal/config"
	"z-copy-ai-api/internal/domain/service"
)

// recordingUsage 捕获用量上报输入
type recordingUsage struct {
	inputs []service.LLMUsageInput
}

func (r *recordingUsage) Record(_ context.Context, in service.LLMUsageInput) error {
	r.inputs = append(r.inputs, in)
	return nil
}

func newTestEngine(client CompletionClient, usage service.LLMUsageRecorder) *Engine {
	return NewEngine(client, NewComposer(""), usage, config.GenerationConfig{})
}

func TestGenerateNonStrictUsesSingleCall(t *testing.T) {
	client := &stubCompletionClient{responses: []stubResponse{
		{content: cjkText(30)},
	}}
	engine := newTestEngine(client, nil)

	req := &GenerationRequest{
		Mode:  ModeCreate,
		Brief: "新品速溶咖啡",
		Band:  BandCustom, CustomWordCount: 300,
		StrictAdherence: false,
	}

	res, err := engine.Generate(context.Background(), req, nil)
	require.NoError(t, err)

	// strict_adherence 关闭：首稿即终稿，修订链不运行
	assert.Len(t, client.calls, 1)
	assert.Equal(t, 0, res.AttemptsUsed)
	assert.Equal(t, 30, res.FinalWordCount)
	assert.Equal(t, 300, res.TargetWordCount)
	assert.False(t, res.WithinTolerance)
	assert.Equal(t, 30, res.TokensUsed)
	assert.NotEmpty(t, res.Prompts.System)
	assert.NotEmpty(t, res.Prompts.User)
}

func TestGenerateStrictRunsFullRevisionChain(t *testing.T) {
	client := &stubCompletionClient{responses: []stubResponse{
		{content: cjkText(20)},
	}}
	usage := &recordingUsage{}
	engine := newTestEngine(client, usage)

	req := &GenerationRequest{
		Mode:  ModeCreate,
		Brief: "新品速溶咖啡",
		Band:  BandCustom, CustomWordCount: 100,
		StrictAdherence: true,
	}

	ctx := service.WithClient(context.Background(), "tester")
	res, err := engine.Generate(ctx, req, nil)
	require.NoError(t, err)

	// 1 次首稿 + 3 次修订
	assert.Len(t, client.calls, 4)
	assert.Equal(t, 3, res.AttemptsUsed)
	assert.False(t, res.WithinTolerance)
	assert.Equal(t, 20, res.FinalWordCount)

	// 每次调用都上报用量，purpose 区分首稿与各级修订
	require.Len(t, usage.inputs, 4)
	assert.Equal(t, "draft", usage.inputs[0].Purpose)
	for i := 1; i < 4; i++ {
		assert.Equal(t, fmt.Sprintf("revision_%d", i), usage.inputs[i].Purpose)
		assert.Equal(t, "tester", usage.inputs[i].ClientID)
	}
}

func TestGenerateAcceptedDraftSkipsRevision(t *testing.T) {
	client := &stubCompletionClient{responses: []stubResponse{
		{content: cjkText(98)},
	}}
	engine := newTestEngine(client, nil)

	req := &GenerationRequest{
		Mode:  ModeCreate,
		Brief: "新品速溶咖啡",
		Band:  BandCustom, CustomWordCount: 100,
		StrictAdherence: true,
	}

	res, err := engine.Generate(context.Background(), req, nil)
	require.NoError(t, err)

	// 98 >= floor(95)，首稿直接达标
	assert.Len(t, client.calls, 1)
	assert.Equal(t, 0, res.AttemptsUsed)
	assert.True(t, res.WithinTolerance)
}

func TestGenerateDraftFailurePropagates(t *testing.T) {
	client := &stubCompletionClient{responses: []stubResponse{
		{err: fmt.Errorf("connection refused")},
	}}
	engine := newTestEngine(client, nil)

	req := &GenerationRequest{
		Mode:            ModeCreate,
		Brief:           "新品速溶咖啡",
		StrictAdherence: true,
	}

	_, err := engine.Generate(context.Background(), req, nil)
	assert.Error(t, err)
}

func TestGenerateValidatesRequest(t *testing.T) {
	engine := newTestEngine(&stubCompletionClient{responses: []stubResponse{{content: "x"}}}, nil)

	// create 模式缺 brief
	_, err := engine.Generate(context.Background(), &GenerationRequest{Mode: ModeCreate}, nil)
	assert.Error(t, err)

	// 未知模式
	_, err = engine.Generate(context.Background(), &GenerationRequest{Mode: "poem"}, nil)
	assert.Error(t, err)

	_, err = engine.Generate(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestGenerateEmitsProgressInCausalOrder(t *testing.T) {
	client := &stubCompletionClient{responses: []stubResponse{
		{content: cjkText(20)},
	}}
	engine := newTestEngine(client, nil)

	req := &GenerationRequest{
		Mode:  ModeCreate,
		Brief: "新品速溶咖啡",
		Band:  BandCustom, CustomWordCount: 100,
		StrictAdherence: true,
	}

	var stages []string
	_, err := engine.Generate(context.Background(), req, func(stage string) {
		stages = append(stages, stage)
	})
	require.NoError(t, err)

	// 草稿开始 → 草稿完成 → 修订 1..3 各自的开始/完成
	require.GreaterOrEqual(t, len(stages), 4)
	assert.Contains(t, stages[0], "草稿生成开始")
	assert.Contains(t, stages[1], "草稿完成")
	assert.Contains(t, stages[2], "修订 1/3")
}

func TestGenerateHeadlineMode(t *testing.T) {
	client := &stubCompletionClient{responses: []stubResponse{
		{content: `{"headlines":["为什么选我们","三步搞定","立省一半"]}`},
	}}
	engine := newTestEngine(client, nil)

	req := &GenerationRequest{
		Mode:            ModeHeadline,
		Brief:           "新品速溶咖啡",
		HeadlineCount:   3,
		StrictAdherence: false,
	}

	res, err := engine.Generate(context.Background(), req, nil)
	require.NoError(t, err)

	assert.Equal(t, KindHeadlineList, res.Content.Kind)
	assert.Len(t, res.Content.Headlines, 3)
	// 标题模式走 json_object 输出
	require.Len(t, client.calls, 1)
	assert.True(t, client.calls[0].JSONMode)
}
