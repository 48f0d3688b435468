package copywriting

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"z-copy-ai-api/internal/config"
	"z-copy-ai-api/internal/domain/service"
	"z-copy-ai-api/pkg/errors"
	"z-copy-ai-api/pkg/logger"
	"z-copy-ai-api/pkg/metrics"
	"z-copy-ai-api/pkg/tracer"
)

// ProgressFunc 进度回调：在每个阶段转换处按因果顺序收到人类可读的状态串。
// 回调失败或为 nil 均不影响生成流程。
type ProgressFunc func(stage string)

// GenerationResult 一次顶层生成调用的最终产物。
// 每个阶段都产出新值，返回后不可变，绝不跨异步边界部分修改。
type GenerationResult struct {
	Content         ContentPayload    `json:"content"`
	AttemptsUsed    int               `json:"attempts_used"`
	FinalWordCount  int               `json:"final_word_count"`
	WithinTolerance bool              `json:"within_tolerance"`
	TargetWordCount int               `json:"target_word_count"`
	Prompts         PromptPair        `json:"prompts"`
	Attempts        []RevisionAttempt `json:"attempts,omitempty"`
	TokensUsed      int               `json:"tokens_used"`
	Provider        string            `json:"provider,omitempty"`
	Model           string            `json:"model,omitempty"`
	DurationMs      int               `json:"duration_ms"`
}

// Engine 文案生成引擎：compose → call → count → evaluate → escalate。
// 一次请求内各阶段严格串行（每个阶段的输入是上一阶段的输出），
// 唯一的异步悬挂点在补全调用边界；跨请求的并行由外部编排方负责。
type Engine struct {
	client   CompletionClient
	composer *Composer
	usage    service.LLMUsageRecorder
	cfg      config.GenerationConfig
}

// NewEngine 创建生成引擎；usage 可为 nil（不上报用量）
func NewEngine(client CompletionClient, composer *Composer, usage service.LLMUsageRecorder, cfg config.GenerationConfig) *Engine {
	return &Engine{
		client:   client,
		composer: composer,
		usage:    usage,
		cfg:      cfg,
	}
}

// Generate 执行一条完整的生成链。
// 首稿调用失败会向调用方返回错误；进入修订链之后的任何失败都在
// 链内消化，最终以可用内容收尾——整体系统对用户可见的失败形态是
// “内容比要求的短”，而不是异常。
func (e *Engine) Generate(ctx context.Context, req *GenerationRequest, progress ProgressFunc) (*GenerationResult, error) {
	if e == nil || e.client == nil || e.composer == nil {
		return nil, errors.New(errors.CodeInternalError, "generation engine not configured")
	}
	if req == nil {
		return nil, errors.New(errors.CodeInvalidParam, "request is nil")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "copywriting.Engine.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("copy.mode", string(req.Mode)),
		attribute.Bool("copy.strict", req.StrictAdherence),
	)

	start := time.Now()

	// 目标字数在一次请求内只解析一次，所有修订尝试共用
	target := ResolveTarget(req.Band, req.CustomWordCount, req.Template)
	sections := DistributeSectionTargets(target, req.Template)
	tolerance := req.Tolerance()
	span.SetAttributes(attribute.Int("copy.target_word_count", target))

	pair, err := e.composer.Compose(ctx, req, target, sections)
	if err != nil {
		metrics.CopyGenerationTotal.WithLabelValues(string(req.Mode), "failed").Inc()
		return nil, errors.Wrap(err, errors.CodeGenerationFailed, "failed to compose prompt")
	}

	rc := &recordingClient{
		inner:    e.client,
		usage:    e.usage,
		provider: req.Provider,
		model:    req.Model,
	}

	jsonMode := req.ExpectsStructured() || req.ExpectsHeadlines()
	decode := req.Decoder()

	emitProgress(progress, fmt.Sprintf("草稿生成开始：目标 %d 字", target))

	draftRes, err := rc.Complete(service.WithPurpose(ctx, "draft"), &CompletionRequest{
		Provider: req.Provider,
		Model:    req.Model,
		Prompt:   pair,
		JSONMode: jsonMode,
		Timeout:  e.callTimeout(),
	})
	if err != nil {
		// 首稿失败是唯一向调用方传播的调用错误
		metrics.CopyGenerationTotal.WithLabelValues(string(req.Mode), "failed").Inc()
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeLLMCallFailed, "draft generation failed")
	}

	draft := decode(draftRes.Content)
	if draft.IsEmpty() {
		metrics.CopyGenerationTotal.WithLabelValues(string(req.Mode), "failed").Inc()
		return nil, errors.New(errors.CodeGenerationFailed, "draft produced empty content")
	}
	draftCount := CountPayload(draft)
	emitProgress(progress, fmt.Sprintf("草稿完成：%d 字（目标 %d 字）", draftCount, target))

	final := draft
	finalCount := draftCount
	var attempts []RevisionAttempt

	// strict_adherence 关闭时首稿即终稿，修订链不运行
	if req.StrictAdherence && !Accept(draftCount, target, tolerance) {
		esc := NewEscalator(rc)
		final, attempts = esc.Run(ctx, draft, EscalationParams{
			Mode:             req.Mode,
			Target:           target,
			TolerancePercent: tolerance,
			Provider:         req.Provider,
			Model:            req.Model,
			JSONMode:         jsonMode,
			Strengthen:       e.composer.Strengthener(req, target, sections),
			Decode:           decode,
			Progress:         progress,
		})
		finalCount = CountPayload(final)
	}

	within := Accept(finalCount, target, tolerance)
	duration := time.Since(start)

	metrics.CopyGenerationTotal.WithLabelValues(string(req.Mode), "success").Inc()
	metrics.CopyGenerationDuration.WithLabelValues(string(req.Mode)).Observe(duration.Seconds())
	metrics.CopyWordCount.WithLabelValues(string(req.Mode)).Observe(float64(finalCount))

	if !within {
		logger.Warn(ctx, "generation finished below tolerance",
			"mode", string(req.Mode),
			"target", target,
			"final_word_count", finalCount,
			"attempts_used", len(attempts),
		)
	}

	return &GenerationResult{
		Content:         final,
		AttemptsUsed:    len(attempts),
		FinalWordCount:  finalCount,
		WithinTolerance: within,
		TargetWordCount: target,
		Prompts:         rc.lastPrompt,
		Attempts:        attempts,
		TokensUsed:      rc.totalTokens,
		Provider:        req.Provider,
		Model:           req.Model,
		DurationMs:      int(duration.Milliseconds()),
	}, nil
}

func (e *Engine) callTimeout() time.Duration {
	if e.cfg.CallTimeout > 0 {
		return e.cfg.CallTimeout
	}
	return DefaultCallTimeout
}

// recordingClient 包装补全客户端：累计 token 用量、记录最近一次提示词对，
// 并把每次调用以 fire-and-forget 方式上报给用量接收器。
// 每条生成链各持有一个实例，链与链之间互不可见。
type recordingClient struct {
	inner    CompletionClient
	usage    service.LLMUsageRecorder
	provider string
	model    string

	totalTokens int
	lastPrompt  PromptPair
}

func (c *recordingClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error) {
	start := time.Now()
	c.lastPrompt = req.Prompt

	res, err := c.inner.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	c.totalTokens += res.TotalTokens()
	c.report(ctx, res, time.Since(start))
	return res, nil
}

// report 上报一次调用的用量；任何失败只记日志，绝不影响生成结果
func (c *recordingClient) report(ctx context.Context, res *CompletionResult, elapsed time.Duration) {
	if c.usage == nil {
		return
	}
	in := service.LLMUsageInput{
		ClientID:         service.ClientFromContext(ctx),
		Purpose:          service.PurposeFromContext(ctx),
		Provider:         c.provider,
		Model:            c.model,
		PromptTokens:     res.PromptTokens,
		CompletionTokens: res.CompletionTokens,
		DurationMs:       int(elapsed.Milliseconds()),
	}
	if err := c.usage.Record(ctx, in); err != nil {
		logger.Warn(ctx, "failed to record llm usage", "error", err.Error())
	}
}
