package llm

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.opentelemetry.io/otel/attribute"

	"z-copy-ai-api/internal/application/copywriting"
	"z-copy-ai-api/pkg/errors"
	"z-copy-ai-api/pkg/metrics"
	"z-copy-ai-api/pkg/tracer"
)

// CompletionClient 基于 Eino ChatModel 的补全客户端。
// 单次调用，不做内部重试；超时通过 context 取消强制执行。
type CompletionClient struct {
	factory *EinoFactory
}

// NewCompletionClient 创建补全客户端
func NewCompletionClient(factory *EinoFactory) *CompletionClient {
	return &CompletionClient{factory: factory}
}

func (c *CompletionClient) Complete(ctx context.Context, req *copywriting.CompletionRequest) (*copywriting.CompletionResult, error) {
	chatModel, err := c.factory.Get(ctx, req.Provider)
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeLLMProviderError, "failed to resolve llm provider")
	}

	provider := req.Provider
	if provider == "" {
		provider = c.factory.DefaultProvider()
	}
	modelLabel := strings.TrimSpace(req.Model)
	if modelLabel == "" {
		modelLabel = "default"
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = copywriting.DefaultCallTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "llm.Complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", provider),
		attribute.String("llm.model", modelLabel),
		attribute.Bool("llm.json_mode", req.JSONMode),
	)

	msgs := []*schema.Message{
		schema.SystemMessage(req.Prompt.System),
		schema.UserMessage(req.Prompt.User),
	}

	start := time.Now()
	outMsg, err := chatModel.Generate(ctx, msgs, buildModelOptions(req)...)
	metrics.LLMCallDuration.WithLabelValues(provider, modelLabel).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.LLMCallsTotal.WithLabelValues(provider, modelLabel, "error").Inc()
		span.RecordError(err)
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Wrap(err, errors.CodeLLMTimeout, "llm call timed out")
		}
		return nil, errors.Wrap(err, errors.CodeLLMCallFailed, "llm call failed")
	}
	if outMsg == nil || strings.TrimSpace(outMsg.Content) == "" {
		metrics.LLMCallsTotal.WithLabelValues(provider, modelLabel, "error").Inc()
		return nil, errors.New(errors.CodeLLMCallFailed, "llm returned empty content")
	}

	metrics.LLMCallsTotal.WithLabelValues(provider, modelLabel, "success").Inc()

	res := &copywriting.CompletionResult{Content: outMsg.Content}
	if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		res.PromptTokens = outMsg.ResponseMeta.Usage.PromptTokens
		res.CompletionTokens = outMsg.ResponseMeta.Usage.CompletionTokens
		metrics.LLMTokensTotal.WithLabelValues(provider, modelLabel, "prompt").Add(float64(res.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(provider, modelLabel, "completion").Add(float64(res.CompletionTokens))
	}
	return res, nil
}

func buildModelOptions(req *copywriting.CompletionRequest) []model.Option {
	opts := make([]model.Option, 0, 4)

	if req.Temperature != nil {
		opts = append(opts, model.WithTemperature(*req.Temperature))
	}
	if req.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*req.MaxTokens))
	}
	if m := strings.TrimSpace(req.Model); m != "" {
		opts = append(opts, model.WithModel(m))
	}

	// json_object 只约束合法 JSON，不约束形状；形状由提示词和解码回退兜底
	if req.JSONMode {
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{"type": "json_object"},
		}))
	}
	return opts
}
