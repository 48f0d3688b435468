// Package quota 提供 LLM 用量记录与统计
package quota

import (
	"context"
	"fmt"
	"strings"

	"z-copy-ai-api/internal/domain/entity"
	"z-copy-ai-api/internal/domain/repository"
	"z-copy-ai-api/internal/domain/service"
)

// LLMUsageRecorder 将每次 LLM 调用落库为一条用量流水。
// 该实现满足 service.LLMUsageRecorder 的尽力而为契约：
// 落库失败只向上返回错误供记日志，绝不阻断生成链路。
type LLMUsageRecorder struct {
	usageRepo repository.LLMUsageEventRepository
}

func NewLLMUsageRecorder(usageRepo repository.LLMUsageEventRepository) *LLMUsageRecorder {
	return &LLMUsageRecorder{usageRepo: usageRepo}
}

func (r *LLMUsageRecorder) Record(ctx context.Context, in service.LLMUsageInput) error {
	if r == nil || r.usageRepo == nil {
		return nil
	}
	if in.PromptTokens < 0 || in.CompletionTokens < 0 {
		return fmt.Errorf("invalid token usage")
	}

	evt := &entity.LLMUsageEvent{
		ClientID:         strings.TrimSpace(in.ClientID),
		Provider:         strings.TrimSpace(in.Provider),
		Model:            strings.TrimSpace(in.Model),
		Purpose:          strings.TrimSpace(in.Purpose),
		TokensPrompt:     in.PromptTokens,
		TokensCompletion: in.CompletionTokens,
		DurationMs:       in.DurationMs,
	}
	return r.usageRepo.Create(ctx, evt)
}
