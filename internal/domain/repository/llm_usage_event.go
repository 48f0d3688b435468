// Package repository 定义领域仓储接口
package repository

import (
	"context"
	"time"

	"z-copy-ai-api/internal/domain/entity"
)

// LLMUsageEventRepository LLM 用量流水仓储
type LLMUsageEventRepository interface {
	Create(ctx context.Context, event *entity.LLMUsageEvent) error
	GetTokenUsage(ctx context.Context, clientID string, startInclusive, endExclusive time.Time) (int64, error)
}
