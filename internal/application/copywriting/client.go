package copywriting

import (
	"context"
	"time"
)

// 补全调用超时：常规调用 60s，升级/应急修订 90s
const (
	DefaultCallTimeout   = 60 * time.Second
	EscalatedCallTimeout = 90 * time.Second
)

// CompletionRequest 单次补全调用的全部输入
type CompletionRequest struct {
	Provider string
	Model    string

	Prompt PromptPair

	// Temperature 为 nil 时使用提供商默认温度
	Temperature *float32
	MaxTokens   *int

	// JSONMode 期望结构化/标题列表负载时强制模型输出合法 JSON
	JSONMode bool

	// Timeout 调用超时；零值按 DefaultCallTimeout 处理
	Timeout time.Duration
}

// CompletionResult 单次补全调用的产出
type CompletionResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// TotalTokens 本次调用消耗的总 token 数
func (r *CompletionResult) TotalTokens() int {
	if r == nil {
		return 0
	}
	return r.PromptTokens + r.CompletionTokens
}

// CompletionClient 应用层对补全端点的最小依赖（port）。
// 约定：实现只发起一次调用，内部不重试——重试/升级策略全部在修订链里；
// 超时通过 context 取消强制执行，绝不无限悬挂。
type CompletionClient interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error)
}
