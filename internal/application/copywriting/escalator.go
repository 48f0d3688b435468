package copywriting

import (
	"context"
	"fmt"
	"strings"

	"z-copy-ai-api/internal/domain/service"
	"z-copy-ai-api/pkg/logger"
	"z-copy-ai-api/pkg/metrics"
)

// MaxRevisions 单条生成链的最大修订次数
const MaxRevisions = 3

// 各强度的采样温度：
// 常规修订沿用提供商默认温度（nil）；
// 二级修订适度升温促使模型产出新素材；
// 应急修订使用最大采样温度。
var (
	tempAggressive float32 = 0.9
	tempEmergency  float32 = 1.0
)

// RevisionAttempt 一次修订尝试的记录。
// 尝试构成线性链：每次都派生自上一次尝试的产出，而不是最初的首稿。
type RevisionAttempt struct {
	AttemptNumber int            `json:"attempt_number"`
	Strength      PromptStrength `json:"strength"`
	Payload       ContentPayload `json:"payload"`
	WordCount     int            `json:"word_count"`
	Accepted      bool           `json:"accepted"`
}

// EscalationParams 一条修订链的全部参数
type EscalationParams struct {
	Mode             Mode
	Target           int
	TolerancePercent float64

	Provider string
	Model    string
	JSONMode bool

	// Strengthen 按模式定制的修订提示词回调
	Strengthen PromptStrengthener
	// Decode 模式对应的解码路径（约定永不失败）
	Decode DecodeFunc
	// Progress 进度回调，可为 nil
	Progress ProgressFunc
}

// Escalator 字数修订升级状态机：
// Draft → Evaluate → {Accepted | Revise(n)}，n ∈ {1,2,3}，n=3 后无条件终止。
// 任何一次修订调用失败（网络、超时、空响应）都在本地消化并回退到
// 上一个有效尝试——链必须始终以可用内容收尾，绝不向上抛错。
type Escalator struct {
	client CompletionClient
}

// NewEscalator 创建修订状态机
func NewEscalator(client CompletionClient) *Escalator {
	return &Escalator{client: client}
}

// Run 以 draft 为起点驱动修订链，返回最终负载与全部尝试记录。
// 输出选择规则：返回最后一个成功解析的尝试，哪怕仍未达容差；
// 存在先前有效尝试时，绝不返回失败调用的产物。
func (e *Escalator) Run(ctx context.Context, draft ContentPayload, p EscalationParams) (ContentPayload, []RevisionAttempt) {
	current := draft
	currentCount := CountPayload(current)
	attempts := make([]RevisionAttempt, 0, MaxRevisions)

	for n := 1; n <= MaxRevisions; n++ {
		if Accept(currentCount, p.Target, p.TolerancePercent) {
			break
		}

		strength := strengthFor(n)
		emitProgress(p.Progress, fmt.Sprintf("修订 %d/%d（%s）开始：当前 %d 字，目标 %d 字",
			n, MaxRevisions, strength, currentCount, p.Target))
		metrics.RevisionAttemptsTotal.WithLabelValues(string(p.Mode), string(strength)).Inc()

		pair, err := p.Strengthen(ctx, n, strength, current, currentCount)
		if err != nil {
			// 提示词组装失败不消耗调用额度，直接以当前内容收尾
			logger.Error(ctx, "failed to compose revision prompt", err, "attempt", n)
			break
		}

		res, err := e.complete(ctx, n, strength, pair, p)
		if err != nil {
			// 回退：保留上一个有效尝试，链就此终止
			logger.Warn(ctx, "revision call failed, falling back to previous attempt",
				"attempt", n, "strength", string(strength), "error", err.Error())
			metrics.RevisionFallbackTotal.WithLabelValues(string(p.Mode)).Inc()
			break
		}

		payload := p.Decode(res.Content)
		if payload.IsEmpty() {
			logger.Warn(ctx, "revision produced empty content, falling back", "attempt", n)
			metrics.RevisionFallbackTotal.WithLabelValues(string(p.Mode)).Inc()
			break
		}

		count := CountPayload(payload)
		accepted := Accept(count, p.Target, p.TolerancePercent)
		attempts = append(attempts, RevisionAttempt{
			AttemptNumber: n,
			Strength:      strength,
			Payload:       payload,
			WordCount:     count,
			Accepted:      accepted,
		})
		emitProgress(p.Progress, fmt.Sprintf("修订 %d/%d 完成：%d 字", n, MaxRevisions, count))

		current = payload
		currentCount = count
	}

	return current, attempts
}

// complete 发起一次修订调用：升级/应急修订使用更长的超时与更高的温度
func (e *Escalator) complete(ctx context.Context, attempt int, strength PromptStrength, pair PromptPair, p EscalationParams) (*CompletionResult, error) {
	req := &CompletionRequest{
		Provider: p.Provider,
		Model:    p.Model,
		Prompt:   pair,
		JSONMode: p.JSONMode,
		Timeout:  DefaultCallTimeout,
	}

	switch strength {
	case StrengthAggressive:
		req.Timeout = EscalatedCallTimeout
		req.Temperature = &tempAggressive
	case StrengthEmergency:
		req.Timeout = EscalatedCallTimeout
		req.Temperature = &tempEmergency
	}

	ctx = service.WithPurpose(ctx, fmt.Sprintf("revision_%d", attempt))

	res, err := e.client.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if res == nil || strings.TrimSpace(res.Content) == "" {
		return nil, fmt.Errorf("empty llm response")
	}
	return res, nil
}

func emitProgress(fn ProgressFunc, msg string) {
	if fn != nil {
		fn(msg)
	}
}
