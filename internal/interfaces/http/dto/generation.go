package dto

import (
	"strings"

	"z-copy-ai-api/internal/application/copywriting"
)

// TemplateEntryRequest 结构模板小节
type TemplateEntryRequest struct {
	Label     string `json:"label" binding:"required"`
	WordCount int    `json:"word_count"`
}

// GenerateCopyRequest 文案生成请求
type GenerateCopyRequest struct {
	Mode string `json:"mode" binding:"required"`

	Audience  string `json:"audience"`
	Tone      string `json:"tone"`
	ToneLevel int    `json:"tone_level" binding:"omitempty,min=1,max=5"`
	Language  string `json:"language"`
	Persona   string `json:"persona"`

	Keywords []string `json:"keywords"`

	Length          string                 `json:"length"`
	CustomWordCount int                    `json:"custom_word_count" binding:"omitempty,min=1"`
	Template        []TemplateEntryRequest `json:"template"`

	TolerancePercent float64 `json:"tolerance_percent" binding:"omitempty,gt=0,lt=100"`

	// StrictAdherence 缺省按 true 处理：不达标就进入修订链
	StrictAdherence *bool `json:"strict_adherence"`

	Brief      string `json:"brief"`
	SourceText string `json:"source_text"`

	HeadlineCount int `json:"headline_count" binding:"omitempty,min=1,max=20"`

	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// ToDomain 转换为应用层生成请求
func (r *GenerateCopyRequest) ToDomain() *copywriting.GenerationRequest {
	strict := true
	if r.StrictAdherence != nil {
		strict = *r.StrictAdherence
	}

	template := make([]copywriting.TemplateEntry, 0, len(r.Template))
	for _, t := range r.Template {
		template = append(template, copywriting.TemplateEntry{
			Label:     strings.TrimSpace(t.Label),
			WordCount: t.WordCount,
		})
	}

	return &copywriting.GenerationRequest{
		Mode:             copywriting.Mode(strings.TrimSpace(strings.ToLower(r.Mode))),
		Audience:         r.Audience,
		Tone:             r.Tone,
		ToneLevel:        r.ToneLevel,
		Language:         r.Language,
		Persona:          r.Persona,
		Keywords:         r.Keywords,
		Band:             copywriting.WordCountBand(strings.TrimSpace(strings.ToLower(r.Length))),
		CustomWordCount:  r.CustomWordCount,
		Template:         template,
		TolerancePercent: r.TolerancePercent,
		StrictAdherence:  strict,
		Brief:            r.Brief,
		SourceText:       r.SourceText,
		HeadlineCount:    r.HeadlineCount,
		Provider:         r.Provider,
		Model:            r.Model,
	}
}

// GenerateAlternativesRequest 批量备选版本请求
type GenerateAlternativesRequest struct {
	GenerateCopyRequest
	// Count 备选版本数量
	Count int `json:"count" binding:"omitempty,min=1"`
}

// PromptPairResponse 本次生成最后使用的提示词对
type PromptPairResponse struct {
	System string `json:"system"`
	User   string `json:"user"`
}

// RevisionAttemptResponse 单次修订尝试摘要
type RevisionAttemptResponse struct {
	AttemptNumber int    `json:"attempt_number"`
	Strength      string `json:"strength"`
	WordCount     int    `json:"word_count"`
	Accepted      bool   `json:"accepted"`
}

// CopyResultResponse 单次生成结果
type CopyResultResponse struct {
	ID              string                     `json:"id"`
	Mode            string                     `json:"mode"`
	Content         copywriting.ContentPayload `json:"content"`
	FinalWordCount  int                        `json:"final_word_count"`
	TargetWordCount int                        `json:"target_word_count"`
	WithinTolerance bool                       `json:"within_tolerance"`
	AttemptsUsed    int                        `json:"attempts_used"`
	Attempts        []RevisionAttemptResponse  `json:"attempts,omitempty"`
	Prompts         PromptPairResponse         `json:"prompts"`
	TokensUsed      int                        `json:"tokens_used"`
	Provider        string                     `json:"provider,omitempty"`
	Model           string                     `json:"model,omitempty"`
	DurationMs      int                        `json:"duration_ms"`
}

// AlternativesResponse 批量备选版本结果
type AlternativesResponse struct {
	Alternatives []CopyResultResponse `json:"alternatives"`
	Requested    int                  `json:"requested"`
	Succeeded    int                  `json:"succeeded"`
}

// NewCopyResultResponse 由生成结果组装响应
func NewCopyResultResponse(id string, mode copywriting.Mode, res *copywriting.GenerationResult) CopyResultResponse {
	attempts := make([]RevisionAttemptResponse, 0, len(res.Attempts))
	for _, a := range res.Attempts {
		attempts = append(attempts, RevisionAttemptResponse{
			AttemptNumber: a.AttemptNumber,
			Strength:      string(a.Strength),
			WordCount:     a.WordCount,
			Accepted:      a.Accepted,
		})
	}

	return CopyResultResponse{
		ID:              id,
		Mode:            string(mode),
		Content:         res.Content,
		FinalWordCount:  res.FinalWordCount,
		TargetWordCount: res.TargetWordCount,
		WithinTolerance: res.WithinTolerance,
		AttemptsUsed:    res.AttemptsUsed,
		Attempts:        attempts,
		Prompts:         PromptPairResponse{System: res.Prompts.System, User: res.Prompts.User},
		TokensUsed:      res.TokensUsed,
		Provider:        res.Provider,
		Model:           res.Model,
		DurationMs:      res.DurationMs,
	}
}
