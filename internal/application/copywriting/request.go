package copywriting

import (
	"strings"

	"z-copy-ai-api/pkg/errors"
)

// Mode 生成模式
type Mode string

const (
	// ModeCreate 从产品简介新建文案
	ModeCreate Mode = "create"
	// ModeImprove 在保留原意的基础上改进既有文案
	ModeImprove Mode = "improve"
	// ModeAlternative 生成与既有版本明显不同的新版本
	ModeAlternative Mode = "alternative"
	// ModeHeadline 生成标题候选集
	ModeHeadline Mode = "headline"
	// ModeHumanize 消除机器味，让文案更自然
	ModeHumanize Mode = "humanize"
	// ModeRestyle 以指定人物的语言风格重写
	ModeRestyle Mode = "restyle"
)

// GenerationRequest 一次生成请求的不可变配置。
// 一条请求对应一条自包含的生成链，链与链之间不共享任何状态。
type GenerationRequest struct {
	Mode Mode `json:"mode"`

	// 受众 / 语气 / 语言
	Audience  string `json:"audience,omitempty"`
	Tone      string `json:"tone,omitempty"`
	ToneLevel int    `json:"tone_level,omitempty"` // 1..5，Tone 为空时生效
	Language  string `json:"language,omitempty"`

	// Persona 语音人设标签；风格完全通过提示词传达，不是结构化特征模型
	Persona string `json:"persona,omitempty"`

	// Keywords 需要自然融入的关键词
	Keywords []string `json:"keywords,omitempty"`

	// 字数目标信号
	Band            WordCountBand   `json:"band,omitempty"`
	CustomWordCount int             `json:"custom_word_count,omitempty"`
	Template        []TemplateEntry `json:"template,omitempty"`

	// TolerancePercent 容差百分比，0 表示采用默认值 5
	TolerancePercent float64 `json:"tolerance_percent,omitempty"`

	// StrictAdherence 为 false 时首稿即终稿，修订链不运行
	StrictAdherence bool `json:"strict_adherence"`

	// 输入素材：create/alternative 用 Brief，improve/humanize/restyle 用 SourceText
	Brief      string `json:"brief,omitempty"`
	SourceText string `json:"source_text,omitempty"`

	// HeadlineCount 标题模式下的候选条数
	HeadlineCount int `json:"headline_count,omitempty"`

	// LLM 路由（为空时取配置默认值）
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// Validate 校验请求的自洽性
func (r *GenerationRequest) Validate() error {
	switch r.Mode {
	case ModeCreate, ModeAlternative:
		if strings.TrimSpace(r.Brief) == "" {
			return errors.New(errors.CodeInvalidParam, "brief is required").WithDetail(string(r.Mode))
		}
	case ModeImprove, ModeHumanize, ModeRestyle:
		if strings.TrimSpace(r.SourceText) == "" {
			return errors.New(errors.CodeInvalidParam, "source_text is required").WithDetail(string(r.Mode))
		}
	case ModeHeadline:
		if strings.TrimSpace(r.Brief) == "" && strings.TrimSpace(r.SourceText) == "" {
			return errors.New(errors.CodeInvalidParam, "brief or source_text is required")
		}
	default:
		return errors.New(errors.CodeInvalidParam, "unknown generation mode").WithDetail(string(r.Mode))
	}

	if r.Mode == ModeRestyle && strings.TrimSpace(r.Persona) == "" {
		return errors.New(errors.CodeInvalidParam, "persona is required for restyle")
	}
	if r.CustomWordCount < 0 || r.TolerancePercent < 0 {
		return errors.New(errors.CodeInvalidParam, "negative word count or tolerance")
	}
	return nil
}

// Tolerance 返回生效的容差百分比
func (r *GenerationRequest) Tolerance() float64 {
	if r.TolerancePercent > 0 {
		return r.TolerancePercent
	}
	return DefaultTolerancePercent
}

// ExpectsStructured 是否期望结构化（headline + sections）输出
func (r *GenerationRequest) ExpectsStructured() bool {
	if r.Mode == ModeHeadline {
		return false
	}
	return len(r.Template) > 0 || r.Mode == ModeRestyle
}

// ExpectsHeadlines 是否期望标题列表输出
func (r *GenerationRequest) ExpectsHeadlines() bool {
	return r.Mode == ModeHeadline
}

// DecodeFunc 内容解码函数：约定永不失败，解析不出时降级为可用负载
type DecodeFunc func(raw string) ContentPayload

// Decoder 返回该请求对应的解码路径
func (r *GenerationRequest) Decoder() DecodeFunc {
	switch {
	case r.ExpectsHeadlines():
		return DecodeHeadlines
	case r.Mode == ModeRestyle:
		return DecodeStructuredOrWrap
	case r.ExpectsStructured():
		return DecodeStructured
	default:
		return DecodePlain
	}
}

// toneDescriptor 把 1..5 的语气档位映射为“正式↔随意”描述带
func toneDescriptor(level int) string {
	switch level {
	case 1:
		return "非常正式、商务、严谨"
	case 2:
		return "偏正式、专业可信"
	case 3:
		return "中性、自然、清晰"
	case 4:
		return "偏轻松、亲切口语化"
	case 5:
		return "非常随意、俏皮、网感十足"
	default:
		return "中性、自然、清晰"
	}
}

// ToneText 返回生效的语气描述
func (r *GenerationRequest) ToneText() string {
	if strings.TrimSpace(r.Tone) != "" {
		return strings.TrimSpace(r.Tone)
	}
	return toneDescriptor(r.ToneLevel)
}
