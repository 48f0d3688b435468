package copywriting

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	workflowprompt "z-copy-ai-api/internal/workflow/prompt"
)

// PromptPair 一次补全调用的 system/user 提示词对。
// 作为显式字段随 GenerationResult 返回给调用方，不存在进程级
// “最近一次提示词”单例，避免并发请求间的相互干扰。
type PromptPair struct {
	System string `json:"system"`
	User   string `json:"user"`
}

// PromptStrength 修订提示词强度，随尝试次数逐级升级
type PromptStrength string

const (
	StrengthNormal     PromptStrength = "normal"
	StrengthAggressive PromptStrength = "aggressive"
	StrengthEmergency  PromptStrength = "emergency"
)

// strengthFor 尝试次数 → 强度
func strengthFor(attempt int) PromptStrength {
	switch {
	case attempt <= 1:
		return StrengthNormal
	case attempt == 2:
		return StrengthAggressive
	default:
		return StrengthEmergency
	}
}

// PromptStrengthener 按模式定制的修订提示词构造回调。
// 修订链对所有模式共用同一套升级状态机，模式差异全部收敛到该回调里。
type PromptStrengthener func(ctx context.Context, attempt int, strength PromptStrength, current ContentPayload, currentCount int) (PromptPair, error)

// Composer 负责为各生成模式构建 system/user 提示词对
type Composer struct {
	registry        *workflowprompt.Registry
	defaultLanguage string
}

// NewComposer 创建提示词组装器
func NewComposer(defaultLanguage string) *Composer {
	if strings.TrimSpace(defaultLanguage) == "" {
		defaultLanguage = "简体中文"
	}
	return &Composer{
		registry:        workflowprompt.NewRegistry(),
		defaultLanguage: defaultLanguage,
	}
}

// Compose 构建首稿提示词对
func (c *Composer) Compose(ctx context.Context, req *GenerationRequest, target int, sections []TemplateEntry) (PromptPair, error) {
	id, err := templateFor(req.Mode)
	if err != nil {
		return PromptPair{}, err
	}
	vars := c.baseVars(req, target, sections)
	vars["keyword_block"] = buildKeywordBlock(req.Keywords, false)
	vars["elaboration_block"] = ""
	return c.format(ctx, id, vars)
}

// Revision 构建第 n 次修订的提示词对。
// 每次修订都基于上一次尝试的产出，而不是最初的首稿。
func (c *Composer) Revision(ctx context.Context, req *GenerationRequest, target int, sections []TemplateEntry, current ContentPayload, currentCount int, strength PromptStrength) (PromptPair, error) {
	id := workflowprompt.PromptCopyRevisionV1
	if strength == StrengthEmergency {
		id = workflowprompt.PromptCopyRevisionEmergencyV1
	}

	aggressive := strength == StrengthAggressive

	vars := c.baseVars(req, target, sections)
	vars["current_content"] = current.FlatText()
	vars["current_word_count"] = currentCount
	vars["delta"] = fmt.Sprintf("%+d", currentCount-target)
	vars["keyword_block"] = buildKeywordBlock(req.Keywords, aggressive)
	vars["strength_block"] = buildStrengthBlock(aggressive)
	return c.format(ctx, id, vars)
}

// Strengthener 返回该请求专属的修订提示词回调
func (c *Composer) Strengthener(req *GenerationRequest, target int, sections []TemplateEntry) PromptStrengthener {
	return func(ctx context.Context, attempt int, strength PromptStrength, current ContentPayload, currentCount int) (PromptPair, error) {
		return c.Revision(ctx, req, target, sections, current, currentCount, strength)
	}
}

func (c *Composer) baseVars(req *GenerationRequest, target int, sections []TemplateEntry) map[string]any {
	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = c.defaultLanguage
	}
	headlineCount := req.HeadlineCount
	if headlineCount <= 0 {
		headlineCount = 5
	}

	return map[string]any{
		"language":           language,
		"tone":               req.ToneText(),
		"audience":           strings.TrimSpace(req.Audience),
		"persona":            strings.TrimSpace(req.Persona),
		"persona_block":      buildPersonaBlock(req.Persona),
		"persona_dual_block": buildPersonaDualBlock(req.Persona, target),
		"target_word_count":  target,
		"structure_block":    buildStructureBlock(sections),
		"format_block":       buildFormatBlock(req, sections),
		"brief":              strings.TrimSpace(req.Brief),
		"source_text":        strings.TrimSpace(req.SourceText),
		"headline_count":     headlineCount,
		"keyword_block":      "",
		"elaboration_block":  "",
		"strength_block":     "",
		"current_content":    "",
		"current_word_count": 0,
		"delta":              "",
	}
}

func (c *Composer) format(ctx context.Context, id workflowprompt.PromptID, vars map[string]any) (PromptPair, error) {
	tpl, err := c.registry.ChatTemplate(id)
	if err != nil {
		return PromptPair{}, err
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return PromptPair{}, fmt.Errorf("failed to format prompt %s: %w", id, err)
	}

	var pair PromptPair
	for _, m := range msgs {
		switch m.Role {
		case schema.System:
			pair.System = strings.TrimSpace(m.Content)
		case schema.User:
			pair.User = strings.TrimSpace(m.Content)
		}
	}
	return pair, nil
}

func templateFor(mode Mode) (workflowprompt.PromptID, error) {
	switch mode {
	case ModeCreate:
		return workflowprompt.PromptCopyCreateV1, nil
	case ModeImprove:
		return workflowprompt.PromptCopyImproveV1, nil
	case ModeAlternative:
		return workflowprompt.PromptCopyAlternativeV1, nil
	case ModeHeadline:
		return workflowprompt.PromptCopyHeadlineV1, nil
	case ModeHumanize:
		return workflowprompt.PromptCopyHumanizeV1, nil
	case ModeRestyle:
		return workflowprompt.PromptCopyRestyleV1, nil
	default:
		return "", fmt.Errorf("no prompt template for mode: %s", mode)
	}
}

// buildPersonaBlock 首稿用的人设指令块
func buildPersonaBlock(persona string) string {
	p := strings.TrimSpace(persona)
	if p == "" {
		return ""
	}
	lines := []string{fmt.Sprintf("- 全程模仿「%s」的语言风格，读者应当一眼认出这个声音", p)}
	if fp := personaFingerprint(p); fp != "" {
		lines = append(lines, "- 风格指纹："+fp)
	}
	return strings.Join(lines, "\n")
}

// buildPersonaDualBlock 修订用的双重目标指令块。
// 设有人设时，每一条修订提示词都必须同时点名目标字数与人设名。
func buildPersonaDualBlock(persona string, target int) string {
	p := strings.TrimSpace(persona)
	if p == "" {
		return ""
	}
	lines := []string{fmt.Sprintf(
		"双重目标：修订必须同时做到「全文达到或超过 %d 字」和「始终保持『%s』的语言风格」——两者缺一不可，大量失败的修订都只满足了其中之一。",
		target, p,
	)}
	if fp := personaFingerprint(p); fp != "" {
		lines = append(lines, "风格指纹："+fp)
	}
	return strings.Join(lines, "\n")
}

// buildStructureBlock 结构模板 → 按序小节清单
func buildStructureBlock(sections []TemplateEntry) string {
	if len(sections) == 0 {
		return ""
	}
	lines := make([]string, 0, len(sections)+1)
	lines = append(lines, "文案必须按以下顺序组织小节：")
	for i, s := range sections {
		if s.WordCount > 0 {
			lines = append(lines, fmt.Sprintf("%d. %s（约 %d 字）", i+1, s.Label, s.WordCount))
		} else {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, s.Label))
		}
	}
	return strings.Join(lines, "\n")
}

// buildFormatBlock 输出格式约定
func buildFormatBlock(req *GenerationRequest, sections []TemplateEntry) string {
	switch {
	case req.ExpectsHeadlines():
		return `输出必须是一个 JSON 对象，形如 {"headlines": ["标题一", "标题二"]}，不要输出 JSON 以外的任何内容。`
	case req.ExpectsStructured():
		b := strings.Builder{}
		b.WriteString(`输出必须是一个 JSON 对象，形如 {"headline": "总标题", "sections": [{"title": "小节标题", "content": "正文段落"}]}；`)
		b.WriteString(`列表型小节用 "listItems": ["条目"] 代替 "content"。不要输出 JSON 以外的任何内容。`)
		if len(sections) > 0 {
			b.WriteString(fmt.Sprintf(" sections 数组必须恰好包含上述 %d 个小节，顺序一致。", len(sections)))
		}
		return b.String()
	default:
		return "直接输出正文，不要任何解释、编号或前后缀。"
	}
}

// buildKeywordBlock 关键词融入指令；force 为 true 时升级为强制要求
func buildKeywordBlock(keywords []string, force bool) string {
	cleaned := trimAll(keywords)
	if len(cleaned) == 0 {
		return ""
	}
	joined := strings.Join(cleaned, "、")
	if force {
		return fmt.Sprintf("强制要求：以下每个关键词都必须在正文中至少自然出现一次：%s。", joined)
	}
	return fmt.Sprintf("请自然融入以下关键词：%s。", joined)
}

// buildStrengthBlock 第二级修订附加的扩写/关键词强化指令
func buildStrengthBlock(aggressive bool) string {
	if !aggressive {
		return ""
	}
	return "强化要求：必须为每个核心卖点补充至少一个具体示例、案例或数据；篇幅增量必须来自这些实质内容。"
}
