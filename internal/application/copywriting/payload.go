// Package copywriting 实现受字数约束的营销文案生成引擎。
package copywriting

import "strings"

// PayloadKind 内容负载类型标签
type PayloadKind string

const (
	// KindPlainText 纯文本文案
	KindPlainText PayloadKind = "plain_text"
	// KindStructured 标题 + 分节的结构化文案
	KindStructured PayloadKind = "structured"
	// KindHeadlineList 标题候选列表
	KindHeadlineList PayloadKind = "headline_list"
)

// Section 结构化文案中的一节。
// Body 统一表示为字符串序列：散文段落或列表条目，由 IsList 区分。
type Section struct {
	Title  string   `json:"title"`
	Body   []string `json:"body"`
	IsList bool     `json:"is_list,omitempty"`
}

// ContentPayload 生成内容的带标签联合：
// PlainText / Structured / HeadlineList 三种形态之一，消费方按 Kind 穷举分支。
type ContentPayload struct {
	Kind PayloadKind `json:"kind"`

	// Text 仅 KindPlainText 使用
	Text string `json:"text,omitempty"`

	// Headline 与 Sections 仅 KindStructured 使用
	Headline string    `json:"headline,omitempty"`
	Sections []Section `json:"sections,omitempty"`

	// Headlines 仅 KindHeadlineList 使用
	Headlines []string `json:"headlines,omitempty"`
}

// PlainText 构造纯文本负载
func PlainText(text string) ContentPayload {
	return ContentPayload{Kind: KindPlainText, Text: text}
}

// Structured 构造结构化负载
func Structured(headline string, sections []Section) ContentPayload {
	return ContentPayload{Kind: KindStructured, Headline: headline, Sections: sections}
}

// HeadlineList 构造标题列表负载
func HeadlineList(headlines []string) ContentPayload {
	return ContentPayload{Kind: KindHeadlineList, Headlines: headlines}
}

// FlatText 把任意负载展平为纯文本。
// 这是全系统唯一的文本抽取路径：结构化负载的字数 == 展平文本的字数。
// 展平顺序：headline，然后每节依次是标题、正文（段落或条目按换行拼接）。
func (p ContentPayload) FlatText() string {
	switch p.Kind {
	case KindStructured:
		parts := make([]string, 0, 1+2*len(p.Sections))
		if strings.TrimSpace(p.Headline) != "" {
			parts = append(parts, p.Headline)
		}
		for _, s := range p.Sections {
			if strings.TrimSpace(s.Title) != "" {
				parts = append(parts, s.Title)
			}
			if len(s.Body) > 0 {
				parts = append(parts, strings.Join(s.Body, "\n"))
			}
		}
		return strings.Join(parts, "\n")
	case KindHeadlineList:
		return strings.Join(p.Headlines, "\n")
	default:
		return p.Text
	}
}

// IsEmpty 判断负载是否没有任何内容
func (p ContentPayload) IsEmpty() bool {
	return strings.TrimSpace(p.FlatText()) == ""
}
