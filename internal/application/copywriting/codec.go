package copywriting

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
)

// restyledFallbackTitle 结构化解析失败时兜底小节的标题
const restyledFallbackTitle = "Restyled Content"

// wireSection 线格式中的一节：content 与 listItems 二选一
type wireSection struct {
	Title     string   `json:"title"`
	Content   string   `json:"content,omitempty"`
	ListItems []string `json:"listItems,omitempty"`
}

// wireStructured 结构化文案的线格式
type wireStructured struct {
	Headline          string        `json:"headline"`
	Sections          []wireSection `json:"sections"`
	WordCountAccuracy string        `json:"wordCountAccuracy,omitempty"`
}

// wireHeadlines 标题列表的线格式（json_object 模式要求顶层为对象）
type wireHeadlines struct {
	Headlines []string `json:"headlines"`
}

var codeFenceRe = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// StripCodeFences 剥离模型输出中包裹 JSON 的 markdown 代码围栏。
// 这是对不合规模型输出的防御性归一化步骤，作为显式环节放在 codec 而非 HTTP 层。
func StripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// ExtractJSONValue 尝试从模型输出中截取“第一个完整 JSON 对象/数组”。
// 容错逻辑：模型可能在 JSON 前后夹杂多余文本。
func ExtractJSONValue(s string) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return raw
	}

	objStart := strings.Index(raw, "{")
	arrStart := strings.Index(raw, "[")
	start := -1
	end := -1
	switch {
	case objStart >= 0 && (arrStart < 0 || objStart < arrStart):
		start = objStart
		end = strings.LastIndex(raw, "}")
	case arrStart >= 0:
		start = arrStart
		end = strings.LastIndex(raw, "]")
	}
	if start >= 0 && end > start {
		raw = raw[start : end+1]
	}

	// 简单校验：确保至少能被 Decoder 消费到一个 JSON 起始
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err == nil {
		if d, ok := tok.(json.Delim); ok && (d == '{' || d == '[') {
			return raw
		}
	}

	// 最后兜底：尝试读取到 EOF 为止，避免调用方误用
	dec = json.NewDecoder(strings.NewReader(raw))
	for {
		_, e := dec.Token()
		if e != nil {
			if errors.Is(e, io.EOF) {
				break
			}
			return strings.TrimSpace(s)
		}
	}
	return raw
}

// normalizeModelJSON 归一化模型输出：先剥围栏，再截取首个 JSON 值
func normalizeModelJSON(raw string) string {
	return ExtractJSONValue(StripCodeFences(raw))
}

// DecodeStructured 把模型输出解析为结构化负载。
// 解析失败（非法 JSON、缺 headline/sections）不向调用方抛错：
// 整段原文降级为纯文本负载。
func DecodeStructured(raw string) ContentPayload {
	payload, ok := tryDecodeStructured(raw)
	if !ok {
		return PlainText(strings.TrimSpace(raw))
	}
	return payload
}

// DecodeStructuredOrWrap 与 DecodeStructured 相同，但在期望结构化而不可得时，
// 把原文包装为单节结构化负载（标题固定为 Restyled Content）。
func DecodeStructuredOrWrap(raw string) ContentPayload {
	payload, ok := tryDecodeStructured(raw)
	if !ok {
		return Structured("", []Section{{
			Title: restyledFallbackTitle,
			Body:  []string{strings.TrimSpace(raw)},
		}})
	}
	return payload
}

func tryDecodeStructured(raw string) (ContentPayload, bool) {
	text := normalizeModelJSON(raw)
	if text == "" {
		return ContentPayload{}, false
	}

	var wire wireStructured
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return ContentPayload{}, false
	}
	if strings.TrimSpace(wire.Headline) == "" || len(wire.Sections) == 0 {
		return ContentPayload{}, false
	}

	sections := make([]Section, 0, len(wire.Sections))
	for _, ws := range wire.Sections {
		s := Section{Title: strings.TrimSpace(ws.Title)}
		if len(ws.ListItems) > 0 {
			s.Body = ws.ListItems
			s.IsList = true
		} else if strings.TrimSpace(ws.Content) != "" {
			s.Body = splitParagraphs(ws.Content)
		}
		sections = append(sections, s)
	}
	return Structured(strings.TrimSpace(wire.Headline), sections), true
}

// DecodeHeadlines 把模型输出解析为标题列表负载。
// 兼容三种形态：{"headlines":[...]}、裸 JSON 数组、按行分隔的纯文本。
func DecodeHeadlines(raw string) ContentPayload {
	text := normalizeModelJSON(raw)

	var wrapped wireHeadlines
	if err := json.Unmarshal([]byte(text), &wrapped); err == nil && len(wrapped.Headlines) > 0 {
		return HeadlineList(trimAll(wrapped.Headlines))
	}

	var list []string
	if err := json.Unmarshal([]byte(text), &list); err == nil && len(list) > 0 {
		return HeadlineList(trimAll(list))
	}

	// 纯文本兜底：每个非空行视为一条标题
	lines := make([]string, 0, 8)
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*0123456789. "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > 0 {
		return HeadlineList(lines)
	}
	return PlainText(strings.TrimSpace(raw))
}

// DecodePlain 把模型输出规整为纯文本负载
func DecodePlain(raw string) ContentPayload {
	return PlainText(strings.TrimSpace(raw))
}

// EncodeWire 把负载序列化为线格式 JSON；纯文本负载原样返回文本。
func EncodeWire(p ContentPayload) (string, error) {
	switch p.Kind {
	case KindStructured:
		wire := wireStructured{Headline: p.Headline}
		for _, s := range p.Sections {
			ws := wireSection{Title: s.Title}
			if s.IsList {
				ws.ListItems = s.Body
			} else {
				ws.Content = strings.Join(s.Body, "\n\n")
			}
			wire.Sections = append(wire.Sections, ws)
		}
		b, err := json.Marshal(wire)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case KindHeadlineList:
		b, err := json.Marshal(wireHeadlines{Headlines: p.Headlines})
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return p.Text, nil
	}
}

func splitParagraphs(content string) []string {
	parts := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it != "" {
			out = append(out, it)
		}
	}
	return out
}
