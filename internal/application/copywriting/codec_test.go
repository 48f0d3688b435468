package copywriting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	body := `{"headline":"标题","sections":[]}`

	assert.Equal(t, body, StripCodeFences("```json\n"+body+"\n```"))
	assert.Equal(t, body, StripCodeFences("```\n"+body+"\n```"))
	// 无围栏时只做首尾修剪
	assert.Equal(t, body, StripCodeFences("  "+body+"\n"))
}

func TestDecodeStructured(t *testing.T) {
	raw := "模型的多余前言。\n```json\n" + `{
		"headline": "三步提升转化率",
		"sections": [
			{"title": "痛点", "content": "第一段。\n\n第二段。"},
			{"title": "卖点清单", "listItems": ["轻薄", "续航", "快充"]}
		],
		"wordCountAccuracy": "exact"
	}` + "\n```\n结尾赘述。"

	p := DecodeStructured(raw)
	require.Equal(t, KindStructured, p.Kind)
	assert.Equal(t, "三步提升转化率", p.Headline)
	require.Len(t, p.Sections, 2)
	assert.Equal(t, []string{"第一段。", "第二段。"}, p.Sections[0].Body)
	assert.False(t, p.Sections[0].IsList)
	assert.True(t, p.Sections[1].IsList)
	assert.Equal(t, []string{"轻薄", "续航", "快充"}, p.Sections[1].Body)
}

func TestDecodeStructuredFallsBackToPlainText(t *testing.T) {
	raw := "这不是 JSON，只是一段普通文案。"
	p := DecodeStructured(raw)
	assert.Equal(t, KindPlainText, p.Kind)
	assert.Equal(t, raw, p.Text)

	// 缺 headline 同样降级
	p = DecodeStructured(`{"sections":[{"title":"a","content":"b"}]}`)
	assert.Equal(t, KindPlainText, p.Kind)
}

func TestDecodeStructuredOrWrap(t *testing.T) {
	raw := "乔布斯风格的重写结果，但模型没按 JSON 输出。"
	p := DecodeStructuredOrWrap(raw)

	require.Equal(t, KindStructured, p.Kind)
	require.Len(t, p.Sections, 1)
	assert.Equal(t, "Restyled Content", p.Sections[0].Title)
	assert.Equal(t, []string{raw}, p.Sections[0].Body)
}

func TestDecodeHeadlines(t *testing.T) {
	// 对象形态
	p := DecodeHeadlines(`{"headlines":["标题一","标题二"]}`)
	require.Equal(t, KindHeadlineList, p.Kind)
	assert.Equal(t, []string{"标题一", "标题二"}, p.Headlines)

	// 裸数组形态
	p = DecodeHeadlines("```json\n[\"A\",\"B\",\"C\"]\n```")
	require.Equal(t, KindHeadlineList, p.Kind)
	assert.Len(t, p.Headlines, 3)

	// 纯文本按行兜底，剥掉编号前缀
	p = DecodeHeadlines("1. 第一条\n2. 第二条\n- 第三条\n")
	require.Equal(t, KindHeadlineList, p.Kind)
	assert.Equal(t, []string{"第一条", "第二条", "第三条"}, p.Headlines)
}

func TestEncodeWireRoundTripPreservesWordCount(t *testing.T) {
	p := Structured("夏季新品发布", []Section{
		{Title: "开场", Body: []string{"这个夏天与众不同。", "我们带来了全新系列。"}},
		{Title: "亮点", Body: []string{"面料透气", "版型修身"}, IsList: true},
	})

	encoded, err := EncodeWire(p)
	require.NoError(t, err)

	decoded := DecodeStructured(encoded)
	require.Equal(t, KindStructured, decoded.Kind)
	// 编码再解码后字数保持稳定
	assert.Equal(t, CountPayload(p), CountPayload(decoded))
}

func TestEncodeWirePlainText(t *testing.T) {
	p := PlainText("原样返回的文本")
	out, err := EncodeWire(p)
	require.NoError(t, err)
	assert.Equal(t, p.Text, out)
}
