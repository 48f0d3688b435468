package copywriting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"空串", "", 0},
		{"纯空白", "  \n\t ", 0},
		{"纯中文", "人工智能改变世界", 8},
		{"纯英文", "hello world", 2},
		{"中英混排", "使用 GPT 模型生成文案", 9},
		{"中文标点不计数", "你好，世界。", 4},
		{"英文标点跟随所在词", "Hello, world!", 2},
		{"词内标点", "don't stop me now", 4},
		{"数字串记一个词", "售价 3999 元", 4},
		{"换行分词", "first\nsecond", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWords(tt.in))
		})
	}
}

func TestCountPayloadFlattensOnce(t *testing.T) {
	p := Structured("新品上市", []Section{
		{Title: "核心卖点", Body: []string{"轻薄便携", "续航持久"}},
		{Title: "用户评价", Body: []string{"好评如潮"}, IsList: true},
	})

	// 标题与小节标题同样参与计数
	assert.Equal(t, CountWords(p.FlatText()), CountPayload(p))
	assert.Greater(t, CountPayload(p), 0)
}

func TestCountPayloadHeadlines(t *testing.T) {
	p := HeadlineList([]string{"为什么选我们", "三步搞定"})
	assert.Equal(t, CountWords(p.FlatText()), CountPayload(p))
}
