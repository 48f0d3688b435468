package copywriting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTargetPresets(t *testing.T) {
	assert.Equal(t, 75, ResolveTarget(BandShort, 0, nil))
	assert.Equal(t, 150, ResolveTarget(BandMedium, 0, nil))
	assert.Equal(t, 300, ResolveTarget(BandLong, 0, nil))
	// 未指定档位按 medium 处理
	assert.Equal(t, 150, ResolveTarget("", 0, nil))
}

func TestResolveTargetMaxWins(t *testing.T) {
	template := []TemplateEntry{
		{Label: "开头", WordCount: 100},
		{Label: "正文", WordCount: 150},
	}

	// 结构字数之和更大时结构胜出
	assert.Equal(t, 250, ResolveTarget(BandCustom, 200, template))
	// 自定义更大时自定义胜出
	assert.Equal(t, 400, ResolveTarget(BandCustom, 400, template))
}

func TestResolveTargetCustomRequiresCustomBand(t *testing.T) {
	// 档位不是 custom 时自定义字数被忽略
	assert.Equal(t, 75, ResolveTarget(BandShort, 500, nil))
	assert.Equal(t, 500, ResolveTarget(BandCustom, 500, nil))
	// custom 档位但字数缺失时回退中位数
	assert.Equal(t, 150, ResolveTarget(BandCustom, 0, nil))
}

func TestResolveTargetStructureOnly(t *testing.T) {
	template := []TemplateEntry{
		{Label: "痛点", WordCount: 80},
		{Label: "方案", WordCount: 120},
		{Label: "行动号召"},
	}
	assert.Equal(t, 200, ResolveTarget(BandMedium, 0, template))
}

func TestDistributeSectionTargets(t *testing.T) {
	template := []TemplateEntry{
		{Label: "开头"},
		{Label: "正文"},
		{Label: "结尾"},
	}

	out := DistributeSectionTargets(100, template)
	assert.Len(t, out, 3)
	for _, e := range out {
		// 100/3 整除，余数舍弃
		assert.Equal(t, 33, e.WordCount)
	}

	// 任一条目已带字数则原样返回
	withCounts := []TemplateEntry{
		{Label: "开头", WordCount: 50},
		{Label: "正文"},
	}
	assert.Equal(t, withCounts, DistributeSectionTargets(100, withCounts))

	// 空模板原样返回
	assert.Empty(t, DistributeSectionTargets(100, nil))
}
