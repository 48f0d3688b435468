package copywriting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeCreatePrompt(t *testing.T) {
	c := NewComposer("")
	req := &GenerationRequest{
		Mode:     ModeCreate,
		Brief:    "便携式冷萃咖啡机，30 秒出一杯",
		Audience: "都市白领",
		Band:     BandCustom, CustomWordCount: 300,
	}

	pair, err := c.Compose(context.Background(), req, 300, nil)
	require.NoError(t, err)

	assert.Contains(t, pair.System, "300")
	assert.Contains(t, pair.System, "简体中文")
	assert.Contains(t, pair.System, "都市白领")
	assert.Contains(t, pair.User, "便携式冷萃咖啡机")
}

func TestComposeUnknownModeFails(t *testing.T) {
	c := NewComposer("")
	_, err := c.Compose(context.Background(), &GenerationRequest{Mode: "unknown"}, 100, nil)
	assert.Error(t, err)
}

func TestRevisionPromptCarriesTargetAndPersona(t *testing.T) {
	c := NewComposer("")
	req := &GenerationRequest{
		Mode:       ModeRestyle,
		SourceText: "原始文案",
		Persona:    "Steve Jobs",
	}
	current := PlainText(cjkText(100))

	for _, strength := range []PromptStrength{StrengthNormal, StrengthAggressive, StrengthEmergency} {
		pair, err := c.Revision(context.Background(), req, 300, nil, current, 100, strength)
		require.NoError(t, err)

		combined := pair.System + "\n" + pair.User
		// 设有人设时，每一级修订提示词都必须同时点名目标字数与人设名
		assert.Contains(t, combined, "300", "strength=%s", strength)
		assert.Contains(t, combined, "Steve Jobs", "strength=%s", strength)
	}
}

func TestRevisionPromptCarriesCurrentStateAndDelta(t *testing.T) {
	c := NewComposer("")
	req := &GenerationRequest{Mode: ModeCreate, Brief: "简介"}

	pair, err := c.Revision(context.Background(), req, 200, nil, PlainText(cjkText(120)), 120, StrengthNormal)
	require.NoError(t, err)

	assert.Contains(t, pair.User, "120")
	assert.Contains(t, pair.User, "-80")
}

func TestAggressiveRevisionForcesKeywords(t *testing.T) {
	c := NewComposer("")
	req := &GenerationRequest{
		Mode:     ModeCreate,
		Brief:    "简介",
		Keywords: []string{"冷萃", "便携"},
	}

	normal, err := c.Revision(context.Background(), req, 200, nil, PlainText(cjkText(100)), 100, StrengthNormal)
	require.NoError(t, err)
	aggressive, err := c.Revision(context.Background(), req, 200, nil, PlainText(cjkText(100)), 100, StrengthAggressive)
	require.NoError(t, err)

	assert.NotContains(t, normal.User, "强制要求")
	assert.Contains(t, aggressive.User, "强制要求")
	assert.Contains(t, aggressive.User, "冷萃")
	// 二级修订附加扩写强化指令
	assert.Contains(t, aggressive.User, "强化要求")
}

func TestStrengthenerDelegatesToRevision(t *testing.T) {
	c := NewComposer("")
	req := &GenerationRequest{Mode: ModeCreate, Brief: "简介"}

	fn := c.Strengthener(req, 200, nil)
	fromFn, err := fn(context.Background(), 2, StrengthAggressive, PlainText(cjkText(90)), 90)
	require.NoError(t, err)
	direct, err := c.Revision(context.Background(), req, 200, nil, PlainText(cjkText(90)), 90, StrengthAggressive)
	require.NoError(t, err)

	assert.Equal(t, direct, fromFn)
}

func TestStructuredFormatBlockInPrompt(t *testing.T) {
	c := NewComposer("")
	sections := []TemplateEntry{
		{Label: "痛点", WordCount: 100},
		{Label: "方案", WordCount: 200},
	}
	req := &GenerationRequest{
		Mode:     ModeCreate,
		Brief:    "简介",
		Template: sections,
	}

	pair, err := c.Compose(context.Background(), req, 300, sections)
	require.NoError(t, err)

	// 结构模板进入提示词：小节顺序与分配字数
	assert.Contains(t, pair.System, "痛点")
	assert.Contains(t, pair.System, "约 100 字")
	assert.Contains(t, pair.System, "headline")
	assert.Contains(t, pair.System, "sections")
}
