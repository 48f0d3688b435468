package copywriting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcceptFloorBoundary(t *testing.T) {
	// 目标 200，容差 5% → 下限 floor(190) = 190
	assert.True(t, Accept(190, 200, 5))
	assert.False(t, Accept(189, 200, 5))

	// 目标 300，容差 5% → 下限 285
	assert.True(t, Accept(285, 300, 5))
	assert.False(t, Accept(284, 300, 5))

	// 目标 75，容差 5% → 下限 floor(71.25) = 71
	assert.True(t, Accept(71, 75, 5))
	assert.False(t, Accept(70, 75, 5))
}

func TestAcceptOvershootNeverRejected(t *testing.T) {
	// 超出目标任意多都可接受
	assert.True(t, Accept(200, 200, 5))
	assert.True(t, Accept(2000, 200, 5))
}

func TestAcceptDegenerateInputs(t *testing.T) {
	// 目标缺失时一律接受
	assert.True(t, Accept(0, 0, 5))
	assert.True(t, Accept(10, -1, 5))

	// 负容差按 0 处理
	assert.True(t, Accept(200, 200, -3))
	assert.False(t, Accept(199, 200, -3))

	// 容差 0 要求精确达标
	assert.True(t, Accept(200, 200, 0))
	assert.False(t, Accept(199, 200, 0))
}
