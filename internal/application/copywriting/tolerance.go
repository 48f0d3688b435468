package copywriting

import "math"

// DefaultTolerancePercent 默认字数容差百分比
const DefaultTolerancePercent = 5.0

// Accept 判断当前字数相对目标是否可接受：
//
//	current >= floor(target * (1 - tolerancePercent/100))
//
// 策略刻意不对称：只有不足目标才触发修订，超出目标永不扣分
// （产品决策：宁可偏长，不可偏短）。
func Accept(current, target int, tolerancePercent float64) bool {
	if target <= 0 {
		return true
	}
	if tolerancePercent < 0 {
		tolerancePercent = 0
	}
	minWords := int(math.Floor(float64(target) * (100.0 - tolerancePercent) / 100.0))
	return current >= minWords
}
