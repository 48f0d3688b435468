package copywriting

// WordCountBand 字数档位
type WordCountBand string

const (
	BandShort  WordCountBand = "short"
	BandMedium WordCountBand = "medium"
	BandLong   WordCountBand = "long"
	BandCustom WordCountBand = "custom"
)

// 各档位的中位数字数
const (
	presetShort  = 75
	presetMedium = 150
	presetLong   = 300
)

// TemplateEntry 结构模板中的一个条目（小节标签 + 可选字数）
type TemplateEntry struct {
	Label     string `json:"label"`
	WordCount int    `json:"word_count,omitempty"`
}

// presetMidpoint 返回档位中位数；未知或未设置按 medium 处理
func presetMidpoint(band WordCountBand) int {
	switch band {
	case BandShort:
		return presetShort
	case BandLong:
		return presetLong
	default:
		return presetMedium
	}
}

// ResolveTarget 从多个相互竞争的配置信号中解析出唯一的目标字数。
// 解析规则（按优先级）：
//  1. 自定义字数与结构字数之和都存在时取两者较大值（max 胜出，
//     保证更精细的结构化约定不会被宽松的自定义数字截断）
//  2. 只有自定义字数时取自定义字数
//  3. 只有结构字数之和时取结构字数之和
//  4. 都没有时取档位中位数
//
// 目标字数在一次请求内只解析一次，所有修订尝试共用同一目标。
func ResolveTarget(band WordCountBand, customCount int, template []TemplateEntry) int {
	custom := 0
	if band == BandCustom && customCount > 0 {
		custom = customCount
	}

	structureSum := 0
	for _, e := range template {
		if e.WordCount > 0 {
			structureSum += e.WordCount
		}
	}

	switch {
	case custom > 0 && structureSum > 0:
		if custom > structureSum {
			return custom
		}
		return structureSum
	case custom > 0:
		return custom
	case structureSum > 0:
		return structureSum
	default:
		return presetMidpoint(band)
	}
}

// DistributeSectionTargets 为没有显式字数的结构模板均分目标字数。
// 仅当模板存在条目且所有条目都未携带字数时生效：每个条目分得
// target/len(entries) 字（整除，余数舍弃）。否则原样返回。
func DistributeSectionTargets(target int, template []TemplateEntry) []TemplateEntry {
	if len(template) == 0 || target <= 0 {
		return template
	}
	for _, e := range template {
		if e.WordCount > 0 {
			return template
		}
	}

	per := target / len(template)
	out := make([]TemplateEntry, len(template))
	for i, e := range template {
		out[i] = TemplateEntry{Label: e.Label, WordCount: per}
	}
	return out
}
