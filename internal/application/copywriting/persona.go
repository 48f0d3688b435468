package copywriting

import "strings"

// personaFingerprints 已知人设的手写风格指纹：句式节奏、用词倾向、修辞手法。
// 不在表内的人设只会得到「模仿此人声音」的通用指令。
var personaFingerprints = map[string]string{
	"Steve Jobs": "极简短句与长停顿交替，反复使用三段式排比；用日常词汇讲宏大愿景，" +
		"惯用对比（\"a thousand songs in your pocket\"式的具象化），结尾常以一句断言收束。",
	"David Ogilvy": "标题先行、事实密集的长文案；句子平实但每句都携带一个卖点或证据，" +
		"喜欢具体数字与试验结果，语气克制而笃定，绝不空喊口号。",
	"罗永浩": "自嘲与认真交织的口语长句，先抖包袱再讲道理；爱用“朋友们”式称呼拉近距离，" +
		"对产品细节偏执式地铺陈，转折处常接一句出人意料的大实话。",
	"董宇辉": "抒情铺陈与知识点穿插，由眼前的商品荡开到山川湖海和人生感悟；" +
		"多用排比与通感，节奏舒缓，最后轻轻落回商品本身。",
}

// personaFingerprint 查找人设风格指纹；大小写不敏感，未命中返回空串
func personaFingerprint(persona string) string {
	p := strings.TrimSpace(persona)
	if p == "" {
		return ""
	}
	if fp, ok := personaFingerprints[p]; ok {
		return fp
	}
	for name, fp := range personaFingerprints {
		if strings.EqualFold(name, p) {
			return fp
		}
	}
	return ""
}
