package copywriting

import "unicode"

// CountWords 统计一段文本的字数。
// 规则对中英混排友好：每个 CJK 字符记一个字；拉丁等其它脚本按空白切分的
// 连续串记一个词。标点跟随所在词，不单独计数。
func CountWords(s string) int {
	count := 0
	inWord := false
	for _, r := range s {
		switch {
		case isCJK(r):
			if inWord {
				count++
				inWord = false
			}
			count++
		case unicode.IsSpace(r):
			if inWord {
				count++
				inWord = false
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			inWord = true
		default:
			// 标点与符号不开启新词；词内标点（如 don't）跟随所在词
		}
	}
	if inWord {
		count++
	}
	return count
}

// CountPayload 统计任意内容负载的字数（经由唯一的展平路径）
func CountPayload(p ContentPayload) int {
	return CountWords(p.FlatText())
}

// isCJK 判断是否为中日韩统一表意文字及假名、谚文
func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
