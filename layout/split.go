package layout

import (
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// DefaultSplitPattern 把一个或多个连续的 CR、LF、CRLF 视为一个行边界。
var DefaultSplitPattern = regexp.MustCompile(`(?:\r\n|\r|\n)+`)

// Split 将原始文本拆成有序的行。pattern 为 nil 时使用 DefaultSplitPattern。
// 空文本返回单个空行，保证 lines ≥ 1。
func Split(text string, pattern *regexp.Regexp) []string {
	if pattern == nil {
		pattern = DefaultSplitPattern
	}
	if text == "" {
		return []string{""}
	}
	// 组合形式下，分解字符序列与预组合字符测量结果一致。
	text = norm.NFC.String(text)
	lines := pattern.Split(text, -1)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
