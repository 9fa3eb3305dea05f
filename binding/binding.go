// Package binding 把 ${path} 占位符替换为 JSON 数据中的值，供 CLI 生成文本。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// placeholder 匹配 ${path} 与 ${path|默认值}。
var placeholder = regexp.MustCompile(`\$\{([^}|]+)(?:\|([^}]*))?\}`)

// Interpolate 将 text 中的占位符替换为 data 中对应的值。
// 路径不存在时使用默认值；没有默认值则保留原占位符。
func Interpolate(text string, data any) string {
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		groups := placeholder.FindStringSubmatch(match)
		path := strings.TrimSpace(groups[1])
		if val, ok := Lookup(data, path); ok && path != "" {
			return format(val)
		}
		if strings.Contains(match, "|") {
			return groups[2]
		}
		return match
	})
}

// Lookup 按 "a.b[0].c" 形式的路径在 encoding/json 解码出的数据中取值。
func Lookup(data any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := parseSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			m, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			list, isList := current.([]any)
			if !isList || idx < 0 || idx >= len(list) {
				return nil, false
			}
			current = list[idx]
		}
	}
	return current, true
}

// parseSegment 拆分 "items[1][2]" 为名称与下标。
func parseSegment(segment string) (string, []int, bool) {
	name, rest, found := strings.Cut(segment, "[")
	if !found {
		return segment, nil, true
	}
	rest = "[" + rest
	var indexes []int
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

// format 输出值的文本形式；整数值的 float64 不带小数点。
func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
