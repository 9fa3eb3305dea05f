// Package fonts 提供随程序分发的内置字体（Go 字体家族）。
package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

var builtin = map[string][]byte{
	"Go-Regular.ttf":         goregular.TTF,
	"Go-Bold.ttf":            gobold.TTF,
	"Go-Italic.ttf":          goitalic.TTF,
	"Go-BoldItalic.ttf":      gobolditalic.TTF,
	"Go-Mono.ttf":            gomono.TTF,
	"Go-Mono-Bold.ttf":       gomonobold.TTF,
	"Go-Mono-Italic.ttf":     gomonoitalic.TTF,
	"Go-Mono-BoldItalic.ttf": gomonobolditalic.TTF,
}

// Load 返回内置字体的字节数据，path 可写为 "embed:Go-Regular.ttf" 或直接 "Go-Regular.ttf"。
func Load(path string) ([]byte, error) {
	name := strings.TrimPrefix(path, "embed:")
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
	}
	return data, nil
}

// Names 按字母序列出所有内置字体文件名。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
