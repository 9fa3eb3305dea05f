package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/textsprite/layout"
)

// ParseFont 解析 CSS 字体简写，例如 "italic bold 16px Arial, sans-serif"。
// 行高部分（"16px/1.2"）会被接受但忽略，行高由样式的 lineHeight 控制。
func ParseFont(src string) (layout.Font, error) {
	expr, err := fontParser.ParseString("", src)
	if err != nil {
		return layout.Font{}, fmt.Errorf("解析字体简写 %q 失败: %w", src, err)
	}
	size, err := layout.ParseLength(expr.Size)
	if err != nil {
		return layout.Font{}, err
	}
	font := layout.Font{
		Families: families(expr.Families),
		Size:     size.ToPX(),
		Weight:   layout.WeightNormal,
	}
	if len(font.Families) == 0 {
		return layout.Font{}, fmt.Errorf("字体简写 %q 缺少字体族", src)
	}
	if err := ApplyModifiers(&font, expr.Modifiers); err != nil {
		return layout.Font{}, err
	}
	return font, nil
}

// ApplyModifiers 把 "bold"、"italic"、"700" 等修饰词作用到字体上。
// 未知修饰词返回错误，已处理的修饰词保持生效。
func ApplyModifiers(font *layout.Font, words []string) error {
	for _, w := range words {
		switch strings.ToLower(w) {
		case "normal", "small-caps":
			// small-caps 没有对应的字形变体，按 normal 处理
		case "italic", "oblique":
			font.Italic = true
		case "bold":
			font.Weight = layout.WeightBold
		case "bolder":
			font.Weight = min(font.Weight+300, 900)
		case "lighter":
			font.Weight = max(font.Weight-300, 100)
		default:
			n, err := strconv.Atoi(w)
			if err != nil || n < 1 || n > 1000 {
				return fmt.Errorf("未知的字体修饰词 %q", w)
			}
			font.Weight = n
		}
	}
	return nil
}

// ParseFontStyle 解析 fontStyle 选项（空白分隔的修饰词），重置字重与斜体后再应用。
func ParseFontStyle(font *layout.Font, style string) error {
	next := *font
	next.Weight = layout.WeightNormal
	next.Italic = false
	if err := ApplyModifiers(&next, strings.Fields(style)); err != nil {
		return err
	}
	*font = next
	return nil
}
