package dsl

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/colornames"
)

// ParseColor 解析 "#rgb"、"#rrggbb"、"#rrggbbaa"、具名颜色（"red"）、
// "transparent" 以及 "rgb(r,g,b)" / "rgba(r,g,b,a)"。返回非预乘的 color.NRGBA。
func ParseColor(src string) (color.Color, error) {
	expr, err := colorParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("解析颜色 %q 失败: %w", src, err)
	}
	if expr.Hex != nil {
		return hexColor(*expr.Hex), nil
	}
	call := expr.Call
	name := strings.ToLower(call.Name)
	if call.Args == nil {
		if name == "transparent" {
			return color.NRGBA{}, nil
		}
		if c, ok := colornames.Map[name]; ok {
			return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
		}
		return nil, fmt.Errorf("未知的颜色名 %q", call.Name)
	}

	switch name {
	case "rgb", "rgba":
	default:
		return nil, fmt.Errorf("不支持的颜色函数 %q", call.Name)
	}
	if len(call.Args) != 3 && len(call.Args) != 4 {
		return nil, fmt.Errorf("%s() 需要 3 或 4 个参数，实际 %d", name, len(call.Args))
	}
	var ch [4]uint8
	ch[3] = 255
	for i, arg := range call.Args {
		v, err := channel(arg, i == 3)
		if err != nil {
			return nil, fmt.Errorf("颜色 %q 第 %d 个参数无效: %w", src, i+1, err)
		}
		ch[i] = v
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// hexColor 把 #rgb/#rgba 展开为 #rrggbb/#rrggbbaa 后交给 canvas.Hex。
func hexColor(s string) color.Color {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) == 3 || len(digits) == 4 {
		var b strings.Builder
		for _, d := range digits {
			b.WriteRune(d)
			b.WriteRune(d)
		}
		digits = b.String()
	}
	c := canvas.Hex("#" + digits)
	return color.NRGBAModel.Convert(c)
}

// channel 解析 rgb 分量（0-255 或百分比）或 alpha（0-1 或百分比）。
func channel(arg string, alpha bool) (uint8, error) {
	percent := strings.HasSuffix(arg, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
	if err != nil {
		return 0, err
	}
	switch {
	case percent:
		v = v / 100 * 255
	case alpha:
		v *= 255
	}
	return uint8(math.Round(math.Max(0, math.Min(v, 255)))), nil
}
