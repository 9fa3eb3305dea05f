package style

import (
	"math"

	"github.com/ByLCY/textsprite/dsl"
	"github.com/ByLCY/textsprite/layout"
	"github.com/ByLCY/textsprite/logging"
)

// Options 是一次样式更新，nil 字段保留原值。可直接由 JSON 解码。
type Options struct {
	Font            *string        `json:"font,omitempty"`
	FontFamily      *string        `json:"fontFamily,omitempty"`
	FontSize        *layout.Length `json:"fontSize,omitempty"`
	FontStyle       *string        `json:"fontStyle,omitempty"`
	Color           *string        `json:"color,omitempty"`
	Stroke          *string        `json:"stroke,omitempty"`
	StrokeThickness *float64       `json:"strokeThickness,omitempty"`
	BackgroundColor *string        `json:"backgroundColor,omitempty"`
	Align           *string        `json:"align,omitempty"`
	FixedWidth      *bool          `json:"fixedWidth,omitempty"`
	FixedHeight     *bool          `json:"fixedHeight,omitempty"`
	LineSpacing     *float64       `json:"lineSpacing,omitempty"`
	LineHeight      *float64       `json:"lineHeight,omitempty"`
	Shadow          *ShadowOptions `json:"shadow,omitempty"`
}

type ShadowOptions struct {
	OffsetX *float64 `json:"offsetX,omitempty"`
	OffsetY *float64 `json:"offsetY,omitempty"`
	Color   *string  `json:"color,omitempty"`
	Blur    *float64 `json:"blur,omitempty"`
	Stroke  *bool    `json:"stroke,omitempty"`
	Fill    *bool    `json:"fill,omitempty"`
}

// Ptr 返回 v 的指针，便于构造 Options 字面量。
func Ptr[T any](v T) *T { return &v }

// Apply 合并 opts，返回字体是否发生变化（变化时度量已标记为脏）。
// 无效值记录警告后忽略；无效的 font 简写回退到默认字体。
func (s *Style) Apply(opts Options) bool {
	log := logging.Logger()
	before := s.font.String()
	font := s.Font()

	if opts.Font != nil {
		f, err := dsl.ParseFont(*opts.Font)
		if err != nil {
			log.Warn("无效的字体简写，使用默认字体", "font", *opts.Font, "err", err)
			f = layout.DefaultFont()
		}
		font = f
	}
	if opts.FontFamily != nil {
		if families, err := dsl.ParseFamilies(*opts.FontFamily); err != nil {
			log.Warn("忽略无效的字体族", "fontFamily", *opts.FontFamily, "err", err)
		} else {
			font.Families = families
		}
	}
	if opts.FontSize != nil {
		if px := opts.FontSize.ToPX(); px > 0 && !math.IsInf(px, 0) {
			font.Size = px
		} else {
			log.Warn("忽略无效的字号", "fontSize", opts.FontSize.String())
		}
	}
	if opts.FontStyle != nil {
		if err := dsl.ParseFontStyle(&font, *opts.FontStyle); err != nil {
			log.Warn("忽略无效的字体样式", "fontStyle", *opts.FontStyle, "err", err)
		}
	}
	if font.String() != before {
		s.SetFont(font)
	}

	if opts.Color != nil {
		if c, ok := parseColorOption("color", *opts.Color); ok {
			s.Fill = c
		}
	}
	if opts.Stroke != nil {
		if c, ok := parseColorOption("stroke", *opts.Stroke); ok {
			s.Stroke = c
		}
	}
	if opts.BackgroundColor != nil {
		if c, ok := parseColorOption("backgroundColor", *opts.BackgroundColor); ok {
			s.Background = c
		}
	}
	if opts.StrokeThickness != nil {
		s.StrokeThickness = nonNegative("strokeThickness", *opts.StrokeThickness, s.StrokeThickness)
	}
	if opts.Align != nil {
		if a, err := layout.ParseAlign(*opts.Align); err != nil {
			log.Warn("忽略无效的对齐方式", "align", *opts.Align, "err", err)
		} else {
			s.Align = a
		}
	}
	if opts.FixedWidth != nil {
		s.FixedWidth = *opts.FixedWidth
	}
	if opts.FixedHeight != nil {
		s.FixedHeight = *opts.FixedHeight
	}
	if opts.LineSpacing != nil {
		if v := *opts.LineSpacing; math.IsNaN(v) || math.IsInf(v, 0) {
			log.Warn("忽略无效的行间距", "lineSpacing", v)
		} else {
			s.LineSpacing = v
		}
	}
	if opts.LineHeight != nil {
		s.LineHeight = nonNegative("lineHeight", *opts.LineHeight, s.LineHeight)
	}
	if sh := opts.Shadow; sh != nil {
		s.applyShadow(*sh)
	}
	return s.font.String() != before
}

func (s *Style) applyShadow(sh ShadowOptions) {
	if sh.OffsetX != nil {
		s.Shadow.OffsetX = *sh.OffsetX
	}
	if sh.OffsetY != nil {
		s.Shadow.OffsetY = *sh.OffsetY
	}
	if sh.Color != nil {
		if c, ok := parseColorOption("shadow.color", *sh.Color); ok {
			s.Shadow.Color = c
		}
	}
	if sh.Blur != nil {
		s.Shadow.Blur = nonNegative("shadow.blur", *sh.Blur, s.Shadow.Blur)
	}
	if sh.Stroke != nil {
		s.Shadow.Stroke = *sh.Stroke
	}
	if sh.Fill != nil {
		s.Shadow.Fill = *sh.Fill
	}
}

// nonNegative 把负数截断为 0；NaN/Inf 视为无效并保留 prev。
func nonNegative(name string, v, prev float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		logging.Logger().Warn("忽略无效的数值", "option", name, "value", v)
		return prev
	}
	return math.Max(v, 0)
}
