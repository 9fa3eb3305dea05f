// Package style 保存文本实体的字体与绘制配置，并惰性地缓存字体度量。
package style

import (
	"image/color"
	"math"
	"slices"

	"github.com/ByLCY/textsprite/dsl"
	"github.com/ByLCY/textsprite/layout"
	"github.com/ByLCY/textsprite/logging"
	"github.com/ByLCY/textsprite/renderer"
)

// Shadow 是投影配置；Stroke/Fill 分别控制描边与填充是否带投影。
type Shadow struct {
	OffsetX float64
	OffsetY float64
	Color   color.Color
	Blur    float64
	Stroke  bool
	Fill    bool
}

// Style 由单个文本实体独占。
//
// 直接修改导出的绘制字段无需失效处理；字体只能经 SetFont/Apply 修改，
// 二者都会标记度量为脏。
type Style struct {
	Fill            color.Color
	Stroke          color.Color
	Background      color.Color
	StrokeThickness float64
	Shadow          Shadow
	Align           layout.Align
	FixedWidth      bool
	FixedHeight     bool
	LineSpacing     float64
	LineHeight      float64 // >0 时覆盖推导出的行高

	font       layout.Font
	dirty      bool
	metrics    layout.Metrics
	metricsKey string // 测量时画布的 MetricsKey
	provider   MetricsProvider
}

// New 返回默认样式：16px monospace，白色填充与描边，无背景。provider 为 nil 时使用 DefaultProvider。
func New(provider MetricsProvider) *Style {
	if provider == nil {
		provider = DefaultProvider
	}
	return &Style{
		Fill:     color.White,
		Stroke:   color.White,
		Shadow:   Shadow{Color: color.Black},
		font:     layout.DefaultFont(),
		dirty:    true,
		provider: provider,
	}
}

// Font 返回当前字体的副本。
func (s *Style) Font() layout.Font {
	f := s.font
	f.Families = slices.Clone(f.Families)
	return f
}

// SetFont 替换字体并标记度量为脏。缺省字号与字体族用默认值补齐。
func (s *Style) SetFont(f layout.Font) {
	def := layout.DefaultFont()
	if f.Size <= 0 || math.IsNaN(f.Size) {
		f.Size = def.Size
	}
	if len(f.Families) == 0 {
		f.Families = def.Families
	}
	if f.Weight == 0 {
		f.Weight = layout.WeightNormal
	}
	f.Families = slices.Clone(f.Families)
	s.font = f
	s.dirty = true
}

// SetProvider 替换度量来源，nil 表示 DefaultProvider。
func (s *Style) SetProvider(p MetricsProvider) {
	if p == nil {
		p = DefaultProvider
	}
	s.provider = p
	s.dirty = true
}

// Invalidate 显式标记度量为脏。
func (s *Style) Invalidate() { s.dirty = true }

// Dirty 报告下一次 Metrics 是否会重新测量。
func (s *Style) Dirty() bool { return s.dirty }

// Metrics 返回字体度量，只有在脏或画布的 MetricsKey 变化时才经 provider 重新测量。
func (s *Style) Metrics(surface renderer.Surface) layout.Metrics {
	var key string
	if k, ok := surface.(MetricsKeyer); ok {
		key = k.MetricsKey()
	}
	if s.dirty || key != s.metricsKey {
		s.metrics = s.provider.MeasureFont(surface, s.font)
		s.metricsKey = key
		s.dirty = false
	}
	return s.metrics
}

// SyncFont 把字体、颜色与线宽写入画布。画布的字体状态在 Resize 后不保证保留，
// 每次测量与绘制前都要调用。
func (s *Style) SyncFont(surface renderer.Surface) {
	surface.SetFont(s.font)
	surface.SetFillColor(s.Fill)
	surface.SetStrokeColor(s.Stroke)
	surface.SetLineWidth(s.StrokeThickness)
}

// SyncShadow 在 enabled 时设置投影，否则清除。
func (s *Style) SyncShadow(surface renderer.Surface, enabled bool) {
	if !enabled || s.Shadow.Color == nil {
		surface.SetShadow(nil)
		return
	}
	surface.SetShadow(&renderer.Shadow{
		OffsetX: s.Shadow.OffsetX,
		OffsetY: s.Shadow.OffsetY,
		Blur:    s.Shadow.Blur,
		Color:   s.Shadow.Color,
	})
}

// Params 返回块尺寸计算所需的参数。
func (s *Style) Params() layout.SizeParams {
	return layout.SizeParams{
		StrokeThickness: s.StrokeThickness,
		LineSpacing:     s.LineSpacing,
		LineHeight:      s.LineHeight,
	}
}

func parseColorOption(name, value string) (color.Color, bool) {
	if value == "" {
		return nil, true
	}
	c, err := dsl.ParseColor(value)
	if err != nil {
		logging.Logger().Warn("忽略无效的颜色", "option", name, "value", value, "err", err)
		return nil, false
	}
	return c, true
}
