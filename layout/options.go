package layout

// Measurer 测量单行文本在当前字体下的逻辑宽度。调用前必须已同步字体。
type Measurer interface {
	MeasureText(line string) float64
}

// SizeParams 是块尺寸计算需要的样式参数。
type SizeParams struct {
	StrokeThickness float64
	LineSpacing     float64
	LineHeight      float64 // >0 时覆盖由字体度量推导的行高
}

// MeasureLineWidth 委托给绘制表面的测量原语。
func MeasureLineWidth(m Measurer, line string) float64 {
	if m == nil {
		return 0
	}
	return m.MeasureText(line)
}
