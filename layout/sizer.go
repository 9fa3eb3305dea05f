package layout

import "math"

// Measure 计算文本块尺寸。
//
// 每行宽度 = ceil(描边粗细 + 实测宽度)；块宽取最大行宽；
// 行高 = p.LineHeight（若 >0）否则 metrics.FontSize + 描边粗细；
// 块高 = 行数 × 行高 + (行数 - 1) × 行间距。宽高至少为 1，避免零面积画布。
func Measure(m Measurer, metrics Metrics, lines []string, p SizeParams) Block {
	if len(lines) == 0 {
		lines = []string{""}
	}
	stroke := math.Max(p.StrokeThickness, 0)

	widths := make([]float64, len(lines))
	maxWidth := 0.0
	for i, line := range lines {
		w := math.Ceil(stroke + MeasureLineWidth(m, line))
		widths[i] = w
		maxWidth = math.Max(maxWidth, w)
	}

	lineHeight := p.LineHeight
	if lineHeight <= 0 {
		lineHeight = metrics.FontSize + stroke
	}
	height := lineHeight * float64(len(lines))
	if len(lines) > 1 {
		height += p.LineSpacing * float64(len(lines)-1)
	}

	return Block{
		Width:       math.Max(maxWidth, 1),
		Height:      math.Max(height, 1),
		LineHeight:  lineHeight,
		LineSpacing: p.LineSpacing,
		Lines:       len(lines),
		LineWidths:  widths,
	}
}

// LineOrigin 返回第 i 行的绘制原点（x 为左端，y 为基线），坐标相对块左上角。
func LineOrigin(b Block, i int, m Metrics, align Align, strokeThickness float64) (x, y float64) {
	half := math.Max(strokeThickness, 0) / 2
	x = half
	if i >= 0 && i < len(b.LineWidths) {
		switch align {
		case AlignRight:
			x += b.Width - b.LineWidths[i]
		case AlignCenter:
			x += (b.Width - b.LineWidths[i]) / 2
		}
	}
	y = half + float64(i)*b.LineHeight + m.Ascent + float64(i)*b.LineSpacing
	return x, y
}
