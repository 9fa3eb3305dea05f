package layout

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// 该文件定义字体描述、度量与布局结果，供样式、渲染与调试 JSON 共用。

// Font 描述一次测量/绘制所用的字体。Size 单位为逻辑像素。
type Font struct {
	Families []string `json:"families"`
	Size     float64  `json:"size"`
	Weight   int      `json:"weight"`
	Italic   bool     `json:"italic,omitempty"`
}

const (
	WeightNormal = 400
	WeightBold   = 700
)

// DefaultFont 返回默认字体 16px monospace。
func DefaultFont() Font {
	return Font{Families: []string{"monospace"}, Size: DefaultFontSizePX, Weight: WeightNormal}
}

// Bold 报告字重是否按粗体渲染。
func (f Font) Bold() bool { return f.Weight >= 600 }

// String 输出规范化的 CSS 简写，例如 "italic 700 16px Go, monospace"，亦作为度量缓存键。
func (f Font) String() string {
	var b strings.Builder
	if f.Italic {
		b.WriteString("italic ")
	}
	weight := f.Weight
	if weight == 0 {
		weight = WeightNormal
	}
	if weight != WeightNormal {
		b.WriteString(strconv.Itoa(weight))
		b.WriteByte(' ')
	}
	b.WriteString(strconv.FormatFloat(f.Size, 'f', -1, 64))
	b.WriteString("px ")
	for i, family := range f.Families {
		if i > 0 {
			b.WriteString(", ")
		}
		if strings.ContainsAny(family, " ,") {
			b.WriteString(strconv.Quote(family))
		} else {
			b.WriteString(family)
		}
	}
	return b.String()
}

// Metrics 是字体的纵向度量，FontSize = Ascent + Descent。
type Metrics struct {
	Ascent   float64 `json:"ascent"`
	Descent  float64 `json:"descent"`
	FontSize float64 `json:"fontSize"`
}

// Align 是文本块内每一行的水平对齐方式。
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// ParseAlign 解析 left/center/right（大小写不敏感，"end" 视为 right，"start" 视为 left）。
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "start", "":
		return AlignLeft, nil
	case "center", "centre", "middle":
		return AlignCenter, nil
	case "right", "end":
		return AlignRight, nil
	default:
		return AlignLeft, fmt.Errorf("未知的对齐方式 %q", s)
	}
}

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

func (a Align) MarshalJSON() ([]byte, error) { return json.Marshal(a.String()) }

// Block 是一次布局得到的块尺寸，LineWidths 与行一一对应。
type Block struct {
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	LineHeight  float64   `json:"lineHeight"`
	LineSpacing float64   `json:"lineSpacing"`
	Lines       int       `json:"lines"`
	LineWidths  []float64 `json:"lineWidths"`
}

// TextLine 表示绘制后的一行文本内容、宽度与基线原点。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// Snapshot 记录最近一次布局的完整结果，便于调试与测试。
type Snapshot struct {
	Text          string     `json:"text"`
	Font          string     `json:"font"`
	Metrics       Metrics    `json:"metrics"`
	Block         Block      `json:"block"`
	Lines         []TextLine `json:"lines"`
	Width         float64    `json:"width"`
	Height        float64    `json:"height"`
	Resolution    float64    `json:"resolution"`
	SurfaceWidth  int        `json:"surfaceWidth"`
	SurfaceHeight int        `json:"surfaceHeight"`
}
