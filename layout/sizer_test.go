package layout

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"
)

// stubMeasurer 是一个最小实现：每个字符固定 advance 像素宽。
type stubMeasurer struct {
	advance float64
	calls   int
}

func (s *stubMeasurer) MeasureText(line string) float64 {
	s.calls++
	return float64(utf8.RuneCountInString(line)) * s.advance
}

var testMetrics = Metrics{Ascent: 10, Descent: 2, FontSize: 12}

func TestSplitDefaultPattern(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{""}},
		{"A", []string{"A"}},
		{"A\nBB", []string{"A", "BB"}},
		{"A\r\nB\rC", []string{"A", "B", "C"}},
		{"A\n\n\r\nB", []string{"A", "B"}},
		{"A\n", []string{"A", ""}},
		{"   ", []string{"   "}},
	}
	for _, c := range cases {
		got := Split(c.in, nil)
		if len(got) != len(c.want) {
			t.Fatalf("Split(%q) 行数 %d，期望 %d: %q", c.in, len(got), len(c.want), got)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("Split(%q)[%d] = %q，期望 %q", c.in, i, got[i], c.want[i])
			}
		}
	}
}

func TestSplitNormalizesComposedForms(t *testing.T) {
	decomposed := "e\u0301" // e + 组合重音
	got := Split(decomposed, nil)
	if got[0] != "\u00e9" {
		t.Fatalf("期望 NFC 组合形式，实际 %q", got[0])
	}
}

// 对任意非空文本，行数至少为 1。
func TestSplitAlwaysYieldsOneLine(t *testing.T) {
	for _, s := range []string{"", "\n", "\r\n\r\n", "x", "a\nb\nc"} {
		if n := len(Split(s, nil)); n < 1 {
			t.Fatalf("Split(%q) 行数为 %d", s, n)
		}
	}
}

func TestMeasureScenarioTwoLines(t *testing.T) {
	m := &stubMeasurer{advance: 7}
	lines := Split("A\nBB", nil)
	b := Measure(m, testMetrics, lines, SizeParams{})

	if b.Lines != 2 || len(b.LineWidths) != 2 {
		t.Fatalf("行数不一致: lines=%d widths=%d", b.Lines, len(b.LineWidths))
	}
	if b.LineWidths[0] != 7 || b.LineWidths[1] != 14 {
		t.Fatalf("行宽不正确: %v", b.LineWidths)
	}
	if b.Width != 14 {
		t.Fatalf("块宽应为最宽行 14，实际 %g", b.Width)
	}
	if b.LineHeight != 12 || b.Height != 24 {
		t.Fatalf("行高/块高不正确: lineHeight=%g height=%g", b.LineHeight, b.Height)
	}

	_, y0 := LineOrigin(b, 0, testMetrics, AlignLeft, 0)
	_, y1 := LineOrigin(b, 1, testMetrics, AlignLeft, 0)
	if y0 != 10 || y1 != 22 {
		t.Fatalf("基线位置不正确: y0=%g y1=%g", y0, y1)
	}
}

func TestMeasureLineSpacingAndStroke(t *testing.T) {
	m := &stubMeasurer{advance: 5}
	b := Measure(m, testMetrics, []string{"ab", "abc", "a"}, SizeParams{StrokeThickness: 4, LineSpacing: 3})

	// 行宽包含描边并向上取整
	if b.LineWidths[1] != 19 {
		t.Fatalf("描边应计入行宽: %v", b.LineWidths)
	}
	if b.LineHeight != 16 {
		t.Fatalf("行高应为 FontSize + 描边: %g", b.LineHeight)
	}
	if want := 3*16.0 + 2*3.0; b.Height != want {
		t.Fatalf("块高 %g，期望 %g", b.Height, want)
	}
	_, y2 := LineOrigin(b, 2, testMetrics, AlignLeft, 4)
	if want := 2 + 2*16.0 + 10 + 2*3.0; y2 != want {
		t.Fatalf("第三行基线 %g，期望 %g", y2, want)
	}
}

func TestMeasureLineHeightOverride(t *testing.T) {
	b := Measure(&stubMeasurer{advance: 5}, testMetrics, []string{"a", "b"}, SizeParams{LineHeight: 20})
	if b.LineHeight != 20 || b.Height != 40 {
		t.Fatalf("显式行高未生效: %+v", b)
	}
}

func TestMeasureEmptyTextFloorsToOne(t *testing.T) {
	b := Measure(&stubMeasurer{advance: 7}, Metrics{}, Split("", nil), SizeParams{})
	if b.Lines != 1 {
		t.Fatalf("空文本应为 1 行，实际 %d", b.Lines)
	}
	if b.Width < 1 || b.Height < 1 {
		t.Fatalf("空文本块尺寸应至少 1×1，实际 %g×%g", b.Width, b.Height)
	}
}

// TestLineOriginAlignment 验证 left/center/right 的横向偏移（均加上描边一半）。
func TestLineOriginAlignment(t *testing.T) {
	m := &stubMeasurer{advance: 6}
	b := Measure(m, testMetrics, []string{"abcdef", "ab"}, SizeParams{StrokeThickness: 2})
	const eps = 1e-9
	for _, c := range []struct {
		align Align
		want  float64
	}{
		{AlignLeft, 1},
		{AlignCenter, 1 + (b.Width-b.LineWidths[1])/2},
		{AlignRight, 1 + (b.Width - b.LineWidths[1])},
	} {
		x, _ := LineOrigin(b, 1, testMetrics, c.align, 2)
		if math.Abs(x-c.want) > eps {
			t.Fatalf("%s 对齐 x=%g，期望 %g", c.align, x, c.want)
		}
	}
}

func TestParseAlign(t *testing.T) {
	for in, want := range map[string]Align{"left": AlignLeft, "CENTER": AlignCenter, "right": AlignRight, "end": AlignRight} {
		got, err := ParseAlign(in)
		if err != nil || got != want {
			t.Fatalf("ParseAlign(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseAlign("justify"); err == nil {
		t.Fatalf("justify 应返回错误")
	}
}

func TestFontString(t *testing.T) {
	f := Font{Families: []string{"Go Mono", "monospace"}, Size: 18, Weight: WeightBold, Italic: true}
	if got, want := f.String(), `italic 700 18px "Go Mono", monospace`; got != want {
		t.Fatalf("Font.String() = %q，期望 %q", got, want)
	}
	if got := DefaultFont().String(); got != "16px monospace" {
		t.Fatalf("默认字体描述不正确: %q", got)
	}
}

func TestWriteDebugJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	snap := &Snapshot{Text: "A", Block: Block{Width: 7, Height: 12, Lines: 1, LineWidths: []float64{7}}}
	if err := WriteDebugJSON(snap, path); err != nil {
		t.Fatalf("写入调试 JSON 失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取调试 JSON 失败: %v", err)
	}
	var back Snapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	if back.Block.Width != 7 || back.Text != "A" {
		t.Fatalf("调试 JSON 内容不正确: %+v", back)
	}
}
