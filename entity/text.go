package entity

import (
	"errors"
	"fmt"
	"math"
	"regexp"

	"github.com/ByLCY/textsprite/layout"
	"github.com/ByLCY/textsprite/logging"
	"github.com/ByLCY/textsprite/renderer"
	"github.com/ByLCY/textsprite/style"
)

// ErrDestroyed 表示对已销毁的文本对象调用了修改方法。
var ErrDestroyed = errors.New("entity: 文本对象已销毁")

// Padding 是文本块四周的留白（逻辑像素），X 作用于左右，Y 作用于上下。
type Padding struct {
	X, Y float64
}

// Text 是可绘制的多行文本对象。
//
// 每次修改（文本、样式、分辨率、留白...）都会同步重新布局并重绘背后的画布，
// 返回后即可读取新的 Width/Height 与画布内容。Text 不能并发使用。
type Text struct {
	Transform
	Anchor
	Opacity
	Visibility
	Blending
	Scaling

	alloc    renderer.Allocator
	surface  renderer.Surface
	style    *style.Style
	provider style.MetricsProvider

	text         string
	resolution   float64
	padding      Padding
	width        float64
	height       float64
	autoRound    bool
	splitPattern *regexp.Regexp

	snapshot  layout.Snapshot
	passes    int
	destroyed bool
}

var _ Drawable = (*Text)(nil)

// Option 配置新建的 Text。
type Option func(*Text)

// WithMetricsProvider 注入字体度量来源，默认 style.DefaultProvider。
func WithMetricsProvider(p style.MetricsProvider) Option {
	return func(t *Text) { t.provider = p }
}

// WithResolution 设置设备像素倍率，≤0 视为 1。
func WithResolution(r float64) Option {
	return func(t *Text) { t.resolution = normalizeResolution(r) }
}

// WithSplitPattern 设置行分隔模式，nil 表示 layout.DefaultSplitPattern。
func WithSplitPattern(re *regexp.Regexp) Option {
	return func(t *Text) { t.splitPattern = re }
}

func WithPadding(x, y float64) Option {
	return func(t *Text) { t.padding = normalizePadding(x, y) }
}

// WithAutoRound 控制行原点是否吸附到整数像素，默认开启。
func WithAutoRound(on bool) Option {
	return func(t *Text) { t.autoRound = on }
}

// New 从 alloc 获取画布，应用样式并立即完成一次布局。
func New(alloc renderer.Allocator, x, y float64, text string, opts style.Options, options ...Option) (*Text, error) {
	if alloc == nil {
		return nil, fmt.Errorf("entity: allocator 不能为空")
	}
	t := &Text{
		Transform:  NewTransform(x, y),
		alloc:      alloc,
		text:       text,
		resolution: 1,
		width:      1,
		height:     1,
		autoRound:  true,
	}
	for _, opt := range options {
		opt(t)
	}
	t.style = style.New(t.provider)
	t.style.Apply(opts)

	surface, err := alloc.Acquire(t)
	if err != nil {
		return nil, fmt.Errorf("获取画布失败: %w", err)
	}
	t.surface = surface
	if err := t.UpdateText(); err != nil {
		alloc.Release(t)
		t.surface = nil
		t.destroyed = true
		return nil, err
	}
	return t, nil
}

func (t *Text) Text() string { return t.text }

// SetText 替换文本；与当前文本相同时不做任何事。
func (t *Text) SetText(v string) error {
	if t.destroyed {
		return ErrDestroyed
	}
	if v == t.text {
		return nil
	}
	f := t.current()
	f.text = v
	return t.render(f)
}

// Style 返回可直接修改的样式；修改后调用 UpdateText 使其生效。
func (t *Text) Style() *style.Style { return t.style }

// SetStyle 合并样式选项并重新布局。
func (t *Text) SetStyle(opts style.Options) error {
	if t.destroyed {
		return ErrDestroyed
	}
	t.style.Apply(opts)
	return t.UpdateText()
}

func (t *Text) Resolution() float64 { return t.resolution }

func (t *Text) SetResolution(r float64) error {
	if t.destroyed {
		return ErrDestroyed
	}
	r = normalizeResolution(r)
	if r == t.resolution {
		return nil
	}
	f := t.current()
	f.resolution = r
	return t.render(f)
}

func (t *Text) Padding() Padding { return t.padding }

// SetPadding 设置留白，负数截断为 0。
func (t *Text) SetPadding(x, y float64) error {
	if t.destroyed {
		return ErrDestroyed
	}
	p := normalizePadding(x, y)
	if p == t.padding {
		return nil
	}
	f := t.current()
	f.padding = p
	return t.render(f)
}

func (t *Text) AutoRound() bool { return t.autoRound }

func (t *Text) SetAutoRound(on bool) error {
	if t.destroyed {
		return ErrDestroyed
	}
	if on == t.autoRound {
		return nil
	}
	f := t.current()
	f.autoRound = on
	return t.render(f)
}

// SetSplitPattern 替换行分隔模式，nil 恢复默认。
func (t *Text) SetSplitPattern(re *regexp.Regexp) error {
	if t.destroyed {
		return ErrDestroyed
	}
	f := t.current()
	f.splitPattern = re
	return t.render(f)
}

func (t *Text) Width() float64  { return t.width }
func (t *Text) Height() float64 { return t.height }

// SetSize 设置声明尺寸。只有在样式的 FixedWidth/FixedHeight 打开的方向上，
// 声明值才会在随后的布局中保留，其余方向由测量结果覆盖。
func (t *Text) SetSize(w, h float64) error {
	if t.destroyed {
		return ErrDestroyed
	}
	f := t.current()
	f.width = math.Max(w, 1)
	f.height = math.Max(h, 1)
	return t.render(f)
}

// Surface 返回背后的画布；销毁后为 nil。
func (t *Text) Surface() renderer.Surface { return t.surface }

// Layout 返回最近一次布局的结果。
func (t *Text) Layout() layout.Snapshot {
	s := t.snapshot
	s.Lines = append([]layout.TextLine(nil), s.Lines...)
	s.Block.LineWidths = append([]float64(nil), s.Block.LineWidths...)
	return s
}

// Bounds 返回场景坐标下的轴对齐包围盒。
func (t *Text) Bounds() Rect { return bounds(&t.Transform, &t.Anchor, t.width, t.height) }

// Destroy 把画布归还给分配器。可重复调用。
func (t *Text) Destroy() {
	if t.destroyed {
		return
	}
	t.alloc.Release(t)
	t.surface = nil
	t.destroyed = true
}

// frame 是一次布局的输入；只有画布尺寸调整成功后才写回 Text。
type frame struct {
	text          string
	resolution    float64
	padding       Padding
	width, height float64 // 声明尺寸，仅在固定方向上保留
	autoRound     bool
	splitPattern  *regexp.Regexp
}

func (t *Text) current() frame {
	return frame{
		text:         t.text,
		resolution:   t.resolution,
		padding:      t.padding,
		width:        t.width,
		height:       t.height,
		autoRound:    t.autoRound,
		splitPattern: t.splitPattern,
	}
}

func (t *Text) commit(f frame) {
	t.text = f.text
	t.resolution = f.resolution
	t.padding = f.padding
	t.width, t.height = f.width, f.height
	t.autoRound = f.autoRound
	t.splitPattern = f.splitPattern
	t.updateOrigin(f.width, f.height)
}

// UpdateText 重新布局并重绘画布：
//
//  1. 按分隔模式拆行；
//  2. 取字体度量并计算块尺寸；
//  3. 未固定的方向用测量值更新宽高，并更新显示原点；
//  4. 像素尺寸变化时 Resize，否则 Clear；
//  5. 填充背景色（若有）；
//  6. 重新同步字体后逐行先描边再填充。
//
// Resize 失败时对象保持调用前的状态。
func (t *Text) UpdateText() error {
	if t.destroyed {
		return ErrDestroyed
	}
	return t.render(t.current())
}

func (t *Text) render(f frame) error {
	s, st := t.surface, t.style

	lines := layout.Split(f.text, f.splitPattern)
	metrics := st.Metrics(s)
	st.SyncFont(s)
	block := layout.Measure(s, metrics, lines, st.Params())

	padX, padY := f.padding.X, f.padding.Y
	if !st.FixedWidth {
		f.width = block.Width + 2*padX
	}
	if !st.FixedHeight {
		f.height = block.Height + 2*padY
	}

	w := max(int(math.Round(f.width*f.resolution)), 1)
	h := max(int(math.Round(f.height*f.resolution)), 1)
	if cw, ch := s.Size(); cw != w || ch != h {
		if err := s.Resize(w, h); err != nil {
			return fmt.Errorf("调整画布尺寸到 %dx%d 失败: %w", w, h, err)
		}
	} else {
		s.Clear()
	}
	t.commit(f)
	s.SetScale(t.resolution)

	if bg := st.Background; bg != nil {
		s.SetShadow(nil)
		s.SetFillColor(bg)
		s.FillRect(0, 0, t.width, t.height)
	}

	st.SyncFont(s)

	// 固定宽度时按可用内宽对齐
	aligned := block
	if st.FixedWidth {
		aligned.Width = math.Max(t.width-2*padX, 0)
	}
	drawn := make([]layout.TextLine, len(lines))
	for i, line := range lines {
		x, y := layout.LineOrigin(aligned, i, metrics, st.Align, st.StrokeThickness)
		x += padX
		y += padY
		if t.autoRound {
			x, y = math.Round(x), math.Round(y)
		}
		if st.StrokeThickness > 0 && st.Stroke != nil {
			st.SyncShadow(s, st.Shadow.Stroke)
			s.StrokeText(line, x, y)
		}
		if st.Fill != nil {
			st.SyncShadow(s, st.Shadow.Fill)
			s.FillText(line, x, y)
		}
		drawn[i] = layout.TextLine{Content: line, Width: block.LineWidths[i], X: x, Y: y}
	}

	t.passes++
	t.snapshot = layout.Snapshot{
		Text:          t.text,
		Font:          st.Font().String(),
		Metrics:       metrics,
		Block:         block,
		Lines:         drawn,
		Width:         t.width,
		Height:        t.height,
		Resolution:    t.resolution,
		SurfaceWidth:  w,
		SurfaceHeight: h,
	}
	logging.Logger().Debug("文本布局完成",
		"lines", len(lines), "width", t.width, "height", t.height,
		"surface", fmt.Sprintf("%dx%d", w, h))
	return nil
}

func normalizeResolution(r float64) float64 {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 1
	}
	return r
}

func normalizePadding(x, y float64) Padding {
	return Padding{X: math.Max(x, 0), Y: math.Max(y, 0)}
}
