package entity

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/ByLCY/textsprite/layout"
	"github.com/ByLCY/textsprite/renderer"
)

// fakeSurface 以固定步进测宽，字体度量固定为 ascent 10 / descent 2，
// 并按顺序记录绘制调用。
type fakeSurface struct {
	w, h    int
	scale   float64
	advance float64
	font    layout.Font
	fill    color.Color
	stroke  color.Color
	shadow  *renderer.Shadow
	ops     []string
	resizes int
	clears  int
	// pattern 非空时按设备像素着色，否则整块红色
	pattern func(x, y int) color.RGBA
}

func newFakeSurface() *fakeSurface { return &fakeSurface{w: 1, h: 1, scale: 1, advance: 10} }

func (f *fakeSurface) MeasureText(line string) float64 { return float64(len([]rune(line))) * f.advance }
func (f *fakeSurface) Size() (int, int)                { return f.w, f.h }

func (f *fakeSurface) Resize(w, h int) error {
	if w < 1 || h < 1 || w > renderer.MaxSurfaceDimension || h > renderer.MaxSurfaceDimension {
		return fmt.Errorf("%w: %dx%d", renderer.ErrInvalidSize, w, h)
	}
	f.w, f.h = w, h
	f.resizes++
	f.ops = nil
	return nil
}

func (f *fakeSurface) Clear() {
	f.clears++
	f.ops = nil
}

func (f *fakeSurface) SetScale(s float64)    { f.scale = s }
func (f *fakeSurface) SetFont(l layout.Font) { f.font = l }
func (f *fakeSurface) FontMetrics() layout.Metrics {
	return layout.Metrics{Ascent: 10, Descent: 2, FontSize: 12}
}
func (f *fakeSurface) SetFillColor(c color.Color)   { f.fill = c }
func (f *fakeSurface) SetStrokeColor(c color.Color) { f.stroke = c }
func (f *fakeSurface) SetLineWidth(float64)         {}
func (f *fakeSurface) SetShadow(s *renderer.Shadow) { f.shadow = s }

func (f *fakeSurface) FillRect(x, y, w, h float64) {
	f.ops = append(f.ops, fmt.Sprintf("rect %g,%g %gx%g", x, y, w, h))
}

func (f *fakeSurface) StrokeText(s string, x, y float64) {
	f.ops = append(f.ops, fmt.Sprintf("stroke %s %g,%g shadow=%t", s, x, y, f.shadow != nil))
}

func (f *fakeSurface) FillText(s string, x, y float64) {
	f.ops = append(f.ops, fmt.Sprintf("fill %s %g,%g shadow=%t", s, x, y, f.shadow != nil))
}

// Image 返回整块不透明红色（或 pattern 着色）的像素图。
func (f *fakeSurface) Image() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, f.w, f.h))
	if f.pattern != nil {
		for y := range f.h {
			for x := range f.w {
				img.SetRGBA(x, y, f.pattern(x, y))
			}
		}
		return img
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 255, A: 255}), image.Point{}, draw.Src)
	return img
}

type fakeAllocator struct {
	surface  *fakeSurface
	acquired int
	released int
	err      error
}

func (a *fakeAllocator) Acquire(any) (renderer.Surface, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.acquired++
	if a.surface == nil {
		a.surface = newFakeSurface()
	}
	return a.surface, nil
}

func (a *fakeAllocator) Release(any) { a.released++ }

// fixedProvider 直接读取画布度量并统计调用次数。
type fixedProvider struct{ calls int }

func (p *fixedProvider) MeasureFont(s renderer.Surface, f layout.Font) layout.Metrics {
	p.calls++
	s.SetFont(f)
	return s.FontMetrics()
}
