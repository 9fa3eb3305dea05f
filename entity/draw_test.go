package entity

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/ByLCY/textsprite/style"
)

func fill(dst *image.RGBA, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func TestDrawPositionsSurface(t *testing.T) {
	// 画布 20×12 全红
	txt, _ := newTestText(t, "AB", style.Options{})
	txt.SetPosition(5, 5)
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	txt.Draw(dst)

	if got := dst.RGBAAt(10, 10); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("内部像素应为红色，实际 %v", got)
	}
	if got := dst.RGBAAt(2, 2); got.A != 0 {
		t.Fatalf("对象之外不应绘制，实际 %v", got)
	}
	if got := dst.RGBAAt(30, 10); got.A != 0 {
		t.Fatalf("右侧之外不应绘制，实际 %v", got)
	}
}

func TestDrawHonoursResolution(t *testing.T) {
	txt, _ := newTestText(t, "AB", style.Options{}, WithResolution(2))
	dst := image.NewRGBA(image.Rect(0, 0, 60, 60))
	txt.Draw(dst)
	// 40×24 的画布缩回 20×12 的逻辑尺寸
	if got := dst.RGBAAt(18, 10); got.A == 0 {
		t.Fatalf("逻辑范围内应绘制")
	}
	if got := dst.RGBAAt(25, 10); got.A != 0 {
		t.Fatalf("不应按设备像素尺寸绘制，(25,10)=%v", got)
	}
}

func TestDrawOriginAndScale(t *testing.T) {
	txt, _ := newTestText(t, "AB", style.Options{})
	txt.SetOrigin(0.5, 0.5)
	txt.SetScale(2, 2)
	txt.SetPosition(30, 30)

	b := txt.Bounds()
	if b != (Rect{X: 10, Y: 18, W: 40, H: 24}) {
		t.Fatalf("包围盒不正确: %+v", b)
	}
	dst := image.NewRGBA(image.Rect(0, 0, 60, 60))
	txt.Draw(dst)
	if dst.RGBAAt(12, 20).A == 0 || dst.RGBAAt(47, 40).A == 0 {
		t.Fatalf("包围盒内应绘制")
	}
	if dst.RGBAAt(8, 30).A != 0 || dst.RGBAAt(30, 44).A != 0 {
		t.Fatalf("包围盒外不应绘制")
	}
}

func TestBoundsRotation(t *testing.T) {
	txt, _ := newTestText(t, "AB", style.Options{})
	txt.SetRotation(math.Pi / 2)
	b := txt.Bounds()
	if math.Abs(b.W-12) > 1e-9 || math.Abs(b.H-20) > 1e-9 || math.Abs(b.X+12) > 1e-9 || math.Abs(b.Y) > 1e-9 {
		t.Fatalf("旋转 90° 后的包围盒不正确: %+v", b)
	}
}

func TestDrawAlphaAndVisibility(t *testing.T) {
	txt, _ := newTestText(t, "AB", style.Options{})
	dst := image.NewRGBA(image.Rect(0, 0, 30, 30))

	txt.SetVisible(false)
	txt.Draw(dst)
	if dst.RGBAAt(5, 5).A != 0 {
		t.Fatalf("不可见时不应绘制")
	}

	txt.SetVisible(true)
	txt.SetAlpha(0.5)
	txt.Draw(dst)
	if a := dst.RGBAAt(5, 5).A; a < 120 || a > 135 {
		t.Fatalf("半透明 alpha 应约为 128，实际 %d", a)
	}

	txt.SetAlpha(3)
	if txt.Alpha() != 1 {
		t.Fatalf("alpha 应截断到 1，实际 %g", txt.Alpha())
	}
}

func TestDrawBlendModes(t *testing.T) {
	cases := []struct {
		mode BlendMode
		bg   color.RGBA
		want color.RGBA
	}{
		{BlendNormal, color.RGBA{G: 255, A: 255}, color.RGBA{R: 255, A: 255}},
		{BlendAdd, color.RGBA{B: 255, A: 255}, color.RGBA{R: 255, B: 255, A: 255}},
		{BlendMultiply, color.RGBA{R: 255, G: 255, B: 255, A: 255}, color.RGBA{R: 255, A: 255}},
		{BlendMultiply, color.RGBA{G: 255, A: 255}, color.RGBA{A: 255}},
		{BlendScreen, color.RGBA{G: 255, A: 255}, color.RGBA{R: 255, G: 255, A: 255}},
	}
	for _, c := range cases {
		txt, _ := newTestText(t, "AB", style.Options{})
		txt.SetBlendMode(c.mode)
		dst := image.NewRGBA(image.Rect(0, 0, 30, 30))
		fill(dst, c.bg)
		txt.Draw(dst)
		if got := dst.RGBAAt(5, 5); got != c.want {
			t.Fatalf("%s 混合: 得到 %v，期望 %v", c.mode, got, c.want)
		}
		if got := dst.RGBAAt(25, 25); got != c.bg {
			t.Fatalf("%s 混合不应影响对象之外: %v", c.mode, got)
		}
	}
}

func TestParseBlendMode(t *testing.T) {
	for in, want := range map[string]BlendMode{"": BlendNormal, "ADD": BlendAdd, "multiply": BlendMultiply, "screen": BlendScreen} {
		got, err := ParseBlendMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseBlendMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseBlendMode("dodge"); err == nil {
		t.Fatalf("未知混合模式应报错")
	}
}

func TestDrawScaleModes(t *testing.T) {
	red, blue := color.RGBA{R: 255, A: 255}, color.RGBA{B: 255, A: 255}
	// 设备像素按列红蓝交替
	stripes := func(x, _ int) color.RGBA {
		if x%2 == 0 {
			return red
		}
		return blue
	}
	render := func(mode ScaleMode) *image.RGBA {
		txt, alloc := newTestText(t, "AB", style.Options{}, WithResolution(2))
		alloc.surface.pattern = stripes
		txt.SetScaleMode(mode)
		txt.SetScale(4, 4)
		dst := image.NewRGBA(image.Rect(0, 0, 80, 48))
		txt.Draw(dst)
		return dst
	}

	nearest := render(ScaleNearest)
	for x := range 80 {
		got := nearest.RGBAAt(x, 20)
		// 每个设备像素放大为 2 个场景像素
		want := red
		if (x/2)%2 == 1 {
			want = blue
		}
		if got != want {
			t.Fatalf("最近邻采样应保留硬边: (%d,20)=%v，期望 %v", x, got, want)
		}
	}

	linear := render(ScaleLinear)
	mixed := false
	for x := range 80 {
		if c := linear.RGBAAt(x, 20); c != red && c != blue {
			mixed = true
			break
		}
	}
	if !mixed {
		t.Fatalf("双线性采样应在条纹之间插值")
	}
}

func TestParseScaleMode(t *testing.T) {
	for in, want := range map[string]ScaleMode{"": ScaleLinear, "Nearest": ScaleNearest, "pixelated": ScaleNearest} {
		got, err := ParseScaleMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseScaleMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseScaleMode("cubic"); err == nil {
		t.Fatalf("未知缩放模式应报错")
	}
}
