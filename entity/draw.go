package entity

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Draw 把画布内容合成到 dst，dst 的一个像素对应一个场景逻辑像素。
// 考虑位置、原点、缩放、旋转、分辨率、透明度、可见性、混合模式与缩放采样方式。
func (t *Text) Draw(dst *image.RGBA) {
	if t.surface == nil || !t.Visible() || t.Alpha() <= 0 {
		return
	}
	src := t.surface.Image()
	m := t.sourceToScene()

	var opts *draw.Options
	if a := t.Alpha(); a < 1 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(math.Round(a * 255))})}
	}

	sampler := t.interpolator()
	if t.BlendMode() == BlendNormal {
		sampler.Transform(dst, m, src, src.Bounds(), draw.Over, opts)
		return
	}
	r := t.pixelBounds().Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	layer := image.NewNRGBA(r)
	sampler.Transform(layer, m, src, src.Bounds(), draw.Src, opts)
	blendLayer(dst, layer, r, t.BlendMode())
}

// sourceToScene 返回画布像素到场景坐标的仿射矩阵。
func (t *Text) sourceToScene() f64.Aff3 {
	ox, oy := t.DisplayOrigin()
	sx, sy := t.Scale()
	x, y := t.Position()
	sin, cos := math.Sincos(t.Rotation())
	inv := 1 / t.resolution
	return f64.Aff3{
		cos * sx * inv, -sin * sy * inv, x - cos*sx*ox + sin*sy*oy,
		sin * sx * inv, cos * sy * inv, y - sin*sx*ox - cos*sy*oy,
	}
}

func (t *Text) pixelBounds() image.Rectangle {
	b := t.Bounds()
	return image.Rect(
		int(math.Floor(b.X)), int(math.Floor(b.Y)),
		int(math.Ceil(b.X+b.W)), int(math.Ceil(b.Y+b.H)),
	)
}
