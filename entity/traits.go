// Package entity 提供场景中的文本对象及其可组合的能力（变换、原点、透明度、可见性、混合模式、缩放采样）。
package entity

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

// Rect 是轴对齐矩形，坐标为场景逻辑像素。
type Rect struct {
	X, Y, W, H float64
}

// Transformable 由具有位置、缩放与旋转的对象实现。
type Transformable interface {
	Position() (x, y float64)
	SetPosition(x, y float64)
	Scale() (x, y float64)
	SetScale(x, y float64)
	Rotation() float64
	SetRotation(radians float64)
}

// Anchored 由具有原点（相对尺寸的 0..1 归一化锚点）的对象实现。
type Anchored interface {
	Origin() (x, y float64)
	SetOrigin(x, y float64)
	DisplayOrigin() (x, y float64)
}

type Translucent interface {
	Alpha() float64
	SetAlpha(a float64)
}

type Toggleable interface {
	Visible() bool
	SetVisible(v bool)
}

type Blendable interface {
	BlendMode() BlendMode
	SetBlendMode(m BlendMode)
}

// Scalable 由可选择缩放采样方式的对象实现。
type Scalable interface {
	ScaleMode() ScaleMode
	SetScaleMode(m ScaleMode)
}

// Drawable 聚合全部能力，是场景图对可绘制对象的要求。
type Drawable interface {
	Transformable
	Anchored
	Translucent
	Toggleable
	Blendable
	Scalable
	Width() float64
	Height() float64
	Bounds() Rect
}

// Transform 保存位置、缩放与旋转（弧度，顺时针）。零值缩放为 0，请用 NewTransform。
type Transform struct {
	x, y           float64
	scaleX, scaleY float64
	rotation       float64
}

func NewTransform(x, y float64) Transform {
	return Transform{x: x, y: y, scaleX: 1, scaleY: 1}
}

func (t *Transform) Position() (float64, float64) { return t.x, t.y }
func (t *Transform) SetPosition(x, y float64)     { t.x, t.y = x, y }
func (t *Transform) Scale() (float64, float64)    { return t.scaleX, t.scaleY }
func (t *Transform) SetScale(x, y float64)        { t.scaleX, t.scaleY = x, y }
func (t *Transform) Rotation() float64            { return t.rotation }
func (t *Transform) SetRotation(r float64)        { t.rotation = r }

// Anchor 保存归一化原点，并缓存按当前尺寸换算的显示原点。
type Anchor struct {
	originX, originY float64
	width, height    float64
	displayX         float64
	displayY         float64
}

func (a *Anchor) Origin() (float64, float64) { return a.originX, a.originY }

// SetOrigin 设置归一化原点并按最近一次尺寸重算显示原点。
func (a *Anchor) SetOrigin(x, y float64) {
	a.originX, a.originY = x, y
	a.updateOrigin(a.width, a.height)
}

// DisplayOrigin 返回原点在对象内的逻辑像素坐标。
func (a *Anchor) DisplayOrigin() (float64, float64) { return a.displayX, a.displayY }

// updateOrigin 在宽高变化后调用。
func (a *Anchor) updateOrigin(w, h float64) {
	a.width, a.height = w, h
	a.displayX = a.originX * w
	a.displayY = a.originY * h
}

// Opacity 的零值为完全不透明。
type Opacity struct {
	fade float64 // 1 - alpha
}

func (o *Opacity) Alpha() float64 { return 1 - o.fade }

// SetAlpha 把 a 截断到 [0, 1]。
func (o *Opacity) SetAlpha(a float64) {
	if math.IsNaN(a) {
		a = 1
	}
	o.fade = 1 - math.Max(0, math.Min(a, 1))
}

// Visibility 的零值为可见。
type Visibility struct {
	hidden bool
}

func (v *Visibility) Visible() bool       { return !v.hidden }
func (v *Visibility) SetVisible(vis bool) { v.hidden = !vis }

// Blending 的零值为 BlendNormal。
type Blending struct {
	mode BlendMode
}

func (b *Blending) BlendMode() BlendMode     { return b.mode }
func (b *Blending) SetBlendMode(m BlendMode) { b.mode = m }

// ScaleMode 决定画布缩放到场景时的采样方式。
type ScaleMode int

const (
	ScaleLinear  ScaleMode = iota // 双线性插值，平滑
	ScaleNearest                  // 最近邻，保留像素硬边
)

func (m ScaleMode) String() string {
	if m == ScaleNearest {
		return "nearest"
	}
	return "linear"
}

// ParseScaleMode 解析 linear/nearest（大小写不敏感）。
func ParseScaleMode(s string) (ScaleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear", "bilinear", "smooth":
		return ScaleLinear, nil
	case "nearest", "pixelated":
		return ScaleNearest, nil
	default:
		return ScaleLinear, fmt.Errorf("未知的缩放模式 %q", s)
	}
}

// Scaling 的零值为 ScaleLinear。
type Scaling struct {
	scaleMode ScaleMode
}

func (s *Scaling) ScaleMode() ScaleMode     { return s.scaleMode }
func (s *Scaling) SetScaleMode(m ScaleMode) { s.scaleMode = m }

// interpolator 返回 ScaleMode 对应的采样器。
func (s *Scaling) interpolator() draw.Interpolator {
	if s.scaleMode == ScaleNearest {
		return draw.NearestNeighbor
	}
	return draw.BiLinear
}

// bounds 计算 w×h 的对象经原点、缩放、旋转、平移后的轴对齐包围盒。
func bounds(t *Transform, a *Anchor, w, h float64) Rect {
	ox, oy := a.DisplayOrigin()
	sin, cos := math.Sincos(t.rotation)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		lx := (c[0] - ox) * t.scaleX
		ly := (c[1] - oy) * t.scaleY
		x := t.x + lx*cos - ly*sin
		y := t.y + lx*sin + ly*cos
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
