package entity

import (
	"fmt"
	"image"
	"strings"

	"github.com/anthonynsimon/bild/blend"
)

// BlendMode 决定对象合成到目标时的像素混合方式。
type BlendMode int

const (
	BlendNormal   BlendMode = iota // source-over
	BlendAdd                       // S + D，逐通道截断
	BlendMultiply                  // S * D
	BlendScreen                    // 1 - (1-S)(1-D)
)

func (m BlendMode) String() string {
	switch m {
	case BlendAdd:
		return "add"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	default:
		return "normal"
	}
}

// ParseBlendMode 解析 normal/add/multiply/screen（大小写不敏感）。
func ParseBlendMode(s string) (BlendMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "source-over":
		return BlendNormal, nil
	case "add", "plus", "lighter":
		return BlendAdd, nil
	case "multiply":
		return BlendMultiply, nil
	case "screen":
		return BlendScreen, nil
	default:
		return BlendNormal, fmt.Errorf("未知的混合模式 %q", s)
	}
}

// blendLayer 把 layer 按 mode 合成到 dst 的 r 区域内，二者共用坐标。
// 混合由 bild 完成；layer 以非预乘形式交给它，结果只写回 layer 覆盖到的像素。
func blendLayer(dst *image.RGBA, layer *image.NRGBA, r image.Rectangle, mode BlendMode) {
	r = r.Intersect(dst.Bounds()).Intersect(layer.Bounds())
	if r.Empty() {
		return
	}
	bg := dst.SubImage(r)
	// bild 直接按 RGBA 字节读取，这里让它看到非预乘的数据
	fg := &image.RGBA{Pix: layer.Pix, Stride: layer.Stride, Rect: layer.Rect}
	fg = fg.SubImage(r).(*image.RGBA)

	var out *image.RGBA
	switch mode {
	case BlendAdd:
		out = blend.Add(bg, fg)
	case BlendMultiply:
		out = blend.Multiply(bg, fg)
	case BlendScreen:
		out = blend.Screen(bg, fg)
	default:
		out = blend.Normal(bg, fg)
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sa := layer.Pix[layer.PixOffset(x, y)+3]
			if sa == 0 {
				continue
			}
			di := dst.PixOffset(x, y)
			oi := out.PixOffset(x-r.Min.X, y-r.Min.Y)
			da := dst.Pix[di+3]
			copy(dst.Pix[di:di+3], out.Pix[oi:oi+3])
			// source-over 的覆盖率：Sa + Da·(1-Sa)
			dst.Pix[di+3] = sa + uint8((uint16(da)*uint16(255-sa)+127)/255)
		}
	}
}
