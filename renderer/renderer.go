package renderer

import (
	"errors"
	"image"
	"image/color"

	"github.com/ByLCY/textsprite/layout"
)

// MaxSurfaceDimension 是单边像素上限，超过即视为资源错误。
const MaxSurfaceDimension = 16384

// ErrInvalidSize 表示无法分配/调整到请求尺寸的画布。
var ErrInvalidSize = errors.New("renderer: 无效的画布尺寸")

// Shadow 描述绘制时的投影参数，坐标与模糊半径均为逻辑像素。
type Shadow struct {
	OffsetX float64
	OffsetY float64
	Blur    float64
	Color   color.Color
}

// Surface 是文本实体使用的 2D 绘制表面，语义与 HTML canvas 2D 上下文一致：
// 字体、颜色、线宽与投影是持久状态，绘制调用使用当前状态。
// 坐标为逻辑像素，SetScale 指定逻辑像素到设备像素的倍率。
type Surface interface {
	layout.Measurer

	// Size 返回像素尺寸。
	Size() (w, h int)
	// Resize 重新分配像素缓冲并清空内容；w、h 必须在 [1, MaxSurfaceDimension] 内。
	Resize(w, h int) error
	// Clear 清空像素内容但保留尺寸。
	Clear()
	SetScale(scale float64)

	SetFont(f layout.Font)
	// FontMetrics 返回当前字体的上升/下降高度（逻辑像素）。
	FontMetrics() layout.Metrics
	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(w float64)
	// SetShadow 设置投影，nil 表示关闭。
	SetShadow(s *Shadow)

	FillRect(x, y, w, h float64)
	StrokeText(s string, x, y float64)
	FillText(s string, x, y float64)

	Image() image.Image
}

// Allocator 负责分配与回收画布。实体在创建时 Acquire，在销毁时 Release。
type Allocator interface {
	Acquire(owner any) (Surface, error)
	Release(owner any)
}
