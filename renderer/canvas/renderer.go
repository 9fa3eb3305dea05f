package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/textsprite/layout"
	"github.com/ByLCY/textsprite/logging"
	"github.com/ByLCY/textsprite/renderer"
)

// Surface is a raster drawing surface backed by github.com/tdewolff/canvas.
//
// Canvas units are treated as logical pixels; every paint call is drawn on a
// fresh canvas, rasterised at the current scale and composited (source-over)
// onto the pixel buffer. Paint calls are also recorded so the surface can be
// exported as a vector document with WritePDF.
type Surface struct {
	fonts *FontRegistry
	img   *image.RGBA
	scale float64

	font    layout.Font
	fontGen uint64
	family  *canvas.FontFamily
	style   canvas.FontStyle
	sizePt  float64
	measure *canvas.FontFace

	fill      color.Color
	stroke    color.Color
	lineWidth float64
	shadow    *renderer.Shadow

	record    *canvas.Canvas
	recordCtx *canvas.Context
}

var _ renderer.Surface = (*Surface)(nil)

// NewSurface creates a 1×1 surface resolving fonts through reg (nil = DefaultRegistry).
func NewSurface(reg *FontRegistry) *Surface {
	if reg == nil {
		reg = DefaultRegistry()
	}
	s := &Surface{fonts: reg}
	s.reset()
	return s
}

// reset restores the initial 1×1 state; used when a pooled surface is recycled.
func (s *Surface) reset() {
	s.img = image.NewRGBA(image.Rect(0, 0, 1, 1))
	s.scale = 1
	s.fill = color.Black
	s.stroke = color.Black
	s.lineWidth = 1
	s.shadow = nil
	s.resetRecord()
}

func (s *Surface) resetRecord() {
	w, h := s.logicalSize()
	s.record = canvas.New(w, h)
	s.recordCtx = canvas.NewContext(s.record)
	s.recordCtx.SetCoordSystem(canvas.CartesianIV)
}

func (s *Surface) logicalSize() (float64, float64) {
	b := s.img.Bounds()
	return float64(b.Dx()) / s.scale, float64(b.Dy()) / s.scale
}

func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the pixel buffer; prior content is discarded.
func (s *Surface) Resize(w, h int) error {
	if w < 1 || h < 1 || w > renderer.MaxSurfaceDimension || h > renderer.MaxSurfaceDimension {
		return fmt.Errorf("%w: %dx%d", renderer.ErrInvalidSize, w, h)
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	s.resetRecord()
	return nil
}

func (s *Surface) Clear() {
	clear(s.img.Pix)
	s.resetRecord()
}

// SetScale sets device pixels per logical pixel; non-positive values mean 1.
func (s *Surface) SetScale(scale float64) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	if scale == s.scale {
		return
	}
	s.scale = scale
	s.resetRecord()
}

// SetFont resolves f through the registry. Unknown families fall back to the
// built-in font; if even that fails the surface measures everything as zero.
func (s *Surface) SetFont(f layout.Font) {
	gen := s.fonts.Generation()
	if s.measure != nil && gen == s.fontGen && f.String() == s.font.String() {
		return
	}
	if f.Size <= 0 {
		f.Size = layout.DefaultFontSizePX
	}
	s.fontGen = gen
	family, style, err := s.fonts.Resolve(f)
	if err != nil {
		logging.Logger().Warn("无法解析字体", "font", f.String(), "err", err)
		s.font, s.family, s.measure = f, nil, nil
		return
	}
	s.font = f
	s.family = family
	s.style = style
	// canvas 以 mm 为单位、字号以 pt 计；这里 1 单位 = 1 逻辑像素。
	s.sizePt = f.Size * layout.MmToPt
	s.measure = s.face(color.Black)
}

// MetricsKey identifies what a font string resolves to on this surface: the
// registry and its generation. Metrics caches key on it.
func (s *Surface) MetricsKey() string {
	return fmt.Sprintf("%T@%p#%d", s, s.fonts, s.fonts.Generation())
}

func (s *Surface) face(col color.Color) *canvas.FontFace {
	return s.family.Face(s.sizePt, toRGBA(col), s.style, canvas.FontNormal)
}

func (s *Surface) MeasureText(line string) float64 {
	if s.measure == nil || line == "" {
		return 0
	}
	return s.measure.TextWidth(line)
}

func (s *Surface) FontMetrics() layout.Metrics {
	if s.measure == nil {
		return layout.Metrics{}
	}
	fm := s.measure.Metrics()
	ascent, descent := math.Abs(fm.Ascent), math.Abs(fm.Descent)
	return layout.Metrics{Ascent: ascent, Descent: descent, FontSize: ascent + descent}
}

func (s *Surface) SetFillColor(c color.Color)   { s.fill = c }
func (s *Surface) SetStrokeColor(c color.Color) { s.stroke = c }
func (s *Surface) SetLineWidth(w float64)       { s.lineWidth = math.Max(w, 0) }

func (s *Surface) SetShadow(sh *renderer.Shadow) {
	if sh == nil {
		s.shadow = nil
		return
	}
	cp := *sh
	s.shadow = &cp
}

// FillRect fills a rectangle with the fill colour. Shadows are not applied to rectangles.
func (s *Surface) FillRect(x, y, w, h float64) {
	if s.fill == nil || w <= 0 || h <= 0 {
		return
	}
	r := image.Rect(
		int(math.Floor(x*s.scale)), int(math.Floor(y*s.scale)),
		int(math.Ceil((x+w)*s.scale)), int(math.Ceil((y+h)*s.scale)),
	).Intersect(s.img.Bounds())
	draw.Draw(s.img, r, image.NewUniform(s.fill), image.Point{}, draw.Over)

	s.recordCtx.SetFillColor(toRGBA(s.fill))
	s.recordCtx.SetStrokeColor(color.RGBA{})
	s.recordCtx.DrawPath(x, y, canvas.Rectangle(w, h))
}

// StrokeText outlines text with the stroke colour; (x, y) is the left end of the baseline.
func (s *Surface) StrokeText(text string, x, y float64) {
	if s.stroke == nil || s.lineWidth <= 0 {
		return
	}
	s.drawText(text, x, y, s.stroke, true)
}

// FillText fills text with the fill colour; (x, y) is the left end of the baseline.
func (s *Surface) FillText(text string, x, y float64) {
	if s.fill == nil {
		return
	}
	s.drawText(text, x, y, s.fill, false)
}

func (s *Surface) Image() image.Image { return s.img }

func (s *Surface) drawText(text string, x, y float64, col color.Color, stroke bool) {
	if s.family == nil || text == "" {
		return
	}
	if sh := s.shadow; sh != nil && sh.Color != nil && alphaOf(sh.Color) > 0 {
		layer := s.textLayer(text, x+sh.OffsetX, y+sh.OffsetY, sh.Color, stroke)
		if radius := sh.Blur * s.scale; radius > 0 {
			// bild 的半径即阴影向外扩散的设备像素数
			layer = blur.Gaussian(layer, radius)
		}
		draw.Draw(s.img, s.img.Bounds(), layer, image.Point{}, draw.Over)
	}
	layer := s.textLayer(text, x, y, col, stroke)
	draw.Draw(s.img, s.img.Bounds(), layer, image.Point{}, draw.Over)

	s.textOp(s.recordCtx, text, x, y, col, stroke)
}

// textLayer rasterises a single text op onto a transparent layer of the surface size.
// Strokes of neighbouring glyphs overlap, so they are drawn opaque and the
// colour's alpha applied afterwards.
func (s *Surface) textLayer(text string, x, y float64, col color.Color, stroke bool) *image.RGBA {
	alpha := alphaOf(col)
	if stroke && alpha < 0xff {
		col = opaque(col)
	}
	w, h := s.logicalSize()
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	s.textOp(ctx, text, x, y, col, stroke)
	layer := rasterizer.Draw(c, canvas.DPMM(s.scale), canvas.DefaultColorSpace)
	if stroke && alpha < 0xff {
		scaleAlpha(layer, alpha)
	}
	return layer
}

func (s *Surface) textOp(ctx *canvas.Context, text string, x, y float64, col color.Color, stroke bool) {
	face := s.face(col)
	if !stroke {
		ctx.DrawText(x, y, canvas.NewTextLine(face, text, canvas.Left))
		return
	}
	outline, _, err := face.ToPath(text)
	if err != nil {
		logging.Logger().Warn("文本轮廓生成失败", "text", text, "err", err)
		return
	}
	if outline.Empty() {
		return
	}
	// 字形路径是 y 向上的字体坐标，CartesianIV 下需要翻转才能以基线为原点正立。
	outline = outline.Scale(1, -1)
	ctx.Push()
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(toRGBA(col))
	ctx.SetStrokeWidth(s.lineWidth)
	ctx.SetStrokeJoiner(canvas.RoundJoin)
	ctx.SetStrokeCapper(canvas.RoundCap)
	ctx.DrawPath(x, y, outline)
	ctx.Pop()
}

func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func alphaOf(c color.Color) uint8 {
	return color.NRGBAModel.Convert(c).(color.NRGBA).A
}

func opaque(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xff
	return n
}

// scaleAlpha multiplies every premultiplied channel by a/255.
func scaleAlpha(img *image.RGBA, a uint8) {
	for i, v := range img.Pix {
		img.Pix[i] = uint8((uint32(v)*uint32(a) + 127) / 255)
	}
}
