package canvasrenderer

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/textsprite/fonts"
	"github.com/ByLCY/textsprite/layout"
	"github.com/ByLCY/textsprite/logging"
)

// fallbackFamily 是找不到任何请求字体族时使用的内置字体族。
const fallbackFamily = "Go"

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// builtinFamily describes a family served from the fonts package.
type builtinFamily struct {
	name    string
	aliases []string
	files   map[canvas.FontStyle]string
}

var builtinFamilies = []builtinFamily{
	{
		name:    "Go",
		aliases: []string{"sans-serif", "serif", "system-ui"},
		files: map[canvas.FontStyle]string{
			canvas.FontRegular:                  "Go-Regular.ttf",
			canvas.FontBold:                     "Go-Bold.ttf",
			canvas.FontItalic:                   "Go-Italic.ttf",
			canvas.FontBold | canvas.FontItalic: "Go-BoldItalic.ttf",
		},
	},
	{
		name:    "Go Mono",
		aliases: []string{"monospace", "courier", "courier new"},
		files: map[canvas.FontStyle]string{
			canvas.FontRegular:                  "Go-Mono.ttf",
			canvas.FontBold:                     "Go-Mono-Bold.ttf",
			canvas.FontItalic:                   "Go-Mono-Italic.ttf",
			canvas.FontBold | canvas.FontItalic: "Go-Mono-BoldItalic.ttf",
		},
	},
}

type fontFamilyEntry struct {
	family *canvas.FontFamily
	styles map[canvas.FontStyle]bool
}

// pick returns the closest loaded style to want.
func (e *fontFamilyEntry) pick(want canvas.FontStyle) canvas.FontStyle {
	if e.styles[want] {
		return want
	}
	for _, candidate := range []canvas.FontStyle{want &^ canvas.FontItalic, want & canvas.FontItalic} {
		if e.styles[candidate] {
			return candidate
		}
	}
	return canvas.FontRegular
}

// FontRegistry resolves CSS-like family lists to loaded canvas font families.
// Built-in Go fonts are loaded lazily; user fonts are added with Register.
type FontRegistry struct {
	baseDir string

	mu         sync.Mutex
	families   map[string]*fontFamilyEntry // by lower-cased family name or alias
	generation uint64                      // bumped by every successful Register
}

// NewFontRegistry creates a registry resolving relative font paths against baseDir.
func NewFontRegistry(baseDir string) *FontRegistry {
	return &FontRegistry{
		baseDir:  baseDir,
		families: map[string]*fontFamilyEntry{},
	}
}

var defaultRegistry = sync.OnceValue(func() *FontRegistry { return NewFontRegistry("") })

// DefaultRegistry 返回进程级共享的字体注册表。
func DefaultRegistry() *FontRegistry { return defaultRegistry() }

// Register 把一个字体文件加入 family 的某个样式（"regular"、"bold"、"italic"、"bold italic"...）。
func (r *FontRegistry) Register(family, style string, res Resource) error {
	family = strings.TrimSpace(family)
	if family == "" {
		return fmt.Errorf("字体族名称不能为空")
	}
	data, err := r.loadFontBytes(res)
	if err != nil {
		return err
	}
	fs := parseFontStyle(style)
	if err := checkGlyphs(data, fs); err != nil {
		return fmt.Errorf("字体 %s (%s) 无法渲染: %w", family, style, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(family)
	entry, ok := r.families[key]
	if !ok {
		entry = &fontFamilyEntry{family: canvas.NewFontFamily(family), styles: map[canvas.FontStyle]bool{}}
	}
	if err := entry.family.LoadFont(data, 0, fs); err != nil {
		return fmt.Errorf("加载字体 %s (%s) 失败: %w", family, style, err)
	}
	entry.styles[fs] = true
	r.families[key] = entry
	r.generation++
	return nil
}

// Generation changes whenever Register alters what Resolve may return.
func (r *FontRegistry) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// checkGlyphs parses data and outlines one glyph, so fonts the rasterizer
// cannot draw are rejected at registration instead of panicking mid-paint.
func checkGlyphs(data []byte, fs canvas.FontStyle) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("字形轮廓生成异常: %v", p)
		}
	}()
	font, err := canvas.LoadFont(data, 0, fs)
	if err != nil {
		return err
	}
	_, _, err = font.Face(12, color.Black).ToPath("A")
	return err
}

// Resolve returns the first resolvable family of f and the style to request from it.
// Unknown families fall back to the built-in Go family.
func (r *FontRegistry) Resolve(f layout.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	want := styleFor(f)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range f.Families {
		entry, err := r.ensureFamily(name)
		if err != nil {
			logging.Logger().Warn("加载字体失败，尝试下一个字体族", "family", name, "err", err)
			continue
		}
		if entry != nil {
			return entry.family, entry.pick(want), nil
		}
	}
	entry, err := r.ensureFamily(fallbackFamily)
	if err != nil || entry == nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载回退字体失败: %w", err)
	}
	logging.Logger().Debug("字体回退", "font", f.String(), "fallback", fallbackFamily)
	return entry.family, entry.pick(want), nil
}

// ensureFamily returns the registered or built-in family for name, or nil when unknown.
// Caller holds r.mu.
func (r *FontRegistry) ensureFamily(name string) (*fontFamilyEntry, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if entry, ok := r.families[key]; ok {
		return entry, nil
	}
	for _, b := range builtinFamilies {
		if !b.matches(key) {
			continue
		}
		entry, err := loadBuiltin(b)
		if err != nil {
			return nil, err
		}
		r.families[strings.ToLower(b.name)] = entry
		for _, alias := range b.aliases {
			r.families[alias] = entry
		}
		return entry, nil
	}
	return nil, nil
}

func (b builtinFamily) matches(key string) bool {
	if key == strings.ToLower(b.name) {
		return true
	}
	for _, alias := range b.aliases {
		if key == alias {
			return true
		}
	}
	return false
}

func loadBuiltin(b builtinFamily) (*fontFamilyEntry, error) {
	entry := &fontFamilyEntry{family: canvas.NewFontFamily(b.name), styles: map[canvas.FontStyle]bool{}}
	for style, file := range b.files {
		data, err := fonts.Load(file)
		if err != nil {
			return nil, err
		}
		if err := entry.family.LoadFont(data, 0, style); err != nil {
			return nil, fmt.Errorf("加载内置字体 %s 失败: %w", file, err)
		}
		entry.styles[style] = true
	}
	return entry, nil
}

func (r *FontRegistry) loadFontBytes(res Resource) ([]byte, error) {
	if len(res.Bytes) > 0 {
		return res.Bytes, nil
	}
	src := res.Path
	if src == "" {
		return nil, fmt.Errorf("字体资源缺少 Bytes 与 Path")
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用绝对路径或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

// styleFor maps weight/italic to the canvas styles built-in families provide.
func styleFor(f layout.Font) canvas.FontStyle {
	style := canvas.FontRegular
	if f.Bold() {
		style = canvas.FontBold
	}
	if f.Italic {
		style |= canvas.FontItalic
	}
	return style
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}
