package style

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ByLCY/textsprite/layout"
	"github.com/ByLCY/textsprite/logging"
	"github.com/ByLCY/textsprite/renderer"
)

// DefaultCacheSize 是 DefaultProvider 缓存的字体条目上限。
const DefaultCacheSize = 256

// MetricsProvider 测量字体的纵向度量。实现不得失败：无法解析的字体由画布回退到默认字体。
type MetricsProvider interface {
	MeasureFont(s renderer.Surface, f layout.Font) layout.Metrics
}

// MeasureFont 在 s 上设置字体并读取度量，不做缓存。
// 画布未能给出有效度量时按字号估算，保证 FontSize > 0。
func MeasureFont(s renderer.Surface, f layout.Font) layout.Metrics {
	s.SetFont(f)
	m := s.FontMetrics()
	if m.FontSize > 0 {
		return m
	}
	size := f.Size
	if size <= 0 {
		size = layout.DefaultFontSizePX
	}
	logging.Logger().Warn("画布未返回字体度量，使用估算值", "font", f.String())
	return layout.Metrics{Ascent: size * 0.8, Descent: size * 0.2, FontSize: size}
}

// MetricsKeyer 由字体解析结果依赖外部状态（如字体注册表）的画布实现，
// 返回值需在解析结果可能变化时随之改变。
type MetricsKeyer interface {
	MetricsKey() string
}

// metricsKey 组合画布标识与字体简写；未实现 MetricsKeyer 的画布按类型区分。
func metricsKey(s renderer.Surface, f layout.Font) string {
	if k, ok := s.(MetricsKeyer); ok {
		return k.MetricsKey() + "|" + f.String()
	}
	return fmt.Sprintf("%T|%s", s, f.String())
}

// CachedProvider 以 画布标识+字体简写 为键缓存度量，容量有限（LRU 淘汰），可并发使用。
type CachedProvider struct {
	mu    sync.Mutex
	cache *lru.Cache[string, layout.Metrics]
	// measure 便于测试替换；默认为 MeasureFont。
	measure func(renderer.Surface, layout.Font) layout.Metrics
}

// NewCachedProvider 创建容量为 size 的缓存；size ≤ 0 时使用 DefaultCacheSize。
func NewCachedProvider(size int) *CachedProvider {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, layout.Metrics](size)
	if err != nil {
		// 仅在 size ≤ 0 时出错，上面已排除
		panic(err)
	}
	return &CachedProvider{cache: cache, measure: MeasureFont}
}

// DefaultProvider 是进程级共享的度量缓存。
var DefaultProvider = NewCachedProvider(DefaultCacheSize)

func (p *CachedProvider) MeasureFont(s renderer.Surface, f layout.Font) layout.Metrics {
	key := metricsKey(s, f)

	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.cache.Get(key); ok {
		return m
	}
	m := p.measure(s, f)
	p.cache.Add(key, m)
	logging.Logger().Debug("测量字体", "font", f.String(), "ascent", m.Ascent, "descent", m.Descent)
	return m
}

// Len 返回缓存条目数。
func (p *CachedProvider) Len() int { return p.cache.Len() }

// Purge 清空缓存。
func (p *CachedProvider) Purge() {
	p.mu.Lock()
	p.cache.Purge()
	p.mu.Unlock()
}
