package canvasrenderer

import (
	"fmt"
	"sync"

	"github.com/ByLCY/textsprite/logging"
	"github.com/ByLCY/textsprite/renderer"
)

// DefaultPoolSize 是空闲画布的默认保留上限。
const DefaultPoolSize = 32

// Pool hands out Surfaces to owners and recycles released ones.
// Owners must be comparable (typically a pointer to the entity).
type Pool struct {
	fonts   *FontRegistry
	maxFree int

	mu    sync.Mutex
	free  []*Surface
	owned map[any]*Surface
}

var _ renderer.Allocator = (*Pool)(nil)

// NewPool creates a pool whose surfaces resolve fonts through reg (nil = DefaultRegistry).
func NewPool(reg *FontRegistry) *Pool {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Pool{
		fonts:   reg,
		maxFree: DefaultPoolSize,
		owned:   map[any]*Surface{},
	}
}

// Acquire returns the owner's surface, reusing a free one when possible.
// Acquiring twice for the same owner returns the same surface.
func (p *Pool) Acquire(owner any) (renderer.Surface, error) {
	if owner == nil {
		return nil, fmt.Errorf("canvas pool: owner 不能为空")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.owned[owner]; ok {
		return s, nil
	}
	var s *Surface
	if n := len(p.free); n > 0 {
		s = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		s = NewSurface(p.fonts)
	}
	p.owned[owner] = s
	return s, nil
}

// Release returns the owner's surface to the pool. Unknown owners are ignored.
func (p *Pool) Release(owner any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.owned[owner]
	if !ok {
		logging.Logger().Debug("释放未登记的画布", "owner", fmt.Sprintf("%p", owner))
		return
	}
	delete(p.owned, owner)
	s.reset()
	if len(p.free) < p.maxFree {
		p.free = append(p.free, s)
	}
}

// InUse reports how many surfaces are currently owned.
func (p *Pool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.owned)
}

// Free reports how many released surfaces are waiting for reuse.
func (p *Pool) Free() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
