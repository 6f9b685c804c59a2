package wayland

import "sync"

// Common is the per-surface state the UI thread reads without going through
// the dispatcher. Only the dispatcher writes it.
type Common struct {
	mu       sync.Mutex
	scale    float64
	hasScale bool
	size     Size
	focused  bool
	imePos   Point
	imeSize  Size
}

type CommonState struct {
	Scale    float64 `json:"scale"`
	HasScale bool    `json:"hasScale"`
	Size     Size    `json:"size"`
	Focused  bool    `json:"focused"`
	ImePos   Point   `json:"imePos"`
	ImeSize  Size    `json:"imeSize"`
}

func newCommon(size Size) *Common {
	return &Common{size: size.atLeastOne()}
}

// Scale returns the last reported scale and whether one was reported yet.
func (c *Common) Scale() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scale, c.hasScale
}

// EffectiveScale falls back to 1 until the compositor reported a scale.
func (c *Common) EffectiveScale() float64 {
	s, ok := c.Scale()
	if !ok || s <= 0 {
		return 1
	}
	return s
}

func (c *Common) Size() Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *Common) Focused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focused
}

func (c *Common) Snapshot() CommonState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CommonState{
		Scale:    c.scale,
		HasScale: c.hasScale,
		Size:     c.size,
		Focused:  c.focused,
		ImePos:   c.imePos,
		ImeSize:  c.imeSize,
	}
}

func (c *Common) setScale(scale float64) (changed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed = !c.hasScale || c.scale != scale
	c.scale = scale
	c.hasScale = true
	return changed
}

func (c *Common) setSize(size Size) {
	c.mu.Lock()
	c.size = size.atLeastOne()
	c.mu.Unlock()
}

func (c *Common) setFocused(focused bool) {
	c.mu.Lock()
	c.focused = focused
	c.mu.Unlock()
}

func (c *Common) setIme(pos Point, size Size) {
	c.mu.Lock()
	c.imePos = pos
	c.imeSize = size
	c.mu.Unlock()
}
