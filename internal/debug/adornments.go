// Package debug draws what hitbox segments cast. It only reads segment
// state and never feeds back into casting.
package debug

import (
	"slices"
	"sync"
	"time"

	"shapecast/internal/engine"
	"shapecast/internal/hitbox"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	HitColor  = rl.Red
	MissColor = rl.Lime
)

// Renderer draws wire primitives in world space.
type Renderer interface {
	Line(from, to rl.Vector3, color rl.Color)
	Box(pose engine.Pose, size rl.Vector3, color rl.Color)
	Sphere(center rl.Vector3, radius float32, color rl.Color)
}

// Adornment is the pooled primitive for one segment's most recent probe.
type Adornment struct {
	Probe    hitbox.Probe
	Hit      bool
	Visible  bool
	LastUsed time.Time

	seg *hitbox.Segment
}

// AdornmentCache keeps one adornment per observed segment and recycles
// adornments that have not been observed for a while.
type AdornmentCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[*hitbox.Segment]*Adornment
	order   []*Adornment
	pool    []*Adornment
}

// Default is the process-wide cache, created on first use.
var Default = sync.OnceValue(func() *AdornmentCache {
	return NewAdornmentCache(time.Now)
})

func NewAdornmentCache(now func() time.Time) *AdornmentCache {
	if now == nil {
		now = time.Now
	}
	return &AdornmentCache{
		now:     now,
		entries: make(map[*hitbox.Segment]*Adornment),
	}
}

// Observe stamps the segment's adornment with its latest probe. Segments
// that did not cast this pass keep their previous primitive.
func (c *AdornmentCache) Observe(seg *hitbox.Segment) *Adornment {
	probe, ok := seg.LastProbe()
	if !ok {
		return nil
	}
	_, hit := seg.CastResult()

	c.mu.Lock()
	defer c.mu.Unlock()

	a, exists := c.entries[seg]
	if !exists {
		a = c.acquire()
		a.seg = seg
		c.entries[seg] = a
		c.order = append(c.order, a)
	}
	a.Probe = probe
	a.Hit = hit
	a.Visible = true
	a.LastUsed = c.now()
	return a
}

func (c *AdornmentCache) acquire() *Adornment {
	if n := len(c.pool); n > 0 {
		a := c.pool[n-1]
		c.pool = c.pool[:n-1]
		return a
	}
	return &Adornment{}
}

// Sweep hides and recycles adornments idle for longer than maxIdle. It
// returns how many were recycled.
func (c *AdornmentCache) Sweep(maxIdle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-maxIdle)
	n := 0
	c.order = slices.DeleteFunc(c.order, func(a *Adornment) bool {
		if !a.LastUsed.Before(cutoff) {
			return false
		}
		c.recycle(a)
		n++
		return true
	})
	return n
}

// Release drops the adornment for seg immediately.
func (c *AdornmentCache) Release(seg *hitbox.Segment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.entries[seg]
	if !ok {
		return
	}
	c.order = slices.DeleteFunc(c.order, func(e *Adornment) bool { return e == a })
	c.recycle(a)
}

func (c *AdornmentCache) recycle(a *Adornment) {
	delete(c.entries, a.seg)
	*a = Adornment{}
	c.pool = append(c.pool, a)
}

// Len is the number of live adornments.
func (c *AdornmentCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Draw renders every visible adornment in observation order.
func (c *AdornmentCache) Draw(r Renderer) {
	c.mu.Lock()
	visible := make([]Adornment, 0, len(c.order))
	for _, a := range c.order {
		if a.Visible {
			visible = append(visible, *a)
		}
	}
	c.mu.Unlock()

	for _, a := range visible {
		color := MissColor
		if a.Hit {
			color = HitColor
		}
		p := a.Probe
		from := p.From.Position
		to := rl.Vector3Add(from, p.Displacement)
		r.Line(from, to, color)
		switch p.Shape {
		case hitbox.Spherecast:
			r.Sphere(to, p.Radius, color)
		case hitbox.Blockcast:
			r.Box(p.From.Translate(p.Displacement), p.Size, color)
		}
	}
}

// Attach observes every segment of h after each tick while it is active.
func Attach(c *AdornmentCache, h *hitbox.Hitbox) {
	h.OnUpdate(func(float32) {
		for _, seg := range h.GetAllSegments() {
			c.Observe(seg)
		}
	})
}
