package physics

import "shapecast/internal/engine"

type FilterType int

const (
	// Exclude skips the filter objects and everything below them.
	Exclude FilterType = iota
	// Include only considers the filter objects and everything below them.
	Include
)

func (f FilterType) String() string {
	switch f {
	case Exclude:
		return "Exclude"
	case Include:
		return "Include"
	}
	return "Unknown"
}

// QueryParams selects which objects a cast may hit.
type QueryParams struct {
	FilterType FilterType
	Filter     []*engine.GameObject
}

// NewQueryParams returns params that exclude the given objects' subtrees.
func NewQueryParams(exclude ...*engine.GameObject) *QueryParams {
	return &QueryParams{FilterType: Exclude, Filter: exclude}
}

// Clone copies p so the filter list can be changed without touching the original.
func (p *QueryParams) Clone() *QueryParams {
	if p == nil {
		return nil
	}
	c := *p
	c.Filter = append([]*engine.GameObject(nil), p.Filter...)
	return &c
}

func (p *QueryParams) allows(obj *engine.GameObject) bool {
	if p == nil {
		return true
	}
	listed := false
	for _, f := range p.Filter {
		if f != nil && obj.IsDescendantOf(f) {
			listed = true
			break
		}
	}
	if p.FilterType == Include {
		return listed
	}
	return !listed
}

// Query is what a caster receives: static params plus an optional
// per-call predicate evaluated after them.
type Query struct {
	Params  *QueryParams
	Exclude func(obj *engine.GameObject) bool
}

// Allows reports whether obj is a valid hit candidate.
func (q Query) Allows(obj *engine.GameObject) bool {
	if obj == nil || obj.IsDestroyed() || !obj.Active {
		return false
	}
	if !q.Params.allows(obj) {
		return false
	}
	if q.Exclude != nil && q.Exclude(obj) {
		return false
	}
	return true
}
