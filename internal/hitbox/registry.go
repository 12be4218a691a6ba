package hitbox

import (
	"fmt"
	"log/slog"
	"slices"
	"weak"

	"shapecast/internal/components"
	"shapecast/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type pointKey = weak.Pointer[components.DmgPoint]

// discoverPoints walks the instance and its descendants in pre-order.
func (h *Hitbox) discoverPoints() []*components.DmgPoint {
	var points []*components.DmgPoint
	objs := append([]*engine.GameObject{h.instance}, h.instance.Descendants()...)
	for _, obj := range objs {
		if obj.IsDestroyed() {
			continue
		}
		points = append(points, engine.GetComponents[*components.DmgPoint](obj)...)
	}
	return points
}

// Reconcile rescans the instance for emission points. Segments whose point
// is gone are dropped; new points get a fresh segment. Surviving segments
// keep their travel state, so this is safe while active.
func (h *Hitbox) Reconcile() *Hitbox {
	if h.checkDestroyed("Reconcile") {
		return h
	}

	points := h.discoverPoints()
	present := make(map[pointKey]struct{}, len(points))
	for _, p := range points {
		present[weak.Make(p)] = struct{}{}
	}

	for _, seg := range slices.Clone(h.order) {
		if seg.manual {
			if p := seg.Point(); p == nil || !p.Attached() {
				h.removeSegment(seg.source)
			}
			continue
		}
		if _, ok := present[seg.source]; !ok {
			h.removeSegment(seg.source)
		}
	}

	for _, p := range points {
		if _, ok := h.segments[weak.Make(p)]; ok {
			continue
		}
		if _, err := h.addSegment(p, false); err != nil {
			h.fail("Reconcile", err)
		}
	}

	h.logger.Debug("reconciled", slog.Int("segments", len(h.order)))
	return h
}

// pointCastData resolves a point's own cast attributes, if it has any.
func (h *Hitbox) pointCastData(p *components.DmgPoint) (CastData, bool, error) {
	if p.CastType == "" {
		return CastData{}, false, nil
	}
	shape, err := ParseCastShape(p.CastType)
	if err != nil {
		return CastData{}, false, err
	}
	cd := h.castData.withoutHistory()
	cd.Shape = shape
	if p.CastSize != (rl.Vector3{}) {
		cd.Size = p.CastSize
	}
	if p.CastRadius != 0 {
		cd.Radius = p.CastRadius
	}
	if err := cd.Validate(); err != nil {
		return CastData{}, false, err
	}
	return cd, true, nil
}

func (h *Hitbox) addSegment(p *components.DmgPoint, manual bool) (*Segment, error) {
	cd, own, err := h.pointCastData(p)
	if err != nil {
		return nil, fmt.Errorf("point on %q: %w", p.GetGameObject().Name, err)
	}
	if !own {
		cd = h.castData
	}
	seg := newSegment(h, p, cd)
	seg.overridden = own
	seg.manual = manual
	h.segments[seg.source] = seg
	h.order = append(h.order, seg)
	return seg, nil
}

func (h *Hitbox) removeSegment(key pointKey) bool {
	seg, ok := h.segments[key]
	if !ok {
		return false
	}
	delete(h.segments, key)
	h.order = slices.DeleteFunc(h.order, func(s *Segment) bool { return s == seg })
	seg.owner = nil
	return true
}

func (h *Hitbox) registered(seg *Segment) bool {
	cur, ok := h.segments[seg.source]
	return ok && cur == seg
}

// AddSegment registers p without a rescan. Segments added this way survive
// Reconcile until their point's object is destroyed.
func (h *Hitbox) AddSegment(p *components.DmgPoint) *Hitbox {
	if h.checkDestroyed("AddSegment") {
		return h
	}
	if p == nil || p.GetGameObject() == nil {
		h.fail("AddSegment", ErrNilPoint)
		return h
	}
	if seg, ok := h.segments[weak.Make(p)]; ok {
		seg.manual = true
		return h
	}
	if _, err := h.addSegment(p, true); err != nil {
		h.fail("AddSegment", err)
	}
	return h
}

func (h *Hitbox) RemoveSegment(p *components.DmgPoint) *Hitbox {
	if h.checkDestroyed("RemoveSegment") {
		return h
	}
	if p != nil {
		h.removeSegment(weak.Make(p))
	}
	return h
}

// GetSegment returns the segment tracking p, or nil.
func (h *Hitbox) GetSegment(p *components.DmgPoint) *Segment {
	if h.checkDestroyed("GetSegment") || p == nil {
		return nil
	}
	return h.segments[weak.Make(p)]
}

// GetAllSegments returns the segments in registration order.
func (h *Hitbox) GetAllSegments() []*Segment {
	if h.checkDestroyed("GetAllSegments") {
		return nil
	}
	return slices.Clone(h.order)
}

// SetPoints attaches a new emission point to obj for each local offset and
// tracks them as manual segments.
func (h *Hitbox) SetPoints(obj *engine.GameObject, offsets ...rl.Vector3) *Hitbox {
	if h.checkDestroyed("SetPoints") {
		return h
	}
	if obj == nil {
		h.fail("SetPoints", ErrNilInstance)
		return h
	}
	for _, off := range offsets {
		p := components.NewDmgPoint(off)
		obj.AddComponent(p)
		h.AddSegment(p)
		if seg := h.segments[weak.Make(p)]; seg != nil {
			seg.created = true
		}
	}
	return h
}

// RemovePoints stops tracking every point on obj. Points that SetPoints
// created are detached from obj as well.
func (h *Hitbox) RemovePoints(obj *engine.GameObject) *Hitbox {
	if h.checkDestroyed("RemovePoints") {
		return h
	}
	for _, seg := range slices.Clone(h.order) {
		p := seg.Point()
		if p == nil || p.GetGameObject() != obj {
			continue
		}
		h.removeSegment(seg.source)
		if seg.created {
			obj.RemoveComponent(p)
		}
	}
	return h
}
