package physics

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"shapecast/internal/components"
	"shapecast/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrDegenerateCast is returned for casts with no length or no extent.
var ErrDegenerateCast = errors.New("degenerate cast")

// Spatial grid cell size - objects within cells touched by a cast are checked
const CellSize = 5.0

// contactSlop absorbs float error when confirming a conservative sweep.
const contactSlop = 1e-4

const (
	maxCellsPerObject = 512
	maxCellsPerQuery  = 4096
)

// Cell key for spatial hashing
type CellKey struct {
	X, Y, Z int
}

func posToCell(pos rl.Vector3) CellKey {
	return CellKey{
		X: int(math.Floor(float64(pos.X / CellSize))),
		Y: int(math.Floor(float64(pos.Y / CellSize))),
		Z: int(math.Floor(float64(pos.Z / CellSize))),
	}
}

func cellSpan(b AABB) (CellKey, CellKey, int) {
	lo, hi := posToCell(b.Min), posToCell(b.Max)
	n := (hi.X - lo.X + 1) * (hi.Y - lo.Y + 1) * (hi.Z - lo.Z + 1)
	return lo, hi, n
}

// World holds the collider objects that casts are tested against.
// Objects are kept in insertion order; equal-distance hits resolve to the
// earlier object.
type World struct {
	objects   []*engine.GameObject
	order     map[*engine.GameObject]int
	seq       int
	grid      map[CellKey][]*engine.GameObject
	oversized []*engine.GameObject
	conn      *engine.Connection
}

func NewWorld() *World {
	return &World{
		objects: make([]*engine.GameObject, 0),
		order:   make(map[*engine.GameObject]int),
		grid:    make(map[CellKey][]*engine.GameObject),
	}
}

// AddObject registers g. Objects without colliders are accepted and ignored by casts.
func (w *World) AddObject(g *engine.GameObject) {
	if g == nil {
		return
	}
	if _, ok := w.order[g]; ok {
		return
	}
	w.seq++
	w.order[g] = w.seq
	w.objects = append(w.objects, g)
	w.insert(g)
}

// AddTree registers root and every descendant.
func (w *World) AddTree(root *engine.GameObject) {
	w.AddObject(root)
	for _, d := range root.Descendants() {
		w.AddObject(d)
	}
}

func (w *World) RemoveObject(g *engine.GameObject) {
	if _, ok := w.order[g]; !ok {
		return
	}
	delete(w.order, g)
	w.objects = slices.DeleteFunc(w.objects, func(o *engine.GameObject) bool { return o == g })
	w.Rebuild()
}

func (w *World) Objects() []*engine.GameObject {
	return w.objects
}

// Rebuild refreshes the spatial grid from current transforms and drops
// destroyed objects. Moving colliders need a rebuild before they are cast
// against; Attach does it once per tick.
func (w *World) Rebuild() {
	clear(w.grid)
	w.oversized = w.oversized[:0]
	w.objects = slices.DeleteFunc(w.objects, func(o *engine.GameObject) bool {
		if o.IsDestroyed() {
			delete(w.order, o)
			return true
		}
		return false
	})
	for _, obj := range w.objects {
		w.insert(obj)
	}
}

// Attach rebuilds the grid at the start of every tick. Connect the world
// before any hitbox so casts see this frame's transforms.
func (w *World) Attach(ticks engine.TickSource) {
	w.Detach()
	w.conn = ticks.Connect(func(float32) { w.Rebuild() })
}

func (w *World) Detach() {
	w.conn.Disconnect()
	w.conn = nil
}

func (w *World) insert(g *engine.GameObject) {
	b, ok := objectBounds(g)
	if !ok {
		return
	}
	lo, hi, n := cellSpan(b)
	if n > maxCellsPerObject {
		w.oversized = append(w.oversized, g)
		return
	}
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				k := CellKey{x, y, z}
				w.grid[k] = append(w.grid[k], g)
			}
		}
	}
}

// candidates returns objects whose cells overlap b, in insertion order.
func (w *World) candidates(b AABB) []*engine.GameObject {
	lo, hi, n := cellSpan(b)
	if n > maxCellsPerQuery {
		return w.objects
	}
	seen := make(map[*engine.GameObject]struct{})
	var out []*engine.GameObject
	add := func(g *engine.GameObject) {
		if _, ok := seen[g]; ok {
			return
		}
		if _, ok := w.order[g]; !ok {
			return
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				for _, g := range w.grid[CellKey{x, y, z}] {
					add(g)
				}
			}
		}
	}
	for _, g := range w.oversized {
		add(g)
	}
	slices.SortFunc(out, func(a, b *engine.GameObject) int { return w.order[a] - w.order[b] })
	return out
}

func objectBounds(g *engine.GameObject) (AABB, bool) {
	var b AABB
	found := false
	grow := func(next AABB) {
		if !found {
			b = next
			found = true
			return
		}
		b = b.Union(next)
	}
	for _, box := range engine.GetComponents[*components.BoxCollider](g) {
		grow(boxOBB(box).Bounds())
	}
	for _, s := range engine.GetComponents[*components.SphereCollider](g) {
		r := s.GetWorldRadius()
		grow(NewAABBFromCenter(s.GetCenter(), rl.Vector3{X: 2 * r, Y: 2 * r, Z: 2 * r}))
	}
	return b, found
}

func boxOBB(box *components.BoxCollider) OBB {
	g := box.GetGameObject()
	return NewOBB(engine.Pose{Position: box.GetCenter(), Rotation: g.WorldQuaternion()}, box.GetWorldSize())
}

// contact is one candidate intersection, t along the displacement.
type contact struct {
	t      float32
	point  rl.Vector3
	normal rl.Vector3
}

type shapeTests struct {
	box    func(col OBB) (contact, bool)
	sphere func(center rl.Vector3, radius float32) (contact, bool)
}

func (w *World) nearest(bounds AABB, displacement rl.Vector3, q Query, tests shapeTests) (RaycastHit, bool) {
	var best RaycastHit
	bestT := float32(math.Inf(1))
	hit := false

	record := func(obj *engine.GameObject, c contact, material string) {
		if c.t < bestT {
			bestT = c.t
			best = RaycastHit{GameObject: obj, Point: c.point, Normal: c.normal, Material: material}
			hit = true
		}
	}

	for _, obj := range w.candidates(bounds) {
		if !q.Allows(obj) {
			continue
		}
		for _, box := range engine.GetComponents[*components.BoxCollider](obj) {
			if c, ok := tests.box(boxOBB(box)); ok {
				record(obj, c, box.Material)
			}
		}
		for _, s := range engine.GetComponents[*components.SphereCollider](obj) {
			if c, ok := tests.sphere(s.GetCenter(), s.GetWorldRadius()); ok {
				record(obj, c, s.Material)
			}
		}
	}

	if hit {
		best.Distance = bestT * rl.Vector3Length(displacement)
	}
	return best, hit
}

func validVector(v rl.Vector3) bool {
	for _, c := range [3]float32{v.X, v.Y, v.Z} {
		if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			return false
		}
	}
	return true
}

func checkDisplacement(origin, displacement rl.Vector3) error {
	if !validVector(origin) || !validVector(displacement) {
		return fmt.Errorf("%w: non-finite origin or displacement", ErrDegenerateCast)
	}
	if rl.Vector3Length(displacement) == 0 {
		return fmt.Errorf("%w: zero displacement", ErrDegenerateCast)
	}
	return nil
}

func at(origin, displacement rl.Vector3, t float32) rl.Vector3 {
	return rl.Vector3Add(origin, rl.Vector3Scale(displacement, t))
}

// Raycast sweeps a point from origin by displacement and returns the nearest hit.
func (w *World) Raycast(origin, displacement rl.Vector3, q Query) (RaycastHit, bool, error) {
	if err := checkDisplacement(origin, displacement); err != nil {
		return RaycastHit{}, false, err
	}
	bounds := AABB{Min: origin, Max: origin}.Swept(displacement)

	hit, ok := w.nearest(bounds, displacement, q, shapeTests{
		box: func(col OBB) (contact, bool) {
			t, n, ok := sweepOBB(origin, displacement, col, rl.Vector3{})
			if !ok {
				return contact{}, false
			}
			return contact{t: t, point: at(origin, displacement, t), normal: n}, true
		},
		sphere: func(center rl.Vector3, radius float32) (contact, bool) {
			t, ok := sweepSphere(origin, displacement, center, radius)
			if !ok {
				return contact{}, false
			}
			p := at(origin, displacement, t)
			return contact{t: t, point: p, normal: rl.Vector3Normalize(rl.Vector3Subtract(p, center))}, true
		},
	})
	return hit, ok, nil
}

// Spherecast sweeps a sphere of the given radius from origin by displacement.
func (w *World) Spherecast(origin rl.Vector3, radius float32, displacement rl.Vector3, q Query) (RaycastHit, bool, error) {
	if err := checkDisplacement(origin, displacement); err != nil {
		return RaycastHit{}, false, err
	}
	if !(radius > 0) || math.IsInf(float64(radius), 0) {
		return RaycastHit{}, false, fmt.Errorf("%w: radius %v", ErrDegenerateCast, radius)
	}
	d := 2 * radius
	bounds := NewAABBFromCenter(origin, rl.Vector3{X: d, Y: d, Z: d}).Swept(displacement)
	pad := rl.Vector3{X: radius, Y: radius, Z: radius}

	hit, ok := w.nearest(bounds, displacement, q, shapeTests{
		box: func(col OBB) (contact, bool) {
			t, n, ok := sweepOBB(origin, displacement, col, pad)
			if !ok {
				return contact{}, false
			}
			t, ok = refine(t, func(t float32) bool {
				return col.IntersectsSphere(at(origin, displacement, t), radius+contactSlop)
			})
			if !ok {
				return contact{}, false
			}
			center := at(origin, displacement, t)
			p := ClosestPointOnOBB(col, center)
			if away := rl.Vector3Subtract(center, p); rl.Vector3Length(away) > 1e-6 {
				n = rl.Vector3Normalize(away)
			}
			return contact{t: t, point: p, normal: n}, true
		},
		sphere: func(center rl.Vector3, r float32) (contact, bool) {
			t, ok := sweepSphere(origin, displacement, center, r+radius)
			if !ok {
				return contact{}, false
			}
			n := rl.Vector3Normalize(rl.Vector3Subtract(at(origin, displacement, t), center))
			return contact{t: t, point: rl.Vector3Add(center, rl.Vector3Scale(n, r)), normal: n}, true
		},
	})
	return hit, ok, nil
}

// Blockcast sweeps a box with the given pose and full size by displacement.
func (w *World) Blockcast(pose engine.Pose, size, displacement rl.Vector3, q Query) (RaycastHit, bool, error) {
	if err := checkDisplacement(pose.Position, displacement); err != nil {
		return RaycastHit{}, false, err
	}
	if !validVector(size) || !(size.X > 0 && size.Y > 0 && size.Z > 0) {
		return RaycastHit{}, false, fmt.Errorf("%w: size %v", ErrDegenerateCast, size)
	}
	cast := NewOBB(pose, size)
	bounds := cast.Bounds().Swept(displacement)
	reverse := rl.Vector3Negate(displacement)

	hit, ok := w.nearest(bounds, displacement, q, shapeTests{
		box: func(col OBB) (contact, bool) {
			t, n, ok := sweepOBB(cast.Center, displacement, col, cast.ProjectedHalfSize(col.Axes))
			if !ok {
				return contact{}, false
			}
			t, ok = refine(t, func(t float32) bool {
				return cast.Translate(rl.Vector3Scale(displacement, t)).Grow(contactSlop).IntersectsOBB(col)
			})
			if !ok {
				return contact{}, false
			}
			moved := cast.Translate(rl.Vector3Scale(displacement, t))
			return contact{t: t, point: ClosestPointOnOBB(col, moved.Center), normal: n}, true
		},
		sphere: func(center rl.Vector3, r float32) (contact, bool) {
			// Sweep the sphere backwards through the stationary cast box.
			t, _, ok := sweepOBB(center, reverse, cast, rl.Vector3{X: r, Y: r, Z: r})
			if !ok {
				return contact{}, false
			}
			t, ok = refine(t, func(t float32) bool {
				return cast.Translate(rl.Vector3Scale(displacement, t)).IntersectsSphere(center, r+contactSlop)
			})
			if !ok {
				return contact{}, false
			}
			moved := cast.Translate(rl.Vector3Scale(displacement, t))
			toward := rl.Vector3Subtract(ClosestPointOnOBB(moved, center), center)
			n := rl.Vector3Normalize(reverse)
			if rl.Vector3Length(toward) > 1e-6 {
				n = rl.Vector3Normalize(toward)
			}
			return contact{t: t, point: rl.Vector3Add(center, rl.Vector3Scale(n, r)), normal: n}, true
		},
	})
	return hit, ok, nil
}
