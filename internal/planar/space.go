// Package planar is a top-down caster backed by a chipmunk space. Colliders
// are flattened onto the XZ plane (X becomes X, Z becomes Y) and height is
// ignored, which suits arenas where every target stands on the same floor.
package planar

import (
	"errors"
	"fmt"
	"math"

	"shapecast/internal/components"
	"shapecast/internal/engine"
	"shapecast/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jakecoffman/cp/v2"
)

// ErrNoPlanarMotion is returned when a displacement has no XZ component.
var ErrNoPlanarMotion = errors.New("planar: no motion in the XZ plane")

type owner struct {
	obj      *engine.GameObject
	material string
	seq      int
}

// Space mirrors the colliders of registered objects into a cp.Space.
// Shapes are rebuilt by Sync; call it (or Attach) after colliders move.
type Space struct {
	space   *cp.Space
	objects []*engine.GameObject
	known   map[*engine.GameObject]bool
	owners  map[*cp.Shape]owner
	conn    *engine.Connection
}

func NewSpace() *Space {
	return &Space{
		space:  cp.NewSpace(),
		known:  make(map[*engine.GameObject]bool),
		owners: make(map[*cp.Shape]owner),
	}
}

// AddObject registers g and mirrors its colliders immediately.
func (s *Space) AddObject(g *engine.GameObject) {
	if g == nil || s.known[g] {
		return
	}
	s.known[g] = true
	s.objects = append(s.objects, g)
	s.addShapes(g, len(s.objects))
}

// AddTree registers root and every descendant.
func (s *Space) AddTree(root *engine.GameObject) {
	s.AddObject(root)
	for _, d := range root.Descendants() {
		s.AddObject(d)
	}
}

// Len is the number of shapes in the space.
func (s *Space) Len() int {
	return len(s.owners)
}

// Sync drops destroyed objects and rebuilds every shape from current transforms.
func (s *Space) Sync() {
	s.space = cp.NewSpace()
	clear(s.owners)
	live := s.objects[:0]
	for _, g := range s.objects {
		if g.IsDestroyed() {
			delete(s.known, g)
			continue
		}
		live = append(live, g)
	}
	s.objects = live
	for i, g := range s.objects {
		s.addShapes(g, i+1)
	}
}

// Attach syncs the space at the start of every tick.
func (s *Space) Attach(ticks engine.TickSource) {
	s.Detach()
	s.conn = ticks.Connect(func(float32) { s.Sync() })
}

func (s *Space) Detach() {
	s.conn.Disconnect()
	s.conn = nil
}

func (s *Space) addShapes(g *engine.GameObject, seq int) {
	body := s.space.StaticBody
	for _, box := range engine.GetComponents[*components.BoxCollider](g) {
		b := footprint(physics.NewOBB(engine.Pose{Position: box.GetCenter(), Rotation: g.WorldQuaternion()}, box.GetWorldSize()))
		shape := cp.NewBox2(body, b, 0)
		s.space.AddShape(shape)
		s.owners[shape] = owner{obj: g, material: box.Material, seq: seq}
	}
	for _, sc := range engine.GetComponents[*components.SphereCollider](g) {
		shape := cp.NewCircle(body, float64(sc.GetWorldRadius()), flat(sc.GetCenter()))
		s.space.AddShape(shape)
		s.owners[shape] = owner{obj: g, material: sc.Material, seq: seq}
	}
}

// footprint is the XZ bounding rectangle of a box, conservative under yaw.
func footprint(box physics.OBB) cp.BB {
	b := box.Bounds()
	return cp.BB{L: float64(b.Min.X), B: float64(b.Min.Z), R: float64(b.Max.X), T: float64(b.Max.Z)}
}

func flat(v rl.Vector3) cp.Vector {
	return cp.Vector{X: float64(v.X), Y: float64(v.Z)}
}

func (s *Space) cast(origin rl.Vector3, radius float64, displacement rl.Vector3, q physics.Query) (physics.RaycastHit, bool, error) {
	if math.Hypot(float64(displacement.X), float64(displacement.Z)) < 1e-9 {
		return physics.RaycastHit{}, false, ErrNoPlanarMotion
	}
	start := flat(origin)
	end := flat(rl.Vector3Add(origin, displacement))

	var best owner
	var bestN, bestP cp.Vector
	bestT := math.Inf(1)
	hit := false
	s.space.SegmentQuery(start, end, radius, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, point, normal cp.Vector, alpha float64, _ interface{}) {
		o, ok := s.owners[shape]
		if !ok || !q.Allows(o.obj) {
			return
		}
		if alpha < bestT || (alpha == bestT && o.seq < best.seq) {
			best, bestT, bestN, bestP, hit = o, alpha, normal, point, true
		}
	}, nil)
	if !hit {
		return physics.RaycastHit{}, false, nil
	}

	t := float32(bestT)
	y := origin.Y + displacement.Y*t
	return physics.RaycastHit{
		GameObject: best.obj,
		Point:      rl.Vector3{X: float32(bestP.X), Y: y, Z: float32(bestP.Y)},
		Normal:     rl.Vector3{X: float32(bestN.X), Z: float32(bestN.Y)},
		Distance:   t * rl.Vector3Length(displacement),
		Material:   best.material,
	}, true, nil
}

func (s *Space) Raycast(origin, displacement rl.Vector3, q physics.Query) (physics.RaycastHit, bool, error) {
	return s.cast(origin, 0, displacement, q)
}

func (s *Space) Spherecast(origin rl.Vector3, radius float32, displacement rl.Vector3, q physics.Query) (physics.RaycastHit, bool, error) {
	if !(radius > 0) || math.IsInf(float64(radius), 0) {
		return physics.RaycastHit{}, false, fmt.Errorf("%w: radius %v", physics.ErrDegenerateCast, radius)
	}
	return s.cast(origin, float64(radius), displacement, q)
}

// Blockcast sweeps the circle that encloses the box's XZ footprint.
func (s *Space) Blockcast(pose engine.Pose, size, displacement rl.Vector3, q physics.Query) (physics.RaycastHit, bool, error) {
	if !(size.X > 0 && size.Y > 0 && size.Z > 0) {
		return physics.RaycastHit{}, false, fmt.Errorf("%w: size %v", physics.ErrDegenerateCast, size)
	}
	b := physics.NewOBB(pose, size).Bounds()
	r := math.Hypot(float64(b.Max.X-b.Min.X), float64(b.Max.Z-b.Min.Z)) / 2
	return s.cast(pose.Position, r, displacement, q)
}
