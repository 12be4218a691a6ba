package engine

import (
	"math"
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var nextUID atomic.Uint64

type Transform struct {
	Position rl.Vector3
	Rotation rl.Vector3 // Euler angles in degrees
	Scale    rl.Vector3
}

// Quaternion returns the local rotation as a quaternion.
func (t Transform) Quaternion() rl.Quaternion {
	if t.Rotation == (rl.Vector3{}) {
		return rl.QuaternionIdentity()
	}
	return rl.QuaternionNormalize(rl.QuaternionFromMatrix(eulerMatrix(t.Rotation)))
}

// eulerMatrix builds the rotation in the engine's X, then Y, then Z order.
func eulerMatrix(rot rl.Vector3) rl.Matrix {
	rx := float64(rot.X) * math.Pi / 180
	ry := float64(rot.Y) * math.Pi / 180
	rz := float64(rot.Z) * math.Pi / 180
	rotX := rl.MatrixRotateX(float32(rx))
	rotY := rl.MatrixRotateY(float32(ry))
	rotZ := rl.MatrixRotateZ(float32(rz))
	return rl.MatrixMultiply(rl.MatrixMultiply(rotX, rotY), rotZ)
}

type GameObject struct {
	UID        uint64
	Name       string
	Tags       []string
	Transform  Transform
	Active     bool
	Scene      *Scene
	Parent     *GameObject
	Children   []*GameObject
	components []Component
	started    bool
	destroyed  bool
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		UID:    nextUID.Add(1),
		Name:   name,
		Active: true,
		Transform: Transform{
			Position: rl.Vector3{},
			Rotation: rl.Vector3{},
			Scale:    rl.Vector3{X: 1, Y: 1, Z: 1},
		},
		components: make([]Component, 0),
		Children:   make([]*GameObject, 0),
	}
}

func (g *GameObject) AddComponent(c Component) {
	c.SetGameObject(g)
	g.components = append(g.components, c)
}

// RemoveComponent detaches c from the object. It reports whether c was attached.
func (g *GameObject) RemoveComponent(c Component) bool {
	for i, existing := range g.components {
		if existing == c {
			g.components = append(g.components[:i], g.components[i+1:]...)
			c.SetGameObject(nil)
			return true
		}
	}
	return false
}

// GetComponent returns the first component of type T, or the zero value.
func GetComponent[T Component](g *GameObject) T {
	var zero T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

// GetComponents returns every component of type T in attach order.
func GetComponents[T Component](g *GameObject) []T {
	var result []T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			result = append(result, typed)
		}
	}
	return result
}

func (g *GameObject) Start() {
	if g.started {
		return
	}
	for _, c := range g.components {
		c.Start()
	}
	g.started = true
}

func (g *GameObject) Update(deltaTime float32) {
	if !g.Active || g.destroyed {
		return
	}
	for _, c := range g.components {
		c.Update(deltaTime)
	}
}

func (g *GameObject) Components() []Component {
	return g.components
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (g *GameObject) AddChild(child *GameObject) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = g
	g.Children = append(g.Children, child)
}

func (g *GameObject) RemoveChild(child *GameObject) {
	for i, c := range g.Children {
		if c == child {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// Descendants returns every object below g in depth-first pre-order.
func (g *GameObject) Descendants() []*GameObject {
	var result []*GameObject
	var walk func(*GameObject)
	walk = func(n *GameObject) {
		for _, c := range n.Children {
			result = append(result, c)
			walk(c)
		}
	}
	walk(g)
	return result
}

// IsDescendantOf reports whether g is ancestor itself or sits anywhere below it.
func (g *GameObject) IsDescendantOf(ancestor *GameObject) bool {
	for n := g; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// Destroy detaches g from its parent and marks the whole subtree destroyed.
// Destroyed objects stop updating and are skipped by spatial queries.
func (g *GameObject) Destroy() {
	if g.destroyed {
		return
	}
	if g.Parent != nil {
		g.Parent.RemoveChild(g)
	}
	if g.Scene != nil {
		g.Scene.RemoveGameObject(g)
	}
	g.markDestroyed()
}

func (g *GameObject) markDestroyed() {
	g.destroyed = true
	for _, c := range g.Children {
		c.markDestroyed()
	}
}

func (g *GameObject) IsDestroyed() bool {
	return g.destroyed
}

func (g *GameObject) WorldPosition() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Position
	}
	parentPos := g.Parent.WorldPosition()
	parentScale := g.Parent.WorldScale()

	// Scale local position by parent's world scale
	scaled := rl.Vector3{
		X: g.Transform.Position.X * parentScale.X,
		Y: g.Transform.Position.Y * parentScale.Y,
		Z: g.Transform.Position.Z * parentScale.Z,
	}

	rotated := rl.Vector3RotateByQuaternion(scaled, g.Parent.WorldQuaternion())
	return rl.Vector3Add(parentPos, rotated)
}

// WorldQuaternion composes the rotations of g and all its ancestors.
func (g *GameObject) WorldQuaternion() rl.Quaternion {
	local := g.Transform.Quaternion()
	if g.Parent == nil {
		return local
	}
	return rl.QuaternionNormalize(rl.QuaternionMultiply(g.Parent.WorldQuaternion(), local))
}

// Forward is g's local -Z axis in world space.
func (g *GameObject) Forward() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3{Z: -1}, g.WorldQuaternion())
}

func (g *GameObject) WorldScale() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Scale
	}
	ps := g.Parent.WorldScale()
	return rl.Vector3{
		X: ps.X * g.Transform.Scale.X,
		Y: ps.Y * g.Transform.Scale.Y,
		Z: ps.Z * g.Transform.Scale.Z,
	}
}

// WorldPose is the object's world position and rotation, without scale.
func (g *GameObject) WorldPose() Pose {
	return Pose{Position: g.WorldPosition(), Rotation: g.WorldQuaternion()}
}

// TransformPoint maps a point in g's local space (scale included) to world space.
func (g *GameObject) TransformPoint(local rl.Vector3) rl.Vector3 {
	s := g.WorldScale()
	scaled := rl.Vector3{X: local.X * s.X, Y: local.Y * s.Y, Z: local.Z * s.Z}
	return rl.Vector3Add(g.WorldPosition(), rl.Vector3RotateByQuaternion(scaled, g.WorldQuaternion()))
}
