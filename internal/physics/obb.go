package physics

import (
	"shapecast/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // World-space center
	HalfSize rl.Vector3    // Half-extents along local axes
	Axes     [3]rl.Vector3 // Local X, Y, Z axes (rotated)
}

// NewOBB creates an OBB centered on the pose with the given full size.
func NewOBB(pose engine.Pose, size rl.Vector3) OBB {
	return OBB{
		Center:   pose.Position,
		HalfSize: rl.Vector3{X: absf(size.X) / 2, Y: absf(size.Y) / 2, Z: absf(size.Z) / 2},
		Axes:     pose.Axes(),
	}
}

// NewAABBasOBB creates an axis-aligned OBB (no rotation)
func NewAABBasOBB(center, size rl.Vector3) OBB {
	return OBB{
		Center:   center,
		HalfSize: rl.Vector3{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2},
		Axes: [3]rl.Vector3{
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
	}
}

// Translate returns the box moved by delta.
func (o OBB) Translate(delta rl.Vector3) OBB {
	o.Center = rl.Vector3Add(o.Center, delta)
	return o
}

// Grow returns the box with d added to every half-extent.
func (o OBB) Grow(d float32) OBB {
	o.HalfSize = rl.Vector3{X: o.HalfSize.X + d, Y: o.HalfSize.Y + d, Z: o.HalfSize.Z + d}
	return o
}

// Extents returns the half-size of the world-space AABB enclosing the box.
func (o OBB) Extents() rl.Vector3 {
	h := [3]float32{o.HalfSize.X, o.HalfSize.Y, o.HalfSize.Z}
	var e rl.Vector3
	for i := 0; i < 3; i++ {
		e.X += h[i] * absf(o.Axes[i].X)
		e.Y += h[i] * absf(o.Axes[i].Y)
		e.Z += h[i] * absf(o.Axes[i].Z)
	}
	return e
}

func (o OBB) Bounds() AABB {
	e := o.Extents()
	return AABB{Min: rl.Vector3Subtract(o.Center, e), Max: rl.Vector3Add(o.Center, e)}
}

// ProjectedHalfSize returns o's half-extents measured along each of the given axes.
func (o OBB) ProjectedHalfSize(axes [3]rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: o.projectedRadius(axes[0]),
		Y: o.projectedRadius(axes[1]),
		Z: o.projectedRadius(axes[2]),
	}
}

func (o OBB) projectedRadius(axis rl.Vector3) float32 {
	return o.HalfSize.X*absf(rl.Vector3DotProduct(o.Axes[0], axis)) +
		o.HalfSize.Y*absf(rl.Vector3DotProduct(o.Axes[1], axis)) +
		o.HalfSize.Z*absf(rl.Vector3DotProduct(o.Axes[2], axis))
}

// Corners returns the eight corners, bottom face first.
func (o OBB) Corners() [8]rl.Vector3 {
	var out [8]rl.Vector3
	i := 0
	for _, y := range [2]float32{-1, 1} {
		for _, xz := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := o.Center
			p = rl.Vector3Add(p, rl.Vector3Scale(o.Axes[0], xz[0]*o.HalfSize.X))
			p = rl.Vector3Add(p, rl.Vector3Scale(o.Axes[1], y*o.HalfSize.Y))
			p = rl.Vector3Add(p, rl.Vector3Scale(o.Axes[2], xz[1]*o.HalfSize.Z))
			out[i] = p
			i++
		}
	}
	return out
}

// IntersectsOBB tests if two OBBs intersect using the Separating Axis Theorem
func (a OBB) IntersectsOBB(b OBB) bool {
	// Vector from A's center to B's center
	t := rl.Vector3Subtract(b.Center, a.Center)

	// Test A's face normals
	for i := 0; i < 3; i++ {
		if !overlapOnAxis(a, b, a.Axes[i], t) {
			return false
		}
	}

	// Test B's face normals
	for i := 0; i < 3; i++ {
		if !overlapOnAxis(a, b, b.Axes[i], t) {
			return false
		}
	}

	// Test cross products of edges
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := rl.Vector3CrossProduct(a.Axes[i], b.Axes[j])
			// Skip near-zero axes (parallel edges)
			if rl.Vector3Length(axis) > 0.0001 {
				axis = rl.Vector3Normalize(axis)
				if !overlapOnAxis(a, b, axis, t) {
					return false
				}
			}
		}
	}

	return true
}

// overlapOnAxis checks if two OBBs overlap when projected onto a given axis
func overlapOnAxis(a, b OBB, axis, t rl.Vector3) bool {
	distance := absf(rl.Vector3DotProduct(t, axis))
	return distance <= a.projectedRadius(axis)+b.projectedRadius(axis)
}

// IntersectsSphere tests if an OBB intersects with a sphere
func (o OBB) IntersectsSphere(center rl.Vector3, radius float32) bool {
	closest := ClosestPointOnOBB(o, center)
	d := rl.Vector3Subtract(closest, center)
	return rl.Vector3DotProduct(d, d) <= radius*radius
}

// ClosestPointOnOBB returns the closest point on or inside the OBB to the given point
func ClosestPointOnOBB(o OBB, point rl.Vector3) rl.Vector3 {
	// Transform point to OBB's local space
	local := rl.Vector3Subtract(point, o.Center)
	localX := rl.Vector3DotProduct(local, o.Axes[0])
	localY := rl.Vector3DotProduct(local, o.Axes[1])
	localZ := rl.Vector3DotProduct(local, o.Axes[2])

	// Clamp to box extents
	closestX := clampf(localX, -o.HalfSize.X, o.HalfSize.X)
	closestY := clampf(localY, -o.HalfSize.Y, o.HalfSize.Y)
	closestZ := clampf(localZ, -o.HalfSize.Z, o.HalfSize.Z)

	// Transform back to world space
	result := o.Center
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[0], closestX))
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[1], closestY))
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[2], closestZ))

	return result
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
