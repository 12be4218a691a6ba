package physics

import (
	"math"

	"shapecast/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RaycastHit is the nearest blocking intersection of a cast.
type RaycastHit struct {
	GameObject *engine.GameObject
	Point      rl.Vector3
	Normal     rl.Vector3
	// Distance is measured along the displacement from the cast origin.
	Distance float32
	Material string
}

// sweepOBB moves a point from origin by displacement through box, grown by
// pad along the box's own axes. t is the entry fraction in [0, 1]. A start
// inside the box does not count as a hit.
func sweepOBB(origin, displacement rl.Vector3, box OBB, pad rl.Vector3) (float32, rl.Vector3, bool) {
	rel := rl.Vector3Subtract(origin, box.Center)
	half := [3]float32{box.HalfSize.X + pad.X, box.HalfSize.Y + pad.Y, box.HalfSize.Z + pad.Z}

	tmin := float32(math.Inf(-1))
	tmax := float32(math.Inf(1))
	axis := -1
	var sign float32

	for i := 0; i < 3; i++ {
		o := rl.Vector3DotProduct(rel, box.Axes[i])
		d := rl.Vector3DotProduct(displacement, box.Axes[i])

		// Parallel to this slab
		if absf(d) < 1e-9 {
			if o < -half[i] || o > half[i] {
				return 0, rl.Vector3{}, false
			}
			continue
		}

		t1 := (-half[i] - o) / d
		t2 := (half[i] - o) / d
		s := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > tmin {
			tmin = t1
			axis = i
			sign = s
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, rl.Vector3{}, false
		}
	}

	if axis < 0 || tmin < 0 || tmin > 1 {
		return 0, rl.Vector3{}, false
	}
	return tmin, rl.Vector3Scale(box.Axes[axis], sign), true
}

// sweepSphere moves a point from origin by displacement against a sphere.
func sweepSphere(origin, displacement, center rl.Vector3, radius float32) (float32, bool) {
	oc := rl.Vector3Subtract(origin, center)
	a := rl.Vector3DotProduct(displacement, displacement)
	if a == 0 {
		return 0, false
	}
	b := rl.Vector3DotProduct(oc, displacement)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius
	if c < 0 {
		return 0, false
	}

	discriminant := b*b - a*c
	if discriminant < 0 {
		return 0, false
	}

	t := (-b - float32(math.Sqrt(float64(discriminant)))) / a
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}

// refine pushes a conservative entry time forward until overlaps reports
// contact. The inflated sweeps overestimate near edges and corners.
func refine(t float32, overlaps func(t float32) bool) (float32, bool) {
	if overlaps(t) {
		return t, true
	}
	const steps = 16
	prev := t
	for k := 1; k <= steps; k++ {
		next := t + (1-t)*float32(k)/steps
		if overlaps(next) {
			lo, hi := prev, next
			for range 8 {
				mid := (lo + hi) / 2
				if overlaps(mid) {
					hi = mid
				} else {
					lo = mid
				}
			}
			return hi, true
		}
		prev = next
	}
	return 0, false
}
