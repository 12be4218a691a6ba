package components

import (
	"shapecast/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BoxCollider is an oriented box that follows its object's world rotation and scale.
type BoxCollider struct {
	engine.BaseComponent
	Size   rl.Vector3
	Offset rl.Vector3
	// Material is passed through to cast results untouched.
	Material string
}

func NewBoxCollider(size rl.Vector3) *BoxCollider {
	return &BoxCollider{
		Size:   size,
		Offset: rl.Vector3{},
	}
}

// GetCenter returns the world-space center of this collider
func (b *BoxCollider) GetCenter() rl.Vector3 {
	return b.GetGameObject().TransformPoint(b.Offset)
}

// GetWorldSize returns the collider size scaled by the object's world scale.
// Negative scales are folded into positive extents.
func (b *BoxCollider) GetWorldSize() rl.Vector3 {
	s := b.GetGameObject().WorldScale()
	return rl.Vector3{
		X: abs(b.Size.X * s.X),
		Y: abs(b.Size.Y * s.Y),
		Z: abs(b.Size.Z * s.Z),
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
