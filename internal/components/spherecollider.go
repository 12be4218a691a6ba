package components

import (
	"shapecast/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type SphereCollider struct {
	engine.BaseComponent
	Radius   float32
	Offset   rl.Vector3
	Material string
}

func NewSphereCollider(radius float32) *SphereCollider {
	return &SphereCollider{
		Radius: radius,
		Offset: rl.Vector3{},
	}
}

// GetCenter returns the world-space center of this collider
func (s *SphereCollider) GetCenter() rl.Vector3 {
	return s.GetGameObject().TransformPoint(s.Offset)
}

// GetWorldRadius scales the radius by the largest axis of the object's world scale.
func (s *SphereCollider) GetWorldRadius() float32 {
	sc := s.GetGameObject().WorldScale()
	m := max(abs(sc.X), abs(sc.Y), abs(sc.Z))
	return s.Radius * m
}
