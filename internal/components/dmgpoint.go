package components

import (
	"shapecast/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DmgPoint marks a spot on an object that emits hitbox casts.
// A hitbox attached to an ancestor discovers every DmgPoint below it.
type DmgPoint struct {
	engine.BaseComponent
	Offset rl.Vector3
	Group  string

	// Optional per-point cast settings. An empty CastType means the
	// point uses the hitbox default.
	CastType   string
	CastSize   rl.Vector3
	CastRadius float32
}

func NewDmgPoint(offset rl.Vector3) *DmgPoint {
	return &DmgPoint{Offset: offset}
}

// WorldPosition returns the point in world space, including the object's scale.
func (d *DmgPoint) WorldPosition() rl.Vector3 {
	return d.GetGameObject().TransformPoint(d.Offset)
}

// WorldPose is the point's world position with its object's world rotation.
func (d *DmgPoint) WorldPose() engine.Pose {
	return engine.Pose{
		Position: d.WorldPosition(),
		Rotation: d.GetGameObject().WorldQuaternion(),
	}
}
