package hitbox

import (
	"shapecast/internal/engine"
	"shapecast/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Caster answers swept shape queries. Each call returns the nearest blocking
// intersection within the displacement, if any.
type Caster interface {
	Raycast(origin, displacement rl.Vector3, q physics.Query) (physics.RaycastHit, bool, error)
	Spherecast(origin rl.Vector3, radius float32, displacement rl.Vector3, q physics.Query) (physics.RaycastHit, bool, error)
	Blockcast(pose engine.Pose, size, displacement rl.Vector3, q physics.Query) (physics.RaycastHit, bool, error)
}

var _ Caster = (*physics.World)(nil)
