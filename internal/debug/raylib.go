package debug

import (
	"shapecast/internal/engine"
	"shapecast/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RaylibRenderer draws adornments as wireframes. Call inside BeginMode3D.
type RaylibRenderer struct{}

func (RaylibRenderer) Line(from, to rl.Vector3, color rl.Color) {
	rl.DrawLine3D(from, to, color)
}

func (RaylibRenderer) Box(pose engine.Pose, size rl.Vector3, color rl.Color) {
	c := physics.NewOBB(pose, size).Corners()
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		rl.DrawLine3D(c[i], c[j], color)
		rl.DrawLine3D(c[4+i], c[4+j], color)
		rl.DrawLine3D(c[i], c[4+i], color)
	}
}

func (RaylibRenderer) Sphere(center rl.Vector3, radius float32, color rl.Color) {
	rl.DrawSphereWires(center, radius, 8, 8, color)
}
