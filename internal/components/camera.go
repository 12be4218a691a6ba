package components

import (
	"shapecast/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Camera marks the viewpoint a scene is opened with. The eye sits at the
// object's world position and looks at Target, or along the object's forward axis when
// Target coincides with the eye.
type Camera struct {
	engine.BaseComponent
	FOV        float32
	Target     rl.Vector3
	Projection rl.CameraProjection
}

func NewCamera() *Camera {
	return &Camera{
		FOV:        45,
		Projection: rl.CameraPerspective,
	}
}

func (c *Camera) GetRaylibCamera() rl.Camera3D {
	g := c.GetGameObject()
	if g == nil {
		return rl.Camera3D{}
	}

	eye := g.WorldPosition()
	target := c.Target
	if rl.Vector3Distance(eye, target) < 1e-4 {
		target = rl.Vector3Add(eye, g.Forward())
	}

	return rl.Camera3D{
		Position:   eye,
		Target:     target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       c.FOV,
		Projection: c.Projection,
	}
}

// FindCamera returns the first camera on an active, live object.
func FindCamera(gameObjects []*engine.GameObject) *Camera {
	for _, g := range gameObjects {
		if g.IsDestroyed() || !g.Active {
			continue
		}
		if c := engine.GetComponent[*Camera](g); c != nil {
			return c
		}
	}
	return nil
}
