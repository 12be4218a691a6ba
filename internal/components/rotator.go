package components

import "shapecast/internal/engine"

// Rotator spins an object around its local axes. Speeds are degrees per second.
type Rotator struct {
	engine.BaseComponent
	Speed float32
	Axis  string
}

func (r *Rotator) Update(deltaTime float32) {
	g := r.GetGameObject()
	if g == nil {
		return
	}
	rot := &g.Transform.Rotation
	var angle *float32
	switch r.Axis {
	case "x", "X":
		angle = &rot.X
	case "z", "Z":
		angle = &rot.Z
	default:
		angle = &rot.Y
	}
	*angle += r.Speed * deltaTime
	if *angle > 360 {
		*angle -= 360
	} else if *angle < -360 {
		*angle += 360
	}
}
