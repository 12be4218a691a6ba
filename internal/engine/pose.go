package engine

import rl "github.com/gen2brain/raylib-go/raylib"

// Pose is a rigid transform: a position and a rotation, no scale.
// The zero Pose is treated as the identity.
type Pose struct {
	Position rl.Vector3
	Rotation rl.Quaternion
}

func PoseIdentity() Pose {
	return Pose{Rotation: rl.QuaternionIdentity()}
}

// NewPose builds a pose from a position and Euler angles in degrees.
func NewPose(position, eulerDegrees rl.Vector3) Pose {
	return Pose{
		Position: position,
		Rotation: Transform{Rotation: eulerDegrees}.Quaternion(),
	}
}

func (p Pose) rotation() rl.Quaternion {
	if p.Rotation == (rl.Quaternion{}) {
		return rl.QuaternionIdentity()
	}
	return p.Rotation
}

// Mul returns p followed by the local offset o.
func (p Pose) Mul(o Pose) Pose {
	return Pose{
		Position: p.PointToWorld(o.Position),
		Rotation: rl.QuaternionNormalize(rl.QuaternionMultiply(p.rotation(), o.rotation())),
	}
}

// PointToWorld maps a point in p's local space to world space.
func (p Pose) PointToWorld(local rl.Vector3) rl.Vector3 {
	return rl.Vector3Add(p.Position, rl.Vector3RotateByQuaternion(local, p.rotation()))
}

// Axes returns the pose's local X, Y and Z axes in world space.
func (p Pose) Axes() [3]rl.Vector3 {
	q := p.rotation()
	return [3]rl.Vector3{
		rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, q),
		rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, q),
		rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, q),
	}
}

// Translate returns p moved by delta, rotation unchanged.
func (p Pose) Translate(delta rl.Vector3) Pose {
	return Pose{Position: rl.Vector3Add(p.Position, delta), Rotation: p.Rotation}
}
