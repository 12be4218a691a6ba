package hitbox

import (
	"fmt"
	"math"
	"strings"

	"shapecast/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// CastShape selects the probe a segment sweeps each pass.
type CastShape int

const (
	Raycast CastShape = iota
	Blockcast
	Spherecast
)

func (s CastShape) String() string {
	switch s {
	case Raycast:
		return "Raycast"
	case Blockcast:
		return "Blockcast"
	case Spherecast:
		return "Spherecast"
	}
	return fmt.Sprintf("CastShape(%d)", int(s))
}

// ParseCastShape accepts the shape names case-insensitively.
func ParseCastShape(name string) (CastShape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "raycast", "ray":
		return Raycast, nil
	case "blockcast", "block", "box":
		return Blockcast, nil
	case "spherecast", "sphere":
		return Spherecast, nil
	}
	return 0, fmt.Errorf("%w: unknown shape %q", ErrInvalidCastData, name)
}

// CastData describes the probe. Size is only read for Blockcast and Radius
// only for Spherecast. Orientation is a local offset applied on top of the
// emission point's world pose.
type CastData struct {
	Shape       CastShape
	Orientation engine.Pose
	Size        rl.Vector3
	Radius      float32

	lastPose    engine.Pose
	hasLastPose bool
}

func DefaultCastData() CastData {
	return CastData{Shape: Raycast, Orientation: engine.PoseIdentity()}
}

func NewBlockcast(size rl.Vector3) CastData {
	return CastData{Shape: Blockcast, Orientation: engine.PoseIdentity(), Size: size}
}

func NewSpherecast(radius float32) CastData {
	return CastData{Shape: Spherecast, Orientation: engine.PoseIdentity(), Radius: radius}
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// Validate reports configurations that cannot be cast.
func (c CastData) Validate() error {
	switch c.Shape {
	case Raycast:
	case Blockcast:
		s := c.Size
		if !(s.X > 0 && s.Y > 0 && s.Z > 0) || !finite(s.X) || !finite(s.Y) || !finite(s.Z) {
			return fmt.Errorf("%w: block size %v must be positive", ErrInvalidCastData, s)
		}
	case Spherecast:
		if !(c.Radius > 0) || !finite(c.Radius) {
			return fmt.Errorf("%w: sphere radius %v must be positive", ErrInvalidCastData, c.Radius)
		}
	default:
		return fmt.Errorf("%w: unknown shape %d", ErrInvalidCastData, int(c.Shape))
	}
	return nil
}

// LastPose returns the pose the previous Blockcast ended at.
func (c CastData) LastPose() (engine.Pose, bool) {
	return c.lastPose, c.hasLastPose
}

func (c CastData) withoutHistory() CastData {
	c.lastPose = engine.Pose{}
	c.hasLastPose = false
	return c
}

// withHistory copies the sweep continuity of from into c.
func (c CastData) withHistory(from CastData) CastData {
	c.lastPose = from.lastPose
	c.hasLastPose = from.hasLastPose
	return c
}
