package hitbox

import (
	"log/slog"
	"weak"

	"shapecast/internal/components"
	"shapecast/internal/engine"
	"shapecast/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Segment tracks one emission point between passes: where it was, how far
// it has travelled since HitStart, and what its last cast hit.
type Segment struct {
	source weak.Pointer[components.DmgPoint]
	owner  *Hitbox
	manual bool
	// created marks points that SetPoints attached itself.
	created bool

	castData   CastData
	overridden bool

	accumulated     float32
	tickPosition    rl.Vector3
	lastPosition    rl.Vector3
	hasLastPosition bool
	lastDirection   rl.Vector3
	hasDirection    bool
	castResult      *physics.RaycastHit

	probe    Probe
	hasProbe bool
}

// Probe is one swept cast as issued to the caster.
type Probe struct {
	Shape        CastShape
	From         engine.Pose
	Displacement rl.Vector3
	Size         rl.Vector3
	Radius       float32
}

func newSegment(owner *Hitbox, p *components.DmgPoint, cd CastData) *Segment {
	return &Segment{
		source:   weak.Make(p),
		owner:    owner,
		castData: cd.withoutHistory(),
	}
}

// Point returns the emission point, or nil once it has been collected.
func (s *Segment) Point() *components.DmgPoint {
	return s.source.Value()
}

// Position is the last world position the segment was advanced to.
func (s *Segment) Position() (rl.Vector3, bool) {
	return s.lastPosition, s.hasLastPosition
}

func (s *Segment) AccumulatedDistance() float32 {
	return s.accumulated
}

func (s *Segment) LastDirection() (rl.Vector3, bool) {
	return s.lastDirection, s.hasDirection
}

// CastResult is the intersection found on the last pass, before hit filtering.
func (s *Segment) CastResult() (physics.RaycastHit, bool) {
	if s.castResult == nil {
		return physics.RaycastHit{}, false
	}
	return *s.castResult, true
}

func (s *Segment) CastData() CastData {
	return s.castData
}

// Overridden reports whether the segment ignores the hitbox default cast data.
func (s *Segment) Overridden() bool {
	return s.overridden
}

// Manual reports whether the segment was added explicitly rather than discovered.
func (s *Segment) Manual() bool {
	return s.manual
}

// SetCastData gives this segment its own cast data. The override stays until
// ResetCastData, whatever the hitbox default does in the meantime.
func (s *Segment) SetCastData(cd CastData) error {
	if err := cd.Validate(); err != nil {
		return err
	}
	s.castData = cd.withHistory(s.castData)
	s.overridden = true
	return nil
}

// ResetCastData drops the override and follows the hitbox default again.
func (s *Segment) ResetCastData() {
	s.overridden = false
	if s.owner != nil {
		s.castData = s.owner.castData.withHistory(s.castData)
	}
}

// LastProbe returns the probe swept on the most recent pass, if one was issued.
func (s *Segment) LastProbe() (Probe, bool) {
	return s.probe, s.hasProbe
}

func (s *Segment) applyDefault(cd CastData) {
	if s.overridden {
		return
	}
	s.castData = cd.withHistory(s.castData)
}

// reset clears travel state at the start of an activation window.
func (s *Segment) reset() {
	s.accumulated = 0
	s.tickPosition = rl.Vector3{}
	s.lastPosition = rl.Vector3{}
	s.hasLastPosition = false
	s.lastDirection = rl.Vector3{}
	s.hasDirection = false
	s.castResult = nil
	s.castData = s.castData.withoutHistory()
	s.probe = Probe{}
	s.hasProbe = false
}

func (s *Segment) pose(p *components.DmgPoint) engine.Pose {
	return p.WorldPose().Mul(s.castData.Orientation)
}

// begin records the starting pose of a window; nothing is cast from it yet.
func (s *Segment) begin(pose engine.Pose) {
	s.lastPosition = pose.Position
	s.hasLastPosition = true
	s.tickPosition = pose.Position
	s.castResult = nil
	s.castData.lastPose = pose
	s.castData.hasLastPose = true
}

// sample runs on every tick, pass or not. The first sample of a window
// records the starting pose; later ones add the per-tick travel.
func (s *Segment) sample() {
	p := s.source.Value()
	if p == nil || !p.Attached() {
		return
	}
	pose := s.pose(p)
	if !s.hasLastPosition {
		s.begin(pose)
		return
	}
	s.accumulated += rl.Vector3Distance(pose.Position, s.tickPosition)
	s.tickPosition = pose.Position
}

// update advances the segment to its point's current pose and sweeps the
// configured shape over the travelled displacement. seen filters objects
// already hit in this window; a filtered hit is still kept as the cast result.
func (s *Segment) update(c Caster, q physics.Query, seen func(*engine.GameObject) bool, logger *slog.Logger) *physics.RaycastHit {
	s.hasProbe = false

	p := s.source.Value()
	if p == nil || !p.Attached() {
		s.castResult = nil
		logger.Debug("segment source missing")
		return nil
	}

	pose := s.pose(p)
	pos := pose.Position

	if !s.hasLastPosition {
		s.begin(pose)
		return nil
	}

	displacement := rl.Vector3Subtract(pos, s.lastPosition)
	dist := rl.Vector3Length(displacement)
	switch {
	case dist > 0:
		s.lastDirection = rl.Vector3Scale(displacement, 1/dist)
		s.hasDirection = true
	case s.hasDirection:
		displacement = s.lastDirection
	default:
		// Not moved since activation: nothing to sweep.
		s.castResult = nil
		return nil
	}

	from := engine.Pose{Position: s.lastPosition, Rotation: pose.Rotation}
	var (
		hit physics.RaycastHit
		ok  bool
		err error
	)
	cd := s.castData
	switch cd.Shape {
	case Raycast:
		hit, ok, err = c.Raycast(s.lastPosition, displacement, q)
	case Spherecast:
		hit, ok, err = c.Spherecast(s.lastPosition, cd.Radius, displacement, q)
	case Blockcast:
		if cd.hasLastPose {
			from = cd.lastPose
		}
		hit, ok, err = c.Blockcast(from, cd.Size, displacement, q)
	}

	s.probe = Probe{Shape: cd.Shape, From: from, Displacement: displacement, Size: cd.Size, Radius: cd.Radius}
	s.hasProbe = true
	s.lastPosition = pos
	s.castData.lastPose = pose
	s.castData.hasLastPose = true

	if err != nil {
		s.castResult = nil
		logger.Debug("cast failed", slog.String("shape", cd.Shape.String()), slog.Any("err", err))
		return nil
	}
	if !ok {
		s.castResult = nil
		return nil
	}

	s.castResult = &hit
	if seen != nil && seen(hit.GameObject) {
		return nil
	}
	return &hit
}
