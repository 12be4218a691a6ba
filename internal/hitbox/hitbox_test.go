package hitbox

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"shapecast/internal/components"
	"shapecast/internal/engine"
	"shapecast/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/require"
)

const dt = float32(1.0 / 60)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newWall(name string, pos, size rl.Vector3) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.Transform.Position = pos
	g.AddComponent(components.NewBoxCollider(size))
	return g
}

// thinWall has its near face at z.
func thinWall(z float32) *engine.GameObject {
	return newWall("Wall", rl.Vector3{Z: z + 0.1}, rl.Vector3{X: 4, Y: 4, Z: 0.2})
}

type rig struct {
	hb    *engine.Heartbeat
	world *physics.World
	sword *engine.GameObject
	point *components.DmgPoint
	h     *Hitbox
}

func newRig(t *testing.T, opts ...Option) *rig {
	t.Helper()
	r := &rig{
		hb:    engine.NewHeartbeat(),
		world: physics.NewWorld(),
		sword: engine.NewGameObject("Sword"),
		point: components.NewDmgPoint(rl.Vector3{}),
	}
	r.sword.AddComponent(r.point)
	r.h = r.build(t, r.world, opts...)
	return r
}

func (r *rig) build(t *testing.T, c Caster, opts ...Option) *Hitbox {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	h, err := New(r.sword, c, r.hb, opts...)
	require.NoError(t, err)
	return h
}

// moveTo places the sword and runs one tick.
func (r *rig) moveTo(pos rl.Vector3) {
	r.sword.Transform.Position = pos
	r.hb.Step(dt)
}

func (r *rig) steps(n int) {
	for range n {
		r.hb.Step(dt)
	}
}

type hitLog struct {
	hits []physics.RaycastHit
	segs []*Segment
}

func (l *hitLog) record(hit physics.RaycastHit, seg *Segment) {
	l.hits = append(l.hits, hit)
	l.segs = append(l.segs, seg)
}

// countingCaster counts every cast that reaches the provider.
type countingCaster struct {
	Caster
	casts int
}

func (c *countingCaster) Raycast(origin, displacement rl.Vector3, q physics.Query) (physics.RaycastHit, bool, error) {
	c.casts++
	return c.Caster.Raycast(origin, displacement, q)
}

// flakyCaster fails every raycast that starts left of x=0.
type flakyCaster struct {
	Caster
}

func (c flakyCaster) Raycast(origin, displacement rl.Vector3, q physics.Query) (physics.RaycastHit, bool, error) {
	if origin.X < 0 {
		return physics.RaycastHit{}, false, errors.New("part missing")
	}
	return c.Caster.Raycast(origin, displacement, q)
}

func TestNewValidatesArguments(t *testing.T) {
	world := physics.NewWorld()
	hb := engine.NewHeartbeat()
	obj := engine.NewGameObject("Obj")

	_, err := New(nil, world, hb)
	require.ErrorIs(t, err, ErrNilInstance)

	_, err = New(obj, nil, hb)
	require.ErrorIs(t, err, ErrNilCaster)

	_, err = New(obj, world, nil)
	require.ErrorIs(t, err, ErrNilTickSource)

	_, err = New(obj, world, hb, WithCastData(NewSpherecast(0)))
	require.ErrorIs(t, err, ErrInvalidCastData)

	_, err = New(obj, world, hb, WithResolution(0))
	require.ErrorIs(t, err, ErrInvalidResolution)
}

func TestNewFallsBackToSceneHeartbeat(t *testing.T) {
	scene := engine.NewScene("Arena")
	obj := engine.NewGameObject("Obj")
	scene.AddGameObject(obj)

	h, err := New(obj, physics.NewWorld(), nil, WithLogger(quietLogger()))
	require.NoError(t, err)

	h.HitStart()
	require.Equal(t, 1, scene.Heartbeat.Len())
	h.HitStop()
	require.Equal(t, 0, scene.Heartbeat.Len())
}

func TestZeroPointsIsLegal(t *testing.T) {
	hb := engine.NewHeartbeat()
	h, err := New(engine.NewGameObject("Empty"), physics.NewWorld(), hb, WithLogger(quietLogger()))
	require.NoError(t, err)
	require.Empty(t, h.GetAllSegments())

	updates := 0
	h.OnUpdate(func(float32) { updates++ })
	h.HitStart()
	hb.Step(dt)

	require.True(t, h.Active())
	require.Equal(t, 1, updates)
	require.NoError(t, h.Err())
}

func TestAccumulatedDistanceSumsDisplacements(t *testing.T) {
	r := newRig(t)
	r.h.HitStart()

	r.moveTo(rl.Vector3{})
	r.moveTo(rl.Vector3{X: 1})
	r.moveTo(rl.Vector3{X: 3})
	r.moveTo(rl.Vector3{X: 2.5})
	r.moveTo(rl.Vector3{X: 2.5, Y: 2})

	seg := r.h.GetSegment(r.point)
	require.NotNil(t, seg)
	require.InDelta(t, 1+2+0.5+2, seg.AccumulatedDistance(), 1e-4)
}

func TestNoHitOnFirstTickAfterStart(t *testing.T) {
	r := newRig(t)
	r.world.AddObject(thinWall(5))
	var log hitLog
	r.h.OnHit(log.record)

	r.h.HitStart()
	r.moveTo(rl.Vector3{Z: 10})
	require.Empty(t, log.hits)
	_, ok := r.h.GetSegment(r.point).CastResult()
	require.False(t, ok)

	r.moveTo(rl.Vector3{})
	require.Len(t, log.hits, 1)
}

func TestRaycastAcrossThinObstacle(t *testing.T) {
	r := newRig(t)
	wall := thinWall(5)
	r.world.AddObject(wall)
	var log hitLog
	r.h.OnHit(log.record)

	r.h.HitStart()
	r.moveTo(rl.Vector3{})
	r.moveTo(rl.Vector3{Z: 10})

	require.Len(t, log.hits, 1)
	hit := log.hits[0]
	require.Same(t, wall, hit.GameObject)
	require.InDelta(t, 5, hit.Distance, 1e-3)
	require.InDelta(t, 5, hit.Point.Z, 1e-3)

	seg := log.segs[0]
	require.Same(t, r.h.GetSegment(r.point), seg)
	result, ok := seg.CastResult()
	require.True(t, ok)
	require.Equal(t, hit, result)

	dir, ok := seg.LastDirection()
	require.True(t, ok)
	require.InDelta(t, 1, dir.Z, 1e-6)
}

func TestFilterHitPartsSuppressesRepeats(t *testing.T) {
	swing := func(filter bool) int {
		r := newRig(t, WithFilterHitParts(filter))
		r.world.AddObject(thinWall(5))
		hits := 0
		r.h.OnHit(func(physics.RaycastHit, *Segment) { hits++ })

		r.h.HitStart()
		for i := range 10 {
			z := float32(0)
			if i%2 == 1 {
				z = 10
			}
			r.moveTo(rl.Vector3{Z: z})
		}
		return hits
	}

	require.Equal(t, 1, swing(true))
	require.Equal(t, 9, swing(false))
}

func TestFilterToggleTakesEffectMidWindow(t *testing.T) {
	r := newRig(t)
	r.world.AddObject(thinWall(5))
	hits := 0
	r.h.OnHit(func(physics.RaycastHit, *Segment) { hits++ })

	r.h.HitStart()
	r.moveTo(rl.Vector3{})
	r.moveTo(rl.Vector3{Z: 10})
	require.Equal(t, 1, hits)

	r.h.FilterHitParts = true
	r.moveTo(rl.Vector3{})
	r.moveTo(rl.Vector3{Z: 10})
	require.Equal(t, 1, hits)
}

func TestFirstRegisteredSegmentWinsWithinPass(t *testing.T) {
	for _, filter := range []bool{true, false} {
		r := newRig(t, WithFilterHitParts(filter))
		second := components.NewDmgPoint(rl.Vector3{X: 1})
		r.sword.AddComponent(second)
		r.h.Reconcile()
		r.world.AddObject(thinWall(5))

		var log hitLog
		r.h.OnHit(log.record)
		r.h.HitStart()
		r.moveTo(rl.Vector3{})
		r.moveTo(rl.Vector3{Z: 10})

		if filter {
			require.Len(t, log.segs, 1)
			require.Same(t, r.h.GetSegment(r.point), log.segs[0])
		} else {
			require.Len(t, log.segs, 2)
			require.Same(t, r.h.GetSegment(r.point), log.segs[0])
			require.Same(t, r.h.GetSegment(second), log.segs[1])
		}
	}
}

func TestResolutionThrottlesPassesNotUpdates(t *testing.T) {
	r := newRig(t)
	counter := &countingCaster{Caster: r.world}
	h := r.build(t, counter, WithResolution(30))
	r.h.Destroy()

	updates := 0
	h.OnUpdate(func(float32) { updates++ })
	h.HitStart()
	for i := range 60 {
		r.moveTo(rl.Vector3{X: float32(i)})
	}

	require.Equal(t, 60, updates)
	// The start is recorded on the first tick, so all 30 passes sweep.
	require.Equal(t, 30, counter.casts)
	require.InDelta(t, 59, h.GetSegment(r.point).AccumulatedDistance(), 1e-3)
}

func TestThrottledFirstPassSweepsFromActivation(t *testing.T) {
	r := newRig(t)
	h := r.build(t, r.world, WithResolution(30))
	r.h.Destroy()
	r.world.AddObject(thinWall(0.5))

	var log hitLog
	h.OnHit(log.record)
	h.HitStart()
	r.moveTo(rl.Vector3{})
	r.moveTo(rl.Vector3{Z: 1})

	require.Len(t, log.hits, 1)
	require.InDelta(t, 0.5, log.hits[0].Distance, 1e-3)
}

func TestThrottledDistanceFollowsCurvedPath(t *testing.T) {
	r := newRig(t)
	h := r.build(t, r.world, WithResolution(30))
	r.h.Destroy()

	h.HitStart()
	for _, p := range []rl.Vector3{{}, {X: 1}, {X: 1, Z: 1}, {Z: 1}, {}} {
		r.moveTo(p)
	}
	require.InDelta(t, 4, h.GetSegment(r.point).AccumulatedDistance(), 1e-4)
}

func TestResolutionKeepsLeftoverTime(t *testing.T) {
	r := newRig(t)
	counter := &countingCaster{Caster: r.world}
	h := r.build(t, counter, WithResolution(45))
	r.h.Destroy()

	h.HitStart()
	for i := range 60 {
		r.moveTo(rl.Vector3{X: float32(i)})
	}
	require.Equal(t, 45, counter.casts)
}

func TestResolutionAboveFrameRateCastsEveryTick(t *testing.T) {
	r := newRig(t)
	counter := &countingCaster{Caster: r.world}
	h := r.build(t, counter, WithResolution(240))
	r.h.Destroy()

	h.HitStart()
	for i := range 10 {
		r.moveTo(rl.Vector3{X: float32(i)})
	}
	require.Equal(t, 9, counter.casts)
}

func TestStopThenStartResetsSegments(t *testing.T) {
	r := newRig(t)
	r.world.AddObject(thinWall(5))
	r.h.HitStart()
	r.moveTo(rl.Vector3{})
	r.moveTo(rl.Vector3{Z: 10})

	seg := r.h.GetSegment(r.point)
	_, ok := seg.CastResult()
	require.True(t, ok)
	require.Positive(t, seg.AccumulatedDistance())

	r.h.HitStop().HitStart()

	_, ok = seg.CastResult()
	require.False(t, ok)
	require.Zero(t, seg.AccumulatedDistance())
	_, ok = seg.Position()
	require.False(t, ok)
	_, ok = seg.LastDirection()
	require.False(t, ok)
}

func TestStationaryProbeCastsAlongLastDirection(t *testing.T) {
	r := newRig(t)
	r.world.AddObject(thinWall(3.5))
	var log hitLog
	r.h.OnHit(log.record)

	r.h.HitStart()
	r.moveTo(rl.Vector3{})
	r.moveTo(rl.Vector3{Z: 3})
	require.Empty(t, log.hits)

	r.moveTo(rl.Vector3{Z: 3})
	require.Len(t, log.hits, 1)
	require.InDelta(t, 0.5, log.hits[0].Distance, 1e-3)
	require.InDelta(t, 3, log.segs[0].AccumulatedDistance(), 1e-4)
}

func TestNeverMovedIssuesNoCast(t *testing.T) {
	r := newRig(t)
	counter := &countingCaster{Caster: r.world}
	h := r.build(t, counter)
	r.h.Destroy()

	h.HitStart()
	r.steps(5)
	require.Zero(t, counter.casts)
}

func TestDestroyInsideOnHit(t *testing.T) {
	r := newRig(t)
	r.sword.AddComponent(components.NewDmgPoint(rl.Vector3{X: 1}))
	r.h.Reconcile()
	r.world.AddObject(thinWall(5))

	hits, updates, stops := 0, 0, 0
	r.h.OnUpdate(func(float32) { updates++ })
	r.h.OnHit(func(physics.RaycastHit, *Segment) {
		hits++
		r.h.Destroy()
	})
	r.h.OnHit(func(physics.RaycastHit, *Segment) { hits++ })
	r.h.OnStopped(func(*StopEvent) { stops++ })

	r.h.HitStart()
	r.moveTo(rl.Vector3{})
	require.NotPanics(t, func() { r.moveTo(rl.Vector3{Z: 10}) })

	require.Equal(t, 1, hits)
	require.Equal(t, 2, updates)
	require.Zero(t, stops)
	require.True(t, r.h.Destroyed())
	require.Equal(t, 0, r.hb.Len())

	r.moveTo(rl.Vector3{})
	r.moveTo(rl.Vector3{Z: 10})
	require.Equal(t, 1, hits)
	require.Equal(t, 2, updates)
	require.Empty(t, r.h.GetAllSegments())
}

func TestHitStopInsideOnUpdateStopsDispatch(t *testing.T) {
	r := newRig(t)
	r.world.AddObject(thinWall(5))
	hits := 0
	r.h.OnUpdate(func(float32) {
		if r.sword.Transform.Position.Z > 0 {
			r.h.HitStop()
		}
	})
	r.h.OnHit(func(physics.RaycastHit, *Segment) { hits++ })

	r.h.HitStart()
	r.moveTo(rl.Vector3{})
	r.moveTo(rl.Vector3{Z: 10})

	require.Zero(t, hits)
	require.False(t, r.h.Active())
}

func TestRestartInsideOnUpdateDropsOldWindowHits(t *testing.T) {
	r := newRig(t)
	r.world.AddObject(thinWall(5))
	var log hitLog
	restarted := false
	r.h.OnUpdate(func(float32) {
		if !restarted && r.sword.Transform.Position.Z > 0 {
			restarted = true
			r.h.HitStop().HitStart()
		}
	})
	r.h.OnHit(log.record)

	r.h.HitStart()
	r.moveTo(rl.Vector3{})
	r.moveTo(rl.Vector3{Z: 10})

	require.True(t, restarted)
	require.Empty(t, log.hits)
	require.True(t, r.h.Active())
	_, ok := r.h.GetSegment(r.point).CastResult()
	require.False(t, ok)

	// The new window starts from Z 10 and hits the wall on the way back.
	r.moveTo(rl.Vector3{Z: 10})
	r.moveTo(rl.Vector3{})
	require.Len(t, log.hits, 1)
}

func TestDestroyedUsageIsReported(t *testing.T) {
	r := newRig(t)
	r.h.HitStop().HitStop()
	require.NoError(t, r.h.Err())

	r.h.Destroy()
	r.h.HitStart()
	require.ErrorIs(t, r.h.Err(), ErrDestroyed)
	require.False(t, r.h.Active())

	r.h.SetResolution(10)
	require.ErrorIs(t, r.h.Err(), ErrDestroyed)

	r.h.err = nil
	require.Nil(t, r.h.GetSegment(r.point))
	require.ErrorIs(t, r.h.Err(), ErrDestroyed)

	r.h.err = nil
	require.Nil(t, r.h.GetAllSegments())
	require.ErrorIs(t, r.h.Err(), ErrDestroyed)
}

func TestReconcileWhileActive(t *testing.T) {
	r := newRig(t)
	r.h.HitStart()
	r.moveTo(rl.Vector3{})
	r.moveTo(rl.Vector3{X: 2})

	seg := r.h.GetSegment(r.point)
	before := seg.AccumulatedDistance()
	require.InDelta(t, 2, before, 1e-4)

	guard := engine.NewGameObject("Guard")
	r.sword.AddChild(guard)
	added := components.NewDmgPoint(rl.Vector3{})
	guard.AddComponent(added)
	r.h.Reconcile()

	require.Len(t, r.h.GetAllSegments(), 2)
	require.Same(t, seg, r.h.GetSegment(r.point))
	require.Equal(t, before, seg.AccumulatedDistance())
	require.Zero(t, r.h.GetSegment(added).AccumulatedDistance())
	require.True(t, r.h.Active())
}

func TestReconcileDropsVanishedPoints(t *testing.T) {
	r := newRig(t)
	tip := engine.NewGameObject("Tip")
	r.sword.AddChild(tip)
	tipPoint := components.NewDmgPoint(rl.Vector3{})
	tip.AddComponent(tipPoint)

	outside := engine.NewGameObject("Shield")
	manual := components.NewDmgPoint(rl.Vector3{})
	outside.AddComponent(manual)

	r.h.Reconcile().AddSegment(manual)
	require.Len(t, r.h.GetAllSegments(), 3)

	tip.Destroy()
	r.h.Reconcile()
	require.Len(t, r.h.GetAllSegments(), 2)
	require.Nil(t, r.h.GetSegment(tipPoint))
	require.NotNil(t, r.h.GetSegment(manual))
	require.True(t, r.h.GetSegment(manual).Manual())

	outside.Destroy()
	r.h.Reconcile()
	require.Len(t, r.h.GetAllSegments(), 1)
}

func TestRemoveSegmentDuringWindow(t *testing.T) {
	r := newRig(t)
	r.world.AddObject(thinWall(5))
	hits := 0
	r.h.OnHit(func(physics.RaycastHit, *Segment) { hits++ })

	r.h.HitStart()
	r.moveTo(rl.Vector3{})
	r.h.RemoveSegment(r.point)
	r.moveTo(rl.Vector3{Z: 10})

	require.Zero(t, hits)
	require.Nil(t, r.h.GetSegment(r.point))
}

func TestTimerStopsHitbox(t *testing.T) {
	r := newRig(t)
	stops := 0
	r.h.OnStopped(func(ev *StopEvent) {
		stops++
		require.False(t, ev.Clearing())
	})

	r.h.HitStart(WithTimer(0.1))
	r.steps(3)
	require.True(t, r.h.Active())

	r.steps(10)
	require.False(t, r.h.Active())
	require.Equal(t, 1, stops)
	require.Equal(t, 0, r.hb.Len())
}

func TestHitStopCancelsTimer(t *testing.T) {
	r := newRig(t)
	stops := 0
	r.h.OnStopped(func(*StopEvent) { stops++ })

	r.h.HitStart(WithTimer(0.1))
	r.steps(2)
	r.h.HitStop()
	r.h.HitStart()
	r.steps(20)

	require.True(t, r.h.Active())
	require.Equal(t, 1, stops)
}

func TestInvalidTimerRejected(t *testing.T) {
	r := newRig(t)
	r.h.HitStart(WithTimer(-1))
	require.ErrorIs(t, r.h.Err(), ErrInvalidTimer)
	require.False(t, r.h.Active())
}

func TestBeforeStartRunsBeforeActivation(t *testing.T) {
	r := newRig(t)
	var order []string
	r.h.BeforeStart(func() {
		require.False(t, r.h.Active())
		order = append(order, "first")
		r.h.HitStart()
	})
	r.h.BeforeStart(func() { order = append(order, "second") })

	r.h.HitStart()
	r.h.HitStart()

	require.Equal(t, []string{"first", "second"}, order)
	require.True(t, r.h.Active())
	require.Equal(t, 1, r.hb.Len())
}

func TestOnStoppedClearRequest(t *testing.T) {
	r := newRig(t)
	starts := 0
	sawClearing := false
	r.h.BeforeStart(func() { starts++ })
	r.h.OnStopped(func(ev *StopEvent) { ev.Clear() })
	r.h.OnStopped(func(ev *StopEvent) { sawClearing = ev.Clearing() })

	r.h.HitStart().HitStop()
	require.True(t, sawClearing)

	r.h.HitStart().HitStop()
	require.Equal(t, 1, starts)
}

func TestHitStopWithClearCallbacks(t *testing.T) {
	r := newRig(t)
	stops := 0
	r.h.OnStopped(func(*StopEvent) { stops++ })

	r.h.HitStart().HitStop(WithClearCallbacks())
	r.h.HitStart().HitStop()
	require.Equal(t, 1, stops)
}

func TestCallbackPanicIsIsolated(t *testing.T) {
	r := newRig(t)
	r.world.AddObject(thinWall(5))
	updates, hits := 0, 0
	r.h.OnUpdate(func(float32) { panic("update") })
	r.h.OnUpdate(func(float32) { updates++ })
	r.h.OnHit(func(physics.RaycastHit, *Segment) { panic("hit") })
	r.h.OnHit(func(physics.RaycastHit, *Segment) { hits++ })

	r.h.HitStart()
	require.NotPanics(t, func() {
		r.moveTo(rl.Vector3{})
		r.moveTo(rl.Vector3{Z: 10})
	})
	require.Equal(t, 2, updates)
	require.Equal(t, 1, hits)
}

func TestCasterErrorIsNoHitForThatSegment(t *testing.T) {
	r := newRig(t)
	r.point.Offset = rl.Vector3{X: -1}
	r.sword.AddComponent(components.NewDmgPoint(rl.Vector3{X: 1}))
	h := r.build(t, flakyCaster{Caster: r.world})
	r.h.Destroy()
	r.world.AddObject(thinWall(5))

	var log hitLog
	h.OnHit(log.record)
	h.HitStart()
	r.moveTo(rl.Vector3{})
	r.moveTo(rl.Vector3{Z: 10})

	require.Len(t, log.hits, 1)
	require.Equal(t, float32(1), log.hits[0].Point.X)
	_, ok := h.GetSegment(r.point).CastResult()
	require.False(t, ok)
	require.NoError(t, h.Err())
}

func TestHitboxIgnoresItsOwnColliders(t *testing.T) {
	r := newRig(t)
	guard := newWall("Guard", rl.Vector3{Z: 5.1}, rl.Vector3{X: 4, Y: 4, Z: 0.2})
	r.sword.AddChild(guard)
	r.world.AddTree(r.sword)
	hits := 0
	r.h.OnHit(func(physics.RaycastHit, *Segment) { hits++ })

	_, ok, err := r.world.Raycast(rl.Vector3{}, rl.Vector3{Z: 10}, physics.Query{})
	require.NoError(t, err)
	require.True(t, ok)

	r.h.HitStart()
	r.hb.Step(dt)
	r.point.Offset = rl.Vector3{Z: 10}
	r.hb.Step(dt)
	require.Zero(t, hits)
}

func TestWindowParamsOverrideDefault(t *testing.T) {
	r := newRig(t)
	near := newWall("Near", rl.Vector3{Z: 3.1}, rl.Vector3{X: 4, Y: 4, Z: 0.2})
	far := thinWall(6)
	r.world.AddObject(near)
	r.world.AddObject(far)
	var log hitLog
	r.h.OnHit(log.record)

	r.h.HitStart(WithParams(physics.NewQueryParams(near)))
	r.moveTo(rl.Vector3{})
	r.moveTo(rl.Vector3{Z: 10})
	r.h.HitStop()

	r.h.HitStart()
	r.moveTo(rl.Vector3{})
	r.moveTo(rl.Vector3{Z: 10})

	require.Len(t, log.hits, 2)
	require.Same(t, far, log.hits[0].GameObject)
	require.Same(t, near, log.hits[1].GameObject)
}

func TestDefaultQueryParams(t *testing.T) {
	ignored := thinWall(5)
	r := newRig(t, WithQueryParams(physics.NewQueryParams(ignored)))
	r.world.AddObject(ignored)
	hits := 0
	r.h.OnHit(func(physics.RaycastHit, *Segment) { hits++ })

	r.h.HitStart()
	r.moveTo(rl.Vector3{})
	r.moveTo(rl.Vector3{Z: 10})
	require.Zero(t, hits)
	require.Len(t, r.h.Params().Filter, 1)
}

func TestSetResolutionRejectsNonPositive(t *testing.T) {
	r := newRig(t)
	r.h.SetResolution(-5)
	require.ErrorIs(t, r.h.Err(), ErrInvalidResolution)
	require.Equal(t, float64(DefaultResolution), r.h.Resolution())

	r.h.SetResolution(20)
	require.Equal(t, float64(20), r.h.Resolution())
}
