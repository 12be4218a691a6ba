package hitbox

import (
	"fmt"
	"log/slog"
	"slices"

	"shapecast/internal/engine"
	"shapecast/internal/physics"
)

// DefaultResolution is the casting pass ceiling per second.
const DefaultResolution = 60

type State int

const (
	Inactive State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "Active"
	}
	return "Inactive"
}

// HitEvent is delivered to OnHit listeners, one per segment hit.
type HitEvent struct {
	Hit     physics.RaycastHit
	Segment *Segment
}

// StopEvent is delivered to OnStopped listeners.
type StopEvent struct {
	clear bool
}

// Clear asks for every callback list to be emptied once all onStopped
// listeners have run.
func (e *StopEvent) Clear() {
	e.clear = true
}

// Clearing reports whether the callback lists will be emptied.
func (e *StopEvent) Clearing() bool {
	return e.clear
}

// Hitbox sweeps probes from every emission point under an object each tick
// while active and reports what they hit.
type Hitbox struct {
	// FilterHitParts drops hits on objects already hit in the current window.
	FilterHitParts bool
	// Attributes carries user data; the hitbox never reads it.
	Attributes map[string]any

	instance *engine.GameObject
	caster   Caster
	ticks    engine.TickSource
	conn     *engine.Connection
	logger   *slog.Logger

	state     State
	window    uint64
	destroyed bool
	starting  bool
	err       error

	resolution float64
	elapsed    float64
	castData   CastData

	params       *physics.QueryParams
	windowParams *physics.QueryParams

	timer      engine.Timer
	timerArmed bool

	hitSet   map[*engine.GameObject]struct{}
	segments map[pointKey]*Segment
	order    []*Segment

	beforeStart engine.Event
	onUpdate    engine.EventWithArg[float32]
	onHit       engine.EventWithArg[HitEvent]
	onStopped   engine.EventWithArg[*StopEvent]
}

// New binds a hitbox to instance and runs the first Reconcile. When ticks is
// nil the instance's scene heartbeat is used.
func New(instance *engine.GameObject, caster Caster, ticks engine.TickSource, opts ...Option) (*Hitbox, error) {
	if instance == nil {
		return nil, ErrNilInstance
	}
	if caster == nil {
		return nil, ErrNilCaster
	}
	if ticks == nil {
		if instance.Scene == nil || instance.Scene.Heartbeat == nil {
			return nil, ErrNilTickSource
		}
		ticks = instance.Scene.Heartbeat
	}

	h := &Hitbox{
		Attributes: make(map[string]any),
		instance:   instance,
		caster:     caster,
		ticks:      ticks,
		resolution: DefaultResolution,
		castData:   DefaultCastData(),
		hitSet:     make(map[*engine.GameObject]struct{}),
		segments:   make(map[pointKey]*Segment),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, fmt.Errorf("new hitbox on %q: %w", instance.Name, err)
		}
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	h.logger = h.logger.With(slog.String("hitbox", instance.Name))

	h.beforeStart.Name = "BeforeStart"
	h.onUpdate.Name = "OnUpdate"
	h.onHit.Name = "OnHit"
	h.onStopped.Name = "OnStopped"
	h.beforeStart.OnPanic = h.callbackPanicked
	h.onUpdate.OnPanic = h.callbackPanicked
	h.onHit.OnPanic = h.callbackPanicked
	h.onStopped.OnPanic = h.callbackPanicked

	h.Reconcile()
	return h, nil
}

func (h *Hitbox) callbackPanicked(event string, recovered any) {
	h.logger.Error("callback panicked", slog.String("event", event), slog.Any("panic", recovered))
}

// fail records err as the sticky error.
func (h *Hitbox) fail(op string, err error) {
	h.err = fmt.Errorf("%s: %w", op, err)
	h.logger.Warn("hitbox call rejected", slog.String("op", op), slog.Any("err", err))
}

func (h *Hitbox) checkDestroyed(op string) bool {
	if !h.destroyed {
		return false
	}
	h.fail(op, ErrDestroyed)
	return true
}

func (h *Hitbox) alive() bool {
	return h.state == Active && !h.destroyed
}

func (h *Hitbox) notDestroyed() bool {
	return !h.destroyed
}

// HitStart opens an activation window. It is a no-op while already active.
func (h *Hitbox) HitStart(opts ...StartOption) *Hitbox {
	if h.checkDestroyed("HitStart") {
		return h
	}
	if h.state == Active || h.starting {
		return h
	}

	var cfg startConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.timer < 0 || !finite(float32(cfg.timer)) {
		h.fail("HitStart", fmt.Errorf("%w: %v seconds", ErrInvalidTimer, cfg.timer))
		return h
	}

	h.starting = true
	h.beforeStart.InvokeWhile(h.notDestroyed)
	h.starting = false
	if h.destroyed {
		return h
	}

	for _, seg := range h.order {
		seg.reset()
	}
	clear(h.hitSet)
	h.windowParams = cfg.params.Clone()
	h.elapsed = 0

	h.timerArmed = cfg.timer > 0
	if h.timerArmed {
		h.timer = engine.NewTimer(engine.SecondsToDuration(cfg.timer))
	}

	h.window++
	h.state = Active
	h.conn = h.ticks.Connect(h.tick)
	h.logger.Debug("hit start", slog.Int("segments", len(h.order)), slog.Float64("timer", cfg.timer))
	return h
}

// HitStop closes the activation window. It is a no-op while inactive.
func (h *Hitbox) HitStop(opts ...StopOption) *Hitbox {
	if h.checkDestroyed("HitStop") {
		return h
	}
	if h.state != Active {
		return h
	}

	var cfg stopConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	h.timerArmed = false
	h.conn.Disconnect()
	h.conn = nil
	h.state = Inactive
	h.windowParams = nil

	ev := &StopEvent{clear: cfg.clearCallbacks}
	h.onStopped.InvokeWhile(ev, h.notDestroyed)
	if h.destroyed {
		return h
	}
	if ev.clear {
		h.clearCallbacks()
	}
	h.logger.Debug("hit stop", slog.Bool("cleared", ev.clear))
	return h
}

// Destroy stops the hitbox for good without firing onStopped and drops all
// segments and callbacks. Later calls are rejected with ErrDestroyed.
func (h *Hitbox) Destroy() {
	if h.checkDestroyed("Destroy") {
		return
	}
	h.destroyed = true
	h.state = Inactive
	h.timerArmed = false
	h.conn.Disconnect()
	h.conn = nil
	h.ticks = nil

	for _, seg := range h.order {
		seg.owner = nil
	}
	clear(h.segments)
	h.order = nil
	h.hitSet = nil
	h.clearCallbacks()
	h.logger.Debug("destroyed")
}

func (h *Hitbox) clearCallbacks() {
	h.beforeStart.RemoveAllListeners()
	h.onUpdate.RemoveAllListeners()
	h.onHit.RemoveAllListeners()
	h.onStopped.RemoveAllListeners()
}

// SetResolution changes the casting pass ceiling from the next tick on.
func (h *Hitbox) SetResolution(perSecond float64) *Hitbox {
	if h.checkDestroyed("SetResolution") {
		return h
	}
	if err := checkResolution(perSecond); err != nil {
		h.fail("SetResolution", err)
		return h
	}
	h.resolution = perSecond
	return h
}

// SetCastData changes the default cast data. Segments with their own
// override keep it.
func (h *Hitbox) SetCastData(cd CastData) *Hitbox {
	if h.checkDestroyed("SetCastData") {
		return h
	}
	if err := cd.Validate(); err != nil {
		h.fail("SetCastData", err)
		return h
	}
	h.castData = cd.withoutHistory()
	for _, seg := range h.order {
		seg.applyDefault(h.castData)
	}
	return h
}

func (h *Hitbox) BeforeStart(fn func()) *Hitbox {
	if !h.checkDestroyed("BeforeStart") {
		h.beforeStart.AddListener(fn)
	}
	return h
}

// OnUpdate listeners run every tick while active, with the raw frame delta.
func (h *Hitbox) OnUpdate(fn func(deltaTime float32)) *Hitbox {
	if !h.checkDestroyed("OnUpdate") {
		h.onUpdate.AddListener(fn)
	}
	return h
}

// OnHit listeners run once per segment hit, in segment registration order.
func (h *Hitbox) OnHit(fn func(hit physics.RaycastHit, seg *Segment)) *Hitbox {
	if h.checkDestroyed("OnHit") || fn == nil {
		return h
	}
	h.onHit.AddListener(func(ev HitEvent) { fn(ev.Hit, ev.Segment) })
	return h
}

func (h *Hitbox) OnStopped(fn func(ev *StopEvent)) *Hitbox {
	if !h.checkDestroyed("OnStopped") {
		h.onStopped.AddListener(fn)
	}
	return h
}

func (h *Hitbox) State() State {
	return h.state
}

func (h *Hitbox) Active() bool {
	return h.state == Active
}

func (h *Hitbox) Destroyed() bool {
	return h.destroyed
}

func (h *Hitbox) Instance() *engine.GameObject {
	return h.instance
}

func (h *Hitbox) Resolution() float64 {
	return h.resolution
}

// CastData returns the default cast data.
func (h *Hitbox) CastData() CastData {
	return h.castData
}

// Params returns the default query params.
func (h *Hitbox) Params() *physics.QueryParams {
	return h.params
}

// Err returns the last rejected call, if any.
func (h *Hitbox) Err() error {
	return h.err
}

func (h *Hitbox) query() physics.Query {
	params := h.params
	if h.windowParams != nil {
		params = h.windowParams
	}
	inst := h.instance
	return physics.Query{
		Params:  params,
		Exclude: func(obj *engine.GameObject) bool { return obj.IsDescendantOf(inst) },
	}
}

func (h *Hitbox) seen(obj *engine.GameObject) bool {
	if !h.FilterHitParts {
		return false
	}
	_, ok := h.hitSet[obj]
	return ok
}

// tick runs once per heartbeat step while active: timer, throttle, casting
// pass, onUpdate, then onHit.
func (h *Hitbox) tick(deltaTime float32) {
	if !h.alive() {
		return
	}

	if h.timerArmed {
		h.timer.Tick(engine.SecondsToDuration(float64(deltaTime)))
		if h.timer.Finished() {
			h.HitStop()
			return
		}
	}

	for _, seg := range slices.Clone(h.order) {
		seg.sample()
	}

	var hits []HitEvent
	h.elapsed += float64(deltaTime)
	interval := max(1/h.resolution, float64(deltaTime))
	if h.elapsed+1e-6 >= interval {
		h.elapsed -= interval
		hits = h.castPass()
	}

	// A restart from a callback opens a new window; this tick's results
	// belong to the old one.
	window := h.window
	live := func() bool { return h.alive() && h.window == window }

	h.onUpdate.InvokeWhile(deltaTime, live)

	for _, ev := range hits {
		if !live() {
			return
		}
		if !h.registered(ev.Segment) {
			continue
		}
		h.onHit.InvokeWhile(ev, live)
	}
}

func (h *Hitbox) castPass() []HitEvent {
	q := h.query()
	var hits []HitEvent
	for _, seg := range slices.Clone(h.order) {
		hit := seg.update(h.caster, q, h.seen, h.logger)
		if hit == nil {
			continue
		}
		h.hitSet[hit.GameObject] = struct{}{}
		hits = append(hits, HitEvent{Hit: *hit, Segment: seg})
	}
	return hits
}
