package main

import (
	"fmt"
	"log"
	"log/slog"
	"time"

	"shapecast/internal/assets"
	"shapecast/internal/components"
	"shapecast/internal/config"
	"shapecast/internal/debug"
	"shapecast/internal/hitbox"
	"shapecast/internal/physics"
	"shapecast/internal/planar"
	"shapecast/internal/world"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// adornmentLife is how long a probe stays drawn after its segment stops casting.
const adornmentLife = 2 * time.Second

type Options struct {
	Scene     string
	Hitbox    string
	Materials string
	Caster    string
}

type Demo struct {
	World    *world.World
	Hitbox   *hitbox.Hitbox
	renderer *world.Renderer
	watcher  *config.Watcher
	profile  *config.Profile
	space    *planar.Space

	// panel state
	resolution float32
	timer      float32
	updates    int
	lastHits   []string
	status     string
}

func NewDemo(opts Options) (*Demo, error) {
	w := world.New()
	if err := w.LoadScene(opts.Scene); err != nil {
		return nil, err
	}
	if palette, err := assets.LoadPalette(opts.Materials); err != nil {
		log.Printf("materials: %v (using fallback colors)", err)
	} else {
		w.Palette = palette
	}

	d := &Demo{
		World:    w,
		renderer: world.NewRenderer(w.Palette),
	}

	var caster hitbox.Caster = w.Physics
	switch opts.Caster {
	case "world":
	case "planar":
		d.space = planar.NewSpace()
		for _, g := range w.Scene.GameObjects {
			if g.Parent == nil {
				d.space.AddTree(g)
			}
		}
		d.space.Attach(w.Scene.Heartbeat)
		caster = d.space
	default:
		return nil, fmt.Errorf("unknown caster %q", opts.Caster)
	}

	sword := w.Scene.FindByName("Sword")
	if sword == nil {
		return nil, fmt.Errorf("scene %s has no Sword object", opts.Scene)
	}
	h, err := hitbox.New(sword, caster, nil, hitbox.WithLogger(slog.Default()))
	if err != nil {
		return nil, err
	}
	d.Hitbox = h

	p, err := config.Load(opts.Hitbox)
	if err != nil {
		return nil, err
	}
	if err := p.Apply(h, w.Scene); err != nil {
		return nil, err
	}
	d.profile = p
	d.resolution = float32(h.Resolution())

	if d.watcher, err = config.NewWatcher(opts.Hitbox); err != nil {
		log.Printf("hot reload disabled: %v", err)
	}

	h.OnHit(d.onHit)
	h.OnUpdate(func(float32) { d.updates++ })
	h.OnStopped(func(*hitbox.StopEvent) { d.status = "stopped" })
	debug.Attach(debug.Default(), h)

	w.Start()
	return d, nil
}

func (d *Demo) onHit(hit physics.RaycastHit, seg *hitbox.Segment) {
	name := hit.GameObject.Name
	if hit.Material != "" {
		name += " (" + hit.Material + ")"
	}
	d.lastHits = append(d.lastHits, name)
	if len(d.lastHits) > 8 {
		d.lastHits = d.lastHits[1:]
	}
	slog.Debug("hit", slog.String("object", hit.GameObject.Name), slog.Float64("distance", float64(hit.Distance)))
}

func (d *Demo) Run() {
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "Hitbox Demo")
	defer rl.CloseWindow()
	defer d.Close()

	rl.SetTargetFPS(120)
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)

	camera := rl.Camera3D{
		Position:   rl.Vector3{X: 10, Y: 8, Z: 10},
		Target:     rl.Vector3{},
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45.0,
		Projection: rl.CameraPerspective,
	}
	if c := components.FindCamera(d.World.Scene.GameObjects); c != nil {
		camera = c.GetRaylibCamera()
	}

	for !rl.WindowShouldClose() {
		d.pollReloads()
		d.World.Update(rl.GetFrameTime())
		debug.Default().Sweep(adornmentLife)

		if rl.IsMouseButtonDown(rl.MouseButtonRight) {
			rl.UpdateCamera(&camera, rl.CameraOrbital)
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

		rl.BeginMode3D(camera)
		rl.DrawGrid(40, 1)
		d.renderer.Draw(debug.RaylibRenderer{}, d.World.Scene.GameObjects)
		debug.Default().Draw(debug.RaylibRenderer{})
		rl.EndMode3D()

		d.DrawUI()
		rl.EndDrawing()
	}
}

// pollReloads applies profile edits on the frame thread.
func (d *Demo) pollReloads() {
	if d.watcher == nil {
		return
	}
	for {
		select {
		case r, ok := <-d.watcher.Reloads:
			if !ok {
				d.watcher = nil
				return
			}
			if err := r.Profile.Apply(d.Hitbox, d.World.Scene); err != nil {
				log.Printf("reload %s: %v", r.Path, err)
				continue
			}
			d.profile = r.Profile
			d.resolution = float32(d.Hitbox.Resolution())
			d.status = "reloaded " + r.Profile.Name
			log.Printf("reloaded %s", r.Path)
		case err := <-d.watcher.Errors:
			log.Printf("watch: %v", err)
			d.status = "profile error"
		default:
			return
		}
	}
}

func (d *Demo) DrawUI() {
	h := d.Hitbox
	rl.DrawFPS(10, 10)
	rl.DrawText("Right mouse to orbit", 10, 35, 16, rl.Gray)

	panel := rl.Rectangle{X: float32(rl.GetScreenWidth()) - 290, Y: 10, Width: 280, Height: 330}
	gui.Panel(panel, "Hitbox")
	x, y := panel.X+10, panel.Y+35

	label := "Start"
	if h.Active() {
		label = "Stop"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 26}, label) {
		if h.Active() {
			h.HitStop()
		} else {
			h.HitStart(hitbox.WithTimer(float64(d.timer)))
			d.status = "active"
		}
	}
	y += 36

	res := gui.Slider(rl.Rectangle{X: x + 70, Y: y, Width: 130, Height: 20}, "Resolution", fmt.Sprintf("%.0f", d.resolution), d.resolution, 1, 120)
	if res != d.resolution {
		d.resolution = res
		h.SetResolution(float64(res))
	}
	y += 28

	d.timer = gui.Slider(rl.Rectangle{X: x + 70, Y: y, Width: 130, Height: 20}, "Timer", fmt.Sprintf("%.1fs", d.timer), d.timer, 0, 5)
	y += 28

	h.FilterHitParts = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 20, Height: 20}, "Filter hit parts", h.FilterHitParts)
	y += 30

	rl.DrawText(fmt.Sprintf("State: %s  Segments: %d", h.State(), len(h.GetAllSegments())), int32(x), int32(y), 15, rl.RayWhite)
	y += 20
	rl.DrawText(fmt.Sprintf("Cast: %s  Updates: %d", h.CastData().Shape, d.updates), int32(x), int32(y), 15, rl.RayWhite)
	y += 20
	if d.status != "" {
		rl.DrawText(d.status, int32(x), int32(y), 15, rl.Yellow)
	}
	y += 24
	for _, name := range d.lastHits {
		rl.DrawText(name, int32(x), int32(y), 14, debug.HitColor)
		y += 16
	}
	if err := h.Err(); err != nil {
		rl.DrawText(err.Error(), 10, int32(rl.GetScreenHeight())-24, 16, rl.Red)
	}
}

func (d *Demo) Close() {
	if d.watcher != nil {
		d.watcher.Close()
	}
	if d.space != nil {
		d.space.Detach()
	}
	d.Hitbox.Destroy()
	d.World.Unload()
}
