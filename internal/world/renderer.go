package world

import (
	"shapecast/internal/assets"
	"shapecast/internal/components"
	"shapecast/internal/debug"
	"shapecast/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// PointRadius is the size of the marker drawn at each emission point.
const PointRadius = 0.05

// Renderer draws colliders tinted by material and marks emission points.
type Renderer struct {
	Palette    *assets.Palette
	ShowPoints bool
	PointColor rl.Color
}

func NewRenderer(palette *assets.Palette) *Renderer {
	if palette == nil {
		palette = assets.NewPalette()
	}
	return &Renderer{
		Palette:    palette,
		ShowPoints: true,
		PointColor: rl.Yellow,
	}
}

func hasCollider(g *engine.GameObject) bool {
	return engine.GetComponent[*components.BoxCollider](g) != nil ||
		engine.GetComponent[*components.SphereCollider](g) != nil
}

// Draw renders every active, live object. Call inside BeginMode3D when out
// is a debug.RaylibRenderer.
func (r *Renderer) Draw(out debug.Renderer, gameObjects []*engine.GameObject) {
	for _, g := range gameObjects {
		if g.IsDestroyed() || !g.Active {
			continue
		}
		for _, box := range engine.GetComponents[*components.BoxCollider](g) {
			pose := engine.Pose{Position: box.GetCenter(), Rotation: g.WorldQuaternion()}
			out.Box(pose, box.GetWorldSize(), r.Palette.ColorFor(box.Material))
		}
		for _, s := range engine.GetComponents[*components.SphereCollider](g) {
			out.Sphere(s.GetCenter(), s.GetWorldRadius(), r.Palette.ColorFor(s.Material))
		}
		if !r.ShowPoints {
			continue
		}
		for _, p := range engine.GetComponents[*components.DmgPoint](g) {
			out.Sphere(p.WorldPosition(), PointRadius, r.PointColor)
		}
	}
}
